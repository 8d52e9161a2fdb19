package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/olive/canteen/config"
	"github.com/olive/canteen/internal/adapters/mirror"
	"github.com/olive/canteen/internal/bootstrap"
	"github.com/olive/canteen/internal/client"
	"github.com/olive/canteen/internal/session"
	"github.com/spf13/cobra"
)

// cliEnv carries the process surroundings so tests can substitute them.
type cliEnv struct {
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	configDir func() (string, error)
	// seedCost overrides the bcrypt cost of the demo accounts.
	seedCost int
}

func defaultEnv() cliEnv {
	return cliEnv{
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		configDir: os.UserConfigDir,
	}
}

type rootOptions struct {
	sessionFile     string
	credentialsFile string
	seedDev         bool
	verbose         bool
}

// cli is shared by every subcommand.
type cli struct {
	env    cliEnv
	opts   rootOptions
	auth   config.AuthConfig
	logger *slog.Logger
}

func newRootCmd(e cliEnv) *cobra.Command {
	c := &cli{env: e}

	root := &cobra.Command{
		Use:   "olive-admin",
		Short: "Inspect and drive the canteen portal session from a terminal",
		Long: `olive-admin runs the same session rules as the portal: manual logins
against the credential table, identity handoffs from social logins, and the
role-based route guard. The session is kept in a file (--session-file) and
lasts until "olive-admin logout".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd)
		},
	}
	root.SetIn(e.stdin)
	root.SetOut(e.stdout)
	root.SetErr(e.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&c.opts.sessionFile, "session-file", "",
		"session snapshot file (default $XDG_CONFIG_HOME/olive/olive_user.json)")
	flags.StringVar(&c.opts.credentialsFile, "credentials-file", "",
		"YAML credential table (default $CREDENTIALS_FILE)")
	flags.BoolVar(&c.opts.seedDev, "seed-dev", false, "include the demo accounts (default $CREDENTIALS_SEED_DEV)")
	flags.BoolVarP(&c.opts.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		c.hashPasswordCmd(),
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.handoffCmd(),
		c.navigateCmd(),
		c.routesCmd(),
	)
	return root
}

func (c *cli) init(cmd *cobra.Command) error {
	level := slog.LevelWarn
	if c.opts.verbose {
		level = slog.LevelDebug
	}
	c.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return fmt.Errorf("load .env file: %w", err)
		}
	}
	if err := env.Parse(&c.auth); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	c.auth.Sanitize()

	if cmd.Flags().Changed("credentials-file") {
		c.auth.CredentialsFile = c.opts.credentialsFile
	}
	if cmd.Flags().Changed("seed-dev") {
		c.auth.SeedDevCredentials = c.opts.seedDev
	}

	if c.opts.sessionFile == "" {
		dir, err := c.env.configDir()
		if err != nil {
			return fmt.Errorf("locate config dir (use --session-file): %w", err)
		}
		c.opts.sessionFile = filepath.Join(dir, "olive", session.SnapshotKey+".json")
	}
	return nil
}

// app builds a client over the session file. The credential table is only
// loaded when withCredentials is set, so commands that never log in do not
// need one.
func (c *cli) app(ctx context.Context, withCredentials bool) (*client.App, error) {
	opts := session.MaterializerOptions{}
	if withCredentials {
		table, err := bootstrap.BuildCredentialStore(ctx, bootstrap.CredentialOptions{
			Auth:     c.auth,
			Logger:   c.logger,
			SeedCost: c.env.seedCost,
		})
		if err != nil {
			return nil, err
		}
		opts.Credentials = table
	}

	store := session.NewStore(session.StoreOptions{
		Mirror: mirror.NewFile(c.opts.sessionFile),
		Logger: c.logger,
	})
	app := client.New(client.Options{
		Store:        store,
		Materializer: session.NewMaterializer(opts),
		Logger:       c.logger,
	})
	app.Bootstrap()
	return app, nil
}
