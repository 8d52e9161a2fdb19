package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/olive/canteen/internal/adapters/credentials"
	"github.com/olive/canteen/internal/client"
	domainauth "github.com/olive/canteen/internal/domain/auth"
	apperrors "github.com/olive/canteen/internal/errors"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var errNotLoggedIn = errors.New("not logged in")

func (c *cli) hashPasswordCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Read a password from stdin and print its bcrypt hash",
		Long: `Read one line from stdin and print a bcrypt hash for the password_hash
column of the credential table.

Example:
  printf 's3cret\n' | olive-admin hash-password`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readLine(cmd.InOrStdin())
			if err != nil {
				return err
			}
			hash, err := credentials.HashPassword(password, cost)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}

func (c *cli) loginCmd() *cobra.Command {
	var (
		username      string
		password      string
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start a session with a username and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if passwordStdin {
				var err error
				if password, err = readLine(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			app, err := c.app(cmd.Context(), true)
			if err != nil {
				return err
			}
			sess, err := app.Login(cmd.Context(), username, password)
			if err != nil {
				if apperrors.IsInvalidCredentials(err) {
					return errors.New(apperrors.PublicMessage(err))
				}
				return err
			}
			return writeJSON(cmd.OutOrStdout(), sess)
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("username")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.app(cmd.Context(), false)
			if err != nil {
				return err
			}
			return app.Logout()
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.app(cmd.Context(), false)
			if err != nil {
				return err
			}
			sess, ok := app.Current()
			if !ok {
				return errNotLoggedIn
			}
			return writeJSON(cmd.OutOrStdout(), sess)
		},
	}
}

func (c *cli) handoffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "handoff <location>",
		Short: "Consume the handoff URL a social login redirected to",
		Long: `Consume the location the portal redirected to after a Google or Zalo
login (for example "/#/cs?googleUser=...") and start a WORKER session.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.app(cmd.Context(), false)
			if err != nil {
				return err
			}
			cleaned, sess, err := app.ConsumeHandoff(args[0])
			if errors.Is(err, client.ErrNoHandoff) {
				return fmt.Errorf("%q carries no handoff", args[0])
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), struct {
				Session  domainauth.Session `json:"session"`
				Location string             `json:"location"`
			}{sess, cleaned})
		},
	}
}

func (c *cli) navigateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "navigate <path>",
		Short: "Print where the route guard sends the current session for path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.app(cmd.Context(), false)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), app.Navigate(args[0]))
		},
	}
}

func (c *cli) routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the route table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if _, err := fmt.Fprintln(tw, "PATTERN\tACCESS"); err != nil {
				return fmt.Errorf("write routes header row: %w", err)
			}
			for _, r := range domainauth.DefaultRoutes().Routes() {
				if _, err := fmt.Fprintf(tw, "%s\t%s\n", r.Pattern, access(r)); err != nil {
					return fmt.Errorf("write route row: %w", err)
				}
			}
			return tw.Flush()
		},
	}
}

func access(r domainauth.Route) string {
	if r.Public {
		return "public"
	}
	roles := make([]string, len(r.Roles))
	for i, role := range r.Roles {
		roles[i] = string(role)
	}
	return strings.Join(roles, ",")
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("no input on stdin")
	}
	return line, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
