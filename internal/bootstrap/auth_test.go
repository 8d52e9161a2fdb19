package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/olive/canteen/config"
	"github.com/olive/canteen/internal/adapters/credentials"
	"github.com/olive/canteen/internal/adapters/devauth"
	"github.com/olive/canteen/internal/adapters/google"
	"github.com/olive/canteen/internal/adapters/memory"
	"github.com/olive/canteen/internal/adapters/zalo"
	domainauth "github.com/olive/canteen/internal/domain/auth"
	"github.com/olive/canteen/internal/ports"
	"github.com/olive/canteen/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBuildIdentityProviders(t *testing.T) {
	t.Run("oauth mode builds the real adapters", func(t *testing.T) {
		provs, err := BuildIdentityProviders(config.AuthConfig{Mode: config.AuthModeOAuth})
		require.NoError(t, err)
		require.Len(t, provs, 2)
		assert.IsType(t, &google.Provider{}, provs[0])
		assert.IsType(t, &zalo.Provider{}, provs[1])

		// Missing registrations surface per request, not at startup.
		assert.Error(t, provs[0].CheckCredentials(ports.StageBegin))
		assert.Error(t, provs[1].CheckCredentials(ports.StageBegin))
	})

	t.Run("mock mode redirects to our own callbacks", func(t *testing.T) {
		provs, err := BuildIdentityProviders(config.AuthConfig{
			Mode:    config.AuthModeMock,
			DevAuth: config.DevAuthConfig{UserID: "dev-1", Name: "Dev"},
		})
		require.NoError(t, err)
		require.Len(t, provs, 2)

		for _, p := range provs {
			assert.IsType(t, &devauth.Provider{}, p)
			u, err := p.Begin(context.Background(), ports.BeginInput{State: "s1"})
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(u, CallbackPath(p.Name())+"?"), u)

			profile, err := p.Exchange(context.Background(), ports.ExchangeInput{Code: "dev"})
			require.NoError(t, err)
			assert.Equal(t, "dev-1", profile.ID)
		}
	})

	t.Run("mock mode needs a dev user id", func(t *testing.T) {
		_, err := BuildIdentityProviders(config.AuthConfig{Mode: config.AuthModeMock})
		assert.Error(t, err)
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := BuildIdentityProviders(config.AuthConfig{Mode: "saml"})
		assert.Error(t, err)
	})
}

func TestCallbackPath(t *testing.T) {
	assert.Equal(t, "/api/auth/zalo/callback", CallbackPath(domainauth.ProviderZalo))
}

func TestBuildSessionKeys(t *testing.T) {
	ctx := context.Background()
	logger := testutil.DiscardLogger()

	keys, err := BuildSessionKeys(ctx, config.AuthConfig{SessionSecret: "configured-secret"}, logger)
	require.NoError(t, err)
	assert.Equal(t, []byte("configured-secret"), keys.Hash)
	assert.Nil(t, keys.Block)
	assert.False(t, keys.Ephemeral)

	keys, err = BuildSessionKeys(ctx, config.AuthConfig{SessionEncryptionKey: "0123456789abcdef"}, logger)
	require.NoError(t, err)
	assert.Len(t, keys.Hash, sessionKeyBytes)
	assert.Len(t, keys.Block, 16)
	assert.True(t, keys.Ephemeral)

	other, err := BuildSessionKeys(ctx, config.AuthConfig{}, logger)
	require.NoError(t, err)
	assert.NotEqual(t, keys.Hash, other.Hash)
}

func TestBuildPendingLoginStore_Memory(t *testing.T) {
	cfg := &config.AppConfig{Auth: config.AuthConfig{StateStore: config.StateStoreMemory}}
	backend, err := BuildPendingLoginStore(context.Background(), cfg, testutil.DiscardLogger())
	require.NoError(t, err)
	assert.IsType(t, &memory.PendingLoginStore{}, backend.Store)
	assert.NoError(t, backend.Close())
}

func TestBuildPendingLoginStore_RedisUnreachable(t *testing.T) {
	cfg := &config.AppConfig{
		Auth:  config.AuthConfig{StateStore: config.StateStoreRedis},
		Redis: config.RedisConfig{URI: "127.0.0.1:1"},
	}
	_, err := BuildPendingLoginStore(context.Background(), cfg, testutil.DiscardLogger())
	assert.Error(t, err)
}

func TestBuildCredentialStore(t *testing.T) {
	ctx := context.Background()
	logger := testutil.DiscardLogger()

	hash, err := credentials.HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "users.yaml")
	yaml := "users:\n" +
		"  - username: chef\n" +
		"    password_hash: " + hash + "\n" +
		"    id: chef_1\n" +
		"    name: Chef\n" +
		"    role: KITCHEN_MANAGER\n" +
		"    managed_kitchen_id: k3\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Run("file only", func(t *testing.T) {
		table, err := BuildCredentialStore(ctx, CredentialOptions{
			Auth:   config.AuthConfig{CredentialsFile: path},
			Logger: logger,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, table.Len())
		_, ok, _ := table.Lookup(ctx, "admin")
		assert.False(t, ok)
	})

	t.Run("file plus demo accounts", func(t *testing.T) {
		table, err := BuildCredentialStore(ctx, CredentialOptions{
			Auth:     config.AuthConfig{CredentialsFile: path, SeedDevCredentials: true},
			Logger:   logger,
			SeedCost: bcrypt.MinCost,
		})
		require.NoError(t, err)
		assert.Equal(t, 4, table.Len())
		row, ok, _ := table.Lookup(ctx, "manager_ss")
		require.True(t, ok)
		assert.Equal(t, "k1", row.ManagedKitchenID)
	})

	t.Run("nothing configured", func(t *testing.T) {
		table, err := BuildCredentialStore(ctx, CredentialOptions{Logger: logger})
		require.NoError(t, err)
		assert.Equal(t, 0, table.Len())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := BuildCredentialStore(ctx, CredentialOptions{
			Auth: config.AuthConfig{CredentialsFile: filepath.Join(t.TempDir(), "nope.yaml")},
		})
		assert.Error(t, err)
	})
}
