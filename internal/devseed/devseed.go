// Package devseed provides the demo manual-login accounts used in development.
package devseed

import (
	"context"
	"log/slog"

	"github.com/olive/canteen/internal/adapters/credentials"
	domainauth "github.com/olive/canteen/internal/domain/auth"
	"github.com/olive/canteen/internal/ports"
	"golang.org/x/crypto/bcrypt"
)

// Account is a demo login with its plaintext password.
type Account struct {
	Username         string
	Password         string
	SubjectID        string
	DisplayName      string
	Role             domainauth.Role
	ManagedKitchenID string
}

// Accounts returns the demo accounts.
func Accounts() []Account {
	return []Account{
		{
			Username:    "admin",
			Password:    "admin",
			SubjectID:   "admin_global",
			DisplayName: "Super Admin",
			Role:        domainauth.RoleAdmin,
		},
		{
			Username:         "manager_ss",
			Password:         "123",
			SubjectID:        "mgr_samsung",
			DisplayName:      "Quản Lý Samsung",
			Role:             domainauth.RoleKitchenManager,
			ManagedKitchenID: "k1",
		},
		{
			Username:         "manager_gt",
			Password:         "123",
			SubjectID:        "mgr_goertek",
			DisplayName:      "Quản Lý Goertek",
			Role:             domainauth.RoleKitchenManager,
			ManagedKitchenID: "k2",
		},
	}
}

// Options tunes Credentials.
type Options struct {
	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost   int
	Logger *slog.Logger
}

// Credentials hashes the demo accounts into credential rows. Accounts that
// fail to hash are logged and skipped.
func Credentials(ctx context.Context, opts Options) []ports.Credential {
	cost := opts.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	accounts := Accounts()
	rows := make([]ports.Credential, 0, len(accounts))
	for _, a := range accounts {
		hash, err := credentials.HashPassword(a.Password, cost)
		if err != nil {
			if opts.Logger != nil {
				opts.Logger.ErrorContext(ctx, "failed to hash demo account", "username", a.Username, "error", err)
			}
			continue
		}
		rows = append(rows, ports.Credential{
			Username:         a.Username,
			PasswordHash:     hash,
			SubjectID:        a.SubjectID,
			DisplayName:      a.DisplayName,
			Role:             a.Role,
			ManagedKitchenID: a.ManagedKitchenID,
		})
		if opts.Logger != nil {
			opts.Logger.InfoContext(ctx, "seeded demo account", "username", a.Username, "role", a.Role)
		}
	}
	return rows
}
