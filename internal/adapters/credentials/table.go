package credentials

// Package credentials loads the static manual-login table. Passwords are
// stored as bcrypt hashes; plaintext never touches disk.

import (
	"context"
	"errors"
	"fmt"
	"os"

	domainauth "github.com/olive/canteen/internal/domain/auth"
	"github.com/olive/canteen/internal/ports"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// file is the on-disk YAML shape.
type file struct {
	Users []ports.Credential `yaml:"users"`
}

// Table is an immutable credential table keyed by username.
type Table struct {
	rows map[string]ports.Credential
}

var _ ports.CredentialStore = (*Table)(nil)

// NewTable validates rows and builds a Table.
func NewTable(rows ...ports.Credential) (*Table, error) {
	t := &Table{rows: make(map[string]ports.Credential, len(rows))}
	for i, row := range rows {
		if err := validate(row); err != nil {
			return nil, fmt.Errorf("credential %d (%q): %w", i, row.Username, err)
		}
		if _, dup := t.rows[row.Username]; dup {
			return nil, fmt.Errorf("credential %d: duplicate username %q", i, row.Username)
		}
		t.rows[row.Username] = row
	}
	return t, nil
}

// Parse reads a YAML credential table.
func Parse(data []byte) (*Table, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return NewTable(f.Users...)
}

// Load reads a YAML credential table from path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	return Parse(data)
}

// Merge returns a table containing t's rows plus rows; usernames must not collide.
func (t *Table) Merge(rows ...ports.Credential) (*Table, error) {
	all := make([]ports.Credential, 0, len(t.rows)+len(rows))
	for _, r := range t.rows {
		all = append(all, r)
	}
	return NewTable(append(all, rows...)...)
}

// Len reports the number of rows.
func (t *Table) Len() int { return len(t.rows) }

func (t *Table) Lookup(_ context.Context, username string) (ports.Credential, bool, error) {
	row, ok := t.rows[username]
	return row, ok, nil
}

// HashPassword returns a bcrypt hash suitable for the password_hash column.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func validate(row ports.Credential) error {
	switch {
	case row.Username == "":
		return errors.New("username is required")
	case row.PasswordHash == "":
		return errors.New("password_hash is required")
	case !row.Role.Valid():
		return fmt.Errorf("unknown role %q", row.Role)
	case row.Role == domainauth.RoleKitchenManager && row.ManagedKitchenID == "":
		return errors.New("kitchen managers need managed_kitchen_id")
	case row.Role != domainauth.RoleKitchenManager && row.ManagedKitchenID != "":
		return errors.New("managed_kitchen_id is only valid for kitchen managers")
	}
	if _, err := bcrypt.Cost([]byte(row.PasswordHash)); err != nil {
		return fmt.Errorf("password_hash is not a bcrypt hash: %w", err)
	}
	return nil
}
