package testutil

import (
	domainauth "github.com/olive/canteen/internal/domain/auth"
)

// SessionBuilder provides a fluent interface for building sessions in tests.
type SessionBuilder struct {
	s domainauth.Session
}

// NewWorkerSession starts from a valid Google worker session.
func NewWorkerSession() *SessionBuilder {
	return &SessionBuilder{s: domainauth.Session{
		SubjectID:   "worker-1",
		DisplayName: "Test Worker",
		AvatarURL:   "https://example.com/worker.png",
		Provider:    domainauth.ProviderGoogle,
		Role:        domainauth.RoleWorker,
	}}
}

// NewManagerSession starts from a valid manual kitchen-manager session for kitchenID.
func NewManagerSession(kitchenID string) *SessionBuilder {
	return &SessionBuilder{s: domainauth.Session{
		SubjectID:        "mgr-" + kitchenID,
		DisplayName:      "Test Manager",
		AvatarURL:        "https://example.com/manager.png",
		Provider:         domainauth.ProviderManual,
		Role:             domainauth.RoleKitchenManager,
		ManagedKitchenID: kitchenID,
	}}
}

// NewAdminSession starts from a valid manual admin session.
func NewAdminSession() *SessionBuilder {
	return &SessionBuilder{s: domainauth.Session{
		SubjectID:   "admin_global",
		DisplayName: "Super Admin",
		AvatarURL:   "https://example.com/admin.png",
		Provider:    domainauth.ProviderManual,
		Role:        domainauth.RoleAdmin,
	}}
}

// WithSubject sets the subject id.
func (b *SessionBuilder) WithSubject(id string) *SessionBuilder {
	b.s.SubjectID = id
	return b
}

// WithProvider sets the provider.
func (b *SessionBuilder) WithProvider(p domainauth.Provider) *SessionBuilder {
	b.s.Provider = p
	return b
}

// WithEmail sets the email address.
func (b *SessionBuilder) WithEmail(email string) *SessionBuilder {
	b.s.EmailAddress = email
	return b
}

// Build returns the session.
func (b *SessionBuilder) Build() domainauth.Session {
	return b.s
}

// BuildPtr returns a pointer to a copy of the session.
func (b *SessionBuilder) BuildPtr() *domainauth.Session {
	s := b.s
	return &s
}
