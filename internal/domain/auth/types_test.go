package auth

import (
	"errors"
	"testing"
)

func TestSession_Validate(t *testing.T) {
	valid := Session{
		SubjectID:   "42",
		DisplayName: "An",
		Provider:    ProviderGoogle,
		Role:        RoleWorker,
	}

	tests := []struct {
		name   string
		mutate func(*Session)
		want   error
	}{
		{name: "valid social worker", mutate: func(*Session) {}},
		{name: "missing subject", mutate: func(s *Session) { s.SubjectID = "" }, want: ErrMissingSubject},
		{name: "missing display name", mutate: func(s *Session) { s.DisplayName = "" }, want: ErrMissingDisplayName},
		{name: "unknown provider", mutate: func(s *Session) { s.Provider = "github" }, want: ErrUnknownProvider},
		{name: "unknown role", mutate: func(s *Session) { s.Role = "OWNER" }, want: ErrUnknownRole},
		{name: "elevated zalo session", mutate: func(s *Session) {
			s.Provider = ProviderZalo
			s.Role = RoleAdmin
		}, want: ErrElevatedSocialRole},
		{name: "kitchen on admin", mutate: func(s *Session) {
			s.Provider = ProviderManual
			s.Role = RoleAdmin
			s.ManagedKitchenID = "k1"
		}, want: ErrUnexpectedKitchen},
		{name: "manual manager with kitchen", mutate: func(s *Session) {
			s.Provider = ProviderManual
			s.Role = RoleKitchenManager
			s.ManagedKitchenID = "k1"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			if err := s.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseProvider(t *testing.T) {
	if p, err := ParseProvider("zalo"); err != nil || p != ProviderZalo {
		t.Fatalf("ParseProvider(zalo) = %q, %v", p, err)
	}
	if _, err := ParseProvider("manual"); err == nil {
		t.Fatalf("manual is not a social provider")
	}
	if _, err := ParseProvider(""); err == nil {
		t.Fatalf("expected error for empty provider")
	}
}
