// Package mocks provides gomock implementations of the ports interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockPendingLoginStore(ctrl)
//	store.EXPECT().Take(gomock.Any(), "state").Return(ports.PendingLogin{}, ports.ErrPendingLoginNotFound)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=identity_provider_mock.go github.com/olive/canteen/internal/ports IdentityProvider
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=pending_login_store_mock.go github.com/olive/canteen/internal/ports PendingLoginStore
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=credential_store_mock.go github.com/olive/canteen/internal/ports CredentialStore
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=snapshot_mirror_mock.go github.com/olive/canteen/internal/ports SnapshotMirror
