// Package mocks provides gomock-generated doubles for the auth ports and repositories.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	profiles := mocks.NewMockProfileReader(ctrl)
//	profiles.EXPECT().GetProfile(gomock.Any(), "u1").Return(profile, nil)
package mocks

// Generate mocks for ProfileReader, Navigator and AuthBackend from internal/ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=ports_mock.go github.com/target/clubdesk/internal/ports ProfileReader,Navigator,AuthBackend

// Generate mocks for the repository contracts in internal/core.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=core_mock.go github.com/target/clubdesk/internal/core TrainingSessionRepository,PreregistrationRepository
