// Package mocks provides mock implementations for testing the access-control services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockUserRepository(ctrl)
//	mockRepo.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(user, nil)
package mocks

// Generate mock for UserRepository interface from internal/core package.
// This creates MockUserRepository with methods for all UserRepository interface methods:
// FindByEmail, GetByID, Create, Update, SetPasswordHash, Deactivate, List, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=user_repository_mock.go github.com/gestaocx/acesso-api/internal/core UserRepository

// Generate mock for SystemRepository interface from internal/core package.
// This creates MockSystemRepository with methods for all SystemRepository interface methods:
// Create, Update, GetByID, List, ListSummaries, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=system_repository_mock.go github.com/gestaocx/acesso-api/internal/core SystemRepository

// Generate mock for RoleRepository interface from internal/core package.
// This creates MockRoleRepository with methods for all RoleRepository interface methods:
// Create, Update, GetByID, List, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=role_repository_mock.go github.com/gestaocx/acesso-api/internal/core RoleRepository

// Generate mock for GrantRepository interface from internal/core package.
// This creates MockGrantRepository with methods for all GrantRepository interface methods:
// Grant, Revoke, ListForUser, ListSystemsForUser, ListAll
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=grant_repository_mock.go github.com/gestaocx/acesso-api/internal/core GrantRepository
