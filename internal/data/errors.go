package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUserEmailTaken = errors.New("email already registered")

	ErrSystemNotFound   = errors.New("system not found")
	ErrSystemSiglaTaken = errors.New("system short key already exists")

	ErrRoleNotFound = errors.New("role not found")

	ErrGrantNotFound = errors.New("permission edge not found")
)
