package user

import "errors"

// Repository-level errors
var (
	ErrUserNotFound = errors.New("user not found")

	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")

	ErrInvalidToken = errors.New("invalid or expired token")
	ErrUserInactive = errors.New("user account is inactive")
)

// Service-level errors
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSamePassword       = errors.New("new password cannot be same as current password")
	ErrPasswordMismatch   = errors.New("passwords do not match")

	ErrUnauthorized = errors.New("unauthorized access")
	ErrInvalidRole  = errors.New("invalid user role")
)
