package users

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRole         = errors.New("invalid role")
	ErrEmployeeIDExhausted = errors.New("could not allocate employee id")
	ErrPasswordTooLong     = errors.New("password exceeds 72 bytes")
)
