package auth

import "errors"

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token is expired")
	ErrMissingField = errors.New("email and password are required")
)
