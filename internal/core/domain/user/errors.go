package user

import (
	"errors"
)

var (
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrUserDoesNotExist      = errors.New("user does not exist")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrWeakPassword          = errors.New("password does not satisfy the password policy")
)

var (
	ErrNoSession           = errors.New("session credential is not provided")
	ErrInvalidSession      = errors.New("invalid session")
	ErrExpiredSession      = errors.New("session has expired")
	ErrSessionDoesNotExist = errors.New("session does not exist")
)

var (
	ErrPasswordResetTokenNotFound     = errors.New("password reset token not found")
	ErrPasswordResetTokenExpired      = errors.New("password reset token has expired")
	ErrPasswordResetTokenAlreadyUsed  = errors.New("password reset token has already been used")
	ErrPasswordResetTokenNotDelivered = errors.New("password reset token could not be delivered")
)
