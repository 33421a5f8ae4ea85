package user

import (
	"fmt"
	e "inboxflow/internal/core/domain/errors"
	"unicode/utf8"
)

const PasswordMaxLength = 256

type PasswordPolicy struct {
	MinLength int
}

func NewPasswordPolicy(minLength int) PasswordPolicy {
	if minLength < 1 {
		minLength = 1
	}
	return PasswordPolicy{MinLength: minLength}
}

// Validate returns an error wrapping ErrWeakPassword if the password is rejected.
func (p PasswordPolicy) Validate(password RawPassword) error {
	length := utf8.RuneCountInString(string(password))
	if length == 0 {
		return e.NewValidationError("password", "must not be empty", ErrWeakPassword)
	}
	if length < p.MinLength {
		return e.NewValidationError(
			"password",
			fmt.Sprintf("must be at least %d characters long", p.MinLength),
			ErrWeakPassword,
		)
	}
	if length > PasswordMaxLength {
		return e.NewValidationError(
			"password",
			fmt.Sprintf("must be at most %d characters long", PasswordMaxLength),
			ErrWeakPassword,
		)
	}
	return nil
}
