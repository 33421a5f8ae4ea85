package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordPolicy(t *testing.T) {
	policy := NewPasswordPolicy(8)
	cases := []struct {
		id       string
		password string
		isValid  bool
	}{
		{id: "empty", password: "", isValid: false},
		{id: "too-short", password: "x", isValid: false},
		{id: "seven", password: "1234567", isValid: false},
		{id: "eight", password: "12345678", isValid: true},
		{id: "scenario", password: "NewPass123", isValid: true},
		{id: "multibyte", password: "пароль-пароль", isValid: true},
		{id: "too-long", password: strings.Repeat("a", PasswordMaxLength+1), isValid: false},
	}
	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			err := policy.Validate(RawPassword(testcase.password))
			if testcase.isValid {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrWeakPassword)
		})
	}
}

func TestPasswordPolicyMinLengthIsAtLeastOne(t *testing.T) {
	policy := NewPasswordPolicy(0)
	require.ErrorIs(t, policy.Validate(RawPassword("")), ErrWeakPassword)
	require.NoError(t, policy.Validate(RawPassword("x")))
}
