package user

import (
	c "inboxflow/internal/core/domain/common"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPasswordResetCheckUsable(t *testing.T) {
	issuedAt := time.Date(2020, 1, 1, 15, 0, 0, 0, time.UTC)
	expiresAt := issuedAt.Add(time.Hour)

	cases := []struct {
		id         string
		consumedAt c.Optional[time.Time]
		now        time.Time
		expected   error
	}{
		{
			id:       "active",
			now:      issuedAt.Add(time.Minute),
			expected: nil,
		},
		{
			id:       "exactly-at-expiry",
			now:      expiresAt,
			expected: nil,
		},
		{
			id:       "expired",
			now:      expiresAt.Add(time.Second),
			expected: ErrPasswordResetTokenExpired,
		},
		{
			id:         "consumed",
			consumedAt: c.NewOptional(issuedAt.Add(time.Minute), true),
			now:        issuedAt.Add(2 * time.Minute),
			expected:   ErrPasswordResetTokenAlreadyUsed,
		},
		{
			id:         "consumed-and-expired",
			consumedAt: c.NewOptional(issuedAt.Add(time.Minute), true),
			now:        expiresAt.Add(time.Hour),
			expected:   ErrPasswordResetTokenAlreadyUsed,
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			reset := PasswordReset{
				Token:      PasswordResetToken("test"),
				UserID:     ID(1),
				CreatedAt:  issuedAt,
				ExpiresAt:  expiresAt,
				ConsumedAt: testcase.consumedAt,
			}
			err := reset.CheckUsable(testcase.now)
			if testcase.expected == nil {
				require.NoError(t, err)
				require.True(t, reset.IsActive(testcase.now))
				return
			}
			require.ErrorIs(t, err, testcase.expected)
			require.False(t, reset.IsActive(testcase.now))
		})
	}
}
