package user

import (
	"context"
	c "inboxflow/internal/core/domain/common"
	"time"
)

// PasswordResetToken is the secret handed to the user. It must never be logged.
type PasswordResetToken string

func (t PasswordResetToken) String() string {
	return "***"
}

type PasswordReset struct {
	Token      PasswordResetToken
	UserID     ID
	CreatedAt  time.Time
	ExpiresAt  time.Time
	ConsumedAt c.Optional[time.Time]
}

func (r *PasswordReset) IsConsumed() bool {
	return r.ConsumedAt.IsPresent
}

func (r *PasswordReset) IsExpired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

func (r *PasswordReset) IsActive(now time.Time) bool {
	return !r.IsConsumed() && !r.IsExpired(now)
}

// CheckUsable reports why the token cannot be exchanged for a new password.
// A consumed token is reported as used even when it has expired as well.
func (r *PasswordReset) CheckUsable(now time.Time) error {
	if r.IsConsumed() {
		return ErrPasswordResetTokenAlreadyUsed
	}
	if r.IsExpired(now) {
		return ErrPasswordResetTokenExpired
	}
	return nil
}

type PasswordResetTokenGenerator interface {
	GeneratePasswordResetToken() PasswordResetToken
}

type PasswordResetTokenSender interface {
	SendPasswordResetToken(ctx context.Context, user User, token PasswordResetToken) error
}
