package user

import (
	"context"
	c "inboxflow/internal/core/domain/common"
	"time"
)

type CreateUserInput struct {
	Email        c.Email
	Username     Username
	Name         string
	PasswordHash PasswordHash
	CreatedAt    time.Time
}

type UpdateUserInput struct {
	ID       ID
	Email    c.Optional[c.Email]
	Username c.Optional[Username]
	Name     c.Optional[string]
}

type UserRepository interface {
	Create(ctx context.Context, input CreateUserInput) (User, error)
	GetByID(ctx context.Context, id ID) (User, error)
	GetByEmail(ctx context.Context, email c.Email) (User, error)
	// GetByEmailForUpdate locks the user row until the surrounding transaction ends.
	GetByEmailForUpdate(ctx context.Context, email c.Email) (User, error)
	Update(ctx context.Context, input UpdateUserInput) (User, error)
	SetPassword(ctx context.Context, id ID, password PasswordHash) error
}

type CreateSessionInput struct {
	UserID    ID
	Token     SessionToken
	CreatedAt time.Time
	ExpiresAt time.Time
}

type SessionRepository interface {
	Create(ctx context.Context, input CreateSessionInput) (Session, error)
	GetByToken(ctx context.Context, token SessionToken) (Session, error)
	Delete(ctx context.Context, token SessionToken) (userID ID, err error)
	DeleteByUserID(ctx context.Context, userID ID) (count int64, err error)
	DeleteExpired(ctx context.Context, now time.Time) (count int64, err error)
}

type CreatePasswordResetInput struct {
	UserID    ID
	Token     PasswordResetToken
	CreatedAt time.Time
	ExpiresAt time.Time
}

type PasswordResetRepository interface {
	Create(ctx context.Context, input CreatePasswordResetInput) (PasswordReset, error)
	// GetByTokenForUpdate locks the token row until the surrounding transaction ends.
	GetByTokenForUpdate(ctx context.Context, token PasswordResetToken) (PasswordReset, error)
	// MarkConsumed succeeds only for a token that has not been consumed yet,
	// otherwise ErrPasswordResetTokenAlreadyUsed is returned.
	MarkConsumed(ctx context.Context, token PasswordResetToken, at time.Time) error
	// InvalidateActive marks every unconsumed token of the user as consumed.
	InvalidateActive(ctx context.Context, userID ID, at time.Time) (count int64, err error)
	DeleteExpired(ctx context.Context, now time.Time) (count int64, err error)
}
