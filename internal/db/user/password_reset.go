package user

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	c "inboxflow/internal/core/domain/common"
	e "inboxflow/internal/core/domain/errors"
	"inboxflow/internal/core/domain/user"
	"inboxflow/internal/db"
	"time"

	"github.com/jackc/pgx/v4"
)

const ACTIVE_PASSWORD_RESET_CONSTRAINT_NAME = "password_reset_active_idx"

// PgxPasswordResetRepository stores tokens by their SHA-256 digest only.
type PgxPasswordResetRepository struct {
	db db.DBTX
}

func NewPgxPasswordResetRepository(dbtx db.DBTX) *PgxPasswordResetRepository {
	if dbtx == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxPasswordResetRepository{db: dbtx}
}

func hashToken(token user.PasswordResetToken) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (r *PgxPasswordResetRepository) Create(
	ctx context.Context,
	input user.CreatePasswordResetInput,
) (p user.PasswordReset, err error) {
	_, err = r.db.Exec(
		ctx,
		`INSERT INTO password_reset (token_hash, user_id, created_at, expires_at) VALUES ($1, $2, $3, $4)`,
		hashToken(input.Token),
		int64(input.UserID),
		input.CreatedAt,
		input.ExpiresAt,
	)
	if constraint, ok := db.UniqueViolation(err); ok && constraint == ACTIVE_PASSWORD_RESET_CONSTRAINT_NAME {
		return p, fmt.Errorf("user %d already has an unconsumed password reset token: %w", input.UserID, err)
	}
	if err != nil {
		return p, err
	}
	return user.PasswordReset{
		Token:     input.Token,
		UserID:    input.UserID,
		CreatedAt: input.CreatedAt,
		ExpiresAt: input.ExpiresAt,
	}, nil
}

// GetByTokenForUpdate locks the token row until the surrounding transaction ends.
func (r *PgxPasswordResetRepository) GetByTokenForUpdate(
	ctx context.Context,
	token user.PasswordResetToken,
) (p user.PasswordReset, err error) {
	var (
		userID     int64
		consumedAt *time.Time
	)
	err = r.db.QueryRow(
		ctx,
		`SELECT user_id, created_at, expires_at, consumed_at
		FROM password_reset WHERE token_hash = $1 FOR UPDATE`,
		hashToken(token),
	).Scan(&userID, &p.CreatedAt, &p.ExpiresAt, &consumedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return p, user.ErrPasswordResetTokenNotFound
	}
	if err != nil {
		return p, err
	}
	p.Token = token
	p.UserID = user.ID(userID)
	p.CreatedAt = p.CreatedAt.UTC()
	p.ExpiresAt = p.ExpiresAt.UTC()
	if consumedAt != nil {
		p.ConsumedAt = c.NewOptional(consumedAt.UTC(), true)
	}
	return p, nil
}

func (r *PgxPasswordResetRepository) MarkConsumed(
	ctx context.Context,
	token user.PasswordResetToken,
	at time.Time,
) error {
	tokenHash := hashToken(token)
	tag, err := r.db.Exec(
		ctx,
		`UPDATE password_reset SET consumed_at = $2 WHERE token_hash = $1 AND consumed_at IS NULL`,
		tokenHash,
		at,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	err = r.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM password_reset WHERE token_hash = $1)`,
		tokenHash,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return user.ErrPasswordResetTokenAlreadyUsed
	}
	return user.ErrPasswordResetTokenNotFound
}

func (r *PgxPasswordResetRepository) InvalidateActive(ctx context.Context, userID user.ID, at time.Time) (int64, error) {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE password_reset SET consumed_at = $2 WHERE user_id = $1 AND consumed_at IS NULL`,
		int64(userID),
		at,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PgxPasswordResetRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM password_reset WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
