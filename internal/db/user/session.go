package user

import (
	"context"
	"errors"
	e "inboxflow/internal/core/domain/errors"
	"inboxflow/internal/core/domain/user"
	"inboxflow/internal/db"
	"time"

	"github.com/jackc/pgx/v4"
)

type PgxSessionRepository struct {
	db db.DBTX
}

func NewPgxSessionRepository(dbtx db.DBTX) *PgxSessionRepository {
	if dbtx == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxSessionRepository{db: dbtx}
}

func (r *PgxSessionRepository) Create(ctx context.Context, input user.CreateSessionInput) (s user.Session, err error) {
	_, err = r.db.Exec(
		ctx,
		`INSERT INTO session (token, user_id, created_at, expires_at) VALUES ($1, $2, $3, $4)`,
		string(input.Token),
		int64(input.UserID),
		input.CreatedAt,
		input.ExpiresAt,
	)
	if err != nil {
		return s, err
	}
	return user.Session{
		Token:     input.Token,
		UserID:    input.UserID,
		CreatedAt: input.CreatedAt,
		ExpiresAt: input.ExpiresAt,
	}, nil
}

func (r *PgxSessionRepository) GetByToken(ctx context.Context, token user.SessionToken) (s user.Session, err error) {
	var userID int64
	err = r.db.QueryRow(
		ctx,
		`SELECT user_id, created_at, expires_at FROM session WHERE token = $1`,
		string(token),
	).Scan(&userID, &s.CreatedAt, &s.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return s, user.ErrSessionDoesNotExist
	}
	if err != nil {
		return s, err
	}
	s.Token = token
	s.UserID = user.ID(userID)
	s.CreatedAt = s.CreatedAt.UTC()
	s.ExpiresAt = s.ExpiresAt.UTC()
	return s, nil
}

func (r *PgxSessionRepository) Delete(ctx context.Context, token user.SessionToken) (userID user.ID, err error) {
	var rawUserID int64
	err = r.db.QueryRow(
		ctx,
		`DELETE FROM session WHERE token = $1 RETURNING user_id`,
		string(token),
	).Scan(&rawUserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return userID, user.ErrSessionDoesNotExist
	}
	if err != nil {
		return userID, err
	}
	return user.ID(rawUserID), nil
}

func (r *PgxSessionRepository) DeleteByUserID(ctx context.Context, userID user.ID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM session WHERE user_id = $1`, int64(userID))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PgxSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM session WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
