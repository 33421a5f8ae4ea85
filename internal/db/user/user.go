package user

import (
	"context"
	"errors"
	c "inboxflow/internal/core/domain/common"
	e "inboxflow/internal/core/domain/errors"
	"inboxflow/internal/core/domain/user"
	"inboxflow/internal/db"

	"github.com/jackc/pgx/v4"
)

const (
	EMAIL_CONSTRAINT_NAME    = "user_email_idx"
	USERNAME_CONSTRAINT_NAME = "user_username_idx"
)

const userColumns = `id, email, username, name, password_hash, created_at`

type PgxUserRepository struct {
	db db.DBTX
}

func NewPgxRepository(dbtx db.DBTX) *PgxUserRepository {
	if dbtx == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxUserRepository{db: dbtx}
}

func (r *PgxUserRepository) Create(ctx context.Context, input user.CreateUserInput) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO "user" (email, username, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		string(input.Email),
		string(input.Username),
		input.Name,
		string(input.PasswordHash),
		input.CreatedAt,
	)
	u, err = scanUser(row)
	if err != nil {
		return u, mapConflict(err)
	}
	return u, u.Validate()
}

func (r *PgxUserRepository) GetByID(ctx context.Context, id user.ID) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM "user" WHERE id = $1`, int64(id))
	return scanExistingUser(row)
}

func (r *PgxUserRepository) GetByEmail(ctx context.Context, email c.Email) (user.User, error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM "user" WHERE lower(email) = lower($1)`,
		string(email),
	)
	return scanExistingUser(row)
}

// GetByEmailForUpdate locks the user row until the surrounding transaction ends.
func (r *PgxUserRepository) GetByEmailForUpdate(ctx context.Context, email c.Email) (user.User, error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM "user" WHERE lower(email) = lower($1) FOR UPDATE`,
		string(email),
	)
	return scanExistingUser(row)
}

func (r *PgxUserRepository) Update(ctx context.Context, input user.UpdateUserInput) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`UPDATE "user" SET
			email = COALESCE($2, email),
			username = COALESCE($3, username),
			name = COALESCE($4, name)
		WHERE id = $1
		RETURNING `+userColumns,
		int64(input.ID),
		encodeOptional(input.Email),
		encodeOptional(input.Username),
		encodeOptional(input.Name),
	)
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, mapConflict(err)
	}
	return u, u.Validate()
}

func (r *PgxUserRepository) SetPassword(ctx context.Context, id user.ID, password user.PasswordHash) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE "user" SET password_hash = $2 WHERE id = $1`,
		int64(id),
		string(password),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func mapConflict(err error) error {
	constraint, ok := db.UniqueViolation(err)
	if !ok {
		return err
	}
	switch constraint {
	case EMAIL_CONSTRAINT_NAME:
		return user.ErrEmailAlreadyExists
	case USERNAME_CONSTRAINT_NAME:
		return user.ErrUsernameAlreadyExists
	}
	return err
}

func encodeOptional[T ~string](value c.Optional[T]) *string {
	if !value.IsPresent {
		return nil
	}
	s := string(value.Value)
	return &s
}

func scanExistingUser(row pgx.Row) (u user.User, err error) {
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}
	return u, u.Validate()
}

func scanUser(row pgx.Row) (u user.User, err error) {
	var (
		id           int64
		email        string
		username     string
		passwordHash string
	)
	err = row.Scan(&id, &email, &username, &u.Name, &passwordHash, &u.CreatedAt)
	if err != nil {
		return u, err
	}
	u.ID = user.ID(id)
	u.Email = c.Email(email)
	u.Username = user.Username(username)
	u.PasswordHash = user.PasswordHash(passwordHash)
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}
