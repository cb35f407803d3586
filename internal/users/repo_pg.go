package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, user User) (User, error) {
	const query = `
INSERT INTO users (id, username, password)
VALUES ($1, $2, $3)`
	user.ID = uuid.NewString()
	if _, err := r.DB.ExecContext(ctx, query, user.ID, user.Username, user.Password); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, ErrUsernameTaken
		}
		return User{}, err
	}
	return user, nil
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return User{}, ErrNotFound
	}
	const query = `SELECT id, username, password FROM users WHERE id = $1`
	return r.getOne(ctx, query, userID)
}

func (r *PGRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	const query = `SELECT id, username, password FROM users WHERE username = $1`
	return r.getOne(ctx, query, username)
}

func (r *PGRepo) getOne(ctx context.Context, query string, arg string) (User, error) {
	var u User
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}
