package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("user not found")

func Create(ctx context.Context, db sqlx.ExtContext, usr User) error {
	const q = `
	INSERT INTO users
		(user_id, name, email, password_hash, role, created_at, updated_at)
	VALUES
		(:user_id, :name, :email, :password_hash, :role, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, usr); err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (User, error) {
	const q = `SELECT * FROM users WHERE user_id = $1`

	var usr User
	if err := sqlx.GetContext(ctx, db, &usr, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("selecting user[%s]: %w", id, err)
	}

	return usr, nil
}

func FetchByEmail(ctx context.Context, db sqlx.ExtContext, email string) (User, error) {
	const q = `SELECT * FROM users WHERE email = $1`

	var usr User
	if err := sqlx.GetContext(ctx, db, &usr, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("selecting user by email: %w", err)
	}

	return usr, nil
}

func List(ctx context.Context, db sqlx.ExtContext) ([]User, error) {
	const q = `SELECT * FROM users ORDER BY email`

	users := []User{}
	if err := sqlx.SelectContext(ctx, db, &users, q); err != nil {
		return nil, fmt.Errorf("selecting users: %w", err)
	}

	return users, nil
}

// SetLockedUntil writes the lockout deadline; a nil until unlocks.
func SetLockedUntil(ctx context.Context, db sqlx.ExtContext, id string, until *time.Time) error {
	const q = `
	UPDATE users SET
		locked_until = :locked_until,
		updated_at = :updated_at
	WHERE user_id = :user_id`

	data := struct {
		ID          string     `db:"user_id"`
		LockedUntil *time.Time `db:"locked_until"`
		UpdatedAt   time.Time  `db:"updated_at"`
	}{
		ID:          id,
		LockedUntil: until,
		UpdatedAt:   time.Now().UTC(),
	}

	if _, err := sqlx.NamedExecContext(ctx, db, q, data); err != nil {
		return fmt.Errorf("updating lock state of user[%s]: %w", id, err)
	}

	return nil
}

func Count(ctx context.Context, db sqlx.ExtContext) (int, error) {
	const q = `SELECT COUNT(*) FROM users`

	var n int
	if err := sqlx.GetContext(ctx, db, &n, q); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}

	return n, nil
}
