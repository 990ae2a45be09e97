package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"libraryapi/internal/entity"
	"libraryapi/internal/usecase"
)

type UserSQLite struct {
	db      *sql.DB
	timeout time.Duration
}

func NewUserSQLite(db *sql.DB, timeout time.Duration) *UserSQLite {
	return &UserSQLite{db: db, timeout: timeout}
}

func (r *UserSQLite) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *UserSQLite) Create(ctx context.Context, u *entity.User) error {
	const query = `
		INSERT INTO users (name, email, password_hash, role)
		VALUES (?, ?, ?, COALESCE(NULLIF(?, ''), 'READER'))
		RETURNING id, role, created_at, updated_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRowContext(timeoutCtx, query, u.Name, u.Email, u.Password, u.Role).
		Scan(&u.ID, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if isSQLiteConstraint(err, "UNIQUE constraint failed") {
		return fmt.Errorf("%w: email already registered", usecase.ErrConflict)
	}
	return mapSQLiteError(err)
}

func (r *UserSQLite) GetByID(ctx context.Context, id int64) (entity.User, error) {
	const query = `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM users WHERE id = ? LIMIT 1`

	var u entity.User
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRowContext(timeoutCtx, query, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.User{}, usecase.ErrNotFound
	}
	if err != nil {
		return entity.User{}, mapSQLiteError(err)
	}
	return u, nil
}

func (r *UserSQLite) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	const query = `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM users WHERE email = ? LIMIT 1`

	var u entity.User
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRowContext(timeoutCtx, query, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.User{}, usecase.ErrNotFound
	}
	if err != nil {
		return entity.User{}, mapSQLiteError(err)
	}
	return u, nil
}

func (r *UserSQLite) List(ctx context.Context) ([]entity.User, error) {
	const query = `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM users ORDER BY name ASC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(timeoutCtx, query)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	var out []entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, mapSQLiteError(err)
		}
		out = append(out, u)
	}
	return out, mapSQLiteError(rows.Err())
}

func (r *UserSQLite) Update(ctx context.Context, id int64, updates map[string]any) (entity.User, error) {
	query, args, ok := buildSQLiteUpdate("users", updates, []string{"name", "email", "password_hash", "role"}, id,
		"id, name, email, password_hash, role, created_at, updated_at")
	if !ok {
		return r.GetByID(ctx, id)
	}
	var u entity.User
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRowContext(timeoutCtx, query, args...).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.User{}, usecase.ErrNotFound
	}
	if isSQLiteConstraint(err, "UNIQUE constraint failed") {
		return entity.User{}, fmt.Errorf("%w: email already registered", usecase.ErrConflict)
	}
	if err != nil {
		return entity.User{}, mapSQLiteError(err)
	}
	return u, nil
}

func (r *UserSQLite) Delete(ctx context.Context, id int64) error {
	return sqliteDelete(ctx, r.db, r.timeout, "users", id, "user has loans")
}
