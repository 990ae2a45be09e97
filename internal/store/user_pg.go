package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/entity"
	"libraryapi/internal/usecase"
)

type UserPG struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewUserPG(db *pgxpool.Pool, timeout time.Duration) *UserPG {
	return &UserPG{db: db, timeout: timeout}
}

func (r *UserPG) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *UserPG) Create(ctx context.Context, u *entity.User) error {
	const query = `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, COALESCE(NULLIF($4, ''), 'READER'))
		RETURNING id, role, created_at, updated_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, u.Name, u.Email, u.Password, u.Role).
		Scan(&u.ID, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if pgCode(err) == pgUniqueViolation {
		return fmt.Errorf("%w: email already registered", usecase.ErrConflict)
	}
	return mapPGError(err)
}

func (r *UserPG) GetByID(ctx context.Context, id int64) (entity.User, error) {
	const query = `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM users WHERE id = $1 LIMIT 1`

	var u entity.User
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.User{}, usecase.ErrNotFound
	}
	if err != nil {
		return entity.User{}, mapPGError(err)
	}
	return u, nil
}

func (r *UserPG) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	const query = `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM users WHERE email = $1 LIMIT 1`

	var u entity.User
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.User{}, usecase.ErrNotFound
	}
	if err != nil {
		return entity.User{}, mapPGError(err)
	}
	return u, nil
}

func (r *UserPG) List(ctx context.Context) ([]entity.User, error) {
	const query = `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM users ORDER BY name ASC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, mapPGError(err)
	}
	defer rows.Close()

	var out []entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, mapPGError(err)
		}
		out = append(out, u)
	}
	return out, mapPGError(rows.Err())
}

func (r *UserPG) Update(ctx context.Context, id int64, updates map[string]any) (entity.User, error) {
	query, args, ok := buildPGUpdate("users", updates, []string{"name", "email", "password_hash", "role"}, id,
		"id, name, email, password_hash, role, created_at, updated_at")
	if !ok {
		return r.GetByID(ctx, id)
	}
	var u entity.User
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, args...).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.User{}, usecase.ErrNotFound
	}
	if pgCode(err) == pgUniqueViolation {
		return entity.User{}, fmt.Errorf("%w: email already registered", usecase.ErrConflict)
	}
	if err != nil {
		return entity.User{}, mapPGError(err)
	}
	return u, nil
}

func (r *UserPG) Delete(ctx context.Context, id int64) error {
	return pgDelete(ctx, r.db, r.timeout, "users", id, "user has loans")
}
