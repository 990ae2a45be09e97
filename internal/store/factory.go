// Package store binds every repository to one storage backend, chosen once
// at construction. Nothing outside this package branches on backend
// identity.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/config"
	"libraryapi/internal/usecase"
)

// Store holds the backend-selected repositories. The fields are read-only
// after New returns; there is no hot-swap.
type Store struct {
	Books      usecase.BookRepository
	Authors    usecase.AuthorRepository
	Categories usecase.CategoryRepository
	Editorials usecase.EditorialRepository
	Users      usecase.UserRepository
	Loans      usecase.LoanRepository

	pool *pgxpool.Pool
	db   *sql.DB
}

// New resolves the configured backend and builds the repository set for it.
// An unrecognized selector fails here, before any request is served.
func New(ctx context.Context, cfg config.Config) (*Store, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		pool, err := openPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return NewPostgres(pool, cfg.Timeout), nil
	case config.BackendLibSQL:
		db, err := openLibSQL(ctx, cfg.LibSQLDSN())
		if err != nil {
			return nil, err
		}
		return NewSQLite(db, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
	}
}

// NewPostgres builds the repository set over an existing pgx pool.
func NewPostgres(pool *pgxpool.Pool, timeout time.Duration) *Store {
	return &Store{
		Books:      NewBookPG(pool, timeout),
		Authors:    NewAuthorPG(pool, timeout),
		Categories: NewCategoryPG(pool, timeout),
		Editorials: NewEditorialPG(pool, timeout),
		Users:      NewUserPG(pool, timeout),
		Loans:      NewLoanPG(pool, timeout),
		pool:       pool,
	}
}

// NewSQLite builds the repository set over an existing database/sql handle
// speaking the SQLite dialect (remote libSQL in production, local sqlite3 in
// tests).
func NewSQLite(db *sql.DB, timeout time.Duration) *Store {
	return &Store{
		Books:      NewBookSQLite(db, timeout),
		Authors:    NewAuthorSQLite(db, timeout),
		Categories: NewCategorySQLite(db, timeout),
		Editorials: NewEditorialSQLite(db, timeout),
		Users:      NewUserSQLite(db, timeout),
		Loans:      NewLoanSQLite(db, timeout),
		db:         db,
	}
}

func (s *Store) Ping(ctx context.Context) error {
	if s.pool != nil {
		return s.pool.Ping(ctx)
	}
	return s.db.PingContext(ctx)
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
}
