package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/usecase"
)

// Postgres error codes worth translating into the shared taxonomy.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

func openPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// mapPGError translates timeouts and uniqueness violations; callers handle
// foreign-key violations per operation because the right taxonomy error
// depends on whether the statement was a delete or a write.
func mapPGError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", usecase.ErrBackendTimeout, err)
	case pgCode(err) == pgUniqueViolation:
		return fmt.Errorf("%w: %v", usecase.ErrConflict, err)
	case pgCode(err) == pgCheckViolation:
		return fmt.Errorf("%w: %v", usecase.ErrValidation, err)
	}
	return err
}

func isPGForeignKey(err error) bool {
	return pgCode(err) == pgForeignKeyViolation
}
