package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"

	"libraryapi/internal/usecase"
)

// openLibSQL connects to a hosted SQLite-compatible service (libSQL/Turso).
// The dsn carries the auth token as a query parameter.
func openLibSQL(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open libsql: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping libsql: %w", err)
	}
	return db, nil
}

// SQLite surfaces constraint failures as messages, not structured codes; the
// libsql driver and local sqlite3 spell the constraint class the same way.
func mapSQLiteError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", usecase.ErrBackendTimeout, err)
	case isSQLiteConstraint(err, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", usecase.ErrConflict, err)
	case isSQLiteConstraint(err, "CHECK constraint failed"):
		return fmt.Errorf("%w: %v", usecase.ErrValidation, err)
	}
	return err
}

func isSQLiteForeignKey(err error) bool {
	return isSQLiteConstraint(err, "FOREIGN KEY constraint failed")
}

func isSQLiteConstraint(err error, class string) bool {
	return err != nil && strings.Contains(err.Error(), class)
}
