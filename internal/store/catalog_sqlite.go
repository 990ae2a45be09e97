package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"libraryapi/internal/entity"
	"libraryapi/internal/usecase"
)

type AuthorSQLite struct {
	db      *sql.DB
	timeout time.Duration
}

func NewAuthorSQLite(db *sql.DB, timeout time.Duration) *AuthorSQLite {
	return &AuthorSQLite{db: db, timeout: timeout}
}

func (r *AuthorSQLite) Create(ctx context.Context, a *entity.Author) error {
	if a.Name == "" {
		return fmt.Errorf("%w: name is required", usecase.ErrValidation)
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	err := r.db.QueryRowContext(timeoutCtx,
		`INSERT INTO authors (name, nationality) VALUES (?, ?) RETURNING id, created_at, updated_at`,
		a.Name, a.Nationality,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return mapSQLiteError(err)
}

func (r *AuthorSQLite) GetByID(ctx context.Context, id int64) (entity.Author, error) {
	var a entity.Author
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	err := r.db.QueryRowContext(timeoutCtx,
		`SELECT id, name, nationality, created_at, updated_at FROM authors WHERE id = ? LIMIT 1`, id,
	).Scan(&a.ID, &a.Name, &a.Nationality, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Author{}, usecase.ErrNotFound
	}
	if err != nil {
		return entity.Author{}, mapSQLiteError(err)
	}
	return a, nil
}

func (r *AuthorSQLite) List(ctx context.Context) ([]entity.Author, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	rows, err := r.db.QueryContext(timeoutCtx,
		`SELECT id, name, nationality, created_at, updated_at FROM authors ORDER BY name ASC`)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	var out []entity.Author
	for rows.Next() {
		var a entity.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Nationality, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, mapSQLiteError(err)
		}
		out = append(out, a)
	}
	return out, mapSQLiteError(rows.Err())
}

func (r *AuthorSQLite) Update(ctx context.Context, id int64, updates map[string]any) (entity.Author, error) {
	query, args, ok := buildSQLiteUpdate("authors", updates, []string{"name", "nationality"}, id,
		"id, name, nationality, created_at, updated_at")
	if !ok {
		return r.GetByID(ctx, id)
	}
	var a entity.Author
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	err := r.db.QueryRowContext(timeoutCtx, query, args...).Scan(&a.ID, &a.Name, &a.Nationality, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Author{}, usecase.ErrNotFound
	}
	if err != nil {
		return entity.Author{}, mapSQLiteError(err)
	}
	return a, nil
}

func (r *AuthorSQLite) Delete(ctx context.Context, id int64) error {
	return sqliteDelete(ctx, r.db, r.timeout, "authors", id, "author is referenced by books")
}

type CategorySQLite struct {
	db      *sql.DB
	timeout time.Duration
}

func NewCategorySQLite(db *sql.DB, timeout time.Duration) *CategorySQLite {
	return &CategorySQLite{db: db, timeout: timeout}
}

func (r *CategorySQLite) Create(ctx context.Context, c *entity.Category) error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", usecase.ErrValidation)
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	err := r.db.QueryRowContext(timeoutCtx,
		`INSERT INTO categories (name, description) VALUES (?, ?) RETURNING id, created_at, updated_at`,
		c.Name, c.Description,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return mapSQLiteError(err)
}

func (r *CategorySQLite) GetByID(ctx context.Context, id int64) (entity.Category, error) {
	var c entity.Category
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	err := r.db.QueryRowContext(timeoutCtx,
		`SELECT id, name, description, created_at, updated_at FROM categories WHERE id = ? LIMIT 1`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Category{}, usecase.ErrNotFound
	}
	if err != nil {
		return entity.Category{}, mapSQLiteError(err)
	}
	return c, nil
}

func (r *CategorySQLite) List(ctx context.Context) ([]entity.Category, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	rows, err := r.db.QueryContext(timeoutCtx,
		`SELECT id, name, description, created_at, updated_at FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	var out []entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, mapSQLiteError(err)
		}
		out = append(out, c)
	}
	return out, mapSQLiteError(rows.Err())
}

func (r *CategorySQLite) Update(ctx context.Context, id int64, updates map[string]any) (entity.Category, error) {
	query, args, ok := buildSQLiteUpdate("categories", updates, []string{"name", "description"}, id,
		"id, name, description, created_at, updated_at")
	if !ok {
		return r.GetByID(ctx, id)
	}
	var c entity.Category
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	err := r.db.QueryRowContext(timeoutCtx, query, args...).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Category{}, usecase.ErrNotFound
	}
	if err != nil {
		return entity.Category{}, mapSQLiteError(err)
	}
	return c, nil
}

func (r *CategorySQLite) Delete(ctx context.Context, id int64) error {
	return sqliteDelete(ctx, r.db, r.timeout, "categories", id, "category is referenced by books")
}

type EditorialSQLite struct {
	db      *sql.DB
	timeout time.Duration
}

func NewEditorialSQLite(db *sql.DB, timeout time.Duration) *EditorialSQLite {
	return &EditorialSQLite{db: db, timeout: timeout}
}

func (r *EditorialSQLite) Create(ctx context.Context, e *entity.Editorial) error {
	if e.Name == "" {
		return fmt.Errorf("%w: name is required", usecase.ErrValidation)
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	err := r.db.QueryRowContext(timeoutCtx,
		`INSERT INTO editorials (name, country) VALUES (?, ?) RETURNING id, created_at, updated_at`,
		e.Name, e.Country,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	return mapSQLiteError(err)
}

func (r *EditorialSQLite) GetByID(ctx context.Context, id int64) (entity.Editorial, error) {
	var e entity.Editorial
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	err := r.db.QueryRowContext(timeoutCtx,
		`SELECT id, name, country, created_at, updated_at FROM editorials WHERE id = ? LIMIT 1`, id,
	).Scan(&e.ID, &e.Name, &e.Country, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Editorial{}, usecase.ErrNotFound
	}
	if err != nil {
		return entity.Editorial{}, mapSQLiteError(err)
	}
	return e, nil
}

func (r *EditorialSQLite) List(ctx context.Context) ([]entity.Editorial, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	rows, err := r.db.QueryContext(timeoutCtx,
		`SELECT id, name, country, created_at, updated_at FROM editorials ORDER BY name ASC`)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	var out []entity.Editorial
	for rows.Next() {
		var e entity.Editorial
		if err := rows.Scan(&e.ID, &e.Name, &e.Country, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, mapSQLiteError(err)
		}
		out = append(out, e)
	}
	return out, mapSQLiteError(rows.Err())
}

func (r *EditorialSQLite) Update(ctx context.Context, id int64, updates map[string]any) (entity.Editorial, error) {
	query, args, ok := buildSQLiteUpdate("editorials", updates, []string{"name", "country"}, id,
		"id, name, country, created_at, updated_at")
	if !ok {
		return r.GetByID(ctx, id)
	}
	var e entity.Editorial
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	err := r.db.QueryRowContext(timeoutCtx, query, args...).Scan(&e.ID, &e.Name, &e.Country, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Editorial{}, usecase.ErrNotFound
	}
	if err != nil {
		return entity.Editorial{}, mapSQLiteError(err)
	}
	return e, nil
}

func (r *EditorialSQLite) Delete(ctx context.Context, id int64) error {
	return sqliteDelete(ctx, r.db, r.timeout, "editorials", id, "editorial is referenced by books")
}

func buildSQLiteUpdate(table string, updates map[string]any, allowed []string, id int64, returning string) (string, []any, bool) {
	fields := []string{}
	args := []any{}

	for key, value := range updates {
		for _, col := range allowed {
			if key == col {
				fields = append(fields, key+" = ?")
				args = append(args, value)
			}
		}
	}
	if len(fields) == 0 {
		return "", nil, false
	}

	fields = append(fields, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)
	query := "UPDATE " + table + " SET " + strings.Join(fields, ", ") +
		" WHERE id = ? RETURNING " + returning
	return query, args, true
}

func sqliteDelete(ctx context.Context, db *sql.DB, timeout time.Duration, table string, id int64, conflictMsg string) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	res, err := db.ExecContext(timeoutCtx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		if isSQLiteForeignKey(err) {
			return fmt.Errorf("%w: %s", usecase.ErrConflict, conflictMsg)
		}
		return mapSQLiteError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return usecase.ErrNotFound
	}
	return nil
}
