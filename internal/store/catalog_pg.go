package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/entity"
	"libraryapi/internal/usecase"
)

// Catalog reference repositories (authors, categories, editorials) share the
// same shape: two descriptive columns, RESTRICTed by books that reference
// them. Deleting one still referenced by a book is a conflict.

type AuthorPG struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewAuthorPG(db *pgxpool.Pool, timeout time.Duration) *AuthorPG {
	return &AuthorPG{db: db, timeout: timeout}
}

func (r *AuthorPG) Create(ctx context.Context, a *entity.Author) error {
	if a.Name == "" {
		return fmt.Errorf("%w: name is required", usecase.ErrValidation)
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx,
		`INSERT INTO authors (name, nationality) VALUES ($1, $2) RETURNING id, created_at, updated_at`,
		a.Name, a.Nationality,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return mapPGError(err)
}

func (r *AuthorPG) GetByID(ctx context.Context, id int64) (entity.Author, error) {
	var a entity.Author
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx,
		`SELECT id, name, nationality, created_at, updated_at FROM authors WHERE id = $1 LIMIT 1`, id,
	).Scan(&a.ID, &a.Name, &a.Nationality, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Author{}, usecase.ErrNotFound
	}
	if err != nil {
		return entity.Author{}, mapPGError(err)
	}
	return a, nil
}

func (r *AuthorPG) List(ctx context.Context) ([]entity.Author, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx,
		`SELECT id, name, nationality, created_at, updated_at FROM authors ORDER BY name ASC`)
	if err != nil {
		return nil, mapPGError(err)
	}
	defer rows.Close()

	var out []entity.Author
	for rows.Next() {
		var a entity.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Nationality, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, mapPGError(err)
		}
		out = append(out, a)
	}
	return out, mapPGError(rows.Err())
}

func (r *AuthorPG) Update(ctx context.Context, id int64, updates map[string]any) (entity.Author, error) {
	query, args, ok := buildPGUpdate("authors", updates, []string{"name", "nationality"}, id,
		"id, name, nationality, created_at, updated_at")
	if !ok {
		return r.GetByID(ctx, id)
	}
	var a entity.Author
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, args...).Scan(&a.ID, &a.Name, &a.Nationality, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Author{}, usecase.ErrNotFound
	}
	if err != nil {
		return entity.Author{}, mapPGError(err)
	}
	return a, nil
}

func (r *AuthorPG) Delete(ctx context.Context, id int64) error {
	return pgDelete(ctx, r.db, r.timeout, "authors", id, "author is referenced by books")
}

type CategoryPG struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewCategoryPG(db *pgxpool.Pool, timeout time.Duration) *CategoryPG {
	return &CategoryPG{db: db, timeout: timeout}
}

func (r *CategoryPG) Create(ctx context.Context, c *entity.Category) error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", usecase.ErrValidation)
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx,
		`INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id, created_at, updated_at`,
		c.Name, c.Description,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return mapPGError(err)
}

func (r *CategoryPG) GetByID(ctx context.Context, id int64) (entity.Category, error) {
	var c entity.Category
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx,
		`SELECT id, name, description, created_at, updated_at FROM categories WHERE id = $1 LIMIT 1`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Category{}, usecase.ErrNotFound
	}
	if err != nil {
		return entity.Category{}, mapPGError(err)
	}
	return c, nil
}

func (r *CategoryPG) List(ctx context.Context) ([]entity.Category, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx,
		`SELECT id, name, description, created_at, updated_at FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, mapPGError(err)
	}
	defer rows.Close()

	var out []entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, mapPGError(err)
		}
		out = append(out, c)
	}
	return out, mapPGError(rows.Err())
}

func (r *CategoryPG) Update(ctx context.Context, id int64, updates map[string]any) (entity.Category, error) {
	query, args, ok := buildPGUpdate("categories", updates, []string{"name", "description"}, id,
		"id, name, description, created_at, updated_at")
	if !ok {
		return r.GetByID(ctx, id)
	}
	var c entity.Category
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, args...).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Category{}, usecase.ErrNotFound
	}
	if err != nil {
		return entity.Category{}, mapPGError(err)
	}
	return c, nil
}

func (r *CategoryPG) Delete(ctx context.Context, id int64) error {
	return pgDelete(ctx, r.db, r.timeout, "categories", id, "category is referenced by books")
}

type EditorialPG struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewEditorialPG(db *pgxpool.Pool, timeout time.Duration) *EditorialPG {
	return &EditorialPG{db: db, timeout: timeout}
}

func (r *EditorialPG) Create(ctx context.Context, e *entity.Editorial) error {
	if e.Name == "" {
		return fmt.Errorf("%w: name is required", usecase.ErrValidation)
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx,
		`INSERT INTO editorials (name, country) VALUES ($1, $2) RETURNING id, created_at, updated_at`,
		e.Name, e.Country,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	return mapPGError(err)
}

func (r *EditorialPG) GetByID(ctx context.Context, id int64) (entity.Editorial, error) {
	var e entity.Editorial
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx,
		`SELECT id, name, country, created_at, updated_at FROM editorials WHERE id = $1 LIMIT 1`, id,
	).Scan(&e.ID, &e.Name, &e.Country, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Editorial{}, usecase.ErrNotFound
	}
	if err != nil {
		return entity.Editorial{}, mapPGError(err)
	}
	return e, nil
}

func (r *EditorialPG) List(ctx context.Context) ([]entity.Editorial, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx,
		`SELECT id, name, country, created_at, updated_at FROM editorials ORDER BY name ASC`)
	if err != nil {
		return nil, mapPGError(err)
	}
	defer rows.Close()

	var out []entity.Editorial
	for rows.Next() {
		var e entity.Editorial
		if err := rows.Scan(&e.ID, &e.Name, &e.Country, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, mapPGError(err)
		}
		out = append(out, e)
	}
	return out, mapPGError(rows.Err())
}

func (r *EditorialPG) Update(ctx context.Context, id int64, updates map[string]any) (entity.Editorial, error) {
	query, args, ok := buildPGUpdate("editorials", updates, []string{"name", "country"}, id,
		"id, name, country, created_at, updated_at")
	if !ok {
		return r.GetByID(ctx, id)
	}
	var e entity.Editorial
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, args...).Scan(&e.ID, &e.Name, &e.Country, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Editorial{}, usecase.ErrNotFound
	}
	if err != nil {
		return entity.Editorial{}, mapPGError(err)
	}
	return e, nil
}

func (r *EditorialPG) Delete(ctx context.Context, id int64) error {
	return pgDelete(ctx, r.db, r.timeout, "editorials", id, "editorial is referenced by books")
}

// buildPGUpdate assembles a whitelist-filtered partial UPDATE. ok is false
// when no recognized field is present.
func buildPGUpdate(table string, updates map[string]any, allowed []string, id int64, returning string) (string, []any, bool) {
	fields := []string{}
	args := []any{}
	argn := 1

	for key, value := range updates {
		for _, col := range allowed {
			if key == col {
				fields = append(fields, fmt.Sprintf("%s = $%d", key, argn))
				args = append(args, value)
				argn++
			}
		}
	}
	if len(fields) == 0 {
		return "", nil, false
	}

	fields = append(fields, "updated_at = now()")
	args = append(args, id)
	query := "UPDATE " + table + " SET " + strings.Join(fields, ", ") +
		fmt.Sprintf(" WHERE id = $%d RETURNING %s", argn, returning)
	return query, args, true
}

func pgDelete(ctx context.Context, db *pgxpool.Pool, timeout time.Duration, table string, id int64, conflictMsg string) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	tag, err := db.Exec(timeoutCtx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		if isPGForeignKey(err) {
			return fmt.Errorf("%w: %s", usecase.ErrConflict, conflictMsg)
		}
		return mapPGError(err)
	}
	if tag.RowsAffected() == 0 {
		return usecase.ErrNotFound
	}
	return nil
}
