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

type BookPG struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewBookPG(db *pgxpool.Pool, timeout time.Duration) *BookPG {
	return &BookPG{db: db, timeout: timeout}
}

func (r *BookPG) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *BookPG) Create(ctx context.Context, b *entity.Book) error {
	const query = `
		INSERT INTO books (title, author_id, category_id, editorial_id, isbn, year, total_copies, available_copies)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		b.Title, b.AuthorID, b.CategoryID, b.EditorialID, b.ISBN, b.Year, b.TotalCopies, b.AvailableCopies,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if isPGForeignKey(err) {
			return fmt.Errorf("%w: referenced author, category or editorial does not exist", usecase.ErrValidation)
		}
		return mapPGError(err)
	}
	return nil
}

func (r *BookPG) GetByID(ctx context.Context, id int64) (entity.Book, error) {
	const query = `
		SELECT id, title, author_id, category_id, editorial_id, isbn, year, total_copies, available_copies, created_at, updated_at
		FROM books WHERE id = $1 LIMIT 1`

	var b entity.Book
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(
		&b.ID, &b.Title, &b.AuthorID, &b.CategoryID, &b.EditorialID,
		&b.ISBN, &b.Year, &b.TotalCopies, &b.AvailableCopies, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Book{}, usecase.ErrNotFound
		}
		return entity.Book{}, mapPGError(err)
	}
	return b, nil
}

func (r *BookPG) List(ctx context.Context) ([]entity.Book, error) {
	const query = `
		SELECT id, title, author_id, category_id, editorial_id, isbn, year, total_copies, available_copies, created_at, updated_at
		FROM books ORDER BY title ASC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, mapPGError(err)
	}
	defer rows.Close()

	var out []entity.Book
	for rows.Next() {
		var b entity.Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.AuthorID, &b.CategoryID, &b.EditorialID,
			&b.ISBN, &b.Year, &b.TotalCopies, &b.AvailableCopies, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, mapPGError(err)
		}
		out = append(out, b)
	}
	return out, mapPGError(rows.Err())
}

func (r *BookPG) ListWithDetails(ctx context.Context) ([]entity.Book, error) {
	const query = `
		SELECT b.id, b.title, b.author_id, a.name, b.category_id, c.name, b.editorial_id, e.name,
		       b.isbn, b.year, b.total_copies, b.available_copies, b.created_at, b.updated_at
		FROM books b
		JOIN authors a ON a.id = b.author_id
		JOIN categories c ON c.id = b.category_id
		JOIN editorials e ON e.id = b.editorial_id
		ORDER BY b.title ASC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, mapPGError(err)
	}
	defer rows.Close()

	var out []entity.Book
	for rows.Next() {
		var b entity.Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.AuthorID, &b.AuthorName, &b.CategoryID, &b.CategoryName,
			&b.EditorialID, &b.EditorialName, &b.ISBN, &b.Year, &b.TotalCopies, &b.AvailableCopies,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, mapPGError(err)
		}
		out = append(out, b)
	}
	return out, mapPGError(rows.Err())
}

// Update applies a partial field set. When total_copies changes, available
// copies move by the same delta inside the one statement, and the statement
// refuses a delta that would drive availability negative (i.e. lower the
// total below the outstanding loan count).
func (r *BookPG) Update(ctx context.Context, id int64, updates map[string]any) (entity.Book, error) {
	fields := []string{}
	args := []any{}
	argn := 1

	for key, value := range updates {
		switch key {
		case "title", "author_id", "category_id", "editorial_id", "isbn", "year":
			fields = append(fields, fmt.Sprintf("%s = $%d", key, argn))
			args = append(args, value)
			argn++
		}
	}

	guard := ""
	if v, ok := updates["total_copies"]; ok {
		fields = append(fields,
			fmt.Sprintf("total_copies = $%d", argn),
			fmt.Sprintf("available_copies = available_copies + ($%d - total_copies)", argn))
		guard = fmt.Sprintf(" AND available_copies + ($%d - total_copies) >= 0", argn)
		args = append(args, v)
		argn++
	}

	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	fields = append(fields, "updated_at = now()")
	args = append(args, id)
	query := "UPDATE books SET " + strings.Join(fields, ", ") +
		fmt.Sprintf(" WHERE id = $%d", argn) + guard +
		" RETURNING id, title, author_id, category_id, editorial_id, isbn, year, total_copies, available_copies, created_at, updated_at"

	var b entity.Book
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, args...).Scan(
		&b.ID, &b.Title, &b.AuthorID, &b.CategoryID, &b.EditorialID,
		&b.ISBN, &b.Year, &b.TotalCopies, &b.AvailableCopies, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); errors.Is(getErr, usecase.ErrNotFound) {
				return entity.Book{}, usecase.ErrNotFound
			}
			return entity.Book{}, fmt.Errorf("%w: total_copies below outstanding loans", usecase.ErrValidation)
		}
		if isPGForeignKey(err) {
			return entity.Book{}, fmt.Errorf("%w: referenced author, category or editorial does not exist", usecase.ErrValidation)
		}
		return entity.Book{}, mapPGError(err)
	}
	return b, nil
}

func (r *BookPG) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		if isPGForeignKey(err) {
			return fmt.Errorf("%w: book has loans", usecase.ErrConflict)
		}
		return mapPGError(err)
	}
	if tag.RowsAffected() == 0 {
		return usecase.ErrNotFound
	}
	return nil
}
