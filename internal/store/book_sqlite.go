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

// BookSQLite is the remote-SQLite variant of the book repository. It speaks
// the SQLite dialect over database/sql and must behave exactly like BookPG
// for identical inputs.
type BookSQLite struct {
	db      *sql.DB
	timeout time.Duration
}

func NewBookSQLite(db *sql.DB, timeout time.Duration) *BookSQLite {
	return &BookSQLite{db: db, timeout: timeout}
}

func (r *BookSQLite) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *BookSQLite) Create(ctx context.Context, b *entity.Book) error {
	const query = `
		INSERT INTO books (title, author_id, category_id, editorial_id, isbn, year, total_copies, available_copies)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_at, updated_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRowContext(timeoutCtx, query,
		b.Title, b.AuthorID, b.CategoryID, b.EditorialID, b.ISBN, b.Year, b.TotalCopies, b.AvailableCopies,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if isSQLiteForeignKey(err) {
			return fmt.Errorf("%w: referenced author, category or editorial does not exist", usecase.ErrValidation)
		}
		return mapSQLiteError(err)
	}
	return nil
}

func (r *BookSQLite) GetByID(ctx context.Context, id int64) (entity.Book, error) {
	const query = `
		SELECT id, title, author_id, category_id, editorial_id, isbn, year, total_copies, available_copies, created_at, updated_at
		FROM books WHERE id = ? LIMIT 1`

	var b entity.Book
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRowContext(timeoutCtx, query, id).Scan(
		&b.ID, &b.Title, &b.AuthorID, &b.CategoryID, &b.EditorialID,
		&b.ISBN, &b.Year, &b.TotalCopies, &b.AvailableCopies, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Book{}, usecase.ErrNotFound
		}
		return entity.Book{}, mapSQLiteError(err)
	}
	return b, nil
}

func (r *BookSQLite) List(ctx context.Context) ([]entity.Book, error) {
	const query = `
		SELECT id, title, author_id, category_id, editorial_id, isbn, year, total_copies, available_copies, created_at, updated_at
		FROM books ORDER BY title ASC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(timeoutCtx, query)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	var out []entity.Book
	for rows.Next() {
		var b entity.Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.AuthorID, &b.CategoryID, &b.EditorialID,
			&b.ISBN, &b.Year, &b.TotalCopies, &b.AvailableCopies, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, mapSQLiteError(err)
		}
		out = append(out, b)
	}
	return out, mapSQLiteError(rows.Err())
}

func (r *BookSQLite) ListWithDetails(ctx context.Context) ([]entity.Book, error) {
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
	rows, err := r.db.QueryContext(timeoutCtx, query)
	if err != nil {
		return nil, mapSQLiteError(err)
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
			return nil, mapSQLiteError(err)
		}
		out = append(out, b)
	}
	return out, mapSQLiteError(rows.Err())
}

func (r *BookSQLite) Update(ctx context.Context, id int64, updates map[string]any) (entity.Book, error) {
	fields := []string{}
	args := []any{}

	for key, value := range updates {
		switch key {
		case "title", "author_id", "category_id", "editorial_id", "isbn", "year":
			fields = append(fields, key+" = ?")
			args = append(args, value)
		}
	}

	guard := ""
	var guardArg any
	if v, ok := updates["total_copies"]; ok {
		fields = append(fields, "total_copies = ?", "available_copies = available_copies + (? - total_copies)")
		args = append(args, v, v)
		guard = " AND available_copies + (? - total_copies) >= 0"
		guardArg = v
	}

	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	fields = append(fields, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)
	if guard != "" {
		args = append(args, guardArg)
	}
	query := "UPDATE books SET " + strings.Join(fields, ", ") + " WHERE id = ?" + guard +
		" RETURNING id, title, author_id, category_id, editorial_id, isbn, year, total_copies, available_copies, created_at, updated_at"

	var b entity.Book
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRowContext(timeoutCtx, query, args...).Scan(
		&b.ID, &b.Title, &b.AuthorID, &b.CategoryID, &b.EditorialID,
		&b.ISBN, &b.Year, &b.TotalCopies, &b.AvailableCopies, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); errors.Is(getErr, usecase.ErrNotFound) {
				return entity.Book{}, usecase.ErrNotFound
			}
			return entity.Book{}, fmt.Errorf("%w: total_copies below outstanding loans", usecase.ErrValidation)
		}
		if isSQLiteForeignKey(err) {
			return entity.Book{}, fmt.Errorf("%w: referenced author, category or editorial does not exist", usecase.ErrValidation)
		}
		return entity.Book{}, mapSQLiteError(err)
	}
	return b, nil
}

func (r *BookSQLite) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := r.db.ExecContext(timeoutCtx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		if isSQLiteForeignKey(err) {
			return fmt.Errorf("%w: book has loans", usecase.ErrConflict)
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
