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

type LoanSQLite struct {
	db      *sql.DB
	timeout time.Duration
}

func NewLoanSQLite(db *sql.DB, timeout time.Duration) *LoanSQLite {
	return &LoanSQLite{db: db, timeout: timeout}
}

func (r *LoanSQLite) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// Checkout mirrors the Postgres variant: a transaction whose first statement
// is the conditional decrement, so the backend settles the last-copy race.
func (r *LoanSQLite) Checkout(ctx context.Context, bookID, userID int64, due time.Time) (entity.Loan, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(timeoutCtx, nil)
	if err != nil {
		return entity.Loan{}, mapSQLiteError(err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(timeoutCtx,
		`UPDATE books SET available_copies = available_copies - 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND available_copies > 0`, bookID)
	if err != nil {
		return entity.Loan{}, mapSQLiteError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return entity.Loan{}, err
	}
	if affected == 0 {
		var n int
		err := tx.QueryRowContext(timeoutCtx, `SELECT available_copies FROM books WHERE id = ?`, bookID).Scan(&n)
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Loan{}, fmt.Errorf("%w: book %d", usecase.ErrNotFound, bookID)
		}
		if err != nil {
			return entity.Loan{}, mapSQLiteError(err)
		}
		return entity.Loan{}, usecase.ErrUnavailable
	}

	loan := entity.Loan{BookID: bookID, UserID: userID, DueDate: due}
	err = tx.QueryRowContext(timeoutCtx,
		`INSERT INTO loans (book_id, user_id, due_date) VALUES (?, ?, ?)
		 RETURNING id, loan_date`, bookID, userID, due,
	).Scan(&loan.ID, &loan.LoanDate)
	if err != nil {
		if isSQLiteForeignKey(err) {
			return entity.Loan{}, fmt.Errorf("%w: user %d", usecase.ErrNotFound, userID)
		}
		return entity.Loan{}, mapSQLiteError(err)
	}

	if err := tx.Commit(); err != nil {
		return entity.Loan{}, mapSQLiteError(err)
	}
	return loan, nil
}

func (r *LoanSQLite) Return(ctx context.Context, loanID int64, returnedAt time.Time) (entity.Loan, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(timeoutCtx, nil)
	if err != nil {
		return entity.Loan{}, mapSQLiteError(err)
	}
	defer tx.Rollback()

	var loan entity.Loan
	err = tx.QueryRowContext(timeoutCtx,
		`UPDATE loans SET return_date = ? WHERE id = ? AND return_date IS NULL
		 RETURNING id, book_id, user_id, loan_date, due_date, return_date`,
		returnedAt, loanID,
	).Scan(&loan.ID, &loan.BookID, &loan.UserID, &loan.LoanDate, &loan.DueDate, &loan.ReturnDate)
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if err := tx.QueryRowContext(timeoutCtx, `SELECT EXISTS (SELECT 1 FROM loans WHERE id = ?)`, loanID).Scan(&exists); err != nil {
			return entity.Loan{}, mapSQLiteError(err)
		}
		if !exists {
			return entity.Loan{}, fmt.Errorf("%w: loan %d", usecase.ErrNotFound, loanID)
		}
		return entity.Loan{}, usecase.ErrAlreadyReturned
	}
	if err != nil {
		return entity.Loan{}, mapSQLiteError(err)
	}

	_, err = tx.ExecContext(timeoutCtx,
		`UPDATE books SET available_copies = available_copies + 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND available_copies < total_copies`, loan.BookID)
	if err != nil {
		return entity.Loan{}, mapSQLiteError(err)
	}

	if err := tx.Commit(); err != nil {
		return entity.Loan{}, mapSQLiteError(err)
	}
	return loan, nil
}

func (r *LoanSQLite) GetByID(ctx context.Context, id int64) (entity.Loan, error) {
	const query = `
		SELECT l.id, l.book_id, l.user_id, l.loan_date, l.due_date, l.return_date, b.title, u.name
		FROM loans l
		JOIN books b ON b.id = l.book_id
		JOIN users u ON u.id = l.user_id
		WHERE l.id = ? LIMIT 1`

	var l entity.Loan
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRowContext(timeoutCtx, query, id).
		Scan(&l.ID, &l.BookID, &l.UserID, &l.LoanDate, &l.DueDate, &l.ReturnDate, &l.BookTitle, &l.UserName)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Loan{}, usecase.ErrNotFound
	}
	if err != nil {
		return entity.Loan{}, mapSQLiteError(err)
	}
	return l, nil
}

func (r *LoanSQLite) ListWithDetails(ctx context.Context) ([]entity.Loan, error) {
	const query = `
		SELECT l.id, l.book_id, l.user_id, l.loan_date, l.due_date, l.return_date, b.title, u.name
		FROM loans l
		JOIN books b ON b.id = l.book_id
		JOIN users u ON u.id = l.user_id
		ORDER BY l.loan_date DESC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(timeoutCtx, query)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()
	return scanSQLiteLoans(rows)
}

func (r *LoanSQLite) ListOutstanding(ctx context.Context, userID int64) ([]entity.Loan, error) {
	query := `
		SELECT l.id, l.book_id, l.user_id, l.loan_date, l.due_date, l.return_date, b.title, u.name
		FROM loans l
		JOIN books b ON b.id = l.book_id
		JOIN users u ON u.id = l.user_id
		WHERE l.return_date IS NULL`
	args := []any{}
	if userID > 0 {
		query += ` AND l.user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY l.due_date ASC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(timeoutCtx, query, args...)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()
	return scanSQLiteLoans(rows)
}

func scanSQLiteLoans(rows *sql.Rows) ([]entity.Loan, error) {
	var out []entity.Loan
	for rows.Next() {
		var l entity.Loan
		if err := rows.Scan(&l.ID, &l.BookID, &l.UserID, &l.LoanDate, &l.DueDate, &l.ReturnDate, &l.BookTitle, &l.UserName); err != nil {
			return nil, mapSQLiteError(err)
		}
		out = append(out, l)
	}
	return out, mapSQLiteError(rows.Err())
}
