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

type LoanPG struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewLoanPG(db *pgxpool.Pool, timeout time.Duration) *LoanPG {
	return &LoanPG{db: db, timeout: timeout}
}

func (r *LoanPG) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// Checkout decrements availability and creates the loan as one transaction.
// The decrement is conditional on available_copies > 0, evaluated by the
// backend itself: two concurrent checkouts for the last copy cannot both
// pass, and availability can never go negative.
func (r *LoanPG) Checkout(ctx context.Context, bookID, userID int64, due time.Time) (entity.Loan, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return entity.Loan{}, mapPGError(err)
	}
	defer tx.Rollback(timeoutCtx)

	tag, err := tx.Exec(timeoutCtx,
		`UPDATE books SET available_copies = available_copies - 1, updated_at = now()
		 WHERE id = $1 AND available_copies > 0`, bookID)
	if err != nil {
		return entity.Loan{}, mapPGError(err)
	}
	if tag.RowsAffected() == 0 {
		var n int
		err := tx.QueryRow(timeoutCtx, `SELECT available_copies FROM books WHERE id = $1`, bookID).Scan(&n)
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Loan{}, fmt.Errorf("%w: book %d", usecase.ErrNotFound, bookID)
		}
		if err != nil {
			return entity.Loan{}, mapPGError(err)
		}
		return entity.Loan{}, usecase.ErrUnavailable
	}

	loan := entity.Loan{BookID: bookID, UserID: userID, DueDate: due}
	err = tx.QueryRow(timeoutCtx,
		`INSERT INTO loans (book_id, user_id, due_date) VALUES ($1, $2, $3)
		 RETURNING id, loan_date`, bookID, userID, due,
	).Scan(&loan.ID, &loan.LoanDate)
	if err != nil {
		if isPGForeignKey(err) {
			return entity.Loan{}, fmt.Errorf("%w: user %d", usecase.ErrNotFound, userID)
		}
		return entity.Loan{}, mapPGError(err)
	}

	if err := tx.Commit(timeoutCtx); err != nil {
		return entity.Loan{}, mapPGError(err)
	}
	return loan, nil
}

// Return stamps the return date and gives the copy back, conditional on the
// loan still being outstanding. A second return of the same loan affects no
// row and is rejected, never applied twice.
func (r *LoanPG) Return(ctx context.Context, loanID int64, returnedAt time.Time) (entity.Loan, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return entity.Loan{}, mapPGError(err)
	}
	defer tx.Rollback(timeoutCtx)

	var loan entity.Loan
	err = tx.QueryRow(timeoutCtx,
		`UPDATE loans SET return_date = $2 WHERE id = $1 AND return_date IS NULL
		 RETURNING id, book_id, user_id, loan_date, due_date, return_date`,
		loanID, returnedAt,
	).Scan(&loan.ID, &loan.BookID, &loan.UserID, &loan.LoanDate, &loan.DueDate, &loan.ReturnDate)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := tx.QueryRow(timeoutCtx, `SELECT EXISTS (SELECT 1 FROM loans WHERE id = $1)`, loanID).Scan(&exists); err != nil {
			return entity.Loan{}, mapPGError(err)
		}
		if !exists {
			return entity.Loan{}, fmt.Errorf("%w: loan %d", usecase.ErrNotFound, loanID)
		}
		return entity.Loan{}, usecase.ErrAlreadyReturned
	}
	if err != nil {
		return entity.Loan{}, mapPGError(err)
	}

	_, err = tx.Exec(timeoutCtx,
		`UPDATE books SET available_copies = available_copies + 1, updated_at = now()
		 WHERE id = $1 AND available_copies < total_copies`, loan.BookID)
	if err != nil {
		return entity.Loan{}, mapPGError(err)
	}

	if err := tx.Commit(timeoutCtx); err != nil {
		return entity.Loan{}, mapPGError(err)
	}
	return loan, nil
}

func (r *LoanPG) GetByID(ctx context.Context, id int64) (entity.Loan, error) {
	const query = `
		SELECT l.id, l.book_id, l.user_id, l.loan_date, l.due_date, l.return_date, b.title, u.name
		FROM loans l
		JOIN books b ON b.id = l.book_id
		JOIN users u ON u.id = l.user_id
		WHERE l.id = $1 LIMIT 1`

	var l entity.Loan
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).
		Scan(&l.ID, &l.BookID, &l.UserID, &l.LoanDate, &l.DueDate, &l.ReturnDate, &l.BookTitle, &l.UserName)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Loan{}, usecase.ErrNotFound
	}
	if err != nil {
		return entity.Loan{}, mapPGError(err)
	}
	return l, nil
}

func (r *LoanPG) ListWithDetails(ctx context.Context) ([]entity.Loan, error) {
	const query = `
		SELECT l.id, l.book_id, l.user_id, l.loan_date, l.due_date, l.return_date, b.title, u.name
		FROM loans l
		JOIN books b ON b.id = l.book_id
		JOIN users u ON u.id = l.user_id
		ORDER BY l.loan_date DESC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, mapPGError(err)
	}
	defer rows.Close()
	return scanPGLoans(rows)
}

func (r *LoanPG) ListOutstanding(ctx context.Context, userID int64) ([]entity.Loan, error) {
	query := `
		SELECT l.id, l.book_id, l.user_id, l.loan_date, l.due_date, l.return_date, b.title, u.name
		FROM loans l
		JOIN books b ON b.id = l.book_id
		JOIN users u ON u.id = l.user_id
		WHERE l.return_date IS NULL`
	args := []any{}
	if userID > 0 {
		query += ` AND l.user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY l.due_date ASC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, mapPGError(err)
	}
	defer rows.Close()
	return scanPGLoans(rows)
}

func scanPGLoans(rows pgx.Rows) ([]entity.Loan, error) {
	var out []entity.Loan
	for rows.Next() {
		var l entity.Loan
		if err := rows.Scan(&l.ID, &l.BookID, &l.UserID, &l.LoanDate, &l.DueDate, &l.ReturnDate, &l.BookTitle, &l.UserName); err != nil {
			return nil, mapPGError(err)
		}
		out = append(out, l)
	}
	return out, mapPGError(rows.Err())
}
