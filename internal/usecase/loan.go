package usecase

import (
	"context"
	"time"

	"libraryapi/internal/entity"
)

// LoanService enforces the checkout/return lifecycle. The availability race
// itself is settled inside the repository's conditional-write primitives;
// this layer computes due dates and derives status.
type LoanService struct {
	loans LoanRepository
	now   func() time.Time
}

func NewLoanService(loans LoanRepository) *LoanService {
	return &LoanService{loans: loans, now: time.Now}
}

// Checkout lends one copy of a book to a user for the given period.
// A zero or negative period is accepted and yields an immediately overdue
// loan; period policy belongs to callers.
func (s *LoanService) Checkout(ctx context.Context, bookID, userID int64, period time.Duration) (entity.Loan, error) {
	now := s.now()
	loan, err := s.loans.Checkout(ctx, bookID, userID, now.Add(period))
	if err != nil {
		return entity.Loan{}, err
	}
	return s.derive(loan, now), nil
}

// Return marks an outstanding loan as returned. Returning an already
// returned loan fails with ErrAlreadyReturned, never silently succeeds.
func (s *LoanService) Return(ctx context.Context, loanID int64) (entity.Loan, error) {
	loan, err := s.loans.Return(ctx, loanID, s.now())
	if err != nil {
		return entity.Loan{}, err
	}
	return s.derive(loan, s.now()), nil
}

// ListOutstanding returns loans not yet returned, each annotated with its
// overdue flag as of now. userID 0 means all users.
func (s *LoanService) ListOutstanding(ctx context.Context, userID int64) ([]entity.Loan, error) {
	loans, err := s.loans.ListOutstanding(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range loans {
		loans[i] = s.derive(loans[i], now)
	}
	return loans, nil
}

func (s *LoanService) Get(ctx context.Context, id int64) (entity.Loan, error) {
	loan, err := s.loans.GetByID(ctx, id)
	if err != nil {
		return entity.Loan{}, err
	}
	return s.derive(loan, s.now()), nil
}

func (s *LoanService) List(ctx context.Context) ([]entity.Loan, error) {
	loans, err := s.loans.ListWithDetails(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range loans {
		loans[i] = s.derive(loans[i], now)
	}
	return loans, nil
}

func (s *LoanService) derive(l entity.Loan, now time.Time) entity.Loan {
	l.Status = l.StatusAt(now)
	l.Overdue = l.OverdueAt(now)
	return l
}
