package usecase

import (
	"context"
	"time"

	"libraryapi/internal/entity"
)

//go:generate mockgen -source=ports.go -destination=../store/mocks/mocks.go -package=mocks

// BookRepository defines the contract every backend driver implements for
// books. Update takes a partial field map; unknown keys are ignored.
type BookRepository interface {
	Create(ctx context.Context, b *entity.Book) error
	GetByID(ctx context.Context, id int64) (entity.Book, error)
	List(ctx context.Context) ([]entity.Book, error)
	ListWithDetails(ctx context.Context) ([]entity.Book, error)
	Update(ctx context.Context, id int64, updates map[string]any) (entity.Book, error)
	Delete(ctx context.Context, id int64) error
}

type AuthorRepository interface {
	Create(ctx context.Context, a *entity.Author) error
	GetByID(ctx context.Context, id int64) (entity.Author, error)
	List(ctx context.Context) ([]entity.Author, error)
	Update(ctx context.Context, id int64, updates map[string]any) (entity.Author, error)
	Delete(ctx context.Context, id int64) error
}

type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, id int64) (entity.Category, error)
	List(ctx context.Context) ([]entity.Category, error)
	Update(ctx context.Context, id int64, updates map[string]any) (entity.Category, error)
	Delete(ctx context.Context, id int64) error
}

type EditorialRepository interface {
	Create(ctx context.Context, e *entity.Editorial) error
	GetByID(ctx context.Context, id int64) (entity.Editorial, error)
	List(ctx context.Context) ([]entity.Editorial, error)
	Update(ctx context.Context, id int64, updates map[string]any) (entity.Editorial, error)
	Delete(ctx context.Context, id int64) error
}

type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (entity.User, error)
	GetByEmail(ctx context.Context, email string) (entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	Update(ctx context.Context, id int64, updates map[string]any) (entity.User, error)
	Delete(ctx context.Context, id int64) error
}

// LoanRepository exposes the two atomic state transitions next to the reads.
// Checkout must decrement book availability and insert the loan as one
// backend-evaluated unit (conditional write, not read-then-write); Return
// mirrors it. Both drivers provide equivalent primitives.
type LoanRepository interface {
	Checkout(ctx context.Context, bookID, userID int64, due time.Time) (entity.Loan, error)
	Return(ctx context.Context, loanID int64, returnedAt time.Time) (entity.Loan, error)
	GetByID(ctx context.Context, id int64) (entity.Loan, error)
	ListWithDetails(ctx context.Context) ([]entity.Loan, error)
	// ListOutstanding returns loans with no return date, soonest due first,
	// filtered by user when userID > 0.
	ListOutstanding(ctx context.Context, userID int64) ([]entity.Loan, error)
}
