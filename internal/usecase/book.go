package usecase

import (
	"context"
	"fmt"

	"libraryapi/internal/entity"
)

// BookService fronts the book repository with the catalog rules: a new book
// starts with every copy available, and the repository rejects an update
// that would lower total_copies below the outstanding loan count.
type BookService struct {
	books BookRepository
}

func NewBookService(books BookRepository) *BookService {
	return &BookService{books: books}
}

func (s *BookService) Create(ctx context.Context, b *entity.Book) error {
	if b.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if b.AuthorID == 0 || b.CategoryID == 0 || b.EditorialID == 0 {
		return fmt.Errorf("%w: author_id, category_id and editorial_id are required", ErrValidation)
	}
	if b.TotalCopies < 0 {
		return fmt.Errorf("%w: total_copies must not be negative", ErrValidation)
	}
	// No book starts partially checked out.
	b.AvailableCopies = b.TotalCopies
	return s.books.Create(ctx, b)
}

func (s *BookService) Get(ctx context.Context, id int64) (entity.Book, error) {
	return s.books.GetByID(ctx, id)
}

func (s *BookService) List(ctx context.Context, withDetails bool) ([]entity.Book, error) {
	if withDetails {
		return s.books.ListWithDetails(ctx)
	}
	return s.books.List(ctx)
}

func (s *BookService) Update(ctx context.Context, id int64, updates map[string]any) (entity.Book, error) {
	if v, ok := updates["total_copies"]; ok {
		if n, ok := toInt(v); !ok || n < 0 {
			return entity.Book{}, fmt.Errorf("%w: total_copies must be a non-negative integer", ErrValidation)
		}
	}
	return s.books.Update(ctx, id, updates)
}

func (s *BookService) Delete(ctx context.Context, id int64) error {
	return s.books.Delete(ctx, id)
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
