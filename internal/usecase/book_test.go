package usecase

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/entity"
	"libraryapi/internal/store/mocks"
)

func TestBookService_CreateStartsFullyAvailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockBookRepository(ctrl)
	svc := NewBookService(mockRepo)

	mockRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, b *entity.Book) error {
			assert.Equal(t, b.TotalCopies, b.AvailableCopies)
			b.ID = 1
			return nil
		})

	b := entity.Book{
		Title:       "Test",
		AuthorID:    1,
		CategoryID:  1,
		EditorialID: 1,
		TotalCopies: 4,
		// Clients cannot pre-spend copies; this gets overwritten.
		AvailableCopies: 1,
	}
	require.NoError(t, svc.Create(context.Background(), &b))
	assert.Equal(t, 4, b.AvailableCopies)
}

func TestBookService_CreateValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockBookRepository(ctrl)
	svc := NewBookService(mockRepo)

	tests := []struct {
		name string
		book entity.Book
	}{
		{"missing title", entity.Book{AuthorID: 1, CategoryID: 1, EditorialID: 1}},
		{"missing author", entity.Book{Title: "x", CategoryID: 1, EditorialID: 1}},
		{"missing category", entity.Book{Title: "x", AuthorID: 1, EditorialID: 1}},
		{"missing editorial", entity.Book{Title: "x", AuthorID: 1, CategoryID: 1}},
		{"negative copies", entity.Book{Title: "x", AuthorID: 1, CategoryID: 1, EditorialID: 1, TotalCopies: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Create(context.Background(), &tt.book)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestBookService_UpdateTotalCopiesValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockBookRepository(ctrl)
	svc := NewBookService(mockRepo)

	_, err := svc.Update(context.Background(), 1, map[string]any{"total_copies": -2})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(context.Background(), 1, map[string]any{"total_copies": "three"})
	require.ErrorIs(t, err, ErrValidation)

	// JSON numbers arrive as float64 and must be accepted.
	mockRepo.EXPECT().
		Update(gomock.Any(), int64(1), gomock.Any()).
		Return(entity.Book{ID: 1, TotalCopies: 3}, nil)
	updated, err := svc.Update(context.Background(), 1, map[string]any{"total_copies": float64(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.TotalCopies)
}

func TestBookService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockBookRepository(ctrl)
	svc := NewBookService(mockRepo)

	mockRepo.EXPECT().List(gomock.Any()).Return([]entity.Book{{ID: 1}}, nil)
	books, err := svc.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, books, 1)

	mockRepo.EXPECT().ListWithDetails(gomock.Any()).Return([]entity.Book{{ID: 1, AuthorName: "A"}}, nil)
	books, err = svc.List(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, "A", books[0].AuthorName)
}
