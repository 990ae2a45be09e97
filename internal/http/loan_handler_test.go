package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/entity"
	"libraryapi/internal/store/mocks"
	"libraryapi/internal/testutil"
	"libraryapi/internal/usecase"
)

func TestLoanHandler_Checkout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockLoanRepository(ctrl)
	handler := NewLoanHandler(usecase.NewLoanService(mockRepo))

	tests := []struct {
		name           string
		body           any
		setupMock      func()
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "success with default period",
			body: map[string]any{"book_id": 1, "user_id": 2},
			setupMock: func() {
				mockRepo.EXPECT().
					Checkout(gomock.Any(), int64(1), int64(2), gomock.Any()).
					DoAndReturn(func(_ context.Context, bookID, userID int64, due time.Time) (entity.Loan, error) {
						// Default period is 14 days from now.
						assert.WithinDuration(t, time.Now().Add(14*24*time.Hour), due, time.Minute)
						return entity.Loan{ID: 7, BookID: bookID, UserID: userID, DueDate: due}, nil
					})
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "success with explicit period",
			body: map[string]any{"book_id": 1, "user_id": 2, "period_days": 7},
			setupMock: func() {
				mockRepo.EXPECT().
					Checkout(gomock.Any(), int64(1), int64(2), gomock.Any()).
					DoAndReturn(func(_ context.Context, bookID, userID int64, due time.Time) (entity.Loan, error) {
						assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), due, time.Minute)
						return entity.Loan{ID: 8, BookID: bookID, UserID: userID, DueDate: due}, nil
					})
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing ids",
			body:           map[string]any{"book_id": 1},
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION",
		},
		{
			name: "no copies available",
			body: map[string]any{"book_id": 1, "user_id": 2},
			setupMock: func() {
				mockRepo.EXPECT().
					Checkout(gomock.Any(), int64(1), int64(2), gomock.Any()).
					Return(entity.Loan{}, usecase.ErrUnavailable)
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "UNAVAILABLE",
		},
		{
			name: "unknown book",
			body: map[string]any{"book_id": 99, "user_id": 2},
			setupMock: func() {
				mockRepo.EXPECT().
					Checkout(gomock.Any(), int64(99), int64(2), gomock.Any()).
					Return(entity.Loan{}, usecase.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			w := httptest.NewRecorder()
			r := testutil.NewRequest(http.MethodPost, "/loans/checkout", tt.body)
			handler.Checkout(w, r)

			resp := testutil.RecordHTTPResponse(w)
			assert.Equal(t, tt.expectedStatus, resp.Code)
			if tt.expectedCode != "" {
				errBody := resp.Body["error"].(map[string]any)
				assert.Equal(t, tt.expectedCode, errBody["code"])
			}
		})
	}
}

func TestLoanHandler_Return(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockLoanRepository(ctrl)
	handler := NewLoanHandler(usecase.NewLoanService(mockRepo))

	now := time.Now()
	mockRepo.EXPECT().
		Return(gomock.Any(), int64(7), gomock.Any()).
		Return(entity.Loan{ID: 7, DueDate: now.Add(time.Hour), ReturnDate: &now}, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/loans/7/return", nil)
	r.SetPathValue("id", "7")
	handler.Return(w, r)

	resp := testutil.RecordHTTPResponse(w)
	require.Equal(t, http.StatusOK, resp.Code)
	data := resp.Body["data"].(map[string]any)
	assert.Equal(t, entity.LoanStatusReturned, data["status"])
}

func TestLoanHandler_ReturnTwice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockLoanRepository(ctrl)
	handler := NewLoanHandler(usecase.NewLoanService(mockRepo))

	mockRepo.EXPECT().
		Return(gomock.Any(), int64(7), gomock.Any()).
		Return(entity.Loan{}, usecase.ErrAlreadyReturned)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/loans/7/return", nil)
	r.SetPathValue("id", "7")
	handler.Return(w, r)

	resp := testutil.RecordHTTPResponse(w)
	require.Equal(t, http.StatusConflict, resp.Code)
	errBody := resp.Body["error"].(map[string]any)
	assert.Equal(t, "ALREADY_RETURNED", errBody["code"])
}

func TestLoanHandler_ListOutstanding(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockLoanRepository(ctrl)
	handler := NewLoanHandler(usecase.NewLoanService(mockRepo))

	tests := []struct {
		name           string
		query          string
		setupMock      func()
		expectedStatus int
	}{
		{
			name:  "all users",
			query: "",
			setupMock: func() {
				mockRepo.EXPECT().ListOutstanding(gomock.Any(), int64(0)).Return([]entity.Loan{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "one user",
			query: "?user_id=5",
			setupMock: func() {
				mockRepo.EXPECT().ListOutstanding(gomock.Any(), int64(5)).Return([]entity.Loan{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "bad user_id",
			query:          "?user_id=zero",
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/loans/outstanding"+tt.query, nil)
			handler.ListOutstanding(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestLoanHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockLoanRepository(ctrl)
	handler := NewLoanHandler(usecase.NewLoanService(mockRepo))

	mockRepo.EXPECT().
		ListWithDetails(gomock.Any()).
		Return([]entity.Loan{{ID: 1, BookTitle: "T", UserName: "U", DueDate: time.Now().Add(time.Hour)}}, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/loans", nil)
	handler.List(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}
