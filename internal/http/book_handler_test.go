package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/entity"
	"libraryapi/internal/store/mocks"
	"libraryapi/internal/testutil"
	"libraryapi/internal/usecase"
)

func TestBookHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockBookRepository(ctrl)
	handler := NewBookHandler(usecase.NewBookService(mockRepo))

	tests := []struct {
		name           string
		body           any
		setupMock      func()
		expectedStatus int
	}{
		{
			name: "success",
			body: map[string]any{"title": "Pedro Paramo", "author_id": 1, "category_id": 1, "editorial_id": 1, "total_copies": 2},
			setupMock: func() {
				mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing title",
			body:           map[string]any{"author_id": 1, "category_id": 1, "editorial_id": 1},
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown author",
			body: map[string]any{"title": "x", "author_id": 99, "category_id": 1, "editorial_id": 1},
			setupMock: func() {
				mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(usecase.ErrValidation)
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			w := httptest.NewRecorder()
			r := testutil.NewRequest(http.MethodPost, "/books", tt.body)
			handler.Create(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestBookHandler_CreateMalformedBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockBookRepository(ctrl)
	handler := NewBookHandler(usecase.NewBookService(mockRepo))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/books", nil)
	handler.Create(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookHandler_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockBookRepository(ctrl)
	handler := NewBookHandler(usecase.NewBookService(mockRepo))

	mockRepo.EXPECT().GetByID(gomock.Any(), int64(201)).Return(testutil.TestBook, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/books/201", nil)
	r.SetPathValue("id", "201")
	handler.Get(w, r)

	resp := testutil.RecordHTTPResponse(w)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, true, resp.Body["success"])
	data := resp.Body["data"].(map[string]any)
	assert.Equal(t, "Test Book Title", data["title"])
}

func TestBookHandler_GetNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockBookRepository(ctrl)
	handler := NewBookHandler(usecase.NewBookService(mockRepo))

	mockRepo.EXPECT().GetByID(gomock.Any(), int64(404)).Return(entity.Book{}, usecase.ErrNotFound)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/books/404", nil)
	r.SetPathValue("id", "404")
	handler.Get(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookHandler_GetInvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockBookRepository(ctrl)
	handler := NewBookHandler(usecase.NewBookService(mockRepo))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/books/abc", nil)
	r.SetPathValue("id", "abc")
	handler.Get(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockBookRepository(ctrl)
	handler := NewBookHandler(usecase.NewBookService(mockRepo))

	mockRepo.EXPECT().List(gomock.Any()).Return([]entity.Book{testutil.TestBook}, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/books", nil)
	handler.List(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBookHandler_ListWithDetails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockBookRepository(ctrl)
	handler := NewBookHandler(usecase.NewBookService(mockRepo))

	mockRepo.EXPECT().ListWithDetails(gomock.Any()).Return([]entity.Book{testutil.TestBook}, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/books?details=true", nil)
	handler.List(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBookHandler_UpdateConflictingShrink(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockBookRepository(ctrl)
	handler := NewBookHandler(usecase.NewBookService(mockRepo))

	mockRepo.EXPECT().
		Update(gomock.Any(), int64(201), gomock.Any()).
		Return(entity.Book{}, usecase.ErrValidation)

	w := httptest.NewRecorder()
	r := testutil.NewRequest(http.MethodPut, "/books/201", map[string]any{"total_copies": 1})
	r.SetPathValue("id", "201")
	handler.Update(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookHandler_DeleteWithLoans(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockBookRepository(ctrl)
	handler := NewBookHandler(usecase.NewBookService(mockRepo))

	mockRepo.EXPECT().Delete(gomock.Any(), int64(201)).Return(usecase.ErrConflict)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodDelete, "/books/201", nil)
	r.SetPathValue("id", "201")
	handler.Delete(w, r)

	assert.Equal(t, http.StatusConflict, w.Code)
}
