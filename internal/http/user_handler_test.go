package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/auth"
	"libraryapi/internal/entity"
	"libraryapi/internal/store/mocks"
	"libraryapi/internal/testutil"
	"libraryapi/internal/usecase"
)

const testSecret = "test-secret"

func TestUserHandler_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockUserRepository(ctrl)
	handler := NewUserHandler(usecase.NewUserService(mockRepo), testSecret)

	mockRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *entity.User) error {
			u.ID = 1
			return nil
		})

	w := httptest.NewRecorder()
	r := testutil.NewRequest(http.MethodPost, "/users/register",
		map[string]any{"name": "Ana", "email": "ana@example.com", "password": "secret123"})
	handler.Register(w, r)

	resp := testutil.RecordHTTPResponse(w)
	require.Equal(t, http.StatusCreated, resp.Code)
	data := resp.Body["data"].(map[string]any)
	assert.Equal(t, entity.RoleReader, data["role"])
	// The hash never leaves the server.
	_, leaked := data["password"]
	assert.False(t, leaked)
}

func TestUserHandler_RegisterDuplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockUserRepository(ctrl)
	handler := NewUserHandler(usecase.NewUserService(mockRepo), testSecret)

	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(usecase.ErrConflict)

	w := httptest.NewRecorder()
	r := testutil.NewRequest(http.MethodPost, "/users/register",
		map[string]any{"name": "Ana", "email": "ana@example.com", "password": "secret123"})
	handler.Register(w, r)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUserHandler_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockUserRepository(ctrl)
	handler := NewUserHandler(usecase.NewUserService(mockRepo), testSecret)

	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	stored := entity.User{ID: 5, Email: "ana@example.com", Password: hash, Role: entity.RoleReader}

	mockRepo.EXPECT().GetByEmail(gomock.Any(), "ana@example.com").Return(stored, nil)

	w := httptest.NewRecorder()
	r := testutil.NewRequest(http.MethodPost, "/users/login",
		map[string]any{"email": "ana@example.com", "password": "secret123"})
	handler.Login(w, r)

	resp := testutil.RecordHTTPResponse(w)
	require.Equal(t, http.StatusOK, resp.Code)
	data := resp.Body["data"].(map[string]any)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)

	claims, err := auth.ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, int64(5), claims.UserID())
	assert.Equal(t, entity.RoleReader, claims.Role)
}

func TestUserHandler_LoginBadPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockUserRepository(ctrl)
	handler := NewUserHandler(usecase.NewUserService(mockRepo), testSecret)

	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	mockRepo.EXPECT().
		GetByEmail(gomock.Any(), "ana@example.com").
		Return(entity.User{ID: 5, Password: hash}, nil)

	w := httptest.NewRecorder()
	r := testutil.NewRequest(http.MethodPost, "/users/login",
		map[string]any{"email": "ana@example.com", "password": "wrong"})
	handler.Login(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserHandler_LoginUnknownEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockUserRepository(ctrl)
	handler := NewUserHandler(usecase.NewUserService(mockRepo), testSecret)

	mockRepo.EXPECT().
		GetByEmail(gomock.Any(), "ghost@example.com").
		Return(entity.User{}, usecase.ErrNotFound)

	w := httptest.NewRecorder()
	r := testutil.NewRequest(http.MethodPost, "/users/login",
		map[string]any{"email": "ghost@example.com", "password": "x"})
	handler.Login(w, r)

	// Indistinguishable from a bad password.
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserHandler_Me(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockUserRepository(ctrl)
	handler := NewUserHandler(usecase.NewUserService(mockRepo), testSecret)

	mockRepo.EXPECT().GetByID(gomock.Any(), int64(101)).Return(testutil.TestReader, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/me", nil)
	r = r.WithContext(context.WithValue(r.Context(), userIDKey, int64(101)))
	handler.Me(w, r)

	resp := testutil.RecordHTTPResponse(w)
	require.Equal(t, http.StatusOK, resp.Code)
	data := resp.Body["data"].(map[string]any)
	assert.Equal(t, "reader@example.com", data["email"])
}
