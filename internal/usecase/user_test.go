package usecase

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/auth"
	"libraryapi/internal/entity"
	"libraryapi/internal/store/mocks"
)

func TestUserService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(mockRepo)

	mockRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *entity.User) error {
			assert.Equal(t, entity.RoleReader, u.Role)
			assert.NotEqual(t, "secret123", u.Password)
			assert.True(t, auth.VerifyPassword(u.Password, "secret123"))
			u.ID = 1
			return nil
		})

	user, err := svc.Register(context.Background(), "Ana", "ana@example.com", "secret123", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
}

func TestUserService_RegisterValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(mockRepo)

	tests := []struct {
		name  string
		args  [4]string // name, email, password, role
	}{
		{"missing name", [4]string{"", "a@b.c", "pw", ""}},
		{"missing email", [4]string{"Ana", "", "pw", ""}},
		{"missing password", [4]string{"Ana", "a@b.c", "", ""}},
		{"malformed email", [4]string{"Ana", "not-an-email", "pw", ""}},
		{"unknown role", [4]string{"Ana", "a@b.c", "pw", "SUPERUSER"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.args[0], tt.args[1], tt.args[2], tt.args[3])
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(mockRepo)

	mockRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(ErrConflict)

	_, err := svc.Register(context.Background(), "Ana", "ana@example.com", "pw", "")
	require.ErrorIs(t, err, ErrConflict)
}

func TestUserService_Authenticate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(mockRepo)

	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	stored := entity.User{ID: 1, Email: "ana@example.com", Password: hash, Role: entity.RoleReader}

	mockRepo.EXPECT().GetByEmail(gomock.Any(), "ana@example.com").Return(stored, nil).Times(2)

	user, err := svc.Authenticate(context.Background(), "ana@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)

	_, err = svc.Authenticate(context.Background(), "ana@example.com", "wrong")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_UpdateRoleValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(mockRepo)

	_, err := svc.Update(context.Background(), 1, map[string]any{"role": "WIZARD"})
	require.ErrorIs(t, err, ErrValidation)

	mockRepo.EXPECT().
		Update(gomock.Any(), int64(1), gomock.Any()).
		Return(entity.User{ID: 1, Role: entity.RoleLibrarian}, nil)
	user, err := svc.Update(context.Background(), 1, map[string]any{"role": entity.RoleLibrarian})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleLibrarian, user.Role)
}
