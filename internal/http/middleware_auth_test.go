package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"libraryapi/internal/entity"
	"libraryapi/internal/testutil"
)

func TestAuthMiddleware(t *testing.T) {
	const secret = "test-secret"

	var gotUserID int64
	var gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFrom(r)
		gotRole = RoleFrom(r)
		w.WriteHeader(http.StatusOK)
	})
	protected := AuthMiddleware(secret)(next)

	tests := []struct {
		name           string
		token          string
		expectedStatus int
	}{
		{"valid token", testutil.GenerateTestToken(secret, 42, entity.RoleLibrarian), http.StatusOK},
		{"no token", "", http.StatusUnauthorized},
		{"garbage token", "not.a.jwt", http.StatusUnauthorized},
		{"expired token", testutil.GenerateExpiredToken(secret, 42, entity.RoleLibrarian), http.StatusUnauthorized},
		{"wrong secret", testutil.GenerateTestToken("other-secret", 42, entity.RoleLibrarian), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUserID, gotRole = 0, ""

			w := httptest.NewRecorder()
			r := testutil.NewRequestWithAuth(http.MethodGet, "/books", nil, tt.token)
			protected.ServeHTTP(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, int64(42), gotUserID)
				assert.Equal(t, entity.RoleLibrarian, gotRole)
			}
		})
	}
}
