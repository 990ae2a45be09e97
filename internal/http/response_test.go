package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"libraryapi/internal/testutil"
	"libraryapi/internal/usecase"
)

func TestWriteError_Taxonomy(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedTag  string
	}{
		{"validation", fmt.Errorf("%w: title is required", usecase.ErrValidation), http.StatusBadRequest, "VALIDATION"},
		{"not found", usecase.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"conflict", fmt.Errorf("%w: email already registered", usecase.ErrConflict), http.StatusConflict, "CONFLICT"},
		{"unavailable", usecase.ErrUnavailable, http.StatusConflict, "UNAVAILABLE"},
		{"already returned", usecase.ErrAlreadyReturned, http.StatusConflict, "ALREADY_RETURNED"},
		{"backend timeout", usecase.ErrBackendTimeout, http.StatusGatewayTimeout, "BACKEND_TIMEOUT"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			resp := testutil.RecordHTTPResponse(w)
			assert.Equal(t, tt.expectedCode, resp.Code)
			assert.Equal(t, false, resp.Body["success"])
			errBody := resp.Body["error"].(map[string]any)
			assert.Equal(t, tt.expectedTag, errBody["code"])
		})
	}
}

func TestJSONSuccessEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	JSONSuccess(w, map[string]int{"n": 1})

	resp := testutil.RecordHTTPResponse(w)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, true, resp.Body["success"])
}
