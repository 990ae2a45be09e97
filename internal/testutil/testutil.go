package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"time"

	"libraryapi/internal/auth"
	"libraryapi/internal/entity"

	"github.com/golang-jwt/jwt/v5"
)

// TestReader is a mock reader-role user for testing
var TestReader = entity.User{
	ID:        101,
	Name:      "Test Reader",
	Email:     "reader@example.com",
	Role:      entity.RoleReader,
	CreatedAt: time.Now(),
	UpdatedAt: time.Now(),
}

// TestLibrarian is a mock librarian-role user for testing
var TestLibrarian = entity.User{
	ID:        102,
	Name:      "Test Librarian",
	Email:     "librarian@example.com",
	Role:      entity.RoleLibrarian,
	CreatedAt: time.Now(),
	UpdatedAt: time.Now(),
}

// TestBook is a mock book for testing
var TestBook = entity.Book{
	ID:              201,
	Title:           "Test Book Title",
	AuthorID:        1,
	CategoryID:      1,
	EditorialID:     1,
	ISBN:            "978-0-123456-78-9",
	Year:            2020,
	TotalCopies:     3,
	AvailableCopies: 3,
	CreatedAt:       time.Now(),
	UpdatedAt:       time.Now(),
}

// GenerateTestToken generates a JWT token for testing
func GenerateTestToken(secret string, userID int64, role string) string {
	token, _ := auth.GenerateToken(secret, userID, role, time.Hour)
	return token
}

// GenerateExpiredToken generates an expired JWT token for testing
func GenerateExpiredToken(secret string, userID int64, role string) string {
	c := auth.Claims{
		Sub:  strconv.FormatInt(userID, 10),
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	token, _ := t.SignedString([]byte(secret))
	return token
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// NewRequestWithAuth creates a new HTTP request with JWT auth for testing
func NewRequestWithAuth(method, path string, body interface{}, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}
