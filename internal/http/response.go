package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"libraryapi/internal/usecase"
)

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   ErrorResponseBody `json:"error"`
}

type ErrorResponseBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func JSONSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(SuccessResponse{Success: true, Data: data})
}

func JSONSuccessCreated(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SuccessResponse{Success: true, Data: data})
}

func JSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Error:   ErrorResponseBody{Code: code, Message: message},
	})
}

// WriteError maps the shared error taxonomy onto HTTP statuses. This is the
// only place status codes and domain errors meet.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, usecase.ErrNotFound):
		JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, usecase.ErrConflict):
		JSONError(w, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, usecase.ErrUnavailable):
		JSONError(w, http.StatusConflict, "UNAVAILABLE", err.Error())
	case errors.Is(err, usecase.ErrAlreadyReturned):
		JSONError(w, http.StatusConflict, "ALREADY_RETURNED", err.Error())
	case errors.Is(err, usecase.ErrBackendTimeout):
		JSONError(w, http.StatusGatewayTimeout, "BACKEND_TIMEOUT", "storage backend did not respond in time")
	default:
		JSONError(w, http.StatusInternalServerError, "INTERNAL", "server error")
	}
}
