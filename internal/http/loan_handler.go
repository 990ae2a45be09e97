package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"libraryapi/internal/usecase"
)

const defaultLoanPeriodDays = 14

type LoanHandler struct {
	loans *usecase.LoanService
}

func NewLoanHandler(loans *usecase.LoanService) *LoanHandler {
	return &LoanHandler{loans: loans}
}

type checkoutRequest struct {
	BookID int64 `json:"book_id"`
	UserID int64 `json:"user_id"`
	// Loan period in days; defaults when omitted. Zero or negative values
	// are passed through and produce an immediately overdue loan.
	PeriodDays *int `json:"period_days"`
}

func (h *LoanHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION", "malformed JSON body")
		return
	}
	if req.BookID <= 0 || req.UserID <= 0 {
		JSONError(w, http.StatusBadRequest, "VALIDATION", "book_id and user_id are required")
		return
	}
	days := defaultLoanPeriodDays
	if req.PeriodDays != nil {
		days = *req.PeriodDays
	}
	loan, err := h.loans.Checkout(r.Context(), req.BookID, req.UserID, time.Duration(days)*24*time.Hour)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccessCreated(w, loan)
}

func (h *LoanHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	loan, err := h.loans.Return(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, loan)
}

func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	loans, err := h.loans.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, loans)
}

func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	loan, err := h.loans.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, loan)
}

// ListOutstanding returns active loans, optionally scoped to one user via
// the user_id query parameter.
func (h *LoanHandler) ListOutstanding(w http.ResponseWriter, r *http.Request) {
	var userID int64
	if v := r.URL.Query().Get("user_id"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed <= 0 {
			JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid user_id")
			return
		}
		userID = parsed
	}
	loans, err := h.loans.ListOutstanding(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, loans)
}
