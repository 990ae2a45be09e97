package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"libraryapi/internal/entity"
	"libraryapi/internal/usecase"
)

type BookHandler struct {
	books *usecase.BookService
}

func NewBookHandler(books *usecase.BookService) *BookHandler {
	return &BookHandler{books: books}
}

func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var b entity.Book
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION", "malformed JSON body")
		return
	}
	if err := h.books.Create(r.Context(), &b); err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccessCreated(w, b)
}

func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	withDetails := r.URL.Query().Get("details") == "true"
	books, err := h.books.List(r.Context(), withDetails)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, books)
}

func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	book, err := h.books.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, book)
}

func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var updates map[string]any
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION", "malformed JSON body")
		return
	}
	book, err := h.books.Update(r.Context(), id, updates)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, book)
}

func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.books.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, map[string]bool{"deleted": true})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid id")
		return 0, false
	}
	return id, true
}
