package http

import (
	"encoding/json"
	"net/http"

	"libraryapi/internal/entity"
	"libraryapi/internal/usecase"
)

// CatalogHandler serves the three reference entities. The repositories carry
// all the behaviour; these are pass-throughs to the backend-selected driver.
type CatalogHandler struct {
	authors    usecase.AuthorRepository
	categories usecase.CategoryRepository
	editorials usecase.EditorialRepository
}

func NewCatalogHandler(authors usecase.AuthorRepository, categories usecase.CategoryRepository, editorials usecase.EditorialRepository) *CatalogHandler {
	return &CatalogHandler{authors: authors, categories: categories, editorials: editorials}
}

func (h *CatalogHandler) CreateAuthor(w http.ResponseWriter, r *http.Request) {
	var a entity.Author
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION", "malformed JSON body")
		return
	}
	if err := h.authors.Create(r.Context(), &a); err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccessCreated(w, a)
}

func (h *CatalogHandler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	out, err := h.authors.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, out)
}

func (h *CatalogHandler) GetAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := h.authors.GetByID(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, a)
}

func (h *CatalogHandler) UpdateAuthor(w http.ResponseWriter, r *http.Request) {
	id, updates, ok := pathIDAndUpdates(w, r)
	if !ok {
		return
	}
	a, err := h.authors.Update(r.Context(), id, updates)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, a)
}

func (h *CatalogHandler) DeleteAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.authors.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, map[string]bool{"deleted": true})
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var c entity.Category
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION", "malformed JSON body")
		return
	}
	if err := h.categories.Create(r.Context(), &c); err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccessCreated(w, c)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	out, err := h.categories.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, out)
}

func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.categories.GetByID(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, c)
}

func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, updates, ok := pathIDAndUpdates(w, r)
	if !ok {
		return
	}
	c, err := h.categories.Update(r.Context(), id, updates)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, c)
}

func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.categories.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, map[string]bool{"deleted": true})
}

func (h *CatalogHandler) CreateEditorial(w http.ResponseWriter, r *http.Request) {
	var e entity.Editorial
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION", "malformed JSON body")
		return
	}
	if err := h.editorials.Create(r.Context(), &e); err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccessCreated(w, e)
}

func (h *CatalogHandler) ListEditorials(w http.ResponseWriter, r *http.Request) {
	out, err := h.editorials.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, out)
}

func (h *CatalogHandler) GetEditorial(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	e, err := h.editorials.GetByID(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, e)
}

func (h *CatalogHandler) UpdateEditorial(w http.ResponseWriter, r *http.Request) {
	id, updates, ok := pathIDAndUpdates(w, r)
	if !ok {
		return
	}
	e, err := h.editorials.Update(r.Context(), id, updates)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, e)
}

func (h *CatalogHandler) DeleteEditorial(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.editorials.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, map[string]bool{"deleted": true})
}

func pathIDAndUpdates(w http.ResponseWriter, r *http.Request) (int64, map[string]any, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return 0, nil, false
	}
	var updates map[string]any
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION", "malformed JSON body")
		return 0, nil, false
	}
	return id, updates, true
}
