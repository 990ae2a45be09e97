package http

import (
	"encoding/json"
	"net/http"
	"time"

	"libraryapi/internal/auth"
	"libraryapi/internal/usecase"
)

const tokenTTL = 24 * time.Hour

type UserHandler struct {
	users     *usecase.UserService
	jwtSecret string
}

func NewUserHandler(users *usecase.UserService, jwtSecret string) *UserHandler {
	return &UserHandler{users: users, jwtSecret: jwtSecret}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION", "malformed JSON body")
		return
	}
	user, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccessCreated(w, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION", "malformed JSON body")
		return
	}
	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
		return
	}
	token, err := auth.GenerateToken(h.jwtSecret, user.ID, user.Role, tokenTTL)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, map[string]any{"token": token, "user": user})
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), UserIDFrom(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, user)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, updates, ok := pathIDAndUpdates(w, r)
	if !ok {
		return
	}
	user, err := h.users.Update(r.Context(), id, updates)
	if err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}
	JSONSuccess(w, map[string]bool{"deleted": true})
}
