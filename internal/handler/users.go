package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/middleware"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/model"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/pagination"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/policy"
)

// userResponse — внешнее представление учётной записи.
// Хэш пароля не сериализуется ни при каком пути исполнения.
type userResponse struct {
	Email string      `json:"email"`
	Roles model.Roles `json:"roles"`
}

func newUserResponse(u *model.User) userResponse {
	return userResponse{
		Email: u.Email,
		Roles: u.Roles,
	}
}

type createUserRequest struct {
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Roles    *model.Roles `json:"roles"`
}

// CreateUser обрабатывает регистрацию новой учётной записи.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	roles := model.Roles{}
	if req.Roles != nil {
		roles = *req.Roles
	}

	u, err := h.service.Register(r.Context(), req.Email, req.Password, roles)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, newUserResponse(u))
}

// GetUsers возвращает страницу учётных записей.
func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination.Bounds(r.URL.Query())

	users, total, err := h.service.Accounts(r.Context(), page, limit)
	if err != nil {
		h.respondError(w, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for i := range users {
		resp = append(resp, newUserResponse(&users[i]))
	}

	setPageHeaders(w, r, page, limit, total)
	h.respondJSON(w, resp)
}

// GetUser возвращает одну учётную запись по email.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	u, err := h.service.Account(r.Context(), caller, chi.URLParam(r, "uid"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, newUserResponse(u))
}

type updateUserRequest struct {
	Email    *string      `json:"email"`
	Password *string      `json:"password"`
	Roles    *model.Roles `json:"roles"`
}

// UpdateUser изменяет учётную запись в пределах полей, разрешённых
// политикой авторизации.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	u, err := h.service.UpdateAccount(r.Context(), caller, chi.URLParam(r, "uid"), policy.Patch{
		Email:    req.Email,
		Password: req.Password,
		Roles:    req.Roles,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, newUserResponse(u))
}

// DeleteUser удаляет учётную запись и возвращает её последнее состояние.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	u, err := h.service.DeleteAccount(r.Context(), caller, chi.URLParam(r, "uid"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, newUserResponse(u))
}
