package user

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	internal "github.com/ramishka-devx/inquiry-system-api/internal"
	"github.com/ramishka-devx/inquiry-system-api/internal/transport"
)

type ServiceAPI interface {
	FindOne(id int64) (*User, error)
	FindAll(q ListQuery) (*Page, error)
	Update(id int64, dto UpdateUserDTO) (*User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: base,
		Service:     svc,
	}
}

// Profile handles GET /users/profile for the authenticated caller.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Service.FindOne(principal.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.FindAll(listQueryFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) FindOne(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	u, err := h.Service.FindOne(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

// UpdateProfile handles PATCH /users/profile: the caller updates itself, no
// permission tag required.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	h.update(w, r, principal.ID)
}

// Update handles PATCH /users/{id} for administrative edits.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}
	h.update(w, r, id)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, id int64) {
	var dto UpdateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.Update(id, dto)
	if err != nil {
		h.Logger.Error("user update failed", "error", err, "user_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

func listQueryFromRequest(r *http.Request) ListQuery {
	q := ListQuery{Search: r.URL.Query().Get("search"), Page: 1, Limit: 10}
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		q.Page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		q.Limit = v
	}
	return q
}
