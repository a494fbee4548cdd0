package category

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/ramishka-devx/inquiry-system-api/internal/transport"
)

type ServiceAPI interface {
	Create(dto CreateCategoryDTO) (*Category, error)
	FindAll(q ListQuery) (*Page, error)
	FindOne(id int64) (*Category, error)
	Update(id int64, dto UpdateCategoryDTO) (*Category, error)
	Remove(id int64) error
	Assign(id int64, dto AssignDTO) (*Category, error)
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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Create(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, c)
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
	id, ok := h.categoryID(w, r)
	if !ok {
		return
	}

	c, err := h.Service.FindOne(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.categoryID(w, r)
	if !ok {
		return
	}

	var dto UpdateCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Update(id, dto)
	if err != nil {
		h.Logger.Error("category update failed", "error", err, "category_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.categoryID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Remove(id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	id, ok := h.categoryID(w, r)
	if !ok {
		return
	}

	var dto AssignDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Assign(id, dto)
	if err != nil {
		h.Logger.Error("category assignment failed", "error", err, "category_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) categoryID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid category ID")
		return 0, false
	}
	return id, true
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
