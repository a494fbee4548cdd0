package complaint

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	internal "github.com/ramishka-devx/inquiry-system-api/internal"
	"github.com/ramishka-devx/inquiry-system-api/internal/transport"
)

type ServiceAPI interface {
	Create(actingUserID int64, dto CreateComplainDTO) (*Complaint, error)
	FindAll(q ListQuery, ownerID *int64) (*Page, error)
	FindOne(id int64) (*Detail, error)
	CreateActivity(actingUserID, complainID int64, dto ActivityDTO) (*Activity, error)
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
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateComplainDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Create(principal.ID, dto)
	if err != nil {
		h.Logger.Error("complain creation failed", "error", err, "user_id", principal.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.FindAll(listQueryFromRequest(r), nil)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}

// FindMy lists only the caller's own complaints.
func (h *Handler) FindMy(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	page, err := h.Service.FindAll(listQueryFromRequest(r), &principal.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) FindOne(w http.ResponseWriter, r *http.Request) {
	id, ok := h.complainID(w, r)
	if !ok {
		return
	}

	detail, err := h.Service.FindOne(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := h.complainID(w, r)
	if !ok {
		return
	}

	var dto ActivityDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.Service.CreateActivity(principal.ID, id, dto)
	if err != nil {
		h.Logger.Error("activity creation failed", "error", err, "complain_id", id, "user_id", principal.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) complainID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid complain ID")
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
