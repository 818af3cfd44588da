package promotion

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/peopleops/hr-platform/internal"
	"github.com/peopleops/hr-platform/internal/transport"
)

type ServiceAPI interface {
	SubmitPromotion(dto SubmitPromotionDTO) (*PromotionRequest, error)
	GetRequest(id int64) (*PromotionRequest, error)
	ListRequests(status string, limit, offset int) ([]*PromotionRequest, error)
	Approve(ctx context.Context, requestID, approverID int64, note string) (*PromotionRequest, error)
	Reject(ctx context.Context, requestID, approverID int64, note string) (*PromotionRequest, error)
	HistoryFor(employeeID int64) ([]*RoleHistoryEntry, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(nil),
		Service:     service,
	}
}

func (h *Handler) SubmitPromotion(w http.ResponseWriter, r *http.Request) {
	var dto SubmitPromotionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.SubmitPromotion(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, req)
}

func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request ID")
		return
	}

	req, err := h.Service.GetRequest(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	limit, offset := 20, 0
	if s := r.URL.Query().Get("limit"); s != "" {
		if l, err := strconv.Atoi(s); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		if o, err := strconv.Atoi(s); err == nil && o >= 0 {
			offset = o
		}
	}

	reqs, err := h.Service.ListRequests(r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"promotions": reqs,
		"limit":      limit,
		"offset":     offset,
	})
}

func (h *Handler) ApprovePromotion(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.Service.Approve)
}

func (h *Handler) RejectPromotion(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.Service.Reject)
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, fn func(context.Context, int64, int64, string) (*PromotionRequest, error)) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request ID")
		return
	}

	var dto ResolvePromotionDTO
	if r.Body != nil {
		// note is optional, an empty body is fine
		_ = json.NewDecoder(r.Body).Decode(&dto)
	}

	req, err := fn(r.Context(), id, user.ID, dto.Note)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) GetRoleHistory(w http.ResponseWriter, r *http.Request) {
	employeeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	entries, err := h.Service.HistoryFor(employeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"history": entries})
}
