package notification

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/peopleops/hr-platform/internal"
	"github.com/peopleops/hr-platform/internal/transport"
)

type ServiceAPI interface {
	ListForEmployee(employeeID int64, unreadOnly bool, limit, offset int) ([]*Notification, error)
	MarkRead(id, employeeID int64) error
	MarkAllRead(employeeID int64) error
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

// ListMine returns the caller's notifications, newest first.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.callerEmployee(w, r)
	if !ok {
		return
	}

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
	unreadOnly := r.URL.Query().Get("unread") == "true"

	items, err := h.Service.ListForEmployee(employeeID, unreadOnly, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": items,
		"limit":         limit,
		"offset":        offset,
	})
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.callerEmployee(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid notification ID")
		return
	}

	if err := h.Service.MarkRead(id, employeeID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.callerEmployee(w, r)
	if !ok {
		return
	}

	if err := h.Service.MarkAllRead(employeeID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *Handler) callerEmployee(w http.ResponseWriter, r *http.Request) (int64, bool) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return 0, false
	}
	if user.EmployeeID == nil {
		h.WriteError(w, http.StatusForbidden, "account has no employee record")
		return 0, false
	}
	return *user.EmployeeID, true
}
