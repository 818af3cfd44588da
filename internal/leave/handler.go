package leave

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/peopleops/hr-platform/internal"
	"github.com/peopleops/hr-platform/internal/roles"
	"github.com/peopleops/hr-platform/internal/transport"
)

type ServiceAPI interface {
	SubmitLeave(employeeID int64, dto SubmitLeaveDTO) (*LeaveRequest, error)
	GetRequest(id int64) (*LeaveRequest, error)
	ListRequests(filter ListFilter) ([]*LeaveRequest, error)
	Approve(id, approverID int64, dto ResolveLeaveDTO) (*LeaveRequest, error)
	Reject(id, approverID int64, dto ResolveLeaveDTO) (*LeaveRequest, error)
	GetBalances(employeeID int64, year int) (*BalanceSummary, error)
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

// SubmitLeave files a request for the caller's own employee record.
func (h *Handler) SubmitLeave(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if user.EmployeeID == nil {
		h.WriteError(w, http.StatusForbidden, "account has no employee record")
		return
	}

	var dto SubmitLeaveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.SubmitLeave(*user.EmployeeID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, req)
}

func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
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

	req, err := h.Service.GetRequest(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if !canSeeRequest(user, req.EmployeeID) {
		h.WriteError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}

// ListRequests returns all requests for managers and HR; everyone else is
// pinned to their own employee record regardless of the query string.
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filter := ListFilter{
		Status: r.URL.Query().Get("status"),
		Limit:  20,
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		if l, err := strconv.Atoi(s); err == nil && l > 0 && l <= 100 {
			filter.Limit = l
		}
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		if o, err := strconv.Atoi(s); err == nil && o >= 0 {
			filter.Offset = o
		}
	}

	if roles.AtLeastManager(user.Role) {
		if s := r.URL.Query().Get("employee_id"); s != "" {
			if id, err := strconv.ParseInt(s, 10, 64); err == nil {
				filter.EmployeeID = &id
			}
		}
	} else {
		if user.EmployeeID == nil {
			h.WriteJSON(w, http.StatusOK, map[string]interface{}{"leave_requests": []*LeaveRequest{}})
			return
		}
		filter.EmployeeID = user.EmployeeID
	}

	reqs, err := h.Service.ListRequests(filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"leave_requests": reqs,
		"limit":          filter.Limit,
		"offset":         filter.Offset,
	})
}

func (h *Handler) ApproveLeave(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.Service.Approve)
}

func (h *Handler) RejectLeave(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.Service.Reject)
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, fn func(int64, int64, ResolveLeaveDTO) (*LeaveRequest, error)) {
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

	var dto ResolveLeaveDTO
	if r.Body != nil {
		// note is optional, an empty body is fine
		_ = json.NewDecoder(r.Body).Decode(&dto)
	}

	req, err := fn(id, user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}

// GetBalances serves /employees/{id}/leave-balances. Employees may only read
// their own ledger.
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	employeeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}
	if !canSeeRequest(user, employeeID) {
		h.WriteError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	year := time.Now().Year()
	if s := r.URL.Query().Get("year"); s != "" {
		if y, err := strconv.Atoi(s); err == nil && y > 2000 && y < 2200 {
			year = y
		}
	}

	summary, err := h.Service.GetBalances(employeeID, year)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}

func canSeeRequest(user *internal.AuthUser, employeeID int64) bool {
	if roles.AtLeastManager(user.Role) {
		return true
	}
	return user.EmployeeID != nil && *user.EmployeeID == employeeID
}
