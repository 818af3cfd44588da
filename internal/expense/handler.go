package expense

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/peopleops/hr-platform/internal"
	"github.com/peopleops/hr-platform/internal/roles"
	"github.com/peopleops/hr-platform/internal/transport"
)

type ServiceAPI interface {
	SubmitExpense(employeeID int64, dto SubmitExpenseDTO) (*ExpenseRequest, error)
	GetRequest(id int64) (*ExpenseRequest, error)
	ListRequests(filter ListFilter) ([]*ExpenseRequest, error)
	ApproveStage(stage string, id, approverID int64, dto ResolveExpenseDTO) (*ExpenseRequest, error)
	RejectStage(stage string, id, approverID int64, dto ResolveExpenseDTO) (*ExpenseRequest, error)
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

func (h *Handler) SubmitExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if user.EmployeeID == nil {
		h.WriteError(w, http.StatusForbidden, "account has no employee record")
		return
	}

	var dto SubmitExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.SubmitExpense(*user.EmployeeID, dto)
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
			h.WriteJSON(w, http.StatusOK, map[string]interface{}{"expense_requests": []*ExpenseRequest{}})
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
		"expense_requests": reqs,
		"limit":            filter.Limit,
		"offset":           filter.Offset,
	})
}

// Stage handlers. Route-level guards restrict the manager endpoints to
// manager-or-above and the HR endpoints to the HR roles.

func (h *Handler) ApproveManagerStage(w http.ResponseWriter, r *http.Request) {
	h.resolveStage(w, r, StageManager, h.Service.ApproveStage)
}

func (h *Handler) RejectManagerStage(w http.ResponseWriter, r *http.Request) {
	h.resolveStage(w, r, StageManager, h.Service.RejectStage)
}

func (h *Handler) ApproveHRStage(w http.ResponseWriter, r *http.Request) {
	h.resolveStage(w, r, StageHR, h.Service.ApproveStage)
}

func (h *Handler) RejectHRStage(w http.ResponseWriter, r *http.Request) {
	h.resolveStage(w, r, StageHR, h.Service.RejectStage)
}

func (h *Handler) resolveStage(w http.ResponseWriter, r *http.Request, stage string, fn func(string, int64, int64, ResolveExpenseDTO) (*ExpenseRequest, error)) {
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

	var dto ResolveExpenseDTO
	if r.Body != nil {
		// note is optional, an empty body is fine
		_ = json.NewDecoder(r.Body).Decode(&dto)
	}

	req, err := fn(stage, id, user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}

func canSeeRequest(user *internal.AuthUser, employeeID int64) bool {
	if roles.AtLeastManager(user.Role) {
		return true
	}
	return user.EmployeeID != nil && *user.EmployeeID == employeeID
}
