package employee

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
	CreateEmployee(dto CreateEmployeeDTO) (*Employee, error)
	GetEmployee(id int64) (*Employee, error)
	ListEmployees(limit, offset int, departmentID *int64) ([]*Employee, error)
	UpdateEmployee(id int64, dto UpdateEmployeeDTO) (*Employee, error)
	SetStatus(id int64, dto SetStatusDTO) (*Employee, error)
	Deactivate(id int64) (*DeactivationResult, error)
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

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var dto CreateEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	emp, err := h.Service.CreateEmployee(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, h.redactForCaller(r, emp))
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	emp, err := h.Service.GetEmployee(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, h.redactForCaller(r, emp))
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	var departmentID *int64
	if s := r.URL.Query().Get("department_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid department_id")
			return
		}
		departmentID = &id
	}

	emps, err := h.Service.ListEmployees(limit, offset, departmentID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	out := make([]*Employee, len(emps))
	for i, e := range emps {
		out[i] = h.redactForCaller(r, e)
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"employees": out,
		"limit":     limit,
		"offset":    offset,
	})
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	var dto UpdateEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// salary edits need the dedicated capability on top of manage_employees
	if dto.SalaryCents != nil && !h.callerCan(r, func(c roles.Capabilities) bool { return c.EditSalaries }) {
		h.WriteError(w, http.StatusForbidden, "salary edits require the edit_salaries capability")
		return
	}

	emp, err := h.Service.UpdateEmployee(id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, h.redactForCaller(r, emp))
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	var dto SetStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	emp, err := h.Service.SetStatus(id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, h.redactForCaller(r, emp))
}

func (h *Handler) DeactivateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	result, err := h.Service.Deactivate(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	result.Employee = h.redactForCaller(r, result.Employee)
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) redactForCaller(r *http.Request, emp *Employee) *Employee {
	if h.callerCan(r, func(c roles.Capabilities) bool { return c.ViewSalaries }) {
		return emp
	}
	return emp.Redacted()
}

func (h *Handler) callerCan(r *http.Request, selector func(roles.Capabilities) bool) bool {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		return false
	}
	caps, err := roles.PermissionsFor(user.Role)
	if err != nil {
		return false
	}
	return selector(caps)
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func pagination(r *http.Request) (limit, offset int) {
	limit, offset = 20, 0
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
	return limit, offset
}
