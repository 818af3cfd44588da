package document

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/peopleops/hr-platform/internal"
	"github.com/peopleops/hr-platform/internal/roles"
	"github.com/peopleops/hr-platform/internal/transport"
)

type ServiceAPI interface {
	StoreReceipt(up Upload) (*Document, error)
	StoreMedicalCertificate(up Upload) (*Document, error)
	GetDocument(id int64) (*Document, error)
	ListForEmployee(employeeID int64) ([]*Document, error)
	OpenContent(id int64) (*Document, io.ReadCloser, error)
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

func (h *Handler) UploadReceipt(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, h.Service.StoreReceipt)
}

func (h *Handler) UploadMedicalCertificate(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, h.Service.StoreMedicalCertificate)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request, store func(Upload) (*Document, error)) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if user.EmployeeID == nil {
		h.WriteError(w, http.StatusForbidden, "account has no employee record")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxFileSize+1024)
	if err := r.ParseMultipartForm(MaxFileSize); err != nil {
		h.HandleServiceError(w, ErrFileTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	doc, err := store(Upload{
		EmployeeID:  *user.EmployeeID,
		UploadedBy:  user.ID,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		SizeBytes:   header.Size,
		Body:        file,
	})
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, doc)
}

func (h *Handler) ListForEmployee(w http.ResponseWriter, r *http.Request) {
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
	if !canSeeEmployee(user, employeeID) {
		h.WriteError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	docs, err := h.Service.ListForEmployee(employeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"documents": docs})
}

// Download streams the stored bytes with the original content type.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	doc, rc, err := h.Service.OpenContent(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	defer rc.Close()

	if !canSeeEmployee(user, doc.EmployeeID) {
		h.WriteError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+doc.FileName+"\"")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)
}

func canSeeEmployee(user *internal.AuthUser, employeeID int64) bool {
	if roles.AtLeastManager(user.Role) {
		return true
	}
	return user.EmployeeID != nil && *user.EmployeeID == employeeID
}
