package lookup

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	dErrors "careline/pkg/domainerrors"
	"careline/pkg/platform/httputil"
)

// CatalogService defines the lookup operations the handler needs.
type CatalogService interface {
	Departments(ctx context.Context) ([]Department, error)
	ComplaintTypes(ctx context.Context) ([]ComplaintType, error)
	SubTypes(ctx context.Context, complaintTypeID int64) ([]SubType, error)
}

// Handler serves the intake catalog endpoints.
type Handler struct {
	service CatalogService
	logger  *slog.Logger
}

func NewHandler(service CatalogService, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/departments", h.handleDepartments)
	r.Get("/complaint-types", h.handleComplaintTypes)
	r.Get("/complaint-types/{typeID}/subtypes", h.handleSubTypes)
}

type departmentJSON struct {
	DepartmentID   int64  `json:"department_id"`
	DepartmentName string `json:"department_name"`
	Description    string `json:"description,omitempty"`
}

type complaintTypeJSON struct {
	ComplaintTypeID int64  `json:"complaint_type_id"`
	TypeName        string `json:"type_name"`
	Description     string `json:"description,omitempty"`
}

type subTypeJSON struct {
	SubTypeID       int64  `json:"sub_type_id"`
	ComplaintTypeID int64  `json:"complaint_type_id"`
	SubTypeName     string `json:"sub_type_name"`
	Description     string `json:"description,omitempty"`
}

func (h *Handler) handleDepartments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	departments, err := h.service.Departments(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list departments failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	out := make([]departmentJSON, 0, len(departments))
	for _, d := range departments {
		out = append(out, departmentJSON{DepartmentID: d.ID, DepartmentName: d.Name, Description: d.Description})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"data": out})
}

func (h *Handler) handleComplaintTypes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	types, err := h.service.ComplaintTypes(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list complaint types failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	out := make([]complaintTypeJSON, 0, len(types))
	for _, t := range types {
		out = append(out, complaintTypeJSON{ComplaintTypeID: t.ID, TypeName: t.Name, Description: t.Description})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"data": out})
}

func (h *Handler) handleSubTypes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	typeID, err := strconv.ParseInt(chi.URLParam(r, "typeID"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid complaint type id"))
		return
	}
	subTypes, err := h.service.SubTypes(ctx, typeID)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.ErrorContext(ctx, "list sub types failed", "error", err)
		}
		httputil.WriteError(w, err)
		return
	}
	out := make([]subTypeJSON, 0, len(subTypes))
	for _, st := range subTypes {
		out = append(out, subTypeJSON{
			SubTypeID:       st.ID,
			ComplaintTypeID: st.ComplaintTypeID,
			SubTypeName:     st.Name,
			Description:     st.Description,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"data": out})
}
