// Package handler exposes the complaint endpoints. It translates HTTP to
// service calls and back; no lifecycle rules live here.
package handler

import (
	"context"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"careline/internal/complaint/models"
	"careline/internal/complaint/service"
	"careline/internal/filestore"
	dErrors "careline/pkg/domainerrors"
	"careline/pkg/platform/httputil"
)

// multipartMemory caps how much of a submission is buffered in memory before
// spilling to temp files. Individual file size limits live in the stager.
const multipartMemory = 32 << 20

const visitDateLayout = "2006-01-02"

// Service defines the complaint operations the handler needs.
type Service interface {
	Submit(ctx context.Context, in service.SubmitInput) (*models.Complaint, error)
	Transition(ctx context.Context, in service.TransitionInput) error
	Detail(ctx context.Context, complaintID int64) (*models.Detail, error)
	ListForCaller(ctx context.Context, filter models.Filter) ([]models.ListItem, error)
	ListOwn(ctx context.Context, filter models.Filter) ([]models.ListItem, error)
	PatientComplaints(ctx context.Context, nationalID string) ([]models.PatientComplaint, error)
	VerifyPatient(ctx context.Context, nationalID string) (*service.Verification, error)
}

// Stager persists uploaded files before their metadata is recorded.
type Stager interface {
	Save(header *multipart.FileHeader) (*filestore.StoredFile, error)
}

// Handler wires complaint endpoints to the lifecycle service.
type Handler struct {
	service Service
	stager  Stager
	logger  *slog.Logger
}

func New(service Service, stager Stager, logger *slog.Logger) *Handler {
	return &Handler{service: service, stager: stager, logger: logger}
}

// Register mounts the complaint and patient routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/complaints", func(r chi.Router) {
		r.Post("/", h.handleSubmit)
		r.Get("/", h.handleList)
		r.Get("/mine", h.handleListOwn)
		r.Get("/{complaintID}", h.handleDetail)
		r.Put("/{complaintID}/status", h.handleUpdateStatus)
	})
	r.Route("/patients/{nationalID}", func(r chi.Router) {
		r.Get("/complaints", h.handlePatientComplaints)
		r.Get("/verify", h.handleVerifyPatient)
	})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request must be multipart/form-data"))
		return
	}

	in := service.SubmitInput{
		NationalID:    r.FormValue("nationalId"),
		PatientName:   r.FormValue("patientName"),
		ContactNumber: r.FormValue("contactNumber"),
		Gender:        r.FormValue("gender"),
		Details:       r.FormValue("complaintDetails"),
	}

	var err error
	if in.DepartmentID, err = formInt64(r, "departmentID"); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if in.ComplaintTypeID, err = formInt64(r, "complaintTypeID"); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if in.SubTypeID, err = formOptionalInt64(r, "subTypeID"); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if in.AssignedEmployee, err = formOptionalInt64(r, "employeeID"); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if v := strings.TrimSpace(r.FormValue("visitDate")); v != "" {
		in.VisitDate, err = time.Parse(visitDateLayout, v)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "visit date must be YYYY-MM-DD"))
			return
		}
	}

	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["attachments"] {
			staged, err := h.stager.Save(header)
			if err != nil {
				h.logger.WarnContext(ctx, "rejected upload", "file", header.Filename, "error", err)
				httputil.WriteError(w, err)
				return
			}
			in.Files = append(in.Files, *staged)
		}
	}

	c, err := h.service.Submit(ctx, in)
	if err != nil {
		h.writeServiceError(ctx, w, err, "submit complaint")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, submitResponse{
		ComplaintID: c.ID,
		Status:      c.CurrentStatus.String(),
		Priority:    c.Priority,
		Attachments: len(in.Files),
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	items, err := h.service.ListForCaller(ctx, filterFromQuery(r))
	if err != nil {
		h.writeServiceError(ctx, w, err, "list complaints")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Data: toListItems(items), Count: len(items)})
}

func (h *Handler) handleListOwn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	items, err := h.service.ListOwn(ctx, filterFromQuery(r))
	if err != nil {
		h.writeServiceError(ctx, w, err, "list own complaints")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Data: toListItems(items), Count: len(items)})
}

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathInt64(r, "complaintID")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	d, err := h.service.Detail(ctx, id)
	if err != nil {
		h.writeServiceError(ctx, w, err, "get complaint")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, detailEnvelope{Data: toDetail(d)})
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathInt64(r, "complaintID")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[updateStatusRequest](w, r, h.logger)
	if !ok {
		return
	}
	err = h.service.Transition(ctx, service.TransitionInput{
		ComplaintID:       id,
		NewStatus:         req.NewStatus,
		Remarks:           req.Remarks,
		ResolutionDetails: req.ResolutionDetails,
	})
	if err != nil {
		h.writeServiceError(ctx, w, err, "update complaint status")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": req.NewStatus})
}

func (h *Handler) handlePatientComplaints(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	items, err := h.service.PatientComplaints(ctx, chi.URLParam(r, "nationalID"))
	if err != nil {
		h.writeServiceError(ctx, w, err, "list patient complaints")
		return
	}
	out := make([]patientComplaintJSON, 0, len(items))
	for i := range items {
		out = append(out, toPatientComplaint(&items[i]))
	}
	httputil.WriteJSON(w, http.StatusOK, patientComplaintsResponse{Data: out, Count: len(out)})
}

func (h *Handler) handleVerifyPatient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v, err := h.service.VerifyPatient(ctx, chi.URLParam(r, "nationalID"))
	if err != nil {
		h.writeServiceError(ctx, w, err, "verify patient")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, verifyResponse{
		Exists:         v.Exists,
		PatientName:    v.PatientName,
		ComplaintCount: v.ComplaintCount,
	})
}

// writeServiceError logs unexpected failures and hides their detail. Coded
// domain errors pass through as-is.
func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error, op string) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, op+" failed", "error", err)
	}
	httputil.WriteError(w, err)
}

// filterFromQuery reads the listing predicates. dateFilter is a trailing-days
// count; "all" or anything non-numeric means unbounded.
func filterFromQuery(r *http.Request) models.Filter {
	f := models.Filter{
		Search:        r.URL.Query().Get("search"),
		Status:        r.URL.Query().Get("status"),
		Department:    r.URL.Query().Get("department"),
		ComplaintType: r.URL.Query().Get("complaintType"),
	}
	if v := r.URL.Query().Get("dateFilter"); v != "" && v != "all" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			f.Days = days
		}
	}
	return f
}

func formInt64(r *http.Request, field string) (int64, error) {
	v := strings.TrimSpace(r.FormValue(field))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, dErrors.Newf(dErrors.CodeBadRequest, "%s must be a number", field)
	}
	return n, nil
}

func formOptionalInt64(r *http.Request, field string) (*int64, error) {
	n, err := formInt64(r, field)
	if err != nil || n == 0 {
		return nil, err
	}
	return &n, nil
}

func pathInt64(r *http.Request, param string) (int64, error) {
	n, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || n <= 0 {
		return 0, dErrors.Newf(dErrors.CodeBadRequest, "invalid %s", param)
	}
	return n, nil
}
