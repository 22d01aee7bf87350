// Package service implements the complaint lifecycle rules: submission,
// status transitions, and the access-scoped read paths. Stores do I/O only;
// every rule about what may happen lives here.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"careline/internal/attachment"
	"careline/internal/complaint/models"
	"careline/internal/filestore"
	"careline/internal/history"
	"careline/internal/patient"
	"careline/internal/platform/metrics"
	dErrors "careline/pkg/domainerrors"
	"careline/pkg/platform/audit"
	"careline/pkg/platform/sentinel"
	"careline/pkg/requestcontext"
)

// historyFanout caps concurrent history lookups when enriching a patient's
// complaint list.
const historyFanout = 8

// Store is the complaint persistence contract.
type Store interface {
	Create(ctx context.Context, c *models.Complaint) (*models.Complaint, error)
	GetStatus(ctx context.Context, complaintID int64) (models.Status, error)
	UpdateStatus(ctx context.Context, complaintID int64, status models.Status, resolutionDetails *string, resolutionDate *time.Time) error
	GetDetail(ctx context.Context, complaintID int64) (*models.Detail, error)
	List(ctx context.Context, scope models.Scope, filter models.Filter) ([]models.ListItem, error)
	ListByPatient(ctx context.Context, nationalID string) ([]models.PatientComplaint, error)
	CountByPatient(ctx context.Context, patientID int64) (int64, error)
}

// TxRunner wraps multi-step writes in one atomic unit.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// PatientResolver maps national identifiers to patient records.
type PatientResolver interface {
	Resolve(ctx context.Context, nationalID string, demo patient.Demographics) (*patient.Patient, error)
}

// PatientReader looks up existing patients without creating them.
type PatientReader interface {
	FindByNationalID(ctx context.Context, nationalID string) (*patient.Patient, error)
}

// HistoryLedger is the append-only lifecycle record.
type HistoryLedger interface {
	Enabled() bool
	Append(ctx context.Context, entry history.Entry) error
	ListByComplaint(ctx context.Context, complaintID int64) ([]history.Entry, error)
}

// AttachmentRecorder stores metadata for staged uploads.
type AttachmentRecorder interface {
	Record(ctx context.Context, att attachment.Attachment) (*attachment.Attachment, error)
	ListByComplaint(ctx context.Context, complaintID int64) ([]attachment.Attachment, error)
}

// Service is the complaint lifecycle engine.
type Service struct {
	store       Store
	tx          TxRunner
	resolver    PatientResolver
	patients    PatientReader
	ledger      HistoryLedger
	attachments AttachmentRecorder
	publisher   audit.Publisher
	metrics     *metrics.Metrics
	logger      *slog.Logger
	tracer      trace.Tracer
}

func New(
	store Store,
	tx TxRunner,
	resolver PatientResolver,
	patients PatientReader,
	ledger HistoryLedger,
	attachments AttachmentRecorder,
	publisher audit.Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		store:       store,
		tx:          tx,
		resolver:    resolver,
		patients:    patients,
		ledger:      ledger,
		attachments: attachments,
		publisher:   publisher,
		metrics:     m,
		logger:      logger,
		tracer:      otel.Tracer("careline/complaint"),
	}
}

// SubmitInput carries one complaint submission. Files have already been
// staged on disk by the transport layer.
type SubmitInput struct {
	NationalID       string
	PatientName      string
	ContactNumber    string
	Gender           string
	DepartmentID     int64
	ComplaintTypeID  int64
	SubTypeID        *int64
	AssignedEmployee *int64
	VisitDate        time.Time
	Details          string
	Files            []filestore.StoredFile
}

func (in SubmitInput) validate() error {
	if strings.TrimSpace(in.PatientName) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "patient name is required")
	}
	if strings.TrimSpace(in.Gender) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "gender is required")
	}
	if strings.TrimSpace(in.ContactNumber) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "contact number is required")
	}
	if in.DepartmentID <= 0 {
		return dErrors.New(dErrors.CodeBadRequest, "department is required")
	}
	if in.ComplaintTypeID <= 0 {
		return dErrors.New(dErrors.CodeBadRequest, "complaint type is required")
	}
	if strings.TrimSpace(in.Details) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "complaint details are required")
	}
	if in.VisitDate.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "visit date is required")
	}
	return nil
}

// Submit files a new complaint. The patient is resolved (or created) by
// national id, the complaint opens in New at Medium priority, attachment
// metadata is recorded for each staged file, and a founding history entry is
// written. All rows land in one transaction.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*models.Complaint, error) {
	ctx, span := s.tracer.Start(ctx, "complaint.Submit")
	defer span.End()

	caller, ok := requestcontext.Caller(ctx)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	var created *models.Complaint
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		p, err := s.resolver.Resolve(ctx, in.NationalID, patient.Demographics{
			FullName:      strings.TrimSpace(in.PatientName),
			ContactNumber: strings.TrimSpace(in.ContactNumber),
			Gender:        strings.TrimSpace(in.Gender),
		})
		if err != nil {
			return err
		}

		now := requestcontext.Now(ctx)
		created, err = s.store.Create(ctx, &models.Complaint{
			PatientID:        p.ID,
			DepartmentID:     in.DepartmentID,
			ComplaintTypeID:  in.ComplaintTypeID,
			SubTypeID:        in.SubTypeID,
			AssignedEmployee: in.AssignedEmployee,
			SubmittedBy:      caller.EmployeeID,
			Details:          strings.TrimSpace(in.Details),
			CurrentStatus:    models.StatusNew,
			Priority:         models.PriorityMedium,
			ComplaintDate:    now,
			VisitDate:        in.VisitDate,
		})
		if err != nil {
			return err
		}

		for _, f := range in.Files {
			if _, err := s.attachments.Record(ctx, attachment.Attachment{
				ComplaintID: created.ID,
				FileName:    f.Name,
				FilePath:    f.Path,
				FileSize:    f.Size,
				MIMEType:    f.MIMEType,
			}); err != nil {
				return err
			}
		}

		return s.ledger.Append(ctx, history.Entry{
			ComplaintID: created.ID,
			EmployeeID:  caller.EmployeeID,
			Stage:       history.StageSubmitted,
			Remarks:     "Complaint submitted",
			NewStatus:   models.StatusNew.String(),
			RecordedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int64("complaint.id", created.ID))
	s.metrics.IncSubmitted()
	s.publisher.Publish(audit.Event{
		Action:      audit.ActionComplaintSubmitted,
		Timestamp:   time.Now(),
		ComplaintID: created.ID,
		ActorID:     caller.EmployeeID,
		NewStatus:   models.StatusNew.String(),
		RequestID:   requestcontext.RequestID(ctx),
	})
	s.logger.InfoContext(ctx, "complaint submitted",
		"complaint_id", created.ID,
		"submitted_by", caller.EmployeeID,
	)
	return created, nil
}

// TransitionInput carries one status change request.
type TransitionInput struct {
	ComplaintID       int64
	NewStatus         string
	Remarks           string
	ResolutionDetails string
}

// Transition moves a complaint to a new status. The move must be legal under
// the state machine, the cached status and the history entry are written in
// the same transaction, and Resolved records resolution details and date.
func (s *Service) Transition(ctx context.Context, in TransitionInput) error {
	ctx, span := s.tracer.Start(ctx, "complaint.Transition")
	defer span.End()

	caller, ok := requestcontext.Caller(ctx)
	if !ok {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	next, err := models.ParseStatus(in.NewStatus)
	if err != nil {
		return err
	}

	var from models.Status
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		current, err := s.store.GetStatus(ctx, in.ComplaintID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "complaint not found")
			}
			return err
		}
		from = current

		if current.IsTerminal() {
			return dErrors.Newf(dErrors.CodeConflict, "complaint is already %s", current)
		}
		if !current.CanTransitionTo(next) {
			return dErrors.Newf(dErrors.CodeConflict, "cannot move from %s to %s", current, next)
		}

		now := requestcontext.Now(ctx)
		var resolutionDetails *string
		var resolutionDate *time.Time
		if next == models.StatusResolved {
			details := strings.TrimSpace(in.ResolutionDetails)
			resolutionDetails = &details
			resolutionDate = &now
		}
		if err := s.store.UpdateStatus(ctx, in.ComplaintID, next, resolutionDetails, resolutionDate); err != nil {
			return err
		}

		remarks := strings.TrimSpace(in.Remarks)
		if remarks == "" {
			remarks = fmt.Sprintf("Status changed from %s to %s", current, next)
		}
		return s.ledger.Append(ctx, history.Entry{
			ComplaintID: in.ComplaintID,
			EmployeeID:  caller.EmployeeID,
			Stage:       history.StageStatusChange,
			Remarks:     remarks,
			OldStatus:   current.String(),
			NewStatus:   next.String(),
			RecordedAt:  now,
		})
	})
	if err != nil {
		return err
	}

	s.metrics.IncTransition(next.String())
	s.publisher.Publish(audit.Event{
		Action:      audit.ActionStatusChanged,
		Timestamp:   time.Now(),
		ComplaintID: in.ComplaintID,
		ActorID:     caller.EmployeeID,
		OldStatus:   from.String(),
		NewStatus:   next.String(),
		RequestID:   requestcontext.RequestID(ctx),
	})
	s.logger.InfoContext(ctx, "complaint status changed",
		"complaint_id", in.ComplaintID,
		"from", from.String(),
		"to", next.String(),
		"by", caller.EmployeeID,
	)
	return nil
}

// Detail returns one complaint with its attachments and history. The optional
// sub-resources come back as empty slices when their relations are absent.
func (s *Service) Detail(ctx context.Context, complaintID int64) (*models.Detail, error) {
	d, err := s.store.GetDetail(ctx, complaintID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "complaint not found")
		}
		return nil, err
	}
	if d.Attachments, err = s.attachments.ListByComplaint(ctx, complaintID); err != nil {
		return nil, err
	}
	if d.History, err = s.ledger.ListByComplaint(ctx, complaintID); err != nil {
		return nil, err
	}
	return d, nil
}

// ListForCaller is the general listing. Visibility follows the caller's role:
// administrators see everything, everyone else gets an empty result.
func (s *Service) ListForCaller(ctx context.Context, filter models.Filter) ([]models.ListItem, error) {
	caller, ok := requestcontext.Caller(ctx)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return s.store.List(ctx, GeneralScope(caller), filter)
}

// ListOwn is the personal listing: complaints the caller submitted.
func (s *Service) ListOwn(ctx context.Context, filter models.Filter) ([]models.ListItem, error) {
	caller, ok := requestcontext.Caller(ctx)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return s.store.List(ctx, PersonalScope(caller), filter)
}

// PatientComplaints returns every complaint filed for the given national id,
// each enriched with its history. Not found when the patient has none.
func (s *Service) PatientComplaints(ctx context.Context, nationalID string) ([]models.PatientComplaint, error) {
	nationalID = strings.TrimSpace(nationalID)
	if err := patient.ValidateNationalID(nationalID); err != nil {
		return nil, err
	}
	items, err := s.store.ListByPatient(ctx, nationalID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "no complaints found for this patient")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(historyFanout)
	for i := range items {
		g.Go(func() error {
			entries, err := s.ledger.ListByComplaint(gctx, items[i].ID)
			if err != nil {
				return err
			}
			items[i].History = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// Verification summarizes whether a national id is known and how many
// complaints are on file for it.
type Verification struct {
	Exists         bool
	PatientName    string
	ComplaintCount int64
}

// VerifyPatient checks a national id without creating a patient record.
func (s *Service) VerifyPatient(ctx context.Context, nationalID string) (*Verification, error) {
	nationalID = strings.TrimSpace(nationalID)
	if err := patient.ValidateNationalID(nationalID); err != nil {
		return nil, err
	}
	p, err := s.patients.FindByNationalID(ctx, nationalID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return &Verification{}, nil
		}
		return nil, err
	}
	count, err := s.store.CountByPatient(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &Verification{Exists: true, PatientName: p.FullName, ComplaintCount: count}, nil
}
