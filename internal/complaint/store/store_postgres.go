package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"careline/internal/complaint/models"
	"careline/pkg/platform/sentinel"
	txcontext "careline/pkg/platform/tx"
)

// listColumns is the joined projection shared by every listing query.
const listColumns = `
	c.complaint_id,
	c.complaint_date,
	c.details,
	c.current_status,
	c.priority,
	p.full_name,
	p.national_id,
	p.contact_number,
	d.department_name,
	ct.type_name,
	cst.sub_type_name,
	e.full_name
`

const listJoins = `
	FROM complaints c
	JOIN patients p ON p.patient_id = c.patient_id
	JOIN departments d ON d.department_id = c.department_id
	JOIN complaint_types ct ON ct.complaint_type_id = c.complaint_type_id
	LEFT JOIN complaint_sub_types cst ON cst.sub_type_id = c.sub_type_id
	LEFT JOIN employees e ON e.employee_id = c.employee_id
`

// PostgresStore persists complaints. Pure I/O; lifecycle rules live in the
// service.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbHandle interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) handle(ctx context.Context) dbHandle {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, c *models.Complaint) (*models.Complaint, error) {
	query := `
		INSERT INTO complaints (
			patient_id, employee_id, complaint_type_id, sub_type_id, department_id,
			complaint_date, visit_date, details, current_status, priority, submitted_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING complaint_id
	`
	err := s.handle(ctx).QueryRowContext(ctx, query,
		c.PatientID, c.AssignedEmployee, c.ComplaintTypeID, c.SubTypeID, c.DepartmentID,
		c.ComplaintDate, c.VisitDate, c.Details, c.CurrentStatus.String(), c.Priority, c.SubmittedBy,
	).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("create complaint: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) GetStatus(ctx context.Context, complaintID int64) (models.Status, error) {
	var status string
	err := s.handle(ctx).QueryRowContext(ctx,
		`SELECT current_status FROM complaints WHERE complaint_id = $1`, complaintID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", sentinel.ErrNotFound
		}
		return "", fmt.Errorf("get complaint status: %w", err)
	}
	return models.Status(status), nil
}

// UpdateStatus writes the cached status. Resolution fields are set only when
// the transition supplies them.
func (s *PostgresStore) UpdateStatus(ctx context.Context, complaintID int64, status models.Status, resolutionDetails *string, resolutionDate *time.Time) error {
	res, err := s.handle(ctx).ExecContext(ctx, `
		UPDATE complaints
		SET current_status = $2,
		    resolution_details = COALESCE($3, resolution_details),
		    resolution_date = COALESCE($4, resolution_date)
		WHERE complaint_id = $1
	`, complaintID, status.String(), resolutionDetails, resolutionDate)
	if err != nil {
		return fmt.Errorf("update complaint status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update complaint status: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) GetDetail(ctx context.Context, complaintID int64) (*models.Detail, error) {
	query := `SELECT ` + listColumns + `,
		p.gender,
		c.resolution_details,
		c.resolution_date
	` + listJoins + `
		WHERE c.complaint_id = $1`

	var d models.Detail
	err := s.db.QueryRowContext(ctx, query, complaintID).Scan(
		&d.ID, &d.ComplaintDate, &d.Details, &d.CurrentStatus, &d.Priority,
		&d.PatientName, &d.NationalID, &d.ContactNumber,
		&d.DepartmentName, &d.ComplaintTypeName, &d.SubTypeName, &d.EmployeeName,
		&d.Gender, &d.ResolutionDetails, &d.ResolutionDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get complaint detail: %w", err)
	}
	return &d, nil
}

// List returns the scoped, filtered listing, newest-first, capped at
// models.ListLimit rows.
func (s *PostgresStore) List(ctx context.Context, scope models.Scope, filter models.Filter) ([]models.ListItem, error) {
	where, args := composeWhere(scope, filter)
	query := `SELECT ` + listColumns + listJoins + where + `
		ORDER BY c.complaint_date DESC
		LIMIT ` + fmt.Sprint(models.ListLimit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	defer rows.Close()

	items := []models.ListItem{}
	for rows.Next() {
		var it models.ListItem
		if err := rows.Scan(
			&it.ID, &it.ComplaintDate, &it.Details, &it.CurrentStatus, &it.Priority,
			&it.PatientName, &it.NationalID, &it.ContactNumber,
			&it.DepartmentName, &it.ComplaintTypeName, &it.SubTypeName, &it.EmployeeName,
		); err != nil {
			return nil, fmt.Errorf("scan complaint row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate complaints: %w", err)
	}
	return items, nil
}

// ListByPatient returns every complaint for the given national id,
// newest-first, with resolution fields for the patient's own view.
func (s *PostgresStore) ListByPatient(ctx context.Context, nationalID string) ([]models.PatientComplaint, error) {
	query := `SELECT ` + listColumns + `,
		c.resolution_details,
		c.resolution_date
	` + listJoins + `
		WHERE p.national_id = $1
		ORDER BY c.complaint_date DESC`

	rows, err := s.db.QueryContext(ctx, query, nationalID)
	if err != nil {
		return nil, fmt.Errorf("list patient complaints: %w", err)
	}
	defer rows.Close()

	var items []models.PatientComplaint
	for rows.Next() {
		var pc models.PatientComplaint
		if err := rows.Scan(
			&pc.ID, &pc.ComplaintDate, &pc.Details, &pc.CurrentStatus, &pc.Priority,
			&pc.PatientName, &pc.NationalID, &pc.ContactNumber,
			&pc.DepartmentName, &pc.ComplaintTypeName, &pc.SubTypeName, &pc.EmployeeName,
			&pc.ResolutionDetails, &pc.ResolutionDate,
		); err != nil {
			return nil, fmt.Errorf("scan patient complaint: %w", err)
		}
		items = append(items, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patient complaints: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) CountByPatient(ctx context.Context, patientID int64) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM complaints WHERE patient_id = $1`, patientID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count patient complaints: %w", err)
	}
	return count, nil
}

// SQLTxRunner wraps multi-step writes in a single database transaction,
// closing the partial-write windows a per-statement commit model would leave.
type SQLTxRunner struct {
	db *sql.DB
}

func NewSQLTxRunner(db *sql.DB) *SQLTxRunner {
	return &SQLTxRunner{db: db}
}

func (r *SQLTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
