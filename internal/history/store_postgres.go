package history

import (
	"context"
	"database/sql"
	"fmt"

	"careline/internal/platform/postgres"
	"careline/pkg/platform/sentinel"
	txcontext "careline/pkg/platform/tx"
)

// PostgresStore appends to and reads from the complaint_history relation.
// This store is pure I/O; the degrade decision lives in the Ledger.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Append(ctx context.Context, entry Entry) error {
	query := `
		INSERT INTO complaint_history (complaint_id, employee_id, stage, remarks, old_status, new_status, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		entry.ComplaintID, entry.EmployeeID, entry.Stage, entry.Remarks,
		entry.OldStatus, entry.NewStatus, entry.RecordedAt,
	)
	if err != nil {
		if postgres.IsUndefinedTable(err) {
			return sentinel.ErrSchemaMissing
		}
		return fmt.Errorf("append history entry: %w", err)
	}
	return nil
}

// ListByComplaint returns entries newest-first.
func (s *PostgresStore) ListByComplaint(ctx context.Context, complaintID int64) ([]Entry, error) {
	query := `
		SELECT h.history_id, h.complaint_id, h.employee_id, COALESCE(e.full_name, ''),
		       h.stage, h.remarks, h.old_status, h.new_status, h.recorded_at
		FROM complaint_history h
		LEFT JOIN employees e ON e.employee_id = h.employee_id
		WHERE h.complaint_id = $1
		ORDER BY h.recorded_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, complaintID)
	if err != nil {
		if postgres.IsUndefinedTable(err) {
			return nil, sentinel.ErrSchemaMissing
		}
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ComplaintID, &e.EmployeeID, &e.EmployeeName,
			&e.Stage, &e.Remarks, &e.OldStatus, &e.NewStatus, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}
