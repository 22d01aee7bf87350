package attachment

import (
	"context"
	"database/sql"
	"fmt"

	"careline/internal/platform/postgres"
	"careline/pkg/platform/sentinel"
	txcontext "careline/pkg/platform/tx"
)

// PostgresStore persists attachment metadata in complaint_attachments.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) querier(ctx context.Context) dbQuerier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Add(ctx context.Context, att Attachment) (*Attachment, error) {
	query := `
		INSERT INTO complaint_attachments (complaint_id, file_name, file_path, file_size, file_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING attachment_id
	`
	err := s.querier(ctx).QueryRowContext(ctx, query,
		att.ComplaintID, att.FileName, att.FilePath, att.FileSize, att.MIMEType,
	).Scan(&att.ID)
	if err != nil {
		if postgres.IsUndefinedTable(err) {
			return nil, sentinel.ErrSchemaMissing
		}
		return nil, fmt.Errorf("add attachment: %w", err)
	}
	return &att, nil
}

// ListByComplaint returns attachments in insertion order.
func (s *PostgresStore) ListByComplaint(ctx context.Context, complaintID int64) ([]Attachment, error) {
	query := `
		SELECT attachment_id, complaint_id, file_name, file_path, file_size, file_type
		FROM complaint_attachments
		WHERE complaint_id = $1
		ORDER BY attachment_id
	`
	rows, err := s.db.QueryContext(ctx, query, complaintID)
	if err != nil {
		if postgres.IsUndefinedTable(err) {
			return nil, sentinel.ErrSchemaMissing
		}
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	var atts []Attachment
	for rows.Next() {
		var a Attachment
		if err := rows.Scan(&a.ID, &a.ComplaintID, &a.FileName, &a.FilePath, &a.FileSize, &a.MIMEType); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		atts = append(atts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attachments: %w", err)
	}
	return atts, nil
}
