package lookup

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore reads the catalog relations.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT department_id, department_name, COALESCE(description, '')
		FROM departments
		ORDER BY department_name
	`)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Description); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListComplaintTypes(ctx context.Context) ([]ComplaintType, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT complaint_type_id, type_name, COALESCE(description, '')
		FROM complaint_types
		ORDER BY type_name
	`)
	if err != nil {
		return nil, fmt.Errorf("list complaint types: %w", err)
	}
	defer rows.Close()

	var out []ComplaintType
	for rows.Next() {
		var t ComplaintType
		if err := rows.Scan(&t.ID, &t.Name, &t.Description); err != nil {
			return nil, fmt.Errorf("scan complaint type: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListSubTypes(ctx context.Context, complaintTypeID int64) ([]SubType, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sub_type_id, complaint_type_id, sub_type_name, COALESCE(description, '')
		FROM complaint_sub_types
		WHERE complaint_type_id = $1
		ORDER BY sub_type_name
	`, complaintTypeID)
	if err != nil {
		return nil, fmt.Errorf("list sub types: %w", err)
	}
	defer rows.Close()

	var out []SubType
	for rows.Next() {
		var st SubType
		if err := rows.Scan(&st.ID, &st.ComplaintTypeID, &st.Name, &st.Description); err != nil {
			return nil, fmt.Errorf("scan sub type: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
