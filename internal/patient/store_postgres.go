package patient

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"careline/pkg/platform/sentinel"
	txcontext "careline/pkg/platform/tx"
)

// PostgresStore persists patients. Uniqueness of national_id is enforced by
// the database, not by application-level lookups.
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

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*Patient, error) {
	query := `
		SELECT patient_id, full_name, national_id, contact_number, gender
		FROM patients
		WHERE patient_id = $1
	`
	var p Patient
	err := s.querier(ctx).QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.FullName, &p.NationalID, &p.ContactNumber, &p.Gender,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) FindByNationalID(ctx context.Context, nationalID string) (*Patient, error) {
	query := `
		SELECT patient_id, full_name, national_id, contact_number, gender
		FROM patients
		WHERE national_id = $1
	`
	var p Patient
	err := s.querier(ctx).QueryRowContext(ctx, query, nationalID).Scan(
		&p.ID, &p.FullName, &p.NationalID, &p.ContactNumber, &p.Gender,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}
	return &p, nil
}

// CreateIfAbsent inserts a patient unless the national ID already exists, and
// returns the surviving row either way. ON CONFLICT DO NOTHING plus the
// reselect makes concurrent first submissions for the same ID converge on a
// single record.
func (s *PostgresStore) CreateIfAbsent(ctx context.Context, nationalID string, demo Demographics) (*Patient, error) {
	insert := `
		INSERT INTO patients (full_name, national_id, contact_number, gender)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (national_id) DO NOTHING
		RETURNING patient_id, full_name, national_id, contact_number, gender
	`
	var p Patient
	err := s.querier(ctx).QueryRowContext(ctx, insert,
		demo.FullName, nationalID, demo.ContactNumber, demo.Gender,
	).Scan(&p.ID, &p.FullName, &p.NationalID, &p.ContactNumber, &p.Gender)
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	// Conflict: another submission won the race. First write wins.
	return s.FindByNationalID(ctx, nationalID)
}
