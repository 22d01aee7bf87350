//go:build integration

// Package containers starts throwaway backing services for integration tests.
package containers

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// CoreSchema is the required relations: patients, catalog, staff, complaints.
const CoreSchema = `
CREATE TABLE IF NOT EXISTS patients (
	patient_id     BIGSERIAL PRIMARY KEY,
	full_name      TEXT NOT NULL,
	national_id    TEXT NOT NULL UNIQUE,
	contact_number TEXT NOT NULL DEFAULT '',
	gender         TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS departments (
	department_id   BIGSERIAL PRIMARY KEY,
	department_name TEXT NOT NULL,
	description     TEXT
);

CREATE TABLE IF NOT EXISTS complaint_types (
	complaint_type_id BIGSERIAL PRIMARY KEY,
	type_name         TEXT NOT NULL,
	description       TEXT
);

CREATE TABLE IF NOT EXISTS complaint_sub_types (
	sub_type_id       BIGSERIAL PRIMARY KEY,
	complaint_type_id BIGINT NOT NULL REFERENCES complaint_types(complaint_type_id),
	sub_type_name     TEXT NOT NULL,
	description       TEXT
);

CREATE TABLE IF NOT EXISTS roles (
	role_id   BIGSERIAL PRIMARY KEY,
	role_name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS employees (
	employee_id   BIGSERIAL PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	full_name     TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	role_id       BIGINT NOT NULL REFERENCES roles(role_id)
);

CREATE TABLE IF NOT EXISTS complaints (
	complaint_id       BIGSERIAL PRIMARY KEY,
	patient_id         BIGINT NOT NULL REFERENCES patients(patient_id),
	employee_id        BIGINT REFERENCES employees(employee_id),
	complaint_type_id  BIGINT NOT NULL REFERENCES complaint_types(complaint_type_id),
	sub_type_id        BIGINT REFERENCES complaint_sub_types(sub_type_id),
	department_id      BIGINT NOT NULL REFERENCES departments(department_id),
	complaint_date     TIMESTAMPTZ NOT NULL DEFAULT now(),
	visit_date         TIMESTAMPTZ NOT NULL,
	details            TEXT NOT NULL,
	current_status     TEXT NOT NULL,
	priority           TEXT NOT NULL,
	submitted_by       BIGINT NOT NULL,
	resolution_details TEXT,
	resolution_date    TIMESTAMPTZ
);
`

// OptionalSchema is the relations some deployments run without. Tests apply
// it selectively to exercise degraded mode.
const OptionalSchema = `
CREATE TABLE IF NOT EXISTS complaint_history (
	history_id   BIGSERIAL PRIMARY KEY,
	complaint_id BIGINT NOT NULL REFERENCES complaints(complaint_id),
	employee_id  BIGINT NOT NULL,
	stage        TEXT NOT NULL,
	remarks      TEXT NOT NULL DEFAULT '',
	old_status   TEXT NOT NULL DEFAULT '',
	new_status   TEXT NOT NULL,
	recorded_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS complaint_attachments (
	attachment_id BIGSERIAL PRIMARY KEY,
	complaint_id  BIGINT NOT NULL REFERENCES complaints(complaint_id),
	file_name     TEXT NOT NULL,
	file_path     TEXT NOT NULL,
	file_size     BIGINT NOT NULL,
	file_type     TEXT NOT NULL
);
`

// PostgresContainer wraps a testcontainers Postgres instance with an open
// database handle.
type PostgresContainer struct {
	Container testcontainers.Container
	URL       string
	DB        *sql.DB
}

// NewPostgresContainer starts Postgres and applies the given schema
// fragments in order.
func NewPostgresContainer(t *testing.T, schemas ...string) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("careline"),
		tcpostgres.WithUsername("careline"),
		tcpostgres.WithPassword("careline"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres connection string: %v", err)
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	for _, schema := range schemas {
		if _, err := db.ExecContext(ctx, schema); err != nil {
			t.Fatalf("apply schema: %v", err)
		}
	}

	return &PostgresContainer{Container: container, URL: url, DB: db}
}

// TruncateAll clears mutable rows between tests, keeping catalog seeds.
func (p *PostgresContainer) TruncateAll(ctx context.Context) error {
	_, err := p.DB.ExecContext(ctx, `
		TRUNCATE complaints, patients RESTART IDENTITY CASCADE
	`)
	return err
}
