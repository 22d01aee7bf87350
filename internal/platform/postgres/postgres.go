// Package postgres opens the shared database handle and probes which of the
// optional relations exist in this deployment. History and attachment tables
// are optional in some installations; the probe runs once at startup so
// steady-state code never uses error types for control flow.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Capabilities reports which optional relations are present. Stores receive
// this as configuration instead of discovering missing tables via errors.
type Capabilities struct {
	History     bool
	Attachments bool
}

// Open connects and verifies the database is reachable.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// ProbeCapabilities checks the optional relations once at startup.
func ProbeCapabilities(ctx context.Context, db *sql.DB) (Capabilities, error) {
	caps := Capabilities{}
	var err error
	if caps.History, err = relationExists(ctx, db, "complaint_history"); err != nil {
		return caps, err
	}
	if caps.Attachments, err = relationExists(ctx, db, "complaint_attachments"); err != nil {
		return caps, err
	}
	return caps, nil
}

func relationExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var reg sql.NullString
	if err := db.QueryRowContext(ctx, `SELECT to_regclass($1)`, name).Scan(&reg); err != nil {
		return false, fmt.Errorf("probe relation %s: %w", name, err)
	}
	return reg.Valid, nil
}

// IsUndefinedTable reports whether err is the recoverable "relation does not
// exist" condition (SQLSTATE 42P01). Kept as a safety net for deployments
// where a table is dropped after the startup probe.
func IsUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42P01"
}
