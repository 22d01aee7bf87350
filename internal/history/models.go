// Package history is the append-only lifecycle ledger for complaints. Entries
// are never mutated or deleted; the newest entry's NewStatus is the source of
// truth for a complaint's current status.
//
// The backing relation is optional in some deployments. Whether it exists is
// resolved once at startup and passed in as configuration; the ledger then
// degrades to "no history" instead of failing parent operations.
package history

import "time"

// Entry records one lifecycle event for a complaint.
type Entry struct {
	ID           int64
	ComplaintID  int64
	EmployeeID   int64
	EmployeeName string
	Stage        string
	Remarks      string
	OldStatus    string
	NewStatus    string
	RecordedAt   time.Time
}

// Stage labels used by the lifecycle engine.
const (
	StageSubmitted    = "submitted"
	StageStatusChange = "status_change"
)
