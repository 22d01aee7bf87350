// Package models holds the complaint domain types shared by the service,
// store, and handler layers.
package models

import (
	"time"

	"careline/internal/attachment"
	"careline/internal/history"
)

// Priority labels. Submissions default to medium; triage may raise it later.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Complaint is the stored record. CurrentStatus is a cache of the newest
// history entry's NewStatus; every transition writes both.
type Complaint struct {
	ID                int64
	PatientID         int64
	DepartmentID      int64
	ComplaintTypeID   int64
	SubTypeID         *int64
	AssignedEmployee  *int64
	SubmittedBy       int64
	Details           string
	CurrentStatus     Status
	Priority          string
	ComplaintDate     time.Time
	VisitDate         time.Time
	ResolutionDetails *string
	ResolutionDate    *time.Time
}

// ListItem is one row of a complaint listing, joined with the names callers
// need to render it.
type ListItem struct {
	ID                int64
	ComplaintDate     time.Time
	Details           string
	CurrentStatus     Status
	Priority          string
	PatientName       string
	NationalID        string
	ContactNumber     string
	DepartmentName    string
	ComplaintTypeName string
	SubTypeName       *string
	EmployeeName      *string
}

// Detail is the full joined view of one complaint, including its optional
// sub-resources. Attachments and History are empty slices, never nil, when
// those relations are absent.
type Detail struct {
	ListItem
	Gender            string
	ResolutionDetails *string
	ResolutionDate    *time.Time
	Attachments       []attachment.Attachment
	History           []history.Entry
}

// PatientComplaint is one complaint in a patient's own view, enriched with
// its history.
type PatientComplaint struct {
	ListItem
	ResolutionDetails *string
	ResolutionDate    *time.Time
	History           []history.Entry
}

// Filter captures the listing predicates. All predicates are conjunctive.
type Filter struct {
	Days          int    // complaints within the trailing N days; 0 means unbounded
	Search        string // matched against complaint id, patient name, national id
	Status        string // exact match
	Department    string // substring match on department name
	ComplaintType string // substring match on type name
}

// ListLimit caps every listing at 50 rows. There is no pagination cursor;
// callers needing more must narrow their filters.
const ListLimit = 50
