package models

import (
	dErrors "careline/pkg/domainerrors"
)

// Status is a complaint's lifecycle state.
//
//	New -> UnderReview -> (Resolved | Rejected | Escalated)
//	Escalated -> UnderReview
//
// Resolved and Rejected are terminal.
type Status string

const (
	StatusNew         Status = "New"
	StatusUnderReview Status = "UnderReview"
	StatusResolved    Status = "Resolved"
	StatusRejected    Status = "Rejected"
	StatusEscalated   Status = "Escalated"
)

var successors = map[Status][]Status{
	StatusNew:         {StatusUnderReview},
	StatusUnderReview: {StatusResolved, StatusRejected, StatusEscalated},
	StatusEscalated:   {StatusUnderReview},
	StatusResolved:    nil,
	StatusRejected:    nil,
}

// ParseStatus validates a caller-supplied status string.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := successors[status]; !ok {
		return "", dErrors.Newf(dErrors.CodeBadRequest, "unknown status %q", s)
	}
	return status, nil
}

// IsTerminal reports whether no transition leads out of s.
func (s Status) IsTerminal() bool {
	return s == StatusResolved || s == StatusRejected
}

// CanTransitionTo reports whether the state machine permits s -> next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, candidate := range successors[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

func (s Status) String() string { return string(s) }
