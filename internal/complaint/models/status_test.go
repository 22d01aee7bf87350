package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "careline/pkg/domainerrors"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"New", "UnderReview", "Resolved", "Rejected", "Escalated"} {
		status, err := ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, status.String())
	}

	_, err := ParseStatus("Closed")
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))

	// Status values are case sensitive.
	_, err = ParseStatus("new")
	require.Error(t, err)
}

func TestTransitions(t *testing.T) {
	assert.True(t, StatusNew.CanTransitionTo(StatusUnderReview))
	assert.False(t, StatusNew.CanTransitionTo(StatusResolved))
	assert.False(t, StatusNew.CanTransitionTo(StatusNew))

	assert.True(t, StatusUnderReview.CanTransitionTo(StatusResolved))
	assert.True(t, StatusUnderReview.CanTransitionTo(StatusRejected))
	assert.True(t, StatusUnderReview.CanTransitionTo(StatusEscalated))

	assert.True(t, StatusEscalated.CanTransitionTo(StatusUnderReview))
	assert.False(t, StatusEscalated.CanTransitionTo(StatusResolved))

	for _, terminal := range []Status{StatusResolved, StatusRejected} {
		assert.True(t, terminal.IsTerminal())
		for _, next := range []Status{StatusNew, StatusUnderReview, StatusResolved, StatusRejected, StatusEscalated} {
			assert.False(t, terminal.CanTransitionTo(next))
		}
	}
}
