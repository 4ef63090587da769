package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCanTransitionExhaustive checks every (from, to) pair against the
// expected edge set, so any edit to the transition table that adds or
// drops an edge fails here.
func TestCanTransitionExhaustive(t *testing.T) {
	edges := map[string][]string{
		StatusPending:    {StatusApproved, StatusAssigned, StatusRejected, StatusCancelled},
		StatusApproved:   {StatusAssigned, StatusRejected, StatusCancelled},
		StatusAssigned:   {StatusInProgress, StatusCancelled},
		StatusInProgress: {StatusPaused, StatusCompleted, StatusCancelled},
		StatusPaused:     {StatusInProgress, StatusCancelled},
		StatusCompleted:  {StatusClosed},
		StatusRejected:   {},
		StatusCancelled:  {},
		StatusClosed:     {},
	}

	statuses := Statuses()
	require.Len(t, statuses, 9)
	require.Len(t, edges, 9)

	for _, from := range statuses {
		allowed := make(map[string]bool, len(edges[from]))
		for _, to := range edges[from] {
			allowed[to] = true
		}
		for _, to := range statuses {
			assert.Equal(t, allowed[to], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransitionRejectsUnknownStatuses(t *testing.T) {
	assert.False(t, CanTransition("ARCHIVED", StatusPending))
	assert.False(t, CanTransition(StatusPending, "ARCHIVED"))
}

func TestCancellableFromEveryNonTerminalState(t *testing.T) {
	cancellable := []string{StatusPending, StatusApproved, StatusAssigned, StatusInProgress, StatusPaused}
	for _, status := range cancellable {
		assert.True(t, IsCancellable(status), status)
	}

	terminal := []string{StatusCompleted, StatusClosed, StatusRejected, StatusCancelled}
	for _, status := range terminal {
		assert.False(t, IsCancellable(status), status)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusClosed))
	assert.True(t, IsTerminal(StatusRejected))
	assert.True(t, IsTerminal(StatusCancelled))
	assert.False(t, IsTerminal(StatusCompleted))
	assert.False(t, IsTerminal(StatusPending))
}

func TestPhaseForProgress(t *testing.T) {
	tests := []struct {
		progress int
		phase    string
	}{
		{0, PhasePlanning},
		{10, PhasePlanning},
		{11, PhasePreparation},
		{20, PhasePreparation},
		{21, PhaseExecution},
		{80, PhaseExecution},
		{81, PhaseTesting},
		{95, PhaseTesting},
		{96, PhaseCompletion},
		{99, PhaseCompletion},
		{100, PhaseClosure},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.phase, PhaseForProgress(tt.progress), "progress %d", tt.progress)
	}
}

func TestPriorityFromFaultSeverity(t *testing.T) {
	assert.Equal(t, PriorityLow, PriorityFromFaultSeverity("LOW"))
	assert.Equal(t, PriorityHigh, PriorityFromFaultSeverity("HIGH"))
	assert.Equal(t, PriorityUrgent, PriorityFromFaultSeverity("URGENT"))
	assert.Equal(t, PriorityEmergency, PriorityFromFaultSeverity("CRITICAL"))
	assert.Equal(t, PriorityEmergency, PriorityFromFaultSeverity("EMERGENCY"))
	assert.Equal(t, PriorityMedium, PriorityFromFaultSeverity("MEDIUM"))
	assert.Equal(t, PriorityMedium, PriorityFromFaultSeverity(""))
}
