package conflict

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	bookings []Booking
	err      error
}

func (s *staticSource) ActiveBookings(ctx context.Context, companyID uint, window Window) ([]Booking, error) {
	return s.bookings, s.err
}

func window(startHour, endHour int) Window {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	return Window{
		Start: day.Add(time.Duration(startHour) * time.Hour),
		End:   day.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestWindowOverlapsIsHalfOpen(t *testing.T) {
	assert.True(t, window(10, 12).Overlaps(window(11, 13)))
	assert.True(t, window(11, 13).Overlaps(window(10, 12)))
	assert.True(t, window(10, 12).Overlaps(window(10, 12)))

	// Touching endpoints do not overlap.
	assert.False(t, window(10, 12).Overlaps(window(12, 14)))
	assert.False(t, window(12, 14).Overlaps(window(10, 12)))
	assert.False(t, window(8, 10).Overlaps(window(14, 16)))
}

func TestFindConflictsTechnicianDoubleBooking(t *testing.T) {
	source := &staticSource{bookings: []Booking{{
		RefID:        7,
		RefKind:      "work_order",
		AssetID:      2,
		TechnicianID: 42,
		Priority:     "MEDIUM",
		Window:       window(10, 12),
	}}}
	detector := NewDetector(source)

	conflicts, err := detector.FindConflicts(context.Background(), 1, Request{
		AssetID:      3,
		TechnicianID: 42,
		Priority:     "MEDIUM",
		Window:       window(11, 13),
	})
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, TypeTechnicianUnavailable, conflicts[0].Type)
	assert.Equal(t, SeverityHigh, conflicts[0].Severity)
}

func TestFindConflictsTechnicianDoubleBookingCriticalWhenUrgent(t *testing.T) {
	source := &staticSource{bookings: []Booking{{
		RefID:        7,
		RefKind:      "work_order",
		TechnicianID: 42,
		Priority:     "URGENT",
		Window:       window(10, 12),
	}}}
	detector := NewDetector(source)

	conflicts, err := detector.FindConflicts(context.Background(), 1, Request{
		TechnicianID: 42,
		Priority:     "MEDIUM",
		Window:       window(11, 13),
	})
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, SeverityCritical, conflicts[0].Severity)
	assert.True(t, HasCritical(conflicts))
}

func TestFindConflictsSafetyTaggedAssetIsCritical(t *testing.T) {
	source := &staticSource{bookings: []Booking{{
		RefID:        9,
		RefKind:      "maintenance_schedule",
		AssetID:      5,
		TechnicianID: 3,
		Priority:     "LOW",
		SafetyTagged: true,
		Window:       window(9, 17),
	}}}
	detector := NewDetector(source)

	conflicts, err := detector.FindConflicts(context.Background(), 1, Request{
		AssetID:      5,
		TechnicianID: 8,
		Priority:     "MEDIUM",
		Window:       window(10, 11),
	})
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, TypeAssetUnavailable, conflicts[0].Type)
	assert.Equal(t, SeverityCritical, conflicts[0].Severity)
}

func TestFindConflictsHigherPriorityBookingWins(t *testing.T) {
	source := &staticSource{bookings: []Booking{{
		RefID:    4,
		RefKind:  "work_order",
		AssetID:  5,
		Priority: "HIGH",
		Window:   window(10, 12),
	}}}
	detector := NewDetector(source)

	conflicts, err := detector.FindConflicts(context.Background(), 1, Request{
		AssetID:  5,
		Priority: "LOW",
		Window:   window(10, 12),
	})
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, TypeAssetUnavailable, conflicts[0].Type)
	assert.Equal(t, SeverityHigh, conflicts[0].Severity)
}

func TestFindConflictsPlainOverlapSeverityFollowsBookingPriority(t *testing.T) {
	tests := []struct {
		bookingPriority string
		severity        Severity
	}{
		{"EMERGENCY", SeverityHigh},
		{"URGENT", SeverityHigh},
		{"HIGH", SeverityMedium},
		{"MEDIUM", SeverityLow},
		{"LOW", SeverityLow},
	}

	for _, tt := range tests {
		source := &staticSource{bookings: []Booking{{
			RefID:    4,
			RefKind:  "work_order",
			AssetID:  5,
			Priority: tt.bookingPriority,
			Window:   window(10, 12),
		}}}
		detector := NewDetector(source)

		conflicts, err := detector.FindConflicts(context.Background(), 1, Request{
			AssetID:  5,
			Priority: "EMERGENCY",
			Window:   window(10, 12),
		})
		require.NoError(t, err)
		require.Len(t, conflicts, 1, tt.bookingPriority)
		assert.Equal(t, TypeTimeOverlap, conflicts[0].Type, tt.bookingPriority)
		assert.Equal(t, tt.severity, conflicts[0].Severity, tt.bookingPriority)
	}
}

func TestFindConflictsSharedResource(t *testing.T) {
	source := &staticSource{bookings: []Booking{{
		RefID:    11,
		RefKind:  "work_order",
		AssetID:  2,
		Resource: "scissor-lift",
		Priority: "MEDIUM",
		Window:   window(10, 12),
	}}}
	detector := NewDetector(source)

	conflicts, err := detector.FindConflicts(context.Background(), 1, Request{
		AssetID:  3,
		Resource: "scissor-lift",
		Priority: "MEDIUM",
		Window:   window(11, 13),
	})
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, TypeResourceConflict, conflicts[0].Type)
	assert.Equal(t, SeverityMedium, conflicts[0].Severity)
}

func TestFindConflictsExcludesSelf(t *testing.T) {
	source := &staticSource{bookings: []Booking{{
		RefID:   3,
		RefKind: "maintenance_schedule",
		AssetID: 5,
		Window:  window(10, 12),
	}}}
	detector := NewDetector(source)

	conflicts, err := detector.FindConflicts(context.Background(), 1, Request{
		AssetID:     5,
		Priority:    "MEDIUM",
		Window:      window(10, 12),
		ExcludeKind: "maintenance_schedule",
		ExcludeID:   3,
	})
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestFindConflictsZeroWindowShortCircuits(t *testing.T) {
	source := &staticSource{err: assert.AnError}
	detector := NewDetector(source)

	conflicts, err := detector.FindConflicts(context.Background(), 1, Request{AssetID: 5})
	require.NoError(t, err)
	assert.Nil(t, conflicts)
}

func TestFindConflictsNonOverlappingBookingIgnored(t *testing.T) {
	source := &staticSource{bookings: []Booking{{
		RefID:   3,
		RefKind: "work_order",
		AssetID: 5,
		Window:  window(12, 14),
	}}}
	detector := NewDetector(source)

	conflicts, err := detector.FindConflicts(context.Background(), 1, Request{
		AssetID:  5,
		Priority: "MEDIUM",
		Window:   window(10, 12),
	})
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}
