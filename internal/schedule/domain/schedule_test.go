package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextOccurrence(t *testing.T) {
	from := day(2026, time.January, 15)

	tests := []struct {
		name      string
		frequency string
		interval  int
		want      time.Time
	}{
		{"daily", FrequencyDaily, 1, day(2026, time.January, 16)},
		{"every third day", FrequencyDaily, 3, day(2026, time.January, 18)},
		{"weekly", FrequencyWeekly, 1, day(2026, time.January, 22)},
		{"biweekly", FrequencyWeekly, 2, day(2026, time.January, 29)},
		{"monthly", FrequencyMonthly, 1, day(2026, time.February, 15)},
		{"quarterly", FrequencyQuarterly, 1, day(2026, time.April, 15)},
		{"semi annual", FrequencySemiAnnual, 1, day(2026, time.July, 15)},
		{"annual", FrequencyAnnual, 1, day(2027, time.January, 15)},
		{"zero interval counts as one", FrequencyDaily, 0, day(2026, time.January, 16)},
		{"unknown frequency falls back to monthly", "FORTNIGHTLY", 1, day(2026, time.February, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextOccurrence(from, tt.frequency, tt.interval))
		})
	}
}

func TestValidFrequency(t *testing.T) {
	for _, f := range []string{FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencySemiAnnual, FrequencyAnnual} {
		assert.True(t, ValidFrequency(f), f)
	}
	assert.False(t, ValidFrequency("BIWEEKLY"))
	assert.False(t, ValidFrequency(""))
}

func TestValidPriority(t *testing.T) {
	for _, p := range []string{"LOW", "MEDIUM", "HIGH", "URGENT", "EMERGENCY"} {
		assert.True(t, ValidPriority(p), p)
	}
	assert.False(t, ValidPriority("CRITICAL"))
}

func TestEffectiveStatusDerivesOverdue(t *testing.T) {
	now := time.Date(2026, time.March, 10, 14, 30, 0, 0, time.UTC)

	past := &MaintenanceSchedule{Status: StatusScheduled, ScheduledDate: day(2026, time.March, 9)}
	assert.Equal(t, StatusOverdue, past.EffectiveStatus(now))

	rescheduled := &MaintenanceSchedule{Status: StatusRescheduled, ScheduledDate: day(2026, time.March, 1)}
	assert.Equal(t, StatusOverdue, rescheduled.EffectiveStatus(now))

	// Due today is not overdue, whatever the time of day.
	today := &MaintenanceSchedule{Status: StatusScheduled, ScheduledDate: day(2026, time.March, 10)}
	assert.Equal(t, StatusScheduled, today.EffectiveStatus(now))

	future := &MaintenanceSchedule{Status: StatusScheduled, ScheduledDate: day(2026, time.March, 11)}
	assert.Equal(t, StatusScheduled, future.EffectiveStatus(now))

	// Stored terminal states are never rewritten.
	completed := &MaintenanceSchedule{Status: StatusCompleted, ScheduledDate: day(2026, time.March, 1)}
	assert.Equal(t, StatusCompleted, completed.EffectiveStatus(now))

	cancelled := &MaintenanceSchedule{Status: StatusCancelled, ScheduledDate: day(2026, time.March, 1)}
	assert.Equal(t, StatusCancelled, cancelled.EffectiveStatus(now))
}

func TestWindowUsesExplicitTimes(t *testing.T) {
	start := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	s := &MaintenanceSchedule{ScheduledDate: day(2026, time.March, 10), StartTime: &start, EndTime: &end}

	gotStart, gotEnd := s.Window()
	assert.Equal(t, start, gotStart)
	assert.Equal(t, end, gotEnd)
}

func TestWindowReservesWholeDayWithoutTimes(t *testing.T) {
	s := &MaintenanceSchedule{ScheduledDate: time.Date(2026, time.March, 10, 15, 45, 0, 0, time.UTC)}

	gotStart, gotEnd := s.Window()
	assert.Equal(t, day(2026, time.March, 10), gotStart)
	assert.Equal(t, day(2026, time.March, 11), gotEnd)
}
