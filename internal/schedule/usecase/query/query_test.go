package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qiro-dev/facility-maintenance/internal/schedule/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/clock"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
)

type stubRepo struct {
	domain.ScheduleRepository
	inRange []domain.MaintenanceSchedule
	err     error
}

func (s *stubRepo) InRange(companyID uint, from, to time.Time) ([]domain.MaintenanceSchedule, error) {
	return s.inRange, s.err
}

func date(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestCalendarViewBucketsByDay(t *testing.T) {
	repo := &stubRepo{inRange: []domain.MaintenanceSchedule{
		{ID: 1, Number: "MS-a", Title: "Pump check", AssetID: 5, Status: domain.StatusScheduled, Priority: "MEDIUM", ScheduledDate: date(12)},
		{ID: 2, Number: "MS-b", Title: "Belt swap", AssetID: 6, Status: domain.StatusScheduled, Priority: "HIGH", ScheduledDate: date(12)},
		{ID: 3, Number: "MS-c", Title: "Filter swap", AssetID: 7, Status: domain.StatusScheduled, Priority: "LOW", ScheduledDate: date(14)},
		// Past and still SCHEDULED, so the view shows it as overdue.
		{ID: 4, Number: "MS-d", Title: "Valve test", AssetID: 8, Status: domain.StatusScheduled, ScheduledDate: date(2)},
	}}
	handler := NewCalendarViewHandler(repo, nil, clock.Fixed(date(10)))

	view, err := handler.Handle(context.Background(), CalendarViewQuery{
		CompanyID: 1, From: date(1), To: date(31),
	})
	require.NoError(t, err)
	require.Len(t, view, 3)
	assert.Len(t, view["2026-03-12"], 2)
	assert.Len(t, view["2026-03-14"], 1)

	require.Len(t, view["2026-03-02"], 1)
	assert.Equal(t, domain.StatusOverdue, view["2026-03-02"][0].Status)
	assert.Equal(t, "MS-d", view["2026-03-02"][0].Number)
}

func TestCalendarViewValidation(t *testing.T) {
	handler := NewCalendarViewHandler(&stubRepo{}, nil, clock.Fixed(date(10)))

	_, err := handler.Handle(context.Background(), CalendarViewQuery{CompanyID: 1})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = handler.Handle(context.Background(), CalendarViewQuery{
		CompanyID: 1, From: date(20), To: date(10),
	})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestOptimizationGroupingSuggestion(t *testing.T) {
	// Asset 5 is visited on three distinct days.
	repo := &stubRepo{inRange: []domain.MaintenanceSchedule{
		{ID: 1, Number: "MS-a", AssetID: 5, ScheduledDate: date(10)},
		{ID: 2, Number: "MS-b", AssetID: 5, ScheduledDate: date(12)},
		{ID: 3, Number: "MS-c", AssetID: 5, ScheduledDate: date(14)},
		{ID: 4, Number: "MS-d", AssetID: 6, ScheduledDate: date(10)},
	}}
	handler := NewOptimizationHandler(repo)

	suggestions, err := handler.Handle(OptimizationQuery{CompanyID: 1, From: date(1), To: date(31)})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, domain.SuggestionGrouping, suggestions[0].Type)
	assert.ElementsMatch(t, []uint{1, 2, 3}, suggestions[0].ScheduleIDs)
}

func TestOptimizationTimeSlotSuggestions(t *testing.T) {
	tech := uint(42)
	at := func(d, h int) *time.Time {
		ts := time.Date(2026, time.March, d, h, 0, 0, 0, time.UTC)
		return &ts
	}

	repo := &stubRepo{inRange: []domain.MaintenanceSchedule{
		// Same technician, overlapping windows on the same day.
		{ID: 1, Number: "MS-a", AssetID: 5, AssignedTo: &tech, ScheduledDate: date(10), StartTime: at(10, 9), EndTime: at(10, 12)},
		{ID: 2, Number: "MS-b", AssetID: 6, AssignedTo: &tech, ScheduledDate: date(10), StartTime: at(10, 11), EndTime: at(10, 14)},
		// Same asset booked twice on one day, both reserving the whole day.
		{ID: 3, Number: "MS-c", AssetID: 7, ScheduledDate: date(12)},
		{ID: 4, Number: "MS-d", AssetID: 7, ScheduledDate: date(12)},
		// Different assets, no assignee: nothing to flag.
		{ID: 5, Number: "MS-e", AssetID: 8, ScheduledDate: date(14)},
		{ID: 6, Number: "MS-f", AssetID: 9, ScheduledDate: date(14)},
	}}
	handler := NewOptimizationHandler(repo)

	suggestions, err := handler.Handle(OptimizationQuery{CompanyID: 1, From: date(1), To: date(31)})
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, domain.SuggestionTimeSlot, suggestions[0].Type)
	assert.Equal(t, []uint{1, 2}, suggestions[0].ScheduleIDs)
	assert.Equal(t, domain.SuggestionTimeSlot, suggestions[1].Type)
	assert.Equal(t, []uint{3, 4}, suggestions[1].ScheduleIDs)
}

func TestOptimizationPriorityRebalancing(t *testing.T) {
	repo := &stubRepo{inRange: []domain.MaintenanceSchedule{
		{ID: 1, Number: "MS-a", AssetID: 5, Priority: "URGENT", ScheduledDate: date(10)},
		{ID: 2, Number: "MS-b", AssetID: 6, Priority: "EMERGENCY", ScheduledDate: date(10)},
		{ID: 3, Number: "MS-c", AssetID: 7, Priority: "URGENT", ScheduledDate: date(10)},
		// Two urgent items on another day stay under the threshold.
		{ID: 4, Number: "MS-d", AssetID: 8, Priority: "URGENT", ScheduledDate: date(12)},
		{ID: 5, Number: "MS-e", AssetID: 9, Priority: "URGENT", ScheduledDate: date(12)},
	}}
	handler := NewOptimizationHandler(repo)

	suggestions, err := handler.Handle(OptimizationQuery{CompanyID: 1, From: date(1), To: date(31)})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, domain.SuggestionPriority, suggestions[0].Type)
	assert.ElementsMatch(t, []uint{1, 2, 3}, suggestions[0].ScheduleIDs)
}

func TestOptimizationValidation(t *testing.T) {
	handler := NewOptimizationHandler(&stubRepo{})

	_, err := handler.Handle(OptimizationQuery{CompanyID: 1})
	assert.ErrorIs(t, err, errs.ErrValidation)
}
