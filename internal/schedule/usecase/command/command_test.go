package command

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qiro-dev/facility-maintenance/internal/conflict"
	"github.com/qiro-dev/facility-maintenance/internal/schedule/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/clock"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
)

var testTime = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

type fakePlanRepo struct {
	plans map[uint]*domain.MaintenancePlan
}

func newFakePlanRepo(plans ...*domain.MaintenancePlan) *fakePlanRepo {
	r := &fakePlanRepo{plans: make(map[uint]*domain.MaintenancePlan)}
	for _, p := range plans {
		r.plans[p.ID] = p
	}
	return r
}

func (r *fakePlanRepo) Create(plan *domain.MaintenancePlan) error {
	plan.ID = uint(len(r.plans) + 1)
	r.plans[plan.ID] = plan
	return nil
}

func (r *fakePlanRepo) FindByID(companyID, id uint) (*domain.MaintenancePlan, error) {
	if p, ok := r.plans[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, fmt.Errorf("%w: plan %d", errs.ErrNotFound, id)
}

func (r *fakePlanRepo) ActivePlans(companyID, planID, assetID uint) ([]domain.MaintenancePlan, error) {
	var out []domain.MaintenancePlan
	for _, p := range r.plans {
		if !p.IsActive {
			continue
		}
		if planID != 0 && p.ID != planID {
			continue
		}
		if assetID != 0 && p.AssetID != assetID {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePlanRepo) Update(plan *domain.MaintenancePlan) error {
	copied := *plan
	r.plans[plan.ID] = &copied
	return nil
}

type fakeScheduleRepo struct {
	schedules  map[uint]*domain.MaintenanceSchedule
	nextID     uint
	dupeOnce   bool // next Create loses the unique-index race
	guardedErr error
}

func newFakeScheduleRepo(schedules ...*domain.MaintenanceSchedule) *fakeScheduleRepo {
	r := &fakeScheduleRepo{schedules: make(map[uint]*domain.MaintenanceSchedule)}
	for _, s := range schedules {
		r.schedules[s.ID] = s
		if s.ID > r.nextID {
			r.nextID = s.ID
		}
	}
	return r
}

func (r *fakeScheduleRepo) Create(s *domain.MaintenanceSchedule) error {
	if r.dupeOnce {
		r.dupeOnce = false
		return gorm.ErrDuplicatedKey
	}
	r.nextID++
	s.ID = r.nextID
	copied := *s
	r.schedules[s.ID] = &copied
	return nil
}

func (r *fakeScheduleRepo) FindByID(companyID, id uint) (*domain.MaintenanceSchedule, error) {
	if s, ok := r.schedules[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, fmt.Errorf("%w: schedule %d", errs.ErrNotFound, id)
}

func (r *fakeScheduleRepo) Search(companyID uint, filter domain.ScheduleFilter) ([]domain.MaintenanceSchedule, error) {
	var out []domain.MaintenanceSchedule
	for _, s := range r.schedules {
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeScheduleRepo) InRange(companyID uint, from, to time.Time) ([]domain.MaintenanceSchedule, error) {
	var out []domain.MaintenanceSchedule
	for _, s := range r.schedules {
		if !s.ScheduledDate.Before(from) && !s.ScheduledDate.After(to) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) UpdateGuarded(s *domain.MaintenanceSchedule, expectVersion uint) error {
	if r.guardedErr != nil {
		return r.guardedErr
	}
	stored, ok := r.schedules[s.ID]
	if !ok {
		return fmt.Errorf("%w: schedule %d", errs.ErrNotFound, s.ID)
	}
	if stored.Version != expectVersion {
		return errs.ErrConcurrentModification
	}
	s.Version = expectVersion + 1
	copied := *s
	r.schedules[s.ID] = &copied
	return nil
}

func (r *fakeScheduleRepo) ActiveExists(companyID, planID, assetID uint, date time.Time) (*domain.MaintenanceSchedule, error) {
	for _, s := range r.schedules {
		if s.PlanID == planID && s.AssetID == assetID && s.ScheduledDate.Equal(date) && s.Status != domain.StatusCancelled {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeScheduleRepo) Statistics(companyID uint, from, to time.Time) (*domain.ScheduleStatistics, error) {
	return &domain.ScheduleStatistics{}, nil
}

func weeklyPlan() *domain.MaintenancePlan {
	return &domain.MaintenancePlan{
		ID:            1,
		CompanyID:     1,
		Name:          "Chiller inspection",
		AssetID:       5,
		Frequency:     domain.FrequencyWeekly,
		IntervalValue: 1,
		Priority:      "MEDIUM",
		StartDate:     time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		IsActive:      true,
	}
}

func jan(d int) time.Time {
	return time.Date(2026, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestAutoGenerateExpandsWeeklyPlan(t *testing.T) {
	plans := newFakePlanRepo(weeklyPlan())
	schedules := newFakeScheduleRepo()
	handler := NewAutoGenerateHandler(plans, schedules, clock.Fixed(testTime))

	result, err := handler.Handle(context.Background(), AutoGenerateCommand{
		CompanyID: 1,
		StartDate: jan(1),
		EndDate:   jan(31),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, result.GeneratedCount) // Jan 1, 8, 15, 22, 29
	assert.Equal(t, 0, result.SkippedCount)
	require.Len(t, result.Schedules, 5)

	first := result.Schedules[0]
	assert.Equal(t, domain.StatusScheduled, first.Status)
	assert.Equal(t, uint(5), first.AssetID)
	assert.Equal(t, "Chiller inspection", first.Title)
	assert.Contains(t, first.Number, "MS-")
	assert.True(t, first.ScheduledDate.Equal(jan(1)))

	// The generation marker advances to the last created occurrence.
	plan, _ := plans.FindByID(1, 1)
	require.NotNil(t, plan.LastGeneratedDate)
	assert.True(t, plan.LastGeneratedDate.Equal(jan(29)))
}

func TestAutoGenerateRerunIsIdempotent(t *testing.T) {
	plans := newFakePlanRepo(weeklyPlan())
	schedules := newFakeScheduleRepo()
	handler := NewAutoGenerateHandler(plans, schedules, clock.Fixed(testTime))

	cmd := AutoGenerateCommand{CompanyID: 1, StartDate: jan(1), EndDate: jan(31)}
	_, err := handler.Handle(context.Background(), cmd)
	require.NoError(t, err)

	again, err := handler.Handle(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, 0, again.GeneratedCount)
	assert.Len(t, schedules.schedules, 5)
}

func TestAutoGenerateSkipsExistingOccurrences(t *testing.T) {
	plans := newFakePlanRepo(weeklyPlan())
	schedules := newFakeScheduleRepo(&domain.MaintenanceSchedule{
		ID: 90, CompanyID: 1, Number: "MS-seeded", PlanID: 1, AssetID: 5,
		ScheduledDate: jan(1), Status: domain.StatusScheduled, Version: 1,
	})
	handler := NewAutoGenerateHandler(plans, schedules, clock.Fixed(testTime))

	result, err := handler.Handle(context.Background(), AutoGenerateCommand{
		CompanyID: 1, StartDate: jan(1), EndDate: jan(31),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, result.GeneratedCount)
	assert.Equal(t, 1, result.SkippedCount)
	assert.Equal(t, 0, result.ReplacedCount)
}

func TestAutoGenerateOverwriteCancelsAndRecreates(t *testing.T) {
	plans := newFakePlanRepo(weeklyPlan())
	schedules := newFakeScheduleRepo(&domain.MaintenanceSchedule{
		ID: 90, CompanyID: 1, Number: "MS-seeded", PlanID: 1, AssetID: 5,
		ScheduledDate: jan(1), Status: domain.StatusScheduled, Version: 1,
	})
	handler := NewAutoGenerateHandler(plans, schedules, clock.Fixed(testTime))

	result, err := handler.Handle(context.Background(), AutoGenerateCommand{
		CompanyID: 1, StartDate: jan(1), EndDate: jan(31), OverwriteExisting: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, result.GeneratedCount)
	assert.Equal(t, 1, result.ReplacedCount)

	replaced := schedules.schedules[90]
	assert.Equal(t, domain.StatusCancelled, replaced.Status)
	assert.NotEmpty(t, replaced.CancelReason)
}

func TestAutoGenerateRespectsPlanEndDate(t *testing.T) {
	plan := weeklyPlan()
	end := jan(15)
	plan.EndDate = &end
	plans := newFakePlanRepo(plan)
	handler := NewAutoGenerateHandler(plans, newFakeScheduleRepo(), clock.Fixed(testTime))

	result, err := handler.Handle(context.Background(), AutoGenerateCommand{
		CompanyID: 1, StartDate: jan(1), EndDate: jan(31),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.GeneratedCount) // Jan 1, 8, 15
}

func TestAutoGenerateIgnoresOccurrencesBeforeRange(t *testing.T) {
	plans := newFakePlanRepo(weeklyPlan())
	handler := NewAutoGenerateHandler(plans, newFakeScheduleRepo(), clock.Fixed(testTime))

	result, err := handler.Handle(context.Background(), AutoGenerateCommand{
		CompanyID: 1, StartDate: jan(10), EndDate: jan(31),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.GeneratedCount) // Jan 15, 22, 29
	assert.Equal(t, 0, result.SkippedCount)
}

func TestAutoGenerateLostInsertRaceCountsAsSkipped(t *testing.T) {
	plans := newFakePlanRepo(weeklyPlan())
	schedules := newFakeScheduleRepo()
	schedules.dupeOnce = true
	handler := NewAutoGenerateHandler(plans, schedules, clock.Fixed(testTime))

	result, err := handler.Handle(context.Background(), AutoGenerateCommand{
		CompanyID: 1, StartDate: jan(1), EndDate: jan(31),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, result.GeneratedCount)
	assert.Equal(t, 1, result.SkippedCount)
}

func TestAutoGenerateValidation(t *testing.T) {
	handler := NewAutoGenerateHandler(newFakePlanRepo(), newFakeScheduleRepo(), clock.Fixed(testTime))

	_, err := handler.Handle(context.Background(), AutoGenerateCommand{CompanyID: 1})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = handler.Handle(context.Background(), AutoGenerateCommand{
		CompanyID: 1, StartDate: jan(31), EndDate: jan(1),
	})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestCreatePlanDefaultsAndValidation(t *testing.T) {
	repo := newFakePlanRepo()
	handler := NewCreatePlanHandler(repo)

	plan, err := handler.Handle(context.Background(), CreatePlanCommand{
		CompanyID: 1,
		Name:      "  Filter swap  ",
		AssetID:   5,
		Frequency: domain.FrequencyMonthly,
		StartDate: jan(1),
	})
	require.NoError(t, err)
	assert.Equal(t, "Filter swap", plan.Name)
	assert.Equal(t, "MEDIUM", plan.Priority)
	assert.Equal(t, 1, plan.IntervalValue)
	assert.True(t, plan.IsActive)

	_, err = handler.Handle(context.Background(), CreatePlanCommand{
		CompanyID: 1, Name: "x", AssetID: 5, Frequency: "BIWEEKLY", StartDate: jan(1),
	})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = handler.Handle(context.Background(), CreatePlanCommand{
		CompanyID: 1, Name: "   ", AssetID: 5, Frequency: domain.FrequencyMonthly, StartDate: jan(1),
	})
	assert.ErrorIs(t, err, errs.ErrValidation)

	end := jan(1)
	_, err = handler.Handle(context.Background(), CreatePlanCommand{
		CompanyID: 1, Name: "x", AssetID: 5, Frequency: domain.FrequencyMonthly,
		StartDate: jan(15), EndDate: &end,
	})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

type stubBookingSource struct {
	bookings []conflict.Booking
	err      error
}

func (s *stubBookingSource) ActiveBookings(ctx context.Context, companyID uint, window conflict.Window) ([]conflict.Booking, error) {
	return s.bookings, s.err
}

func TestRescheduleMovesInPlaceWithWarnings(t *testing.T) {
	repo := newFakeScheduleRepo(&domain.MaintenanceSchedule{
		ID: 3, CompanyID: 1, Number: "MS-abc123", PlanID: 1, AssetID: 5,
		ScheduledDate: jan(8), Status: domain.StatusScheduled, Priority: "MEDIUM", Version: 1,
	})
	source := &stubBookingSource{bookings: []conflict.Booking{{
		RefID:    44,
		RefKind:  "work_order",
		AssetID:  5,
		Priority: "MEDIUM",
		Window: conflict.Window{
			Start: time.Date(2026, time.January, 20, 9, 0, 0, 0, time.UTC),
			End:   time.Date(2026, time.January, 20, 12, 0, 0, 0, time.UTC),
		},
	}}}
	handler := NewRescheduleHandler(repo, conflict.NewDetector(source))

	result, err := handler.Handle(context.Background(), RescheduleCommand{
		CompanyID: 1, ScheduleID: 3, NewDate: jan(20), Reason: "technician out sick",
	})
	require.NoError(t, err)

	s := result.Schedule
	assert.Equal(t, "MS-abc123", s.Number)
	assert.True(t, s.ScheduledDate.Equal(jan(20)))
	assert.Equal(t, domain.StatusRescheduled, s.Status)
	assert.Equal(t, "technician out sick", s.RescheduleReason)
	assert.Equal(t, uint(2), s.Version)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, conflict.TypeTimeOverlap, result.Warnings[0].Type)
}

func TestRescheduleSwallowsConflictCheckFailure(t *testing.T) {
	repo := newFakeScheduleRepo(&domain.MaintenanceSchedule{
		ID: 3, CompanyID: 1, AssetID: 5, ScheduledDate: jan(8),
		Status: domain.StatusScheduled, Priority: "MEDIUM", Version: 1,
	})
	source := &stubBookingSource{err: assert.AnError}
	handler := NewRescheduleHandler(repo, conflict.NewDetector(source))

	result, err := handler.Handle(context.Background(), RescheduleCommand{
		CompanyID: 1, ScheduleID: 3, NewDate: jan(20), Reason: "parts delayed",
	})
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, domain.StatusRescheduled, result.Schedule.Status)
}

func TestRescheduleRejectsTerminalStates(t *testing.T) {
	for _, status := range []string{domain.StatusCancelled, domain.StatusCompleted} {
		repo := newFakeScheduleRepo(&domain.MaintenanceSchedule{
			ID: 3, CompanyID: 1, AssetID: 5, ScheduledDate: jan(8), Status: status, Version: 1,
		})
		handler := NewRescheduleHandler(repo, conflict.NewDetector(&stubBookingSource{}))

		_, err := handler.Handle(context.Background(), RescheduleCommand{
			CompanyID: 1, ScheduleID: 3, NewDate: jan(20), Reason: "move",
		})
		assert.ErrorIs(t, err, errs.ErrInvalidState, status)
	}
}

func TestRescheduleValidation(t *testing.T) {
	handler := NewRescheduleHandler(newFakeScheduleRepo(), conflict.NewDetector(&stubBookingSource{}))

	_, err := handler.Handle(context.Background(), RescheduleCommand{
		CompanyID: 1, ScheduleID: 3, Reason: "move",
	})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = handler.Handle(context.Background(), RescheduleCommand{
		CompanyID: 1, ScheduleID: 3, NewDate: jan(20),
	})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestCancelScheduleKeepsRowForAudit(t *testing.T) {
	repo := newFakeScheduleRepo(&domain.MaintenanceSchedule{
		ID: 3, CompanyID: 1, AssetID: 5, ScheduledDate: jan(8),
		Status: domain.StatusScheduled, Version: 1,
	})
	handler := NewCancelScheduleHandler(repo)

	s, err := handler.Handle(context.Background(), CancelScheduleCommand{
		CompanyID: 1, ScheduleID: 3, Reason: "asset decommissioned",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, s.Status)
	assert.Equal(t, "asset decommissioned", s.CancelReason)
	assert.Contains(t, repo.schedules, uint(3))

	_, err = handler.Handle(context.Background(), CancelScheduleCommand{
		CompanyID: 1, ScheduleID: 3, Reason: "again",
	})
	assert.ErrorIs(t, err, errs.ErrInvalidState)
}

func TestCancelScheduleRequiresReason(t *testing.T) {
	handler := NewCancelScheduleHandler(newFakeScheduleRepo())

	_, err := handler.Handle(context.Background(), CancelScheduleCommand{CompanyID: 1, ScheduleID: 3})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestCreateScheduleValidatesTimeWindow(t *testing.T) {
	repo := newFakeScheduleRepo()
	handler := NewCreateScheduleHandler(repo)

	start := time.Date(2026, time.March, 12, 14, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 12, 10, 0, 0, 0, time.UTC)
	_, err := handler.Handle(context.Background(), CreateScheduleCommand{
		CompanyID: 1, AssetID: 5, Title: "Belt check",
		ScheduledDate: jan(12), StartTime: &start, EndTime: &end,
	})
	assert.ErrorIs(t, err, errs.ErrValidation)

	s, err := handler.Handle(context.Background(), CreateScheduleCommand{
		CompanyID: 1, AssetID: 5, Title: "Belt check", ScheduledDate: jan(12),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, s.Status)
	assert.Equal(t, "MEDIUM", s.Priority)
	assert.Equal(t, uint(0), s.PlanID)
}
