package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qiro-dev/facility-maintenance/internal/schedule/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/clock"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
	"github.com/qiro-dev/facility-maintenance/pkg/logger"
)

// AutoGenerateCommand expands active plans into schedules over a range
type AutoGenerateCommand struct {
	CompanyID         uint
	PlanID            uint // 0 means every active plan
	AssetID           uint // 0 means every asset
	StartDate         time.Time
	EndDate           time.Time
	OverwriteExisting bool
	ActorID           uint
}

// AutoGenerateResult reports one generation run.
type AutoGenerateResult struct {
	GeneratedCount int                          `json:"generated_count"`
	SkippedCount   int                          `json:"skipped_count"`
	ReplacedCount  int                          `json:"replaced_count"`
	Schedules      []domain.MaintenanceSchedule `json:"schedules"`
}

// AutoGenerateHandler handles schedule generation
type AutoGenerateHandler struct {
	plans     domain.PlanRepository
	schedules domain.ScheduleRepository
	clock     clock.Clock
}

// NewAutoGenerateHandler creates a new auto generate handler
func NewAutoGenerateHandler(plans domain.PlanRepository, schedules domain.ScheduleRepository, clk clock.Clock) *AutoGenerateHandler {
	return &AutoGenerateHandler{plans: plans, schedules: schedules, clock: clk}
}

// Handle walks each matching plan's recurrence and creates one schedule
// per occurrence inside [StartDate, EndDate]. Occurrences that already
// have a non-cancelled schedule are skipped unless OverwriteExisting,
// which cancels the existing row and creates a fresh one. Re-running
// with the same range produces no duplicates; two concurrent runs
// racing on the same occurrence are resolved by the unique index, and
// the loser counts the occurrence as skipped.
func (h *AutoGenerateHandler) Handle(ctx context.Context, cmd AutoGenerateCommand) (*AutoGenerateResult, error) {
	if cmd.StartDate.IsZero() || cmd.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: start and end dates are required", errs.ErrValidation)
	}
	if cmd.EndDate.Before(cmd.StartDate) {
		return nil, fmt.Errorf("%w: end date before start date", errs.ErrValidation)
	}

	plans, err := h.plans.ActivePlans(cmd.CompanyID, cmd.PlanID, cmd.AssetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plans: %w", err)
	}

	result := &AutoGenerateResult{}
	for i := range plans {
		if err := h.generateForPlan(ctx, cmd, &plans[i], result); err != nil {
			return nil, err
		}
	}

	logger.Audit(ctx, cmd.ActorID).
		Int("plans", len(plans)).
		Int("generated", result.GeneratedCount).
		Int("skipped", result.SkippedCount).
		Int("replaced", result.ReplacedCount).
		Msg("Schedule generation finished")

	return result, nil
}

func (h *AutoGenerateHandler) generateForPlan(ctx context.Context, cmd AutoGenerateCommand, plan *domain.MaintenancePlan, result *AutoGenerateResult) error {
	cursor := truncateDay(plan.StartDate)
	if plan.LastGeneratedDate != nil && plan.LastGeneratedDate.After(cursor) {
		cursor = domain.NextOccurrence(truncateDay(*plan.LastGeneratedDate), plan.Frequency, plan.IntervalValue)
	}

	end := truncateDay(cmd.EndDate)
	if plan.EndDate != nil && plan.EndDate.Before(end) {
		end = truncateDay(*plan.EndDate)
	}

	var lastGenerated *time.Time
	for !cursor.After(end) {
		date := cursor
		cursor = domain.NextOccurrence(cursor, plan.Frequency, plan.IntervalValue)

		if date.Before(truncateDay(cmd.StartDate)) {
			continue
		}

		existing, err := h.schedules.ActiveExists(cmd.CompanyID, plan.ID, plan.AssetID, date)
		if err != nil {
			return err
		}
		if existing != nil {
			if !cmd.OverwriteExisting {
				result.SkippedCount++
				continue
			}
			if err := h.cancelExisting(existing); err != nil {
				return err
			}
			result.ReplacedCount++
		}

		schedule := &domain.MaintenanceSchedule{
			CompanyID:              cmd.CompanyID,
			Number:                 fmt.Sprintf("MS-%s", uuid.New().String()[:8]),
			PlanID:                 plan.ID,
			AssetID:                plan.AssetID,
			Title:                  plan.Name,
			ScheduledDate:          date,
			Status:                 domain.StatusScheduled,
			Priority:               plan.Priority,
			EstimatedDurationHours: plan.EstimatedDurationHours,
			Version:                1,
		}
		if err := h.schedules.Create(schedule); err != nil {
			// Lost a race with a concurrent generator on the same
			// occurrence key.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				result.SkippedCount++
				continue
			}
			return fmt.Errorf("failed to create schedule: %w", err)
		}

		result.GeneratedCount++
		result.Schedules = append(result.Schedules, *schedule)
		d := date
		lastGenerated = &d
	}

	if lastGenerated != nil {
		plan.LastGeneratedDate = lastGenerated
		if err := h.plans.Update(plan); err != nil {
			return fmt.Errorf("failed to update plan generation marker: %w", err)
		}
	}
	return nil
}

func (h *AutoGenerateHandler) cancelExisting(existing *domain.MaintenanceSchedule) error {
	existing.Status = domain.StatusCancelled
	existing.CancelReason = "replaced by regeneration"
	return h.schedules.UpdateGuarded(existing, existing.Version)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
