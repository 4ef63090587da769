package command

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/qiro-dev/facility-maintenance/internal/schedule/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
	"github.com/qiro-dev/facility-maintenance/pkg/logger"
)

// UpdateScheduleCommand edits schedule details in place. Nil fields are
// left untouched.
type UpdateScheduleCommand struct {
	CompanyID              uint
	ScheduleID             uint
	Title                  *string
	StartTime              *time.Time
	EndTime                *time.Time
	EstimatedDurationHours *decimal.Decimal
	Notes                  *string
	ActorID                uint
}

// UpdateScheduleHandler handles schedule edits
type UpdateScheduleHandler struct {
	repo domain.ScheduleRepository
}

// NewUpdateScheduleHandler creates a new update schedule handler
func NewUpdateScheduleHandler(repo domain.ScheduleRepository) *UpdateScheduleHandler {
	return &UpdateScheduleHandler{repo: repo}
}

// Handle edits a non-terminal schedule. Date moves go through
// reschedule, not here.
func (h *UpdateScheduleHandler) Handle(ctx context.Context, cmd UpdateScheduleCommand) (*domain.MaintenanceSchedule, error) {
	s, err := h.repo.FindByID(cmd.CompanyID, cmd.ScheduleID)
	if err != nil {
		return nil, err
	}
	if s.Status == domain.StatusCancelled || s.Status == domain.StatusCompleted {
		return nil, fmt.Errorf("%w: cannot edit a %s schedule", errs.ErrInvalidState, s.Status)
	}

	if cmd.Title != nil {
		s.Title = *cmd.Title
	}
	if cmd.StartTime != nil {
		s.StartTime = cmd.StartTime
	}
	if cmd.EndTime != nil {
		s.EndTime = cmd.EndTime
	}
	if s.StartTime != nil && s.EndTime != nil && !s.EndTime.After(*s.StartTime) {
		return nil, fmt.Errorf("%w: end time must be after start time", errs.ErrValidation)
	}
	if cmd.EstimatedDurationHours != nil {
		s.EstimatedDurationHours = *cmd.EstimatedDurationHours
	}
	if cmd.Notes != nil {
		s.Notes = *cmd.Notes
	}

	if err := h.repo.UpdateGuarded(s, s.Version); err != nil {
		return nil, err
	}

	logger.Audit(ctx, cmd.ActorID).
		Uint("schedule_id", s.ID).
		Msg("Schedule updated")

	return s, nil
}
