package command

import (
	"context"
	"fmt"

	"github.com/qiro-dev/facility-maintenance/internal/schedule/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
	"github.com/qiro-dev/facility-maintenance/pkg/logger"
)

// CancelScheduleCommand cancels a schedule; the row is retained
type CancelScheduleCommand struct {
	CompanyID  uint
	ScheduleID uint
	Reason     string
	ActorID    uint
}

// CancelScheduleHandler handles schedule cancellation
type CancelScheduleHandler struct {
	repo domain.ScheduleRepository
}

// NewCancelScheduleHandler creates a new cancel schedule handler
func NewCancelScheduleHandler(repo domain.ScheduleRepository) *CancelScheduleHandler {
	return &CancelScheduleHandler{repo: repo}
}

// Handle cancels a schedule. Deletion is logical: the row stays for
// audit and frees the (plan, asset, date) occurrence key.
func (h *CancelScheduleHandler) Handle(ctx context.Context, cmd CancelScheduleCommand) (*domain.MaintenanceSchedule, error) {
	if cmd.Reason == "" {
		return nil, fmt.Errorf("%w: cancel reason is required", errs.ErrValidation)
	}

	s, err := h.repo.FindByID(cmd.CompanyID, cmd.ScheduleID)
	if err != nil {
		return nil, err
	}
	if s.Status == domain.StatusCancelled {
		return nil, fmt.Errorf("%w: schedule already cancelled", errs.ErrInvalidState)
	}
	if s.Status == domain.StatusCompleted {
		return nil, fmt.Errorf("%w: cannot cancel a completed schedule", errs.ErrInvalidState)
	}

	s.Status = domain.StatusCancelled
	s.CancelReason = cmd.Reason

	if err := h.repo.UpdateGuarded(s, s.Version); err != nil {
		return nil, err
	}

	logger.Audit(ctx, cmd.ActorID).
		Uint("schedule_id", s.ID).
		Str("reason", cmd.Reason).
		Msg("Schedule cancelled")

	return s, nil
}
