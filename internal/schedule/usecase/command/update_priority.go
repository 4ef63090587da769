package command

import (
	"context"
	"fmt"

	"github.com/qiro-dev/facility-maintenance/internal/schedule/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
	"github.com/qiro-dev/facility-maintenance/pkg/logger"
)

// UpdatePriorityCommand changes a schedule's priority
type UpdatePriorityCommand struct {
	CompanyID  uint
	ScheduleID uint
	Priority   string
	Reason     string
	ActorID    uint
}

// UpdatePriorityHandler handles priority changes
type UpdatePriorityHandler struct {
	repo domain.ScheduleRepository
}

// NewUpdatePriorityHandler creates a new update priority handler
func NewUpdatePriorityHandler(repo domain.ScheduleRepository) *UpdatePriorityHandler {
	return &UpdatePriorityHandler{repo: repo}
}

// Handle changes the priority of a non-terminal schedule.
func (h *UpdatePriorityHandler) Handle(ctx context.Context, cmd UpdatePriorityCommand) (*domain.MaintenanceSchedule, error) {
	if !domain.ValidPriority(cmd.Priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", errs.ErrValidation, cmd.Priority)
	}

	s, err := h.repo.FindByID(cmd.CompanyID, cmd.ScheduleID)
	if err != nil {
		return nil, err
	}
	if s.Status == domain.StatusCancelled || s.Status == domain.StatusCompleted {
		return nil, fmt.Errorf("%w: cannot reprioritize a %s schedule", errs.ErrInvalidState, s.Status)
	}

	old := s.Priority
	s.Priority = cmd.Priority
	if cmd.Reason != "" {
		s.Notes = cmd.Reason
	}

	if err := h.repo.UpdateGuarded(s, s.Version); err != nil {
		return nil, err
	}

	logger.Audit(ctx, cmd.ActorID).
		Uint("schedule_id", s.ID).
		Str("from", old).
		Str("to", cmd.Priority).
		Msg("Schedule priority updated")

	return s, nil
}
