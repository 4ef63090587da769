package command

import (
	"context"
	"fmt"

	"github.com/qiro-dev/facility-maintenance/internal/schedule/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
	"github.com/qiro-dev/facility-maintenance/pkg/logger"
)

// AssignScheduleCommand assigns a technician to a schedule
type AssignScheduleCommand struct {
	CompanyID  uint
	ScheduleID uint
	WorkerID   uint
	Notes      string
	ActorID    uint
}

// AssignScheduleHandler handles schedule assignment
type AssignScheduleHandler struct {
	repo domain.ScheduleRepository
}

// NewAssignScheduleHandler creates a new assign schedule handler
func NewAssignScheduleHandler(repo domain.ScheduleRepository) *AssignScheduleHandler {
	return &AssignScheduleHandler{repo: repo}
}

// Handle assigns a technician. Reassignment is allowed; cancelled and
// completed schedules are not assignable.
func (h *AssignScheduleHandler) Handle(ctx context.Context, cmd AssignScheduleCommand) (*domain.MaintenanceSchedule, error) {
	if cmd.WorkerID == 0 {
		return nil, fmt.Errorf("%w: worker_id is required", errs.ErrValidation)
	}

	s, err := h.repo.FindByID(cmd.CompanyID, cmd.ScheduleID)
	if err != nil {
		return nil, err
	}
	if s.Status == domain.StatusCancelled || s.Status == domain.StatusCompleted {
		return nil, fmt.Errorf("%w: cannot assign a %s schedule", errs.ErrInvalidState, s.Status)
	}

	s.AssignedTo = &cmd.WorkerID
	if cmd.Notes != "" {
		s.Notes = cmd.Notes
	}

	if err := h.repo.UpdateGuarded(s, s.Version); err != nil {
		return nil, err
	}

	logger.Audit(ctx, cmd.ActorID).
		Uint("schedule_id", s.ID).
		Uint("worker_id", cmd.WorkerID).
		Msg("Schedule assigned")

	return s, nil
}
