package command

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/qiro-dev/facility-maintenance/internal/workorder/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
)

// UpdateProgressCommand represents the command to record work progress
type UpdateProgressCommand struct {
	CompanyID   uint
	WorkOrderID uint
	Percentage  int
	Phase       string // optional; derived from percentage when empty
	HoursWorked decimal.Decimal
	ActorID     uint
}

// UpdateProgressHandler handles progress updates
type UpdateProgressHandler struct {
	repo domain.WorkOrderRepository
}

// NewUpdateProgressHandler creates a new update progress handler
func NewUpdateProgressHandler(repo domain.WorkOrderRepository) *UpdateProgressHandler {
	return &UpdateProgressHandler{repo: repo}
}

// Handle records progress on an in-progress work order. Progress is
// monotonically non-decreasing while the work order is IN_PROGRESS.
func (h *UpdateProgressHandler) Handle(ctx context.Context, cmd UpdateProgressCommand) (*domain.WorkOrder, error) {
	if cmd.Percentage < 0 || cmd.Percentage > 100 {
		return nil, fmt.Errorf("%w: percentage must be within [0,100]", errs.ErrValidation)
	}
	if cmd.HoursWorked.IsNegative() {
		return nil, fmt.Errorf("%w: hours worked cannot be negative", errs.ErrValidation)
	}

	var wo *domain.WorkOrder
	err := withVersionRetry(func() error {
		var err error
		wo, err = h.repo.FindByID(cmd.CompanyID, cmd.WorkOrderID)
		if err != nil {
			return err
		}

		if wo.Status != domain.StatusInProgress {
			return fmt.Errorf("%w: progress requires IN_PROGRESS, got %s", errs.ErrInvalidState, wo.Status)
		}
		if cmd.Percentage < wo.ProgressPercentage {
			return fmt.Errorf("%w: progress cannot decrease from %d to %d",
				errs.ErrValidation, wo.ProgressPercentage, cmd.Percentage)
		}

		wo.ProgressPercentage = cmd.Percentage
		if cmd.Phase != "" {
			wo.Phase = cmd.Phase
		} else {
			wo.Phase = domain.PhaseForProgress(cmd.Percentage)
		}
		wo.ActualDurationHours = wo.ActualDurationHours.Add(cmd.HoursWorked)

		return h.repo.UpdateGuarded(wo, wo.Version)
	})
	if err != nil {
		return nil, err
	}

	return wo, nil
}
