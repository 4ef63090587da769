package command

import (
	"context"
	"fmt"

	"github.com/qiro-dev/facility-maintenance/internal/workorder/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/clock"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
	"github.com/qiro-dev/facility-maintenance/pkg/logger"
)

// UpdateStatusCommand represents the command to transition a work order
type UpdateStatusCommand struct {
	CompanyID   uint
	WorkOrderID uint
	NewStatus   string
	ActorID     uint
}

// UpdateStatusHandler handles status transitions
type UpdateStatusHandler struct {
	repo  domain.WorkOrderRepository
	clock clock.Clock
}

// NewUpdateStatusHandler creates a new update status handler
func NewUpdateStatusHandler(repo domain.WorkOrderRepository, clk clock.Clock) *UpdateStatusHandler {
	return &UpdateStatusHandler{repo: repo, clock: clk}
}

// Handle validates the transition against the table and commits it with
// a version guard. Illegal edges fail with ErrInvalidTransition.
func (h *UpdateStatusHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) (*domain.WorkOrder, error) {
	if !domain.ValidStatus(cmd.NewStatus) {
		return nil, fmt.Errorf("%w: unknown status %q", errs.ErrValidation, cmd.NewStatus)
	}

	var wo *domain.WorkOrder
	err := withVersionRetry(func() error {
		var err error
		wo, err = h.repo.FindByID(cmd.CompanyID, cmd.WorkOrderID)
		if err != nil {
			return err
		}

		if !domain.CanTransition(wo.Status, cmd.NewStatus) {
			return fmt.Errorf("%w: %s -> %s", errs.ErrInvalidTransition, wo.Status, cmd.NewStatus)
		}

		from := wo.Status
		applyTransitionSideEffects(wo, cmd.NewStatus, h.clock)
		wo.Status = cmd.NewStatus

		if err := h.repo.UpdateGuarded(wo, wo.Version); err != nil {
			return err
		}
		transitionsTotal.WithLabelValues(from, cmd.NewStatus).Inc()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Audit(ctx, cmd.ActorID).
		Uint("work_order_id", wo.ID).
		Str("status", wo.Status).
		Msg("Work order status updated")

	return wo, nil
}

// applyTransitionSideEffects stamps the timestamps and phase a status
// change implies.
func applyTransitionSideEffects(wo *domain.WorkOrder, newStatus string, clk clock.Clock) {
	now := clk.Now()
	switch newStatus {
	case domain.StatusInProgress:
		if wo.ActualStart == nil {
			wo.ActualStart = &now
		}
		if wo.Phase == domain.PhasePlanning {
			wo.Phase = domain.PhaseExecution
		}
	case domain.StatusCompleted:
		if wo.ActualEnd == nil {
			wo.ActualEnd = &now
		}
		wo.ProgressPercentage = 100
		wo.Phase = domain.PhaseClosure
	}
}
