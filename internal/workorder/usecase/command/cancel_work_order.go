package command

import (
	"context"
	"fmt"

	"github.com/qiro-dev/facility-maintenance/internal/workorder/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
	"github.com/qiro-dev/facility-maintenance/pkg/logger"
)

// CancelWorkOrderCommand represents the command to cancel a work order
type CancelWorkOrderCommand struct {
	CompanyID   uint
	WorkOrderID uint
	ActorID     uint
	Reason      string
}

// CancelWorkOrderHandler handles cancellation
type CancelWorkOrderHandler struct {
	repo domain.WorkOrderRepository
}

// NewCancelWorkOrderHandler creates a new cancel work order handler
func NewCancelWorkOrderHandler(repo domain.WorkOrderRepository) *CancelWorkOrderHandler {
	return &CancelWorkOrderHandler{repo: repo}
}

// Handle cancels a work order. Cancellation is legal from every
// non-terminal status except COMPLETED. Inventory already deducted for
// the work order is not reversed automatically; reversals are issued
// separately against the deduction ledger.
func (h *CancelWorkOrderHandler) Handle(ctx context.Context, cmd CancelWorkOrderCommand) (*domain.WorkOrder, error) {
	if cmd.Reason == "" {
		return nil, fmt.Errorf("%w: cancel reason is required", errs.ErrValidation)
	}

	var wo *domain.WorkOrder
	err := withVersionRetry(func() error {
		var err error
		wo, err = h.repo.FindByID(cmd.CompanyID, cmd.WorkOrderID)
		if err != nil {
			return err
		}

		if !domain.IsCancellable(wo.Status) {
			return fmt.Errorf("%w: %s -> %s", errs.ErrInvalidTransition, wo.Status, domain.StatusCancelled)
		}

		from := wo.Status
		wo.Status = domain.StatusCancelled
		wo.CancelReason = cmd.Reason

		if err := h.repo.UpdateGuarded(wo, wo.Version); err != nil {
			return err
		}
		transitionsTotal.WithLabelValues(from, domain.StatusCancelled).Inc()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Audit(ctx, cmd.ActorID).
		Uint("work_order_id", wo.ID).
		Str("reason", cmd.Reason).
		Msg("Work order cancelled")

	return wo, nil
}
