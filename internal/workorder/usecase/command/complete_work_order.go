package command

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/qiro-dev/facility-maintenance/internal/workorder/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/clock"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
	"github.com/qiro-dev/facility-maintenance/pkg/logger"
)

// CompleteWorkOrderCommand represents the command to complete a work order
type CompleteWorkOrderCommand struct {
	CompanyID       uint
	WorkOrderID     uint
	ActorID         uint
	CompletionNotes string
	QualityRating   *int // 1..5
	ActualCost      *decimal.Decimal
}

// CompleteWorkOrderHandler handles completion
type CompleteWorkOrderHandler struct {
	repo     domain.WorkOrderRepository
	notifier domain.Notifier
	clock    clock.Clock
}

// NewCompleteWorkOrderHandler creates a new complete work order handler
func NewCompleteWorkOrderHandler(repo domain.WorkOrderRepository, notifier domain.Notifier, clk clock.Clock) *CompleteWorkOrderHandler {
	return &CompleteWorkOrderHandler{repo: repo, notifier: notifier, clock: clk}
}

// Handle completes an in-progress work order, stamping the actual end
// time and computing the actual duration in hours.
func (h *CompleteWorkOrderHandler) Handle(ctx context.Context, cmd CompleteWorkOrderCommand) (*domain.WorkOrder, error) {
	if cmd.QualityRating != nil && (*cmd.QualityRating < 1 || *cmd.QualityRating > 5) {
		return nil, fmt.Errorf("%w: quality rating must be within [1,5]", errs.ErrValidation)
	}
	if cmd.ActualCost != nil && cmd.ActualCost.IsNegative() {
		return nil, fmt.Errorf("%w: actual cost cannot be negative", errs.ErrValidation)
	}

	var wo *domain.WorkOrder
	err := withVersionRetry(func() error {
		var err error
		wo, err = h.repo.FindByID(cmd.CompanyID, cmd.WorkOrderID)
		if err != nil {
			return err
		}

		if wo.Status != domain.StatusInProgress {
			return fmt.Errorf("%w: %s -> %s", errs.ErrInvalidTransition, wo.Status, domain.StatusCompleted)
		}

		from := wo.Status
		now := h.clock.Now()
		wo.Status = domain.StatusCompleted
		wo.Phase = domain.PhaseClosure
		wo.ProgressPercentage = 100
		wo.ActualEnd = &now
		wo.CompletionNotes = cmd.CompletionNotes
		wo.QualityRating = cmd.QualityRating
		if cmd.ActualCost != nil {
			wo.ActualCost = *cmd.ActualCost
		}
		if wo.ActualStart != nil {
			hours := now.Sub(*wo.ActualStart).Hours()
			wo.ActualDurationHours = decimal.NewFromFloat(hours).Round(2)
		}

		if err := h.repo.UpdateGuarded(wo, wo.Version); err != nil {
			return err
		}
		transitionsTotal.WithLabelValues(from, domain.StatusCompleted).Inc()
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.notifier.WorkOrderCompleted(ctx, wo)

	logger.Audit(ctx, cmd.ActorID).
		Uint("work_order_id", wo.ID).
		Str("duration_hours", wo.ActualDurationHours.String()).
		Msg("Work order completed")

	return wo, nil
}
