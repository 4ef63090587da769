package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/qiro-dev/facility-maintenance/internal/workorder/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
	"github.com/qiro-dev/facility-maintenance/pkg/logger"
)

// RejectWorkOrderCommand represents the command to reject a work order
type RejectWorkOrderCommand struct {
	CompanyID   uint
	WorkOrderID uint
	ApproverID  uint
	Reason      string
}

// RejectWorkOrderHandler handles reject work order command
type RejectWorkOrderHandler struct {
	repo domain.WorkOrderRepository
}

// NewRejectWorkOrderHandler creates a new reject work order handler
func NewRejectWorkOrderHandler(repo domain.WorkOrderRepository) *RejectWorkOrderHandler {
	return &RejectWorkOrderHandler{repo: repo}
}

// Handle rejects a pending work order. Rejection is terminal for the
// approval flow and forces the status to REJECTED.
func (h *RejectWorkOrderHandler) Handle(ctx context.Context, cmd RejectWorkOrderCommand) (*domain.WorkOrder, error) {
	if cmd.ApproverID == 0 {
		return nil, fmt.Errorf("%w: approver_id is required", errs.ErrValidation)
	}
	if strings.TrimSpace(cmd.Reason) == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", errs.ErrValidation)
	}

	var wo *domain.WorkOrder
	err := withVersionRetry(func() error {
		var err error
		wo, err = h.repo.FindByID(cmd.CompanyID, cmd.WorkOrderID)
		if err != nil {
			return err
		}

		if wo.ApprovalStatus != domain.ApprovalPending {
			return fmt.Errorf("%w: approval is %s", errs.ErrAlreadyProcessed, wo.ApprovalStatus)
		}
		if !domain.CanTransition(wo.Status, domain.StatusRejected) {
			return fmt.Errorf("%w: %s -> %s", errs.ErrInvalidTransition, wo.Status, domain.StatusRejected)
		}

		from := wo.Status
		wo.ApprovalStatus = domain.ApprovalRejected
		wo.ApprovedBy = &cmd.ApproverID
		wo.RejectionReason = cmd.Reason
		wo.Status = domain.StatusRejected

		if err := h.repo.UpdateGuarded(wo, wo.Version); err != nil {
			return err
		}
		transitionsTotal.WithLabelValues(from, domain.StatusRejected).Inc()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("work_order_id", wo.ID).
		Uint("approver_id", cmd.ApproverID).
		Str("reason", cmd.Reason).
		Msg("Work order rejected")

	return wo, nil
}
