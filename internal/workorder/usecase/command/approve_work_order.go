package command

import (
	"context"
	"fmt"

	"github.com/qiro-dev/facility-maintenance/internal/workorder/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
	"github.com/qiro-dev/facility-maintenance/pkg/logger"
)

// ApproveWorkOrderCommand represents the command to approve a work order
type ApproveWorkOrderCommand struct {
	CompanyID   uint
	WorkOrderID uint
	ApproverID  uint
	Notes       string
}

// ApproveWorkOrderHandler handles approve work order command
type ApproveWorkOrderHandler struct {
	repo domain.WorkOrderRepository
}

// NewApproveWorkOrderHandler creates a new approve work order handler
func NewApproveWorkOrderHandler(repo domain.WorkOrderRepository) *ApproveWorkOrderHandler {
	return &ApproveWorkOrderHandler{repo: repo}
}

// Handle approves a pending work order. Approval is single-use: a work
// order whose approval has been decided fails with ErrAlreadyProcessed.
// The status stays PENDING until assignment.
func (h *ApproveWorkOrderHandler) Handle(ctx context.Context, cmd ApproveWorkOrderCommand) (*domain.WorkOrder, error) {
	if cmd.ApproverID == 0 {
		return nil, fmt.Errorf("%w: approver_id is required", errs.ErrValidation)
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

		wo.ApprovalStatus = domain.ApprovalApproved
		wo.ApprovedBy = &cmd.ApproverID
		wo.ApprovalNotes = cmd.Notes
		wo.ApprovedCost = wo.EstimatedCost

		return h.repo.UpdateGuarded(wo, wo.Version)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("work_order_id", wo.ID).
		Uint("approver_id", cmd.ApproverID).
		Msg("Work order approved")

	return wo, nil
}
