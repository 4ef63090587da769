package command

import (
	"context"
	"fmt"

	"github.com/qiro-dev/facility-maintenance/internal/workorder/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/clock"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
)

// PauseWorkOrderHandler pauses an in-progress work order.
type PauseWorkOrderHandler struct {
	updateStatus *UpdateStatusHandler
}

func NewPauseWorkOrderHandler(repo domain.WorkOrderRepository, clk clock.Clock) *PauseWorkOrderHandler {
	return &PauseWorkOrderHandler{updateStatus: NewUpdateStatusHandler(repo, clk)}
}

// Handle pauses the work order. PAUSED is only reachable from
// IN_PROGRESS, so the transition table enforces the precondition.
func (h *PauseWorkOrderHandler) Handle(ctx context.Context, companyID, workOrderID, actorID uint) (*domain.WorkOrder, error) {
	return h.updateStatus.Handle(ctx, UpdateStatusCommand{
		CompanyID:   companyID,
		WorkOrderID: workOrderID,
		NewStatus:   domain.StatusPaused,
		ActorID:     actorID,
	})
}

// ResumeWorkOrderHandler resumes a paused work order.
type ResumeWorkOrderHandler struct {
	repo         domain.WorkOrderRepository
	updateStatus *UpdateStatusHandler
}

func NewResumeWorkOrderHandler(repo domain.WorkOrderRepository, clk clock.Clock) *ResumeWorkOrderHandler {
	return &ResumeWorkOrderHandler{
		repo:         repo,
		updateStatus: NewUpdateStatusHandler(repo, clk),
	}
}

// Handle resumes the work order; legal only from PAUSED. The explicit
// check is needed because IN_PROGRESS is also reachable from ASSIGNED.
func (h *ResumeWorkOrderHandler) Handle(ctx context.Context, companyID, workOrderID, actorID uint) (*domain.WorkOrder, error) {
	wo, err := h.repo.FindByID(companyID, workOrderID)
	if err != nil {
		return nil, err
	}
	if wo.Status != domain.StatusPaused {
		return nil, fmt.Errorf("%w: resume requires PAUSED, got %s", errs.ErrInvalidState, wo.Status)
	}

	return h.updateStatus.Handle(ctx, UpdateStatusCommand{
		CompanyID:   companyID,
		WorkOrderID: workOrderID,
		NewStatus:   domain.StatusInProgress,
		ActorID:     actorID,
	})
}
