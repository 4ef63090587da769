package command

import (
	"context"

	"github.com/qiro-dev/facility-maintenance/internal/workorder/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/logger"
)

// BatchUpdateStatusCommand applies one status transition to many work orders
type BatchUpdateStatusCommand struct {
	CompanyID    uint
	WorkOrderIDs []uint
	NewStatus    string
	ActorID      uint
}

// BatchUpdateStatusHandler handles batch status transitions
type BatchUpdateStatusHandler struct {
	updateStatus *UpdateStatusHandler
}

// NewBatchUpdateStatusHandler creates a new batch update status handler
func NewBatchUpdateStatusHandler(updateStatus *UpdateStatusHandler) *BatchUpdateStatusHandler {
	return &BatchUpdateStatusHandler{updateStatus: updateStatus}
}

// Handle applies the transition item by item. Items are independent: a
// failed item is recorded and the rest proceed, so a batch can partially
// succeed.
func (h *BatchUpdateStatusHandler) Handle(ctx context.Context, cmd BatchUpdateStatusCommand) *domain.BatchResult {
	result := &domain.BatchResult{}
	for _, id := range cmd.WorkOrderIDs {
		_, err := h.updateStatus.Handle(ctx, UpdateStatusCommand{
			CompanyID:   cmd.CompanyID,
			WorkOrderID: id,
			NewStatus:   cmd.NewStatus,
			ActorID:     cmd.ActorID,
		})
		if err != nil {
			result.Failures = append(result.Failures, domain.BatchFailure{ID: id, Reason: err.Error()})
			continue
		}
		result.SuccessCount++
	}

	logger.Info(ctx).
		Int("total", len(cmd.WorkOrderIDs)).
		Int("succeeded", result.SuccessCount).
		Int("failed", len(result.Failures)).
		Str("status", cmd.NewStatus).
		Msg("Batch status update finished")

	return result
}

// BatchAssignCommand assigns one technician to many work orders
type BatchAssignCommand struct {
	CompanyID    uint
	WorkOrderIDs []uint
	WorkerID     uint
	AssignerID   uint
	Team         string
}

// BatchAssignHandler handles batch assignment
type BatchAssignHandler struct {
	assign *AssignWorkerHandler
}

// NewBatchAssignHandler creates a new batch assign handler
func NewBatchAssignHandler(assign *AssignWorkerHandler) *BatchAssignHandler {
	return &BatchAssignHandler{assign: assign}
}

// Handle assigns each work order independently; conflicts or illegal
// states fail only their own item.
func (h *BatchAssignHandler) Handle(ctx context.Context, cmd BatchAssignCommand) *domain.BatchResult {
	result := &domain.BatchResult{}
	for _, id := range cmd.WorkOrderIDs {
		_, err := h.assign.Handle(ctx, AssignWorkerCommand{
			CompanyID:   cmd.CompanyID,
			WorkOrderID: id,
			WorkerID:    cmd.WorkerID,
			AssignerID:  cmd.AssignerID,
			Team:        cmd.Team,
		})
		if err != nil {
			result.Failures = append(result.Failures, domain.BatchFailure{ID: id, Reason: err.Error()})
			continue
		}
		result.SuccessCount++
	}

	logger.Info(ctx).
		Int("total", len(cmd.WorkOrderIDs)).
		Int("succeeded", result.SuccessCount).
		Int("failed", len(result.Failures)).
		Uint("worker_id", cmd.WorkerID).
		Msg("Batch assignment finished")

	return result
}
