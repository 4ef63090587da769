package command

import (
	"context"
	"fmt"

	"github.com/qiro-dev/facility-maintenance/internal/conflict"
	"github.com/qiro-dev/facility-maintenance/internal/directory"
	"github.com/qiro-dev/facility-maintenance/internal/workorder/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/clock"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
	"github.com/qiro-dev/facility-maintenance/pkg/logger"
)

// AssignWorkerCommand represents the command to assign a technician
type AssignWorkerCommand struct {
	CompanyID   uint
	WorkOrderID uint
	WorkerID    uint
	AssignerID  uint
	Team        string
}

// AssignWorkerResult carries the assigned work order plus advisory
// conflict warnings that did not block the assignment.
type AssignWorkerResult struct {
	WorkOrder *domain.WorkOrder   `json:"work_order"`
	Warnings  []conflict.Conflict `json:"warnings,omitempty"`
}

// AssignWorkerHandler handles worker assignment
type AssignWorkerHandler struct {
	repo     domain.WorkOrderRepository
	users    directory.UserDirectory
	assets   directory.AssetDirectory
	detector *conflict.Detector
	notifier domain.Notifier
	clock    clock.Clock
}

// NewAssignWorkerHandler creates a new assign worker handler
func NewAssignWorkerHandler(
	repo domain.WorkOrderRepository,
	users directory.UserDirectory,
	assets directory.AssetDirectory,
	detector *conflict.Detector,
	notifier domain.Notifier,
	clk clock.Clock,
) *AssignWorkerHandler {
	return &AssignWorkerHandler{
		repo:     repo,
		users:    users,
		assets:   assets,
		detector: detector,
		notifier: notifier,
		clock:    clk,
	}
}

// Handle assigns a technician to an unassigned work order. The conflict
// check runs inside the version-guarded write loop so a conflict found
// at check time cannot be bypassed by a concurrent assignment: a lost
// race re-reads and re-checks. Only CRITICAL conflicts block; everything
// else is returned as warnings.
func (h *AssignWorkerHandler) Handle(ctx context.Context, cmd AssignWorkerCommand) (*AssignWorkerResult, error) {
	if cmd.WorkerID == 0 {
		return nil, fmt.Errorf("%w: worker_id is required", errs.ErrValidation)
	}

	if _, err := h.users.Get(ctx, cmd.CompanyID, cmd.WorkerID); err != nil {
		return nil, err
	}

	var wo *domain.WorkOrder
	var warnings []conflict.Conflict
	err := withVersionRetry(func() error {
		var err error
		wo, err = h.repo.FindByID(cmd.CompanyID, cmd.WorkOrderID)
		if err != nil {
			return err
		}

		if wo.AssignedTo != nil {
			return fmt.Errorf("%w: work order %d assigned to %d", errs.ErrAlreadyAssigned, wo.ID, *wo.AssignedTo)
		}
		if wo.Status != domain.StatusPending && wo.Status != domain.StatusApproved {
			return fmt.Errorf("%w: %s -> %s", errs.ErrInvalidTransition, wo.Status, domain.StatusAssigned)
		}

		warnings, err = h.checkConflicts(ctx, cmd, wo)
		if err != nil {
			return err
		}
		if conflict.HasCritical(warnings) {
			return fmt.Errorf("%w: technician %d cannot take work order %d", errs.ErrSchedulingConflict, cmd.WorkerID, wo.ID)
		}

		from := wo.Status
		now := h.clock.Now()
		wo.AssignedTo = &cmd.WorkerID
		wo.AssignedTeam = cmd.Team
		wo.AssignedAt = &now
		wo.Status = domain.StatusAssigned

		if err := h.repo.UpdateGuarded(wo, wo.Version); err != nil {
			return err
		}
		transitionsTotal.WithLabelValues(from, domain.StatusAssigned).Inc()
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Fire-and-forget; dispatch failures never fail the assignment.
	h.notifier.WorkOrderAssigned(ctx, wo)

	logger.Info(ctx).
		Uint("work_order_id", wo.ID).
		Uint("worker_id", cmd.WorkerID).
		Uint("assigner_id", cmd.AssignerID).
		Int("warnings", len(warnings)).
		Msg("Work order assigned")

	return &AssignWorkerResult{WorkOrder: wo, Warnings: warnings}, nil
}

func (h *AssignWorkerHandler) checkConflicts(ctx context.Context, cmd AssignWorkerCommand, wo *domain.WorkOrder) ([]conflict.Conflict, error) {
	if wo.ScheduledStart == nil || wo.ScheduledEnd == nil {
		return nil, nil
	}

	safetyTagged := false
	if wo.AssetID != 0 {
		asset, err := h.assets.Get(ctx, cmd.CompanyID, wo.AssetID)
		if err == nil {
			safetyTagged = asset.SafetyTagged
		}
	}

	return h.detector.FindConflicts(ctx, cmd.CompanyID, conflict.Request{
		AssetID:      wo.AssetID,
		TechnicianID: cmd.WorkerID,
		Priority:     wo.Priority,
		Urgency:      wo.Urgency,
		Resource:     wo.Resource,
		SafetyTagged: safetyTagged,
		Window:       conflict.Window{Start: *wo.ScheduledStart, End: *wo.ScheduledEnd},
		ExcludeKind:  "work_order",
		ExcludeID:    wo.ID,
	})
}
