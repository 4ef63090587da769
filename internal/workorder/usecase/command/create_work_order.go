package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/qiro-dev/facility-maintenance/internal/directory"
	"github.com/qiro-dev/facility-maintenance/internal/workorder/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
)

// CreateWorkOrderCommand represents the command to create a work order
type CreateWorkOrderCommand struct {
	CompanyID     uint
	Title         string
	Description   string
	Category      string
	WorkType      string
	Priority      string
	Urgency       string
	AssetID       uint
	Location      string
	Resource      string
	ScheduleID    *uint
	FaultReportID *uint
	RequestedBy   uint

	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	EstimatedCost  decimal.Decimal
}

// CreateWorkOrderHandler handles create work order command
type CreateWorkOrderHandler struct {
	repo   domain.WorkOrderRepository
	assets directory.AssetDirectory
}

// NewCreateWorkOrderHandler creates a new create work order handler
func NewCreateWorkOrderHandler(repo domain.WorkOrderRepository, assets directory.AssetDirectory) *CreateWorkOrderHandler {
	return &CreateWorkOrderHandler{repo: repo, assets: assets}
}

// Handle executes the create work order command. The work order starts
// PENDING with approval PENDING.
func (h *CreateWorkOrderHandler) Handle(ctx context.Context, cmd CreateWorkOrderCommand) (*domain.WorkOrder, error) {
	if cmd.CompanyID == 0 {
		return nil, fmt.Errorf("%w: company_id is required", errs.ErrValidation)
	}
	if strings.TrimSpace(cmd.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", errs.ErrValidation)
	}
	if cmd.RequestedBy == 0 {
		return nil, fmt.Errorf("%w: requested_by is required", errs.ErrValidation)
	}
	if cmd.AssetID == 0 && cmd.Location == "" {
		return nil, fmt.Errorf("%w: asset or location is required", errs.ErrValidation)
	}
	if cmd.EstimatedCost.IsNegative() {
		return nil, fmt.Errorf("%w: estimated cost cannot be negative", errs.ErrValidation)
	}
	if cmd.ScheduledStart != nil && cmd.ScheduledEnd != nil && !cmd.ScheduledEnd.After(*cmd.ScheduledStart) {
		return nil, fmt.Errorf("%w: scheduled end must be after start", errs.ErrValidation)
	}

	if cmd.Priority == "" {
		cmd.Priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(cmd.Priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", errs.ErrValidation, cmd.Priority)
	}
	if cmd.Urgency == "" {
		cmd.Urgency = domain.UrgencyNormal
	}
	if cmd.Category == "" {
		cmd.Category = domain.CategoryCorrective
	}

	location := cmd.Location
	if cmd.AssetID != 0 {
		asset, err := h.assets.Get(ctx, cmd.CompanyID, cmd.AssetID)
		if err != nil {
			return nil, err
		}
		if location == "" {
			location = asset.Location
		}
	}

	wo := &domain.WorkOrder{
		CompanyID:      cmd.CompanyID,
		Number:         fmt.Sprintf("WO-%s", uuid.New().String()[:8]),
		Title:          strings.TrimSpace(cmd.Title),
		Description:    cmd.Description,
		Category:       cmd.Category,
		WorkType:       cmd.WorkType,
		Priority:       cmd.Priority,
		Urgency:        cmd.Urgency,
		Status:         domain.StatusPending,
		ApprovalStatus: domain.ApprovalPending,
		Phase:          domain.PhasePlanning,
		AssetID:        cmd.AssetID,
		Location:       location,
		Resource:       cmd.Resource,
		ScheduleID:     cmd.ScheduleID,
		FaultReportID:  cmd.FaultReportID,
		RequestedBy:    cmd.RequestedBy,
		ScheduledStart: cmd.ScheduledStart,
		ScheduledEnd:   cmd.ScheduledEnd,
		EstimatedCost:  cmd.EstimatedCost,
		Version:        1,
	}

	if err := h.repo.Create(wo); err != nil {
		return nil, fmt.Errorf("failed to create work order: %w", err)
	}

	return wo, nil
}
