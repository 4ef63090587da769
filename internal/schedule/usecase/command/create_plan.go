package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/qiro-dev/facility-maintenance/internal/schedule/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
)

// CreatePlanCommand represents the command to create a maintenance plan
type CreatePlanCommand struct {
	CompanyID              uint
	Name                   string
	Description            string
	AssetID                uint
	Frequency              string
	IntervalValue          int
	Priority               string
	EstimatedDurationHours decimal.Decimal
	TaskList               string
	StartDate              time.Time
	EndDate                *time.Time
}

// CreatePlanHandler handles plan creation
type CreatePlanHandler struct {
	repo domain.PlanRepository
}

// NewCreatePlanHandler creates a new create plan handler
func NewCreatePlanHandler(repo domain.PlanRepository) *CreatePlanHandler {
	return &CreatePlanHandler{repo: repo}
}

// Handle creates an active recurrence template.
func (h *CreatePlanHandler) Handle(ctx context.Context, cmd CreatePlanCommand) (*domain.MaintenancePlan, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", errs.ErrValidation)
	}
	if cmd.AssetID == 0 {
		return nil, fmt.Errorf("%w: asset_id is required", errs.ErrValidation)
	}
	if !domain.ValidFrequency(cmd.Frequency) {
		return nil, fmt.Errorf("%w: unknown frequency %q", errs.ErrValidation, cmd.Frequency)
	}
	if cmd.IntervalValue < 1 {
		cmd.IntervalValue = 1
	}
	if cmd.Priority == "" {
		cmd.Priority = "MEDIUM"
	}
	if !domain.ValidPriority(cmd.Priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", errs.ErrValidation, cmd.Priority)
	}
	if cmd.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: start date is required", errs.ErrValidation)
	}
	if cmd.EndDate != nil && cmd.EndDate.Before(cmd.StartDate) {
		return nil, fmt.Errorf("%w: end date before start date", errs.ErrValidation)
	}

	plan := &domain.MaintenancePlan{
		CompanyID:              cmd.CompanyID,
		Name:                   strings.TrimSpace(cmd.Name),
		Description:            cmd.Description,
		AssetID:                cmd.AssetID,
		Frequency:              cmd.Frequency,
		IntervalValue:          cmd.IntervalValue,
		Priority:               cmd.Priority,
		EstimatedDurationHours: cmd.EstimatedDurationHours,
		TaskList:               cmd.TaskList,
		StartDate:              truncateDay(cmd.StartDate),
		EndDate:                cmd.EndDate,
		IsActive:               true,
	}

	if err := h.repo.Create(plan); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	return plan, nil
}
