package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/qiro-dev/facility-maintenance/internal/schedule/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
)

// CreateScheduleCommand represents a manually created schedule
type CreateScheduleCommand struct {
	CompanyID              uint
	AssetID                uint
	Title                  string
	ScheduledDate          time.Time
	StartTime              *time.Time
	EndTime                *time.Time
	Priority               string
	AssignedTo             *uint
	EstimatedDurationHours decimal.Decimal
	Notes                  string
}

// CreateScheduleHandler handles manual schedule creation
type CreateScheduleHandler struct {
	repo domain.ScheduleRepository
}

// NewCreateScheduleHandler creates a new create schedule handler
func NewCreateScheduleHandler(repo domain.ScheduleRepository) *CreateScheduleHandler {
	return &CreateScheduleHandler{repo: repo}
}

// Handle creates an ad-hoc schedule not tied to a plan.
func (h *CreateScheduleHandler) Handle(ctx context.Context, cmd CreateScheduleCommand) (*domain.MaintenanceSchedule, error) {
	if cmd.AssetID == 0 {
		return nil, fmt.Errorf("%w: asset_id is required", errs.ErrValidation)
	}
	if strings.TrimSpace(cmd.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", errs.ErrValidation)
	}
	if cmd.ScheduledDate.IsZero() {
		return nil, fmt.Errorf("%w: scheduled date is required", errs.ErrValidation)
	}
	if cmd.StartTime != nil && cmd.EndTime != nil && !cmd.EndTime.After(*cmd.StartTime) {
		return nil, fmt.Errorf("%w: end time must be after start time", errs.ErrValidation)
	}
	if cmd.Priority == "" {
		cmd.Priority = "MEDIUM"
	}
	if !domain.ValidPriority(cmd.Priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", errs.ErrValidation, cmd.Priority)
	}

	s := &domain.MaintenanceSchedule{
		CompanyID:              cmd.CompanyID,
		Number:                 fmt.Sprintf("MS-%s", uuid.New().String()[:8]),
		AssetID:                cmd.AssetID,
		Title:                  strings.TrimSpace(cmd.Title),
		ScheduledDate:          truncateDay(cmd.ScheduledDate),
		StartTime:              cmd.StartTime,
		EndTime:                cmd.EndTime,
		Status:                 domain.StatusScheduled,
		Priority:               cmd.Priority,
		AssignedTo:             cmd.AssignedTo,
		EstimatedDurationHours: cmd.EstimatedDurationHours,
		Notes:                  cmd.Notes,
		Version:                1,
	}

	if err := h.repo.Create(s); err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}

	return s, nil
}
