package command

import (
	"context"
	"fmt"
	"time"

	"github.com/qiro-dev/facility-maintenance/internal/conflict"
	"github.com/qiro-dev/facility-maintenance/internal/schedule/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
	"github.com/qiro-dev/facility-maintenance/pkg/logger"
)

// RescheduleCommand moves a schedule to a new date in place
type RescheduleCommand struct {
	CompanyID  uint
	ScheduleID uint
	NewDate    time.Time
	StartTime  *time.Time
	EndTime    *time.Time
	Reason     string
	ActorID    uint
}

// RescheduleResult carries the moved schedule plus advisory conflict
// warnings for the new date.
type RescheduleResult struct {
	Schedule *domain.MaintenanceSchedule `json:"schedule"`
	Warnings []conflict.Conflict         `json:"warnings,omitempty"`
}

// RescheduleHandler handles reschedules
type RescheduleHandler struct {
	repo     domain.ScheduleRepository
	detector *conflict.Detector
}

// NewRescheduleHandler creates a new reschedule handler
func NewRescheduleHandler(repo domain.ScheduleRepository, detector *conflict.Detector) *RescheduleHandler {
	return &RescheduleHandler{repo: repo, detector: detector}
}

// Handle mutates the schedule's date in place and flags, without
// blocking, any conflicts at the new date. No new row is created.
func (h *RescheduleHandler) Handle(ctx context.Context, cmd RescheduleCommand) (*RescheduleResult, error) {
	if cmd.NewDate.IsZero() {
		return nil, fmt.Errorf("%w: new date is required", errs.ErrValidation)
	}
	if cmd.Reason == "" {
		return nil, fmt.Errorf("%w: reschedule reason is required", errs.ErrValidation)
	}

	s, err := h.repo.FindByID(cmd.CompanyID, cmd.ScheduleID)
	if err != nil {
		return nil, err
	}
	if s.Status == domain.StatusCancelled || s.Status == domain.StatusCompleted {
		return nil, fmt.Errorf("%w: cannot reschedule a %s schedule", errs.ErrInvalidState, s.Status)
	}

	s.ScheduledDate = truncateDay(cmd.NewDate)
	s.StartTime = cmd.StartTime
	s.EndTime = cmd.EndTime
	s.Status = domain.StatusRescheduled
	s.RescheduleReason = cmd.Reason

	if err := h.repo.UpdateGuarded(s, s.Version); err != nil {
		return nil, err
	}

	warnings, err := h.checkNewDate(ctx, cmd.CompanyID, s)
	if err != nil {
		logger.Warn(ctx).Err(err).Uint("schedule_id", s.ID).Msg("Conflict check failed after reschedule")
		warnings = nil
	}

	logger.Audit(ctx, cmd.ActorID).
		Uint("schedule_id", s.ID).
		Time("new_date", s.ScheduledDate).
		Int("warnings", len(warnings)).
		Msg("Schedule rescheduled")

	return &RescheduleResult{Schedule: s, Warnings: warnings}, nil
}

func (h *RescheduleHandler) checkNewDate(ctx context.Context, companyID uint, s *domain.MaintenanceSchedule) ([]conflict.Conflict, error) {
	start, end := s.Window()
	var technicianID uint
	if s.AssignedTo != nil {
		technicianID = *s.AssignedTo
	}

	return h.detector.FindConflicts(ctx, companyID, conflict.Request{
		AssetID:      s.AssetID,
		TechnicianID: technicianID,
		Priority:     s.Priority,
		Window:       conflict.Window{Start: start, End: end},
		ExcludeKind:  "maintenance_schedule",
		ExcludeID:    s.ID,
	})
}
