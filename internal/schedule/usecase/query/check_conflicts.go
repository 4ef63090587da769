package query

import (
	"context"
	"fmt"
	"time"

	"github.com/qiro-dev/facility-maintenance/internal/conflict"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
)

// CheckConflictsQuery probes a proposed schedule slot
type CheckConflictsQuery struct {
	CompanyID         uint
	AssetID           uint
	ScheduledDate     time.Time
	StartTime         *time.Time
	EndTime           *time.Time
	AssignedTo        uint
	Priority          string
	ExcludeScheduleID uint
}

// CheckConflictsHandler handles the conflict probe
type CheckConflictsHandler struct {
	detector *conflict.Detector
}

// NewCheckConflictsHandler creates a new check conflicts handler
func NewCheckConflictsHandler(detector *conflict.Detector) *CheckConflictsHandler {
	return &CheckConflictsHandler{detector: detector}
}

// Handle delegates to the detector. Without explicit times the probe
// reserves the whole day.
func (h *CheckConflictsHandler) Handle(ctx context.Context, q CheckConflictsQuery) ([]conflict.Conflict, error) {
	if q.AssetID == 0 {
		return nil, fmt.Errorf("%w: asset_id is required", errs.ErrValidation)
	}
	if q.ScheduledDate.IsZero() {
		return nil, fmt.Errorf("%w: scheduled date is required", errs.ErrValidation)
	}

	var window conflict.Window
	if q.StartTime != nil && q.EndTime != nil {
		window = conflict.Window{Start: *q.StartTime, End: *q.EndTime}
	} else {
		d := q.ScheduledDate
		dayStart := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
		window = conflict.Window{Start: dayStart, End: dayStart.AddDate(0, 0, 1)}
	}

	priority := q.Priority
	if priority == "" {
		priority = "MEDIUM"
	}

	return h.detector.FindConflicts(ctx, q.CompanyID, conflict.Request{
		AssetID:      q.AssetID,
		TechnicianID: q.AssignedTo,
		Priority:     priority,
		Window:       window,
		ExcludeKind:  "maintenance_schedule",
		ExcludeID:    q.ExcludeScheduleID,
	})
}
