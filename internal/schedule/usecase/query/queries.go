package query

import (
	"fmt"

	"github.com/qiro-dev/facility-maintenance/internal/schedule/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/clock"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
)

// GetScheduleQuery fetches one schedule
type GetScheduleQuery struct {
	CompanyID  uint
	ScheduleID uint
}

// GetScheduleHandler handles get schedule query
type GetScheduleHandler struct {
	repo  domain.ScheduleRepository
	clock clock.Clock
}

// NewGetScheduleHandler creates a new get schedule handler
func NewGetScheduleHandler(repo domain.ScheduleRepository, clk clock.Clock) *GetScheduleHandler {
	return &GetScheduleHandler{repo: repo, clock: clk}
}

// Handle returns the schedule with its read-time status applied.
func (h *GetScheduleHandler) Handle(q GetScheduleQuery) (*domain.MaintenanceSchedule, error) {
	if q.ScheduleID == 0 {
		return nil, fmt.Errorf("%w: invalid schedule id", errs.ErrValidation)
	}

	s, err := h.repo.FindByID(q.CompanyID, q.ScheduleID)
	if err != nil {
		return nil, err
	}

	s.Status = s.EffectiveStatus(h.clock.Now())
	return s, nil
}

// ListSchedulesQuery searches schedules
type ListSchedulesQuery struct {
	CompanyID uint
	Filter    domain.ScheduleFilter
}

// ListSchedulesHandler handles list schedules query
type ListSchedulesHandler struct {
	repo  domain.ScheduleRepository
	clock clock.Clock
}

// NewListSchedulesHandler creates a new list schedules handler
func NewListSchedulesHandler(repo domain.ScheduleRepository, clk clock.Clock) *ListSchedulesHandler {
	return &ListSchedulesHandler{repo: repo, clock: clk}
}

// Handle lists schedules with read-time statuses. Filtering by OVERDUE
// is applied after derivation since the stored status stays SCHEDULED.
func (h *ListSchedulesHandler) Handle(q ListSchedulesQuery) ([]domain.MaintenanceSchedule, error) {
	filter := q.Filter
	wantOverdue := filter.Status == domain.StatusOverdue
	if wantOverdue {
		filter.Status = ""
	}

	schedules, err := h.repo.Search(q.CompanyID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	now := h.clock.Now()
	out := schedules[:0]
	for i := range schedules {
		schedules[i].Status = schedules[i].EffectiveStatus(now)
		if wantOverdue && schedules[i].Status != domain.StatusOverdue {
			continue
		}
		out = append(out, schedules[i])
	}
	return out, nil
}
