package query

import (
	"context"
	"fmt"
	"time"

	"github.com/qiro-dev/facility-maintenance/internal/schedule/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/cache"
	"github.com/qiro-dev/facility-maintenance/pkg/clock"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
)

const calendarCacheTTL = 60 * time.Second

// CalendarViewQuery buckets schedules by date over a range
type CalendarViewQuery struct {
	CompanyID uint
	From      time.Time
	To        time.Time
}

// CalendarViewHandler handles the calendar view query
type CalendarViewHandler struct {
	repo  domain.ScheduleRepository
	cache *cache.Cache
	clock clock.Clock
}

// NewCalendarViewHandler creates a new calendar view handler
func NewCalendarViewHandler(repo domain.ScheduleRepository, c *cache.Cache, clk clock.Clock) *CalendarViewHandler {
	return &CalendarViewHandler{repo: repo, cache: c, clock: clk}
}

// Handle returns schedules bucketed by ISO date. Results are cached
// briefly; a stale OVERDUE flag within the TTL is acceptable.
func (h *CalendarViewHandler) Handle(ctx context.Context, q CalendarViewQuery) (map[string][]domain.CalendarItem, error) {
	if q.From.IsZero() || q.To.IsZero() {
		return nil, fmt.Errorf("%w: from and to dates are required", errs.ErrValidation)
	}
	if q.To.Before(q.From) {
		return nil, fmt.Errorf("%w: to date before from date", errs.ErrValidation)
	}

	key := fmt.Sprintf("schedule:calendar:%d:%s:%s",
		q.CompanyID, q.From.Format("2006-01-02"), q.To.Format("2006-01-02"))

	var view map[string][]domain.CalendarItem
	if h.cache.GetJSON(ctx, key, &view) {
		return view, nil
	}

	schedules, err := h.repo.InRange(q.CompanyID, q.From, q.To)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar range: %w", err)
	}

	now := h.clock.Now()
	view = make(map[string][]domain.CalendarItem)
	for i := range schedules {
		s := &schedules[i]
		day := s.ScheduledDate.Format("2006-01-02")
		view[day] = append(view[day], domain.CalendarItem{
			ID:         s.ID,
			Number:     s.Number,
			Title:      s.Title,
			AssetID:    s.AssetID,
			Status:     s.EffectiveStatus(now),
			Priority:   s.Priority,
			AssignedTo: s.AssignedTo,
		})
	}

	h.cache.SetJSON(ctx, key, view, calendarCacheTTL)
	return view, nil
}
