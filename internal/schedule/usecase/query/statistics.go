package query

import (
	"context"
	"fmt"
	"time"

	"github.com/qiro-dev/facility-maintenance/internal/schedule/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/cache"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
)

const statisticsCacheTTL = 60 * time.Second

// StatisticsQuery aggregates schedules over a range
type StatisticsQuery struct {
	CompanyID uint
	From      time.Time
	To        time.Time
}

// StatisticsHandler handles schedule statistics
type StatisticsHandler struct {
	repo  domain.ScheduleRepository
	cache *cache.Cache
}

// NewStatisticsHandler creates a new statistics handler
func NewStatisticsHandler(repo domain.ScheduleRepository, c *cache.Cache) *StatisticsHandler {
	return &StatisticsHandler{repo: repo, cache: c}
}

// Handle executes the statistics query with short-TTL caching.
func (h *StatisticsHandler) Handle(ctx context.Context, q StatisticsQuery) (*domain.ScheduleStatistics, error) {
	if q.From.IsZero() || q.To.IsZero() {
		return nil, fmt.Errorf("%w: from and to dates are required", errs.ErrValidation)
	}

	key := fmt.Sprintf("schedule:stats:%d:%s:%s",
		q.CompanyID, q.From.Format("2006-01-02"), q.To.Format("2006-01-02"))

	var stats domain.ScheduleStatistics
	if h.cache.GetJSON(ctx, key, &stats) {
		return &stats, nil
	}

	result, err := h.repo.Statistics(q.CompanyID, q.From, q.To)
	if err != nil {
		return nil, fmt.Errorf("failed to compute schedule statistics: %w", err)
	}

	h.cache.SetJSON(ctx, key, result, statisticsCacheTTL)
	return result, nil
}
