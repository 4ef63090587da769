package query

import (
	"fmt"

	"github.com/qiro-dev/facility-maintenance/internal/workorder/domain"
)

// GetStatisticsQuery represents the query to aggregate work orders
type GetStatisticsQuery struct {
	CompanyID uint
}

// GetStatisticsHandler handles statistics query
type GetStatisticsHandler struct {
	repo domain.WorkOrderRepository
}

// NewGetStatisticsHandler creates a new statistics handler
func NewGetStatisticsHandler(repo domain.WorkOrderRepository) *GetStatisticsHandler {
	return &GetStatisticsHandler{repo: repo}
}

// Handle executes the statistics query
func (h *GetStatisticsHandler) Handle(q GetStatisticsQuery) (*domain.Statistics, error) {
	stats, err := h.repo.Statistics(q.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute work order statistics: %w", err)
	}

	return stats, nil
}
