package query

import (
	"fmt"

	"github.com/qiro-dev/facility-maintenance/internal/workorder/domain"
)

// ListWorkOrdersQuery represents the query to search work orders
type ListWorkOrdersQuery struct {
	CompanyID uint
	Filter    domain.SearchFilter
}

// ListWorkOrdersHandler handles list work orders query
type ListWorkOrdersHandler struct {
	repo domain.WorkOrderRepository
}

// NewListWorkOrdersHandler creates a new list work orders handler
func NewListWorkOrdersHandler(repo domain.WorkOrderRepository) *ListWorkOrdersHandler {
	return &ListWorkOrdersHandler{repo: repo}
}

// Handle executes the list work orders query
func (h *ListWorkOrdersHandler) Handle(q ListWorkOrdersQuery) ([]domain.WorkOrder, error) {
	orders, err := h.repo.Search(q.CompanyID, q.Filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}

	return orders, nil
}
