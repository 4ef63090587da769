package query

import (
	"fmt"

	"github.com/qiro-dev/facility-maintenance/internal/workorder/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
)

// GetWorkOrderQuery represents the query to get a work order by ID
type GetWorkOrderQuery struct {
	CompanyID   uint
	WorkOrderID uint
}

// GetWorkOrderHandler handles get work order query
type GetWorkOrderHandler struct {
	repo domain.WorkOrderRepository
}

// NewGetWorkOrderHandler creates a new get work order handler
func NewGetWorkOrderHandler(repo domain.WorkOrderRepository) *GetWorkOrderHandler {
	return &GetWorkOrderHandler{repo: repo}
}

// Handle executes the get work order query
func (h *GetWorkOrderHandler) Handle(q GetWorkOrderQuery) (*domain.WorkOrder, error) {
	if q.WorkOrderID == 0 {
		return nil, fmt.Errorf("%w: invalid work order id", errs.ErrValidation)
	}

	return h.repo.FindByID(q.CompanyID, q.WorkOrderID)
}
