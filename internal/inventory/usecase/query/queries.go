package query

import (
	"fmt"

	"github.com/qiro-dev/facility-maintenance/internal/inventory/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
)

// GetByWorkOrderQuery lists ledger entries for one work order
type GetByWorkOrderQuery struct {
	CompanyID   uint
	WorkOrderID uint
}

// GetByWorkOrderHandler handles the work-order ledger query
type GetByWorkOrderHandler struct {
	repo domain.LedgerRepository
}

// NewGetByWorkOrderHandler creates a new handler
func NewGetByWorkOrderHandler(repo domain.LedgerRepository) *GetByWorkOrderHandler {
	return &GetByWorkOrderHandler{repo: repo}
}

// Handle executes the query
func (h *GetByWorkOrderHandler) Handle(q GetByWorkOrderQuery) ([]domain.DeductionLog, error) {
	if q.WorkOrderID == 0 {
		return nil, fmt.Errorf("%w: invalid work order id", errs.ErrValidation)
	}
	return h.repo.LogsByWorkOrder(q.CompanyID, q.WorkOrderID)
}

// GetByMaterialQuery lists ledger entries for one material
type GetByMaterialQuery struct {
	CompanyID  uint
	MaterialID uint
	Limit      int
	Offset     int
}

// GetByMaterialHandler handles the material ledger query
type GetByMaterialHandler struct {
	repo domain.LedgerRepository
}

// NewGetByMaterialHandler creates a new handler
func NewGetByMaterialHandler(repo domain.LedgerRepository) *GetByMaterialHandler {
	return &GetByMaterialHandler{repo: repo}
}

// Handle executes the query
func (h *GetByMaterialHandler) Handle(q GetByMaterialQuery) ([]domain.DeductionLog, error) {
	if q.MaterialID == 0 {
		return nil, fmt.Errorf("%w: invalid material id", errs.ErrValidation)
	}
	return h.repo.LogsByMaterial(q.CompanyID, q.MaterialID, q.Limit, q.Offset)
}

// GetStatisticsQuery aggregates the ledger
type GetStatisticsQuery struct {
	CompanyID uint
}

// GetStatisticsHandler handles ledger statistics
type GetStatisticsHandler struct {
	repo domain.LedgerRepository
}

// NewGetStatisticsHandler creates a new handler
func NewGetStatisticsHandler(repo domain.LedgerRepository) *GetStatisticsHandler {
	return &GetStatisticsHandler{repo: repo}
}

// Handle executes the query
func (h *GetStatisticsHandler) Handle(q GetStatisticsQuery) (*domain.LedgerStatistics, error) {
	return h.repo.Statistics(q.CompanyID)
}
