package query

import (
	"github.com/shopspring/decimal"

	"github.com/qiro-dev/facility-maintenance/internal/inventory/domain"
)

var two = decimal.NewFromInt(2)

// LowStockAlertsQuery lists materials running low
type LowStockAlertsQuery struct {
	CompanyID uint
}

// LowStockAlertsHandler handles low stock alerts
type LowStockAlertsHandler struct {
	repo domain.LedgerRepository
}

// NewLowStockAlertsHandler creates a new handler
func NewLowStockAlertsHandler(repo domain.LedgerRepository) *LowStockAlertsHandler {
	return &LowStockAlertsHandler{repo: repo}
}

// Handle classifies each low stock row. Severity escalates as the
// balance falls: at or below reorder point is LOW, below minimum is
// MEDIUM, below half the minimum is HIGH, empty or negative is
// CRITICAL.
func (h *LowStockAlertsHandler) Handle(q LowStockAlertsQuery) ([]domain.LowStockAlert, error) {
	stocks, err := h.repo.LowStock(q.CompanyID)
	if err != nil {
		return nil, err
	}

	alerts := make([]domain.LowStockAlert, 0, len(stocks))
	for _, s := range stocks {
		alerts = append(alerts, domain.LowStockAlert{
			MaterialID:   s.MaterialID,
			MaterialName: s.MaterialName,
			Quantity:     s.Quantity,
			MinimumStock: s.MinimumStock,
			ReorderPoint: s.ReorderPoint,
			Severity:     severityFor(s),
		})
	}

	return alerts, nil
}

func severityFor(s domain.Stock) string {
	switch {
	case !s.Quantity.IsPositive():
		return domain.AlertCritical
	case s.Quantity.LessThan(s.MinimumStock.Div(two)):
		return domain.AlertHigh
	case s.Quantity.LessThan(s.MinimumStock):
		return domain.AlertMedium
	default:
		return domain.AlertLow
	}
}
