package query

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qiro-dev/facility-maintenance/internal/inventory/domain"
)

type stubLedger struct {
	domain.LedgerRepository
	lowStock []domain.Stock
}

func (s *stubLedger) LowStock(companyID uint) ([]domain.Stock, error) {
	return s.lowStock, nil
}

func stock(materialID uint, quantity, minimum string) domain.Stock {
	return domain.Stock{
		MaterialID:   materialID,
		MaterialName: "material",
		Quantity:     decimal.RequireFromString(quantity),
		MinimumStock: decimal.RequireFromString(minimum),
		ReorderPoint: decimal.RequireFromString(minimum).Mul(decimal.NewFromInt(2)),
	}
}

func TestLowStockSeverityEscalation(t *testing.T) {
	ledger := &stubLedger{lowStock: []domain.Stock{
		stock(1, "0", "20"),    // empty
		stock(2, "-3", "20"),   // negative after manual adjustment
		stock(3, "9", "20"),    // below half the minimum
		stock(4, "15", "20"),   // below minimum
		stock(5, "25", "20"),   // at reorder point only
		stock(6, "10", "20"),   // exactly half the minimum
	}}
	handler := NewLowStockAlertsHandler(ledger)

	alerts, err := handler.Handle(LowStockAlertsQuery{CompanyID: 1})
	require.NoError(t, err)
	require.Len(t, alerts, 6)

	bySeverity := make(map[uint]string)
	for _, alert := range alerts {
		bySeverity[alert.MaterialID] = alert.Severity
	}

	assert.Equal(t, domain.AlertCritical, bySeverity[1])
	assert.Equal(t, domain.AlertCritical, bySeverity[2])
	assert.Equal(t, domain.AlertHigh, bySeverity[3])
	assert.Equal(t, domain.AlertMedium, bySeverity[4])
	assert.Equal(t, domain.AlertLow, bySeverity[5])
	assert.Equal(t, domain.AlertMedium, bySeverity[6])
}
