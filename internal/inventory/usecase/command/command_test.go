package command

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qiro-dev/facility-maintenance/internal/inventory/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
)

// fakeLedger keeps stocks and logs in memory and implements both the
// repository and its transaction surface. InTx snapshots state and
// restores it when fn fails, mirroring the rollback semantics of the
// real transaction.
type fakeLedger struct {
	stocks   map[uint]*domain.Stock // materialID -> stock
	logs     map[uint]*domain.DeductionLog
	outcomes []*domain.DeductionLog
	nextID   uint
}

func newFakeLedger(stocks ...*domain.Stock) *fakeLedger {
	l := &fakeLedger{
		stocks: make(map[uint]*domain.Stock),
		logs:   make(map[uint]*domain.DeductionLog),
	}
	for _, s := range stocks {
		l.stocks[s.MaterialID] = s
	}
	return l
}

func (l *fakeLedger) InTx(ctx context.Context, fn func(tx domain.LedgerTx) error) error {
	stocksBackup := make(map[uint]*domain.Stock, len(l.stocks))
	for k, v := range l.stocks {
		copied := *v
		stocksBackup[k] = &copied
	}
	logsBackup := make(map[uint]*domain.DeductionLog, len(l.logs))
	for k, v := range l.logs {
		copied := *v
		logsBackup[k] = &copied
	}

	if err := fn(l); err != nil {
		l.stocks = stocksBackup
		l.logs = logsBackup
		return err
	}
	return nil
}

func (l *fakeLedger) StockForUpdate(companyID, materialID uint) (*domain.Stock, error) {
	if s, ok := l.stocks[materialID]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: stock for material %d", errs.ErrNotFound, materialID)
}

func (l *fakeLedger) SaveStock(stock *domain.Stock) error {
	l.stocks[stock.MaterialID] = stock
	return nil
}

func (l *fakeLedger) AppendLog(log *domain.DeductionLog) error {
	l.nextID++
	log.ID = l.nextID
	l.logs[log.ID] = log
	return nil
}

func (l *fakeLedger) LogForUpdate(companyID, logID uint) (*domain.DeductionLog, error) {
	if entry, ok := l.logs[logID]; ok {
		return entry, nil
	}
	return nil, fmt.Errorf("%w: deduction log %d", errs.ErrNotFound, logID)
}

func (l *fakeLedger) MarkReversed(logID uint) error {
	entry, ok := l.logs[logID]
	if !ok || entry.Status != domain.DeductionCompleted {
		return fmt.Errorf("%w: deduction log %d", errs.ErrInvalidState, logID)
	}
	entry.Status = domain.DeductionReversed
	return nil
}

func (l *fakeLedger) AppendOutcome(log *domain.DeductionLog) error {
	l.outcomes = append(l.outcomes, log)
	return nil
}

func (l *fakeLedger) FindStock(companyID, materialID uint) (*domain.Stock, error) {
	return l.StockForUpdate(companyID, materialID)
}

func (l *fakeLedger) UpsertStock(stock *domain.Stock) error {
	l.stocks[stock.MaterialID] = stock
	return nil
}

func (l *fakeLedger) LogsByWorkOrder(companyID, workOrderID uint) ([]domain.DeductionLog, error) {
	var out []domain.DeductionLog
	for _, entry := range l.logs {
		if entry.WorkOrderID != nil && *entry.WorkOrderID == workOrderID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (l *fakeLedger) LogsByMaterial(companyID, materialID uint, limit, offset int) ([]domain.DeductionLog, error) {
	var out []domain.DeductionLog
	for _, entry := range l.logs {
		if entry.MaterialID == materialID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (l *fakeLedger) LowStock(companyID uint) ([]domain.Stock, error) {
	var out []domain.Stock
	for _, s := range l.stocks {
		if s.Quantity.LessThanOrEqual(s.ReorderPoint) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (l *fakeLedger) Statistics(companyID uint) (*domain.LedgerStatistics, error) {
	return &domain.LedgerStatistics{}, nil
}

func boltStock(quantity string) *domain.Stock {
	return &domain.Stock{
		ID:           1,
		CompanyID:    1,
		MaterialID:   10,
		MaterialName: "M8 bolt",
		Quantity:     decimal.RequireFromString(quantity),
		MinimumStock: decimal.NewFromInt(20),
		ReorderPoint: decimal.NewFromInt(30),
		UnitCost:     decimal.RequireFromString("0.50"),
	}
}

func TestDeductStockHappyPath(t *testing.T) {
	ledger := newFakeLedger(boltStock("100"))
	handler := NewDeductStockHandler(ledger)

	workOrderID := uint(7)
	entry, err := handler.Handle(context.Background(), DeductStockCommand{
		CompanyID:   1,
		MaterialID:  10,
		WorkOrderID: &workOrderID,
		Quantity:    decimal.NewFromInt(12),
		Reason:      "filter replacement",
		PerformedBy: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DeductionCompleted, entry.Status)
	assert.Equal(t, domain.TypeWorkOrder, entry.Type)
	assert.True(t, entry.StockBefore.Equal(decimal.NewFromInt(100)))
	assert.True(t, entry.StockAfter.Equal(decimal.NewFromInt(88)))
	assert.True(t, entry.TotalCost.Equal(decimal.RequireFromString("6.00")))
	assert.Contains(t, entry.Number, "DL-")
	assert.True(t, ledger.stocks[10].Quantity.Equal(decimal.NewFromInt(88)))
}

func TestDeductStockInsufficientLeavesBalanceUntouched(t *testing.T) {
	ledger := newFakeLedger(boltStock("5"))
	handler := NewDeductStockHandler(ledger)

	_, err := handler.Handle(context.Background(), DeductStockCommand{
		CompanyID:   1,
		MaterialID:  10,
		Quantity:    decimal.NewFromInt(12),
		PerformedBy: 3,
	})
	assert.ErrorIs(t, err, errs.ErrInsufficientStock)
	assert.True(t, ledger.stocks[10].Quantity.Equal(decimal.NewFromInt(5)))
	assert.Empty(t, ledger.logs)

	// The refusal itself stays auditable.
	require.Len(t, ledger.outcomes, 1)
	assert.Equal(t, domain.DeductionFailed, ledger.outcomes[0].Status)
}

func TestDeductStockCarriesAutomaticFlag(t *testing.T) {
	ledger := newFakeLedger(boltStock("100"))
	handler := NewDeductStockHandler(ledger)

	entry, err := handler.Handle(context.Background(), DeductStockCommand{
		CompanyID: 1, MaterialID: 10, Quantity: decimal.NewFromInt(2),
		IsAutomatic: true, PerformedBy: 3,
	})
	require.NoError(t, err)
	assert.True(t, entry.IsAutomatic)

	manual, err := handler.Handle(context.Background(), DeductStockCommand{
		CompanyID: 1, MaterialID: 10, Quantity: decimal.NewFromInt(2), PerformedBy: 3,
	})
	require.NoError(t, err)
	assert.False(t, manual.IsAutomatic)

	// A refused automatic deduction keeps the flag on its FAILED entry.
	_, err = handler.Handle(context.Background(), DeductStockCommand{
		CompanyID: 1, MaterialID: 10, Quantity: decimal.NewFromInt(1000),
		IsAutomatic: true, PerformedBy: 3,
	})
	assert.ErrorIs(t, err, errs.ErrInsufficientStock)
	require.Len(t, ledger.outcomes, 1)
	assert.True(t, ledger.outcomes[0].IsAutomatic)
}

func TestDeductStockUnknownMaterialSkipsFailureEntry(t *testing.T) {
	ledger := newFakeLedger()
	handler := NewDeductStockHandler(ledger)

	_, err := handler.Handle(context.Background(), DeductStockCommand{
		CompanyID:   1,
		MaterialID:  99,
		Quantity:    decimal.NewFromInt(1),
		PerformedBy: 3,
	})
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.Empty(t, ledger.outcomes)
}

func TestDeductStockValidation(t *testing.T) {
	handler := NewDeductStockHandler(newFakeLedger(boltStock("100")))

	_, err := handler.Handle(context.Background(), DeductStockCommand{
		CompanyID: 1, MaterialID: 10, Quantity: decimal.Zero, PerformedBy: 3,
	})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = handler.Handle(context.Background(), DeductStockCommand{
		CompanyID: 1, MaterialID: 10, Quantity: decimal.NewFromInt(1),
		Type: "BORROWED", PerformedBy: 3,
	})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestReverseDeductionRoundTrip(t *testing.T) {
	ledger := newFakeLedger(boltStock("100"))
	deduct := NewDeductStockHandler(ledger)
	reverse := NewReverseDeductionHandler(ledger)

	entry, err := deduct.Handle(context.Background(), DeductStockCommand{
		CompanyID: 1, MaterialID: 10, Quantity: decimal.NewFromInt(12), PerformedBy: 3,
	})
	require.NoError(t, err)

	compensation, err := reverse.Handle(context.Background(), ReverseDeductionCommand{
		CompanyID: 1, LogID: entry.ID, Reason: "wrong material", PerformedBy: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DeductionReversed, compensation.Status)
	assert.True(t, compensation.QuantityDeducted.Equal(decimal.NewFromInt(-12)))
	require.NotNil(t, compensation.ReversalOfID)
	assert.Equal(t, entry.ID, *compensation.ReversalOfID)

	// Balance restored, original flipped to REVERSED.
	assert.True(t, ledger.stocks[10].Quantity.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, domain.DeductionReversed, ledger.logs[entry.ID].Status)
}

func TestReverseDeductionIsSingleUse(t *testing.T) {
	ledger := newFakeLedger(boltStock("100"))
	deduct := NewDeductStockHandler(ledger)
	reverse := NewReverseDeductionHandler(ledger)

	entry, err := deduct.Handle(context.Background(), DeductStockCommand{
		CompanyID: 1, MaterialID: 10, Quantity: decimal.NewFromInt(12), PerformedBy: 3,
	})
	require.NoError(t, err)

	_, err = reverse.Handle(context.Background(), ReverseDeductionCommand{
		CompanyID: 1, LogID: entry.ID, Reason: "wrong material", PerformedBy: 4,
	})
	require.NoError(t, err)

	_, err = reverse.Handle(context.Background(), ReverseDeductionCommand{
		CompanyID: 1, LogID: entry.ID, Reason: "twice", PerformedBy: 4,
	})
	assert.ErrorIs(t, err, errs.ErrInvalidState)
	// Second reversal must not inflate the balance.
	assert.True(t, ledger.stocks[10].Quantity.Equal(decimal.NewFromInt(100)))
}

func TestReverseDeductionRequiresReason(t *testing.T) {
	handler := NewReverseDeductionHandler(newFakeLedger())

	_, err := handler.Handle(context.Background(), ReverseDeductionCommand{
		CompanyID: 1, LogID: 5, PerformedBy: 4,
	})
	assert.ErrorIs(t, err, errs.ErrValidation)
}
