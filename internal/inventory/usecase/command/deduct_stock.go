package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/qiro-dev/facility-maintenance/internal/inventory/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
	"github.com/qiro-dev/facility-maintenance/pkg/logger"
)

var deductionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "maintenance_stock_deductions_total",
		Help: "Stock deductions by type and outcome",
	},
	[]string{"type", "outcome"},
)

// DeductStockCommand represents the command to deduct material stock.
// IsAutomatic distinguishes automation-driven deductions from operator
// requests in the ledger.
type DeductStockCommand struct {
	CompanyID   uint
	MaterialID  uint
	WorkOrderID *uint
	ScheduleID  *uint
	Type        string
	Quantity    decimal.Decimal
	Reason      string
	IsAutomatic bool
	PerformedBy uint
}

// DeductStockHandler handles stock deductions
type DeductStockHandler struct {
	repo domain.LedgerRepository
}

// NewDeductStockHandler creates a new deduct stock handler
func NewDeductStockHandler(repo domain.LedgerRepository) *DeductStockHandler {
	return &DeductStockHandler{repo: repo}
}

// Handle deducts stock atomically: the balance check, the balance
// update and the ledger entry commit together or not at all. The stock
// row is locked for the duration, so concurrent deductions of the same
// material serialize and cannot both pass the balance check.
func (h *DeductStockHandler) Handle(ctx context.Context, cmd DeductStockCommand) (*domain.DeductionLog, error) {
	if cmd.MaterialID == 0 {
		return nil, fmt.Errorf("%w: material_id is required", errs.ErrValidation)
	}
	if !cmd.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity must be positive", errs.ErrValidation)
	}
	if cmd.Type == "" {
		cmd.Type = domain.TypeWorkOrder
	}
	if !domain.ValidDeductionType(cmd.Type) {
		return nil, fmt.Errorf("%w: unknown deduction type %q", errs.ErrValidation, cmd.Type)
	}
	if cmd.PerformedBy == 0 {
		return nil, fmt.Errorf("%w: performed_by is required", errs.ErrValidation)
	}

	entry := &domain.DeductionLog{
		CompanyID:        cmd.CompanyID,
		Number:           fmt.Sprintf("DL-%s", uuid.New().String()[:8]),
		MaterialID:       cmd.MaterialID,
		WorkOrderID:      cmd.WorkOrderID,
		ScheduleID:       cmd.ScheduleID,
		Type:             cmd.Type,
		Status:           domain.DeductionCompleted,
		IsAutomatic:      cmd.IsAutomatic,
		QuantityDeducted: cmd.Quantity,
		Reason:           cmd.Reason,
		PerformedBy:      cmd.PerformedBy,
	}

	err := h.repo.InTx(ctx, func(tx domain.LedgerTx) error {
		stock, err := tx.StockForUpdate(cmd.CompanyID, cmd.MaterialID)
		if err != nil {
			return err
		}

		if stock.Quantity.LessThan(cmd.Quantity) {
			return fmt.Errorf("%w: material %d has %s, requested %s",
				errs.ErrInsufficientStock, cmd.MaterialID, stock.Quantity, cmd.Quantity)
		}

		entry.StockBefore = stock.Quantity
		stock.Quantity = stock.Quantity.Sub(cmd.Quantity)
		entry.StockAfter = stock.Quantity
		entry.UnitCost = stock.UnitCost
		entry.TotalCost = stock.UnitCost.Mul(cmd.Quantity).Round(2)

		if err := tx.SaveStock(stock); err != nil {
			return err
		}
		return tx.AppendLog(entry)
	})
	if err != nil {
		deductionsTotal.WithLabelValues(cmd.Type, "failed").Inc()
		h.recordFailure(ctx, cmd, err)
		return nil, err
	}

	deductionsTotal.WithLabelValues(cmd.Type, "completed").Inc()

	logger.Info(ctx).
		Uint("material_id", cmd.MaterialID).
		Str("number", entry.Number).
		Str("quantity", cmd.Quantity.String()).
		Str("stock_after", entry.StockAfter.String()).
		Msg("Stock deducted")

	return entry, nil
}

// recordFailure best-effort appends a FAILED entry after the deduction
// transaction rolled back, so refused deductions stay auditable. Not
// written for unknown materials: there is no ledger to attach to.
func (h *DeductStockHandler) recordFailure(ctx context.Context, cmd DeductStockCommand, cause error) {
	if !errors.Is(cause, errs.ErrInsufficientStock) {
		return
	}

	failed := &domain.DeductionLog{
		CompanyID:        cmd.CompanyID,
		Number:           fmt.Sprintf("DL-%s", uuid.New().String()[:8]),
		MaterialID:       cmd.MaterialID,
		WorkOrderID:      cmd.WorkOrderID,
		ScheduleID:       cmd.ScheduleID,
		Type:             cmd.Type,
		Status:           domain.DeductionFailed,
		IsAutomatic:      cmd.IsAutomatic,
		QuantityDeducted: cmd.Quantity,
		Reason:           cause.Error(),
		PerformedBy:      cmd.PerformedBy,
	}
	if err := h.repo.AppendOutcome(failed); err != nil {
		logger.Warn(ctx).Err(err).Uint("material_id", cmd.MaterialID).Msg("Failed to record refused deduction")
	}
}
