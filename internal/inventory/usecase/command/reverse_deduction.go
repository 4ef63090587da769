package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/qiro-dev/facility-maintenance/internal/inventory/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
	"github.com/qiro-dev/facility-maintenance/pkg/logger"
)

// ReverseDeductionCommand represents the command to reverse a deduction
type ReverseDeductionCommand struct {
	CompanyID   uint
	LogID       uint
	Reason      string
	PerformedBy uint
}

// ReverseDeductionHandler handles deduction reversals
type ReverseDeductionHandler struct {
	repo domain.LedgerRepository
}

// NewReverseDeductionHandler creates a new reverse deduction handler
func NewReverseDeductionHandler(repo domain.LedgerRepository) *ReverseDeductionHandler {
	return &ReverseDeductionHandler{repo: repo}
}

// Handle reverses one COMPLETED deduction: stock is restored and a
// compensating entry with the negated quantity is appended. The
// original entry flips to REVERSED, which makes a second reversal of
// the same entry impossible.
func (h *ReverseDeductionHandler) Handle(ctx context.Context, cmd ReverseDeductionCommand) (*domain.DeductionLog, error) {
	if cmd.LogID == 0 {
		return nil, fmt.Errorf("%w: log_id is required", errs.ErrValidation)
	}
	if cmd.Reason == "" {
		return nil, fmt.Errorf("%w: reversal reason is required", errs.ErrValidation)
	}

	var compensation *domain.DeductionLog
	err := h.repo.InTx(ctx, func(tx domain.LedgerTx) error {
		original, err := tx.LogForUpdate(cmd.CompanyID, cmd.LogID)
		if err != nil {
			return err
		}

		if original.Status != domain.DeductionCompleted {
			return fmt.Errorf("%w: deduction %s is %s", errs.ErrInvalidState, original.Number, original.Status)
		}

		stock, err := tx.StockForUpdate(cmd.CompanyID, original.MaterialID)
		if err != nil {
			return err
		}

		before := stock.Quantity
		stock.Quantity = stock.Quantity.Add(original.QuantityDeducted)
		if err := tx.SaveStock(stock); err != nil {
			return err
		}

		if err := tx.MarkReversed(original.ID); err != nil {
			return err
		}

		compensation = &domain.DeductionLog{
			CompanyID:        cmd.CompanyID,
			Number:           fmt.Sprintf("DL-%s", uuid.New().String()[:8]),
			MaterialID:       original.MaterialID,
			WorkOrderID:      original.WorkOrderID,
			ScheduleID:       original.ScheduleID,
			Type:             original.Type,
			Status:           domain.DeductionReversed,
			QuantityDeducted: original.QuantityDeducted.Neg(),
			StockBefore:      before,
			StockAfter:       stock.Quantity,
			UnitCost:         original.UnitCost,
			TotalCost:        original.TotalCost.Neg(),
			ReversalOfID:     &original.ID,
			Reason:           cmd.Reason,
			PerformedBy:      cmd.PerformedBy,
		}
		return tx.AppendLog(compensation)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("log_id", cmd.LogID).
		Str("number", compensation.Number).
		Str("restored", compensation.QuantityDeducted.Neg().String()).
		Msg("Deduction reversed")

	return compensation, nil
}
