package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/qiro-dev/facility-maintenance/internal/inventory/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
)

// UpsertStockCommand registers or restocks one material
type UpsertStockCommand struct {
	CompanyID    uint
	MaterialID   uint
	MaterialName string
	Unit         string
	Quantity     decimal.Decimal
	MinimumStock decimal.Decimal
	ReorderPoint decimal.Decimal
	UnitCost     decimal.Decimal
	Location     string
}

// UpsertStockHandler handles stock registration
type UpsertStockHandler struct {
	repo domain.LedgerRepository
}

// NewUpsertStockHandler creates a new upsert stock handler
func NewUpsertStockHandler(repo domain.LedgerRepository) *UpsertStockHandler {
	return &UpsertStockHandler{repo: repo}
}

// Handle creates or replaces the stock row for a material.
func (h *UpsertStockHandler) Handle(ctx context.Context, cmd UpsertStockCommand) (*domain.Stock, error) {
	if cmd.MaterialID == 0 {
		return nil, fmt.Errorf("%w: material_id is required", errs.ErrValidation)
	}
	if strings.TrimSpace(cmd.MaterialName) == "" {
		return nil, fmt.Errorf("%w: material_name is required", errs.ErrValidation)
	}
	if cmd.Quantity.IsNegative() {
		return nil, fmt.Errorf("%w: quantity cannot be negative", errs.ErrValidation)
	}

	stock := &domain.Stock{
		CompanyID:    cmd.CompanyID,
		MaterialID:   cmd.MaterialID,
		MaterialName: strings.TrimSpace(cmd.MaterialName),
		Unit:         cmd.Unit,
		Quantity:     cmd.Quantity,
		MinimumStock: cmd.MinimumStock,
		ReorderPoint: cmd.ReorderPoint,
		UnitCost:     cmd.UnitCost,
		Location:     cmd.Location,
	}

	if err := h.repo.UpsertStock(stock); err != nil {
		return nil, fmt.Errorf("failed to upsert stock: %w", err)
	}

	return stock, nil
}
