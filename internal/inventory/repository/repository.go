package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qiro-dev/facility-maintenance/internal/inventory/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
)

// GormLedgerRepository implements LedgerRepository using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GORM ledger repository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	db.AutoMigrate(&domain.Stock{}, &domain.DeductionLog{})
	return &GormLedgerRepository{db: db}
}

// ledgerTx scopes all writes to one database transaction.
type ledgerTx struct {
	tx *gorm.DB
}

// InTx runs fn inside a transaction. Any error rolls back every write
// made through the LedgerTx.
func (r *GormLedgerRepository) InTx(ctx context.Context, fn func(tx domain.LedgerTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerTx{tx: tx})
	})
}

// AppendOutcome writes a ledger entry outside any transaction. Used for
// FAILED entries after the deduction transaction rolled back.
func (r *GormLedgerRepository) AppendOutcome(log *domain.DeductionLog) error {
	return r.db.Create(log).Error
}

func (t *ledgerTx) StockForUpdate(companyID, materialID uint) (*domain.Stock, error) {
	var stock domain.Stock
	err := t.tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("company_id = ? AND material_id = ?", companyID, materialID).
		First(&stock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: material %d", errs.ErrNotFound, materialID)
		}
		return nil, err
	}
	return &stock, nil
}

func (t *ledgerTx) SaveStock(stock *domain.Stock) error {
	return t.tx.Save(stock).Error
}

func (t *ledgerTx) AppendLog(log *domain.DeductionLog) error {
	return t.tx.Create(log).Error
}

func (t *ledgerTx) LogForUpdate(companyID, logID uint) (*domain.DeductionLog, error) {
	var log domain.DeductionLog
	err := t.tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("company_id = ? AND id = ?", companyID, logID).
		First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: deduction log %d", errs.ErrNotFound, logID)
		}
		return nil, err
	}
	return &log, nil
}

func (t *ledgerTx) MarkReversed(logID uint) error {
	result := t.tx.Model(&domain.DeductionLog{}).
		Where("id = ? AND status = ?", logID, domain.DeductionCompleted).
		Update("status", domain.DeductionReversed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: deduction log %d is not COMPLETED", errs.ErrInvalidState, logID)
	}
	return nil
}

// FindStock returns the stock row for one material.
func (r *GormLedgerRepository) FindStock(companyID, materialID uint) (*domain.Stock, error) {
	var stock domain.Stock
	err := r.db.Where("company_id = ? AND material_id = ?", companyID, materialID).First(&stock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: material %d", errs.ErrNotFound, materialID)
		}
		return nil, err
	}
	return &stock, nil
}

// UpsertStock creates or replaces the stock row for one material.
func (r *GormLedgerRepository) UpsertStock(stock *domain.Stock) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "company_id"}, {Name: "material_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"material_name", "unit", "quantity", "minimum_stock",
			"reorder_point", "unit_cost", "location", "updated_at",
		}),
	}).Create(stock).Error
}

// LogsByWorkOrder returns all ledger entries for a work order, oldest
// first so the consumption history reads in order.
func (r *GormLedgerRepository) LogsByWorkOrder(companyID, workOrderID uint) ([]domain.DeductionLog, error) {
	var logs []domain.DeductionLog
	err := r.db.Where("company_id = ? AND work_order_id = ?", companyID, workOrderID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}

// LogsByMaterial returns ledger entries for a material, newest first.
func (r *GormLedgerRepository) LogsByMaterial(companyID, materialID uint, limit, offset int) ([]domain.DeductionLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []domain.DeductionLog
	err := r.db.Where("company_id = ? AND material_id = ?", companyID, materialID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&logs).Error
	return logs, err
}

// LowStock returns stocks at or below their reorder point.
func (r *GormLedgerRepository) LowStock(companyID uint) ([]domain.Stock, error) {
	var stocks []domain.Stock
	err := r.db.Where("company_id = ? AND quantity <= reorder_point", companyID).
		Order("quantity ASC").
		Find(&stocks).Error
	return stocks, err
}

// Statistics aggregates the ledger for one company.
func (r *GormLedgerRepository) Statistics(companyID uint) (*domain.LedgerStatistics, error) {
	stats := &domain.LedgerStatistics{
		ByStatus: make(map[string]int64),
		ByType:   make(map[string]int64),
	}

	if err := r.db.Model(&domain.DeductionLog{}).
		Where("company_id = ?", companyID).
		Count(&stats.TotalEntries).Error; err != nil {
		return nil, err
	}

	var statusCounts []struct {
		Status string
		Count  int64
	}
	if err := r.db.Model(&domain.DeductionLog{}).
		Select("status, count(*) as count").
		Where("company_id = ?", companyID).
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return nil, err
	}
	for _, sc := range statusCounts {
		stats.ByStatus[sc.Status] = sc.Count
	}

	var typeCounts []struct {
		Type  string
		Count int64
	}
	if err := r.db.Model(&domain.DeductionLog{}).
		Select("type, count(*) as count").
		Where("company_id = ?", companyID).
		Group("type").
		Scan(&typeCounts).Error; err != nil {
		return nil, err
	}
	for _, tc := range typeCounts {
		stats.ByType[tc.Type] = tc.Count
	}

	if err := r.db.Model(&domain.DeductionLog{}).
		Where("company_id = ? AND is_automatic = ?", companyID, true).
		Count(&stats.AutomaticCount).Error; err != nil {
		return nil, err
	}
	stats.ManualCount = stats.TotalEntries - stats.AutomaticCount

	var totals struct {
		TotalDeducted decimal.NullDecimal
		TotalCost     decimal.NullDecimal
	}
	if err := r.db.Model(&domain.DeductionLog{}).
		Select("sum(quantity_deducted) as total_deducted, sum(total_cost) as total_cost").
		Where("company_id = ? AND status = ?", companyID, domain.DeductionCompleted).
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	if totals.TotalDeducted.Valid {
		stats.TotalDeducted = totals.TotalDeducted.Decimal
	}
	if totals.TotalCost.Valid {
		stats.TotalCost = totals.TotalCost.Decimal
	}

	if stats.TotalEntries > 0 {
		stats.AutomaticRate = float64(stats.AutomaticCount) / float64(stats.TotalEntries)
		stats.ReversalRate = float64(stats.ByStatus[domain.DeductionReversed]) / float64(stats.TotalEntries)
	}

	return stats, nil
}
