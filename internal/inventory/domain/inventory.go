package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Deduction statuses
const (
	DeductionCompleted = "COMPLETED"
	DeductionReversed  = "REVERSED"
	DeductionFailed    = "FAILED"
)

// Deduction types
const (
	TypeWorkOrder   = "WORK_ORDER"
	TypeMaintenance = "MAINTENANCE"
	TypeEmergency   = "EMERGENCY"
	TypeAdjustment  = "ADJUSTMENT"
	TypeTransfer    = "TRANSFER"
)

// Low stock alert severities
const (
	AlertCritical = "CRITICAL"
	AlertHigh     = "HIGH"
	AlertMedium   = "MEDIUM"
	AlertLow      = "LOW"
)

var validTypes = map[string]bool{
	TypeWorkOrder:   true,
	TypeMaintenance: true,
	TypeEmergency:   true,
	TypeAdjustment:  true,
	TypeTransfer:    true,
}

// ValidDeductionType reports whether t is a known deduction type.
func ValidDeductionType(t string) bool {
	return validTypes[t]
}

// Stock is the on-hand balance of one material per company. Balances
// only change inside a row-locked ledger transaction.
type Stock struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	CompanyID    uint            `json:"company_id" gorm:"not null;uniqueIndex:idx_material_stocks_company_material,priority:1"`
	MaterialID   uint            `json:"material_id" gorm:"not null;uniqueIndex:idx_material_stocks_company_material,priority:2"`
	MaterialName string          `json:"material_name" gorm:"size:200;not null"`
	Unit         string          `json:"unit" gorm:"size:20"`
	Quantity     decimal.Decimal `json:"quantity" gorm:"type:decimal(12,3);not null;default:0"`
	MinimumStock decimal.Decimal `json:"minimum_stock" gorm:"type:decimal(12,3);default:0"`
	ReorderPoint decimal.Decimal `json:"reorder_point" gorm:"type:decimal(12,3);default:0"`
	UnitCost     decimal.Decimal `json:"unit_cost" gorm:"type:decimal(12,2);default:0"`
	Location     string          `json:"location" gorm:"size:200"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TableName specifies the table name
func (Stock) TableName() string {
	return "material_stocks"
}

// DeductionLog is one append-only ledger entry. A reversal is a new
// entry with the negated quantity pointing back at the original;
// entries are never updated except the original's status flip to
// REVERSED.
type DeductionLog struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	CompanyID uint   `json:"company_id" gorm:"not null;index"`
	Number    string `json:"number" gorm:"size:50;not null;uniqueIndex"`

	MaterialID  uint  `json:"material_id" gorm:"not null;index"`
	WorkOrderID *uint `json:"work_order_id,omitempty" gorm:"index"`
	ScheduleID  *uint `json:"schedule_id,omitempty"`

	Type   string `json:"type" gorm:"size:20;not null"`
	Status string `json:"status" gorm:"size:20;not null;default:'COMPLETED'"`

	// IsAutomatic marks entries created by automation (fault intake,
	// completion hooks) rather than by an operator request.
	IsAutomatic bool `json:"is_automatic" gorm:"not null;default:false"`

	// QuantityDeducted is positive for deductions, negative for the
	// compensating reversal entry.
	QuantityDeducted decimal.Decimal `json:"quantity_deducted" gorm:"type:decimal(12,3);not null"`
	StockBefore      decimal.Decimal `json:"stock_before" gorm:"type:decimal(12,3);not null"`
	StockAfter       decimal.Decimal `json:"stock_after" gorm:"type:decimal(12,3);not null"`
	UnitCost         decimal.Decimal `json:"unit_cost" gorm:"type:decimal(12,2);default:0"`
	TotalCost        decimal.Decimal `json:"total_cost" gorm:"type:decimal(12,2);default:0"`

	ReversalOfID *uint  `json:"reversal_of_id,omitempty" gorm:"index"`
	Reason       string `json:"reason,omitempty" gorm:"type:text"`
	PerformedBy  uint   `json:"performed_by" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (DeductionLog) TableName() string {
	return "stock_deduction_logs"
}

// LowStockAlert flags one material running low.
type LowStockAlert struct {
	MaterialID   uint            `json:"material_id"`
	MaterialName string          `json:"material_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	Severity     string          `json:"severity"`
}

// LedgerStatistics aggregates the deduction ledger for one company.
type LedgerStatistics struct {
	TotalEntries   int64            `json:"total_entries"`
	ByStatus       map[string]int64 `json:"by_status"`
	ByType         map[string]int64 `json:"by_type"`
	AutomaticCount int64            `json:"automatic_count"`
	ManualCount    int64            `json:"manual_count"`
	TotalDeducted  decimal.Decimal  `json:"total_deducted"`
	TotalCost      decimal.Decimal  `json:"total_cost"`
	AutomaticRate  float64          `json:"automatic_rate"`
	ReversalRate   float64          `json:"reversal_rate"`
}

// LedgerTx is the write surface available inside one ledger
// transaction. StockForUpdate takes a row lock, so concurrent
// deductions of the same material serialize.
type LedgerTx interface {
	StockForUpdate(companyID, materialID uint) (*Stock, error)
	SaveStock(stock *Stock) error
	AppendLog(log *DeductionLog) error
	LogForUpdate(companyID, logID uint) (*DeductionLog, error)
	// MarkReversed flips a COMPLETED entry to REVERSED; a second
	// attempt finds no COMPLETED row and fails.
	MarkReversed(logID uint) error
}

// LedgerRepository defines the contract for stock and ledger access.
type LedgerRepository interface {
	InTx(ctx context.Context, fn func(tx LedgerTx) error) error
	AppendOutcome(log *DeductionLog) error

	FindStock(companyID, materialID uint) (*Stock, error)
	UpsertStock(stock *Stock) error
	LogsByWorkOrder(companyID, workOrderID uint) ([]DeductionLog, error)
	LogsByMaterial(companyID, materialID uint, limit, offset int) ([]DeductionLog, error)
	LowStock(companyID uint) ([]Stock, error)
	Statistics(companyID uint) (*LedgerStatistics, error)
}
