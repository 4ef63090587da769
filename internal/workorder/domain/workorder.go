package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// WorkOrder represents one unit of dispatched maintenance or repair
// work, tracked through an approval and execution lifecycle. Rows are
// never physically deleted; terminal states are retained for audit.
type WorkOrder struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	CompanyID uint   `json:"company_id" gorm:"not null;index:idx_work_orders_company_status,priority:1"`
	Number    string `json:"number" gorm:"size:50;not null;uniqueIndex"`

	Title       string `json:"title" gorm:"size:200;not null"`
	Description string `json:"description" gorm:"type:text"`
	Category    string `json:"category" gorm:"size:30;not null"` // PREVENTIVE, CORRECTIVE, EMERGENCY, IMPROVEMENT, INSPECTION
	WorkType    string `json:"work_type" gorm:"size:30"`
	Priority    string `json:"priority" gorm:"size:20;not null;default:'MEDIUM'"`
	Urgency     string `json:"urgency" gorm:"size:20;not null;default:'NORMAL'"`

	Status             string `json:"status" gorm:"size:20;not null;default:'PENDING';index:idx_work_orders_company_status,priority:2"`
	ApprovalStatus     string `json:"approval_status" gorm:"size:20;not null;default:'PENDING'"`
	Phase              string `json:"phase" gorm:"size:20;not null;default:'PLANNING'"`
	ProgressPercentage int    `json:"progress_percentage" gorm:"not null;default:0"`

	AssetID       uint  `json:"asset_id" gorm:"index"`
	ScheduleID    *uint `json:"schedule_id,omitempty" gorm:"index"`
	FaultReportID *uint `json:"fault_report_id,omitempty" gorm:"index"`
	Location      string `json:"location" gorm:"size:200"`

	// Resource names a shared piece of equipment (lift, ladder) this
	// job reserves for its window.
	Resource string `json:"resource,omitempty" gorm:"size:100"`

	RequestedBy  uint       `json:"requested_by" gorm:"not null"`
	AssignedTo   *uint      `json:"assigned_to,omitempty" gorm:"index"`
	AssignedTeam string     `json:"assigned_team,omitempty" gorm:"size:50"`
	AssignedAt   *time.Time `json:"assigned_at,omitempty"`

	ApprovedBy      *uint  `json:"approved_by,omitempty"`
	ApprovalNotes   string `json:"approval_notes,omitempty" gorm:"type:text"`
	RejectionReason string `json:"rejection_reason,omitempty" gorm:"type:text"`
	CancelReason    string `json:"cancel_reason,omitempty" gorm:"type:text"`

	ScheduledStart *time.Time `json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time `json:"scheduled_end,omitempty"`
	ActualStart    *time.Time `json:"actual_start,omitempty"`
	ActualEnd      *time.Time `json:"actual_end,omitempty"`

	EstimatedCost       decimal.Decimal `json:"estimated_cost" gorm:"type:decimal(12,2);default:0"`
	ApprovedCost        decimal.Decimal `json:"approved_cost" gorm:"type:decimal(12,2);default:0"`
	ActualCost          decimal.Decimal `json:"actual_cost" gorm:"type:decimal(12,2);default:0"`
	ActualDurationHours decimal.Decimal `json:"actual_duration_hours" gorm:"type:decimal(8,2);default:0"`

	QualityRating        *int   `json:"quality_rating,omitempty"`        // 1..5
	CustomerSatisfaction *int   `json:"customer_satisfaction,omitempty"` // 1..5
	CompletionNotes      string `json:"completion_notes,omitempty" gorm:"type:text"`

	// Version guards every state mutation; writes are conditional on
	// the version being unchanged.
	Version uint `json:"version" gorm:"not null;default:1"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (WorkOrder) TableName() string {
	return "work_orders"
}

// SearchFilter narrows work-order listings. Zero values mean "any".
type SearchFilter struct {
	Status     string
	Category   string
	Priority   string
	AssetID    uint
	AssignedTo uint
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// Statistics aggregates work orders for one company.
type Statistics struct {
	Total          int64            `json:"total"`
	ByStatus       map[string]int64 `json:"by_status"`
	ByPriority     map[string]int64 `json:"by_priority"`
	CompletedCount int64            `json:"completed_count"`
	CompletionRate float64          `json:"completion_rate"`
	AvgProgress    float64          `json:"avg_progress"`
}

// BatchFailure records one failed item of a batch operation.
type BatchFailure struct {
	ID     uint   `json:"id"`
	Reason string `json:"reason"`
}

// BatchResult is the per-id report of a batch operation. Batches never
// roll back on partial failure.
type BatchResult struct {
	SuccessCount int            `json:"success_count"`
	Failures     []BatchFailure `json:"failures"`
}

// WorkOrderRepository defines the contract for work-order data access.
// All reads and writes are tenant-scoped by company id.
type WorkOrderRepository interface {
	Create(wo *WorkOrder) error
	FindByID(companyID, id uint) (*WorkOrder, error)
	Search(companyID uint, filter SearchFilter) ([]WorkOrder, error)
	// UpdateGuarded persists the full row conditionally on the stored
	// version matching expectVersion, bumping the version on success.
	// A lost race returns errs.ErrConcurrentModification.
	UpdateGuarded(wo *WorkOrder, expectVersion uint) error
	Statistics(companyID uint) (*Statistics, error)
}

// Notifier dispatches lifecycle notifications. Implementations must be
// fire-and-forget: failures are logged and never propagate to the
// primary operation.
type Notifier interface {
	WorkOrderAssigned(ctx context.Context, wo *WorkOrder)
	WorkOrderCompleted(ctx context.Context, wo *WorkOrder)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) WorkOrderAssigned(context.Context, *WorkOrder)  {}
func (NopNotifier) WorkOrderCompleted(context.Context, *WorkOrder) {}
