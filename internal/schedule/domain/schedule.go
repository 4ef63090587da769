package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Schedule statuses
const (
	StatusScheduled   = "SCHEDULED"
	StatusInProgress  = "IN_PROGRESS"
	StatusCompleted   = "COMPLETED"
	StatusOverdue     = "OVERDUE"
	StatusCancelled   = "CANCELLED"
	StatusRescheduled = "RESCHEDULED"
)

// Plan frequencies
const (
	FrequencyDaily      = "DAILY"
	FrequencyWeekly     = "WEEKLY"
	FrequencyMonthly    = "MONTHLY"
	FrequencyQuarterly  = "QUARTERLY"
	FrequencySemiAnnual = "SEMI_ANNUAL"
	FrequencyAnnual     = "ANNUAL"
)

var validFrequencies = map[string]bool{
	FrequencyDaily:      true,
	FrequencyWeekly:     true,
	FrequencyMonthly:    true,
	FrequencyQuarterly:  true,
	FrequencySemiAnnual: true,
	FrequencyAnnual:     true,
}

// ValidFrequency reports whether f is a known plan frequency.
func ValidFrequency(f string) bool {
	return validFrequencies[f]
}

var validPriorities = map[string]bool{
	"LOW": true, "MEDIUM": true, "HIGH": true, "URGENT": true, "EMERGENCY": true,
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p string) bool {
	return validPriorities[p]
}

// NextOccurrence advances one recurrence step from the given date.
// Interval values below 1 count as 1.
func NextOccurrence(from time.Time, frequency string, interval int) time.Time {
	if interval < 1 {
		interval = 1
	}
	switch frequency {
	case FrequencyDaily:
		return from.AddDate(0, 0, interval)
	case FrequencyWeekly:
		return from.AddDate(0, 0, 7*interval)
	case FrequencyMonthly:
		return from.AddDate(0, interval, 0)
	case FrequencyQuarterly:
		return from.AddDate(0, 3*interval, 0)
	case FrequencySemiAnnual:
		return from.AddDate(0, 6*interval, 0)
	case FrequencyAnnual:
		return from.AddDate(interval, 0, 0)
	default:
		return from.AddDate(0, interval, 0)
	}
}

// MaintenancePlan is a recurrence template that autoGenerate expands
// into concrete schedules. Administrative edits never retroactively
// alter schedules already generated from it.
type MaintenancePlan struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	CompanyID   uint   `json:"company_id" gorm:"not null;index"`
	Name        string `json:"name" gorm:"size:200;not null"`
	Description string `json:"description" gorm:"type:text"`
	AssetID     uint   `json:"asset_id" gorm:"not null;index"`

	Frequency     string `json:"frequency" gorm:"size:20;not null"`
	IntervalValue int    `json:"interval_value" gorm:"not null;default:1"`
	Priority      string `json:"priority" gorm:"size:20;not null;default:'MEDIUM'"`

	EstimatedDurationHours decimal.Decimal `json:"estimated_duration_hours" gorm:"type:decimal(8,2);default:0"`
	TaskList               string          `json:"task_list,omitempty" gorm:"type:text"`

	StartDate         time.Time  `json:"start_date" gorm:"not null"`
	EndDate           *time.Time `json:"end_date,omitempty"`
	LastGeneratedDate *time.Time `json:"last_generated_date,omitempty"`
	IsActive          bool       `json:"is_active" gorm:"not null;default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (MaintenancePlan) TableName() string {
	return "maintenance_plans"
}

// MaintenanceSchedule is one concrete occurrence of a plan for an asset
// and date. A reschedule mutates this row in place; no new row is
// created.
type MaintenanceSchedule struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	CompanyID uint   `json:"company_id" gorm:"not null;index:idx_schedules_company_date,priority:1"`
	Number    string `json:"number" gorm:"size:50;not null;uniqueIndex"`
	PlanID    uint   `json:"plan_id" gorm:"index"`
	AssetID   uint   `json:"asset_id" gorm:"not null;index"`

	Title         string     `json:"title" gorm:"size:200"`
	ScheduledDate time.Time  `json:"scheduled_date" gorm:"not null;index:idx_schedules_company_date,priority:2"`
	StartTime     *time.Time `json:"start_time,omitempty"`
	EndTime       *time.Time `json:"end_time,omitempty"`

	Status     string `json:"status" gorm:"size:20;not null;default:'SCHEDULED'"`
	Priority   string `json:"priority" gorm:"size:20;not null;default:'MEDIUM'"`
	AssignedTo *uint  `json:"assigned_to,omitempty" gorm:"index"`

	EstimatedDurationHours decimal.Decimal `json:"estimated_duration_hours" gorm:"type:decimal(8,2);default:0"`
	Notes                  string          `json:"notes,omitempty" gorm:"type:text"`
	RescheduleReason       string          `json:"reschedule_reason,omitempty" gorm:"type:text"`
	CancelReason           string          `json:"cancel_reason,omitempty" gorm:"type:text"`

	// Version guards every mutation, same scheme as work orders.
	Version uint `json:"version" gorm:"not null;default:1"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (MaintenanceSchedule) TableName() string {
	return "maintenance_schedules"
}

// EffectiveStatus derives the read-time status: a SCHEDULED or
// RESCHEDULED occurrence whose date has passed surfaces as OVERDUE. The
// stored status is not mutated; no background job is assumed.
func (s *MaintenanceSchedule) EffectiveStatus(now time.Time) string {
	if s.Status == StatusScheduled || s.Status == StatusRescheduled {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if s.ScheduledDate.Before(today) {
			return StatusOverdue
		}
	}
	return s.Status
}

// Window returns the schedule's reservation interval. Schedules without
// explicit times reserve the whole day.
func (s *MaintenanceSchedule) Window() (start, end time.Time) {
	if s.StartTime != nil && s.EndTime != nil {
		return *s.StartTime, *s.EndTime
	}
	d := s.ScheduledDate
	dayStart := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	return dayStart, dayStart.AddDate(0, 0, 1)
}

// ScheduleFilter narrows schedule listings. Zero values mean "any".
type ScheduleFilter struct {
	Status     string
	Priority   string
	PlanID     uint
	AssetID    uint
	AssignedTo uint
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// ScheduleStatistics aggregates schedules for one company over a range.
type ScheduleStatistics struct {
	Total        int64            `json:"total"`
	ByStatus     map[string]int64 `json:"by_status"`
	ByPriority   map[string]int64 `json:"by_priority"`
	OverdueCount int64            `json:"overdue_count"`
}

// CalendarItem is one schedule summarized for the calendar view.
type CalendarItem struct {
	ID         uint   `json:"id"`
	Number     string `json:"number"`
	Title      string `json:"title"`
	AssetID    uint   `json:"asset_id"`
	Status     string `json:"status"`
	Priority   string `json:"priority"`
	AssignedTo *uint  `json:"assigned_to,omitempty"`
}

// Suggestion kinds produced by the optimization query.
const (
	SuggestionGrouping = "SCHEDULE_GROUPING"
	SuggestionTimeSlot = "TIME_SLOT_ADJUSTMENT"
	SuggestionPriority = "PRIORITY_REBALANCING"
)

// Suggestion is one optimization hint over a date range.
type Suggestion struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	ScheduleIDs []uint `json:"schedule_ids"`
}

// PlanRepository defines the contract for maintenance plan access.
type PlanRepository interface {
	Create(plan *MaintenancePlan) error
	FindByID(companyID, id uint) (*MaintenancePlan, error)
	// ActivePlans returns active plans, optionally narrowed to one plan
	// or one asset (zero means no filter).
	ActivePlans(companyID, planID, assetID uint) ([]MaintenancePlan, error)
	Update(plan *MaintenancePlan) error
}

// ScheduleRepository defines the contract for schedule access.
type ScheduleRepository interface {
	Create(s *MaintenanceSchedule) error
	FindByID(companyID, id uint) (*MaintenanceSchedule, error)
	Search(companyID uint, filter ScheduleFilter) ([]MaintenanceSchedule, error)
	InRange(companyID uint, from, to time.Time) ([]MaintenanceSchedule, error)
	// UpdateGuarded persists the row conditionally on the stored version
	// matching expectVersion; a lost race returns
	// errs.ErrConcurrentModification.
	UpdateGuarded(s *MaintenanceSchedule, expectVersion uint) error
	// ActiveExists reports whether a non-cancelled schedule exists for
	// (planID, assetID, date). Backed by a partial unique index so
	// concurrent generators cannot both insert.
	ActiveExists(companyID, planID, assetID uint, date time.Time) (*MaintenanceSchedule, error)
	Statistics(companyID uint, from, to time.Time) (*ScheduleStatistics, error)
}
