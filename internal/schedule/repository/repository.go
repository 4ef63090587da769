package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/qiro-dev/facility-maintenance/internal/schedule/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
)

// GormPlanRepository implements PlanRepository using GORM
type GormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new GORM plan repository
func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	db.AutoMigrate(&domain.MaintenancePlan{})
	return &GormPlanRepository{db: db}
}

// Create inserts a new plan
func (r *GormPlanRepository) Create(plan *domain.MaintenancePlan) error {
	return r.db.Create(plan).Error
}

// FindByID returns one plan scoped to the company
func (r *GormPlanRepository) FindByID(companyID, id uint) (*domain.MaintenancePlan, error) {
	var plan domain.MaintenancePlan
	err := r.db.Where("company_id = ? AND id = ?", companyID, id).First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: maintenance plan %d", errs.ErrNotFound, id)
		}
		return nil, err
	}
	return &plan, nil
}

// ActivePlans returns active plans with optional plan/asset narrowing
func (r *GormPlanRepository) ActivePlans(companyID, planID, assetID uint) ([]domain.MaintenancePlan, error) {
	q := r.db.Where("company_id = ? AND is_active = ?", companyID, true)
	if planID != 0 {
		q = q.Where("id = ?", planID)
	}
	if assetID != 0 {
		q = q.Where("asset_id = ?", assetID)
	}

	var plans []domain.MaintenancePlan
	err := q.Order("id ASC").Find(&plans).Error
	return plans, err
}

// Update persists plan changes
func (r *GormPlanRepository) Update(plan *domain.MaintenancePlan) error {
	return r.db.Save(plan).Error
}

// GormScheduleRepository implements ScheduleRepository using GORM
type GormScheduleRepository struct {
	db *gorm.DB
}

// NewGormScheduleRepository creates a new GORM schedule repository. The
// partial unique index backs autoGenerate's idempotency under
// concurrent generators.
func NewGormScheduleRepository(db *gorm.DB) *GormScheduleRepository {
	db.AutoMigrate(&domain.MaintenanceSchedule{})
	db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_schedules_plan_asset_date
		ON maintenance_schedules (plan_id, asset_id, scheduled_date)
		WHERE status <> 'CANCELLED' AND plan_id <> 0`)
	return &GormScheduleRepository{db: db}
}

// Create inserts a new schedule
func (r *GormScheduleRepository) Create(s *domain.MaintenanceSchedule) error {
	return r.db.Create(s).Error
}

// FindByID returns one schedule scoped to the company
func (r *GormScheduleRepository) FindByID(companyID, id uint) (*domain.MaintenanceSchedule, error) {
	var s domain.MaintenanceSchedule
	err := r.db.Where("company_id = ? AND id = ?", companyID, id).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: maintenance schedule %d", errs.ErrNotFound, id)
		}
		return nil, err
	}
	return &s, nil
}

// Search returns schedules matching the filter, soonest first
func (r *GormScheduleRepository) Search(companyID uint, filter domain.ScheduleFilter) ([]domain.MaintenanceSchedule, error) {
	q := r.db.Where("company_id = ?", companyID)

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if filter.PlanID != 0 {
		q = q.Where("plan_id = ?", filter.PlanID)
	}
	if filter.AssetID != 0 {
		q = q.Where("asset_id = ?", filter.AssetID)
	}
	if filter.AssignedTo != 0 {
		q = q.Where("assigned_to = ?", filter.AssignedTo)
	}
	if filter.From != nil {
		q = q.Where("scheduled_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("scheduled_date <= ?", *filter.To)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var schedules []domain.MaintenanceSchedule
	err := q.Order("scheduled_date ASC").Limit(limit).Offset(filter.Offset).Find(&schedules).Error
	return schedules, err
}

// InRange returns non-cancelled schedules inside [from, to]
func (r *GormScheduleRepository) InRange(companyID uint, from, to time.Time) ([]domain.MaintenanceSchedule, error) {
	var schedules []domain.MaintenanceSchedule
	err := r.db.Where("company_id = ? AND scheduled_date BETWEEN ? AND ? AND status <> ?",
		companyID, from, to, domain.StatusCancelled).
		Order("scheduled_date ASC").
		Find(&schedules).Error
	return schedules, err
}

// UpdateGuarded persists the full row conditionally on the version.
func (r *GormScheduleRepository) UpdateGuarded(s *domain.MaintenanceSchedule, expectVersion uint) error {
	s.Version = expectVersion + 1

	result := r.db.Model(&domain.MaintenanceSchedule{}).
		Where("id = ? AND company_id = ? AND version = ?", s.ID, s.CompanyID, expectVersion).
		Select("*").Omit("id", "company_id", "created_at").
		Updates(s)
	if result.Error != nil {
		s.Version = expectVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		s.Version = expectVersion
		return fmt.Errorf("%w: maintenance schedule %d", errs.ErrConcurrentModification, s.ID)
	}
	return nil
}

// ActiveExists returns the non-cancelled schedule for (planID, assetID,
// date), or nil when none exists.
func (r *GormScheduleRepository) ActiveExists(companyID, planID, assetID uint, date time.Time) (*domain.MaintenanceSchedule, error) {
	var s domain.MaintenanceSchedule
	err := r.db.Where(
		"company_id = ? AND plan_id = ? AND asset_id = ? AND scheduled_date = ? AND status <> ?",
		companyID, planID, assetID, date, domain.StatusCancelled,
	).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Statistics aggregates schedules in [from, to]. Overdue is computed
// from the stored status and date, matching EffectiveStatus.
func (r *GormScheduleRepository) Statistics(companyID uint, from, to time.Time) (*domain.ScheduleStatistics, error) {
	stats := &domain.ScheduleStatistics{
		ByStatus:   make(map[string]int64),
		ByPriority: make(map[string]int64),
	}

	base := func() *gorm.DB {
		return r.db.Model(&domain.MaintenanceSchedule{}).
			Where("company_id = ? AND scheduled_date BETWEEN ? AND ?", companyID, from, to)
	}

	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	var statusCounts []struct {
		Status string
		Count  int64
	}
	if err := base().Select("status, count(*) as count").Group("status").Scan(&statusCounts).Error; err != nil {
		return nil, err
	}
	for _, sc := range statusCounts {
		stats.ByStatus[sc.Status] = sc.Count
	}

	var priorityCounts []struct {
		Priority string
		Count    int64
	}
	if err := base().Select("priority, count(*) as count").Group("priority").Scan(&priorityCounts).Error; err != nil {
		return nil, err
	}
	for _, pc := range priorityCounts {
		stats.ByPriority[pc.Priority] = pc.Count
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := r.db.Model(&domain.MaintenanceSchedule{}).
		Where("company_id = ? AND scheduled_date BETWEEN ? AND ?", companyID, from, to).
		Where("status IN ? AND scheduled_date < ?",
			[]string{domain.StatusScheduled, domain.StatusRescheduled}, today).
		Count(&stats.OverdueCount).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
