package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/qiro-dev/facility-maintenance/internal/workorder/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
)

type GormWorkOrderRepository struct {
	db *gorm.DB
}

func NewGormWorkOrderRepository(db *gorm.DB) *GormWorkOrderRepository {
	return &GormWorkOrderRepository{db: db}
}

func (r *GormWorkOrderRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.WorkOrder{})
}

func (r *GormWorkOrderRepository) Create(wo *domain.WorkOrder) error {
	return r.db.Create(wo).Error
}

func (r *GormWorkOrderRepository) FindByID(companyID, id uint) (*domain.WorkOrder, error) {
	var wo domain.WorkOrder
	err := r.db.Where("company_id = ?", companyID).First(&wo, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: work order %d", errs.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

func (r *GormWorkOrderRepository) Search(companyID uint, filter domain.SearchFilter) ([]domain.WorkOrder, error) {
	q := r.db.Where("company_id = ?", companyID)

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if filter.AssetID != 0 {
		q = q.Where("asset_id = ?", filter.AssetID)
	}
	if filter.AssignedTo != 0 {
		q = q.Where("assigned_to = ?", filter.AssignedTo)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at < ?", filter.To)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 50
	}

	var orders []domain.WorkOrder
	err := q.Order("created_at DESC").Limit(limit).Offset(filter.Offset).Find(&orders).Error
	return orders, err
}

// UpdateGuarded writes the full row conditionally on the stored version.
// The WHERE clause carries the expected version; zero rows affected
// means another writer won the race.
func (r *GormWorkOrderRepository) UpdateGuarded(wo *domain.WorkOrder, expectVersion uint) error {
	wo.Version = expectVersion + 1

	res := r.db.Model(&domain.WorkOrder{}).
		Where("id = ? AND company_id = ? AND version = ?", wo.ID, wo.CompanyID, expectVersion).
		Select("*").
		Omit("id", "company_id", "created_at").
		Updates(wo)
	if res.Error != nil {
		wo.Version = expectVersion
		return res.Error
	}
	if res.RowsAffected == 0 {
		wo.Version = expectVersion
		return fmt.Errorf("%w: work order %d version %d", errs.ErrConcurrentModification, wo.ID, expectVersion)
	}
	return nil
}

func (r *GormWorkOrderRepository) Statistics(companyID uint) (*domain.Statistics, error) {
	stats := &domain.Statistics{
		ByStatus:   make(map[string]int64),
		ByPriority: make(map[string]int64),
	}

	type bucket struct {
		Key   string
		Count int64
	}

	var byStatus []bucket
	err := r.db.Model(&domain.WorkOrder{}).
		Select("status AS key, COUNT(*) AS count").
		Where("company_id = ?", companyID).
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, err
	}
	for _, b := range byStatus {
		stats.ByStatus[b.Key] = b.Count
		stats.Total += b.Count
	}

	var byPriority []bucket
	err = r.db.Model(&domain.WorkOrder{}).
		Select("priority AS key, COUNT(*) AS count").
		Where("company_id = ?", companyID).
		Group("priority").
		Scan(&byPriority).Error
	if err != nil {
		return nil, err
	}
	for _, b := range byPriority {
		stats.ByPriority[b.Key] = b.Count
	}

	stats.CompletedCount = stats.ByStatus[domain.StatusCompleted] + stats.ByStatus[domain.StatusClosed]
	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.CompletedCount) / float64(stats.Total)
	}

	var avg *float64
	err = r.db.Model(&domain.WorkOrder{}).
		Select("AVG(progress_percentage)").
		Where("company_id = ? AND status NOT IN ?", companyID,
			[]string{domain.StatusCancelled, domain.StatusRejected}).
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	if avg != nil {
		stats.AvgProgress = *avg
	}

	return stats, nil
}
