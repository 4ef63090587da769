package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/qiro-dev/facility-maintenance/internal/conflict"
	scheduledomain "github.com/qiro-dev/facility-maintenance/internal/schedule/domain"
	workorderdomain "github.com/qiro-dev/facility-maintenance/internal/workorder/domain"
)

// GormBookingSource reads active work orders and maintenance schedules
// as booking snapshots for the conflict detector.
type GormBookingSource struct {
	db *gorm.DB
}

// NewGormBookingSource creates a new gorm-backed booking source
func NewGormBookingSource(db *gorm.DB) *GormBookingSource {
	return &GormBookingSource{db: db}
}

var activeWorkOrderStatuses = []string{
	workorderdomain.StatusApproved,
	workorderdomain.StatusAssigned,
	workorderdomain.StatusInProgress,
	workorderdomain.StatusPaused,
}

var activeScheduleStatuses = []string{
	scheduledomain.StatusScheduled,
	scheduledomain.StatusInProgress,
	scheduledomain.StatusRescheduled,
}

// ActiveBookings loads every non-terminal work order and maintenance
// schedule for the company whose window may touch the probe window.
// Schedules without explicit times reserve their whole scheduled day, so
// the date filter is widened by one day on each side and the exact
// overlap check stays with the detector.
func (s *GormBookingSource) ActiveBookings(ctx context.Context, companyID uint, window conflict.Window) ([]conflict.Booking, error) {
	var workOrders []workorderdomain.WorkOrder
	err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("status IN ?", activeWorkOrderStatuses).
		Where("scheduled_start IS NOT NULL AND scheduled_end IS NOT NULL").
		Where("scheduled_start < ? AND scheduled_end > ?", window.End, window.Start).
		Find(&workOrders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load work order bookings: %w", err)
	}

	var schedules []scheduledomain.MaintenanceSchedule
	err = s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("status IN ?", activeScheduleStatuses).
		Where("scheduled_date < ? AND scheduled_date > ?",
			window.End, window.Start.AddDate(0, 0, -1)).
		Find(&schedules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule bookings: %w", err)
	}

	safetyTagged, err := s.safetyTaggedAssets(ctx, companyID)
	if err != nil {
		return nil, err
	}

	bookings := make([]conflict.Booking, 0, len(workOrders)+len(schedules))
	for i := range workOrders {
		wo := &workOrders[i]
		var technicianID uint
		if wo.AssignedTo != nil {
			technicianID = *wo.AssignedTo
		}
		bookings = append(bookings, conflict.Booking{
			RefID:        wo.ID,
			RefKind:      "work_order",
			Title:        wo.Title,
			AssetID:      wo.AssetID,
			TechnicianID: technicianID,
			Priority:     wo.Priority,
			Urgency:      wo.Urgency,
			Resource:     wo.Resource,
			SafetyTagged: safetyTagged[wo.AssetID],
			Window:       conflict.Window{Start: *wo.ScheduledStart, End: *wo.ScheduledEnd},
		})
	}
	for i := range schedules {
		ms := &schedules[i]
		var technicianID uint
		if ms.AssignedTo != nil {
			technicianID = *ms.AssignedTo
		}
		start, end := ms.Window()
		bookings = append(bookings, conflict.Booking{
			RefID:        ms.ID,
			RefKind:      "maintenance_schedule",
			Title:        ms.Title,
			AssetID:      ms.AssetID,
			TechnicianID: technicianID,
			Priority:     ms.Priority,
			SafetyTagged: safetyTagged[ms.AssetID],
			Window:       conflict.Window{Start: start, End: end},
		})
	}
	return bookings, nil
}

func (s *GormBookingSource) safetyTaggedAssets(ctx context.Context, companyID uint) (map[uint]bool, error) {
	var ids []uint
	err := s.db.WithContext(ctx).
		Table("facility_assets").
		Where("company_id = ? AND safety_tagged = ?", companyID, true).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load safety-tagged assets: %w", err)
	}
	tagged := make(map[uint]bool, len(ids))
	for _, id := range ids {
		tagged[id] = true
	}
	return tagged, nil
}
