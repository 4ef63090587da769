//go:build wireinject
// +build wireinject

package schedule

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/qiro-dev/facility-maintenance/internal/conflict"
	"github.com/qiro-dev/facility-maintenance/internal/schedule/delivery/http"
	"github.com/qiro-dev/facility-maintenance/internal/schedule/domain"
	"github.com/qiro-dev/facility-maintenance/internal/schedule/repository"
	"github.com/qiro-dev/facility-maintenance/internal/schedule/usecase/command"
	"github.com/qiro-dev/facility-maintenance/internal/schedule/usecase/query"
	"github.com/qiro-dev/facility-maintenance/pkg/cache"
	"github.com/qiro-dev/facility-maintenance/pkg/clock"
)

// ProvidePlanRepository provides the plan repository
func ProvidePlanRepository(db *gorm.DB) domain.PlanRepository {
	return repository.NewGormPlanRepository(db)
}

// ProvideScheduleRepository provides the schedule repository
func ProvideScheduleRepository(db *gorm.DB) domain.ScheduleRepository {
	return repository.NewGormScheduleRepository(db)
}

// ProvideClock provides the system clock
func ProvideClock() clock.Clock {
	return clock.System()
}

var RepositorySet = wire.NewSet(
	ProvidePlanRepository,
	ProvideScheduleRepository,
	ProvideClock,
)

var CommandHandlerSet = wire.NewSet(
	command.NewCreatePlanHandler,
	command.NewAutoGenerateHandler,
	command.NewCreateScheduleHandler,
	command.NewUpdateScheduleHandler,
	command.NewCancelScheduleHandler,
	command.NewRescheduleHandler,
	command.NewAssignScheduleHandler,
	command.NewUpdatePriorityHandler,
)

var QueryHandlerSet = wire.NewSet(
	query.NewGetScheduleHandler,
	query.NewListSchedulesHandler,
	query.NewCalendarViewHandler,
	query.NewStatisticsHandler,
	query.NewCheckConflictsHandler,
	query.NewOptimizationHandler,
)

// InitializeHTTPHandler initializes the schedule HTTP handler with all
// dependencies.
func InitializeHTTPHandler(db *gorm.DB, detector *conflict.Detector, c *cache.Cache) (*http.ScheduleHandler, error) {
	wire.Build(
		RepositorySet,
		CommandHandlerSet,
		QueryHandlerSet,
		http.NewScheduleHandler,
	)
	return nil, nil
}
