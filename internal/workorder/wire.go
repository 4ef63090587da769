//go:build wireinject
// +build wireinject

package workorder

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/qiro-dev/facility-maintenance/internal/conflict"
	"github.com/qiro-dev/facility-maintenance/internal/directory"
	"github.com/qiro-dev/facility-maintenance/internal/workorder/delivery/http"
	"github.com/qiro-dev/facility-maintenance/internal/workorder/domain"
	"github.com/qiro-dev/facility-maintenance/internal/workorder/repository"
	"github.com/qiro-dev/facility-maintenance/internal/workorder/usecase/command"
	"github.com/qiro-dev/facility-maintenance/internal/workorder/usecase/query"
	"github.com/qiro-dev/facility-maintenance/pkg/clock"
)

// ProvideWorkOrderRepository provides the traced work order repository
func ProvideWorkOrderRepository(db *gorm.DB) domain.WorkOrderRepository {
	return repository.NewGormWorkOrderRepositoryWithTracing(db)
}

// ProvideAssetDirectory provides the asset directory
func ProvideAssetDirectory(db *gorm.DB) directory.AssetDirectory {
	return directory.NewGormAssetDirectory(db)
}

// ProvideUserDirectory provides the user directory
func ProvideUserDirectory(db *gorm.DB) directory.UserDirectory {
	return directory.NewGormUserDirectory(db)
}

// ProvideClock provides the system clock
func ProvideClock() clock.Clock {
	return clock.System()
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideWorkOrderRepository,
	ProvideAssetDirectory,
	ProvideUserDirectory,
	ProvideClock,
)

var CommandHandlerSet = wire.NewSet(
	command.NewCreateWorkOrderHandler,
	command.NewApproveWorkOrderHandler,
	command.NewRejectWorkOrderHandler,
	command.NewAssignWorkerHandler,
	command.NewUpdateStatusHandler,
	command.NewUpdateProgressHandler,
	command.NewPauseWorkOrderHandler,
	command.NewResumeWorkOrderHandler,
	command.NewCompleteWorkOrderHandler,
	command.NewCancelWorkOrderHandler,
)

var QueryHandlerSet = wire.NewSet(
	query.NewGetWorkOrderHandler,
	query.NewListWorkOrdersHandler,
	query.NewGetStatisticsHandler,
)

// InitializeHTTPHandler initializes the work order HTTP handler with all
// dependencies.
func InitializeHTTPHandler(db *gorm.DB, detector *conflict.Detector, notifier domain.Notifier) (*http.WorkOrderHandler, error) {
	wire.Build(
		RepositorySet,
		CommandHandlerSet,
		QueryHandlerSet,
		http.NewWorkOrderHandler,
	)
	return nil, nil
}
