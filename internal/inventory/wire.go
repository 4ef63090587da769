//go:build wireinject
// +build wireinject

package inventory

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/qiro-dev/facility-maintenance/internal/inventory/delivery/http"
	"github.com/qiro-dev/facility-maintenance/internal/inventory/domain"
	"github.com/qiro-dev/facility-maintenance/internal/inventory/repository"
	"github.com/qiro-dev/facility-maintenance/internal/inventory/usecase/command"
	"github.com/qiro-dev/facility-maintenance/internal/inventory/usecase/query"
)

// ProvideLedgerRepository provides the traced ledger repository
func ProvideLedgerRepository(db *gorm.DB) domain.LedgerRepository {
	return repository.NewGormLedgerRepositoryWithTracing(db)
}

var RepositorySet = wire.NewSet(
	ProvideLedgerRepository,
)

var CommandHandlerSet = wire.NewSet(
	command.NewDeductStockHandler,
	command.NewReverseDeductionHandler,
	command.NewUpsertStockHandler,
)

var QueryHandlerSet = wire.NewSet(
	query.NewGetByWorkOrderHandler,
	query.NewGetByMaterialHandler,
	query.NewGetStatisticsHandler,
	query.NewLowStockAlertsHandler,
)

// InitializeHTTPHandler initializes the inventory HTTP handler with all
// dependencies.
func InitializeHTTPHandler(db *gorm.DB) (*http.InventoryHandler, error) {
	wire.Build(
		RepositorySet,
		CommandHandlerSet,
		QueryHandlerSet,
		http.NewInventoryHandler,
	)
	return nil, nil
}
