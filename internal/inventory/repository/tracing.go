package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/qiro-dev/facility-maintenance/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-repository")

// GormLedgerRepositoryWithTracing wraps GormLedgerRepository with tracing
type GormLedgerRepositoryWithTracing struct {
	*GormLedgerRepository
}

// NewGormLedgerRepositoryWithTracing creates a new repository with tracing
func NewGormLedgerRepositoryWithTracing(db *gorm.DB) *GormLedgerRepositoryWithTracing {
	return &GormLedgerRepositoryWithTracing{
		GormLedgerRepository: NewGormLedgerRepository(db),
	}
}

// InTx with tracing; the span covers the whole ledger transaction
// including the row lock wait.
func (r *GormLedgerRepositoryWithTracing) InTx(ctx context.Context, fn func(tx domain.LedgerTx) error) error {
	ctx, span := tracer.Start(ctx, "repository.LedgerTx")
	defer span.End()

	err := r.GormLedgerRepository.InTx(ctx, fn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

// LogsByWorkOrderWithContext with tracing
func (r *GormLedgerRepositoryWithTracing) LogsByWorkOrderWithContext(ctx context.Context, companyID, workOrderID uint) ([]domain.DeductionLog, error) {
	_, span := tracer.Start(ctx, "repository.LogsByWorkOrder",
		trace.WithAttributes(
			attribute.Int("work_order.id", int(workOrderID)),
		),
	)
	defer span.End()

	logs, err := r.GormLedgerRepository.LogsByWorkOrder(companyID, workOrderID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(logs)))
	return logs, nil
}
