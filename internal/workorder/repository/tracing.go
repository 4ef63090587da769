package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/qiro-dev/facility-maintenance/internal/workorder/domain"
)

var tracer = otel.Tracer("workorder-repository")

// GormWorkOrderRepositoryWithTracing wraps GormWorkOrderRepository with tracing
type GormWorkOrderRepositoryWithTracing struct {
	*GormWorkOrderRepository
}

// NewGormWorkOrderRepositoryWithTracing creates a new repository with tracing
func NewGormWorkOrderRepositoryWithTracing(db *gorm.DB) *GormWorkOrderRepositoryWithTracing {
	return &GormWorkOrderRepositoryWithTracing{
		GormWorkOrderRepository: NewGormWorkOrderRepository(db),
	}
}

// CreateWithContext persists a work order under a span.
func (r *GormWorkOrderRepositoryWithTracing) CreateWithContext(ctx context.Context, wo *domain.WorkOrder) error {
	_, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.Int("workorder.company_id", int(wo.CompanyID)),
			attribute.String("workorder.number", wo.Number),
			attribute.String("workorder.category", wo.Category),
		),
	)
	defer span.End()

	err := r.GormWorkOrderRepository.Create(wo)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Int("workorder.id", int(wo.ID)))
	return nil
}

// FindByIDWithContext loads a work order under a span.
func (r *GormWorkOrderRepositoryWithTracing) FindByIDWithContext(ctx context.Context, companyID, id uint) (*domain.WorkOrder, error) {
	_, span := tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(
			attribute.Int("workorder.id", int(id)),
		),
	)
	defer span.End()

	wo, err := r.GormWorkOrderRepository.FindByID(companyID, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("workorder.status", wo.Status),
		attribute.Int("workorder.version", int(wo.Version)),
	)
	return wo, nil
}

// UpdateGuardedWithContext writes a guarded update under a span.
func (r *GormWorkOrderRepositoryWithTracing) UpdateGuardedWithContext(ctx context.Context, wo *domain.WorkOrder, expectVersion uint) error {
	_, span := tracer.Start(ctx, "repository.UpdateGuarded",
		trace.WithAttributes(
			attribute.Int("workorder.id", int(wo.ID)),
			attribute.String("workorder.status", wo.Status),
			attribute.Int("workorder.expect_version", int(expectVersion)),
		),
	)
	defer span.End()

	err := r.GormWorkOrderRepository.UpdateGuarded(wo, expectVersion)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
