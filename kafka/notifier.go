package kafka

import (
	"context"

	"github.com/qiro-dev/facility-maintenance/internal/workorder/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/logger"
)

// Notifier publishes work-order lifecycle events to Kafka. Publishing is
// fire-and-forget: a broker failure is logged and never fails the
// originating command.
type Notifier struct {
	publisher *Publisher
}

// NewNotifier creates a Kafka-backed notifier
func NewNotifier(publisher *Publisher) *Notifier {
	return &Notifier{publisher: publisher}
}

func (n *Notifier) WorkOrderAssigned(ctx context.Context, wo *domain.WorkOrder) {
	var assignedTo uint
	if wo.AssignedTo != nil {
		assignedTo = *wo.AssignedTo
	}
	err := n.publisher.PublishWorkOrderAssigned(ctx, WorkOrderAssignedEvent{
		CompanyID:   wo.CompanyID,
		WorkOrderID: wo.ID,
		Number:      wo.Number,
		AssetID:     wo.AssetID,
		AssignedTo:  assignedTo,
		Priority:    wo.Priority,
	})
	if err != nil {
		logger.Logger.Error().
			Err(err).
			Uint("work_order_id", wo.ID).
			Msg("Failed to publish work order assigned event")
	}
}

func (n *Notifier) WorkOrderCompleted(ctx context.Context, wo *domain.WorkOrder) {
	var completedBy uint
	if wo.AssignedTo != nil {
		completedBy = *wo.AssignedTo
	}
	err := n.publisher.PublishWorkOrderCompleted(ctx, WorkOrderCompletedEvent{
		CompanyID:           wo.CompanyID,
		WorkOrderID:         wo.ID,
		Number:              wo.Number,
		AssetID:             wo.AssetID,
		CompletedBy:         completedBy,
		ActualCost:          wo.ActualCost.String(),
		ActualDurationHours: wo.ActualDurationHours.String(),
	})
	if err != nil {
		logger.Logger.Error().
			Err(err).
			Uint("work_order_id", wo.ID).
			Msg("Failed to publish work order completed event")
	}
}
