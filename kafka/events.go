package kafka

import "time"

// FaultReportedEvent arrives from the fault-intake service when a
// technician or tenant files a fault against an asset.
type FaultReportedEvent struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	CompanyID     uint      `json:"company_id"`
	FaultReportID uint      `json:"fault_report_id"`
	AssetID       uint      `json:"asset_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Severity      string    `json:"severity"`
	Location      string    `json:"location"`
	ReportedBy    uint      `json:"reported_by"`
	Timestamp     time.Time `json:"timestamp"`
}

// WorkOrderAssignedEvent is published when a worker accepts a work order.
type WorkOrderAssignedEvent struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	CompanyID   uint      `json:"company_id"`
	WorkOrderID uint      `json:"work_order_id"`
	Number      string    `json:"number"`
	AssetID     uint      `json:"asset_id"`
	AssignedTo  uint      `json:"assigned_to"`
	Priority    string    `json:"priority"`
	Timestamp   time.Time `json:"timestamp"`
}

// WorkOrderCompletedEvent is published when a work order finishes.
type WorkOrderCompletedEvent struct {
	EventID             string    `json:"event_id"`
	EventType           string    `json:"event_type"`
	CompanyID           uint      `json:"company_id"`
	WorkOrderID         uint      `json:"work_order_id"`
	Number              string    `json:"number"`
	AssetID             uint      `json:"asset_id"`
	CompletedBy         uint      `json:"completed_by"`
	ActualCost          string    `json:"actual_cost"`
	ActualDurationHours string    `json:"actual_duration_hours"`
	Timestamp           time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeFaultReported      = "fault.reported"
	EventTypeWorkOrderAssigned  = "workorder.assigned"
	EventTypeWorkOrderCompleted = "workorder.completed"
)

// Kafka topics
const (
	TopicFaultReported      = "fault-reported"
	TopicWorkOrderAssigned  = "workorder-assigned"
	TopicWorkOrderCompleted = "workorder-completed"
)
