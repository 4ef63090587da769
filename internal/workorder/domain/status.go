package domain

// Work order statuses
const (
	StatusPending    = "PENDING"
	StatusApproved   = "APPROVED"
	StatusAssigned   = "ASSIGNED"
	StatusInProgress = "IN_PROGRESS"
	StatusPaused     = "PAUSED"
	StatusCompleted  = "COMPLETED"
	StatusClosed     = "CLOSED"
	StatusRejected   = "REJECTED"
	StatusCancelled  = "CANCELLED"
)

// Approval statuses
const (
	ApprovalPending  = "PENDING"
	ApprovalApproved = "APPROVED"
	ApprovalRejected = "REJECTED"
)

// Work categories
const (
	CategoryPreventive  = "PREVENTIVE"
	CategoryCorrective  = "CORRECTIVE"
	CategoryEmergency   = "EMERGENCY"
	CategoryImprovement = "IMPROVEMENT"
	CategoryInspection  = "INSPECTION"
)

// Priorities
const (
	PriorityLow       = "LOW"
	PriorityMedium    = "MEDIUM"
	PriorityHigh      = "HIGH"
	PriorityUrgent    = "URGENT"
	PriorityEmergency = "EMERGENCY"
)

// Urgencies
const (
	UrgencyLow      = "LOW"
	UrgencyNormal   = "NORMAL"
	UrgencyHigh     = "HIGH"
	UrgencyCritical = "CRITICAL"
)

// Work phases, derived from progress percentage
const (
	PhasePlanning    = "PLANNING"
	PhasePreparation = "PREPARATION"
	PhaseExecution   = "EXECUTION"
	PhaseTesting     = "TESTING"
	PhaseCompletion  = "COMPLETION"
	PhaseClosure     = "CLOSURE"
)

// allowedTransitions is the closed transition table of the work-order
// state machine. CANCELLED is reachable from every non-terminal state;
// CLOSED is an administrative terminal reachable only from COMPLETED.
var allowedTransitions = map[string][]string{
	StatusPending:    {StatusApproved, StatusAssigned, StatusRejected, StatusCancelled},
	StatusApproved:   {StatusAssigned, StatusRejected, StatusCancelled},
	StatusAssigned:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusPaused, StatusCompleted, StatusCancelled},
	StatusPaused:     {StatusInProgress, StatusCancelled},
	StatusCompleted:  {StatusClosed},
	StatusRejected:   {},
	StatusCancelled:  {},
	StatusClosed:     {},
}

// CanTransition reports whether the edge from → to exists in the
// transition table.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Statuses returns every known status.
func Statuses() []string {
	return []string{
		StatusPending, StatusApproved, StatusAssigned, StatusInProgress,
		StatusPaused, StatusCompleted, StatusClosed, StatusRejected, StatusCancelled,
	}
}

// IsTerminal reports whether no further status transition is possible.
func IsTerminal(status string) bool {
	return len(allowedTransitions[status]) == 0
}

// IsCancellable reports whether a work order in this status may still be
// cancelled.
func IsCancellable(status string) bool {
	return CanTransition(status, StatusCancelled)
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent, PriorityEmergency:
		return true
	}
	return false
}

// ValidStatus reports whether s is a known status.
func ValidStatus(s string) bool {
	_, ok := allowedTransitions[s]
	return ok
}

// PhaseForProgress maps a progress percentage onto the matching work
// phase. Ranges follow the facility operations handbook.
func PhaseForProgress(progress int) string {
	switch {
	case progress <= 10:
		return PhasePlanning
	case progress <= 20:
		return PhasePreparation
	case progress <= 80:
		return PhaseExecution
	case progress <= 95:
		return PhaseTesting
	case progress <= 99:
		return PhaseCompletion
	default:
		return PhaseClosure
	}
}

// PriorityFromFaultSeverity maps a fault-report severity onto a work
// priority for work orders created from fault intake.
func PriorityFromFaultSeverity(severity string) string {
	switch severity {
	case "LOW":
		return PriorityLow
	case "HIGH":
		return PriorityHigh
	case "URGENT":
		return PriorityUrgent
	case "EMERGENCY", "CRITICAL":
		return PriorityEmergency
	default:
		return PriorityMedium
	}
}
