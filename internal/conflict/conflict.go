// Package conflict detects scheduling conflicts between work orders and
// maintenance schedules. The detector is read-only and safe for
// concurrent use; results are advisory and callers re-check under their
// own version guard before committing an assignment.
package conflict

import (
	"time"
)

// Type classifies a detected conflict.
type Type string

const (
	TypeTimeOverlap           Type = "TIME_OVERLAP"
	TypeTechnicianUnavailable Type = "TECHNICIAN_UNAVAILABLE"
	TypeAssetUnavailable      Type = "ASSET_UNAVAILABLE"
	TypeResourceConflict      Type = "RESOURCE_CONFLICT"
)

// Severity grades a conflict. CRITICAL is reserved for exact technician
// double-booking and safety-tagged asset conflicts; only CRITICAL blocks
// an assignment.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether two half-open intervals intersect.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// IsZero reports whether the window carries no time information.
func (w Window) IsZero() bool {
	return w.Start.IsZero() || w.End.IsZero()
}

// Booking is a read-only snapshot of one time reservation, either a work
// order or a maintenance schedule.
type Booking struct {
	RefID        uint
	RefKind      string // "work_order" or "maintenance_schedule"
	Title        string
	AssetID      uint
	TechnicianID uint // 0 when unassigned
	Priority     string
	Urgency      string
	Resource     string // named shared resource, "" when none
	SafetyTagged bool
	Window       Window
}

// Conflict describes one overlap between the proposed reservation and an
// existing booking.
type Conflict struct {
	ConflictingID   uint     `json:"conflicting_id"`
	ConflictingKind string   `json:"conflicting_kind"`
	Type            Type     `json:"type"`
	Severity        Severity `json:"severity"`
	Description     string   `json:"description"`
}

// HasCritical reports whether any conflict in the list is CRITICAL.
func HasCritical(conflicts []Conflict) bool {
	for _, c := range conflicts {
		if c.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

var priorityRank = map[string]int{
	"LOW":       1,
	"MEDIUM":    2,
	"HIGH":      3,
	"URGENT":    4,
	"EMERGENCY": 5,
}

func rank(priority string) int {
	if r, ok := priorityRank[priority]; ok {
		return r
	}
	return priorityRank["MEDIUM"]
}

// criticalClass reports whether a priority/urgency pair demands immediate
// handling. Urgency CRITICAL and the top two priorities qualify.
func criticalClass(priority, urgency string) bool {
	return rank(priority) >= priorityRank["URGENT"] || urgency == "CRITICAL"
}
