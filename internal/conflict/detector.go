package conflict

import (
	"context"
	"fmt"
)

// Request describes a proposed reservation to check against existing
// bookings.
type Request struct {
	AssetID      uint
	TechnicianID uint // 0 skips technician checks
	Priority     string
	Urgency      string
	Resource     string
	SafetyTagged bool
	Window       Window

	// ExcludeKind/ExcludeID drop the booking being edited from the
	// comparison, so a reschedule does not conflict with itself.
	ExcludeKind string
	ExcludeID   uint
}

// BookingSource provides the read-only snapshot of reservations for one
// company overlapping a window.
type BookingSource interface {
	ActiveBookings(ctx context.Context, companyID uint, window Window) ([]Booking, error)
}

// Detector finds conflicts for a proposed reservation. It never mutates
// state.
type Detector struct {
	source BookingSource
}

// NewDetector creates a detector over the given booking source.
func NewDetector(source BookingSource) *Detector {
	return &Detector{source: source}
}

// FindConflicts returns every conflict between the request and existing
// bookings, ordered as returned by the source.
func (d *Detector) FindConflicts(ctx context.Context, companyID uint, req Request) ([]Conflict, error) {
	if req.Window.IsZero() {
		return nil, nil
	}

	bookings, err := d.source.ActiveBookings(ctx, companyID, req.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	var conflicts []Conflict
	for _, b := range bookings {
		if b.RefKind == req.ExcludeKind && b.RefID == req.ExcludeID {
			continue
		}
		if !req.Window.Overlaps(b.Window) {
			continue
		}

		if c, ok := classify(req, b); ok {
			conflicts = append(conflicts, c)
		}
	}
	return conflicts, nil
}

// classify applies the severity rules to one overlapping booking.
func classify(req Request, b Booking) (Conflict, bool) {
	// Exact technician double-booking outranks everything else.
	if req.TechnicianID != 0 && b.TechnicianID == req.TechnicianID {
		severity := SeverityHigh
		if criticalClass(req.Priority, req.Urgency) || criticalClass(b.Priority, b.Urgency) {
			severity = SeverityCritical
		}
		return Conflict{
			ConflictingID:   b.RefID,
			ConflictingKind: b.RefKind,
			Type:            TypeTechnicianUnavailable,
			Severity:        severity,
			Description:     fmt.Sprintf("technician %d already booked by %s %d (%s)", req.TechnicianID, b.RefKind, b.RefID, b.Title),
		}, true
	}

	if req.AssetID != 0 && b.AssetID == req.AssetID {
		if req.SafetyTagged || b.SafetyTagged {
			return Conflict{
				ConflictingID:   b.RefID,
				ConflictingKind: b.RefKind,
				Type:            TypeAssetUnavailable,
				Severity:        SeverityCritical,
				Description:     fmt.Sprintf("safety-tagged asset %d already reserved by %s %d", req.AssetID, b.RefKind, b.RefID),
			}, true
		}

		if rank(b.Priority) > rank(req.Priority) {
			return Conflict{
				ConflictingID:   b.RefID,
				ConflictingKind: b.RefKind,
				Type:            TypeAssetUnavailable,
				Severity:        SeverityHigh,
				Description:     fmt.Sprintf("asset %d reserved by higher-priority %s %d", req.AssetID, b.RefKind, b.RefID),
			}, true
		}

		return Conflict{
			ConflictingID:   b.RefID,
			ConflictingKind: b.RefKind,
			Type:            TypeTimeOverlap,
			Severity:        overlapSeverity(b),
			Description:     fmt.Sprintf("asset %d has an overlapping %s %d", req.AssetID, b.RefKind, b.RefID),
		}, true
	}

	if req.Resource != "" && b.Resource == req.Resource {
		severity := SeverityMedium
		if criticalClass(b.Priority, b.Urgency) {
			severity = SeverityHigh
		}
		return Conflict{
			ConflictingID:   b.RefID,
			ConflictingKind: b.RefKind,
			Type:            TypeResourceConflict,
			Severity:        severity,
			Description:     fmt.Sprintf("resource %q already reserved by %s %d", req.Resource, b.RefKind, b.RefID),
		}, true
	}

	return Conflict{}, false
}

func overlapSeverity(b Booking) Severity {
	switch {
	case rank(b.Priority) >= priorityRank["URGENT"]:
		return SeverityHigh
	case rank(b.Priority) == priorityRank["HIGH"]:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
