package query

import (
	"fmt"
	"sort"
	"time"

	"github.com/qiro-dev/facility-maintenance/internal/schedule/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
)

// OptimizationQuery asks for scheduling hints over a range
type OptimizationQuery struct {
	CompanyID uint
	From      time.Time
	To        time.Time
}

// OptimizationHandler produces heuristic scheduling suggestions
type OptimizationHandler struct {
	repo domain.ScheduleRepository
}

// NewOptimizationHandler creates a new optimization handler
func NewOptimizationHandler(repo domain.ScheduleRepository) *OptimizationHandler {
	return &OptimizationHandler{repo: repo}
}

// Handle inspects the range and emits advisory suggestions: group
// visits to the same asset spread over several days, shift overlapping
// same-day windows, and rebalance days overloaded with urgent work.
func (h *OptimizationHandler) Handle(q OptimizationQuery) ([]domain.Suggestion, error) {
	if q.From.IsZero() || q.To.IsZero() {
		return nil, fmt.Errorf("%w: from and to dates are required", errs.ErrValidation)
	}

	schedules, err := h.repo.InRange(q.CompanyID, q.From, q.To)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}

	var suggestions []domain.Suggestion
	suggestions = append(suggestions, groupingSuggestions(schedules)...)
	suggestions = append(suggestions, timeSlotSuggestions(schedules)...)
	suggestions = append(suggestions, prioritySuggestions(schedules)...)
	return suggestions, nil
}

// groupingSuggestions flags assets visited on several distinct days in
// the range; consolidating the visits saves travel and downtime.
func groupingSuggestions(schedules []domain.MaintenanceSchedule) []domain.Suggestion {
	byAsset := make(map[uint][]*domain.MaintenanceSchedule)
	for i := range schedules {
		s := &schedules[i]
		byAsset[s.AssetID] = append(byAsset[s.AssetID], s)
	}

	assetIDs := make([]uint, 0, len(byAsset))
	for id := range byAsset {
		assetIDs = append(assetIDs, id)
	}
	sort.Slice(assetIDs, func(i, j int) bool { return assetIDs[i] < assetIDs[j] })

	var out []domain.Suggestion
	for _, assetID := range assetIDs {
		group := byAsset[assetID]
		days := make(map[string]bool)
		ids := make([]uint, 0, len(group))
		for _, s := range group {
			days[s.ScheduledDate.Format("2006-01-02")] = true
			ids = append(ids, s.ID)
		}
		if len(days) >= 3 {
			out = append(out, domain.Suggestion{
				Type: domain.SuggestionGrouping,
				Description: fmt.Sprintf(
					"asset %d has %d visits across %d days; consider consolidating",
					assetID, len(group), len(days)),
				ScheduleIDs: ids,
			})
		}
	}
	return out
}

// timeSlotSuggestions flags same-day overlapping windows on different
// assets assigned to the same technician, or same asset twice.
func timeSlotSuggestions(schedules []domain.MaintenanceSchedule) []domain.Suggestion {
	var out []domain.Suggestion
	for i := range schedules {
		for j := i + 1; j < len(schedules); j++ {
			a, b := &schedules[i], &schedules[j]
			if !sameDay(a.ScheduledDate, b.ScheduledDate) {
				continue
			}

			aStart, aEnd := a.Window()
			bStart, bEnd := b.Window()
			if !(aStart.Before(bEnd) && bStart.Before(aEnd)) {
				continue
			}

			sameTech := a.AssignedTo != nil && b.AssignedTo != nil && *a.AssignedTo == *b.AssignedTo
			if sameTech || a.AssetID == b.AssetID {
				out = append(out, domain.Suggestion{
					Type: domain.SuggestionTimeSlot,
					Description: fmt.Sprintf(
						"schedules %s and %s overlap on %s; consider shifting one",
						a.Number, b.Number, a.ScheduledDate.Format("2006-01-02")),
					ScheduleIDs: []uint{a.ID, b.ID},
				})
			}
		}
	}
	return out
}

// prioritySuggestions flags days carrying three or more URGENT or
// EMERGENCY schedules.
func prioritySuggestions(schedules []domain.MaintenanceSchedule) []domain.Suggestion {
	byDay := make(map[string][]uint)
	for i := range schedules {
		s := &schedules[i]
		if s.Priority == "URGENT" || s.Priority == "EMERGENCY" {
			day := s.ScheduledDate.Format("2006-01-02")
			byDay[day] = append(byDay[day], s.ID)
		}
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	var out []domain.Suggestion
	for _, day := range days {
		ids := byDay[day]
		if len(ids) >= 3 {
			out = append(out, domain.Suggestion{
				Type: domain.SuggestionPriority,
				Description: fmt.Sprintf(
					"%d urgent schedules on %s; consider spreading them out", len(ids), day),
				ScheduleIDs: ids,
			})
		}
	}
	return out
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
