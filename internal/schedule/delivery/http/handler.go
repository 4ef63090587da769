package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/qiro-dev/facility-maintenance/internal/schedule/domain"
	"github.com/qiro-dev/facility-maintenance/internal/schedule/usecase/command"
	"github.com/qiro-dev/facility-maintenance/internal/schedule/usecase/query"
	"github.com/qiro-dev/facility-maintenance/pkg/auth"
	"github.com/qiro-dev/facility-maintenance/pkg/httpx"
)

// ScheduleHandler handles HTTP requests for maintenance scheduling
type ScheduleHandler struct {
	createPlanHandler     *command.CreatePlanHandler
	autoGenerateHandler   *command.AutoGenerateHandler
	createHandler         *command.CreateScheduleHandler
	updateHandler         *command.UpdateScheduleHandler
	cancelHandler         *command.CancelScheduleHandler
	rescheduleHandler     *command.RescheduleHandler
	assignHandler         *command.AssignScheduleHandler
	updatePriorityHandler *command.UpdatePriorityHandler

	getHandler            *query.GetScheduleHandler
	listHandler           *query.ListSchedulesHandler
	calendarHandler       *query.CalendarViewHandler
	statsHandler          *query.StatisticsHandler
	checkConflictsHandler *query.CheckConflictsHandler
	optimizationHandler   *query.OptimizationHandler
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(
	createPlanHandler *command.CreatePlanHandler,
	autoGenerateHandler *command.AutoGenerateHandler,
	createHandler *command.CreateScheduleHandler,
	updateHandler *command.UpdateScheduleHandler,
	cancelHandler *command.CancelScheduleHandler,
	rescheduleHandler *command.RescheduleHandler,
	assignHandler *command.AssignScheduleHandler,
	updatePriorityHandler *command.UpdatePriorityHandler,
	getHandler *query.GetScheduleHandler,
	listHandler *query.ListSchedulesHandler,
	calendarHandler *query.CalendarViewHandler,
	statsHandler *query.StatisticsHandler,
	checkConflictsHandler *query.CheckConflictsHandler,
	optimizationHandler *query.OptimizationHandler,
) *ScheduleHandler {
	return &ScheduleHandler{
		createPlanHandler:     createPlanHandler,
		autoGenerateHandler:   autoGenerateHandler,
		createHandler:         createHandler,
		updateHandler:         updateHandler,
		cancelHandler:         cancelHandler,
		rescheduleHandler:     rescheduleHandler,
		assignHandler:         assignHandler,
		updatePriorityHandler: updatePriorityHandler,
		getHandler:            getHandler,
		listHandler:           listHandler,
		calendarHandler:       calendarHandler,
		statsHandler:          statsHandler,
		checkConflictsHandler: checkConflictsHandler,
		optimizationHandler:   optimizationHandler,
	}
}

func claimsFrom(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.RespondJSON(w, http.StatusUnauthorized, httpx.Response{
			Success: false,
			Error:   "Authentication required",
		})
		return nil, false
	}
	return claims, true
}

func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// CreatePlan handles POST /api/schedules/plans
func (h *ScheduleHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	var req struct {
		Name                   string          `json:"name"`
		Description            string          `json:"description"`
		AssetID                uint            `json:"asset_id"`
		Frequency              string          `json:"frequency"`
		IntervalValue          int             `json:"interval_value"`
		Priority               string          `json:"priority"`
		EstimatedDurationHours decimal.Decimal `json:"estimated_duration_hours"`
		TaskList               string          `json:"task_list"`
		StartDate              string          `json:"start_date"`
		EndDate                string          `json:"end_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid request body"})
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid start_date"})
		return
	}
	var end *time.Time
	if req.EndDate != "" {
		e, err := parseDate(req.EndDate)
		if err != nil {
			httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid end_date"})
			return
		}
		end = &e
	}

	plan, err := h.createPlanHandler.Handle(r.Context(), command.CreatePlanCommand{
		CompanyID:              claims.CompanyID,
		Name:                   req.Name,
		Description:            req.Description,
		AssetID:                req.AssetID,
		Frequency:              req.Frequency,
		IntervalValue:          req.IntervalValue,
		Priority:               req.Priority,
		EstimatedDurationHours: req.EstimatedDurationHours,
		TaskList:               req.TaskList,
		StartDate:              start,
		EndDate:                end,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondJSON(w, http.StatusCreated, httpx.Response{Success: true, Message: "Plan created", Data: plan})
}

// AutoGenerate handles POST /api/schedules/generate
func (h *ScheduleHandler) AutoGenerate(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	var req struct {
		PlanID            uint   `json:"plan_id"`
		AssetID           uint   `json:"asset_id"`
		StartDate         string `json:"start_date"`
		EndDate           string `json:"end_date"`
		OverwriteExisting bool   `json:"overwrite_existing"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid request body"})
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid start_date"})
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid end_date"})
		return
	}

	result, err := h.autoGenerateHandler.Handle(r.Context(), command.AutoGenerateCommand{
		CompanyID:         claims.CompanyID,
		PlanID:            req.PlanID,
		AssetID:           req.AssetID,
		StartDate:         start,
		EndDate:           end,
		OverwriteExisting: req.OverwriteExisting,
		ActorID:           claims.UserID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, httpx.Response{Success: true, Message: "Schedules generated", Data: result})
}

// Create handles POST /api/schedules
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	var req struct {
		AssetID                uint            `json:"asset_id"`
		Title                  string          `json:"title"`
		ScheduledDate          string          `json:"scheduled_date"`
		StartTime              *time.Time      `json:"start_time"`
		EndTime                *time.Time      `json:"end_time"`
		Priority               string          `json:"priority"`
		AssignedTo             *uint           `json:"assigned_to"`
		EstimatedDurationHours decimal.Decimal `json:"estimated_duration_hours"`
		Notes                  string          `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid request body"})
		return
	}

	date, err := parseDate(req.ScheduledDate)
	if err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid scheduled_date"})
		return
	}

	s, err := h.createHandler.Handle(r.Context(), command.CreateScheduleCommand{
		CompanyID:              claims.CompanyID,
		AssetID:                req.AssetID,
		Title:                  req.Title,
		ScheduledDate:          date,
		StartTime:              req.StartTime,
		EndTime:                req.EndTime,
		Priority:               req.Priority,
		AssignedTo:             req.AssignedTo,
		EstimatedDurationHours: req.EstimatedDurationHours,
		Notes:                  req.Notes,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondJSON(w, http.StatusCreated, httpx.Response{Success: true, Message: "Schedule created", Data: s})
}

// Get handles GET /api/schedules/{id}
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid schedule ID"})
		return
	}

	s, err := h.getHandler.Handle(query.GetScheduleQuery{CompanyID: claims.CompanyID, ScheduleID: id})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondData(w, http.StatusOK, s)
}

// List handles GET /api/schedules
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	planID, _ := strconv.ParseUint(q.Get("plan_id"), 10, 32)
	assetID, _ := strconv.ParseUint(q.Get("asset_id"), 10, 32)
	assignedTo, _ := strconv.ParseUint(q.Get("assigned_to"), 10, 32)

	filter := domain.ScheduleFilter{
		Status:     q.Get("status"),
		Priority:   q.Get("priority"),
		PlanID:     uint(planID),
		AssetID:    uint(assetID),
		AssignedTo: uint(assignedTo),
		Limit:      limit,
		Offset:     offset,
	}
	if from, err := parseDate(q.Get("from")); err == nil {
		filter.From = &from
	}
	if to, err := parseDate(q.Get("to")); err == nil {
		filter.To = &to
	}

	schedules, err := h.listHandler.Handle(query.ListSchedulesQuery{CompanyID: claims.CompanyID, Filter: filter})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondData(w, http.StatusOK, schedules)
}

// Update handles PUT /api/schedules/{id}
func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid schedule ID"})
		return
	}

	var req struct {
		Title                  *string          `json:"title"`
		StartTime              *time.Time       `json:"start_time"`
		EndTime                *time.Time       `json:"end_time"`
		EstimatedDurationHours *decimal.Decimal `json:"estimated_duration_hours"`
		Notes                  *string          `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid request body"})
		return
	}

	s, err := h.updateHandler.Handle(r.Context(), command.UpdateScheduleCommand{
		CompanyID:              claims.CompanyID,
		ScheduleID:             id,
		Title:                  req.Title,
		StartTime:              req.StartTime,
		EndTime:                req.EndTime,
		EstimatedDurationHours: req.EstimatedDurationHours,
		Notes:                  req.Notes,
		ActorID:                claims.UserID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, httpx.Response{Success: true, Message: "Schedule updated", Data: s})
}

// Cancel handles DELETE /api/schedules/{id}
func (h *ScheduleHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid schedule ID"})
		return
	}

	reason := r.URL.Query().Get("reason")
	if reason == "" {
		var req struct {
			Reason string `json:"reason"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		reason = req.Reason
	}

	s, err := h.cancelHandler.Handle(r.Context(), command.CancelScheduleCommand{
		CompanyID:  claims.CompanyID,
		ScheduleID: id,
		Reason:     reason,
		ActorID:    claims.UserID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, httpx.Response{Success: true, Message: "Schedule cancelled", Data: s})
}

// Reschedule handles POST /api/schedules/{id}/reschedule
func (h *ScheduleHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid schedule ID"})
		return
	}

	var req struct {
		NewDate   string     `json:"new_date"`
		StartTime *time.Time `json:"start_time"`
		EndTime   *time.Time `json:"end_time"`
		Reason    string     `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid request body"})
		return
	}

	date, err := parseDate(req.NewDate)
	if err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid new_date"})
		return
	}

	result, err := h.rescheduleHandler.Handle(r.Context(), command.RescheduleCommand{
		CompanyID:  claims.CompanyID,
		ScheduleID: id,
		NewDate:    date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Reason:     req.Reason,
		ActorID:    claims.UserID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, httpx.Response{Success: true, Message: "Schedule rescheduled", Data: result})
}

// Assign handles POST /api/schedules/{id}/assign
func (h *ScheduleHandler) Assign(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid schedule ID"})
		return
	}

	var req struct {
		WorkerID uint   `json:"worker_id"`
		Notes    string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid request body"})
		return
	}

	s, err := h.assignHandler.Handle(r.Context(), command.AssignScheduleCommand{
		CompanyID:  claims.CompanyID,
		ScheduleID: id,
		WorkerID:   req.WorkerID,
		Notes:      req.Notes,
		ActorID:    claims.UserID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, httpx.Response{Success: true, Message: "Schedule assigned", Data: s})
}

// UpdatePriority handles PUT /api/schedules/{id}/priority
func (h *ScheduleHandler) UpdatePriority(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid schedule ID"})
		return
	}

	var req struct {
		Priority string `json:"priority"`
		Reason   string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid request body"})
		return
	}

	s, err := h.updatePriorityHandler.Handle(r.Context(), command.UpdatePriorityCommand{
		CompanyID:  claims.CompanyID,
		ScheduleID: id,
		Priority:   req.Priority,
		Reason:     req.Reason,
		ActorID:    claims.UserID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, httpx.Response{Success: true, Message: "Priority updated", Data: s})
}

// Calendar handles GET /api/schedules/calendar
func (h *ScheduleHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	from, err := parseDate(r.URL.Query().Get("from"))
	if err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid from date"})
		return
	}
	to, err := parseDate(r.URL.Query().Get("to"))
	if err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid to date"})
		return
	}

	view, err := h.calendarHandler.Handle(r.Context(), query.CalendarViewQuery{
		CompanyID: claims.CompanyID,
		From:      from,
		To:        to,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondData(w, http.StatusOK, view)
}

// Statistics handles GET /api/schedules/statistics
func (h *ScheduleHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	from, err := parseDate(r.URL.Query().Get("from"))
	if err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid from date"})
		return
	}
	to, err := parseDate(r.URL.Query().Get("to"))
	if err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid to date"})
		return
	}

	stats, err := h.statsHandler.Handle(r.Context(), query.StatisticsQuery{
		CompanyID: claims.CompanyID,
		From:      from,
		To:        to,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondData(w, http.StatusOK, stats)
}

// CheckConflicts handles POST /api/schedules/conflicts/check
func (h *ScheduleHandler) CheckConflicts(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	var req struct {
		AssetID           uint       `json:"asset_id"`
		ScheduledDate     string     `json:"scheduled_date"`
		StartTime         *time.Time `json:"start_time"`
		EndTime           *time.Time `json:"end_time"`
		AssignedTo        uint       `json:"assigned_to"`
		Priority          string     `json:"priority"`
		ExcludeScheduleID uint       `json:"exclude_schedule_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid request body"})
		return
	}

	date, err := parseDate(req.ScheduledDate)
	if err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid scheduled_date"})
		return
	}

	conflicts, err := h.checkConflictsHandler.Handle(r.Context(), query.CheckConflictsQuery{
		CompanyID:         claims.CompanyID,
		AssetID:           req.AssetID,
		ScheduledDate:     date,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		AssignedTo:        req.AssignedTo,
		Priority:          req.Priority,
		ExcludeScheduleID: req.ExcludeScheduleID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondData(w, http.StatusOK, conflicts)
}

// Optimization handles GET /api/schedules/optimization
func (h *ScheduleHandler) Optimization(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	from, err := parseDate(r.URL.Query().Get("from"))
	if err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid from date"})
		return
	}
	to, err := parseDate(r.URL.Query().Get("to"))
	if err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid to date"})
		return
	}

	suggestions, err := h.optimizationHandler.Handle(query.OptimizationQuery{
		CompanyID: claims.CompanyID,
		From:      from,
		To:        to,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondData(w, http.StatusOK, suggestions)
}

// RegisterRoutes registers all schedule routes
func (h *ScheduleHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/schedules/plans", h.CreatePlan).Methods("POST")
	router.HandleFunc("/api/schedules/generate", h.AutoGenerate).Methods("POST")
	router.HandleFunc("/api/schedules/calendar", h.Calendar).Methods("GET")
	router.HandleFunc("/api/schedules/statistics", h.Statistics).Methods("GET")
	router.HandleFunc("/api/schedules/optimization", h.Optimization).Methods("GET")
	router.HandleFunc("/api/schedules/conflicts/check", h.CheckConflicts).Methods("POST")
	router.HandleFunc("/api/schedules", h.Create).Methods("POST")
	router.HandleFunc("/api/schedules", h.List).Methods("GET")
	router.HandleFunc("/api/schedules/{id}", h.Get).Methods("GET")
	router.HandleFunc("/api/schedules/{id}", h.Update).Methods("PUT")
	router.HandleFunc("/api/schedules/{id}", h.Cancel).Methods("DELETE")
	router.HandleFunc("/api/schedules/{id}/reschedule", h.Reschedule).Methods("POST")
	router.HandleFunc("/api/schedules/{id}/assign", h.Assign).Methods("POST")
	router.HandleFunc("/api/schedules/{id}/priority", h.UpdatePriority).Methods("PUT")
}
