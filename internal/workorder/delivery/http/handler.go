package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/qiro-dev/facility-maintenance/internal/workorder/domain"
	"github.com/qiro-dev/facility-maintenance/internal/workorder/usecase/command"
	"github.com/qiro-dev/facility-maintenance/internal/workorder/usecase/query"
	"github.com/qiro-dev/facility-maintenance/pkg/auth"
	"github.com/qiro-dev/facility-maintenance/pkg/httpx"
)

// WorkOrderHandler handles HTTP requests for work orders
type WorkOrderHandler struct {
	// Command handlers
	createHandler      *command.CreateWorkOrderHandler
	approveHandler     *command.ApproveWorkOrderHandler
	rejectHandler      *command.RejectWorkOrderHandler
	assignHandler      *command.AssignWorkerHandler
	statusHandler      *command.UpdateStatusHandler
	progressHandler    *command.UpdateProgressHandler
	pauseHandler       *command.PauseWorkOrderHandler
	resumeHandler      *command.ResumeWorkOrderHandler
	completeHandler    *command.CompleteWorkOrderHandler
	cancelHandler      *command.CancelWorkOrderHandler
	batchStatusHandler *command.BatchUpdateStatusHandler
	batchAssignHandler *command.BatchAssignHandler

	// Query handlers
	getHandler   *query.GetWorkOrderHandler
	listHandler  *query.ListWorkOrdersHandler
	statsHandler *query.GetStatisticsHandler
}

// NewWorkOrderHandler creates a new work order handler
func NewWorkOrderHandler(
	createHandler *command.CreateWorkOrderHandler,
	approveHandler *command.ApproveWorkOrderHandler,
	rejectHandler *command.RejectWorkOrderHandler,
	assignHandler *command.AssignWorkerHandler,
	statusHandler *command.UpdateStatusHandler,
	progressHandler *command.UpdateProgressHandler,
	pauseHandler *command.PauseWorkOrderHandler,
	resumeHandler *command.ResumeWorkOrderHandler,
	completeHandler *command.CompleteWorkOrderHandler,
	cancelHandler *command.CancelWorkOrderHandler,
	getHandler *query.GetWorkOrderHandler,
	listHandler *query.ListWorkOrdersHandler,
	statsHandler *query.GetStatisticsHandler,
) *WorkOrderHandler {
	return &WorkOrderHandler{
		createHandler:      createHandler,
		approveHandler:     approveHandler,
		rejectHandler:      rejectHandler,
		assignHandler:      assignHandler,
		statusHandler:      statusHandler,
		progressHandler:    progressHandler,
		pauseHandler:       pauseHandler,
		resumeHandler:      resumeHandler,
		completeHandler:    completeHandler,
		cancelHandler:      cancelHandler,
		batchStatusHandler: command.NewBatchUpdateStatusHandler(statusHandler),
		batchAssignHandler: command.NewBatchAssignHandler(assignHandler),
		getHandler:         getHandler,
		listHandler:        listHandler,
		statsHandler:       statsHandler,
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

// Create handles POST /api/workorders
func (h *WorkOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	var req struct {
		Title          string           `json:"title"`
		Description    string           `json:"description"`
		Category       string           `json:"category"`
		WorkType       string           `json:"work_type"`
		Priority       string           `json:"priority"`
		Urgency        string           `json:"urgency"`
		AssetID        uint             `json:"asset_id"`
		Location       string           `json:"location"`
		Resource       string           `json:"resource"`
		ScheduledStart *time.Time       `json:"scheduled_start"`
		ScheduledEnd   *time.Time       `json:"scheduled_end"`
		EstimatedCost  *decimal.Decimal `json:"estimated_cost"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid request body"})
		return
	}

	cmd := command.CreateWorkOrderCommand{
		CompanyID:      claims.CompanyID,
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		WorkType:       req.WorkType,
		Priority:       req.Priority,
		Urgency:        req.Urgency,
		AssetID:        req.AssetID,
		Location:       req.Location,
		Resource:       req.Resource,
		RequestedBy:    claims.UserID,
		ScheduledStart: req.ScheduledStart,
		ScheduledEnd:   req.ScheduledEnd,
	}
	if req.EstimatedCost != nil {
		cmd.EstimatedCost = *req.EstimatedCost
	}

	wo, err := h.createHandler.Handle(r.Context(), cmd)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondJSON(w, http.StatusCreated, httpx.Response{
		Success: true,
		Message: "Work order created successfully",
		Data:    wo,
	})
}

// Get handles GET /api/workorders/{id}
func (h *WorkOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid work order ID"})
		return
	}

	wo, err := h.getHandler.Handle(query.GetWorkOrderQuery{CompanyID: claims.CompanyID, WorkOrderID: id})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondData(w, http.StatusOK, wo)
}

// List handles GET /api/workorders
func (h *WorkOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	assetID, _ := strconv.ParseUint(q.Get("asset_id"), 10, 32)
	assignedTo, _ := strconv.ParseUint(q.Get("assigned_to"), 10, 32)

	filter := domain.SearchFilter{
		Status:     q.Get("status"),
		Category:   q.Get("category"),
		Priority:   q.Get("priority"),
		AssetID:    uint(assetID),
		AssignedTo: uint(assignedTo),
		Limit:      limit,
		Offset:     offset,
	}
	if from, err := time.Parse(time.RFC3339, q.Get("from")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse(time.RFC3339, q.Get("to")); err == nil {
		filter.To = &to
	}

	orders, err := h.listHandler.Handle(query.ListWorkOrdersQuery{CompanyID: claims.CompanyID, Filter: filter})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondData(w, http.StatusOK, orders)
}

// Statistics handles GET /api/workorders/statistics
func (h *WorkOrderHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	stats, err := h.statsHandler.Handle(query.GetStatisticsQuery{CompanyID: claims.CompanyID})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondData(w, http.StatusOK, stats)
}

// Approve handles POST /api/workorders/{id}/approve
func (h *WorkOrderHandler) Approve(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid work order ID"})
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	wo, err := h.approveHandler.Handle(r.Context(), command.ApproveWorkOrderCommand{
		CompanyID:   claims.CompanyID,
		WorkOrderID: id,
		ApproverID:  claims.UserID,
		Notes:       req.Notes,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, httpx.Response{Success: true, Message: "Work order approved", Data: wo})
}

// Reject handles POST /api/workorders/{id}/reject
func (h *WorkOrderHandler) Reject(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid work order ID"})
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid request body"})
		return
	}

	wo, err := h.rejectHandler.Handle(r.Context(), command.RejectWorkOrderCommand{
		CompanyID:   claims.CompanyID,
		WorkOrderID: id,
		ApproverID:  claims.UserID,
		Reason:      req.Reason,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, httpx.Response{Success: true, Message: "Work order rejected", Data: wo})
}

// Assign handles POST /api/workorders/{id}/assign
func (h *WorkOrderHandler) Assign(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid work order ID"})
		return
	}

	var req struct {
		WorkerID uint   `json:"worker_id"`
		Team     string `json:"team"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid request body"})
		return
	}

	result, err := h.assignHandler.Handle(r.Context(), command.AssignWorkerCommand{
		CompanyID:   claims.CompanyID,
		WorkOrderID: id,
		WorkerID:    req.WorkerID,
		AssignerID:  claims.UserID,
		Team:        req.Team,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, httpx.Response{Success: true, Message: "Work order assigned", Data: result})
}

// UpdateStatus handles PUT /api/workorders/{id}/status
func (h *WorkOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid work order ID"})
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid request body"})
		return
	}

	wo, err := h.statusHandler.Handle(r.Context(), command.UpdateStatusCommand{
		CompanyID:   claims.CompanyID,
		WorkOrderID: id,
		NewStatus:   req.Status,
		ActorID:     claims.UserID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, httpx.Response{Success: true, Message: "Status updated", Data: wo})
}

// UpdateProgress handles PUT /api/workorders/{id}/progress
func (h *WorkOrderHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid work order ID"})
		return
	}

	var req struct {
		Percentage  int             `json:"percentage"`
		Phase       string          `json:"phase"`
		HoursWorked decimal.Decimal `json:"hours_worked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid request body"})
		return
	}

	wo, err := h.progressHandler.Handle(r.Context(), command.UpdateProgressCommand{
		CompanyID:   claims.CompanyID,
		WorkOrderID: id,
		Percentage:  req.Percentage,
		Phase:       req.Phase,
		HoursWorked: req.HoursWorked,
		ActorID:     claims.UserID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, httpx.Response{Success: true, Message: "Progress recorded", Data: wo})
}

// Pause handles POST /api/workorders/{id}/pause
func (h *WorkOrderHandler) Pause(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid work order ID"})
		return
	}

	wo, err := h.pauseHandler.Handle(r.Context(), claims.CompanyID, id, claims.UserID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, httpx.Response{Success: true, Message: "Work order paused", Data: wo})
}

// Resume handles POST /api/workorders/{id}/resume
func (h *WorkOrderHandler) Resume(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid work order ID"})
		return
	}

	wo, err := h.resumeHandler.Handle(r.Context(), claims.CompanyID, id, claims.UserID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, httpx.Response{Success: true, Message: "Work order resumed", Data: wo})
}

// Complete handles POST /api/workorders/{id}/complete
func (h *WorkOrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid work order ID"})
		return
	}

	var req struct {
		CompletionNotes string           `json:"completion_notes"`
		QualityRating   *int             `json:"quality_rating"`
		ActualCost      *decimal.Decimal `json:"actual_cost"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	wo, err := h.completeHandler.Handle(r.Context(), command.CompleteWorkOrderCommand{
		CompanyID:       claims.CompanyID,
		WorkOrderID:     id,
		ActorID:         claims.UserID,
		CompletionNotes: req.CompletionNotes,
		QualityRating:   req.QualityRating,
		ActualCost:      req.ActualCost,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, httpx.Response{Success: true, Message: "Work order completed", Data: wo})
}

// Cancel handles POST /api/workorders/{id}/cancel
func (h *WorkOrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid work order ID"})
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid request body"})
		return
	}

	wo, err := h.cancelHandler.Handle(r.Context(), command.CancelWorkOrderCommand{
		CompanyID:   claims.CompanyID,
		WorkOrderID: id,
		ActorID:     claims.UserID,
		Reason:      req.Reason,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, httpx.Response{Success: true, Message: "Work order cancelled", Data: wo})
}

// BatchStatus handles POST /api/workorders/batch/status
func (h *WorkOrderHandler) BatchStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	var req struct {
		WorkOrderIDs []uint `json:"work_order_ids"`
		Status       string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid request body"})
		return
	}
	if len(req.WorkOrderIDs) == 0 {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "work_order_ids is required"})
		return
	}

	result := h.batchStatusHandler.Handle(r.Context(), command.BatchUpdateStatusCommand{
		CompanyID:    claims.CompanyID,
		WorkOrderIDs: req.WorkOrderIDs,
		NewStatus:    req.Status,
		ActorID:      claims.UserID,
	})

	httpx.RespondData(w, http.StatusOK, result)
}

// BatchAssign handles POST /api/workorders/batch/assign
func (h *WorkOrderHandler) BatchAssign(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	var req struct {
		WorkOrderIDs []uint `json:"work_order_ids"`
		WorkerID     uint   `json:"worker_id"`
		Team         string `json:"team"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid request body"})
		return
	}
	if len(req.WorkOrderIDs) == 0 {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "work_order_ids is required"})
		return
	}

	result := h.batchAssignHandler.Handle(r.Context(), command.BatchAssignCommand{
		CompanyID:    claims.CompanyID,
		WorkOrderIDs: req.WorkOrderIDs,
		WorkerID:     req.WorkerID,
		AssignerID:   claims.UserID,
		Team:         req.Team,
	})

	httpx.RespondData(w, http.StatusOK, result)
}

// RegisterRoutes registers all work order routes
func (h *WorkOrderHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/workorders", h.Create).Methods("POST")
	router.HandleFunc("/api/workorders", h.List).Methods("GET")
	router.HandleFunc("/api/workorders/statistics", h.Statistics).Methods("GET")
	router.HandleFunc("/api/workorders/batch/status", h.BatchStatus).Methods("POST")
	router.HandleFunc("/api/workorders/batch/assign", h.BatchAssign).Methods("POST")
	router.HandleFunc("/api/workorders/{id}", h.Get).Methods("GET")
	router.HandleFunc("/api/workorders/{id}/approve", h.Approve).Methods("POST")
	router.HandleFunc("/api/workorders/{id}/reject", h.Reject).Methods("POST")
	router.HandleFunc("/api/workorders/{id}/assign", h.Assign).Methods("POST")
	router.HandleFunc("/api/workorders/{id}/status", h.UpdateStatus).Methods("PUT")
	router.HandleFunc("/api/workorders/{id}/progress", h.UpdateProgress).Methods("PUT")
	router.HandleFunc("/api/workorders/{id}/pause", h.Pause).Methods("POST")
	router.HandleFunc("/api/workorders/{id}/resume", h.Resume).Methods("POST")
	router.HandleFunc("/api/workorders/{id}/complete", h.Complete).Methods("POST")
	router.HandleFunc("/api/workorders/{id}/cancel", h.Cancel).Methods("POST")
}
