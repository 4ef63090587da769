package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/qiro-dev/facility-maintenance/internal/inventory/usecase/command"
	"github.com/qiro-dev/facility-maintenance/internal/inventory/usecase/query"
	"github.com/qiro-dev/facility-maintenance/pkg/auth"
	"github.com/qiro-dev/facility-maintenance/pkg/httpx"
)

// InventoryHandler handles HTTP requests for the stock ledger
type InventoryHandler struct {
	deductHandler  *command.DeductStockHandler
	reverseHandler *command.ReverseDeductionHandler
	upsertHandler  *command.UpsertStockHandler

	byWorkOrderHandler *query.GetByWorkOrderHandler
	byMaterialHandler  *query.GetByMaterialHandler
	statsHandler       *query.GetStatisticsHandler
	alertsHandler      *query.LowStockAlertsHandler
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(
	deductHandler *command.DeductStockHandler,
	reverseHandler *command.ReverseDeductionHandler,
	upsertHandler *command.UpsertStockHandler,
	byWorkOrderHandler *query.GetByWorkOrderHandler,
	byMaterialHandler *query.GetByMaterialHandler,
	statsHandler *query.GetStatisticsHandler,
	alertsHandler *query.LowStockAlertsHandler,
) *InventoryHandler {
	return &InventoryHandler{
		deductHandler:      deductHandler,
		reverseHandler:     reverseHandler,
		upsertHandler:      upsertHandler,
		byWorkOrderHandler: byWorkOrderHandler,
		byMaterialHandler:  byMaterialHandler,
		statsHandler:       statsHandler,
		alertsHandler:      alertsHandler,
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

// Deduct handles POST /api/inventory/deductions
func (h *InventoryHandler) Deduct(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	var req struct {
		MaterialID  uint            `json:"material_id"`
		WorkOrderID *uint           `json:"work_order_id"`
		ScheduleID  *uint           `json:"schedule_id"`
		Type        string          `json:"type"`
		Quantity    decimal.Decimal `json:"quantity"`
		Reason      string          `json:"reason"`
		IsAutomatic bool            `json:"is_automatic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid request body"})
		return
	}

	entry, err := h.deductHandler.Handle(r.Context(), command.DeductStockCommand{
		CompanyID:   claims.CompanyID,
		MaterialID:  req.MaterialID,
		WorkOrderID: req.WorkOrderID,
		ScheduleID:  req.ScheduleID,
		Type:        req.Type,
		Quantity:    req.Quantity,
		Reason:      req.Reason,
		IsAutomatic: req.IsAutomatic,
		PerformedBy: claims.UserID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondJSON(w, http.StatusCreated, httpx.Response{Success: true, Message: "Stock deducted", Data: entry})
}

// Reverse handles POST /api/inventory/deductions/{id}/reverse
func (h *InventoryHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid deduction ID"})
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid request body"})
		return
	}

	entry, err := h.reverseHandler.Handle(r.Context(), command.ReverseDeductionCommand{
		CompanyID:   claims.CompanyID,
		LogID:       uint(id),
		Reason:      req.Reason,
		PerformedBy: claims.UserID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, httpx.Response{Success: true, Message: "Deduction reversed", Data: entry})
}

// UpsertStock handles PUT /api/inventory/stocks
func (h *InventoryHandler) UpsertStock(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	var req struct {
		MaterialID   uint            `json:"material_id"`
		MaterialName string          `json:"material_name"`
		Unit         string          `json:"unit"`
		Quantity     decimal.Decimal `json:"quantity"`
		MinimumStock decimal.Decimal `json:"minimum_stock"`
		ReorderPoint decimal.Decimal `json:"reorder_point"`
		UnitCost     decimal.Decimal `json:"unit_cost"`
		Location     string          `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid request body"})
		return
	}

	stock, err := h.upsertHandler.Handle(r.Context(), command.UpsertStockCommand{
		CompanyID:    claims.CompanyID,
		MaterialID:   req.MaterialID,
		MaterialName: req.MaterialName,
		Unit:         req.Unit,
		Quantity:     req.Quantity,
		MinimumStock: req.MinimumStock,
		ReorderPoint: req.ReorderPoint,
		UnitCost:     req.UnitCost,
		Location:     req.Location,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, httpx.Response{Success: true, Message: "Stock saved", Data: stock})
}

// ByWorkOrder handles GET /api/inventory/deductions/workorder/{id}
func (h *InventoryHandler) ByWorkOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid work order ID"})
		return
	}

	logs, err := h.byWorkOrderHandler.Handle(query.GetByWorkOrderQuery{
		CompanyID:   claims.CompanyID,
		WorkOrderID: uint(id),
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondData(w, http.StatusOK, logs)
}

// ByMaterial handles GET /api/inventory/deductions/material/{id}
func (h *InventoryHandler) ByMaterial(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		httpx.RespondJSON(w, http.StatusBadRequest, httpx.Response{Success: false, Error: "Invalid material ID"})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	logs, err := h.byMaterialHandler.Handle(query.GetByMaterialQuery{
		CompanyID:  claims.CompanyID,
		MaterialID: uint(id),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondData(w, http.StatusOK, logs)
}

// Statistics handles GET /api/inventory/statistics
func (h *InventoryHandler) Statistics(w http.ResponseWriter, r *http.Request) {
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

// LowStockAlerts handles GET /api/inventory/alerts
func (h *InventoryHandler) LowStockAlerts(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(w, r)
	if !ok {
		return
	}

	alerts, err := h.alertsHandler.Handle(query.LowStockAlertsQuery{CompanyID: claims.CompanyID})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.RespondData(w, http.StatusOK, alerts)
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/inventory/deductions", h.Deduct).Methods("POST")
	router.HandleFunc("/api/inventory/deductions/{id}/reverse", h.Reverse).Methods("POST")
	router.HandleFunc("/api/inventory/deductions/workorder/{id}", h.ByWorkOrder).Methods("GET")
	router.HandleFunc("/api/inventory/deductions/material/{id}", h.ByMaterial).Methods("GET")
	router.HandleFunc("/api/inventory/stocks", h.UpsertStock).Methods("PUT")
	router.HandleFunc("/api/inventory/statistics", h.Statistics).Methods("GET")
	router.HandleFunc("/api/inventory/alerts", h.LowStockAlerts).Methods("GET")
}
