package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation for the maintenance service
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// Create godoc
// @Summary Create work order
// @Description Create a new maintenance work order in PENDING state
// @Tags WorkOrders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{title=string,description=string,category=string,priority=string,asset_id=int,location=string} true "Work order data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/workorders [post]
func (h *WorkOrderHandler) CreateDoc() {}

// List godoc
// @Summary List work orders
// @Description Search work orders with filters and pagination
// @Tags WorkOrders
// @Security BearerAuth
// @Produce json
// @Param status query string false "Status filter"
// @Param priority query string false "Priority filter"
// @Param asset_id query int false "Asset filter"
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/workorders [get]
func (h *WorkOrderHandler) ListDoc() {}

// Assign godoc
// @Summary Assign technician
// @Description Assign a technician to a work order; blocked by critical scheduling conflicts
// @Tags WorkOrders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Work order ID"
// @Param request body object{worker_id=int,team=string} true "Assignment data"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/workorders/{id}/assign [post]
func (h *WorkOrderHandler) AssignDoc() {}

// UpdateStatus godoc
// @Summary Transition work order status
// @Description Apply a lifecycle transition; illegal edges return 409
// @Tags WorkOrders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Work order ID"
// @Param request body object{status=string} true "Target status"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/workorders/{id}/status [put]
func (h *WorkOrderHandler) UpdateStatusDoc() {}

// Complete godoc
// @Summary Complete work order
// @Description Complete an in-progress work order and record actuals
// @Tags WorkOrders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Work order ID"
// @Param request body object{completion_notes=string,quality_rating=int} false "Completion data"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/workorders/{id}/complete [post]
func (h *WorkOrderHandler) CompleteDoc() {}

// Statistics godoc
// @Summary Work order statistics
// @Description Aggregate counts, completion rate and average progress
// @Tags WorkOrders
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Router /api/workorders/statistics [get]
func (h *WorkOrderHandler) StatisticsDoc() {}
