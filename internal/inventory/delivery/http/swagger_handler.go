package http

// Deduct godoc
// @Summary Deduct material stock
// @Description Atomically deduct stock and append a ledger entry; insufficient stock returns 409
// @Tags Inventory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{material_id=int,work_order_id=int,type=string,quantity=number,reason=string} true "Deduction data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/inventory/deductions [post]
func (h *InventoryHandler) DeductDoc() {}

// Reverse godoc
// @Summary Reverse a deduction
// @Description Restore stock and append a compensating ledger entry; only COMPLETED entries reverse
// @Tags Inventory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Deduction log ID"
// @Param request body object{reason=string} true "Reversal reason"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/inventory/deductions/{id}/reverse [post]
func (h *InventoryHandler) ReverseDoc() {}

// LowStockAlerts godoc
// @Summary Low stock alerts
// @Description Materials at or below reorder point with severity classification
// @Tags Inventory
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/inventory/alerts [get]
func (h *InventoryHandler) LowStockAlertsDoc() {}
