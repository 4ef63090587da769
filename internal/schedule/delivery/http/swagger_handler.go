package http

// CreatePlan godoc
// @Summary Create maintenance plan
// @Description Create a recurring maintenance plan for an asset
// @Tags Schedules
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,asset_id=int,frequency=string,interval_value=int,priority=string,start_date=string} true "Plan data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/schedules/plans [post]
func (h *ScheduleHandler) CreatePlanDoc() {}

// AutoGenerate godoc
// @Summary Generate schedules from plans
// @Description Expand active plans into concrete schedule occurrences over a date range; reruns skip existing occurrences
// @Tags Schedules
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{plan_id=int,start_date=string,end_date=string,overwrite_existing=bool} true "Generation range"
// @Success 200 {object} object{success=bool,message=string,data=object{generated_count=int,skipped_count=int}}
// @Router /api/schedules/generate [post]
func (h *ScheduleHandler) AutoGenerateDoc() {}

// Reschedule godoc
// @Summary Reschedule maintenance
// @Description Move a schedule to a new date in place, keeping its number and history
// @Tags Schedules
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Schedule ID"
// @Param request body object{new_date=string,reason=string} true "Reschedule data"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/schedules/{id}/reschedule [post]
func (h *ScheduleHandler) RescheduleDoc() {}

// Calendar godoc
// @Summary Calendar view
// @Description Schedules over a range grouped by day
// @Tags Schedules
// @Security BearerAuth
// @Produce json
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} object{success=bool,data=object}
// @Router /api/schedules/calendar [get]
func (h *ScheduleHandler) CalendarDoc() {}

// CheckConflicts godoc
// @Summary Probe a slot for conflicts
// @Description Advisory conflict check for a proposed schedule slot
// @Tags Schedules
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{asset_id=int,scheduled_date=string,assigned_to=int} true "Proposed slot"
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/schedules/conflicts/check [post]
func (h *ScheduleHandler) CheckConflictsDoc() {}

// Optimization godoc
// @Summary Scheduling suggestions
// @Description Heuristic grouping, time-slot and priority-rebalancing hints over a range
// @Tags Schedules
// @Security BearerAuth
// @Produce json
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/schedules/optimization [get]
func (h *ScheduleHandler) OptimizationDoc() {}
