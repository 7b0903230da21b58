package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vkarpov/plantmind/internal/models"
	"github.com/vkarpov/plantmind/internal/reports"
	"github.com/vkarpov/plantmind/internal/scheduling"
)

// registerRoutes sets up all API routes on the Gin router.
func registerRoutes(router *gin.Engine, deps Deps) {
	api := router.Group("/api")

	api.POST("/schedules", handleCreateSchedule(deps))
	api.GET("/schedules", handleListSchedules(deps))
	api.GET("/schedules/year/:year", handleScheduleByYear(deps))
	api.GET("/schedules/:id/month/:month", handleMonthSchedule(deps))
	api.POST("/schedules/:id/equipment", handleAddEquipment(deps))
	api.DELETE("/schedules/:id", handleDeleteSchedule(deps))

	api.PUT("/entries/:id/date", handleRelocateEntry(deps))
	api.PUT("/entries/:id/status", handleEntryStatus(deps))

	api.GET("/types", handleTypes(deps))

	api.GET("/reports/top-equipment", handleTopEquipment(deps))
	api.GET("/reports/top-causes", handleTopCauses(deps))
	api.GET("/reports/downtime-by-area", handleDowntimeByArea(deps))
	api.GET("/reports/breakdown-dynamics", handleBreakdownDynamics(deps))
	api.GET("/reports/completion-dynamics", handleCompletionDynamics(deps))

	api.POST("/assistant/query", handleAssistantQuery(deps))
}

// parseDate parses an optional YYYY-MM-DD value; empty means zero time.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", value)
	}
	return d, nil
}

func paramUint(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		badRequest(c, fmt.Sprintf("invalid %s %q", name, c.Param(name)))
		return 0, false
	}
	return uint(v), true
}

type createScheduleRequest struct {
	Year               int                           `json:"year"`
	WorkersCount       int                           `json:"workers_count"`
	ShiftDurationHours int                           `json:"shift_duration_hours"`
	StartDate          string                        `json:"start_date"`
	Equipment          []scheduling.EquipmentRequest `json:"equipment"`
}

type scheduleResponse struct {
	ID                 uint `json:"id"`
	Year               int  `json:"year"`
	WorkersCount       int  `json:"workers_count"`
	ShiftDurationHours int  `json:"shift_duration_hours"`
	EntryCount         int  `json:"entry_count,omitempty"`
}

func toScheduleResponse(s *models.Schedule) scheduleResponse {
	return scheduleResponse{
		ID:                 s.ID,
		Year:               s.Year,
		WorkersCount:       s.WorkersCount,
		ShiftDurationHours: s.ShiftDurationHours,
	}
}

func handleCreateSchedule(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createScheduleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body: "+err.Error())
			return
		}
		start, err := parseDate(req.StartDate)
		if err != nil {
			badRequest(c, err.Error())
			return
		}

		schedule, err := deps.Engine.CreateYearly(scheduling.CreateRequest{
			Year:               req.Year,
			WorkersCount:       req.WorkersCount,
			ShiftDurationHours: req.ShiftDurationHours,
			StartDate:          start,
			Equipment:          req.Equipment,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, toScheduleResponse(schedule))
	}
}

func handleListSchedules(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		schedules, err := deps.Store.AllSchedules()
		if err != nil {
			writeError(c, err)
			return
		}
		out := make([]scheduleResponse, len(schedules))
		for i := range schedules {
			out[i] = toScheduleResponse(&schedules[i])
		}
		c.JSON(http.StatusOK, out)
	}
}

func handleScheduleByYear(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		year, err := strconv.Atoi(c.Param("year"))
		if err != nil {
			badRequest(c, fmt.Sprintf("invalid year %q", c.Param("year")))
			return
		}
		schedule, err := deps.Store.FindByYear(year)
		if err != nil {
			writeError(c, err)
			return
		}
		entries, err := deps.Store.BySchedule(schedule.ID)
		if err != nil {
			writeError(c, err)
			return
		}

		resp := toScheduleResponse(schedule)
		resp.EntryCount = len(entries)
		views := make([]scheduling.EntryView, len(entries))
		for i, e := range entries {
			views[i] = scheduling.NewEntryView(e)
		}
		c.JSON(http.StatusOK, gin.H{"schedule": resp, "entries": views})
	}
}

func handleMonthSchedule(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramUint(c, "id")
		if !ok {
			return
		}
		month, err := strconv.Atoi(c.Param("month"))
		if err != nil {
			badRequest(c, fmt.Sprintf("invalid month %q", c.Param("month")))
			return
		}
		view, err := deps.Engine.MonthSchedule(id, month)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

type addEquipmentRequest struct {
	StartDate string                        `json:"start_date"`
	Equipment []scheduling.EquipmentRequest `json:"equipment"`
}

func handleAddEquipment(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramUint(c, "id")
		if !ok {
			return
		}
		var req addEquipmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body: "+err.Error())
			return
		}
		start, err := parseDate(req.StartDate)
		if err != nil {
			badRequest(c, err.Error())
			return
		}

		schedule, err := deps.Engine.AddEquipment(id, req.Equipment, start)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toScheduleResponse(schedule))
	}
}

func handleDeleteSchedule(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramUint(c, "id")
		if !ok {
			return
		}
		if err := deps.Engine.DeleteSchedule(id); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type relocateRequest struct {
	Date string `json:"date"`
}

func handleRelocateEntry(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramUint(c, "id")
		if !ok {
			return
		}
		var req relocateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body: "+err.Error())
			return
		}
		date, err := parseDate(req.Date)
		if err != nil || req.Date == "" {
			badRequest(c, "date is required in YYYY-MM-DD form")
			return
		}

		res, err := deps.Engine.RelocateEntry(id, date)
		if err != nil {
			writeError(c, err)
			return
		}
		resp := gin.H{"success": res.Success, "message": res.Message}
		if res.Entry != nil {
			resp["entry"] = scheduling.NewEntryView(*res.Entry)
		}
		c.JSON(http.StatusOK, resp)
	}
}

type statusRequest struct {
	Completed   bool `json:"completed"`
	DefectFound bool `json:"defect_found"`
}

func handleEntryStatus(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramUint(c, "id")
		if !ok {
			return
		}
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body: "+err.Error())
			return
		}
		entry, err := deps.Engine.SetEntryStatus(id, req.Completed, req.DefectFound)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, scheduling.NewEntryView(*entry))
	}
}

func handleTypes(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		types, err := deps.Store.Active()
		if err != nil {
			writeError(c, err)
			return
		}
		out := make([]scheduling.TypeInfo, len(types))
		for i, t := range types {
			out[i] = scheduling.TypeInfo{
				ID:              t.ID,
				Code:            t.Code,
				Name:            t.Name,
				DurationMinutes: t.DurationMinutes,
				ColorCode:       t.ColorCode,
			}
		}
		c.JSON(http.StatusOK, out)
	}
}

// reportRange resolves the year query param (default: current year) to a
// [start, end) range.
func reportRange(c *gin.Context) (time.Time, time.Time, int, bool) {
	year := time.Now().Year()
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			badRequest(c, fmt.Sprintf("invalid year %q", v))
			return time.Time{}, time.Time{}, 0, false
		}
		year = y
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0), year, true
}

func reportLimit(c *gin.Context) int {
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 10
}

func handleTopEquipment(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, end, _, ok := reportRange(c)
		if !ok {
			return
		}
		rows, err := reports.TopEquipment(deps.DB, start, end, reportLimit(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handleTopCauses(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, end, _, ok := reportRange(c)
		if !ok {
			return
		}
		rows, err := reports.TopCauses(deps.DB, start, end, reportLimit(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handleDowntimeByArea(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, end, _, ok := reportRange(c)
		if !ok {
			return
		}
		rows, err := reports.DowntimeByArea(deps.DB, start, end)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handleBreakdownDynamics(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, _, year, ok := reportRange(c)
		if !ok {
			return
		}
		rows, err := reports.BreakdownDynamics(deps.DB, year)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handleCompletionDynamics(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := c.Query("schedule_id")
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			badRequest(c, fmt.Sprintf("invalid schedule_id %q", v))
			return
		}
		rows, err := reports.CompletionDynamics(deps.DB, uint(id))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

type assistantRequest struct {
	Question  string `json:"question"`
	Equipment string `json:"equipment"`
}

func handleAssistantQuery(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Assistant == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant is not configured"})
			return
		}
		var req assistantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body: "+err.Error())
			return
		}
		if req.Question == "" {
			badRequest(c, "question is required")
			return
		}

		answer, kind, err := deps.Assistant.Answer(c.Request.Context(), req.Question, req.Equipment)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"answer": answer, "kind": kind})
	}
}
