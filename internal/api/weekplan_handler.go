package api

import (
	"net/http"
	"time"

	"pulsefit/training-core/internal/domain"
	"pulsefit/training-core/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeekPlanHandler holds the week plan service dependency.
type WeekPlanHandler struct {
	weekPlanService service.WeekPlanService
}

// NewWeekPlanHandler creates a new WeekPlanHandler.
func NewWeekPlanHandler(weekPlanService service.WeekPlanService) *WeekPlanHandler {
	return &WeekPlanHandler{weekPlanService: weekPlanService}
}

// --- DTOs for API (Data Transfer Objects) ---

// PlanItemDTO is the summary of one assigned day.
type PlanItemDTO struct {
	RoutineID string `json:"routineId,omitempty"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle,omitempty"`
}

// WeekPlanResponse is one Monday-start week: assigned dates map to their
// items, unassigned dates are absent.
type WeekPlanResponse struct {
	WeekStart string                 `json:"weekStart"`
	Days      map[string]PlanItemDTO `json:"days"`
}

// SaveWeekPlanRequest replaces the stored week with the submitted map.
type SaveWeekPlanRequest struct {
	WeekStart string                 `json:"weekStart" binding:"required"`
	Days      map[string]PlanItemDTO `json:"days"`
}

func mapWeekToResponse(weekStart domain.Date, week domain.WeekPlan) WeekPlanResponse {
	resp := WeekPlanResponse{
		WeekStart: weekStart.String(),
		Days:      make(map[string]PlanItemDTO, len(week)),
	}
	for date, item := range week {
		dto := PlanItemDTO{Title: item.Title, Subtitle: item.Subtitle}
		if item.RoutineID != nil {
			dto.RoutineID = item.RoutineID.Hex()
		}
		resp.Days[date.String()] = dto
	}
	return resp
}

// --- Handler Methods ---

// GetWeek returns the plan map for the week containing the given date
// (defaults to the current week).
func (h *WeekPlanHandler) GetWeek(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	anchor := domain.DateOf(time.Now())
	if raw := c.Query("week"); raw != "" {
		parsed, err := domain.ParseDate(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid week date format, expected YYYY-MM-DD.")
			return
		}
		anchor = parsed
	}
	weekStart := anchor.StartOfWeek()

	week, err := h.weekPlanService.LoadWeek(c.Request.Context(), userID, weekStart)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load week plan.")
		return
	}
	c.JSON(http.StatusOK, mapWeekToResponse(weekStart, week))
}

// SaveWeek persists the submitted week map, reconciling it to plan-day rows.
func (h *WeekPlanHandler) SaveWeek(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req SaveWeekPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	anchor, err := domain.ParseDate(req.WeekStart)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid weekStart format, expected YYYY-MM-DD.")
		return
	}
	weekStart := anchor.StartOfWeek()
	weekEnd := weekStart.AddDays(6)

	week := domain.WeekPlan{}
	for rawDate, dto := range req.Days {
		date, err := domain.ParseDate(rawDate)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid day key: "+rawDate)
			return
		}
		if !date.WithinRange(weekStart, weekEnd) {
			abortWithError(c, http.StatusBadRequest, "Day outside the submitted week: "+rawDate)
			return
		}
		item := domain.PlanItem{Title: dto.Title, Subtitle: dto.Subtitle}
		if dto.RoutineID != "" {
			routineID, err := primitive.ObjectIDFromHex(dto.RoutineID)
			if err != nil {
				abortWithError(c, http.StatusBadRequest, "Invalid routine ID format.")
				return
			}
			item.RoutineID = &routineID
		}
		week[date] = item
	}

	if err := h.weekPlanService.SaveWeek(c.Request.Context(), userID, weekStart, week); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to save week plan.")
		return
	}
	c.JSON(http.StatusOK, mapWeekToResponse(weekStart, week))
}
