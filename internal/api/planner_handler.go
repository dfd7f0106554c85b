package api

import (
	"errors"
	"net/http"
	"time"

	"pulsefit/training-core/internal/domain"
	"pulsefit/training-core/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlannerHandler holds the planner service dependency.
type PlannerHandler struct {
	plannerService service.PlannerService
}

// NewPlannerHandler creates a new PlannerHandler.
func NewPlannerHandler(plannerService service.PlannerService) *PlannerHandler {
	return &PlannerHandler{plannerService: plannerService}
}

// --- DTOs for API (Data Transfer Objects) ---

// AssignmentResponse is the resolved training content for one date.
type AssignmentResponse struct {
	Date      string  `json:"date"`
	Kind      string  `json:"kind"`
	Title     string  `json:"title,omitempty"`
	RoutineID *string `json:"routineId,omitempty"`
}

func mapAssignmentToResponse(date domain.Date, a domain.Assignment) AssignmentResponse {
	resp := AssignmentResponse{
		Date:  date.String(),
		Kind:  string(a.Kind),
		Title: a.Title,
	}
	if a.RoutineID != nil {
		hex := a.RoutineID.Hex()
		resp.RoutineID = &hex
	}
	return resp
}

// SetOverrideRequest defines the expected JSON for writing an override.
// Exactly one of isRest or routineId must be set.
type SetOverrideRequest struct {
	IsRest    bool   `json:"isRest"`
	RoutineID string `json:"routineId"`
}

// --- Handler Methods ---

// ResolveDay godoc
// @Summary Resolve the training assignment for a date
// @Description Evaluates override, then plan day, for the authenticated user. Defaults to today when no date is given.
// @Tags Planner
// @Produce json
// @Security BearerAuth
// @Param date query string false "Date (YYYY-MM-DD)"
// @Success 200 {object} AssignmentResponse
// @Router /planner/day [get]
func (h *PlannerHandler) ResolveDay(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	date := domain.DateOf(time.Now())
	if raw := c.Query("date"); raw != "" {
		parsed, err := domain.ParseDate(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD.")
			return
		}
		date = parsed
	}

	assignment, err := h.plannerService.ResolveDay(c.Request.Context(), userID, date)
	if err != nil {
		var resolveErr *service.ResolveError
		if errors.As(err, &resolveErr) {
			abortWithError(c, http.StatusBadGateway, "Resolution failed at step: "+string(resolveErr.Step))
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve assignment.")
		return
	}
	c.JSON(http.StatusOK, mapAssignmentToResponse(date, assignment))
}

// SetOverride writes the override for a date: forced rest or a specific
// routine, replacing any existing override.
func (h *PlannerHandler) SetOverride(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	date, ok := requireDateParam(c)
	if !ok {
		return
	}

	var req SetOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	var err error
	switch {
	case req.IsRest && req.RoutineID != "":
		abortWithError(c, http.StatusBadRequest, "Override cannot be both rest and a routine.")
		return
	case req.IsRest:
		err = h.plannerService.SetRestDay(c.Request.Context(), userID, date)
	case req.RoutineID != "":
		var routineID primitive.ObjectID
		routineID, err = primitive.ObjectIDFromHex(req.RoutineID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid routine ID format.")
			return
		}
		err = h.plannerService.SetRoutineOverride(c.Request.Context(), userID, routineID, date)
	default:
		abortWithError(c, http.StatusBadRequest, "Override requires isRest or routineId.")
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoutineNotFound):
			abortWithError(c, http.StatusNotFound, "Routine not found.")
		case errors.Is(err, service.ErrRoutineAccessDenied):
			abortWithError(c, http.StatusForbidden, "Routine does not belong to this user.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to set override.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearOverride removes the override for a date, restoring the plan.
func (h *PlannerHandler) ClearOverride(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	date, ok := requireDateParam(c)
	if !ok {
		return
	}
	if err := h.plannerService.ClearOverride(c.Request.Context(), userID, date); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to clear override.")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- shared helpers ---

func requireUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return primitive.NilObjectID, false
	}
	return userID, true
}

func requireDateParam(c *gin.Context) (domain.Date, bool) {
	date, err := domain.ParseDate(c.Param("date"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD.")
		return "", false
	}
	return date, true
}
