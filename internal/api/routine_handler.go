package api

import (
	"errors"
	"net/http"
	"time"

	"pulsefit/training-core/internal/domain"
	"pulsefit/training-core/internal/routine"
	"pulsefit/training-core/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoutineHandler holds the routine service dependency.
type RoutineHandler struct {
	routineService service.RoutineService
}

// NewRoutineHandler creates a new RoutineHandler.
func NewRoutineHandler(routineService service.RoutineService) *RoutineHandler {
	return &RoutineHandler{routineService: routineService}
}

// --- DTOs for API (Data Transfer Objects) ---

// SaveRoutineRequest defines the expected JSON for creating or renaming a routine.
type SaveRoutineRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// RoutineResponse is the DTO for returning routine summary details.
type RoutineResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RoutineExerciseResponse is one ordered, joined row of a routine.
type RoutineExerciseResponse struct {
	ExerciseID  string `json:"exerciseId"`
	Name        string `json:"name"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Sets        int    `json:"sets"`
	Reps        int    `json:"reps"`
	RestSeconds int    `json:"restSeconds"`
	OrderIndex  int    `json:"orderIndex"`
}

// RoutineDetailResponse is a routine with its ordered rows.
type RoutineDetailResponse struct {
	RoutineResponse
	Exercises []RoutineExerciseResponse `json:"exercises"`
}

// CompositionEntryRequest is one exercise slot of a submitted block. An
// empty exerciseId marks an unresolved placeholder; it is dropped on save.
type CompositionEntryRequest struct {
	ExerciseID string `json:"exerciseId"`
	Sets       int    `json:"sets"`
	Reps       int    `json:"reps"`
}

// CompositionBlockRequest is one block of a submitted composition.
type CompositionBlockRequest struct {
	Sets        int                       `json:"sets"`
	RestSeconds int                       `json:"restSeconds"`
	Entries     []CompositionEntryRequest `json:"entries" binding:"required"`
}

// SaveCompositionRequest replaces the routine's content with the flattened
// block list.
type SaveCompositionRequest struct {
	Blocks []CompositionBlockRequest `json:"blocks"`
}

func mapRoutineToResponse(r *domain.Routine) RoutineResponse {
	return RoutineResponse{
		ID:          r.ID.Hex(),
		Title:       r.Title,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func mapRoutineDetailToResponse(d *domain.RoutineDetail) RoutineDetailResponse {
	resp := RoutineDetailResponse{
		RoutineResponse: mapRoutineToResponse(&d.Routine),
		Exercises:       make([]RoutineExerciseResponse, 0, len(d.Exercises)),
	}
	for _, row := range d.Exercises {
		resp.Exercises = append(resp.Exercises, RoutineExerciseResponse{
			ExerciseID:  row.ExerciseID.Hex(),
			Name:        row.ExerciseName,
			ImageURL:    row.ExerciseImageURL,
			Sets:        row.Sets,
			Reps:        row.Reps,
			RestSeconds: row.RestSeconds,
			OrderIndex:  row.OrderIndex,
		})
	}
	return resp
}

// --- Handler Methods ---

// CreateRoutine creates an empty routine for the authenticated user.
func (h *RoutineHandler) CreateRoutine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req SaveRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	created, err := h.routineService.CreateRoutine(c.Request.Context(), userID, req.Title, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrRoutineTitleRequired) {
			abortWithError(c, http.StatusBadRequest, "Routine title is required.")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to create routine.")
		return
	}
	c.JSON(http.StatusCreated, mapRoutineToResponse(created))
}

// GetRoutines lists the user's routines.
func (h *RoutineHandler) GetRoutines(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	routines, err := h.routineService.GetRoutines(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list routines.")
		return
	}
	responses := make([]RoutineResponse, 0, len(routines))
	for i := range routines {
		responses = append(responses, mapRoutineToResponse(&routines[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// GetRoutine returns one routine with its ordered, joined exercise rows.
func (h *RoutineHandler) GetRoutine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	routineID, ok := requireRoutineID(c)
	if !ok {
		return
	}
	detail, err := h.routineService.GetRoutine(c.Request.Context(), userID, routineID)
	if err != nil {
		respondRoutineError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapRoutineDetailToResponse(detail))
}

// UpdateRoutine renames a routine or changes its description.
func (h *RoutineHandler) UpdateRoutine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	routineID, ok := requireRoutineID(c)
	if !ok {
		return
	}
	var req SaveRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	updated, err := h.routineService.UpdateRoutine(c.Request.Context(), userID, routineID, req.Title, req.Description)
	if err != nil {
		respondRoutineError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapRoutineToResponse(updated))
}

// DeleteRoutine removes a routine and cascades its exercise rows.
func (h *RoutineHandler) DeleteRoutine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	routineID, ok := requireRoutineID(c)
	if !ok {
		return
	}
	if err := h.routineService.DeleteRoutine(c.Request.Context(), userID, routineID); err != nil {
		respondRoutineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SaveComposition godoc
// @Summary Replace a routine's exercises from a block-structured payload
// @Description Flattens the submitted blocks in order, drops unresolved placeholder entries, renumbers orderIndex from 0, and replaces all persisted rows.
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Routine ID"
// @Param body body SaveCompositionRequest true "Block list"
// @Success 200 {object} RoutineDetailResponse
// @Router /routines/{id}/exercises [put]
func (h *RoutineHandler) SaveComposition(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	routineID, ok := requireRoutineID(c)
	if !ok {
		return
	}
	var req SaveCompositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	specs := make([]routine.BlockSpec, 0, len(req.Blocks))
	for _, block := range req.Blocks {
		spec := routine.BlockSpec{
			Sets:        block.Sets,
			RestSeconds: block.RestSeconds,
		}
		for _, entry := range block.Entries {
			exerciseID := primitive.NilObjectID
			if entry.ExerciseID != "" {
				parsed, err := primitive.ObjectIDFromHex(entry.ExerciseID)
				if err != nil {
					abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
					return
				}
				exerciseID = parsed
			}
			spec.Entries = append(spec.Entries, routine.EntrySpec{
				ExerciseID: exerciseID,
				Sets:       entry.Sets,
				Reps:       entry.Reps,
			})
		}
		specs = append(specs, spec)
	}

	composer, err := routine.FromSpecs(specs)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid composition: "+err.Error())
		return
	}

	if err := h.routineService.SaveComposition(c.Request.Context(), userID, routineID, composer); err != nil {
		if errors.Is(err, service.ErrPartialSave) {
			// The routine may now be empty; the client must offer a retry.
			abortWithError(c, http.StatusInternalServerError, "Save failed, routine may be empty. Please retry.")
			return
		}
		respondRoutineError(c, err)
		return
	}

	detail, err := h.routineService.GetRoutine(c.Request.Context(), userID, routineID)
	if err != nil {
		respondRoutineError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapRoutineDetailToResponse(detail))
}

func requireRoutineID(c *gin.Context) (primitive.ObjectID, bool) {
	routineID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid routine ID format.")
		return primitive.NilObjectID, false
	}
	return routineID, true
}

func respondRoutineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRoutineNotFound):
		abortWithError(c, http.StatusNotFound, "Routine not found.")
	case errors.Is(err, service.ErrRoutineAccessDenied):
		abortWithError(c, http.StatusForbidden, "Routine does not belong to this user.")
	case errors.Is(err, service.ErrRoutineTitleRequired):
		abortWithError(c, http.StatusBadRequest, "Routine title is required.")
	case errors.Is(err, routine.ErrSaveInFlight):
		abortWithError(c, http.StatusConflict, "A save is already in progress for this routine.")
	default:
		abortWithError(c, http.StatusInternalServerError, "Routine operation failed.")
	}
}
