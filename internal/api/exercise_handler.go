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

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs for API (Data Transfer Objects) ---

// SaveExerciseRequest defines the expected JSON for creating or updating a
// catalog entry.
type SaveExerciseRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	MuscleGroup string `json:"muscleGroup" binding:"omitempty"` // e.g., "Chest", "Legs"
	ImageURL    string `json:"imageUrl" binding:"omitempty,url"`
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	MuscleGroup string    `json:"muscleGroup,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:          ex.ID.Hex(),
		Name:        ex.Name,
		Description: ex.Description,
		MuscleGroup: ex.MuscleGroup,
		ImageURL:    ex.ImageURL,
		CreatedAt:   ex.CreatedAt,
		UpdatedAt:   ex.UpdatedAt,
	}
}

// --- Handler Methods ---

// CreateExercise adds a catalog entry for the authenticated user.
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req SaveExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	ownerID, ok := requireUserID(c)
	if !ok {
		return
	}

	exercise, err := h.exerciseService.CreateExercise(
		c.Request.Context(), ownerID,
		req.Name, req.Description, req.MuscleGroup, req.ImageURL,
	)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, "Exercise validation failed.")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to create exercise.")
		return
	}
	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

// GetMyExercises lists the authenticated user's catalog.
func (h *ExerciseHandler) GetMyExercises(c *gin.Context) {
	ownerID, ok := requireUserID(c)
	if !ok {
		return
	}
	exercises, err := h.exerciseService.GetExercisesByOwner(c.Request.Context(), ownerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list exercises.")
		return
	}
	responses := make([]ExerciseResponse, 0, len(exercises))
	for i := range exercises {
		responses = append(responses, MapExerciseToResponse(&exercises[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// UpdateExercise modifies a catalog entry owned by the user.
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	ownerID, ok := requireUserID(c)
	if !ok {
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
		return
	}
	var req SaveExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(
		c.Request.Context(), ownerID, exerciseID,
		req.Name, req.Description, req.MuscleGroup, req.ImageURL,
	)
	if err != nil {
		respondExerciseError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// DeleteExercise removes a catalog entry owned by the user.
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	ownerID, ok := requireUserID(c)
	if !ok {
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
		return
	}
	if err := h.exerciseService.DeleteExercise(c.Request.Context(), ownerID, exerciseID); err != nil {
		respondExerciseError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func respondExerciseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExerciseNotFound):
		abortWithError(c, http.StatusNotFound, "Exercise not found.")
	case errors.Is(err, service.ErrExerciseAccessDenied):
		abortWithError(c, http.StatusForbidden, "Exercise does not belong to this user.")
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, "Exercise validation failed.")
	default:
		abortWithError(c, http.StatusInternalServerError, "Exercise operation failed.")
	}
}
