package api

import (
	"net/http"

	"pulsefit/training-core/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	plannerService service.PlannerService,
	routineService service.RoutineService,
	weekPlanService service.WeekPlanService,
	exerciseService service.ExerciseService,
) {
	plannerHandler := NewPlannerHandler(plannerService)
	routineHandler := NewRoutineHandler(routineService)
	weekPlanHandler := NewWeekPlanHandler(weekPlanService)
	exerciseHandler := NewExerciseHandler(exerciseService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr})
		})

		// --- Planner Routes ---
		plannerGroup := protected.Group("/planner")
		{
			// GET /api/v1/planner/day?date=YYYY-MM-DD - today's effective assignment
			plannerGroup.GET("/day", plannerHandler.ResolveDay)
		}

		// --- Override Routes ---
		overrideGroup := protected.Group("/overrides")
		{
			overrideGroup.PUT("/:date", plannerHandler.SetOverride)
			overrideGroup.DELETE("/:date", plannerHandler.ClearOverride)
		}

		// --- Routine Routes ---
		routineGroup := protected.Group("/routines")
		{
			routineGroup.POST("", routineHandler.CreateRoutine)
			routineGroup.GET("", routineHandler.GetRoutines)
			routineGroup.GET("/:id", routineHandler.GetRoutine)
			routineGroup.PATCH("/:id", routineHandler.UpdateRoutine)
			routineGroup.DELETE("/:id", routineHandler.DeleteRoutine)
			// Replaces all rows from a block-structured payload.
			routineGroup.PUT("/:id/exercises", routineHandler.SaveComposition)
		}

		// --- Week Plan Routes ---
		weekPlanGroup := protected.Group("/weekplan")
		{
			weekPlanGroup.GET("", weekPlanHandler.GetWeek)
			weekPlanGroup.PUT("", weekPlanHandler.SaveWeek)
		}

		// --- Exercise Routes ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.GET("", exerciseHandler.GetMyExercises)
			exerciseGroup.PATCH("/:id", exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", exerciseHandler.DeleteExercise)
		}
	}
}
