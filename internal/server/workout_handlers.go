package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const queryExerciseID = "exerciseId"

func (h *httpHandler) handleListWorkouts(c *gin.Context) {
	list, err := h.workouts.List(c.Request.Context())
	if err != nil {
		h.respondError(c, "failed to list workouts", err)
		return
	}
	response := make([]workoutResponse, 0, len(list))
	for _, workout := range list {
		response = append(response, newWorkoutResponse(workout))
	}
	c.JSON(http.StatusOK, response)
}

// handleCreateWorkout accepts an empty body or an optional {"note"} object.
func (h *httpHandler) handleCreateWorkout(c *gin.Context) {
	var request createWorkoutRequest
	if err := c.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		respondInvalidRequest(c)
		return
	}
	workout, err := h.workouts.Create(c.Request.Context(), request.Note)
	if err != nil {
		h.respondError(c, "failed to create workout", err)
		return
	}
	h.metrics.RecordWrite("workout", "create")
	c.JSON(http.StatusOK, createWorkoutResponse{ID: workout.ID})
}

func (h *httpHandler) handleDeleteWorkout(c *gin.Context) {
	if err := h.workouts.Delete(c.Request.Context(), pathID(c, paramWorkoutID)); err != nil {
		h.respondError(c, "failed to delete workout", err)
		return
	}
	h.metrics.RecordWrite("workout", "delete")
	c.Status(http.StatusOK)
}

func (h *httpHandler) handleListWorkoutSets(c *gin.Context) {
	sets, err := h.sets.FindByWorkoutID(c.Request.Context(), pathID(c, paramWorkoutID))
	if err != nil {
		h.respondError(c, "failed to list workout sets", err)
		return
	}
	response := make([]setResponse, 0, len(sets))
	for _, set := range sets {
		response = append(response, newSetResponse(set))
	}
	c.JSON(http.StatusOK, response)
}

func (h *httpHandler) handleCreateSet(c *gin.Context) {
	var request setRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondInvalidRequest(c)
		return
	}
	set, err := h.sets.Create(c.Request.Context(), pathID(c, paramWorkoutID), request.input())
	if err != nil {
		h.respondError(c, "failed to create set", err)
		return
	}
	h.metrics.RecordWrite("set", "create")
	c.JSON(http.StatusOK, newSetResponse(set))
}

// handleRecommendSet honours an optional exerciseId query parameter.
func (h *httpHandler) handleRecommendSet(c *gin.Context) {
	var exerciseID *int64
	if raw, ok := c.GetQuery(queryExerciseID); ok {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid_exercise_id"})
			return
		}
		exerciseID = &parsed
	}

	recommendation, err := h.recommender.Recommend(c.Request.Context(), pathID(c, paramWorkoutID), exerciseID)
	if err != nil {
		h.respondError(c, "failed to recommend set", err)
		return
	}
	c.JSON(http.StatusOK, newRecommendationResponse(recommendation))
}
