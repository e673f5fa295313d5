package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *httpHandler) handleListExercises(c *gin.Context) {
	exercises, err := h.exercises.List(c.Request.Context())
	if err != nil {
		h.respondError(c, "failed to list exercises", err)
		return
	}
	response := make([]exerciseResponse, 0, len(exercises))
	for _, exercise := range exercises {
		response = append(response, newExerciseResponse(exercise))
	}
	c.JSON(http.StatusOK, response)
}

func (h *httpHandler) handleCreateExercise(c *gin.Context) {
	var request exerciseNameRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondInvalidRequest(c)
		return
	}
	exercise, err := h.exercises.Create(c.Request.Context(), request.Name)
	if err != nil {
		h.respondError(c, "failed to create exercise", err)
		return
	}
	h.metrics.RecordWrite("exercise", "create")
	c.JSON(http.StatusOK, newExerciseResponse(exercise))
}

func (h *httpHandler) handleExerciseExists(c *gin.Context) {
	var request exerciseNameRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondInvalidRequest(c)
		return
	}
	exists, err := h.exercises.ExistsByName(c.Request.Context(), request.Name)
	if err != nil {
		h.respondError(c, "failed to check exercise name", err)
		return
	}
	c.JSON(http.StatusOK, existsResponse{Exists: exists})
}

func (h *httpHandler) handleUpdateExercise(c *gin.Context) {
	var request exerciseNameRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondInvalidRequest(c)
		return
	}
	exercise, err := h.exercises.Update(c.Request.Context(), pathID(c, paramExerciseID), request.Name)
	if err != nil {
		h.respondError(c, "failed to update exercise", err)
		return
	}
	h.metrics.RecordWrite("exercise", "update")
	c.JSON(http.StatusOK, newExerciseResponse(exercise))
}

func (h *httpHandler) handleDeleteExercise(c *gin.Context) {
	if err := h.exercises.Delete(c.Request.Context(), pathID(c, paramExerciseID)); err != nil {
		h.respondError(c, "failed to delete exercise", err)
		return
	}
	h.metrics.RecordWrite("exercise", "delete")
	c.Status(http.StatusOK)
}

func (h *httpHandler) handleExerciseUsage(c *gin.Context) {
	count, err := h.exercises.UsageInSets(c.Request.Context(), pathID(c, paramExerciseID))
	if err != nil {
		h.respondError(c, "failed to count exercise usage", err)
		return
	}
	c.JSON(http.StatusOK, countResponse{Count: count})
}
