package server

import (
	"errors"
	"net/http"

	"github.com/MarcoPoloResearchLab/workouts/internal/workouts"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, workouts.ErrInvalidSet):
		return http.StatusBadRequest, "invalid_set"
	case errors.Is(err, workouts.ErrInvalidExerciseName):
		return http.StatusBadRequest, "invalid_exercise_name"
	case errors.Is(err, workouts.ErrExerciseNotFound):
		return http.StatusBadRequest, "unknown_exercise"
	case errors.Is(err, workouts.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, workouts.ErrExerciseExists):
		return http.StatusConflict, "exercise_exists"
	case errors.Is(err, workouts.ErrExerciseInUse):
		return http.StatusConflict, "exercise_in_use"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// respondError maps err onto a status and a stable code. Internal details are only logged.
func (h *httpHandler) respondError(c *gin.Context, message string, err error) {
	status, code := classifyError(err)
	fields := []zap.Field{zap.String("error_code", code), zap.Error(err)}
	var serviceErr *workouts.ServiceError
	if errors.As(err, &serviceErr) {
		fields = append(fields, zap.String("service_code", serviceErr.Code()))
	}

	logger := h.requestLogger(c)
	if status >= http.StatusInternalServerError {
		logger.Error(message, fields...)
	} else {
		logger.Debug(message, fields...)
	}
	c.JSON(status, errorResponse{Error: code})
}

func respondInvalidRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid_request"})
}
