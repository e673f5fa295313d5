package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// existenceChecker is the lookup capability a guard needs from a repository.
type existenceChecker interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// requireExisting rejects the request unless path parameter param names an existing entity.
// The parsed id is stored on the gin context under param for the handler.
func (h *httpHandler) requireExisting(param, entity string, checker existenceChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param(param), 10, 64)
		if err != nil {
			h.metrics.RecordGuardRejection(entity, "invalid_id")
			c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "invalid_" + param})
			return
		}

		exists, err := checker.ExistsByID(c.Request.Context(), id)
		if err != nil {
			h.requestLogger(c).Error("existence check failed",
				zap.String("entity", entity),
				zap.Int64("id", id),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: "internal_error"})
			return
		}
		if !exists {
			h.metrics.RecordGuardRejection(entity, "not_found")
			c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Error: entity + "_not_found"})
			return
		}

		c.Set(param, id)
		c.Next()
	}
}

func pathID(c *gin.Context, param string) int64 {
	return c.GetInt64(param)
}
