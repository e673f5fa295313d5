package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MarcoPoloResearchLab/workouts/internal/logging"
	"github.com/MarcoPoloResearchLab/workouts/internal/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	requestIDHeader     = "X-Request-ID"
	requestIDContextKey = "workouts_request_id"
	maxRequestIDLength  = 128
	unmatchedRoute      = "unmatched"
)

func corsMiddleware(allowedOrigins []string) (gin.HandlerFunc, error) {
	cfg := cors.Config{
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowHeaders:  []string{"Origin", "Content-Type", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = allowedOrigins
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cors.New(cfg), nil
}

// requestContextMiddleware assigns the request id and places a request-scoped logger in the request context.
func requestContextMiddleware(base *zap.Logger, ids IDProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" || len(requestID) > maxRequestIDLength {
			generated, err := ids.NewID()
			if err != nil {
				base.Warn("failed to generate request id", zap.Error(err))
			}
			requestID = generated
		}

		c.Set(requestIDContextKey, requestID)
		if requestID != "" {
			c.Header(requestIDHeader, requestID)
		}

		logger := base.With(
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), logger))
		c.Next()
	}
}

func requestMetricsMiddleware(manager *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		manager.GaugeInFlight.Inc()
		defer manager.GaugeInFlight.Dec()

		started := time.Now()
		c.Next()

		route := routeLabel(c)
		manager.HistRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(started).Seconds())
		manager.CounterRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// accessLogMiddleware writes one entry per request once the response is complete.
func accessLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		logger := logging.FromContext(c.Request.Context(), nil)
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("route", routeLabel(c)),
			zap.Object("url_params", urlParams(c.Params)),
			zap.Int("status", status),
			zap.Int("size", responseSize(c)),
			zap.Duration("duration", time.Since(started)),
		}
		if status >= http.StatusInternalServerError {
			logger.Error("request completed", fields...)
			return
		}
		logger.Info("request completed", fields...)
	}
}

func recoveryMiddleware(base *zap.Logger, manager *metrics.Manager) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if manager != nil {
			manager.CounterRequestPanics.Inc()
		}
		logging.FromContext(c.Request.Context(), base).Error("request panicked",
			zap.Any("panic", recovered),
			zap.Stack("stack"),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: "internal_error"})
	})
}

// gin reports -1 until a body byte is written.
func responseSize(c *gin.Context) int {
	if size := c.Writer.Size(); size > 0 {
		return size
	}
	return 0
}

func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return unmatchedRoute
}

func loggerFor(c *gin.Context, fallback *zap.Logger) *zap.Logger {
	return logging.FromContext(c.Request.Context(), fallback)
}

type urlParams gin.Params

func (p urlParams) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	for _, param := range p {
		enc.AddString(param.Key, param.Value)
	}
	return nil
}
