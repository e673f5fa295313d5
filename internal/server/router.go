package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/MarcoPoloResearchLab/workouts/internal/metrics"
	"github.com/MarcoPoloResearchLab/workouts/internal/workouts"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	paramExerciseID = "exercise_id"
	paramWorkoutID  = "workout_id"
	paramSetID      = "set_id"
)

var (
	errMissingExerciseStore = errors.New("exercise store dependency required")
	errMissingWorkoutStore  = errors.New("workout store dependency required")
	errMissingSetStore      = errors.New("set store dependency required")
	errMissingRecommender   = errors.New("set recommender dependency required")
	errMissingStatistics    = errors.New("statistics provider dependency required")
)

// ExerciseStore is the exercise catalog consumed by the HTTP layer.
type ExerciseStore interface {
	List(ctx context.Context) ([]workouts.Exercise, error)
	Create(ctx context.Context, name string) (workouts.Exercise, error)
	Update(ctx context.Context, id int64, name string) (workouts.Exercise, error)
	Delete(ctx context.Context, id int64) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	UsageInSets(ctx context.Context, id int64) (int64, error)
}

// WorkoutStore is the workout history consumed by the HTTP layer.
type WorkoutStore interface {
	List(ctx context.Context) ([]workouts.Workout, error)
	Create(ctx context.Context, note string) (workouts.Workout, error)
	Delete(ctx context.Context, id int64) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// SetStore persists the sets recorded within workouts.
type SetStore interface {
	FindByID(ctx context.Context, id int64) (workouts.SetDetails, error)
	FindByWorkoutID(ctx context.Context, workoutID int64) ([]workouts.SetDetails, error)
	Create(ctx context.Context, workoutID int64, input workouts.SetInput) (workouts.SetDetails, error)
	Update(ctx context.Context, id int64, input workouts.SetInput) (workouts.SetDetails, error)
	Delete(ctx context.Context, id int64) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// SetRecommender pre-fills the next set of a workout.
type SetRecommender interface {
	Recommend(ctx context.Context, workoutID int64, exerciseID *int64) (workouts.Recommendation, error)
}

// StatisticsProvider summarizes the whole workout history.
type StatisticsProvider interface {
	Overview(ctx context.Context) (workouts.Overview, error)
}

// Dependencies wires the HTTP handler. Metrics, RequestIDs and StaticFilesDir are optional.
type Dependencies struct {
	Exercises      ExerciseStore
	Workouts       WorkoutStore
	Sets           SetStore
	Recommender    SetRecommender
	Statistics     StatisticsProvider
	Logger         *zap.Logger
	Metrics        *metrics.Manager
	RequestIDs     IDProvider
	AllowedOrigins []string
	StaticFilesDir string
}

// NewHTTPHandler builds the gin engine serving the JSON API and its supporting routes.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Exercises == nil {
		return nil, errMissingExerciseStore
	}
	if deps.Workouts == nil {
		return nil, errMissingWorkoutStore
	}
	if deps.Sets == nil {
		return nil, errMissingSetStore
	}
	if deps.Recommender == nil {
		return nil, errMissingRecommender
	}
	if deps.Statistics == nil {
		return nil, errMissingStatistics
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	requestIDs := deps.RequestIDs
	if requestIDs == nil {
		requestIDs = NewUUIDProvider()
	}

	// Recovery and CORS run inside the logged and measured span so their responses are recorded too.
	router := gin.New()
	router.Use(requestContextMiddleware(logger, requestIDs))
	router.Use(accessLogMiddleware())
	if deps.Metrics != nil {
		router.Use(requestMetricsMiddleware(deps.Metrics))
	}
	router.Use(recoveryMiddleware(logger, deps.Metrics))
	if len(deps.AllowedOrigins) > 0 {
		corsHandler, err := corsMiddleware(deps.AllowedOrigins)
		if err != nil {
			return nil, err
		}
		router.Use(corsHandler)
	}

	handler := &httpHandler{
		exercises:   deps.Exercises,
		workouts:    deps.Workouts,
		sets:        deps.Sets,
		recommender: deps.Recommender,
		statistics:  deps.Statistics,
		metrics:     deps.Metrics,
		logger:      logger,
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := router.Group("/api")
	handler.registerExerciseRoutes(api)
	handler.registerWorkoutRoutes(api)
	handler.registerSetRoutes(api)
	api.GET("/statistics", handler.handleGetStatistics)

	if err := registerStaticRoutes(router, deps.StaticFilesDir); err != nil {
		return nil, err
	}

	return router, nil
}

type httpHandler struct {
	exercises   ExerciseStore
	workouts    WorkoutStore
	sets        SetStore
	recommender SetRecommender
	statistics  StatisticsProvider
	metrics     *metrics.Manager
	logger      *zap.Logger
}

func (h *httpHandler) registerExerciseRoutes(api *gin.RouterGroup) {
	api.GET("/exercises", h.handleListExercises)
	api.POST("/exercises", h.handleCreateExercise)
	api.POST("/exercises/exists", h.handleExerciseExists)

	exercise := api.Group("/exercises/:"+paramExerciseID, h.requireExisting(paramExerciseID, "exercise", h.exercises))
	exercise.PUT("", h.handleUpdateExercise)
	exercise.DELETE("", h.handleDeleteExercise)
	exercise.GET("/count", h.handleExerciseUsage)
}

func (h *httpHandler) registerWorkoutRoutes(api *gin.RouterGroup) {
	api.GET("/workouts", h.handleListWorkouts)
	api.POST("/workouts", h.handleCreateWorkout)

	workout := api.Group("/workouts/:"+paramWorkoutID, h.requireExisting(paramWorkoutID, "workout", h.workouts))
	workout.DELETE("", h.handleDeleteWorkout)
	workout.GET("/sets", h.handleListWorkoutSets)
	workout.POST("/sets", h.handleCreateSet)
	workout.GET("/sets/recommendation", h.handleRecommendSet)
}

func (h *httpHandler) registerSetRoutes(api *gin.RouterGroup) {
	set := api.Group("/sets/:"+paramSetID, h.requireExisting(paramSetID, "set", h.sets))
	set.GET("", h.handleGetSet)
	set.PUT("", h.handleUpdateSet)
	set.DELETE("", h.handleDeleteSet)
}

func (h *httpHandler) requestLogger(c *gin.Context) *zap.Logger {
	return loggerFor(c, h.logger)
}
