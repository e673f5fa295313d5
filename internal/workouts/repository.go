package workouts

import (
	"context"
	"time"

	"github.com/MarcoPoloResearchLab/workouts/internal/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const opNewRepositories = "workouts.new_repositories"

var noOpLogger = zap.NewNop()

// Config describes the dependencies shared by every repository.
type Config struct {
	Database *gorm.DB
	Clock    func() time.Time
	Logger   *zap.Logger
}

// Repositories bundles the entity repositories with the read-only engines built on them.
type Repositories struct {
	Exercises   *ExerciseRepository
	Workouts    *WorkoutRepository
	Sets        *SetRepository
	Recommender *Recommender
	Statistics  *StatisticsAggregator
}

// NewRepositories validates cfg and constructs every repository over the same store handle.
func NewRepositories(cfg Config) (Repositories, error) {
	base, err := newStore(cfg)
	if err != nil {
		return Repositories{}, err
	}
	return Repositories{
		Exercises:   &ExerciseRepository{store: base},
		Workouts:    &WorkoutRepository{store: base},
		Sets:        &SetRepository{store: base},
		Recommender: &Recommender{store: base},
		Statistics:  &StatisticsAggregator{store: base},
	}, nil
}

type store struct {
	db     *gorm.DB
	clock  func() time.Time
	logger *zap.Logger
}

func newStore(cfg Config) (store, error) {
	if cfg.Database == nil {
		return store{}, newServiceError(opNewRepositories, "missing_database", errMissingDatabase)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return store{db: cfg.Database, clock: clock, logger: logger}, nil
}

func (s store) now() time.Time {
	return s.clock().UTC()
}

func (s store) withContext(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// storeError logs an unexpected store failure with the request-scoped logger and wraps it.
func (s store) storeError(ctx context.Context, operation, reason string, err error, fields ...zap.Field) error {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
		zap.Error(err),
	}
	attrs = append(attrs, fields...)
	logging.FromContext(ctx, s.logger).Error("workouts store error", attrs...)
	return newServiceError(operation, reason, err)
}

func (s store) existsByID(ctx context.Context, model any, id int64) (bool, error) {
	return rowExists(s.withContext(ctx), model, id)
}
