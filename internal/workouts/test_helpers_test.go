package workouts_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/MarcoPoloResearchLab/workouts/internal/database"
	"github.com/MarcoPoloResearchLab/workouts/internal/workouts"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time {
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type fixture struct {
	db    *gorm.DB
	clock *manualClock
	repos workouts.Repositories
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "workouts.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	clock := &manualClock{now: time.Unix(1_700_000_000, 0).UTC()}
	repos, err := workouts.NewRepositories(workouts.Config{
		Database: db,
		Clock:    clock.Now,
		Logger:   zap.NewNop(),
	})
	require.NoError(t, err)

	return &fixture{db: db, clock: clock, repos: repos}
}

func (f *fixture) exercise(t *testing.T, name string) workouts.Exercise {
	t.Helper()
	exercise, err := f.repos.Exercises.Create(context.Background(), name)
	require.NoError(t, err)
	return exercise
}

func (f *fixture) workout(t *testing.T) workouts.Workout {
	t.Helper()
	workout, err := f.repos.Workouts.Create(context.Background(), "")
	require.NoError(t, err)
	return workout
}

func (f *fixture) set(t *testing.T, workoutID, exerciseID int64, repetitions int, weight float64) workouts.SetDetails {
	t.Helper()
	set, err := f.repos.Sets.Create(context.Background(), workoutID, workouts.SetInput{
		ExerciseID:  exerciseID,
		Repetitions: repetitions,
		Weight:      weight,
	})
	require.NoError(t, err)
	return set
}

func int64Ptr(value int64) *int64 {
	return &value
}
