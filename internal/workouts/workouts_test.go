package workouts_test

import (
	"context"
	"testing"
	"time"

	"github.com/MarcoPoloResearchLab/workouts/internal/workouts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkoutRepository_CreateStampsClock(t *testing.T) {
	f := newFixture(t)

	workout, err := f.repos.Workouts.Create(context.Background(), "  leg day ")
	require.NoError(t, err)
	assert.Positive(t, workout.ID)
	assert.Equal(t, f.clock.Now(), workout.StartedAt())
	require.NotNil(t, workout.Note)
	assert.Equal(t, "leg day", *workout.Note)

	empty, err := f.repos.Workouts.Create(context.Background(), " ")
	require.NoError(t, err)
	assert.Nil(t, empty.Note)
}

func TestWorkoutRepository_ListMostRecentFirst(t *testing.T) {
	f := newFixture(t)
	first := f.workout(t)
	f.clock.Advance(time.Hour)
	second := f.workout(t)
	f.clock.Advance(time.Hour)
	third := f.workout(t)

	list, err := f.repos.Workouts.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{third.ID, second.ID, first.ID}, []int64{list[0].ID, list[1].ID, list[2].ID})
}

func TestWorkoutRepository_DeleteCascadesSets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	squats := f.exercise(t, "Squats")
	workout := f.workout(t)
	other := f.workout(t)
	f.set(t, workout.ID, squats.ID, 5, 50)
	f.set(t, workout.ID, squats.ID, 5, 55)
	kept := f.set(t, other.ID, squats.ID, 8, 40)

	require.NoError(t, f.repos.Workouts.Delete(ctx, workout.ID))

	sets, err := f.repos.Sets.FindByWorkoutID(ctx, workout.ID)
	require.NoError(t, err)
	assert.Empty(t, sets)

	exists, err := f.repos.Workouts.ExistsByID(ctx, workout.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	stillThere, err := f.repos.Sets.ExistsByID(ctx, kept.ID)
	require.NoError(t, err)
	assert.True(t, stillThere)

	usage, err := f.repos.Exercises.UsageInSets(ctx, squats.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, usage)
}

func TestWorkoutRepository_DeleteMissing(t *testing.T) {
	f := newFixture(t)

	err := f.repos.Workouts.Delete(context.Background(), 999)
	require.ErrorIs(t, err, workouts.ErrNotFound)
}

func TestNewRepositoriesRequiresDatabase(t *testing.T) {
	_, err := workouts.NewRepositories(workouts.Config{})
	require.Error(t, err)

	var serviceErr *workouts.ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "workouts.new_repositories.missing_database", serviceErr.Code())
}
