package workouts

import (
	"context"

	"go.uber.org/zap"
)

const (
	opCreateWorkout = "workouts.create_workout"
	opListWorkouts  = "workouts.list_workouts"
	opDeleteWorkout = "workouts.delete_workout"
	opWorkoutExists = "workouts.workout_exists"
)

// WorkoutRepository persists workout sessions.
type WorkoutRepository struct {
	store
}

// Create starts a new workout at the current instant.
func (r *WorkoutRepository) Create(ctx context.Context, note string) (Workout, error) {
	workout := Workout{
		StartedAtSeconds: r.now().Unix(),
		Note:             optionalNote(note),
	}
	if err := r.withContext(ctx).Create(&workout).Error; err != nil {
		return Workout{}, r.storeError(ctx, opCreateWorkout, "insert_failed", err)
	}
	return workout, nil
}

// List returns all workouts, most recent first.
func (r *WorkoutRepository) List(ctx context.Context) ([]Workout, error) {
	workouts := make([]Workout, 0)
	if err := r.withContext(ctx).Order("start_s DESC, id DESC").Find(&workouts).Error; err != nil {
		return nil, r.storeError(ctx, opListWorkouts, "query_failed", err)
	}
	return workouts, nil
}

// Delete removes a workout; its sets are removed by the store-level cascade.
func (r *WorkoutRepository) Delete(ctx context.Context, id int64) error {
	result := r.withContext(ctx).Delete(&Workout{}, id)
	if result.Error != nil {
		return r.storeError(ctx, opDeleteWorkout, "delete_failed", result.Error, zap.Int64("workout_id", id))
	}
	if result.RowsAffected == 0 {
		return newServiceError(opDeleteWorkout, "not_found", ErrNotFound)
	}
	return nil
}

// ExistsByID reports whether a workout with the given id exists.
func (r *WorkoutRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	exists, err := r.existsByID(ctx, &Workout{}, id)
	if err != nil {
		return false, r.storeError(ctx, opWorkoutExists, "query_failed", err, zap.Int64("workout_id", id))
	}
	return exists, nil
}
