package workouts

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	opFindSet          = "workouts.find_set"
	opFindWorkoutSets  = "workouts.find_workout_sets"
	opCreateSet        = "workouts.create_set"
	opUpdateSet        = "workouts.update_set"
	opDeleteSet        = "workouts.delete_set"
	opSetExists        = "workouts.set_exists"
	setDetailsColumns  = "es.id, es.workout_id, es.exercise_id, e.name AS exercise_name, es.repetitions, es.weight, es.created_at_s, es.note"
	setDetailsOrdering = "es.created_at_s DESC, es.id DESC"
)

// Validate checks the numeric bounds of a set.
func (in SetInput) Validate() error {
	if in.Repetitions <= 0 {
		return fmt.Errorf("%w: repetitions must be positive, got %d", ErrInvalidSet, in.Repetitions)
	}
	if math.IsNaN(in.Weight) || math.IsInf(in.Weight, 0) || in.Weight < 0 {
		return fmt.Errorf("%w: weight must be a non-negative number, got %v", ErrInvalidSet, in.Weight)
	}
	return nil
}

// SetRepository persists the sets recorded within workouts.
type SetRepository struct {
	store
}

// FindByID returns the set joined with its exercise name, or ErrNotFound.
func (r *SetRepository) FindByID(ctx context.Context, id int64) (SetDetails, error) {
	details, found, err := findSetDetails(r.withContext(ctx), id)
	if err != nil {
		return SetDetails{}, r.storeError(ctx, opFindSet, "query_failed", err, zap.Int64("set_id", id))
	}
	if !found {
		return SetDetails{}, newServiceError(opFindSet, "not_found", ErrNotFound)
	}
	return details, nil
}

// FindByWorkoutID returns the sets of a workout, most recent first.
func (r *SetRepository) FindByWorkoutID(ctx context.Context, workoutID int64) ([]SetDetails, error) {
	details := make([]SetDetails, 0)
	err := selectSetDetails(r.withContext(ctx)).
		Where("es.workout_id = ?", workoutID).
		Order(setDetailsOrdering).
		Scan(&details).Error
	if err != nil {
		return nil, r.storeError(ctx, opFindWorkoutSets, "query_failed", err, zap.Int64("workout_id", workoutID))
	}
	return details, nil
}

// Create records a new set in the workout, stamped with the current instant.
func (r *SetRepository) Create(ctx context.Context, workoutID int64, input SetInput) (SetDetails, error) {
	if err := input.Validate(); err != nil {
		return SetDetails{}, newServiceError(opCreateSet, "invalid_set", err)
	}

	set := Set{
		WorkoutID:        workoutID,
		ExerciseID:       input.ExerciseID,
		Repetitions:      input.Repetitions,
		Weight:           input.Weight,
		CreatedAtSeconds: r.now().Unix(),
		Note:             optionalNote(input.Note),
	}

	var details SetDetails
	err := r.withContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.requireExercise(ctx, tx, opCreateSet, input.ExerciseID); err != nil {
			return err
		}
		workoutExists, err := rowExists(tx, &Workout{}, workoutID)
		if err != nil {
			return r.storeError(ctx, opCreateSet, "workout_check_failed", err, zap.Int64("workout_id", workoutID))
		}
		if !workoutExists {
			return newServiceError(opCreateSet, "workout_not_found", ErrNotFound)
		}
		if err := tx.Create(&set).Error; err != nil {
			return r.storeError(ctx, opCreateSet, "insert_failed", err, zap.Int64("workout_id", workoutID))
		}
		var found bool
		details, found, err = findSetDetails(tx, set.ID)
		if err != nil {
			return r.storeError(ctx, opCreateSet, "reload_failed", err, zap.Int64("set_id", set.ID))
		}
		if !found {
			return newServiceError(opCreateSet, "reload_missing", ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return SetDetails{}, err
	}

	return details, nil
}

// Update replaces the mutable facts of a set. The workout and creation instant never change.
func (r *SetRepository) Update(ctx context.Context, id int64, input SetInput) (SetDetails, error) {
	if err := input.Validate(); err != nil {
		return SetDetails{}, newServiceError(opUpdateSet, "invalid_set", err)
	}

	var details SetDetails
	err := r.withContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.requireExercise(ctx, tx, opUpdateSet, input.ExerciseID); err != nil {
			return err
		}
		result := tx.Model(&Set{}).Where("id = ?", id).Updates(map[string]any{
			"exercise_id": input.ExerciseID,
			"repetitions": input.Repetitions,
			"weight":      input.Weight,
			"note":        nullableNote(input.Note),
		})
		if result.Error != nil {
			return r.storeError(ctx, opUpdateSet, "update_failed", result.Error, zap.Int64("set_id", id))
		}
		if result.RowsAffected == 0 {
			return newServiceError(opUpdateSet, "not_found", ErrNotFound)
		}
		var (
			found bool
			err   error
		)
		details, found, err = findSetDetails(tx, id)
		if err != nil {
			return r.storeError(ctx, opUpdateSet, "reload_failed", err, zap.Int64("set_id", id))
		}
		if !found {
			return newServiceError(opUpdateSet, "not_found", ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return SetDetails{}, err
	}

	return details, nil
}

// Delete removes a set.
func (r *SetRepository) Delete(ctx context.Context, id int64) error {
	result := r.withContext(ctx).Delete(&Set{}, id)
	if result.Error != nil {
		return r.storeError(ctx, opDeleteSet, "delete_failed", result.Error, zap.Int64("set_id", id))
	}
	if result.RowsAffected == 0 {
		return newServiceError(opDeleteSet, "not_found", ErrNotFound)
	}
	return nil
}

// ExistsByID reports whether a set with the given id exists.
func (r *SetRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	exists, err := r.existsByID(ctx, &Set{}, id)
	if err != nil {
		return false, r.storeError(ctx, opSetExists, "query_failed", err, zap.Int64("set_id", id))
	}
	return exists, nil
}

func (r *SetRepository) requireExercise(ctx context.Context, tx *gorm.DB, operation string, exerciseID int64) error {
	exists, err := rowExists(tx, &Exercise{}, exerciseID)
	if err != nil {
		return r.storeError(ctx, operation, "exercise_check_failed", err, zap.Int64("exercise_id", exerciseID))
	}
	if !exists {
		return newServiceError(operation, "unknown_exercise", ErrExerciseNotFound)
	}
	return nil
}

// nullableNote yields an untyped nil for blank notes so map updates write NULL.
func nullableNote(note string) any {
	if trimmed := optionalNote(note); trimmed != nil {
		return *trimmed
	}
	return nil
}

func rowExists(tx *gorm.DB, model any, id int64) (bool, error) {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func selectSetDetails(tx *gorm.DB) *gorm.DB {
	return tx.Table("exercise_set AS es").
		Select(setDetailsColumns).
		Joins("JOIN exercise AS e ON e.id = es.exercise_id")
}

func findSetDetails(tx *gorm.DB, id int64) (SetDetails, bool, error) {
	var rows []SetDetails
	if err := selectSetDetails(tx).Where("es.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return SetDetails{}, false, err
	}
	if len(rows) == 0 {
		return SetDetails{}, false, nil
	}
	return rows[0], true, nil
}
