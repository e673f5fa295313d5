package workouts

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	opListExercises     = "workouts.list_exercises"
	opExerciseExists    = "workouts.exercise_exists"
	opExerciseNameTaken = "workouts.exercise_name_exists"
	opExerciseUsage     = "workouts.exercise_usage"
	opCreateExercise    = "workouts.create_exercise"
	opUpdateExercise    = "workouts.update_exercise"
	opDeleteExercise    = "workouts.delete_exercise"
)

// ExerciseRepository persists the exercise catalog.
type ExerciseRepository struct {
	store
}

// List returns all exercises ordered by name.
func (r *ExerciseRepository) List(ctx context.Context) ([]Exercise, error) {
	exercises := make([]Exercise, 0)
	if err := r.withContext(ctx).Order("name_key ASC, id ASC").Find(&exercises).Error; err != nil {
		return nil, r.storeError(ctx, opListExercises, "query_failed", err)
	}
	return exercises, nil
}

// ExistsByID reports whether an exercise with the given id exists.
func (r *ExerciseRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	exists, err := r.existsByID(ctx, &Exercise{}, id)
	if err != nil {
		return false, r.storeError(ctx, opExerciseExists, "query_failed", err, zap.Int64("exercise_id", id))
	}
	return exists, nil
}

// ExistsByName reports whether an exercise carries the name, ignoring case and surrounding whitespace.
func (r *ExerciseRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	key := exerciseNameKey(name)
	if key == "" {
		return false, nil
	}
	var count int64
	if err := r.withContext(ctx).Model(&Exercise{}).Where("name_key = ?", key).Count(&count).Error; err != nil {
		return false, r.storeError(ctx, opExerciseNameTaken, "query_failed", err)
	}
	return count > 0, nil
}

// UsageInSets returns the number of sets referencing the exercise.
func (r *ExerciseRepository) UsageInSets(ctx context.Context, id int64) (int64, error) {
	count, err := usageInSets(r.withContext(ctx), id)
	if err != nil {
		return 0, r.storeError(ctx, opExerciseUsage, "query_failed", err, zap.Int64("exercise_id", id))
	}
	return count, nil
}

// Create stores a new exercise. ErrExerciseExists is returned when the normalized name is taken.
func (r *ExerciseRepository) Create(ctx context.Context, name string) (Exercise, error) {
	exercise := Exercise{
		Name:    normalizeExerciseName(name),
		NameKey: exerciseNameKey(name),
	}
	if exercise.Name == "" {
		return Exercise{}, newServiceError(opCreateExercise, "invalid_name", ErrInvalidExerciseName)
	}

	err := r.withContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := nameTaken(tx, exercise.NameKey, 0)
		if err != nil {
			return r.storeError(ctx, opCreateExercise, "name_check_failed", err)
		}
		if taken {
			return newServiceError(opCreateExercise, "name_exists", ErrExerciseExists)
		}
		if err := tx.Create(&exercise).Error; err != nil {
			if isUniqueViolation(err) {
				return newServiceError(opCreateExercise, "name_exists", ErrExerciseExists)
			}
			return r.storeError(ctx, opCreateExercise, "insert_failed", err)
		}
		return nil
	})
	if err != nil {
		return Exercise{}, err
	}

	return exercise, nil
}

// Update renames an exercise. Renaming onto a name held by another exercise yields ErrExerciseExists.
func (r *ExerciseRepository) Update(ctx context.Context, id int64, name string) (Exercise, error) {
	exercise := Exercise{
		ID:      id,
		Name:    normalizeExerciseName(name),
		NameKey: exerciseNameKey(name),
	}
	if exercise.Name == "" {
		return Exercise{}, newServiceError(opUpdateExercise, "invalid_name", ErrInvalidExerciseName)
	}

	err := r.withContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := nameTaken(tx, exercise.NameKey, id)
		if err != nil {
			return r.storeError(ctx, opUpdateExercise, "name_check_failed", err, zap.Int64("exercise_id", id))
		}
		if taken {
			return newServiceError(opUpdateExercise, "name_exists", ErrExerciseExists)
		}
		result := tx.Model(&Exercise{}).Where("id = ?", id).Updates(map[string]any{
			"name":     exercise.Name,
			"name_key": exercise.NameKey,
		})
		if result.Error != nil {
			if isUniqueViolation(result.Error) {
				return newServiceError(opUpdateExercise, "name_exists", ErrExerciseExists)
			}
			return r.storeError(ctx, opUpdateExercise, "update_failed", result.Error, zap.Int64("exercise_id", id))
		}
		if result.RowsAffected == 0 {
			return newServiceError(opUpdateExercise, "not_found", ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return Exercise{}, err
	}

	return exercise, nil
}

// Delete removes an exercise. ErrExerciseInUse is returned while any set references it.
func (r *ExerciseRepository) Delete(ctx context.Context, id int64) error {
	return r.withContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := usageInSets(tx, id)
		if err != nil {
			return r.storeError(ctx, opDeleteExercise, "usage_check_failed", err, zap.Int64("exercise_id", id))
		}
		if count > 0 {
			return newServiceError(opDeleteExercise, "in_use", ErrExerciseInUse)
		}

		result := tx.Delete(&Exercise{}, id)
		if result.Error != nil {
			if isForeignKeyViolation(result.Error) {
				return newServiceError(opDeleteExercise, "in_use", ErrExerciseInUse)
			}
			return r.storeError(ctx, opDeleteExercise, "delete_failed", result.Error, zap.Int64("exercise_id", id))
		}
		if result.RowsAffected == 0 {
			return newServiceError(opDeleteExercise, "not_found", ErrNotFound)
		}
		return nil
	})
}

func usageInSets(tx *gorm.DB, exerciseID int64) (int64, error) {
	var count int64
	err := tx.Model(&Set{}).Where("exercise_id = ?", exerciseID).Count(&count).Error
	return count, err
}

// nameTaken ignores the exercise with excludeID so that case-only renames stay allowed.
func nameTaken(tx *gorm.DB, key string, excludeID int64) (bool, error) {
	var count int64
	err := tx.Model(&Exercise{}).
		Where("name_key = ? AND id <> ?", key, excludeID).
		Count(&count).Error
	return count > 0, err
}
