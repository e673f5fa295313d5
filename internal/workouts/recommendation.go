package workouts

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const opRecommend = "workouts.recommend_set"

// Recommender pre-fills the inputs of a new set from recent history.
type Recommender struct {
	store
}

// Recommend suggests exercise, repetitions and weight for the next set of a workout.
//
// The first matching rule wins:
//  1. the latest set of exerciseID within the workout, when exerciseID is given;
//  2. the latest set of any exercise within the workout;
//  3. the earliest set of the highest-id workout that has sets;
//  4. a neutral recommendation carrying NoExerciseID.
func (r *Recommender) Recommend(ctx context.Context, workoutID int64, exerciseID *int64) (Recommendation, error) {
	db := r.withContext(ctx)
	fields := []zap.Field{zap.Int64("workout_id", workoutID)}

	if exerciseID != nil {
		recommendation, found, err := firstSet(
			db.Where("workout_id = ? AND exercise_id = ?", workoutID, *exerciseID),
			"created_at_s DESC, id DESC",
		)
		if err != nil {
			return Recommendation{}, r.storeError(ctx, opRecommend, "latest_exercise_set_failed", err,
				append(fields, zap.Int64("exercise_id", *exerciseID))...)
		}
		if found {
			return recommendation, nil
		}
	}

	recommendation, found, err := firstSet(db.Where("workout_id = ?", workoutID), "created_at_s DESC, id DESC")
	if err != nil {
		return Recommendation{}, r.storeError(ctx, opRecommend, "latest_set_failed", err, fields...)
	}
	if found {
		return recommendation, nil
	}

	// Every set references an existing workout, so the highest workout id among sets
	// is the highest-id workout that has at least one set.
	recommendation, found, err = firstSet(
		db.Where("workout_id = (?)", db.Model(&Set{}).Select("MAX(workout_id)")),
		"created_at_s ASC, id ASC",
	)
	if err != nil {
		return Recommendation{}, r.storeError(ctx, opRecommend, "previous_workout_failed", err, fields...)
	}
	if found {
		return recommendation, nil
	}

	return Recommendation{ExerciseID: NoExerciseID}, nil
}

func firstSet(query *gorm.DB, order string) (Recommendation, bool, error) {
	var sets []Set
	if err := query.Order(order).Limit(1).Find(&sets).Error; err != nil {
		return Recommendation{}, false, err
	}
	if len(sets) == 0 {
		return Recommendation{}, false, nil
	}
	return Recommendation{
		ExerciseID:  sets[0].ExerciseID,
		Repetitions: sets[0].Repetitions,
		Weight:      sets[0].Weight,
	}, true, nil
}
