package workouts

import (
	"strings"
	"time"
)

// NoExerciseID marks a recommendation that does not pre-select an exercise.
const NoExerciseID int64 = -1

// Exercise is a named catalog entry reusable across sets.
type Exercise struct {
	ID      int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name    string `gorm:"column:name;not null"`
	NameKey string `gorm:"column:name_key;not null"`
}

// TableName provides the explicit table binding for GORM.
func (Exercise) TableName() string {
	return "exercise"
}

// Workout is a timed training session grouping zero or more sets.
type Workout struct {
	ID               int64   `gorm:"column:id;primaryKey;autoIncrement"`
	StartedAtSeconds int64   `gorm:"column:start_s;not null"`
	Note             *string `gorm:"column:note"`
}

// TableName provides the explicit table binding for GORM.
func (Workout) TableName() string {
	return "workout"
}

// StartedAt returns the UTC start instant of the workout.
func (w Workout) StartedAt() time.Time {
	return time.Unix(w.StartedAtSeconds, 0).UTC()
}

// Set records one performance of an exercise within a workout.
type Set struct {
	ID               int64   `gorm:"column:id;primaryKey;autoIncrement"`
	WorkoutID        int64   `gorm:"column:workout_id;not null"`
	ExerciseID       int64   `gorm:"column:exercise_id;not null"`
	Repetitions      int     `gorm:"column:repetitions;not null"`
	Weight           float64 `gorm:"column:weight;not null"`
	CreatedAtSeconds int64   `gorm:"column:created_at_s;not null"`
	Note             *string `gorm:"column:note"`
}

// TableName provides the explicit table binding for GORM.
func (Set) TableName() string {
	return "exercise_set"
}

// CreatedAt returns the UTC instant the set was recorded.
func (s Set) CreatedAt() time.Time {
	return time.Unix(s.CreatedAtSeconds, 0).UTC()
}

// SetDetails is a set joined with the name of its exercise.
type SetDetails struct {
	Set
	ExerciseName string `gorm:"column:exercise_name"`
}

// SetInput carries the mutable facts of a set.
type SetInput struct {
	ExerciseID  int64
	Repetitions int
	Weight      float64
	Note        string
}

// Recommendation is a pre-filled payload for the next set of a workout.
type Recommendation struct {
	ExerciseID  int64
	Repetitions int
	Weight      float64
}

// HasExercise reports whether the recommendation pre-selects an exercise.
func (r Recommendation) HasExercise() bool {
	return r.ExerciseID != NoExerciseID
}

// Overview summarizes the complete workout history.
type Overview struct {
	TotalWorkouts int64
	TotalDuration time.Duration
	AvgDuration   time.Duration
	TotalSets     int64
	TotalReps     int64
	AvgRepsPerSet int64
}

func normalizeExerciseName(name string) string {
	return strings.TrimSpace(name)
}

func exerciseNameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// optionalNote keeps "has note" a clean boolean: blank notes are stored as NULL.
func optionalNote(note string) *string {
	trimmed := strings.TrimSpace(note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
