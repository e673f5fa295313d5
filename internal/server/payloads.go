package server

import (
	"time"

	"github.com/MarcoPoloResearchLab/workouts/internal/workouts"
)

type exerciseResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type exerciseNameRequest struct {
	Name string `json:"name"`
}

type existsResponse struct {
	Exists bool `json:"exists"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

type workoutResponse struct {
	ID                    int64   `json:"id"`
	StartSecondsUnixEpoch int64   `json:"startSecondsUnixEpoch"`
	Note                  *string `json:"note"`
}

type createWorkoutRequest struct {
	Note string `json:"note"`
}

type createWorkoutResponse struct {
	ID int64 `json:"id"`
}

type setRequest struct {
	ExerciseID  int64   `json:"exerciseId"`
	Repetitions int     `json:"repetitions"`
	Weight      float64 `json:"weight"`
	Note        string  `json:"note"`
}

func (r setRequest) input() workouts.SetInput {
	return workouts.SetInput{
		ExerciseID:  r.ExerciseID,
		Repetitions: r.Repetitions,
		Weight:      r.Weight,
		Note:        r.Note,
	}
}

type setResponse struct {
	ID                   int64   `json:"id"`
	ExerciseID           int64   `json:"exerciseId"`
	ExerciseName         string  `json:"exerciseName"`
	DoneSecondsUnixEpoch int64   `json:"doneSecondsUnixEpoch"`
	Repetitions          int     `json:"repetitions"`
	Weight               float64 `json:"weight"`
	Note                 *string `json:"note"`
}

type recommendationResponse struct {
	ExerciseID  int64   `json:"exerciseId"`
	Repetitions int     `json:"repetitions"`
	Weight      float64 `json:"weight"`
}

type statisticsResponse struct {
	TotalWorkouts        int64 `json:"totalWorkouts"`
	TotalDurationSeconds int64 `json:"totalDurationSeconds"`
	AvgDurationSeconds   int64 `json:"avgDurationSeconds"`
	TotalSets            int64 `json:"totalSets"`
	TotalReps            int64 `json:"totalReps"`
	AvgRepsPerSet        int64 `json:"avgRepsPerSet"`
}

func newExerciseResponse(exercise workouts.Exercise) exerciseResponse {
	return exerciseResponse{ID: exercise.ID, Name: exercise.Name}
}

func newWorkoutResponse(workout workouts.Workout) workoutResponse {
	return workoutResponse{
		ID:                    workout.ID,
		StartSecondsUnixEpoch: workout.StartedAtSeconds,
		Note:                  workout.Note,
	}
}

func newSetResponse(set workouts.SetDetails) setResponse {
	return setResponse{
		ID:                   set.ID,
		ExerciseID:           set.ExerciseID,
		ExerciseName:         set.ExerciseName,
		DoneSecondsUnixEpoch: set.CreatedAtSeconds,
		Repetitions:          set.Repetitions,
		Weight:               set.Weight,
		Note:                 set.Note,
	}
}

func newRecommendationResponse(recommendation workouts.Recommendation) recommendationResponse {
	return recommendationResponse{
		ExerciseID:  recommendation.ExerciseID,
		Repetitions: recommendation.Repetitions,
		Weight:      recommendation.Weight,
	}
}

func newStatisticsResponse(overview workouts.Overview) statisticsResponse {
	return statisticsResponse{
		TotalWorkouts:        overview.TotalWorkouts,
		TotalDurationSeconds: int64(overview.TotalDuration / time.Second),
		AvgDurationSeconds:   int64(overview.AvgDuration / time.Second),
		TotalSets:            overview.TotalSets,
		TotalReps:            overview.TotalReps,
		AvgRepsPerSet:        overview.AvgRepsPerSet,
	}
}
