package workouts

import (
	"context"
	"time"
)

const opOverview = "workouts.statistics_overview"

// StatisticsAggregator computes summary metrics over the whole history.
type StatisticsAggregator struct {
	store
}

type workoutSpan struct {
	StartSeconds int64
	EndSeconds   int64
}

type setTotals struct {
	TotalSets int64
	TotalReps int64
}

// Overview aggregates workout durations and set totals.
//
// A workout's duration runs from its start to its latest set, so only workouts with at
// least one set are counted in TotalWorkouts and the duration average. The two queries
// are independent reads and are not required to observe the same snapshot.
func (a *StatisticsAggregator) Overview(ctx context.Context) (Overview, error) {
	var spans []workoutSpan
	err := a.withContext(ctx).
		Table("exercise_set AS es").
		Select("w.start_s AS start_seconds, MAX(es.created_at_s) AS end_seconds").
		Joins("JOIN workout AS w ON w.id = es.workout_id").
		Group("w.id").
		Scan(&spans).Error
	if err != nil {
		return Overview{}, a.storeError(ctx, opOverview, "durations_query_failed", err)
	}
	if len(spans) == 0 {
		return Overview{}, nil
	}

	var totals setTotals
	err = a.withContext(ctx).
		Table("exercise_set").
		Select("COUNT(id) AS total_sets, COALESCE(SUM(repetitions), 0) AS total_reps").
		Scan(&totals).Error
	if err != nil {
		return Overview{}, a.storeError(ctx, opOverview, "totals_query_failed", err)
	}

	return summarize(spans, totals), nil
}

func summarize(spans []workoutSpan, totals setTotals) Overview {
	overview := Overview{
		TotalWorkouts: int64(len(spans)),
		TotalSets:     totals.TotalSets,
		TotalReps:     totals.TotalReps,
	}
	for _, span := range spans {
		overview.TotalDuration += time.Unix(span.EndSeconds, 0).Sub(time.Unix(span.StartSeconds, 0))
	}
	if overview.TotalWorkouts > 0 {
		overview.AvgDuration = overview.TotalDuration / time.Duration(overview.TotalWorkouts)
	}
	if overview.TotalSets > 0 {
		overview.AvgRepsPerSet = overview.TotalReps / overview.TotalSets
	}
	return overview
}
