package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/MarcoPoloResearchLab/workouts/internal/metrics"
	"github.com/MarcoPoloResearchLab/workouts/internal/workouts"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errStoreUnavailable = errors.New("database is locked")

type fakeExerciseStore struct {
	exercises   map[int64]workouts.Exercise
	usage       map[int64]int64
	nextID      int64
	createErr   error
	existsErr   error
	existsCalls int
}

func newFakeExerciseStore(names ...string) *fakeExerciseStore {
	store := &fakeExerciseStore{exercises: map[int64]workouts.Exercise{}, usage: map[int64]int64{}}
	for _, name := range names {
		store.nextID++
		store.exercises[store.nextID] = workouts.Exercise{ID: store.nextID, Name: name}
	}
	return store
}

func (s *fakeExerciseStore) List(context.Context) ([]workouts.Exercise, error) {
	list := make([]workouts.Exercise, 0, len(s.exercises))
	for _, exercise := range s.exercises {
		list = append(list, exercise)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (s *fakeExerciseStore) Create(_ context.Context, name string) (workouts.Exercise, error) {
	if s.createErr != nil {
		return workouts.Exercise{}, s.createErr
	}
	s.nextID++
	exercise := workouts.Exercise{ID: s.nextID, Name: strings.TrimSpace(name)}
	s.exercises[exercise.ID] = exercise
	return exercise, nil
}

func (s *fakeExerciseStore) Update(_ context.Context, id int64, name string) (workouts.Exercise, error) {
	exercise, ok := s.exercises[id]
	if !ok {
		return workouts.Exercise{}, workouts.ErrNotFound
	}
	exercise.Name = strings.TrimSpace(name)
	s.exercises[id] = exercise
	return exercise, nil
}

func (s *fakeExerciseStore) Delete(_ context.Context, id int64) error {
	if s.usage[id] > 0 {
		return workouts.ErrExerciseInUse
	}
	delete(s.exercises, id)
	return nil
}

func (s *fakeExerciseStore) ExistsByID(_ context.Context, id int64) (bool, error) {
	s.existsCalls++
	if s.existsErr != nil {
		return false, s.existsErr
	}
	_, ok := s.exercises[id]
	return ok, nil
}

func (s *fakeExerciseStore) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, exercise := range s.exercises {
		if strings.EqualFold(exercise.Name, strings.TrimSpace(name)) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeExerciseStore) UsageInSets(_ context.Context, id int64) (int64, error) {
	return s.usage[id], nil
}

type fakeWorkoutStore struct {
	workouts     map[int64]workouts.Workout
	nextID       int64
	createdNotes []string
	deleted      []int64
}

func newFakeWorkoutStore(ids ...int64) *fakeWorkoutStore {
	store := &fakeWorkoutStore{workouts: map[int64]workouts.Workout{}}
	for _, id := range ids {
		store.workouts[id] = workouts.Workout{ID: id, StartedAtSeconds: 1_700_000_000 + id}
		if id > store.nextID {
			store.nextID = id
		}
	}
	return store
}

func (s *fakeWorkoutStore) List(context.Context) ([]workouts.Workout, error) {
	list := make([]workouts.Workout, 0, len(s.workouts))
	for _, workout := range s.workouts {
		list = append(list, workout)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (s *fakeWorkoutStore) Create(_ context.Context, note string) (workouts.Workout, error) {
	s.nextID++
	s.createdNotes = append(s.createdNotes, note)
	workout := workouts.Workout{ID: s.nextID, StartedAtSeconds: 1_700_000_000, Note: blankToNil(note)}
	s.workouts[workout.ID] = workout
	return workout, nil
}

func (s *fakeWorkoutStore) Delete(_ context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	delete(s.workouts, id)
	return nil
}

func (s *fakeWorkoutStore) ExistsByID(_ context.Context, id int64) (bool, error) {
	_, ok := s.workouts[id]
	return ok, nil
}

type fakeSetStore struct {
	sets          map[int64]workouts.SetDetails
	exercises     *fakeExerciseStore
	nextID        int64
	existsErr     error
	existsCalls   int
	findByIDCalls int
}

func newFakeSetStore(exercises *fakeExerciseStore) *fakeSetStore {
	return &fakeSetStore{sets: map[int64]workouts.SetDetails{}, exercises: exercises}
}

func (s *fakeSetStore) add(workoutID int64, input workouts.SetInput) workouts.SetDetails {
	s.nextID++
	set := workouts.SetDetails{
		Set: workouts.Set{
			ID:               s.nextID,
			WorkoutID:        workoutID,
			ExerciseID:       input.ExerciseID,
			Repetitions:      input.Repetitions,
			Weight:           input.Weight,
			CreatedAtSeconds: 1_700_000_100 + s.nextID,
			Note:             blankToNil(input.Note),
		},
		ExerciseName: s.exercises.exercises[input.ExerciseID].Name,
	}
	s.sets[set.ID] = set
	return set
}

func (s *fakeSetStore) FindByID(_ context.Context, id int64) (workouts.SetDetails, error) {
	s.findByIDCalls++
	set, ok := s.sets[id]
	if !ok {
		return workouts.SetDetails{}, workouts.ErrNotFound
	}
	return set, nil
}

func (s *fakeSetStore) FindByWorkoutID(_ context.Context, workoutID int64) ([]workouts.SetDetails, error) {
	list := make([]workouts.SetDetails, 0)
	for _, set := range s.sets {
		if set.WorkoutID == workoutID {
			list = append(list, set)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (s *fakeSetStore) Create(_ context.Context, workoutID int64, input workouts.SetInput) (workouts.SetDetails, error) {
	if err := input.Validate(); err != nil {
		return workouts.SetDetails{}, err
	}
	if _, ok := s.exercises.exercises[input.ExerciseID]; !ok {
		return workouts.SetDetails{}, workouts.ErrExerciseNotFound
	}
	return s.add(workoutID, input), nil
}

func (s *fakeSetStore) Update(_ context.Context, id int64, input workouts.SetInput) (workouts.SetDetails, error) {
	if err := input.Validate(); err != nil {
		return workouts.SetDetails{}, err
	}
	set, ok := s.sets[id]
	if !ok {
		return workouts.SetDetails{}, workouts.ErrNotFound
	}
	set.ExerciseID = input.ExerciseID
	set.ExerciseName = s.exercises.exercises[input.ExerciseID].Name
	set.Repetitions = input.Repetitions
	set.Weight = input.Weight
	set.Note = blankToNil(input.Note)
	s.sets[id] = set
	return set, nil
}

func (s *fakeSetStore) Delete(_ context.Context, id int64) error {
	delete(s.sets, id)
	return nil
}

func (s *fakeSetStore) ExistsByID(_ context.Context, id int64) (bool, error) {
	s.existsCalls++
	if s.existsErr != nil {
		return false, s.existsErr
	}
	_, ok := s.sets[id]
	return ok, nil
}

type fakeRecommender struct {
	workoutID  int64
	exerciseID *int64
	calls      int
	result     workouts.Recommendation
}

func (r *fakeRecommender) Recommend(_ context.Context, workoutID int64, exerciseID *int64) (workouts.Recommendation, error) {
	r.calls++
	r.workoutID = workoutID
	r.exerciseID = exerciseID
	return r.result, nil
}

type fakeStatistics struct {
	overview workouts.Overview
	err      error
	panics   bool
}

func (s *fakeStatistics) Overview(context.Context) (workouts.Overview, error) {
	if s.panics {
		panic("statistics exploded")
	}
	return s.overview, s.err
}

type staticIDProvider struct {
	id string
}

func (p staticIDProvider) NewID() (string, error) {
	return p.id, nil
}

type testServer struct {
	exercises   *fakeExerciseStore
	workouts    *fakeWorkoutStore
	sets        *fakeSetStore
	recommender *fakeRecommender
	statistics  *fakeStatistics
	metrics     *metrics.Manager
	logger      *zap.Logger
	origins     []string
}

func newTestServer() *testServer {
	exercises := newFakeExerciseStore("Squats", "Bench Press")
	return &testServer{
		exercises:   exercises,
		workouts:    newFakeWorkoutStore(1, 2),
		sets:        newFakeSetStore(exercises),
		recommender: &fakeRecommender{result: workouts.Recommendation{ExerciseID: workouts.NoExerciseID}},
		statistics:  &fakeStatistics{},
		metrics:     metrics.NewTestManager(),
		logger:      zap.NewNop(),
	}
}

func (s *testServer) handler(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handler, err := NewHTTPHandler(Dependencies{
		Exercises:      s.exercises,
		Workouts:       s.workouts,
		Sets:           s.sets,
		Recommender:    s.recommender,
		Statistics:     s.statistics,
		Logger:         s.logger,
		Metrics:        s.metrics,
		RequestIDs:     staticIDProvider{id: "generated-request-id"},
		AllowedOrigins: s.origins,
	})
	if err != nil {
		t.Fatalf("failed to build handler: %v", err)
	}
	return handler
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var request *http.Request
	if body == "" {
		request = httptest.NewRequest(method, target, http.NoBody)
	} else {
		request = httptest.NewRequest(method, target, strings.NewReader(body))
		request.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	s.handler(t).ServeHTTP(recorder, request)
	return recorder
}

func expectResponse(t *testing.T, recorder *httptest.ResponseRecorder, status int, body string) {
	t.Helper()
	if recorder.Code != status {
		t.Fatalf("expected status %d, got %d (body %s)", status, recorder.Code, recorder.Body.String())
	}
	if body != "" && recorder.Body.String() != body {
		t.Fatalf("unexpected response body: %s", recorder.Body.String())
	}
}

func blankToNil(note string) *string {
	trimmed := strings.TrimSpace(note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
