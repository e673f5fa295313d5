package workouts

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound indicates that the addressed record does not exist.
	ErrNotFound = errors.New("workouts: record not found")
	// ErrExerciseExists indicates that another exercise already carries the normalized name.
	ErrExerciseExists = errors.New("workouts: exercise name already exists")
	// ErrExerciseInUse indicates that an exercise cannot be removed while sets reference it.
	ErrExerciseInUse = errors.New("workouts: exercise is used in sets")
	// ErrExerciseNotFound indicates that a set payload references an unknown exercise.
	ErrExerciseNotFound = errors.New("workouts: referenced exercise does not exist")
	// ErrInvalidExerciseName indicates an empty exercise name.
	ErrInvalidExerciseName = errors.New("workouts: invalid exercise name")
	// ErrInvalidSet indicates that set facts violate repetitions or weight bounds.
	ErrInvalidSet = errors.New("workouts: invalid set")

	errMissingDatabase = errors.New("database handle is required")
)

// ServiceError annotates a failure with an "operation.reason" code.
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

func (e *ServiceError) Code() string {
	return e.code
}

func newServiceError(operation, reason string, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &ServiceError{code: code, err: cause}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
