package database

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	migrationCreateWorkoutSchema   = "2026-09-12_create_workout_schema"
	migrationUniqueExerciseNameKey = "2026-10-03_unique_exercise_name_key"
)

type migrationRecord struct {
	Name             string `gorm:"column:name;primaryKey;size:190;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null"`
}

func (migrationRecord) TableName() string {
	return "db_migrations"
}

type migrationDefinition struct {
	name  string
	apply func(*gorm.DB) error
}

func applyMigrations(db *gorm.DB, logger *zap.Logger) error {
	migrations := []migrationDefinition{
		{name: migrationCreateWorkoutSchema, apply: createWorkoutSchema},
		{name: migrationUniqueExerciseNameKey, apply: uniqueExerciseNameKey},
	}

	for _, migration := range migrations {
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := migration.apply(tx); err != nil {
				return err
			}
			appliedAt := time.Now().UTC().Unix()
			return tx.Create(&migrationRecord{Name: migration.name, AppliedAtSeconds: appliedAt}).Error
		})
		if err != nil {
			return err
		}
		if logger != nil {
			logger.Info("database migration applied", zap.String("migration", migration.name))
		}
	}
	return nil
}

func createWorkoutSchema(db *gorm.DB) error {
	return execAll(db,
		`CREATE TABLE IF NOT EXISTS workout (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			start_s INTEGER NOT NULL,
			note    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_workout_start ON workout (start_s)`,
		`CREATE TABLE IF NOT EXISTS exercise (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			name     TEXT    NOT NULL,
			name_key TEXT    NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS exercise_set (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			workout_id   INTEGER NOT NULL REFERENCES workout (id) ON DELETE CASCADE,
			exercise_id  INTEGER NOT NULL REFERENCES exercise (id) ON DELETE RESTRICT,
			repetitions  INTEGER NOT NULL CHECK (repetitions > 0),
			weight       REAL    NOT NULL CHECK (weight >= 0),
			created_at_s INTEGER NOT NULL,
			note         TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exercise_set_workout_created ON exercise_set (workout_id, created_at_s)`,
		`CREATE INDEX IF NOT EXISTS idx_exercise_set_exercise ON exercise_set (exercise_id)`,
	)
}

// uniqueExerciseNameKey backfills the normalized name and enforces uniqueness in the store,
// closing the window between the existence check and the insert.
func uniqueExerciseNameKey(db *gorm.DB) error {
	if err := backfillExerciseNameKeys(db); err != nil {
		return err
	}
	return execAll(db,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_exercise_name_key ON exercise (name_key)`,
	)
}

// The key is computed in Go: SQLite LOWER and TRIM only handle ASCII letters and spaces.
func backfillExerciseNameKeys(db *gorm.DB) error {
	var rows []struct {
		ID   int64
		Name string
	}
	if err := db.Table("exercise").Select("id, name").Where("name_key = ''").Scan(&rows).Error; err != nil {
		return err
	}
	for _, row := range rows {
		err := db.Table("exercise").Where("id = ?", row.ID).Update("name_key", exerciseNameKey(row.Name)).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// exerciseNameKey must stay in step with the key the exercise repository writes.
func exerciseNameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func execAll(db *gorm.DB, statements ...string) error {
	for _, statement := range statements {
		if err := db.Exec(statement).Error; err != nil {
			return err
		}
	}
	return nil
}
