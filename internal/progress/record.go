package progress

import (
	"time"
)

const (
	DefaultHistoryLimit = 30
	MaxHistoryLimit     = 100
)

// Record is an immutable progress entry. Entries written for a completed plan
// item carry the activity name; manual entries leave it empty.
type Record struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"-"`
	RecordedAt         time.Time `json:"date"`
	Weight             *float64  `json:"weight"`
	BodyFatPercent     *float64  `json:"body_fat_percent"`
	MuscleMass         *float64  `json:"muscle_mass"`
	WaistCircumference *float64  `json:"waist_circumference"`
	CaloriesBurned     *int      `json:"calories_burned"`
	ActivityName       *string   `json:"workout_completed"`
	Notes              *string   `json:"notes"`
}

func (r *Record) IsManual() bool {
	return r.ActivityName == nil
}

func (r *Record) Calories() int {
	if r.CaloriesBurned == nil {
		return 0
	}
	return *r.CaloriesBurned
}

// Totals aggregates the calories over all records of a user.
type Totals struct {
	ExerciseCalories int
	ManualCalories   int
	RecordsCount     int
}

type Stats struct {
	TotalWorkouts       int `json:"total_workouts"`
	TotalCaloriesBurned int `json:"total_calories_burned"`
	ExerciseCalories    int `json:"exercise_calories"`
	ManualCalories      int `json:"manual_calories"`
	Points              int `json:"points"`
	MilestoneCount      int `json:"milestone_count"`
	RecordsCount        int `json:"records_count"`
}

// ClampHistoryLimit maps a requested limit into [1, MaxHistoryLimit]. Zero
// means the default.
func ClampHistoryLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultHistoryLimit
	case limit < 1:
		return 1
	case limit > MaxHistoryLimit:
		return MaxHistoryLimit
	}
	return limit
}
