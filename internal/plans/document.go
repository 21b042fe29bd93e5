package plans

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yash81300/arogyamitra/pkg"
)

type Kind string

const (
	KindWorkout   Kind = "workout"
	KindNutrition Kind = "nutrition"
)

func (k Kind) Valid() bool {
	return k == KindWorkout || k == KindNutrition
}

// ExerciseItemType is the type segment of every workout item key. Meals use
// their meal type instead.
const ExerciseItemType = "exercise"

// ItemKey is the composite "day|type|name" identifier of one schedulable item.
func ItemKey(day int, itemType, name string) string {
	return strconv.Itoa(day) + "|" + itemType + "|" + name
}

type Exercise struct {
	Name         string   `json:"name"`
	Sets         int      `json:"sets"`
	Reps         string   `json:"reps"`
	RestSeconds  int      `json:"rest_seconds"`
	Description  string   `json:"description,omitempty"`
	MuscleGroup  string   `json:"muscle_group,omitempty"`
	CaloriesBurn int      `json:"calories_burn"`
	Equipment    []string `json:"equipment,omitempty"`
}

type WorkoutDay struct {
	Day                  int        `json:"day"`
	Name                 string     `json:"name"`
	Focus                string     `json:"focus,omitempty"`
	Exercises            []Exercise `json:"exercises"`
	TotalDurationMinutes int        `json:"total_duration_minutes"`
	TotalCalories        int        `json:"total_calories"`
}

type WorkoutDocument struct {
	Title     string       `json:"title"`
	Days      []WorkoutDay `json:"days"`
	Equipment []string     `json:"equipment,omitempty"`
}

type Macros struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

type Meal struct {
	MealType    string   `json:"meal_type"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Calories    int      `json:"calories"`
	Protein     float64  `json:"protein"`
	Carbs       float64  `json:"carbs"`
	Fat         float64  `json:"fat"`
	Ingredients []string `json:"ingredients,omitempty"`
	PrepTime    string   `json:"prep_time,omitempty"`
}

type NutritionDay struct {
	Day   int    `json:"day"`
	Meals []Meal `json:"meals"`
}

type NutritionDocument struct {
	Title         string         `json:"title"`
	DailyCalories int            `json:"daily_calories"`
	Macros        Macros         `json:"macros"`
	Days          []NutritionDay `json:"days"`
	GroceryList   []string       `json:"grocery_list,omitempty"`
}

type keyCollector map[string]bool

func (c keyCollector) add(key string) error {
	if c[key] {
		return pkg.NewValidationError("document", "duplicate item key %q", key)
	}
	c[key] = true
	return nil
}

func nonNegative(field string, values ...float64) error {
	for _, v := range values {
		if v < 0 {
			return pkg.NewValidationError(field, "must not be negative")
		}
	}
	return nil
}

// Validate rejects documents with negative quantities, unnamed items or
// colliding item keys.
func (d *WorkoutDocument) Validate() error {
	keys := keyCollector{}
	for i, day := range d.Days {
		if day.Day < 1 {
			return pkg.NewValidationError(fmt.Sprintf("days[%d].day", i), "must be positive")
		}
		if err := nonNegative(
			fmt.Sprintf("days[%d]", i),
			float64(day.TotalDurationMinutes), float64(day.TotalCalories),
		); err != nil {
			return err
		}
		for j, ex := range day.Exercises {
			field := fmt.Sprintf("days[%d].exercises[%d]", i, j)
			if strings.TrimSpace(ex.Name) == "" {
				return pkg.NewValidationError(field+".name", "must not be empty")
			}
			if err := nonNegative(field, float64(ex.Sets), float64(ex.RestSeconds), float64(ex.CaloriesBurn)); err != nil {
				return err
			}
			if err := keys.add(ItemKey(day.Day, ExerciseItemType, ex.Name)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *NutritionDocument) Validate() error {
	if err := nonNegative("nutrition", float64(d.DailyCalories), d.Macros.Protein, d.Macros.Carbs, d.Macros.Fat); err != nil {
		return err
	}

	keys := keyCollector{}
	for i, day := range d.Days {
		if day.Day < 1 {
			return pkg.NewValidationError(fmt.Sprintf("days[%d].day", i), "must be positive")
		}
		for j, meal := range day.Meals {
			field := fmt.Sprintf("days[%d].meals[%d]", i, j)
			if strings.TrimSpace(meal.Name) == "" {
				return pkg.NewValidationError(field+".name", "must not be empty")
			}
			if strings.TrimSpace(meal.MealType) == "" {
				return pkg.NewValidationError(field+".meal_type", "must not be empty")
			}
			if err := nonNegative(field, float64(meal.Calories), meal.Protein, meal.Carbs, meal.Fat); err != nil {
				return err
			}
			if err := keys.add(ItemKey(day.Day, meal.MealType, meal.Name)); err != nil {
				return err
			}
		}
	}
	return nil
}

// dedupe keeps the first occurrence of every non-empty value.
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// EquipmentList returns the document equipment list, or the flattened
// equipment of all exercises when the document carries none.
func (d *WorkoutDocument) EquipmentList() []string {
	if len(d.Equipment) > 0 {
		return d.Equipment
	}
	var all []string
	for _, day := range d.Days {
		for _, ex := range day.Exercises {
			all = append(all, ex.Equipment...)
		}
	}
	return dedupe(all)
}

// DerivedGroceryList flattens the ingredients of all meals.
func (d *NutritionDocument) DerivedGroceryList() []string {
	var all []string
	for _, day := range d.Days {
		for _, meal := range day.Meals {
			all = append(all, meal.Ingredients...)
		}
	}
	return dedupe(all)
}
