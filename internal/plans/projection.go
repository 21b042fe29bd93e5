package plans

import (
	"slices"
	"time"
)

type ItemView struct {
	Key         string    `json:"key"`
	Day         int       `json:"day"`
	DayName     string    `json:"day_name,omitempty"`
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	IsCompleted bool      `json:"is_completed"`
	Exercise    *Exercise `json:"exercise,omitempty"`
	Meal        *Meal     `json:"meal,omitempty"`
}

type PlanView struct {
	ID            int64      `json:"id"`
	Kind          Kind       `json:"kind"`
	Title         string     `json:"title"`
	Items         []ItemView `json:"items"`
	CompletedKeys []string   `json:"completed_keys"`
	CreatedAt     time.Time  `json:"created_at"`

	// workout
	Days      []WorkoutDay `json:"days,omitempty"`
	Equipment []string     `json:"equipment,omitempty"`

	// nutrition
	DailyCalories *int     `json:"daily_calories,omitempty"`
	ProteinGrams  *float64 `json:"protein_grams,omitempty"`
	CarbsGrams    *float64 `json:"carbs_grams,omitempty"`
	FatGrams      *float64 `json:"fat_grams,omitempty"`
	GroceryList   []string `json:"grocery_list,omitempty"`
}

// Project builds the read view of a plan: every item flattened with its key
// and completion flag. The plan is not modified.
func Project(p *Plan) PlanView {
	completed := make(map[string]bool, len(p.Completed))
	for _, k := range p.Completed {
		completed[k] = true
	}

	completedKeys := slices.Clone(p.Completed)
	if completedKeys == nil {
		completedKeys = []string{}
	}
	slices.Sort(completedKeys)

	view := PlanView{
		ID:            p.ID,
		Kind:          p.Kind,
		Title:         p.Title,
		Items:         []ItemView{},
		CompletedKeys: completedKeys,
		CreatedAt:     p.CreatedAt,
	}

	switch p.Kind {
	case KindWorkout:
		if p.Workout == nil {
			break
		}
		for _, day := range p.Workout.Days {
			for i := range day.Exercises {
				ex := day.Exercises[i]
				key := ItemKey(day.Day, ExerciseItemType, ex.Name)
				view.Items = append(view.Items, ItemView{
					Key:         key,
					Day:         day.Day,
					DayName:     day.Name,
					Type:        ExerciseItemType,
					Name:        ex.Name,
					IsCompleted: completed[key],
					Exercise:    &ex,
				})
			}
		}
		view.Days = p.Workout.Days
		view.Equipment = p.Workout.EquipmentList()

	case KindNutrition:
		if p.Nutrition == nil {
			break
		}
		doc := p.Nutrition
		for _, day := range doc.Days {
			for i := range day.Meals {
				meal := day.Meals[i]
				key := ItemKey(day.Day, meal.MealType, meal.Name)
				view.Items = append(view.Items, ItemView{
					Key:         key,
					Day:         day.Day,
					Type:        meal.MealType,
					Name:        meal.Name,
					IsCompleted: completed[key],
					Meal:        &meal,
				})
			}
		}

		dailyCalories := doc.DailyCalories
		protein, carbs, fat := doc.Macros.Protein, doc.Macros.Carbs, doc.Macros.Fat
		view.DailyCalories = &dailyCalories
		view.ProteinGrams = &protein
		view.CarbsGrams = &carbs
		view.FatGrams = &fat

		switch {
		case len(p.GroceryList) > 0:
			view.GroceryList = p.GroceryList
		case len(doc.GroceryList) > 0:
			view.GroceryList = doc.GroceryList
		default:
			view.GroceryList = doc.DerivedGroceryList()
		}
	}

	return view
}
