package aiagent

import (
	"context"
	"fmt"
	"strings"

	"github.com/yash81300/arogyamitra/internal/plans"
	"github.com/yash81300/arogyamitra/internal/users"
)

const (
	defaultDailyCalories = 2000
	activityFactor       = 1.55
)

const workoutSystemPrompt = `You are an expert fitness trainer. Generate a detailed workout plan in JSON format.
The JSON must have this structure:
{
  "title": "Plan title",
  "days": [
    {
      "day": 1,
      "name": "Day name",
      "focus": "muscle group",
      "exercises": [
        {
          "name": "Exercise name",
          "sets": 3,
          "reps": "10-12",
          "rest_seconds": 60,
          "description": "How to perform",
          "muscle_group": "target muscle",
          "calories_burn": 50,
          "equipment": ["item"]
        }
      ],
      "total_duration_minutes": 45,
      "total_calories": 300
    }
  ]
}
Exercise names must be unique within a day. Return ONLY valid JSON, no other text.`

const nutritionSystemPrompt = `You are an expert nutritionist. Generate a detailed nutrition plan in JSON format.
The JSON must have this structure:
{
  "title": "Nutrition Plan title",
  "daily_calories": 2000,
  "macros": {"protein": 150, "carbs": 200, "fat": 65},
  "days": [
    {
      "day": 1,
      "meals": [
        {
          "meal_type": "breakfast",
          "name": "Meal name",
          "description": "Description",
          "calories": 400,
          "protein": 25,
          "carbs": 45,
          "fat": 12,
          "ingredients": ["item1", "item2"],
          "prep_time": "10 minutes"
        }
      ]
    }
  ],
  "grocery_list": ["item1", "item2"]
}
Return ONLY valid JSON.`

// GenerateWorkout asks the model for a workout plan of the given length. Any
// failure yields the static bodyweight plan.
func (a *Agent) GenerateWorkout(ctx context.Context, profile users.Profile, days int) (*plans.WorkoutDocument, error) {
	prompt := fmt.Sprintf(`Create a %d-day workout plan for:
- Fitness Level: %s
- Goal: %s
- Preference: %s
- Age: %s
- Gender: %s`,
		days, profile.FitnessLevel, profile.FitnessGoal, profile.WorkoutPreference,
		orNotSpecified(profile.Age), orNotSpecified(profile.Gender),
	)

	doc := &plans.WorkoutDocument{}
	err := a.completeJSON(ctx, "workout", []ChatMessage{
		{Role: "system", Content: workoutSystemPrompt},
		{Role: "user", Content: prompt},
	}, 6000, doc)
	if err == nil {
		err = doc.Validate()
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		a.fallback("workout", err)
		return DefaultWorkoutPlan(days), nil
	}
	return doc, nil
}

// GenerateNutrition asks the model for a nutrition plan aimed at the
// estimated daily calories of the user.
func (a *Agent) GenerateNutrition(ctx context.Context, profile users.Profile, days int, allergies []string) (*plans.NutritionDocument, error) {
	calories := DailyCalories(profile)
	restrictions := "None"
	if len(allergies) > 0 {
		restrictions = strings.Join(allergies, ", ")
	}
	prompt := fmt.Sprintf(`Create a %d-day nutrition plan for:
- Diet Type: %s
- Goal: %s
- Daily Calories Target: ~%d
- Age: %s
- Allergies/Restrictions: %s`,
		days, profile.DietPreference, profile.FitnessGoal, calories,
		orNotSpecified(profile.Age), restrictions,
	)

	doc := &plans.NutritionDocument{}
	err := a.completeJSON(ctx, "nutrition", []ChatMessage{
		{Role: "system", Content: nutritionSystemPrompt},
		{Role: "user", Content: prompt},
	}, 6000, doc)
	if err == nil {
		err = doc.Validate()
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		a.fallback("nutrition", err)
		return DefaultNutritionPlan(calories), nil
	}
	return doc, nil
}

func DefaultWorkoutPlan(days int) *plans.WorkoutDocument {
	doc := &plans.WorkoutDocument{
		Title: fmt.Sprintf("%d-Day Fitness Plan", days),
		Days:  make([]plans.WorkoutDay, 0, days),
	}
	for i := 1; i <= days; i++ {
		doc.Days = append(doc.Days, plans.WorkoutDay{
			Day:   i,
			Name:  fmt.Sprintf("Day %d", i),
			Focus: "Full Body",
			Exercises: []plans.Exercise{
				{Name: "Push-ups", Sets: 3, Reps: "10-15", RestSeconds: 60, Description: "Standard push-ups", MuscleGroup: "chest", CaloriesBurn: 30},
				{Name: "Squats", Sets: 3, Reps: "15-20", RestSeconds: 60, Description: "Bodyweight squats", MuscleGroup: "legs", CaloriesBurn: 35},
				{Name: "Plank", Sets: 3, Reps: "30-60 sec", RestSeconds: 45, Description: "Hold plank position", MuscleGroup: "core", CaloriesBurn: 20},
			},
			TotalDurationMinutes: 45,
			TotalCalories:        300,
		})
	}
	return doc
}

func DefaultNutritionPlan(dailyCalories int) *plans.NutritionDocument {
	return &plans.NutritionDocument{
		Title:         "Nutrition Plan",
		DailyCalories: dailyCalories,
		Macros:        plans.Macros{Protein: 150, Carbs: 200, Fat: 65},
		Days:          []plans.NutritionDay{},
		GroceryList:   []string{},
	}
}

// DailyCalories estimates the daily energy need from the basal metabolic rate
// and a moderate activity factor.
func DailyCalories(profile users.Profile) int {
	if profile.Weight == nil || profile.Height == nil || profile.Age == nil {
		return defaultDailyCalories
	}
	w, h, age := *profile.Weight, *profile.Height, float64(*profile.Age)

	gender := ""
	if profile.Gender != nil {
		gender = strings.ToLower(*profile.Gender)
	}

	var bmr float64
	switch gender {
	case "male":
		bmr = 88.362 + 13.397*w + 4.799*h - 5.677*age
	case "female":
		bmr = 447.593 + 9.247*w + 3.098*h - 4.330*age
	default:
		bmr = 267.978 + 11.322*w + 3.949*h - 5.004*age
	}
	return int(bmr * activityFactor)
}
