package calendar

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // calendar events are always placed in TimeZone

	gcal "google.golang.org/api/calendar/v3"

	"github.com/yash81300/arogyamitra/internal/plans"
)

const (
	TimeZone = "Asia/Kolkata"

	maxListedExercises = 8
	workoutColor       = "2"
	workoutReminderMin = 30
	mealReminderMin    = 15
	mealDuration       = 30 * time.Minute
	footer             = "Generated by ArogyaMitra AI"
)

type mealSlot struct {
	hour, minute int
	color        string
}

var mealSlots = map[string]mealSlot{
	"breakfast": {7, 30, "5"},
	"lunch":     {12, 30, "6"},
	"snack":     {16, 0, "2"},
	"dinner":    {19, 30, "1"},
}

var defaultMealSlot = mealSlot{12, 0, "1"}

// NextMonday returns midnight of the first Monday strictly after now, in the
// location of now.
func NextMonday(now time.Time) time.Time {
	daysUntil := (8 - int(now.Weekday())) % 7
	if daysUntil == 0 {
		daysUntil = 7
	}
	y, m, d := now.Date()
	return time.Date(y, m, d+daysUntil, 0, 0, 0, 0, now.Location())
}

func eventTime(t time.Time) *gcal.EventDateTime {
	return &gcal.EventDateTime{
		DateTime: t.Format("2006-01-02T15:04:05"),
		TimeZone: TimeZone,
	}
}

func popup(minutes int64) *gcal.EventReminders {
	return &gcal.EventReminders{
		UseDefault:      false,
		Overrides:       []*gcal.EventReminder{{Method: "popup", Minutes: minutes}},
		ForceSendFields: []string{"UseDefault"},
	}
}

// WorkoutEvents builds one event per training day of the plan, the i-th day of
// the plan falling on weekStart plus i days. Rest days are skipped. Events
// start at the clock time of now and last until the end of their day.
func WorkoutEvents(doc *plans.WorkoutDocument, weekStart, now time.Time) []*gcal.Event {
	events := make([]*gcal.Event, 0, len(doc.Days))
	for i, day := range doc.Days {
		if day.TotalDurationMinutes <= 0 {
			continue
		}

		date := weekStart.AddDate(0, 0, i)
		start := time.Date(date.Year(), date.Month(), date.Day(), now.Hour(), now.Minute(), now.Second(), 0, date.Location())
		end := date.AddDate(0, 0, 1)

		name := day.Name
		if name == "" {
			name = fmt.Sprintf("Day %d", i+1)
		}

		exercises := day.Exercises
		if len(exercises) > maxListedExercises {
			exercises = exercises[:maxListedExercises]
		}
		lines := make([]string, 0, len(exercises))
		for _, ex := range exercises {
			lines = append(lines, fmt.Sprintf("• %s: %d sets × %s reps", ex.Name, ex.Sets, ex.Reps))
		}

		events = append(events, &gcal.Event{
			Summary: fmt.Sprintf("💪 %s | ArogyaMitra", name),
			Description: fmt.Sprintf(
				"🎯 Focus: %s\n⏱ Duration: %d min\n🔥 ~%d calories\n\nExercises:\n%s\n\n%s",
				day.Focus, day.TotalDurationMinutes, day.TotalCalories, strings.Join(lines, "\n"), footer,
			),
			Start:     eventTime(start),
			End:       eventTime(end),
			ColorId:   workoutColor,
			Reminders: popup(workoutReminderMin),
		})
	}
	return events
}

// NutritionEvents builds one reminder per meal at the usual time of its meal
// type.
func NutritionEvents(doc *plans.NutritionDocument, weekStart time.Time) []*gcal.Event {
	var events []*gcal.Event
	for i, day := range doc.Days {
		date := weekStart.AddDate(0, 0, i)
		for _, meal := range day.Meals {
			mealType := strings.ToLower(meal.MealType)
			if mealType == "" {
				mealType = "meal"
			}
			slot, ok := mealSlots[mealType]
			if !ok {
				slot = defaultMealSlot
			}

			start := time.Date(date.Year(), date.Month(), date.Day(), slot.hour, slot.minute, 0, 0, date.Location())
			prepTime := meal.PrepTime
			if prepTime == "" {
				prepTime = "N/A"
			}

			events = append(events, &gcal.Event{
				Summary: fmt.Sprintf("🥗 %s: %s", strings.ToUpper(mealType[:1])+mealType[1:], meal.Name),
				Description: fmt.Sprintf(
					"%s\n\n🔥 %d cal | P: %gg | C: %gg | F: %gg\n⏱ Prep: %s\n\n%s",
					meal.Description, meal.Calories, meal.Protein, meal.Carbs, meal.Fat, prepTime, footer,
				),
				Start:     eventTime(start),
				End:       eventTime(start.Add(mealDuration)),
				ColorId:   slot.color,
				Reminders: popup(mealReminderMin),
			})
		}
	}
	return events
}
