package plans

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/yash81300/arogyamitra/pkg"
)

var ErrNoActivePlan = errors.New("no active plan")

// Plan is one generated plan of a user. The document never changes after
// generation. Completed is toggled freely, Awarded only grows.
type Plan struct {
	ID          int64
	UserID      int64
	Kind        Kind
	Title       string
	Workout     *WorkoutDocument
	Nutrition   *NutritionDocument
	GroceryList []string
	Completed   []string
	Awarded     []string
	IsActive    bool
	CreatedAt   time.Time
}

func NewWorkoutPlan(userID int64, doc *WorkoutDocument) *Plan {
	title := doc.Title
	if title == "" {
		title = "My Workout Plan"
	}
	return &Plan{
		UserID:    userID,
		Kind:      KindWorkout,
		Title:     title,
		Workout:   doc,
		Completed: []string{},
		Awarded:   []string{},
		IsActive:  true,
	}
}

func NewNutritionPlan(userID int64, doc *NutritionDocument) *Plan {
	title := doc.Title
	if title == "" {
		title = "My Nutrition Plan"
	}
	return &Plan{
		UserID:      userID,
		Kind:        KindNutrition,
		Title:       title,
		Nutrition:   doc,
		GroceryList: doc.GroceryList,
		Completed:   []string{},
		Awarded:     []string{},
		IsActive:    true,
	}
}

func (p *Plan) Validate() error {
	switch p.Kind {
	case KindWorkout:
		if p.Workout == nil {
			return pkg.NewValidationError("document", "workout document missing")
		}
		return p.Workout.Validate()
	case KindNutrition:
		if p.Nutrition == nil {
			return pkg.NewValidationError("document", "nutrition document missing")
		}
		return p.Nutrition.Validate()
	default:
		return pkg.NewValidationError("kind", "unknown plan kind %q", p.Kind)
	}
}

// ItemKeys returns the keys of all items in document order.
func (p *Plan) ItemKeys() []string {
	var keys []string
	switch p.Kind {
	case KindWorkout:
		if p.Workout == nil {
			return nil
		}
		for _, day := range p.Workout.Days {
			for _, ex := range day.Exercises {
				keys = append(keys, ItemKey(day.Day, ExerciseItemType, ex.Name))
			}
		}
	case KindNutrition:
		if p.Nutrition == nil {
			return nil
		}
		for _, day := range p.Nutrition.Days {
			for _, meal := range day.Meals {
				keys = append(keys, ItemKey(day.Day, meal.MealType, meal.Name))
			}
		}
	}
	return keys
}

func (p *Plan) HasItem(key string) bool {
	return slices.Contains(p.ItemKeys(), key)
}

func (p *Plan) IsCompleted(key string) bool {
	return slices.Contains(p.Completed, key)
}

func (p *Plan) IsAwarded(key string) bool {
	return slices.Contains(p.Awarded, key)
}

// ToggleCompleted flips the completion of key and reports the new state.
func (p *Plan) ToggleCompleted(key string) bool {
	if i := slices.Index(p.Completed, key); i >= 0 {
		p.Completed = slices.Delete(p.Completed, i, i+1)
		return false
	}
	p.Completed = append(p.Completed, key)
	return true
}

// MarkAwarded appends key to the award set. It returns false if the key was
// already awarded.
func (p *Plan) MarkAwarded(key string) bool {
	if p.IsAwarded(key) {
		return false
	}
	p.Awarded = append(p.Awarded, key)
	return true
}

// MarshalDocument encodes the kind specific document for storage.
func (p *Plan) MarshalDocument() ([]byte, error) {
	switch p.Kind {
	case KindWorkout:
		return json.Marshal(p.Workout)
	case KindNutrition:
		return json.Marshal(p.Nutrition)
	default:
		return nil, fmt.Errorf("unknown plan kind %q", p.Kind)
	}
}

// UnmarshalDocument decodes a stored document according to the plan kind.
func (p *Plan) UnmarshalDocument(raw []byte) error {
	switch p.Kind {
	case KindWorkout:
		doc := &WorkoutDocument{}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, doc); err != nil {
				return fmt.Errorf("decode workout document: %w", err)
			}
		}
		p.Workout = doc
	case KindNutrition:
		doc := &NutritionDocument{}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, doc); err != nil {
				return fmt.Errorf("decode nutrition document: %w", err)
			}
		}
		p.Nutrition = doc
	default:
		return fmt.Errorf("unknown plan kind %q", p.Kind)
	}
	return nil
}

type Summary struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
}
