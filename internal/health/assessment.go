package health

import (
	"time"
)

// Questionnaire holds the answers of the health questionnaire.
type Questionnaire struct {
	MedicalHistory   []any          `json:"medical_history"`
	Allergies        []any          `json:"allergies"`
	Injuries         []any          `json:"injuries"`
	Medications      []any          `json:"medications"`
	HealthConditions []any          `json:"health_conditions"`
	FitnessGoals     []any          `json:"fitness_goals"`
	Answers          map[string]any `json:"answers"`
	BMI              *string        `json:"bmi"`
}

// normalize replaces missing lists and answers with empty ones.
func (q *Questionnaire) normalize() {
	for _, list := range []*[]any{
		&q.MedicalHistory, &q.Allergies, &q.Injuries,
		&q.Medications, &q.HealthConditions, &q.FitnessGoals,
	} {
		if *list == nil {
			*list = []any{}
		}
	}
	if q.Answers == nil {
		q.Answers = map[string]any{}
	}
}

// Assessment is one stored questionnaire. A user can have many, the newest
// one is the current one.
type Assessment struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"-"`
	Questionnaire
	AIAnalysis *string   `json:"ai_analysis"`
	CreatedAt  time.Time `json:"created_at"`
}
