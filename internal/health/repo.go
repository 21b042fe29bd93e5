package health

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yash81300/arogyamitra/internal/telemetry/tracing"
)

var ErrNoAssessment = errors.New("no health assessment")

const assessmentColumns = `id, user_id, medical_history, allergies, injuries, medications,
	health_conditions, fitness_goals, answers, bmi, ai_analysis, created_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Create(ctx context.Context, a *Assessment) (_ int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.create")
	defer tracing.EndSpanWithErrCheck(span, &err)

	a.normalize()
	var id int64
	err = r.db.QueryRow(ctx, `
		INSERT INTO health_assessment (
			user_id, medical_history, allergies, injuries, medications,
			health_conditions, fitness_goals, answers, bmi
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`,
		a.UserID, a.MedicalHistory, a.Allergies, a.Injuries, a.Medications,
		a.HealthConditions, a.FitnessGoals, a.Answers, a.BMI,
	).Scan(&id, &a.CreatedAt)
	if err != nil {
		return -1, fmt.Errorf("insert health assessment: %w", err)
	}
	a.ID = id
	return id, nil
}

func (r *Repo) Latest(ctx context.Context, userID int64) (_ *Assessment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.latest")
	defer tracing.EndSpanWithErrCheck(span, &err)

	a := &Assessment{}
	err = r.db.QueryRow(ctx, `
		SELECT `+assessmentColumns+`
		FROM health_assessment
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, userID).Scan(
		&a.ID, &a.UserID, &a.MedicalHistory, &a.Allergies, &a.Injuries, &a.Medications,
		&a.HealthConditions, &a.FitnessGoals, &a.Answers, &a.BMI, &a.AIAnalysis, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoAssessment
		}
		return nil, err
	}
	a.normalize()
	return a, nil
}

// SetLatestAnalysis stores the analysis on the newest assessment of the user.
// It reports false when the user has no assessment yet.
func (r *Repo) SetLatestAnalysis(ctx context.Context, userID int64, analysis string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.setLatestAnalysis")
	defer tracing.EndSpanWithErrCheck(span, &err)

	tag, err := r.db.Exec(ctx, `
		UPDATE health_assessment
		SET ai_analysis = $2
		WHERE id = (
			SELECT id FROM health_assessment
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		)
	`, userID, analysis)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
