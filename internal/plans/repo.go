package plans

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yash81300/arogyamitra/internal/telemetry/tracing"
	"github.com/yash81300/arogyamitra/pkg"
)

const planColumns = `id, user_id, kind, title, document, grocery_list, completed, awarded, is_active, created_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func scanPlan(row pgx.Row) (*Plan, error) {
	p := &Plan{}
	var kind string
	var document []byte
	if err := row.Scan(
		&p.ID, &p.UserID, &kind, &p.Title, &document,
		&p.GroceryList, &p.Completed, &p.Awarded, &p.IsActive, &p.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoActivePlan
		}
		return nil, err
	}
	p.Kind = Kind(kind)
	if err := p.UnmarshalDocument(document); err != nil {
		return nil, err
	}
	return p, nil
}

// LockActiveTx loads the active plan of the given kind and locks its row until
// the transaction ends.
func LockActiveTx(ctx context.Context, tx pgx.Tx, userID int64, kind Kind) (*Plan, error) {
	return scanPlan(tx.QueryRow(ctx, `
		SELECT `+planColumns+`
		FROM plan
		WHERE user_id = $1 AND kind = $2 AND is_active
		FOR UPDATE
	`, userID, string(kind)))
}

// SaveSetsTx writes the completion and award sets of the plan. The award set
// is merged with the stored one so it can never shrink.
func SaveSetsTx(ctx context.Context, tx pgx.Tx, p *Plan) error {
	tag, err := tx.Exec(ctx, `
		UPDATE plan
		SET completed = COALESCE($2::text[], '{}'),
		    awarded = ARRAY(
		        SELECT k
		        FROM unnest(awarded || COALESCE($3::text[], '{}')) WITH ORDINALITY AS t(k, n)
		        GROUP BY k
		        ORDER BY min(n)
		    )
		WHERE id = $1
	`, p.ID, p.Completed, p.Awarded)
	if err != nil {
		return fmt.Errorf("update plan sets: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoActivePlan
	}
	return nil
}

// Create stores a new active plan and deactivates the previous plans of the
// same kind in one transaction.
func (r *Repo) Create(ctx context.Context, p *Plan) (_ *Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.create")
	defer tracing.EndSpanWithErrCheck(span, &err)
	span.SetAttributes(
		attribute.Int64("user.id", p.UserID),
		attribute.String("plan.kind", string(p.Kind)),
	)

	document, err := p.MarshalDocument()
	if err != nil {
		return nil, err
	}
	groceryList := p.GroceryList
	if groceryList == nil {
		groceryList = []string{}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `
		UPDATE plan SET is_active = FALSE
		WHERE user_id = $1 AND kind = $2 AND is_active
	`, p.UserID, string(p.Kind)); err != nil {
		return nil, fmt.Errorf("deactivate previous plans: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO plan (user_id, kind, title, document, grocery_list, completed, awarded, is_active)
		VALUES ($1, $2, $3, $4, $5, '{}', '{}', TRUE)
		RETURNING id, created_at
	`, p.UserID, string(p.Kind), p.Title, document, groceryList).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, pkg.NewValidationError("user", "unknown user %d", p.UserID)
		}
		return nil, fmt.Errorf("insert plan: %w", err)
	}

	p.IsActive = true
	p.Completed = []string{}
	p.Awarded = []string{}
	return p, nil
}

func (r *Repo) Active(ctx context.Context, userID int64, kind Kind) (_ *Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.active")
	defer tracing.EndSpanWithErrCheck(span, &err)

	return scanPlan(r.db.QueryRow(ctx, `
		SELECT `+planColumns+`
		FROM plan
		WHERE user_id = $1 AND kind = $2 AND is_active
	`, userID, string(kind)))
}

func (r *Repo) History(ctx context.Context, userID int64, kind Kind, limit int) (_ []Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.history")
	defer tracing.EndSpanWithErrCheck(span, &err)

	rows, err := r.db.Query(ctx, `
		SELECT id, title, created_at, is_active
		FROM plan
		WHERE user_id = $1 AND kind = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`, userID, string(kind), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]Summary, 0)
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Title, &s.CreatedAt, &s.IsActive); err != nil {
			return nil, fmt.Errorf("scan plan summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// ReplaceCompleted overwrites the completion set of the active plan with the
// keys marked true. Every key must address an item of the plan. The award set
// is left as is.
func (r *Repo) ReplaceCompleted(ctx context.Context, userID int64, kind Kind, states map[string]bool) (_ *Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.replaceCompleted")
	defer tracing.EndSpanWithErrCheck(span, &err)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	p, err := LockActiveTx(ctx, tx, userID, kind)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(states))
	for key, done := range states {
		if !p.HasItem(key) {
			return nil, pkg.NewValidationError("item_key", "unknown item %q", key)
		}
		if done {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	p.Completed = keys
	if err = SaveSetsTx(ctx, tx, p); err != nil {
		return nil, err
	}
	return p, nil
}

type KindCounts struct {
	Workout   int `json:"total_workout_plans"`
	Nutrition int `json:"total_nutrition_plans"`
}

func (r *Repo) CountByKind(ctx context.Context) (_ KindCounts, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.countByKind")
	defer tracing.EndSpanWithErrCheck(span, &err)

	var counts KindCounts
	err = r.db.QueryRow(ctx, `
		SELECT count(*) FILTER (WHERE kind = 'workout'),
		       count(*) FILTER (WHERE kind = 'nutrition')
		FROM plan
	`).Scan(&counts.Workout, &counts.Nutrition)
	return counts, err
}
