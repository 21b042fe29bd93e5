package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yash81300/arogyamitra/internal/telemetry/tracing"
)

const recordColumns = `id, user_id, recorded_at, weight, body_fat_percent, muscle_mass, waist_circumference, calories_burned, activity_name, notes`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func scanRecord(row pgx.Row) (*Record, error) {
	r := &Record{}
	if err := row.Scan(
		&r.ID, &r.UserID, &r.RecordedAt, &r.Weight, &r.BodyFatPercent, &r.MuscleMass,
		&r.WaistCircumference, &r.CaloriesBurned, &r.ActivityName, &r.Notes,
	); err != nil {
		return nil, err
	}
	return r, nil
}

// InsertTx writes a record inside the caller's transaction and returns its id.
func InsertTx(ctx context.Context, tx pgx.Tx, r *Record) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO progress_record (
			user_id, recorded_at, weight, body_fat_percent, muscle_mass,
			waist_circumference, calories_burned, activity_name, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`,
		r.UserID, r.RecordedAt, r.Weight, r.BodyFatPercent, r.MuscleMass,
		r.WaistCircumference, r.CaloriesBurned, r.ActivityName, r.Notes,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert progress record: %w", err)
	}
	return id, nil
}

// HasManualCaloriesTx reports whether the user has a manual record with
// calories in [from, to).
func HasManualCaloriesTx(ctx context.Context, tx pgx.Tx, userID int64, from, to time.Time) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM progress_record
			WHERE user_id = $1
			  AND activity_name IS NULL
			  AND calories_burned > 0
			  AND recorded_at >= $2
			  AND recorded_at < $3
		)
	`, userID, from, to).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check manual records: %w", err)
	}
	return exists, nil
}

func (r *Repo) History(ctx context.Context, userID int64, limit int) (_ []Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.history")
	defer tracing.EndSpanWithErrCheck(span, &err)

	rows, err := r.db.Query(ctx, `
		SELECT `+recordColumns+`
		FROM progress_record
		WHERE user_id = $1
		ORDER BY recorded_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan progress record: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (r *Repo) Totals(ctx context.Context, userID int64) (_ Totals, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.totals")
	defer tracing.EndSpanWithErrCheck(span, &err)

	var t Totals
	err = r.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(calories_burned) FILTER (WHERE activity_name IS NOT NULL), 0),
			COALESCE(SUM(calories_burned) FILTER (WHERE activity_name IS NULL), 0),
			COUNT(*)
		FROM progress_record
		WHERE user_id = $1
	`, userID).Scan(&t.ExerciseCalories, &t.ManualCalories, &t.RecordsCount)
	if err != nil {
		return Totals{}, err
	}
	return t, nil
}
