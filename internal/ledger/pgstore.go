package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yash81300/arogyamitra/internal/plans"
	"github.com/yash81300/arogyamitra/internal/progress"
	"github.com/yash81300/arogyamitra/internal/telemetry/tracing"
	"github.com/yash81300/arogyamitra/pkg"
)

const lockTimeout = "5s"

// PgStore runs ledger transactions on Postgres. Rows are locked with
// SELECT ... FOR UPDATE so concurrent operations on the same user serialize.
type PgStore struct {
	db *pgxpool.Pool
}

func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{
		db: db,
	}
}

func (s *PgStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx TxStore) error) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.tx")
	defer tracing.EndSpanWithErrCheck(span, &err)
	defer func() {
		if err != nil && pkg.IsConcurrentWriteError(err) {
			err = fmt.Errorf("%w: %w", ErrStorageConflict, err)
		}
	}()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
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

	if _, err = tx.Exec(ctx, "SET LOCAL lock_timeout = '"+lockTimeout+"'"); err != nil {
		return err
	}

	return fn(ctx, &pgTx{tx: tx})
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) LockAccount(ctx context.Context, userID int64) (*Account, error) {
	a := &Account{UserID: userID}
	err := t.tx.QueryRow(ctx, `
		SELECT points, milestone_count, activity_count
		FROM app_user
		WHERE id = $1
		FOR UPDATE
	`, userID).Scan(&a.Points, &a.MilestoneCount, &a.ActivityCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil, err
	}
	return a, nil
}

func (t *pgTx) LockActivePlan(ctx context.Context, userID int64, kind plans.Kind) (*plans.Plan, error) {
	p, err := plans.LockActiveTx(ctx, t.tx, userID, kind)
	if err != nil {
		if errors.Is(err, plans.ErrNoActivePlan) {
			return nil, fmt.Errorf("active %s plan: %w", kind, ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (t *pgTx) SavePlanSets(ctx context.Context, p *plans.Plan) error {
	return plans.SaveSetsTx(ctx, t.tx, p)
}

func (t *pgTx) SaveAccount(ctx context.Context, a *Account) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE app_user
		SET points = $2, milestone_count = $3, activity_count = $4, updated_at = now()
		WHERE id = $1
	`, a.UserID, a.Points, a.MilestoneCount, a.ActivityCount)
	if err != nil {
		return fmt.Errorf("update account counters: %w", err)
	}
	return nil
}

func (t *pgTx) AddProgressRecord(ctx context.Context, r *progress.Record) (int64, error) {
	return progress.InsertTx(ctx, t.tx, r)
}

func (t *pgTx) HasManualAwardInWindow(ctx context.Context, userID int64, from, to time.Time) (bool, error) {
	return progress.HasManualCaloriesTx(ctx, t.tx, userID, from, to)
}
