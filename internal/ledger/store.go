package ledger

import (
	"context"
	"time"

	"github.com/yash81300/arogyamitra/internal/plans"
	"github.com/yash81300/arogyamitra/internal/progress"
)

// Account holds the counters of a user that only the ledger mutates.
type Account struct {
	UserID         int64
	Points         int
	MilestoneCount int
	ActivityCount  int
}

// Store runs ledger operations atomically. Everything done through the TxStore
// passed to fn commits together or not at all. Implementations report lost
// races on the locked rows as ErrStorageConflict.
type Store interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx TxStore) error) error
}

// TxStore is the view of the storage inside one transaction. LockAccount must
// be called before LockActivePlan.
type TxStore interface {
	// LockAccount returns ErrNotFound when the user does not exist.
	LockAccount(ctx context.Context, userID int64) (*Account, error)
	// LockActivePlan returns ErrNotFound when the user has no active plan of kind.
	LockActivePlan(ctx context.Context, userID int64, kind plans.Kind) (*plans.Plan, error)
	SavePlanSets(ctx context.Context, p *plans.Plan) error
	SaveAccount(ctx context.Context, a *Account) error
	AddProgressRecord(ctx context.Context, r *progress.Record) (int64, error)
	HasManualAwardInWindow(ctx context.Context, userID int64, from, to time.Time) (bool, error)
}
