package ledger_test

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/yash81300/arogyamitra/internal/ledger"
	"github.com/yash81300/arogyamitra/internal/plans"
	"github.com/yash81300/arogyamitra/internal/progress"
)

// memStore keeps ledger state in memory. Transactions are serialized by a
// single mutex and work on copies that are swapped in on commit.
type memStore struct {
	mu           sync.Mutex
	accounts     map[int64]ledger.Account
	plans        []*plans.Plan
	records      []progress.Record
	nextRecordID int64

	// conflicts is the number of upcoming transactions that fail with a
	// storage conflict before running.
	conflicts int
	// failRecordInsert makes AddProgressRecord fail once the tx got that far.
	failRecordInsert error
	txCount          int
}

func newMemStore() *memStore {
	return &memStore{
		accounts: map[int64]ledger.Account{},
	}
}

func clonePlan(p *plans.Plan) *plans.Plan {
	c := *p
	c.Completed = slices.Clone(p.Completed)
	c.Awarded = slices.Clone(p.Awarded)
	return &c
}

func (s *memStore) addAccount(userID int64, points int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[userID] = ledger.Account{UserID: userID, Points: points, MilestoneCount: ledger.Milestones(points)}
}

func (s *memStore) addPlan(p *plans.Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.plans {
		if existing.UserID == p.UserID && existing.Kind == p.Kind {
			existing.IsActive = false
		}
	}
	p.ID = int64(len(s.plans) + 1)
	p.IsActive = true
	s.plans = append(s.plans, p)
}

func (s *memStore) account(userID int64) ledger.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[userID]
}

func (s *memStore) activePlan(userID int64, kind plans.Kind) *plans.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.plans {
		if p.UserID == userID && p.Kind == kind && p.IsActive {
			return clonePlan(p)
		}
	}
	return nil
}

func (s *memStore) userRecords(userID int64) []progress.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []progress.Record
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}

func (s *memStore) transactions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txCount
}

func (s *memStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx ledger.TxStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.txCount++
	if s.conflicts > 0 {
		s.conflicts--
		return fmt.Errorf("%w: simulated lock timeout", ledger.ErrStorageConflict)
	}

	tx := &memTx{
		accounts:         map[int64]ledger.Account{},
		records:          slices.Clone(s.records),
		nextRecordID:     s.nextRecordID,
		failRecordInsert: s.failRecordInsert,
	}
	for id, a := range s.accounts {
		tx.accounts[id] = a
	}
	for _, p := range s.plans {
		tx.plans = append(tx.plans, clonePlan(p))
	}

	if err := fn(ctx, tx); err != nil {
		return err
	}

	s.accounts = tx.accounts
	s.plans = tx.plans
	s.records = tx.records
	s.nextRecordID = tx.nextRecordID
	return nil
}

type memTx struct {
	accounts         map[int64]ledger.Account
	plans            []*plans.Plan
	records          []progress.Record
	nextRecordID     int64
	failRecordInsert error
}

func (t *memTx) LockAccount(_ context.Context, userID int64) (*ledger.Account, error) {
	a, ok := t.accounts[userID]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", userID, ledger.ErrNotFound)
	}
	return &a, nil
}

func (t *memTx) LockActivePlan(_ context.Context, userID int64, kind plans.Kind) (*plans.Plan, error) {
	for _, p := range t.plans {
		if p.UserID == userID && p.Kind == kind && p.IsActive {
			return clonePlan(p), nil
		}
	}
	return nil, fmt.Errorf("active %s plan: %w", kind, ledger.ErrNotFound)
}

func (t *memTx) SavePlanSets(_ context.Context, p *plans.Plan) error {
	for _, stored := range t.plans {
		if stored.ID != p.ID {
			continue
		}
		stored.Completed = slices.Clone(p.Completed)
		for _, key := range p.Awarded {
			if !slices.Contains(stored.Awarded, key) {
				stored.Awarded = append(stored.Awarded, key)
			}
		}
		return nil
	}
	return plans.ErrNoActivePlan
}

func (t *memTx) SaveAccount(_ context.Context, a *ledger.Account) error {
	t.accounts[a.UserID] = *a
	return nil
}

func (t *memTx) AddProgressRecord(_ context.Context, r *progress.Record) (int64, error) {
	if t.failRecordInsert != nil {
		return 0, t.failRecordInsert
	}
	t.nextRecordID++
	rec := *r
	rec.ID = t.nextRecordID
	t.records = append(t.records, rec)
	return rec.ID, nil
}

func (t *memTx) HasManualAwardInWindow(_ context.Context, userID int64, from, to time.Time) (bool, error) {
	for _, r := range t.records {
		if r.UserID != userID || !r.IsManual() || r.Calories() <= 0 {
			continue
		}
		if !r.RecordedAt.Before(from) && r.RecordedAt.Before(to) {
			return true, nil
		}
	}
	return false, nil
}
