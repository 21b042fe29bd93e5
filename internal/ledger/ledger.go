package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yash81300/arogyamitra/internal/plans"
	"github.com/yash81300/arogyamitra/internal/progress"
	"github.com/yash81300/arogyamitra/internal/telemetry/metrics"
	"github.com/yash81300/arogyamitra/internal/telemetry/tracing"
	"github.com/yash81300/arogyamitra/pkg"
)

const (
	WorkoutItemPoints  = 10
	MealItemPoints     = 2
	ManualLogPoints    = 5
	MaxManualCalories  = 2000
	PointsPerMilestone = 100

	DefaultMaxRetries = 3
	maxWeightKg       = 500
)

var (
	ErrNotFound        = errors.New("not found")
	ErrStorageConflict = errors.New("storage conflict")
)

// Milestones translates points into the number of reached milestones.
func Milestones(points int) int {
	return points / PointsPerMilestone
}

// ItemPoints is the award for completing one item of a plan of the given kind.
func ItemPoints(kind plans.Kind) int {
	if kind == plans.KindNutrition {
		return MealItemPoints
	}
	return WorkoutItemPoints
}

type ToggleResult struct {
	IsCompleted    bool
	PointsAwarded  int
	Points         int
	MilestoneCount int
}

type CompleteResult struct {
	AlreadyCounted bool
	ActivityCount  int
	Points         int
	MilestoneCount int
	CaloriesBurned int
}

// ManualEntry is a progress entry logged by hand. Nil fields were not given.
type ManualEntry struct {
	Weight             *float64
	BodyFatPercent     *float64
	MuscleMass         *float64
	WaistCircumference *float64
	CaloriesBurned     *int
	Notes              *string
}

func (e *ManualEntry) Validate() error {
	if e.CaloriesBurned != nil && *e.CaloriesBurned < 0 {
		return pkg.NewValidationError("calories_burned", "cannot be negative")
	}
	if e.Weight != nil && (*e.Weight <= 0 || *e.Weight > maxWeightKg) {
		return pkg.NewValidationError("weight", "must be between 0 and %d kg", maxWeightKg)
	}
	if e.BodyFatPercent != nil && (*e.BodyFatPercent < 0 || *e.BodyFatPercent > 100) {
		return pkg.NewValidationError("body_fat_percent", "must be between 0 and 100")
	}
	if e.MuscleMass != nil && *e.MuscleMass < 0 {
		return pkg.NewValidationError("muscle_mass", "cannot be negative")
	}
	if e.WaistCircumference != nil && *e.WaistCircumference < 0 {
		return pkg.NewValidationError("waist_circumference", "cannot be negative")
	}
	return nil
}

type ManualResult struct {
	RecordID       int64
	Awarded        bool
	Points         int
	MilestoneCount int
	CaloriesBurned int
}

type Ledger struct {
	store          Store
	now            func() time.Time
	location       *time.Location
	maxRetries     uint64
	newBackOff     func() backoff.BackOff
	metricsManager *metrics.Manager
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithLocation sets the location calendar days are computed in.
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) {
		if loc != nil {
			l.location = loc
		}
	}
}

func WithMaxRetries(n uint64) Option {
	return func(l *Ledger) {
		l.maxRetries = n
	}
}

func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(l *Ledger) {
		l.newBackOff = newBackOff
	}
}

func WithMetrics(metricsManager *metrics.Manager) Option {
	return func(l *Ledger) {
		l.metricsManager = metricsManager
	}
}

func New(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:      store,
		now:        time.Now,
		location:   time.UTC,
		maxRetries: DefaultMaxRetries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 20 * time.Millisecond
			b.MaxInterval = 500 * time.Millisecond
			return b
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// run executes fn in a transaction and retries it on storage conflicts.
func (l *Ledger) run(ctx context.Context, op string, fn func(ctx context.Context, tx TxStore) error) error {
	attempt := 0
	b := backoff.WithContext(backoff.WithMaxRetries(l.newBackOff(), l.maxRetries), ctx)
	return backoff.Retry(func() error {
		attempt++
		err := l.store.RunInTx(ctx, fn)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrStorageConflict) {
			if l.metricsManager != nil {
				l.metricsManager.CounterLedgerConflicts.Inc()
			}
			log.Debugf("ledger %s: attempt %d lost a race: %s", op, attempt, err)
			return err
		}
		return backoff.Permanent(err)
	}, b)
}

func (l *Ledger) countPoints(source string, points int) {
	if l.metricsManager == nil || points == 0 {
		return
	}
	l.metricsManager.CounterPointsAwarded.WithLabelValues(source).Add(float64(points))
}

func (a *Account) addPoints(points int) {
	a.Points += points
	a.MilestoneCount = Milestones(a.Points)
}

// ToggleItem flips the completion of one plan item. The first completion of
// an item awards its points; later toggles never award again.
func (l *Ledger) ToggleItem(ctx context.Context, userID int64, kind plans.Kind, itemKey string) (_ *ToggleResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.toggleItem")
	defer tracing.EndSpanWithErrCheck(span, &err)
	span.SetAttributes(
		attribute.Int64("user.id", userID),
		attribute.String("plan.kind", string(kind)),
	)

	if !kind.Valid() {
		return nil, pkg.NewValidationError("kind", "unknown plan kind %q", kind)
	}
	if itemKey == "" {
		return nil, pkg.NewValidationError("item_key", "missing")
	}

	var result *ToggleResult
	err = l.run(ctx, "toggle", func(ctx context.Context, tx TxStore) error {
		account, err := tx.LockAccount(ctx, userID)
		if err != nil {
			return err
		}
		p, err := tx.LockActivePlan(ctx, userID, kind)
		if err != nil {
			return err
		}
		if !p.HasItem(itemKey) {
			return pkg.NewValidationError("item_key", "%q is not part of the active %s plan", itemKey, kind)
		}

		res := &ToggleResult{
			IsCompleted: p.ToggleCompleted(itemKey),
		}
		if res.IsCompleted && p.MarkAwarded(itemKey) {
			res.PointsAwarded = ItemPoints(kind)
			account.addPoints(res.PointsAwarded)
			if err := tx.SaveAccount(ctx, account); err != nil {
				return err
			}
		}
		if err := tx.SavePlanSets(ctx, p); err != nil {
			return err
		}

		res.Points = account.Points
		res.MilestoneCount = account.MilestoneCount
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.countPoints(string(kind), result.PointsAwarded)
	return result, nil
}

// CompleteActivity counts a plan item as done once. It writes a progress
// record and awards points on the first call for the item; every later call
// is a no-op reporting AlreadyCounted.
func (l *Ledger) CompleteActivity(ctx context.Context, userID int64, kind plans.Kind, itemKey, activityName string, calories int) (_ *CompleteResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.completeActivity")
	defer tracing.EndSpanWithErrCheck(span, &err)
	span.SetAttributes(
		attribute.Int64("user.id", userID),
		attribute.String("plan.kind", string(kind)),
	)

	if !kind.Valid() {
		return nil, pkg.NewValidationError("kind", "unknown plan kind %q", kind)
	}
	if itemKey == "" {
		return nil, pkg.NewValidationError("item_key", "missing")
	}
	if calories < 0 {
		return nil, pkg.NewValidationError("calories_burned", "cannot be negative")
	}
	activityName = strings.TrimSpace(activityName)
	if activityName == "" {
		activityName = nameFromKey(itemKey)
	}

	var result *CompleteResult
	err = l.run(ctx, "complete", func(ctx context.Context, tx TxStore) error {
		account, err := tx.LockAccount(ctx, userID)
		if err != nil {
			return err
		}
		p, err := tx.LockActivePlan(ctx, userID, kind)
		if err != nil {
			return err
		}
		if !p.HasItem(itemKey) {
			return pkg.NewValidationError("item_key", "%q is not part of the active %s plan", itemKey, kind)
		}

		if !p.MarkAwarded(itemKey) {
			result = &CompleteResult{
				AlreadyCounted: true,
				ActivityCount:  account.ActivityCount,
				Points:         account.Points,
				MilestoneCount: account.MilestoneCount,
				CaloriesBurned: calories,
			}
			return nil
		}

		if err := tx.SavePlanSets(ctx, p); err != nil {
			return err
		}
		if _, err := tx.AddProgressRecord(ctx, &progress.Record{
			UserID:         userID,
			RecordedAt:     l.now(),
			CaloriesBurned: &calories,
			ActivityName:   &activityName,
		}); err != nil {
			return err
		}

		account.ActivityCount++
		account.addPoints(ItemPoints(kind))
		if err := tx.SaveAccount(ctx, account); err != nil {
			return err
		}

		result = &CompleteResult{
			ActivityCount:  account.ActivityCount,
			Points:         account.Points,
			MilestoneCount: account.MilestoneCount,
			CaloriesBurned: calories,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyCounted {
		l.countPoints(string(kind), ItemPoints(kind))
	}
	return result, nil
}

// LogManualProgress stores a hand logged entry. Logging calories awards
// points at most once per calendar day.
func (l *Ledger) LogManualProgress(ctx context.Context, userID int64, entry ManualEntry) (_ *ManualResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.logManualProgress")
	defer tracing.EndSpanWithErrCheck(span, &err)
	span.SetAttributes(attribute.Int64("user.id", userID))

	if err := entry.Validate(); err != nil {
		return nil, err
	}
	if entry.CaloriesBurned != nil && *entry.CaloriesBurned > MaxManualCalories {
		clamped := MaxManualCalories
		entry.CaloriesBurned = &clamped
	}
	calories := 0
	if entry.CaloriesBurned != nil {
		calories = *entry.CaloriesBurned
	}

	now := l.now()
	dayStart := l.dayStart(now)
	dayEnd := dayStart.Add(24 * time.Hour)

	var result *ManualResult
	err = l.run(ctx, "manual", func(ctx context.Context, tx TxStore) error {
		account, err := tx.LockAccount(ctx, userID)
		if err != nil {
			return err
		}

		award := false
		if calories > 0 {
			already, err := tx.HasManualAwardInWindow(ctx, userID, dayStart, dayEnd)
			if err != nil {
				return err
			}
			award = !already
		}

		recordID, err := tx.AddProgressRecord(ctx, &progress.Record{
			UserID:             userID,
			RecordedAt:         now,
			Weight:             entry.Weight,
			BodyFatPercent:     entry.BodyFatPercent,
			MuscleMass:         entry.MuscleMass,
			WaistCircumference: entry.WaistCircumference,
			CaloriesBurned:     entry.CaloriesBurned,
			Notes:              entry.Notes,
		})
		if err != nil {
			return err
		}

		if award {
			account.addPoints(ManualLogPoints)
			if err := tx.SaveAccount(ctx, account); err != nil {
				return err
			}
		}

		result = &ManualResult{
			RecordID:       recordID,
			Awarded:        award,
			Points:         account.Points,
			MilestoneCount: account.MilestoneCount,
			CaloriesBurned: calories,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Awarded {
		l.countPoints("manual", ManualLogPoints)
	}
	return result, nil
}

// dayStart returns midnight of the calendar day t falls in.
func (l *Ledger) dayStart(t time.Time) time.Time {
	t = t.In(l.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, l.location)
}

// nameFromKey returns the name segment of an item key.
func nameFromKey(key string) string {
	parts := strings.SplitN(key, "|", 3)
	return parts[len(parts)-1]
}
