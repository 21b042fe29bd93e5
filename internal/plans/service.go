package plans

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/yash81300/arogyamitra/internal/users"
	"github.com/yash81300/arogyamitra/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=plans_test

const (
	DefaultPlanDays = 7
	maxPlanDays     = 30
	historyLimit    = 10
)

var ErrInvalidGeneratedPlan = errors.New("generated plan is invalid")

type generator interface {
	GenerateWorkout(ctx context.Context, profile users.Profile, days int) (*WorkoutDocument, error)
	GenerateNutrition(ctx context.Context, profile users.Profile, days int, allergies []string) (*NutritionDocument, error)
}

type plansRepo interface {
	Create(ctx context.Context, p *Plan) (*Plan, error)
	Active(ctx context.Context, userID int64, kind Kind) (*Plan, error)
	History(ctx context.Context, userID int64, kind Kind, limit int) ([]Summary, error)
	ReplaceCompleted(ctx context.Context, userID int64, kind Kind, states map[string]bool) (*Plan, error)
}

type userGetter interface {
	Get(ctx context.Context, id int64) (*users.User, error)
}

type Service struct {
	repo      plansRepo
	users     userGetter
	generator generator
}

func NewService(repo plansRepo, users userGetter, generator generator) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		generator: generator,
	}
}

func normalizeDays(days int) (int, error) {
	if days == 0 {
		return DefaultPlanDays, nil
	}
	if days < 1 || days > maxPlanDays {
		return 0, pkg.NewValidationError("days", "must be between 1 and %d", maxPlanDays)
	}
	return days, nil
}

// Generate asks the generator for a fresh document and stores it as the new
// active plan of that kind.
func (s *Service) Generate(ctx context.Context, userID int64, kind Kind, days int, allergies []string) (*Plan, error) {
	days, err := normalizeDays(days)
	if err != nil {
		return nil, err
	}

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	var p *Plan
	switch kind {
	case KindWorkout:
		doc, err := s.generator.GenerateWorkout(ctx, u.Profile(), days)
		if err != nil {
			return nil, fmt.Errorf("generate workout: %w", err)
		}
		p = NewWorkoutPlan(userID, doc)
	case KindNutrition:
		doc, err := s.generator.GenerateNutrition(ctx, u.Profile(), days, allergies)
		if err != nil {
			return nil, fmt.Errorf("generate nutrition: %w", err)
		}
		p = NewNutritionPlan(userID, doc)
	default:
		return nil, pkg.NewValidationError("kind", "unknown plan kind %q", kind)
	}

	if err := p.Validate(); err != nil {
		log.Errorf("generated %s plan for user %d rejected: %s", kind, userID, err)
		return nil, fmt.Errorf("%w: %s", ErrInvalidGeneratedPlan, err)
	}

	return s.repo.Create(ctx, p)
}

func (s *Service) Current(ctx context.Context, userID int64, kind Kind) (*Plan, error) {
	return s.repo.Active(ctx, userID, kind)
}

func (s *Service) History(ctx context.Context, userID int64, kind Kind) ([]Summary, error) {
	return s.repo.History(ctx, userID, kind, historyLimit)
}

// Completed returns the completion state of the active plan as a key set. A
// user without an active plan has an empty state.
func (s *Service) Completed(ctx context.Context, userID int64, kind Kind) (map[string]bool, error) {
	p, err := s.repo.Active(ctx, userID, kind)
	if err != nil {
		if errors.Is(err, ErrNoActivePlan) {
			return map[string]bool{}, nil
		}
		return nil, err
	}

	states := make(map[string]bool, len(p.Completed))
	for _, k := range p.Completed {
		states[k] = true
	}
	return states, nil
}

// ReplaceCompleted persists checkbox state only, it never awards points.
func (s *Service) ReplaceCompleted(ctx context.Context, userID int64, kind Kind, states map[string]bool) (map[string]bool, error) {
	p, err := s.repo.ReplaceCompleted(ctx, userID, kind, states)
	if err != nil {
		return nil, err
	}

	out := make(map[string]bool, len(p.Completed))
	for _, k := range p.Completed {
		out[k] = true
	}
	return out, nil
}
