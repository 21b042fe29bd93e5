package progress

import (
	"context"

	"github.com/yash81300/arogyamitra/internal/users"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=progress_test

type progressRepo interface {
	History(ctx context.Context, userID int64, limit int) ([]Record, error)
	Totals(ctx context.Context, userID int64) (Totals, error)
}

type userGetter interface {
	Get(ctx context.Context, id int64) (*users.User, error)
}

type Service struct {
	repo  progressRepo
	users userGetter
}

func NewService(repo progressRepo, users userGetter) *Service {
	return &Service{
		repo:  repo,
		users: users,
	}
}

func (s *Service) History(ctx context.Context, userID int64, limit int) ([]Record, error) {
	return s.repo.History(ctx, userID, ClampHistoryLimit(limit))
}

// Stats combines the account counters kept by the ledger with the calorie
// totals of the stored records.
func (s *Service) Stats(ctx context.Context, userID int64) (*Stats, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	totals, err := s.repo.Totals(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalWorkouts:       u.ActivityCount,
		TotalCaloriesBurned: totals.ExerciseCalories + totals.ManualCalories,
		ExerciseCalories:    totals.ExerciseCalories,
		ManualCalories:      totals.ManualCalories,
		Points:              u.Points,
		MilestoneCount:      u.MilestoneCount,
		RecordsCount:        totals.RecordsCount,
	}, nil
}
