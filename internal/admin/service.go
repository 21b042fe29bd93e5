package admin

import (
	"context"
	"errors"

	"github.com/yash81300/arogyamitra/internal/plans"
	"github.com/yash81300/arogyamitra/internal/users"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=admin_test

const (
	DefaultUsersLimit = 100
	MaxUsersLimit     = 500
)

var ErrAdminRequired = errors.New("admin access required")

type usersRepo interface {
	Get(ctx context.Context, id int64) (*users.User, error)
	List(ctx context.Context, limit, offset int) ([]users.User, error)
	Stats(ctx context.Context) (users.Stats, error)
}

type planCounter interface {
	CountByKind(ctx context.Context) (plans.KindCounts, error)
}

type PlatformStats struct {
	users.Stats
	plans.KindCounts
}

type Service struct {
	repo  usersRepo
	plans planCounter
}

func NewService(repo usersRepo, plans planCounter) *Service {
	return &Service{
		repo:  repo,
		plans: plans,
	}
}

func (s *Service) requireAdmin(ctx context.Context, actorID int64) error {
	actor, err := s.repo.Get(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return ErrAdminRequired
	}
	return nil
}

func (s *Service) Stats(ctx context.Context, actorID int64) (*PlatformStats, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	userStats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	planCounts, err := s.plans.CountByKind(ctx)
	if err != nil {
		return nil, err
	}

	return &PlatformStats{
		Stats:      userStats,
		KindCounts: planCounts,
	}, nil
}

func (s *Service) Users(ctx context.Context, actorID int64, limit, offset int) ([]users.User, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	switch {
	case limit <= 0:
		limit = DefaultUsersLimit
	case limit > MaxUsersLimit:
		limit = MaxUsersLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}
