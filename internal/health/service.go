package health

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/yash81300/arogyamitra/internal/users"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=health_test

type assessmentsRepo interface {
	Create(ctx context.Context, a *Assessment) (int64, error)
	Latest(ctx context.Context, userID int64) (*Assessment, error)
	SetLatestAnalysis(ctx context.Context, userID int64, analysis string) (bool, error)
}

type healthAnalyzer interface {
	AnalyzeHealth(ctx context.Context, profile users.Profile, healthData any) (string, error)
}

type userGetter interface {
	Get(ctx context.Context, id int64) (*users.User, error)
}

type Service struct {
	repo     assessmentsRepo
	analyzer healthAnalyzer
	users    userGetter
}

func NewService(repo assessmentsRepo, analyzer healthAnalyzer, users userGetter) *Service {
	return &Service{
		repo:     repo,
		analyzer: analyzer,
		users:    users,
	}
}

func (s *Service) Submit(ctx context.Context, userID int64, q Questionnaire) (int64, error) {
	return s.repo.Create(ctx, &Assessment{
		UserID:        userID,
		Questionnaire: q,
	})
}

// Latest returns the newest assessment, or ErrNoAssessment.
func (s *Service) Latest(ctx context.Context, userID int64) (*Assessment, error) {
	return s.repo.Latest(ctx, userID)
}

// Analyze asks the AI for an analysis of the given answers and keeps it on the
// newest stored assessment, if the user has one.
func (s *Service) Analyze(ctx context.Context, userID int64, q Questionnaire) (string, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return "", err
	}

	q.normalize()
	analysis, err := s.analyzer.AnalyzeHealth(ctx, u.Profile(), q)
	if err != nil {
		return "", err
	}

	stored, err := s.repo.SetLatestAnalysis(ctx, userID, analysis)
	if err != nil {
		log.Errorf("store health analysis for user %d: %s", userID, err)
	} else if !stored {
		log.Debugf("user %d has no assessment to keep the analysis on", userID)
	}

	return analysis, nil
}
