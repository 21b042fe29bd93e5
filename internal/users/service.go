package users

import (
	"context"
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/yash81300/arogyamitra/internal/telemetry/metrics"
	"github.com/yash81300/arogyamitra/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=users_test

type usersRepo interface {
	Create(ctx context.Context, req RegisterRequest, passwordHash string) (*User, error)
	Get(ctx context.Context, id int64) (*User, error)
	GetByLogin(ctx context.Context, login string) (*User, error)
	UpdateProfile(ctx context.Context, u *User) (*User, error)
	SetPhotoURL(ctx context.Context, id int64, url *string) error
	List(ctx context.Context, limit, offset int) ([]User, error)
	Delete(ctx context.Context, id int64) error
}

type tokenIssuer interface {
	IssueToken(ctx context.Context, userID int64) (string, error)
	Logout(ctx context.Context, token string) error
}

type photoStore interface {
	Upload(ctx context.Context, userID int64, file io.Reader) (string, error)
	Delete(ctx context.Context, userID int64) error
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}

type Service struct {
	repo           usersRepo
	tokens         tokenIssuer
	photos         photoStore
	metricsManager *metrics.Manager
}

// NewService wires the account service. photos may be nil, photo uploads are
// then rejected with ErrPhotoStoreDisabled.
func NewService(repo usersRepo, tokens tokenIssuer, photos photoStore, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:           repo,
		tokens:         tokens,
		photos:         photos,
		metricsManager: metricsManager,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	req.normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := pkg.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.repo.Create(ctx, req, hash)
	if err != nil {
		return nil, err
	}
	if s.metricsManager != nil {
		s.metricsManager.CounterRegistrations.Inc()
	}
	log.Debugf("new user registered: %d [%s]", u.ID, u.Username)

	return s.authResponse(ctx, u)
}

func (s *Service) Login(ctx context.Context, login, password string) (*AuthResponse, error) {
	if login == "" || password == "" {
		return nil, ErrIncorrectLogin
	}

	u, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrIncorrectLogin
		}
		return nil, err
	}
	if !u.IsActive || !pkg.CheckPasswordHash(password, u.PasswordHash) {
		return nil, ErrIncorrectLogin
	}

	return s.authResponse(ctx, u)
}

func (s *Service) authResponse(ctx context.Context, u *User) (*AuthResponse, error) {
	token, err := s.tokens.IssueToken(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        u,
	}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Logout(ctx, token)
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) (*User, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	update.applyTo(u)

	return s.repo.UpdateProfile(ctx, u)
}

func (s *Service) UploadPhoto(ctx context.Context, id int64, file io.Reader) (*User, error) {
	if s.photos == nil {
		return nil, ErrPhotoStoreDisabled
	}

	url, err := s.photos.Upload(ctx, id, file)
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}
	if err := s.repo.SetPhotoURL(ctx, id, &url); err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, id)
}

func (s *Service) DeletePhoto(ctx context.Context, id int64) error {
	if s.photos != nil {
		if err := s.photos.Delete(ctx, id); err != nil {
			// the url is dropped anyway, a dangling remote image is harmless
			log.Errorf("delete remote photo of user %d: %s", id, err)
		}
	}
	return s.repo.SetPhotoURL(ctx, id, nil)
}

func (s *Service) List(ctx context.Context, actorID int64, limit, offset int) ([]User, error) {
	actor, err := s.repo.Get(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.repo.List(ctx, limit, offset)
}

// Delete removes the target account. Admins may delete anyone, users only
// themselves.
func (s *Service) Delete(ctx context.Context, actorID, targetID int64) error {
	if actorID != targetID {
		actor, err := s.repo.Get(ctx, actorID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() {
			return ErrForbidden
		}
	}
	return s.repo.Delete(ctx, targetID)
}
