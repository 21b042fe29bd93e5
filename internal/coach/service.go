package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yash81300/arogyamitra/internal/aiagent"
	"github.com/yash81300/arogyamitra/internal/users"
	"github.com/yash81300/arogyamitra/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=coach_test

type coachAgent interface {
	Chat(ctx context.Context, profile users.Profile, status string, history []aiagent.ChatMessage, message string) (string, error)
	AdjustPlan(ctx context.Context, profile users.Profile, reason string, currentPlan map[string]any) (map[string]any, error)
}

type sessionsRepo interface {
	GetOrCreate(ctx context.Context, userID int64) (*Session, error)
	Get(ctx context.Context, userID int64) (*Session, error)
	AppendMessages(ctx context.Context, userID int64, messages []aiagent.ChatMessage, sessionContext map[string]any) error
	ClearMessages(ctx context.Context, userID int64) error
}

type userGetter interface {
	Get(ctx context.Context, id int64) (*users.User, error)
}

type ChatReply struct {
	Response  string `json:"response"`
	SessionID int64  `json:"session_id"`
}

type Service struct {
	agent    coachAgent
	sessions sessionsRepo
	users    userGetter
	Now      func() time.Time
}

func NewService(agent coachAgent, sessions sessionsRepo, users userGetter) *Service {
	return &Service{
		agent:    agent,
		sessions: sessions,
		users:    users,
		Now:      time.Now,
	}
}

// Chat sends a message to the coach with the stored conversation as context
// and stores both the message and the reply.
func (s *Service) Chat(ctx context.Context, userID int64, message, status string) (*ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, pkg.NewValidationError("message", "must not be empty")
	}
	if status == "" {
		status = "normal"
	}

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	session, err := s.sessions.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	reply, err := s.agent.Chat(ctx, u.Profile(), status, session.Messages, message)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	if err := s.sessions.AppendMessages(ctx, userID, []aiagent.ChatMessage{
		{Role: "user", Content: message, Timestamp: &now},
		{Role: "assistant", Content: reply, Timestamp: &now},
	}, map[string]any{"user_status": status}); err != nil {
		return nil, err
	}

	return &ChatReply{
		Response:  reply,
		SessionID: session.ID,
	}, nil
}

func (s *Service) History(ctx context.Context, userID int64) ([]aiagent.ChatMessage, error) {
	session, err := s.sessions.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return []aiagent.ChatMessage{}, nil
		}
		return nil, err
	}
	return session.Messages, nil
}

func (s *Service) ClearHistory(ctx context.Context, userID int64) error {
	return s.sessions.ClearMessages(ctx, userID)
}

func (s *Service) AdjustPlan(ctx context.Context, userID int64, reason string, durationDays int, currentPlan map[string]any) (map[string]any, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, pkg.NewValidationError("reason", "must not be empty")
	}
	if durationDays < 0 {
		return nil, pkg.NewValidationError("duration_days", "cannot be negative")
	}
	if currentPlan == nil {
		return nil, pkg.NewValidationError("current_plan", "missing")
	}

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if durationDays > 0 {
		reason = fmt.Sprintf("%s (for %d days)", reason, durationDays)
	}
	return s.agent.AdjustPlan(ctx, u.Profile(), reason, currentPlan)
}
