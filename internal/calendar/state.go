package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	stateKeyPrefix = "arogyamitra-calendar-state||"
	StateTTL       = 10 * time.Minute
)

var ErrUnknownState = errors.New("unknown or expired oauth state")

// StateStore remembers which user started an OAuth flow, keyed by the random
// state sent to Google.
type StateStore struct {
	redisClient *redis.Client
}

func NewStateStore(redisClient *redis.Client) *StateStore {
	return &StateStore{
		redisClient: redisClient,
	}
}

func (s *StateStore) Save(ctx context.Context, state string, userID int64) error {
	if err := s.redisClient.Set(ctx, stateKeyPrefix+state, userID, StateTTL).Err(); err != nil {
		return fmt.Errorf("store oauth state: %w", err)
	}
	return nil
}

// Take returns the user of the state and forgets the state, so every state
// can be used once.
func (s *StateStore) Take(ctx context.Context, state string) (int64, error) {
	userID, err := s.redisClient.Get(ctx, stateKeyPrefix+state).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrUnknownState
		}
		return 0, fmt.Errorf("get oauth state: %w", err)
	}
	if err := s.redisClient.Del(ctx, stateKeyPrefix+state).Err(); err != nil {
		return 0, fmt.Errorf("delete oauth state: %w", err)
	}
	return userID, nil
}
