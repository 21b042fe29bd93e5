package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/yash81300/arogyamitra/internal/telemetry/tracing"
)

const (
	DefaultTTL       = 24 * time.Hour
	sessionKeyPrefix = "arogyamitra-session||"
	sessionsSetKey   = "arogyamitra-sessions"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrSessionRevoked = errors.New("session revoked or expired")
)

type Claims struct {
	jwt.RegisteredClaims
}

// Service issues HS256 access tokens and keeps a registry of live sessions in
// redis, keyed by the token id. A token is accepted only while its session
// exists, so logout revokes it before the JWT expiry.
type Service struct {
	redisClient *redis.Client
	secret      []byte
	ttl         time.Duration

	// injectable for tests
	Now        func() time.Time
	NewTokenID func() string
}

func NewService(secret string, ttl time.Duration, redisClient *redis.Client) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		redisClient: redisClient,
		secret:      []byte(secret),
		ttl:         ttl,
		Now:         time.Now,
		NewTokenID:  uuid.NewString,
	}
}

func (s *Service) TTL() time.Duration {
	return s.ttl
}

// IssueToken creates a session for the user and returns the signed access token.
func (s *Service) IssueToken(ctx context.Context, userID int64) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.issueToken")
	defer tracing.EndSpanWithErrCheck(span, &err)

	now := s.Now()
	tokenID := s.NewTokenID()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	if err := s.redisClient.Set(ctx, sessionKeyPrefix+tokenID, now.Unix(), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	if err := s.redisClient.SAdd(ctx, sessionsSetKey, tokenID).Err(); err != nil {
		return "", fmt.Errorf("register session: %w", err)
	}

	return signed, nil
}

func (s *Service) parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Authenticate validates the token and its session, and returns the user id.
func (s *Service) Authenticate(ctx context.Context, token string) (_ int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.authenticate")
	defer tracing.EndSpanWithErrCheck(span, &err)

	claims, err := s.parse(token)
	if err != nil {
		return 0, err
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	if err := s.redisClient.Get(ctx, sessionKeyPrefix+claims.ID).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrSessionRevoked
		}
		return 0, fmt.Errorf("get session: %w", err)
	}

	return userID, nil
}

// Logout removes the session behind the token. Logging out with an already
// revoked session is not an error.
func (s *Service) Logout(ctx context.Context, token string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.logout")
	defer tracing.EndSpanWithErrCheck(span, &err)

	claims, err := s.parse(token)
	if err != nil {
		return err
	}

	if err := s.redisClient.Del(ctx, sessionKeyPrefix+claims.ID).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if err := s.redisClient.SRem(ctx, sessionsSetKey, claims.ID).Err(); err != nil {
		return fmt.Errorf("unregister session: %w", err)
	}

	return nil
}

// ScanAndClean will run through all registered sessions and drop the ones that
// are older than the TTL or whose redis key already expired.
func (s *Service) ScanAndClean(ctx context.Context) {
	cmd := s.redisClient.SMembers(ctx, sessionsSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("auth service, scan and clean, get sessions: %s", err)
		return
	}

	sessionIDs := cmd.Val()
	if len(sessionIDs) == 0 {
		log.Debugln("auth service, scan and clean abort, no sessions")
		return
	}

	log.Debugf("auth service, scan and clean [%d sessions] start", len(sessionIDs))
	var toRemove []string
	for _, id := range sessionIDs {
		createdAtUnix, err := s.redisClient.Get(ctx, sessionKeyPrefix+id).Int64()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				toRemove = append(toRemove, id)
				continue
			}
			log.Errorf("auth service, scan and clean session %s: %s", id, err)
			continue
		}

		if s.Now().Sub(time.Unix(createdAtUnix, 0)) > s.ttl {
			toRemove = append(toRemove, id)
		}
	}

	for _, id := range toRemove {
		if err := s.redisClient.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
			log.Errorf("auth service, clean session %s: %s", id, err)
			continue
		}
		if err := s.redisClient.SRem(ctx, sessionsSetKey, id).Err(); err != nil {
			log.Errorf("auth service, clean session %s: %s", id, err)
			continue
		}
	}
	log.Debugf("auth service, scan and clean done, removed %d sessions", len(toRemove))
}
