package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/yash81300/arogyamitra/internal/plans"
	"github.com/yash81300/arogyamitra/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=calendar_test

var (
	ErrNotConfigured = errors.New("google calendar not configured")
	ErrNotConnected  = errors.New("google calendar not connected")
)

type stateStore interface {
	Save(ctx context.Context, state string, userID int64) error
	Take(ctx context.Context, state string) (int64, error)
}

type tokenStore interface {
	CalendarToken(ctx context.Context, id int64) ([]byte, error)
	SetCalendarToken(ctx context.Context, id int64, token []byte) error
}

type activePlanGetter interface {
	Active(ctx context.Context, userID int64, kind plans.Kind) (*plans.Plan, error)
}

type SyncResult struct {
	Message       string `json:"message"`
	EventsCreated int    `json:"events_created"`
	WeekStarting  string `json:"week_starting"`
}

type Params struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	States       stateStore
	Tokens       tokenStore
	Plans        activePlanGetter
	// ClientOptions are added to every calendar api client.
	ClientOptions []option.ClientOption
}

// Service connects user accounts to Google Calendar and pushes plans into
// their primary calendar.
type Service struct {
	oauthConfig   *oauth2.Config
	states        stateStore
	tokens        tokenStore
	plans         activePlanGetter
	clientOptions []option.ClientOption
	location      *time.Location

	Now func() time.Time
}

func NewService(params Params) (*Service, error) {
	loc, err := time.LoadLocation(TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load calendar time zone: %w", err)
	}

	var oauthConfig *oauth2.Config
	if params.ClientID != "" {
		oauthConfig = &oauth2.Config{
			ClientID:     params.ClientID,
			ClientSecret: params.ClientSecret,
			RedirectURL:  params.RedirectURI,
			Scopes:       []string{gcal.CalendarEventsScope},
			Endpoint:     google.Endpoint,
		}
	} else {
		log.Warnln("google calendar client id not set, calendar sync disabled")
	}

	return &Service{
		oauthConfig:   oauthConfig,
		states:        params.States,
		tokens:        params.Tokens,
		plans:         params.Plans,
		clientOptions: params.ClientOptions,
		location:      loc,
		Now:           time.Now,
	}, nil
}

// SetOAuthEndpoint points the OAuth flow at another provider.
func (s *Service) SetOAuthEndpoint(endpoint oauth2.Endpoint) {
	if s.oauthConfig != nil {
		s.oauthConfig.Endpoint = endpoint
	}
}

// AuthURL starts an OAuth flow for the user and returns the consent page url.
func (s *Service) AuthURL(ctx context.Context, userID int64) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "calendar.authURL")
	defer tracing.EndSpanWithErrCheck(span, &err)

	if s.oauthConfig == nil {
		return "", ErrNotConfigured
	}

	state := uuid.NewString()
	if err := s.states.Save(ctx, state, userID); err != nil {
		return "", err
	}

	return s.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	), nil
}

// Connect finishes the OAuth flow started with AuthURL and stores the token
// on the user who started it.
func (s *Service) Connect(ctx context.Context, code, state string) (_ int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "calendar.connect")
	defer tracing.EndSpanWithErrCheck(span, &err)

	if s.oauthConfig == nil {
		return 0, ErrNotConfigured
	}

	userID, err := s.states.Take(ctx, state)
	if err != nil {
		return 0, err
	}

	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return userID, fmt.Errorf("exchange oauth code: %w", err)
	}
	if err := s.saveToken(ctx, userID, token); err != nil {
		return userID, err
	}

	log.Debugf("google calendar connected for user %d", userID)
	return userID, nil
}

func (s *Service) saveToken(ctx context.Context, userID int64, token *oauth2.Token) error {
	tokenJSON, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshal oauth token: %w", err)
	}
	return s.tokens.SetCalendarToken(ctx, userID, tokenJSON)
}

func (s *Service) Connected(ctx context.Context, userID int64) (bool, error) {
	token, err := s.tokens.CalendarToken(ctx, userID)
	if err != nil {
		return false, err
	}
	return len(token) > 0, nil
}

func (s *Service) Disconnect(ctx context.Context, userID int64) error {
	return s.tokens.SetCalendarToken(ctx, userID, nil)
}

func (s *Service) SyncWorkout(ctx context.Context, userID int64) (_ *SyncResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "calendar.syncWorkout")
	defer tracing.EndSpanWithErrCheck(span, &err)

	plan, err := s.plans.Active(ctx, userID, plans.KindWorkout)
	if err != nil {
		return nil, err
	}

	now := s.Now().In(s.location)
	weekStart := NextMonday(now)
	created, err := s.insertEvents(ctx, userID, WorkoutEvents(plan.Workout, weekStart, now))
	if err != nil {
		return nil, err
	}

	return &SyncResult{
		Message:       fmt.Sprintf("Synced %d workout days to Google Calendar", created),
		EventsCreated: created,
		WeekStarting:  weekStart.Format(time.DateOnly),
	}, nil
}

func (s *Service) SyncNutrition(ctx context.Context, userID int64) (_ *SyncResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "calendar.syncNutrition")
	defer tracing.EndSpanWithErrCheck(span, &err)

	plan, err := s.plans.Active(ctx, userID, plans.KindNutrition)
	if err != nil {
		return nil, err
	}

	weekStart := NextMonday(s.Now().In(s.location))
	created, err := s.insertEvents(ctx, userID, NutritionEvents(plan.Nutrition, weekStart))
	if err != nil {
		return nil, err
	}

	return &SyncResult{
		Message:       fmt.Sprintf("Synced %d meal reminders to Google Calendar", created),
		EventsCreated: created,
		WeekStarting:  weekStart.Format(time.DateOnly),
	}, nil
}

// insertEvents adds the events to the primary calendar of the user. A token
// refreshed on the way is stored back, also when an insert fails.
func (s *Service) insertEvents(ctx context.Context, userID int64, events []*gcal.Event) (int, error) {
	if s.oauthConfig == nil {
		return 0, ErrNotConfigured
	}

	tokenJSON, err := s.tokens.CalendarToken(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(tokenJSON) == 0 {
		return 0, ErrNotConnected
	}
	stored := &oauth2.Token{}
	if err := json.Unmarshal(tokenJSON, stored); err != nil {
		log.Errorf("user %d has a broken calendar token: %s", userID, err)
		return 0, ErrNotConnected
	}

	tokenSource := s.oauthConfig.TokenSource(ctx, stored)
	opts := append([]option.ClientOption{option.WithHTTPClient(oauth2.NewClient(ctx, tokenSource))}, s.clientOptions...)
	service, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return 0, fmt.Errorf("create calendar service: %w", err)
	}

	created := 0
	var insertErr error
	for _, event := range events {
		if _, err := service.Events.Insert("primary", event).Context(ctx).Do(); err != nil {
			insertErr = fmt.Errorf("insert calendar event %q: %w", event.Summary, err)
			break
		}
		created++
	}

	if current, err := tokenSource.Token(); err == nil && current.AccessToken != stored.AccessToken {
		if err := s.saveToken(ctx, userID, current); err != nil {
			log.Errorf("store refreshed calendar token for user %d: %s", userID, err)
		}
	}

	return created, insertErr
}
