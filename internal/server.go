package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/api/option"

	"github.com/yash81300/arogyamitra/internal/admin"
	"github.com/yash81300/arogyamitra/internal/aiagent"
	"github.com/yash81300/arogyamitra/internal/auth"
	"github.com/yash81300/arogyamitra/internal/calendar"
	"github.com/yash81300/arogyamitra/internal/coach"
	"github.com/yash81300/arogyamitra/internal/config"
	"github.com/yash81300/arogyamitra/internal/db"
	"github.com/yash81300/arogyamitra/internal/health"
	"github.com/yash81300/arogyamitra/internal/ledger"
	"github.com/yash81300/arogyamitra/internal/media"
	"github.com/yash81300/arogyamitra/internal/middleware"
	"github.com/yash81300/arogyamitra/internal/misc"
	"github.com/yash81300/arogyamitra/internal/plans"
	"github.com/yash81300/arogyamitra/internal/progress"
	"github.com/yash81300/arogyamitra/internal/telemetry/metrics"
	"github.com/yash81300/arogyamitra/internal/telemetry/tracing"
	"github.com/yash81300/arogyamitra/internal/users"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config   *config.Config
	dbPool   *pgxpool.Pool
	location *time.Location

	redisClient    *redis.Client
	authService    *auth.Service
	sessionCleaner *cron.Cron

	agent           *aiagent.Agent
	usersService    *users.Service
	calendarService *calendar.Service
	videoFinder     *media.VideoFinder
	recipeFinder    *media.RecipeFinder

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                     *config.Config
	VersionInfo                string
	DBPassword                 string
	RedisPassword              string
	JWTSecret                  string
	GroqAPIKey                 string
	YouTubeAPIKey              string
	SpoonacularAPIKey          string
	GoogleCalendarClientID     string
	GoogleCalendarClientSecret string
	CloudinaryURL              string
	HoneycombTracingEnabled    bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	location, err := cfg.DayLocation()
	if err != nil {
		return nil, err
	}

	dbParams := db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     params.DBPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	}
	if err := db.Migrate(dbParams); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	dbPool, err := db.NewDBPool(ctx, dbParams)
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	otelShutdown := func() {}
	if params.HoneycombTracingEnabled {
		// use honeycomb distro to setup OpenTelemetry SDK
		otelShutdown, err = tracing.HoneycombSetup()
		if err != nil {
			return nil, err
		}
		rdb.AddHook(redisotel.NewTracingHook())
	}

	if params.JWTSecret == "" {
		return nil, errors.New("jwt secret not set")
	}
	authService := auth.NewService(params.JWTSecret, cfg.AccessTokenTTL(), rdb)
	sessionCleaner, err := auth.NewSessionCleaner(ctx, authService, auth.DefaultCleanupSchedule)
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   time.Minute,
	}

	agent := aiagent.NewAgent(aiagent.Params{
		APIKey:         params.GroqAPIKey,
		HTTPClient:     tracedHttpClient,
		MetricsManager: metricsManager,
	})

	var photos *users.CloudinaryPhotoStore
	if params.CloudinaryURL != "" {
		photos, err = users.NewCloudinaryPhotoStore(params.CloudinaryURL)
		if err != nil {
			return nil, fmt.Errorf("new photo store: %w", err)
		}
	} else {
		log.Warnln("cloudinary url not set, profile photo uploads disabled")
	}

	usersRepo := users.NewRepo(dbPool)
	var usersService *users.Service
	if photos != nil {
		usersService = users.NewService(usersRepo, authService, photos, metricsManager)
	} else {
		usersService = users.NewService(usersRepo, authService, nil, metricsManager)
	}

	calendarService, err := calendar.NewService(calendar.Params{
		ClientID:      params.GoogleCalendarClientID,
		ClientSecret:  params.GoogleCalendarClientSecret,
		RedirectURI:   cfg.CalendarRedirectURI,
		States:        calendar.NewStateStore(rdb),
		Tokens:        usersRepo,
		Plans:         plans.NewRepo(dbPool),
		ClientOptions: []option.ClientOption{option.WithTelemetryDisabled()},
	})
	if err != nil {
		return nil, fmt.Errorf("new calendar service: %w", err)
	}

	videoFinder, err := media.NewVideoFinder(ctx, params.YouTubeAPIKey)
	if err != nil {
		return nil, fmt.Errorf("new video finder: %w", err)
	}

	return &Server{
		config:      cfg,
		dbPool:      dbPool,
		location:    location,
		versionInfo: params.VersionInfo,

		redisClient:    rdb,
		authService:    authService,
		sessionCleaner: sessionCleaner,

		agent:           agent,
		usersService:    usersService,
		calendarService: calendarService,
		videoFinder:     videoFinder,
		recipeFinder: media.NewRecipeFinder(
			media.DefaultSpoonacularURL,
			params.SpoonacularAPIKey,
			tracedHttpClient,
		),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	wrapPublic := func(name string, h http.Handler) http.Handler {
		return middleware.RateLimit(reqRateLimiter, name, s.config.LoginRateLimitAllowedPerMin, s.metricsManager)(h)
	}
	wrapAI := func(name string, h http.Handler) http.Handler {
		return middleware.RateLimit(reqRateLimiter, name, s.config.AIRateLimitAllowedPerMin, s.metricsManager)(h)
	}

	usersRepo := users.NewRepo(s.dbPool)
	plansRepo := plans.NewRepo(s.dbPool)

	misc.NewHandler(s.versionInfo).SetupRoutes(r)
	users.NewHandler(s.usersService).SetupRoutes(r, wrapPublic)

	// completion and points routes go first, the plan routers below own the
	// /api/workouts and /api/nutrition prefixes
	ledgerService := ledger.New(
		ledger.NewPgStore(s.dbPool),
		ledger.WithLocation(s.location),
		ledger.WithMaxRetries(uint64(s.config.LedgerConflictRetries)),
		ledger.WithMetrics(s.metricsManager),
	)
	ledger.NewHandler(ledgerService).SetupRoutes(r)

	media.NewHandler(s.videoFinder, s.recipeFinder, usersRepo).SetupRoutes(r)

	plans.NewHandler(
		plans.NewService(plansRepo, usersRepo, s.agent),
	).SetupRoutes(r, wrapAI)

	progress.NewHandler(
		progress.NewService(progress.NewRepo(s.dbPool), usersRepo),
	).SetupRoutes(r)

	coach.NewHandler(
		coach.NewService(s.agent, coach.NewRepo(s.dbPool), usersRepo),
	).SetupRoutes(r, wrapAI)

	health.NewHandler(
		health.NewService(health.NewRepo(s.dbPool), s.agent, usersRepo),
	).SetupRoutes(r, wrapAI)

	calendar.NewHandler(s.calendarService, s.config.FrontendURL).SetupRoutes(r)

	admin.NewHandler(
		admin.NewService(usersRepo, plansRepo),
	).SetupRoutes(r)

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.authService)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.CorsAllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.sessionCleaner.Start()
	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.sessionCleaner != nil {
		// waits for a running cleanup to finish
		<-s.sessionCleaner.Stop().Done()
		log.Trace("session cleaner stopped ...")
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
