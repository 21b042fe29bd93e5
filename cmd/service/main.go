package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/yash81300/arogyamitra/internal"
	"github.com/yash81300/arogyamitra/internal/config"
	"github.com/yash81300/arogyamitra/internal/logging"
	"github.com/yash81300/arogyamitra/pkg"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        sentryDSN,
		SentryServerName: "arogyamitra-service",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	jwtSecret := os.Getenv("AROGYA_JWT_SECRET")
	if jwtSecret == "" {
		log.Fatalln("jwt secret not set. use AROGYA_JWT_SECRET")
	}

	dbPassword := os.Getenv("AROGYA_DB_PASS")
	if dbPassword == "" {
		log.Errorf("db password not set. use AROGYA_DB_PASS")
	}

	redisPassword := os.Getenv("AROGYA_REDIS_PASS")
	if redisPassword == "" {
		log.Errorf("redis password not set. use AROGYA_REDIS_PASS")
	}

	groqAPIKey := os.Getenv("GROQ_API_KEY")
	if groqAPIKey == "" {
		log.Errorf("groq API key not set, use GROQ_API_KEY env var to set it")
	}

	youtubeAPIKey := os.Getenv("YOUTUBE_API_KEY")
	if youtubeAPIKey == "" {
		log.Errorf("youtube API key not set, use YOUTUBE_API_KEY env var to set it")
	}

	spoonacularAPIKey := os.Getenv("SPOONACULAR_API_KEY")
	if spoonacularAPIKey == "" {
		log.Errorf("spoonacular API key not set, use SPOONACULAR_API_KEY env var to set it")
	}

	calendarClientID := os.Getenv("GOOGLE_CALENDAR_CLIENT_ID")
	calendarClientSecret := os.Getenv("GOOGLE_CALENDAR_CLIENT_SECRET")
	if calendarClientID == "" || calendarClientSecret == "" {
		log.Errorf("google calendar client not set. use GOOGLE_CALENDAR_CLIENT_ID and GOOGLE_CALENDAR_CLIENT_SECRET")
	}

	cloudinaryURL := os.Getenv("CLOUDINARY_URL")
	if cloudinaryURL == "" {
		log.Errorf("cloudinary url not set. use CLOUDINARY_URL")
	}

	if otelServiceName := os.Getenv("OTEL_SERVICE_NAME"); otelServiceName == "" {
		log.Warnln("OTEL_SERVICE_NAME env var not set")
	}

	honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
	if honeycombEnabled {
		if honeycombApiKey := os.Getenv("HONEYCOMB_API_KEY"); honeycombApiKey == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
	} else {
		log.Debugln("honeycomb tracing disabled")
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                     cfg,
			VersionInfo:                versionInfo,
			DBPassword:                 dbPassword,
			RedisPassword:              redisPassword,
			JWTSecret:                  jwtSecret,
			GroqAPIKey:                 groqAPIKey,
			YouTubeAPIKey:              youtubeAPIKey,
			SpoonacularAPIKey:          spoonacularAPIKey,
			GoogleCalendarClientID:     calendarClientID,
			GoogleCalendarClientSecret: calendarClientSecret,
			CloudinaryURL:              cloudinaryURL,
			HoneycombTracingEnabled:    honeycombEnabled,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}

// tryGetLastCommitHash will try to get the last commit hash
// assumes that the built main executable is in project root
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(pkg.BytesToString(stdout)), nil
}
