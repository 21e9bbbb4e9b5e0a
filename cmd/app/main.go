package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"porterage/cmd"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := newLogger(configs.LogLevel)

	var gormDB *gorm.DB
	if configs.DBHost != "" {
		db, err := gorm.Open(postgresdriver.Open(configs.DSN()), &gorm.Config{})
		if err != nil {
			log.Fatalf("Error connecting to database: %v", err)
		}
		gormDB = db
	}

	app, err := cmd.NewCompositionRoot(configs, logger, gormDB)
	if err != nil {
		log.Fatalf("Error wiring application: %v", err)
	}
	defer func() {
		if cErr := app.Close(); cErr != nil {
			logger.Error("Error closing event sinks", "error", cErr)
		}
	}()

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startWebServer(ctx, app, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	return cmd.Config{
		HTTPPort:                  envOr("HTTP_PORT", cmd.DefaultHTTPPort),
		IDResetPolicy:             os.Getenv("ID_RESET_POLICY"),
		IDCeiling:                 envInt("ID_CEILING"),
		SenderDebounce:            envDuration("SENDER_DEBOUNCE", cmd.DefaultSenderDebounce),
		SnapshotSchedule:          os.Getenv("SNAPSHOT_SCHEDULE"),
		DBHost:                    os.Getenv("DB_HOST"),
		DBPort:                    envOr("DB_PORT", "5432"),
		DBUser:                    os.Getenv("DB_USER"),
		DBPassword:                os.Getenv("DB_PASSWORD"),
		DBName:                    os.Getenv("DB_NAME"),
		DBSslMode:                 os.Getenv("DB_SSLMODE"),
		KafkaHost:                 os.Getenv("KAFKA_HOST"),
		KafkaTransportEventsTopic: envOr("KAFKA_TRANSPORT_EVENTS_TOPIC", cmd.DefaultKafkaTransportEventsTopic),
		RabbitMQURL:               os.Getenv("RABBITMQ_URL"),
		OutboundQueue:             envOr("OUTBOUND_QUEUE", cmd.DefaultOutboundQueue),
		LogLevel:                  os.Getenv("LOG_LEVEL"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}
	return n
}

// envDuration accepts Go durations ("1.2s") and plain seconds ("1.2"); "0" disables.
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}
	return time.Duration(secs * float64(time.Second))
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, port string, logger *slog.Logger) {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.InfoContext(c.Request().Context(), "HTTP request",
				"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))

	if err := app.CreateServer().Register(e); err != nil {
		log.Fatalf("Error registering routes: %v", err)
	}

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down web server", "error", err)
	}
}
