package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/netsentry/netsentry/internal/audio"
	"github.com/netsentry/netsentry/internal/config"
	"github.com/netsentry/netsentry/internal/database"
	"github.com/netsentry/netsentry/internal/logger"
	"github.com/netsentry/netsentry/internal/metrics"
	"github.com/netsentry/netsentry/internal/notify"
	"github.com/netsentry/netsentry/internal/permission"
	"github.com/netsentry/netsentry/internal/pipeline"
	"github.com/netsentry/netsentry/internal/server"
	"github.com/netsentry/netsentry/internal/settings"
	"github.com/netsentry/netsentry/internal/stream"
	"github.com/netsentry/netsentry/internal/version"
)

func main() {
	// Setup logging with rotation
	logDir := "data/logs"
	_ = os.MkdirAll(logDir, 0755)

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "netsentry.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	// Log to both stdout and file
	mw := io.MultiWriter(os.Stdout, rotator)
	log.SetOutput(mw)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(cfg.Environment == "development", mw)
	log.Printf("starting %s client on version %s", version.Name, version.Full())

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	metrics.Register()

	store := settings.NewStore(db)
	gate := permission.NewGate(permission.StaticPrompter(true))
	router := notify.NewRouter(
		store,
		gate,
		audio.NewSynthesizer(),
		notify.DesktopNotifier{},
		notify.NewEmailRelay(cfg.ServerURL),
		notify.NewExternalNotifier(db),
	)

	source := stream.New(cfg.StreamURL, stream.Config{
		ReconnectDelay:    cfg.ReconnectDelay,
		ReconnectAttempts: cfg.ReconnectAttempts,
	})
	pipe := pipeline.New(source, router, pipeline.NewServerClient(cfg.ServerURL))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeErr := make(chan error, 1)
	go func() {
		pipeErr <- pipe.Run(ctx)
	}()

	srv := server.New(cfg, db, pipe, store, gate)
	log.Printf("serving dashboard API on :%s", cfg.HTTPPort)
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}

	// The stream is torn down with the context; in-flight relay sends are
	// deliberately left to finish on their own.
	if err := <-pipeErr; err != nil && err != context.Canceled {
		log.Printf("pipeline stopped: %v", err)
	}
}
