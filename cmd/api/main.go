package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/imrics/DermAI/internal/analysis"
	"github.com/imrics/DermAI/internal/config"
	"github.com/imrics/DermAI/internal/db"
	"github.com/imrics/DermAI/internal/imagestore"
	"github.com/imrics/DermAI/internal/server"
	"github.com/imrics/DermAI/internal/store"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("database connect failed: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatalf("database ping failed: %v", err)
	}
	if err := db.Migrate(ctx, pool); err != nil {
		logger.Fatalf("database migrate failed: %v", err)
	}

	images, err := newImageStore(cfg)
	if err != nil {
		logger.Fatalf("image store init failed: %v", err)
	}

	var vision analysis.VisionClient
	if cfg.AIUseMock {
		logger.Warn("AI_USE_MOCK enabled, using canned analysis responses")
		vision = analysis.MockVisionClient{}
	} else {
		vision = analysis.NewOpenAIVisionClient(cfg, logger)
	}

	analyzer := analysis.New(
		store.NewEntryStore(pool),
		store.NewMedicationStore(pool),
		images,
		vision,
		cfg.HistoryLimit,
		logger,
	)

	app := server.New(cfg, logger, pool, images, analyzer)
	httpServer := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           app.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("dermai api listening on http://localhost:%s", cfg.AppPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("graceful shutdown failed: %v", err)
	}
}

func newImageStore(cfg config.Config) (imagestore.ImageStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.ImageStoreDriver)) {
	case "minio":
		return imagestore.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	default:
		return imagestore.NewLocalStore(cfg.ImageDir)
	}
}
