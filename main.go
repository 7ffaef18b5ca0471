package main

import (
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/config"
	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/features"
	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/ml"
	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/notifier"
	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/reputation"
	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/repository"
	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/server"
	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/service"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err) // Should not happen in development
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// Secrets may live in a local .env; missing file is fine
	_ = godotenv.Load()

	// Load configuration
	cfgPath := "configs/config.yml"
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewSQLiteDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Reputation tables are loaded once and immutable afterwards
	tables, err := reputation.Load(cfg.Reputation.OverridesPath)
	if err != nil {
		logger.Fatal("Failed to load reputation tables", zap.Error(err))
	}

	// Model manager: loads persisted bundles, or starts on the fallback
	manager, err := ml.NewManager(cfg.Models.Dir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize model manager", zap.Error(err))
	}

	// Initialize repositories
	analysisRepo := repository.NewAnalysisRepository(db, logger)

	// Feature extraction with the live redirect prober
	prober := features.NewRedirectProber(features.ProbeTimeout, logger)
	extractor := features.NewExtractor(tables, prober, logger)

	// Telegram notifier for high-severity verdicts (optional)
	tgNotifier, err := notifier.NewTelegramNotifier(cfg, logger)
	if err != nil {
		logger.Warn("Failed to initialize Telegram notifier, continuing without it", zap.Error(err))
		tgNotifier = nil
	}

	// Core analysis engine
	var notify service.Notifier
	if tgNotifier != nil {
		notify = tgNotifier
	}
	analyzer := service.NewAnalyzerService(analysisRepo, extractor, manager, tables, notify, logger)

	authService := service.NewAuthService(cfg, logger)

	// Initialize and run the server
	srv := server.NewServer(analyzer, authService, logrus.New(), logger)
	srv.Run(cfg.Server.Port)
}
