package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/medreport-analyzer/internal/api"
	"github.com/medreport-analyzer/internal/cache"
	"github.com/medreport-analyzer/internal/config"
	"github.com/medreport-analyzer/internal/database"
	"github.com/medreport-analyzer/internal/domain"
	"github.com/medreport-analyzer/internal/knowledge"
	"github.com/medreport-analyzer/internal/service"
	"github.com/medreport-analyzer/internal/storage"
	"github.com/medreport-analyzer/internal/textsource"
	"github.com/medreport-analyzer/internal/translate"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := newLogger(cfg.Logging)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, db, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open analysis store")
	}
	defer store.Close()
	if db != nil {
		defer db.Close()
	}

	resultCache, err := cache.NewResultCache(logger, cfg.Cache)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize result cache")
	}
	defer resultCache.Close()

	// Core pipeline
	kb := knowledge.NewBase()
	extractor := service.NewExtractorService(logger)
	assessor := service.NewAssessorService(logger, kb)
	explainer := service.NewExplainerService(logger, kb, cfg.Analysis.ExcerptLength)
	analyzer := service.NewAnalyzerService(logger, extractor, assessor, explainer, cfg.Analysis.MaxTextLength)
	simplifier := service.NewSimplifierService(logger, kb)
	translator := translate.NewHTTPTranslator(logger, cfg.Translator)
	fileSource := textsource.NewFileSource(logger)

	server := api.NewServer(cfg, logger, api.Deps{
		Analyzer:   analyzer,
		Simplifier: simplifier,
		Translator: translator,
		TextSource: fileSource,
		Knowledge:  kb,
		Store:      store,
		Cache:      resultCache,
		DB:         db,
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	logger.WithFields(logrus.Fields{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Starting medical report analyzer")

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

// newLogger builds the application logger from configuration
func newLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}

// openStore selects the analysis history backend. SQLite is the default;
// Postgres runs its migrations first and keeps a pgx pool open for
// health probes.
func openStore(ctx context.Context, cfg *domain.Config, logger *logrus.Logger) (storage.Store, *database.DB, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		runner, err := database.NewMigrationRunner(database.URL(cfg.Database), cfg.Database.MigrationsPath, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := runner.Up(); err != nil {
			runner.Close()
			return nil, nil, err
		}
		runner.Close()

		pool, err := database.NewConnection(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}

		db, err := storage.OpenPostgres(database.ConnString(cfg.Database))
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		store, err := storage.NewPostgresStore(db)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool, nil
	default:
		store, err := storage.NewSQLiteStore(cfg.Storage.SQLitePath)
		return store, nil, err
	}
}
