package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/felixphool/healthtwin/internal/api"
	"github.com/felixphool/healthtwin/internal/cache"
	"github.com/felixphool/healthtwin/internal/config"
	"github.com/felixphool/healthtwin/internal/database"
	"github.com/felixphool/healthtwin/internal/domain"
	"github.com/felixphool/healthtwin/internal/history"
	"github.com/felixphool/healthtwin/internal/repository"
	"github.com/felixphool/healthtwin/internal/scoring"
	"github.com/felixphool/healthtwin/internal/twin"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := newLogger(cfg.Logging)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := scoring.NewEngine(logger)

	store, sessions, cleanup, err := newBackend(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize storage backend")
	}
	defer cleanup()

	resultCache, err := cache.New(cache.Config{
		MaxMemoryEntries: cfg.Cache.MaxMemoryEntries,
		TTL:              cfg.Cache.TTL,
		RedisURL:         cfg.Cache.RedisURL,
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize result cache")
	}
	defer resultCache.Close()

	server := api.NewServer(api.Deps{
		Config:    cfg,
		Engine:    engine,
		Simulator: twin.NewSimulator(engine, logger),
		History:   store,
		Sessions:  sessions,
		Cache:     resultCache,
		Logger:    logger,
	})

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	logger.WithFields(logrus.Fields{
		"host":    cfg.Server.Host,
		"port":    cfg.Server.Port,
		"backend": cfg.History.Backend,
	}).Info("Starting healthtwin server")

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

// newBackend wires the score history store and the session store for the
// configured backend. The returned cleanup closes everything it opened.
func newBackend(ctx context.Context, cfg *domain.Config, logger *logrus.Logger) (history.Store, api.SessionStore, func(), error) {
	switch cfg.History.Backend {
	case "postgres":
		dbConfig := database.Config{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			Database:    cfg.Database.Database,
			Username:    cfg.Database.Username,
			Password:    cfg.Database.Password,
			SSLMode:     cfg.Database.SSLMode,
			MaxConns:    int32(cfg.Database.MaxOpenConns),
			MinConns:    int32(cfg.Database.MaxIdleConns),
			MaxConnLife: cfg.Database.ConnMaxLifetime,
			MaxConnIdle: 5 * time.Minute,
		}

		if err := runMigrations(dbConfig.URL(), cfg.Database.MigrationsPath, logger); err != nil {
			return nil, nil, nil, err
		}

		db, err := database.NewConnection(ctx, dbConfig, logger)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}

		store, err := history.NewPostgresStoreFromURL(dbConfig.URL())
		if err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("opening history store: %w", err)
		}

		cleanup := func() {
			store.Close()
			db.Close()
		}
		return store, repository.NewSessionRepository(db.Pool, logger), cleanup, nil

	case "sqlite":
		store, err := history.NewSQLiteStore(cfg.History.SQLitePath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening sqlite history store: %w", err)
		}
		// Sessions are ephemeral in sqlite mode.
		return store, repository.NewMemorySessionRepository(), func() { store.Close() }, nil

	default:
		return nil, nil, nil, fmt.Errorf("unsupported history backend %q", cfg.History.Backend)
	}
}

func runMigrations(databaseURL, migrationsPath string, logger *logrus.Logger) error {
	migrator, err := database.NewMigrator(databaseURL, migrationsPath, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()
	return migrator.Up()
}

func newLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}
