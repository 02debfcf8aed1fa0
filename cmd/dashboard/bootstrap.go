package main

import (
	"context"
	"fmt"
	"io"

	"github.com/ragdash/dashboard-api/internal/api"
	"github.com/ragdash/dashboard-api/internal/config"
	"github.com/ragdash/dashboard-api/internal/database"
	"github.com/ragdash/dashboard-api/internal/repository"
	"github.com/ragdash/dashboard-api/internal/version"
	"go.uber.org/zap"
)

// app is the wired service shared by serve and invoke.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	server *api.Server
	close  func()
}

// newApp loads configuration, builds the logger and opens the database.
// info receives console output below WARN.
func newApp(ctx context.Context, configPath string, info io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.Log, info)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	logger.Info("starting dashboard",
		zap.String("version", version.Short()),
		zap.String("driver", cfg.Database.Driver),
	)

	db, dialect, err := database.Open(ctx, cfg.Database)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}

	store := repository.NewQueryLogStore(db, dialect, logger)
	server := api.NewServer(api.ServerDeps{
		Store:  store,
		Logger: logger,
	})

	return &app{
		cfg:    cfg,
		logger: logger,
		server: server,
		close: func() {
			if err := db.Close(); err != nil {
				logger.Warn("failed to close database", zap.Error(err))
			}
			_ = logger.Sync()
		},
	}, nil
}
