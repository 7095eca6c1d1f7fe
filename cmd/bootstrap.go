package cmd

import (
	"context"
	"fmt"
	"net/http"

	"feedmark/core/config"
	"feedmark/core/database"
	"feedmark/core/kv"
	"feedmark/core/state"
	"feedmark/core/storage"
	"feedmark/feature/feeds"
	"feedmark/feature/tracker"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// openStore connects the backend selected by the store section.
func openStore(ctx context.Context, cfg *config.Config) (kv.Store, error) {
	var (
		db     *gorm.DB
		client storage.Client
		err    error
	)

	switch cfg.Store.Driver {
	case kv.DriverDatabase:
		db, err = database.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
	case kv.DriverObject:
		client, err = storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
	}

	return kv.Open(ctx, cfg.Store, db, client, cfg.Storage.Bucket)
}

// openRepository opens the cursor repository. When migrate is set the schema
// is brought up to date, which every Load and Save requires.
func openRepository(ctx context.Context, cfg *config.Config, l *zap.Logger, migrate bool) (*state.Repository, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	repo := state.NewRepository(store, l, feeds.Namespaces()...)
	if migrate {
		if err := repo.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("failed to migrate cursors: %w", err)
		}
	}
	return repo, nil
}

// newResolver returns the canonical tag resolver, or nil when no feed site
// is configured.
func newResolver(cfg *config.Config, l *zap.Logger) (feeds.Resolver, error) {
	if cfg.Feed.SiteURL == "" {
		return nil, nil
	}
	r, err := feeds.NewHTTPResolver(cfg.Feed, &http.Client{Timeout: cfg.Feed.Timeout()}, l)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func trackerOptions(cfg *config.Config) tracker.Options {
	return tracker.Options{
		Selectors:    cfg.Feed.Selectors,
		Preferences:  cfg.Marker,
		SessionLimit: cfg.Server.Sessions(),
	}
}
