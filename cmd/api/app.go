package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"apparel-catalog/internal/config"
	"apparel-catalog/internal/database"
	"apparel-catalog/internal/logger"
	"apparel-catalog/internal/models"
	"apparel-catalog/internal/storage"
	"apparel-catalog/internal/store"
)

type backend interface {
	store.Database
	store.Indexer
}

// app holds what every command needs: configuration, the logger and an open
// document store with its indexes in place.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	store backend
	close func(context.Context) error
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger.Init(logger.Config{Env: cfg.Env, Level: cfg.LogLevel})
	log := logger.Named("app")
	if cfg.EnvFile != "" {
		log.Debug("loaded env file", zap.String("file", cfg.EnvFile))
	}

	a := &app{cfg: cfg, log: log, close: func(context.Context) error { return nil }}
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn("using the in-memory store, data is lost on exit")
		a.store = store.NewMemory()
	default:
		client, err := database.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		log.Info("connected to mongodb", zap.String("db", cfg.MongoDB))
		a.store = store.NewMongo(client.Database(cfg.MongoDB))
		a.close = client.Disconnect
	}

	if err := database.EnsureIndexes(ctx, a.store); err != nil {
		_ = a.close(ctx)
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return a, nil
}

func (a *app) disk(ctx context.Context) (storage.Disk, error) {
	if a.cfg.ImageDisk == config.DiskS3 {
		return storage.NewS3Disk(ctx, storage.S3Options{
			Bucket:   a.cfg.S3.Bucket,
			Region:   a.cfg.S3.Region,
			Endpoint: a.cfg.S3.Endpoint,
			Key:      a.cfg.S3.Key,
			Secret:   a.cfg.S3.Secret,
			Prefix:   "uploads/",
		})
	}
	return storage.NewLocalDisk(a.cfg.UploadDir)
}

func kindNames() []string {
	names := make([]string, 0, len(models.Kinds()))
	for _, k := range models.Kinds() {
		names = append(names, k.Name)
	}
	return names
}
