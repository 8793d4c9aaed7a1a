package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"apparel-catalog/internal/auth"
	"apparel-catalog/internal/cache"
	"apparel-catalog/internal/config"
	"apparel-catalog/internal/logger"
	"apparel-catalog/internal/metrics"
	"apparel-catalog/internal/middleware"
	"apparel-catalog/internal/models"
	"apparel-catalog/internal/repository"
	"apparel-catalog/internal/routes"
	"apparel-catalog/internal/storage"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.close(closeCtx); err != nil {
			a.log.Warn("closing store", zap.Error(err))
		}
	}()

	disk, err := a.disk(ctx)
	if err != nil {
		return err
	}
	images := storage.NewImages(disk, a.cfg.BaseURL, kindNames())
	hasher := auth.NewPasswordHasher(a.cfg.BcryptCost)
	m := metrics.New()

	if a.cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		cors.New(corsConfig(a.cfg)),
		m.Middleware(),
	)
	routes.RegisterRoutes(router, routes.Deps{
		Catalog:        repository.NewCatalog(a.store, images),
		Users:          repository.NewCredentialRepository(models.Users, a.store, hasher),
		Admins:         repository.NewCredentialRepository(models.Admins, a.store, hasher),
		Tokens:         auth.NewTokenIssuer(a.cfg.JWTSecret, auth.TokenTTL),
		Images:         images,
		Cache:          cache.New(a.cfg.CacheTTL),
		Metrics:        m,
		MaxUploadBytes: a.cfg.MaxUploadBytes,
		ProtectWrites:  a.cfg.ProtectCatalogWrites,
	})

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("store", a.cfg.StoreDriver),
			zap.String("images", a.cfg.ImageDisk),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.CORSOrigins) == 0 || slices.Contains(cfg.CORSOrigins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSOrigins
	}
	return c
}
