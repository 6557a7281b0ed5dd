package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/aimd54/gametracker/internal/api"
	"github.com/aimd54/gametracker/internal/cache"
	"github.com/aimd54/gametracker/internal/config"
	"github.com/aimd54/gametracker/internal/mattermost"
	"github.com/aimd54/gametracker/internal/service/achievements"
	"github.com/aimd54/gametracker/internal/service/audit"
	"github.com/aimd54/gametracker/internal/service/library"
	"github.com/aimd54/gametracker/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the audit scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(*cfgFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	log.Info().
		Str("environment", cfg.Server.Environment).
		Str("driver", cfg.Database.Driver).
		Msg("Starting game tracker")

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to close store")
		}
	}()

	var statsCache library.StatsCache
	if cfg.Cache.Enabled {
		c := cache.New(&cfg.Database.Redis, cfg.Cache.TTL())
		defer c.Close()
		if err := c.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Statistics cache unreachable; statistics will be computed on every request")
		}
		statsCache = c
	}

	librarySvc := library.NewService(st.games, st.reviews, statsCache, cfg.Library, log)
	if cfg.Library.SeedFile != "" {
		if _, err := librarySvc.SeedFromFile(ctx, cfg.Library.SeedFile); err != nil {
			return err
		}
	}

	achievementSvc := achievements.NewService(librarySvc, cfg.Achievements, log)

	var notifier audit.Notifier
	if client := mattermost.NewClient(&cfg.Mattermost, log.Component("mattermost")); client.Enabled() {
		notifier = client
	}
	auditSvc := audit.NewService(cfg.Audit, librarySvc, achievementSvc, notifier, log)
	if err := auditSvc.Start(); err != nil {
		return err
	}
	defer auditSvc.Stop()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	metricsPath := ""
	if cfg.Metrics.Prometheus.Enabled {
		metricsPath = cfg.Metrics.Prometheus.Path
	}
	handler := api.NewHandler(librarySvc, achievementSvc, auditSvc, st.health, cfg.Library.DefaultTopRatedLimit, log)
	router := api.NewRouter(handler, log, metricsPath)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeout) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
