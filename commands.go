package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rental-backend/config"
	"rental-backend/routes"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// bootstrap loads configuration, installs the process logger and opens the
// database.
func bootstrap(envFile string) (*config.AppConfig, *slog.Logger, *gorm.DB, error) {
	cfg := config.LoadConfig(envFile)

	logger := utils.NewLogger(os.Stdout, cfg.Log.Level, cfg.Log.Format).With("app", cfg.AppName)
	slog.SetDefault(logger)

	db, err := config.ConnectDatabase(cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect database: %w", err)
	}
	logger.Info("database ready", "driver", cfg.Database.Driver)
	return cfg, logger, db, nil
}

func serveCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*envFile)
		},
	}
}

func runServe(envFile string) error {
	cfg, logger, db, err := bootstrap(envFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.SeedOnStart {
		n, err := config.SeedDatabase(db)
		if err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
		logger.Info("sample data seeded", "properties", n)
	}

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.Build(db, cfg, logger)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-quit:
	}
	logger.Info("shutdown signal received, shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("server stopped gracefully")
	return nil
}

func migrateCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			// ConnectDatabase already migrates.
			_, logger, _, err := bootstrap(*envFile)
			if err != nil {
				return err
			}
			logger.Info("schema up to date")
			return nil
		},
	}
}

func seedCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo host and sample properties",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, db, err := bootstrap(*envFile)
			if err != nil {
				return err
			}
			n, err := config.SeedDatabase(db)
			if err != nil {
				return err
			}
			logger.Info("sample data seeded", "properties", n)
			return nil
		},
	}
}

func completeStaysCmd(envFile *string) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "complete-stays",
		Short: "Mark confirmed reservations whose check-out has passed as completed",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now().UTC()
			if date != "" {
				t, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid --date %q: %w", date, err)
				}
				now = t
			}

			cfg, logger, db, err := bootstrap(*envFile)
			if err != nil {
				return err
			}
			svc := services.NewReservationService(db, cfg.AllowOverlappingBookings)
			n, err := svc.CompleteFinishedStays(now)
			if err != nil {
				return err
			}
			logger.Info("stays completed", "count", n, "as_of", now.Format("2006-01-02"))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "treat this day (YYYY-MM-DD) as today")
	return cmd
}
