package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medibloom/api/internal/config"
	"github.com/medibloom/api/internal/domain/gate"
	"github.com/medibloom/api/internal/domain/identity"
	"github.com/medibloom/api/internal/domain/records"
	"github.com/medibloom/api/internal/domain/report"
	"github.com/medibloom/api/internal/domain/scheduling"
	"github.com/medibloom/api/internal/domain/summary"
	"github.com/medibloom/api/internal/platform/auth"
	"github.com/medibloom/api/internal/platform/db"
	"github.com/medibloom/api/internal/platform/middleware"
	"github.com/medibloom/api/internal/platform/video"
	"github.com/medibloom/api/internal/platform/websocket"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "medibloom-server",
		Short: "MediBloom patient health API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads the environment configuration and refuses unsafe setups
// before any component is built. Outside development this rejects a missing
// or weak JWT secret, so the server never signs session tokens it cannot
// stand behind.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth plumbing
	issuer := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.SessionTTL())
	broker := auth.NewBroker()
	hub := websocket.NewHub()

	// Repositories
	patientRepo := identity.NewPatientRepoPG(pool)
	detailsRepo := identity.NewDetailsRepoPG(pool)
	sessionRepo := identity.NewSessionRepoPG(pool)
	vitalRepo := records.NewVitalRepoPG(pool)
	symptomRepo := records.NewSymptomRepoPG(pool)
	medicationRepo := records.NewMedicationRepoPG(pool)
	clinicRepo := scheduling.NewClinicRepoPG(pool)
	appointmentRepo := scheduling.NewAppointmentRepoPG(pool)

	// Services
	identitySvc := identity.NewService(patientRepo, detailsRepo, sessionRepo, issuer, broker, logger)
	gateSvc := gate.NewService(identitySvc, identitySvc, logger)
	recordsSvc := records.NewService(vitalRepo, symptomRepo, medicationRepo)
	schedulingSvc := scheduling.NewService(clinicRepo, appointmentRepo, logger)
	summarySvc := summary.NewService(recordsSvc, schedulingSvc, logger)
	reportSvc := report.NewService(identitySvc, recordsSvc)
	videoSvc := video.NewService(cfg.VideoAccountSID, cfg.VideoAPIKey, cfg.VideoAPISecret, cfg.VideoTokenTTL())

	// API groups
	api := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	api.Use(middleware.RateLimit(rateLimitCfg))

	protected := api.Group("", auth.Middleware(issuer, identitySvc))

	// Routes
	identity.NewHandler(identitySvc).RegisterRoutes(api, protected)
	gate.NewHandler(gateSvc, identitySvc, broker, hub, logger).RegisterRoutes(protected)
	records.NewHandler(recordsSvc).RegisterRoutes(protected)
	scheduling.NewHandler(schedulingSvc).RegisterRoutes(protected)
	summary.NewHandler(summarySvc).RegisterRoutes(protected)
	report.NewHandler(reportSvc).RegisterRoutes(protected)
	video.NewHandler(videoSvc).RegisterRoutes(protected)

	if !videoSvc.Configured() {
		logger.Warn().Msg("video credentials not set, token endpoint will refuse requests")
	}

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
