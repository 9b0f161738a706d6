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

	"github.com/careops/careops/internal/config"
	"github.com/careops/careops/internal/domain/appointment"
	"github.com/careops/careops/internal/domain/availability"
	"github.com/careops/careops/internal/domain/booking"
	"github.com/careops/careops/internal/domain/network"
	"github.com/careops/careops/internal/domain/provider"
	"github.com/careops/careops/internal/platform/cache"
	"github.com/careops/careops/internal/platform/db"
	"github.com/careops/careops/internal/platform/ehr"
	"github.com/careops/careops/internal/platform/middleware"
)

var migrationsDir = "migrations"

func main() {
	root := &cobra.Command{
		Use:   "careops-server",
		Short: "Clinic scheduling and payer network API",
	}
	root.PersistentFlags().StringVar(&migrationsDir, "migrations", "migrations", "path to SQL migrations")

	root.AddCommand(serveCmd(), migrateCmd(), tenantCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "careops").Logger()
	if cfg.IsDev() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}
	return logger
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := newLogger(cfg)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()
			logger.Info().Msg("database pool ready")

			var apptCache *cache.Cache
			if cfg.RedisURL != "" {
				apptCache, err = cache.New(ctx, cfg.RedisURL, time.Duration(cfg.EHRCacheTTL)*time.Second)
				if err != nil {
					logger.Warn().Err(err).Msg("redis unavailable, running without calendar cache")
				}
			}
			defer apptCache.Close()

			var calendar ehr.CalendarSource = ehr.NewClient(cfg.EHRBaseURL, cfg.EHRAPIKey,
				time.Duration(cfg.EHRTimeout)*time.Second, logger)
			calendar = ehr.NewCachedSource(calendar, apptCache)

			providerRepo := provider.NewRepoPG(pool)
			networkRepo := network.NewRepoPG(pool)
			availabilityRepo := availability.NewRepoPG(pool)
			appointmentRepo := appointment.NewRepoPG(pool)

			providerSvc := provider.NewService(providerRepo)
			networkSvc := network.NewService(networkRepo)
			availabilitySvc := availability.NewService(availabilityRepo)
			appointmentSvc := appointment.NewService(appointmentRepo)

			conflictFilter := booking.NewConflictFilter(appointmentRepo, calendar, logger)
			bookingSvc := booking.NewService(providerRepo, networkSvc, availabilitySvc, conflictFilter,
				cfg.DefaultSlotMinutes, cfg.SlotBufferMinutes, logger)

			e := echo.New()
			e.HideBanner = true
			e.HidePort = true

			e.Use(middleware.RequestID())
			e.Use(middleware.Logger(logger))
			e.Use(middleware.Recovery(logger))
			e.Use(middleware.RequestTimeout(time.Duration(cfg.RequestTimeout) * time.Second))
			e.Use(middleware.RateLimit(middleware.RateLimitConfig{
				RequestsPerSecond: cfg.RateLimitRPS,
				BurstSize:         cfg.RateLimitBurst,
			}))
			e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
				AllowOrigins: cfg.CORSOrigins,
				AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, "X-Tenant-ID", "X-Request-ID"},
			}))
			e.Use(middleware.Audit(logger))

			e.GET("/health", db.HealthHandler(pool))

			apiV1 := e.Group("/api/v1", db.TenantMiddleware(pool, cfg.DefaultTenant))
			provider.NewHandler(providerSvc).RegisterRoutes(apiV1)
			network.NewHandler(networkSvc).RegisterRoutes(apiV1)
			availability.NewHandler(availabilitySvc).RegisterRoutes(apiV1)
			appointment.NewHandler(appointmentSvc).RegisterRoutes(apiV1)
			booking.NewHandler(bookingSvc).RegisterRoutes(apiV1)

			go func() {
				logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
				if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()

			<-ctx.Done()
			logger.Info().Msg("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}
}

func migrateCmd() *cobra.Command {
	var tenant string
	var statusOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations to a tenant schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			if tenant == "" {
				tenant = cfg.DefaultTenant
			}
			schema := "tenant_" + tenant

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, migrationsDir)
			if statusOnly {
				statuses, err := migrator.Status(ctx, schema)
				if err != nil {
					return err
				}
				for _, s := range statuses {
					state := "pending"
					if s.Applied {
						state = "applied " + s.AppliedAt.Format(time.RFC3339)
					}
					fmt.Printf("%03d %-40s %s\n", s.Version, s.Name, state)
				}
				return nil
			}

			applied, err := migrator.Up(ctx, schema)
			if err != nil {
				return err
			}
			logger.Info().Int("applied", applied).Str("schema", schema).Msg("migrations complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&tenant, "tenant", "", "tenant to migrate (default: DEFAULT_TENANT)")
	cmd.Flags().BoolVar(&statusOnly, "status", false, "show migration status instead of applying")
	return cmd
}

func tenantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Tenant administration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "create <tenant-id>",
		Short: "Create a tenant schema and run migrations against it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.CreateTenantSchema(ctx, pool, args[0], migrationsDir); err != nil {
				return err
			}
			logger.Info().Str("tenant", args[0]).Msg("tenant schema ready")
			return nil
		},
	})
	return cmd
}
