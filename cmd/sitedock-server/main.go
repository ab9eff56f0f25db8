package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sitedock/sitedock/internal/config"
	"github.com/sitedock/sitedock/internal/domain/admin"
	"github.com/sitedock/sitedock/internal/domain/contacts"
	"github.com/sitedock/sitedock/internal/domain/financial"
	"github.com/sitedock/sitedock/internal/domain/inbox"
	"github.com/sitedock/sitedock/internal/domain/issues"
	"github.com/sitedock/sitedock/internal/domain/portal"
	"github.com/sitedock/sitedock/internal/domain/projects"
	"github.com/sitedock/sitedock/internal/domain/safety"
	"github.com/sitedock/sitedock/internal/platform/ai"
	"github.com/sitedock/sitedock/internal/platform/auth"
	"github.com/sitedock/sitedock/internal/platform/db"
	"github.com/sitedock/sitedock/internal/platform/middleware"
	"github.com/sitedock/sitedock/internal/platform/notify"
)

// SnapshotAdapter builds portal snapshots by aggregating project, financial
// and safety data, avoiding circular imports between those packages and
// the portal package.
type SnapshotAdapter struct {
	projects  *projects.Service
	financial *financial.Service
	safety    *safety.Service
}

// NewSnapshotAdapter creates a new adapter.
func NewSnapshotAdapter(p *projects.Service, f *financial.Service, s *safety.Service) *SnapshotAdapter {
	return &SnapshotAdapter{projects: p, financial: f, safety: s}
}

// BuildSnapshot implements portal.SnapshotBuilder.
func (a *SnapshotAdapter) BuildSnapshot(ctx context.Context, projectID uuid.UUID) (portal.Snapshot, error) {
	var snap portal.Snapshot

	proj, err := a.projects.GetProject(ctx, projectID)
	if err != nil {
		return snap, err
	}
	snap.ProjectName = proj.Name
	snap.ContractValueCents = proj.ContractValueCents

	approved, err := a.financial.ApprovedChangeTotal(ctx, projectID)
	if err != nil {
		return snap, err
	}
	snap.ApprovedChangesCents = approved

	billed, err := a.financial.BilledToDate(ctx, projectID)
	if err != nil {
		return snap, err
	}
	snap.BilledToDateCents = billed

	incidents, _, err := a.safety.ListIncidents(ctx, safety.ListFilter{ProjectID: &projectID}, 1000, 0)
	if err != nil {
		return snap, err
	}
	for _, inc := range incidents {
		if !inc.IsClosed() {
			snap.OpenIncidents++
		}
		if inc.IsOSHARecordable != nil && *inc.IsOSHARecordable {
			snap.RecordableIncidents++
		}
	}

	snap.GeneratedAt = time.Now().UTC()
	return snap, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "sitedock-server",
		Short: "SiteDock construction management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tenantCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
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

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _ := cmd.Flags().GetString("schema")
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
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
			fmt.Printf("Running migrations on schema: %s\n", schema)

			count, err := migrator.Up(ctx, schema)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("schema", "tenant_default", "Target schema for migrations")
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	// migrate status
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _ := cmd.Flags().GetString("schema")
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
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
			statuses, err := migrator.Status(ctx, schema)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("Migration status for schema: %s\n", schema)
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
	statusCmd.Flags().String("schema", "tenant_default", "Target schema for migrations")
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	// migrate down - keep as warning
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Rollback last migration (not supported)",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("WARNING: migrate down is destructive and not supported by the built-in runner.")
			fmt.Println("Restore the schema from a database backup instead.")
			return nil
		},
	})

	return cmd
}

func tenantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage tenants",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new tenant schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			fmt.Printf("Creating tenant schema: tenant_%s\n", name)
			if err := db.CreateTenantSchema(ctx, pool, name, ""); err != nil {
				return err
			}
			fmt.Println("Tenant created successfully. Run migrations with: sitedock-server migrate up --schema tenant_" + name)
			return nil
		},
	}
	createCmd.Flags().String("name", "", "Tenant identifier (alphanumeric)")

	cmd.AddCommand(createCmd)
	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
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
	e.Use(middleware.BodyLimit("1M", "20M"))
	e.Use(middleware.SanitizeWithLogger(logger))
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", "X-Tenant-ID"},
	}))

	// Auth middleware
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:   cfg.AuthIssuer,
			Audience: cfg.AuthAudience,
			JWKSURL:  cfg.AuthJWKSURL,
		}))
	}

	// Tenant middleware
	e.Use(db.TenantMiddleware(pool, cfg.DefaultTenant))

	// Audit middleware
	e.Use(middleware.Audit(logger))

	// API group
	apiV1 := e.Group("/api/v1")

	// Rate limiting middleware
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Outbound integrations
	var notifier notify.Notifier = notify.Nop{}
	if cfg.SlackToken != "" {
		notifier = notify.Multi{notify.NewSlackNotifier(cfg.SlackToken, cfg.SlackChannel, logger)}
		logger.Info().Str("channel", cfg.SlackChannel).Msg("slack notifications enabled")
	}

	var mailer inbox.MailSender
	if cfg.SMTPAddr != "" {
		mailer = notify.NewMailer(cfg.SMTPAddr, cfg.SMTPFrom, nil, logger)
		logger.Info().Str("addr", cfg.SMTPAddr).Msg("smtp delivery enabled")
	}

	var drafter inbox.ReplyDrafter
	if cfg.OpenAIAPIKey != "" {
		drafter = ai.NewAssistant(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
		logger.Info().Str("model", cfg.OpenAIModel).Msg("reply assistant enabled")
	}

	// Admin domain
	adminRepo := admin.NewRepo(pool)
	adminSvc := admin.NewService(adminRepo, logger)
	adminHandler := admin.NewHandler(adminSvc)
	adminHandler.RegisterRoutes(apiV1)
	if err := adminSvc.SeedRoles(ctx); err != nil {
		logger.Warn().Err(err).Msg("role seeding failed")
	}

	// Projects domain
	projectsRepo := projects.NewRepo(pool)
	projectsSvc := projects.NewService(projectsRepo)
	projectsHandler := projects.NewHandler(projectsSvc)
	projectsHandler.RegisterRoutes(apiV1)

	// Contacts domain
	contactsRepo := contacts.NewRepo(pool)
	contactsSvc := contacts.NewService(contactsRepo)
	contactsHandler := contacts.NewHandler(contactsSvc)
	contactsHandler.RegisterRoutes(apiV1)

	// Safety domain
	safetyRepo := safety.NewRepo(pool)
	safetySvc := safety.NewService(safetyRepo, notifier, logger)
	safetyHandler := safety.NewHandler(safetySvc)
	safetyHandler.RegisterRoutes(apiV1)

	// Issues domain
	issuesRepo := issues.NewRepo(pool)
	issuesSvc := issues.NewService(issuesRepo, notifier, logger)
	issuesHandler := issues.NewHandler(issuesSvc)
	issuesHandler.RegisterRoutes(apiV1)

	// Inbox domain
	inboxRepo := inbox.NewRepo(pool)
	inboxSvc := inbox.NewService(inboxRepo, mailer, drafter, logger)
	inboxHandler := inbox.NewHandler(inboxSvc)
	inboxHandler.RegisterRoutes(apiV1)

	// Financial domain
	financialRepo := financial.NewRepo(pool)
	financialSvc := financial.NewService(financialRepo, logger)
	financialHandler := financial.NewHandler(financialSvc)
	financialHandler.RegisterRoutes(apiV1)

	// Portal domain
	portalRepo := portal.NewRepo(pool)
	snapshotBuilder := NewSnapshotAdapter(projectsSvc, financialSvc, safetySvc)
	portalSvc := portal.NewService(portalRepo, snapshotBuilder, notifier, logger)
	portalHandler := portal.NewHandler(portalSvc)
	portalHandler.RegisterRoutes(apiV1)
	portalHandler.RegisterPublicRoutes(e)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		var err error
		if cfg.TLSEnabled {
			err = e.StartTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = e.Start(addr)
		}
		if err != nil && err != http.ErrServerClosed {
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
