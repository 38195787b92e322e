package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/asset-tracking/api"
	"github.com/frahmantamala/asset-tracking/internal"
	"github.com/frahmantamala/asset-tracking/internal/analysis"
	analysisPostgres "github.com/frahmantamala/asset-tracking/internal/analysis/postgres"
	"github.com/frahmantamala/asset-tracking/internal/attachment"
	"github.com/frahmantamala/asset-tracking/internal/auth"
	"github.com/frahmantamala/asset-tracking/internal/calibration"
	calibrationPostgres "github.com/frahmantamala/asset-tracking/internal/calibration/postgres"
	"github.com/frahmantamala/asset-tracking/internal/core/events"
	"github.com/frahmantamala/asset-tracking/internal/loan"
	loanPostgres "github.com/frahmantamala/asset-tracking/internal/loan/postgres"
	"github.com/frahmantamala/asset-tracking/internal/report"
	"github.com/frahmantamala/asset-tracking/internal/stock"
	stockPostgres "github.com/frahmantamala/asset-tracking/internal/stock/postgres"
	"github.com/frahmantamala/asset-tracking/internal/tool"
	toolPostgres "github.com/frahmantamala/asset-tracking/internal/tool/postgres"
	"github.com/frahmantamala/asset-tracking/internal/transport"
	"github.com/frahmantamala/asset-tracking/internal/transport/rest"
	"github.com/frahmantamala/asset-tracking/internal/user"
	userPostgres "github.com/frahmantamala/asset-tracking/internal/user/postgres"
	"github.com/frahmantamala/asset-tracking/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *Database
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "driver", deps.Config.Database.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.Setup(os.Stdout, config.Logging.Format, config.Logging.Level)

	ctx, cancel := internal.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := api.Load(ctx); err != nil {
		return nil, err
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	router := chi.NewRouter()
	if err := wireServices(ctx, config, db, router, log); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Dependencies{
		Config: config,
		DB:     db,
		Router: router,
		Logger: log,
	}, nil
}

func wireServices(ctx context.Context, cfg *internal.Config, db *Database, router *chi.Mux, log *slog.Logger) error {
	store, err := attachment.NewLocalStore(cfg.Storage.Root, log)
	if err != nil {
		return fmt.Errorf("failed to prepare upload directories: %w", err)
	}
	generator := report.NewGenerator(cfg.Organization.Name)
	eventBus := events.NewEventBus(log)

	userRepo := userPostgres.NewUserRepository(db.ORM)
	userService := user.NewService(userRepo, cfg.Security.BCryptCost, log)
	created, err := userService.EnsureUser(ctx,
		cfg.Bootstrap.AdminUsername,
		cfg.Bootstrap.AdminPassword,
		internal.RoleAdmin,
		cfg.Bootstrap.AdminFullName)
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}
	if created {
		log.Warn("default admin account created, change its password", "username", cfg.Bootstrap.AdminUsername)
	}

	authService := auth.NewService(userRepo, auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.TokenDuration), log)

	toolService := tool.NewService(toolPostgres.NewToolRepository(db.ORM), store, generator, log)
	tool.NewEventHandler(toolService, log).RegisterEventHandlers(eventBus)

	calibrationService := calibration.NewService(calibrationPostgres.NewCalibrationRepository(db.ORM), eventBus, log)
	loanService := loan.NewService(loanPostgres.NewLoanRepository(db.ORM), generator, log)
	stockService := stock.NewService(stockPostgres.NewStockRepository(db.ORM), store, log)
	analysisService := analysis.NewService(analysisPostgres.NewAnalysisRepository(db.SQL), log)

	maxUpload := cfg.Storage.MaxUploadBytes()
	base := transport.NewBaseHandler(log)
	rest.RegisterAllRoutes(router, db.SQL.DB, auth.NewGate(auth.DefaultPolicy(), log), rest.Handlers{
		Auth:        auth.NewHandler(base, authService),
		User:        user.NewHandler(base),
		Tool:        tool.NewHandler(base, toolService, maxUpload),
		Loan:        loan.NewHandler(base, loanService),
		Calibration: calibration.NewHandler(base, calibrationService),
		Stock:       stock.NewHandler(base, stockService, maxUpload),
		Analysis:    analysis.NewHandler(base, analysisService),
	}, rest.Options{
		AllowedOrigins: cfg.Server.Origins(),
		Driver:         cfg.Database.Driver,
		Logger:         log,
	})
	return nil
}
