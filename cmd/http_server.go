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

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ramishka-devx/inquiry-system-api/internal"
	"github.com/ramishka-devx/inquiry-system-api/internal/auth"
	"github.com/ramishka-devx/inquiry-system-api/internal/category"
	categoryPostgres "github.com/ramishka-devx/inquiry-system-api/internal/category/postgres"
	"github.com/ramishka-devx/inquiry-system-api/internal/complaint"
	complaintPostgres "github.com/ramishka-devx/inquiry-system-api/internal/complaint/postgres"
	"github.com/ramishka-devx/inquiry-system-api/internal/transport"
	"github.com/ramishka-devx/inquiry-system-api/internal/transport/rest"
	"github.com/ramishka-devx/inquiry-system-api/internal/transport/swagger"
	"github.com/ramishka-devx/inquiry-system-api/internal/user"
	userPostgres "github.com/ramishka-devx/inquiry-system-api/internal/user/postgres"
	"github.com/ramishka-devx/inquiry-system-api/pkg/logger"
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
	DB     *sqlx.DB
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
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Env)
	log := logger.L()

	if err := swagger.ValidateDocument("./api/openapi.yml"); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	base := transport.NewBaseHandler(log)

	userRepo := userPostgres.NewRepository(gormDB)
	userService := user.NewService(userRepo, config.Security.BCryptCost, log)
	userHandler := user.NewHandler(base, userService)

	tokenGen := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.TokenDuration)
	authService := auth.NewService(userService, tokenGen, log)
	authHandler := auth.NewHandler(authService)

	categoryRepo := categoryPostgres.NewRepository(gormDB)
	categoryService := category.NewService(categoryRepo, log)
	categoryHandler := category.NewHandler(base, categoryService)

	complaintRepo := complaintPostgres.NewRepository(gormDB)
	complaintService := complaint.NewService(complaintRepo, log)
	complaintHandler := complaint.NewHandler(base, complaintService)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, authHandler, userHandler, categoryHandler, complaintHandler, log)

	return &Dependencies{
		Config: config,
		DB:     db,
		Router: router,
		Logger: log,
	}, nil
}

// initDB opens the pooled pgx connection shared by health checks and gorm.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	dbConn, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers gorm over the existing connection so repositories and the
// health check share one pool.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
}
