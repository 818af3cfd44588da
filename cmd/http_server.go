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
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/peopleops/hr-platform/internal"
	"github.com/peopleops/hr-platform/internal/auth"
	authpostgres "github.com/peopleops/hr-platform/internal/auth/postgres"
	"github.com/peopleops/hr-platform/internal/chat"
	"github.com/peopleops/hr-platform/internal/core/events"
	"github.com/peopleops/hr-platform/internal/department"
	departmentpostgres "github.com/peopleops/hr-platform/internal/department/postgres"
	"github.com/peopleops/hr-platform/internal/document"
	documentpostgres "github.com/peopleops/hr-platform/internal/document/postgres"
	"github.com/peopleops/hr-platform/internal/employee"
	employeepostgres "github.com/peopleops/hr-platform/internal/employee/postgres"
	"github.com/peopleops/hr-platform/internal/expense"
	expensepostgres "github.com/peopleops/hr-platform/internal/expense/postgres"
	"github.com/peopleops/hr-platform/internal/leave"
	leavepostgres "github.com/peopleops/hr-platform/internal/leave/postgres"
	"github.com/peopleops/hr-platform/internal/notification"
	notificationpostgres "github.com/peopleops/hr-platform/internal/notification/postgres"
	"github.com/peopleops/hr-platform/internal/promotion"
	promotionpostgres "github.com/peopleops/hr-platform/internal/promotion/postgres"
	"github.com/peopleops/hr-platform/internal/transport/middleware"
	"github.com/peopleops/hr-platform/internal/transport/rest"
	"github.com/peopleops/hr-platform/internal/user"
	userpostgres "github.com/peopleops/hr-platform/internal/user/postgres"
	"github.com/peopleops/hr-platform/pkg/logger"
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
	Config     *internal.Config
	DB         *sqlx.DB
	GormDB     *gorm.DB
	Router     *chi.Mux
	Handlers   rest.Handlers
	Guard      *middleware.Guard
	ChatClient *chat.Client
	Logger     *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Handlers, deps.Guard,
		deps.Config.Server.AllowedOrigins, deps.Logger)

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
		if deps.ChatClient != nil {
			deps.ChatClient.Shutdown()
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

	logger.Init(config.Logging.Level, config.Logging.Format)
	log := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	bus := events.NewEventBus(log)

	// repositories
	authRepo := authpostgres.NewRepository(gormDB)
	userRepo := userpostgres.NewUserRepository(gormDB)
	employeeRepo := employeepostgres.NewEmployeeRepository(gormDB)
	departmentRepo := departmentpostgres.NewDepartmentRepository(gormDB)
	promotionRepo := promotionpostgres.NewPromotionRepository(gormDB)
	leaveRepo := leavepostgres.NewLeaveRepository(gormDB)
	expenseRepo := expensepostgres.NewExpenseRepository(gormDB)
	documentRepo := documentpostgres.NewDocumentRepository(gormDB)
	notificationRepo := notificationpostgres.NewNotificationRepository(gormDB)

	// chat provider is optional; an empty API URL disables the surface
	var chatClient *chat.Client
	if config.Chat.APIURL != "" {
		chatClient = chat.NewClient(chat.Config{
			APIURL:    config.Chat.APIURL,
			APIKey:    config.Chat.APIKey,
			APISecret: config.Chat.APISecret,
			TokenTTL:  config.Chat.TokenTTL,
			Timeout:   config.Chat.Timeout,
		}, log)
	}

	// services
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGen, log)

	var chatDir user.ChatDirectory
	if chatClient != nil {
		chatDir = chatClient
	}
	userService := user.NewService(userRepo, chatDir, config.Security.BCryptCost, log)

	promotionService := promotion.NewService(promotionRepo, bus, log)
	employeeService := employee.NewService(employeeRepo, departmentRepo, log)
	departmentService := department.NewService(departmentRepo, employeeRepo, promotionService, bus, log)
	leaveService := leave.NewService(leaveRepo, bus, log)
	expenseService := expense.NewService(expenseRepo, bus, log)
	documentService := document.NewService(documentRepo, document.NewFileStorage(config.Storage.BasePath), log)
	notificationService := notification.NewService(notificationRepo, log)

	notification.NewEventHandler(notificationService, log).Register(bus)

	handlers := rest.Handlers{
		Auth:         auth.NewHandler(authService),
		User:         user.NewHandler(userService),
		Employee:     employee.NewHandler(employeeService),
		Department:   department.NewHandler(departmentService),
		Leave:        leave.NewHandler(leaveService),
		Expense:      expense.NewHandler(expenseService),
		Promotion:    promotion.NewHandler(promotionService),
		Document:     document.NewHandler(documentService),
		Notification: notification.NewHandler(notificationService),
	}
	if chatClient != nil {
		handlers.Chat = chat.NewHandler(chatClient)
	}

	return &Dependencies{
		Config:     config,
		DB:         db,
		GormDB:     gormDB,
		Router:     chi.NewRouter(),
		Handlers:   handlers,
		Guard:      middleware.NewGuard(log),
		ChatClient: chatClient,
		Logger:     log,
	}, nil
}

// initDB opens the pgx-backed connection pool shared by the ORM and the
// health check.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
