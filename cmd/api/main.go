package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-parts-inventory/internal/config"
	"go-parts-inventory/internal/handler"
	"go-parts-inventory/internal/logger"
	"go-parts-inventory/internal/model"
	"go-parts-inventory/internal/repository"
	"go-parts-inventory/internal/service"
	"go-parts-inventory/internal/ws"
	"go-parts-inventory/pkg/database"
	"go-parts-inventory/pkg/jwt"

	"github.com/alitto/pond/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	configFile := flag.String("config", "", "Path to config file")
	envPath := flag.String("env", ".env", "Path to .env file")
	flag.Parse()

	// 1. Load config
	cfg, err := config.Load(*configFile, *envPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Tags:      map[string]string{"service": "parts-api"},
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Flush(2 * time.Second)

	// 2. Setup Database
	ctx := context.Background()
	db, err := database.ConnectDB(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	countPool := pond.NewResultPool[model.PartView](cfg.Inventory.CountWorkers)

	// 4. Dependency Injection (Wiring Layers)
	partRepo := repository.NewPartRepo(db)
	recordRepo := repository.NewPartRecordRepo(db)
	userRepo := repository.NewUserRepo(db)
	assetRepo := repository.NewAssetRepo(db)
	transactor := repository.NewTransactor(db)
	issuer := jwt.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	partService := service.NewPartService(partRepo, recordRepo, transactor, countPool, wsHub, service.PartServiceConfig{
		DefaultLocation: cfg.Inventory.DefaultLocation,
		MaxPageSize:     cfg.Inventory.MaxPageSize,
	})
	invService := service.NewInventoryService(partRepo, recordRepo, userRepo, assetRepo, transactor, wsHub)
	chainService := service.NewChainService(recordRepo, transactor)
	reportService := service.NewReportService(partRepo, recordRepo)
	authService := service.NewAuthService(userRepo, issuer)
	userService := service.NewUserService(userRepo)
	assetService := service.NewAssetService(assetRepo)

	handlers := handler.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Parts:     handler.NewPartHandler(partService),
		Inventory: handler.NewInventoryHandler(invService),
		Records:   handler.NewRecordHandler(chainService),
		Users:     handler.NewUserHandler(userService),
		Assets:    handler.NewAssetHandler(assetService),
		Dashboard: handler.NewDashboardHandler(reportService),
	}

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.Server.AppName,
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS

	// 6. Routes
	handler.SetupRoutes(app, handlers, authService)
	handler.SetupWebSocket(app, wsHub)

	// 7. Graceful Shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logger.Info("server listening", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error(err, zap.String("phase", "shutdown"))
	}
	wsHub.Stop()
	countPool.StopAndWait()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("server exited")
}
