package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/fbettencourt22/printcost-engine/pkg/auth"
	"github.com/fbettencourt22/printcost-engine/pkg/config"
	"github.com/fbettencourt22/printcost-engine/pkg/database"
	"github.com/fbettencourt22/printcost-engine/pkg/handlers"
	"github.com/fbettencourt22/printcost-engine/pkg/logging"
	"github.com/fbettencourt22/printcost-engine/pkg/middleware"
	"github.com/fbettencourt22/printcost-engine/pkg/repositories"
	"github.com/fbettencourt22/printcost-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("bind_addr", cfg.BindAddr),
		zap.String("port", cfg.Port),
		zap.String("database", cfg.Database.Database),
		zap.String("database_host", cfg.Database.Host))

	ctx := context.Background()

	// Migrations run over database/sql; the application itself uses pgxpool.
	migrationDB, err := sql.Open("pgx", cfg.Database.URL())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(migrationDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := migrationDB.Close(); err != nil {
		logger.Warn("Failed to close migration connection", zap.Error(err))
	}

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.URL(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	tariffs, err := cfg.Pricing.Tariffs()
	if err != nil {
		logger.Fatal("Invalid pricing configuration", zap.Error(err))
	}

	pieceRepo := repositories.NewPieceRepository(db)
	filamentRepo := repositories.NewFilamentRepository(db)
	inventoryRepo := repositories.NewInventoryRepository(db)

	pieceService := services.NewPieceService(pieceRepo, filamentRepo, tariffs, logger)
	filamentService := services.NewFilamentService(filamentRepo, logger)
	inventoryService := services.NewInventoryService(inventoryRepo, pieceRepo, logger)
	importerService := services.NewImporterService(pieceRepo, tariffs, logger)
	exporterService := services.NewExporterService(pieceRepo, logger)
	dashboardService := services.NewDashboardService(pieceRepo, filamentRepo, inventoryRepo)

	authService := auth.NewService(cfg.Auth.JWTSigningKey)
	authMiddleware := auth.NewMiddleware(authService, logger)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(cfg, logger)
	healthHandler.RegisterRoutes(mux)

	pieceHandler := handlers.NewPieceHandler(pieceService, logger)
	pieceHandler.RegisterRoutes(mux, authMiddleware)

	inventoryHandler := handlers.NewInventoryHandler(inventoryService, logger)
	inventoryHandler.RegisterRoutes(mux, authMiddleware)

	filamentHandler := handlers.NewFilamentHandler(filamentService, logger)
	filamentHandler.RegisterRoutes(mux, authMiddleware)

	importExportHandler := handlers.NewImportExportHandler(importerService, exporterService, logger)
	importExportHandler.RegisterRoutes(mux, authMiddleware)

	dashboardHandler := handlers.NewDashboardHandler(dashboardService, logger)
	dashboardHandler.RegisterRoutes(mux, authMiddleware)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting printcost-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
