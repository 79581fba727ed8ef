package main

import (
	"fmt"

	"homeplanner/internal/config"
	"homeplanner/internal/database"
	"homeplanner/internal/logger"
	"homeplanner/internal/server"
	"homeplanner/internal/validator"
)

// @title           Home Planner API
// @version         1.0
// @description     Plan household purchases: items, purchase links, categories, tags and budgets.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

func main() {
	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg := config.Get()

	logger.Init(cfg.Env)
	defer logger.Sync()
	log := logger.Named("api")

	validator.Register()

	dbManager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("failed to close database: %v", err)
		}
	}()

	if err := dbManager.RunMigrations(database.DefaultMigrationsPath); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	router := server.NewRouter(server.NewServices(dbManager.DB(), cfg), cfg)

	log.Infof("Starting Home Planner API on port %s", cfg.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
	return router.Run(":" + cfg.Port)
}
