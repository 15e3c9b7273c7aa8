package main

import (
	"flag"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/valentinaclaros/evaluation-system/internal/config"
	"github.com/valentinaclaros/evaluation-system/internal/repository"
	"github.com/valentinaclaros/evaluation-system/internal/server"
)

func main() {
	cfgPath := flag.String("config", "configs/config.yml", "path to the configuration file")
	migrationsPath := flag.String("migrations", "migrations/tracker", "path to the tracker migrations")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	db, err := repository.NewPostgresDB(cfg.Database.TrackerURL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	repository.MigrateDB(db, *migrationsPath, logger)

	srv := server.NewServer(db, logger)
	if err := srv.Run(cfg.Server.Port); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
