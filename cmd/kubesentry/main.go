package main

import (
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kubesentry-dev/kubesentry/db"
	"github.com/kubesentry-dev/kubesentry/internal/router"
	"github.com/kubesentry-dev/kubesentry/internal/store"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, reading configuration from environment")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	gdb, err := db.Connect(dsn)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.Migrate(gdb); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	r := router.NewRouter(store.New(gdb), logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
		logger.Info("PORT not set, defaulting to 8000")
	}

	if err := r.Run(":" + port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
