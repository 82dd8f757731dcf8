package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/GThiruAishwarya/kristaball/cmd"
	"github.com/GThiruAishwarya/kristaball/internal/core/container"
	"github.com/GThiruAishwarya/kristaball/internal/core/logger"
	"github.com/GThiruAishwarya/kristaball/internal/core/routes"
	"github.com/GThiruAishwarya/kristaball/internal/database"
	"github.com/GThiruAishwarya/kristaball/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}
}

func main() {
	if len(os.Args) > 1 {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		cmd.Execute(ctx)
		return
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer db.Close()

	log.Println("Connected to the database successfully!")

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := database.RunMigrations(logger.NewLogger(), "./migrations"); err != nil {
			log.Fatalf("Migration error: %v", err)
		}
	}

	appContainer := container.NewAppContainer(db)

	router := gin.Default()
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.TimeoutMiddleware(30 * time.Second))

	routes.RegisterRoutes(router, appContainer)
	routes.RegisterUtilityRoutes(router)

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		panic(err)
	}
}
