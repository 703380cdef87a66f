package main

import (
	"context"
	"log"
	"os"

	"github.com/annisazulfa99/inventaris/cmd"
	"github.com/annisazulfa99/inventaris/internal/core/container"
	"github.com/annisazulfa99/inventaris/internal/core/routes"
	"github.com/annisazulfa99/inventaris/internal/database"
	"github.com/annisazulfa99/inventaris/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	cmd.Execute(ctx)
}

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer db.Close()

	log.Println("Connected to the database successfully!")

	redisClient, err := database.NewRedisClient(os.Getenv("REDIS_ADDR"), os.Getenv("REDIS_PASSWORD"))
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer redisClient.Close()

	appContainer := container.NewAppContainer(db, redisClient)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	appContainer.StatsRefresher.Start(ctx)

	router := gin.Default()
	router.Use(cors.New(routes.CORSConfig()))
	router.Use(middleware.RequestID())
	router.Use(middleware.RecoveryMiddleware())

	routes.RegisterUtilityRoutes(router)
	routes.RegisterPublicRoutes(router, appContainer)
	routes.RegisterProtectedRoutes(router, appContainer)

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		panic(err)
	}
}
