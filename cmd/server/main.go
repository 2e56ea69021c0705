package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "hiddenspots/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"hiddenspots/internal/auth"
	"hiddenspots/internal/cache"
	"hiddenspots/internal/config"
	"hiddenspots/internal/db"
	"hiddenspots/internal/handler"
	"hiddenspots/internal/model"
	"hiddenspots/internal/repository"
	"hiddenspots/internal/router"
	"hiddenspots/internal/service"
)

// @title Hidden Spots API
// @version 1.0
// @description Location-based discovery API: geotagged spots with ratings, comments and moderation.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e := echo.New()
	e.Use(middleware.RequestID())

	// Spot store: connect before serving, disconnect on shutdown.
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	mongoClient, err := db.NewMongo(connectCtx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("mongo init: %v", err)
	}
	mongoDB := mongoClient.Database(cfg.MongoDB)
	if err := db.EnsureSpotIndexes(connectCtx, mongoDB); err != nil {
		log.Fatalf("mongo indexes: %v", err)
	}

	// User store.
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	spotRepo := repository.NewSpotRepository(mongoDB)
	userRepo := repository.NewUserRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	spotService := service.NewSpotService(spotRepo, cacheClient)
	moderationService := service.NewModerationService(spotRepo, cacheClient)
	imageStore, err := service.NewImageStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("image store init: %v", err)
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	spotHandler := handler.NewSpotHandler(spotService, imageStore)
	moderationHandler := handler.NewModerationHandler(moderationService)

	// Register routes
	router.Register(e, cfg, authHandler, spotHandler, moderationHandler)

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Printf("mongo disconnect: %v", err)
	}
}
