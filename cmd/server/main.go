package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/kessel-run/starwars-api/internal/config"
	"github.com/kessel-run/starwars-api/internal/handlers/api"
	"github.com/kessel-run/starwars-api/internal/repositories/characters"
	characterService "github.com/kessel-run/starwars-api/internal/services/character"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Keep Redis client for cleanup
	var redisClient *redis.Client

	var repo characterService.Repository

	// Try to connect to Redis if a URL is provided
	if cfg.Redis.URL != "" {
		log.Printf("Connecting to Redis at: %s", cfg.Redis.URL)

		opts, parseErr := redis.ParseURL(cfg.Redis.URL)
		if parseErr != nil {
			log.Printf("Failed to parse Redis URL: %v", parseErr)
		} else {
			redisClient = redis.NewClient(opts)
		}
	} else {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		pingErr := redisClient.Ping(ctx).Err()
		cancel()

		if pingErr != nil {
			log.Printf("Failed to connect to Redis: %v", pingErr)
			log.Println("Falling back to in-memory repository")
			_ = redisClient.Close()
			redisClient = nil
		} else {
			log.Println("Successfully connected to Redis")
			repo = characters.NewRedis(redisClient)
			log.Println("Using Redis for persistence")
		}
	}

	if repo == nil {
		repo = characters.NewInMemoryRepository()
		log.Println("Using in-memory repository; data will not survive a restart")
	}

	svc := characterService.NewService(&characterService.ServiceConfig{
		Repository: repo,
	})

	handler := api.NewHandler(&api.HandlerConfig{
		CharacterService: svc,
		Prefix:           cfg.Server.APIPrefix,
		AppName:          config.AppName,
		AppVersion:       config.Version,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Listening on %s (prefix %s)", server.Addr, cfg.Server.APIPrefix)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("Server error: %v", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		} else {
			log.Println("Closed Redis connection")
		}
	}
}
