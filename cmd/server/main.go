package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/scrawlgame/scrawl/internal/common/clock"
	"github.com/scrawlgame/scrawl/internal/handlers/ws"
	"github.com/scrawlgame/scrawl/internal/repositories/wordpack"
	"github.com/scrawlgame/scrawl/internal/services/announcer"
	"github.com/scrawlgame/scrawl/internal/services/room"
	"github.com/scrawlgame/scrawl/internal/shuffle"
)

func main() {
	// A missing .env file is fine in production, the environment is set
	// by the deployment
	_ = godotenv.Load()

	logger := newLogger()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}

	wordRepo, err := wordpack.NewRedis(&wordpack.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create word pack repository")
	}

	if err := wordpack.EnsureDefaultPack(ctx, wordRepo); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed default word pack")
	}

	roomService, err := room.New(&room.Config{
		WordPackRepo: wordRepo,
		Clock:        clock.New(),
		Shuffler:     shuffle.New(&shuffle.Config{Seed: time.Now().UnixNano()}),
		Logger:       logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create room service")
	}

	announcerService, err := announcer.New(&announcer.Config{})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create announcer service")
	}

	allowedOrigins := splitList(getEnv("ALLOWED_ORIGINS", ""))

	handler, err := ws.NewHandler(&ws.Config{
		RoomService:    roomService,
		Announcer:      announcerService,
		Logger:         logger,
		AllowedOrigins: allowedOrigins,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create websocket handler")
	}

	if getEnv("GIN_MODE", "") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	engine.Use(cors.New(corsConfig))

	handler.RegisterRoutes(engine)

	server := &http.Server{
		Addr:    getEnv("HTTP_ADDR", ":8080"),
		Handler: engine,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error shutting down server")
	}

	logger.Info().Msg("server has been shut down")
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	if getEnv("LOG_PRETTY", "") != "" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return logger
}

// splitList parses a comma-separated env value, dropping empty entries
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
