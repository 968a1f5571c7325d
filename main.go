package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/yatrika/server/internal/core"
	"github.com/yatrika/server/internal/planner"
	"github.com/yatrika/server/internal/planner/model"
	"github.com/yatrika/server/internal/planner/tools"
	"github.com/yatrika/server/internal/server"
	"github.com/yatrika/server/internal/trip"
	logx "github.com/yatrika/server/pkg/logger"
	pkgredis "github.com/yatrika/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the service, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `default:"development"`

	// Infrastructure
	Redis pkgredis.Config
	HTTP  server.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Auth
	SessionSecret   string `split_words:"true" required:"true"`
	SessionTTLHours int    `envconfig:"SESSION_TTL_HOURS" default:"24"`
	IdentitySecret  string `split_words:"true" required:"true"`

	// Planner configs
	Planner      model.PlannerModelConfig
	Conversation model.ConversationConfig
	Retry        model.RetryConfig
	Tools        model.ToolsConfig
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	rdb, err := cfg.Redis.New()
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to initialise Redis client")
	}
	defer rdb.Close()
	logx.Info().Msg("Connected to Redis")

	registry := planner.NewRegistry()
	hotelTool := tools.NewHotelPriceTool(tools.HotelPriceConfig{
		APIKey:     cfg.Tools.RapidAPIKey,
		BaseURL:    cfg.Tools.HotelBaseURL,
		HTTPClient: &http.Client{Timeout: time.Duration(cfg.Tools.HotelTimeoutSeconds) * time.Second},
	})
	weatherTool := tools.NewWeatherTool(tools.WeatherConfig{
		APIKey:     cfg.Tools.OpenWeatherKey,
		BaseURL:    cfg.Tools.WeatherBaseURL,
		HTTPClient: &http.Client{Timeout: time.Duration(cfg.Tools.WeatherTimeoutSeconds) * time.Second},
	})
	if err := registry.Register(ctx, hotelTool); err != nil {
		logx.Fatal().Err(err).Msg("Failed to register hotel price tool")
	}
	if err := registry.Register(ctx, weatherTool); err != nil {
		logx.Fatal().Err(err).Msg("Failed to register weather tool")
	}

	chatModel, err := planner.NewGeminiChatModel(ctx, planner.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Planner: cfg.Planner,
	}, registry.Infos())
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to build planner chat model")
	}

	svc := planner.New(chatModel, registry, planner.Config{
		Conversation: cfg.Conversation,
		Retry:        cfg.Retry,
	})

	repo := trip.NewRedisRepository(rdb)
	sessions := server.NewJWTVerifier(cfg.SessionSecret, time.Duration(cfg.SessionTTLHours)*time.Hour)
	identity := server.NewJWTVerifier(cfg.IdentitySecret, 0)

	srv := server.New(cfg.HTTP, svc, repo, identity, sessions)
	if err := srv.ListenAndServe(ctx); err != nil {
		logx.Fatal().Err(err).Msg("HTTP server failed")
	}
	logx.Info().Msg("Server stopped")
}
