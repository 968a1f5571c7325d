package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	gocache "github.com/patrickmn/go-cache"

	logx "github.com/yatrika/server/pkg/logger"
)

const ToolWeather = "get_todays_weather"

// DefaultWeatherCacheTTL bounds how long a successful lookup is reused.
// Current conditions do not move faster than this within one conversation.
const DefaultWeatherCacheTTL = 10 * time.Minute

// WeatherConfig configures the weather lookup executor.
type WeatherConfig struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	CacheTTL   time.Duration
}

// WeatherInput is the argument shape the model supplies.
type WeatherInput struct {
	Destination string `json:"destination"`
}

type weatherLookup struct {
	cfg   WeatherConfig
	cache *gocache.Cache
}

// NewWeatherTool builds the current-conditions executor. Unlike the price
// lookup this tool reports failures as an error-shaped payload: weather
// absence is itself a signal the model can reason about, so it must reach the
// conversation rather than being papered over with a default.
func NewWeatherTool(cfg WeatherConfig) tool.BaseTool {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultWeatherCacheTTL
	}
	l := &weatherLookup{
		cfg:   cfg,
		cache: gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
	}

	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolWeather,
			Desc: "Gets the current weather forecast for a specific city in India. Use this to make real-time adjustments to a travel plan.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"destination": {
					Type:     "string",
					Desc:     "The city name, e.g., 'Mumbai'.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *WeatherInput) (map[string]any, error) {
			return l.current(ctx, in.Destination), nil
		},
	)
}

type weatherResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}

// current never returns an error past the tool boundary; failures become an
// {"error": reason} payload.
func (l *weatherLookup) current(ctx context.Context, destination string) map[string]any {
	if l.cfg.APIKey == "" {
		logx.Warn().Msg("Weather API key not configured")
		return map[string]any{"error": "Weather service is not configured."}
	}

	key := strings.ToLower(strings.TrimSpace(destination))
	if cached, found := l.cache.Get(key); found {
		return cached.(map[string]any)
	}

	report, err := l.fetch(ctx, destination)
	if err != nil {
		logx.Warn().Err(err).Str("destination", destination).Msg("Weather lookup degraded")
		return map[string]any{"error": fmt.Sprintf("Could not retrieve weather: %v", err)}
	}

	l.cache.Set(key, report, gocache.DefaultExpiration)
	logx.Debug().Str("destination", destination).Msg("Weather lookup succeeded")
	return report
}

func (l *weatherLookup) fetch(ctx context.Context, destination string) (map[string]any, error) {
	q := url.Values{}
	q.Set("q", destination)
	q.Set("appid", l.cfg.APIKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.cfg.BaseURL+"/data/2.5/weather?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := l.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("weather api status %d", resp.StatusCode)
	}

	var data weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}

	condition, description := "Unknown", "No description"
	if len(data.Weather) > 0 {
		if data.Weather[0].Main != "" {
			condition = data.Weather[0].Main
		}
		if data.Weather[0].Description != "" {
			description = data.Weather[0].Description
		}
	}

	return map[string]any{
		"condition":           condition,
		"description":         fmt.Sprintf("Current condition is %s", description),
		"temperature_celsius": data.Main.Temp,
	}, nil
}
