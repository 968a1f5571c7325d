package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/yatrika/server/internal/planner/model"
	"github.com/yatrika/server/internal/planner/tools"
)

//go:embed template/plan_prompt.txt
var planPrompt string

//go:embed template/regenerate_prompt.txt
var regeneratePrompt string

//go:embed template/weather_adjust_prompt.txt
var weatherAdjustPrompt string

// RenderPlan renders the initial planning prompt for a trip request.
func RenderPlan(ctx context.Context, req model.TripRequest) (string, error) {
	return render(ctx, planPrompt, map[string]any{
		"PriceTool":      tools.ToolHotelPrice,
		"Source":         req.Source,
		"Destination":    req.Destination,
		"Budget":         req.BudgetINR,
		"StartDate":      req.StartDate,
		"ReturnDate":     req.ReturnDate,
		"Interests":      strings.Join(req.Interests, ", "),
		"TransportMode":  req.TransportMode,
		"Language":       languageOrDefault(req.Language),
		"AdditionalReqs": req.AdditionalReqs,
	})
}

// RenderRegenerate renders the revision prompt that merges a prior itinerary
// with a natural-language change request.
func RenderRegenerate(ctx context.Context, originalItinerary string, language, changeRequest string) (string, error) {
	return render(ctx, regeneratePrompt, map[string]any{
		"ChangeRequest":     changeRequest,
		"OriginalItinerary": originalItinerary,
		"Language":          languageOrDefault(language),
	})
}

// RenderWeatherAdjust renders the prompt for the weather-adjustment flow.
func RenderWeatherAdjust(ctx context.Context, destination, activitiesJSON string) (string, error) {
	return render(ctx, weatherAdjustPrompt, map[string]any{
		"WeatherTool": tools.ToolWeather,
		"Destination": destination,
		"Activities":  activitiesJSON,
	})
}

// render formats a Go-template prompt via the Eino prompt component so
// prompt callbacks fire.
func render(ctx context.Context, tpl string, vars map[string]any) (string, error) {
	msgs, err := prompt.FromMessages(
		schema.GoTemplate,
		schema.UserMessage(tpl),
	).Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("render prompt: empty result")
	}
	return msgs[0].Content, nil
}

func languageOrDefault(language string) string {
	if strings.TrimSpace(language) == "" {
		return "English"
	}
	return language
}
