package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	errx "github.com/yatrika/server/internal/core/error"
	"github.com/yatrika/server/internal/planner/model"
	"github.com/yatrika/server/internal/planner/prompts"
	logx "github.com/yatrika/server/pkg/logger"
)

// Config wires the loop bounds and retry policy into the planner.
type Config struct {
	Conversation model.ConversationConfig
	Retry        model.RetryConfig
}

// Planner turns travel preferences into itineraries by driving the
// tool-augmented conversation loop. All dependencies arrive through the
// constructor so tests can substitute deterministic stubs per test case.
type Planner struct {
	chatModel     ChatModel
	registry      *Registry
	maxToolCalls  int
	timeout       time.Duration
	retryAttempts int
	retryDelay    time.Duration
}

// New builds a Planner from a chat model, a tool registry and config.
func New(cm ChatModel, reg *Registry, cfg Config) *Planner {
	retryDelay := time.Duration(cfg.Retry.DelaySeconds) * time.Second
	if cfg.Retry.DelaySeconds < 0 {
		retryDelay = DefaultRetryDelay
	}
	return &Planner{
		chatModel:     cm,
		registry:      reg,
		maxToolCalls:  cfg.Conversation.Tools.MaxCalls,
		timeout:       time.Duration(cfg.Conversation.TimeoutSeconds) * time.Second,
		retryAttempts: cfg.Retry.MaxAttempts,
		retryDelay:    retryDelay,
	}
}

// PlanTrip generates a fresh itinerary for the request. The budget ceiling is
// enforced by prompting; an out-of-budget result is logged but not rejected.
func (p *Planner) PlanTrip(ctx context.Context, req model.TripRequest) (*model.Itinerary, error) {
	prompt, err := prompts.RenderPlan(ctx, req)
	if err != nil {
		return nil, errx.New(err, 500, errx.SystemErrorMessage)
	}

	raw, err := p.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	itinerary, err := parseItinerary(raw)
	if err != nil {
		return nil, err
	}

	if req.BudgetINR > 0 && itinerary.CostBreakdown.TotalINR > req.BudgetINR {
		logx.Warn().
			Int("budget_inr", req.BudgetINR).
			Int("total_estimate_inr", itinerary.CostBreakdown.TotalINR).
			Str("destination", req.Destination).
			Msg("Generated itinerary exceeds requested budget")
	}

	return itinerary, nil
}

// Regenerate produces a replacement itinerary from a prior document and a
// natural-language change request. The prior document is never mutated.
func (p *Planner) Regenerate(ctx context.Context, prior *model.Itinerary, req model.TripRequest, changeRequest string) (*model.Itinerary, error) {
	original, err := json.MarshalIndent(prior, "", "  ")
	if err != nil {
		return nil, errx.New(fmt.Errorf("marshal prior itinerary: %w", err), 500, errx.SystemErrorMessage)
	}

	prompt, err := prompts.RenderRegenerate(ctx, string(original), req.Language, changeRequest)
	if err != nil {
		return nil, errx.New(err, 500, errx.SystemErrorMessage)
	}

	raw, err := p.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return parseItinerary(raw)
}

// AdjustForWeather rewrites one day's activities around current conditions.
// The reply is a bare JSON array, so extraction runs in array mode.
func (p *Planner) AdjustForWeather(ctx context.Context, destination string, activities []model.Activity) ([]model.Activity, error) {
	original, err := json.MarshalIndent(activities, "", "  ")
	if err != nil {
		return nil, errx.New(fmt.Errorf("marshal activities: %w", err), 500, errx.SystemErrorMessage)
	}

	prompt, err := prompts.RenderWeatherAdjust(ctx, destination, string(original))
	if err != nil {
		return nil, errx.New(err, 500, errx.SystemErrorMessage)
	}

	raw, err := p.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	doc, err := ExtractJSON(raw, ArrayMode)
	if err != nil {
		return nil, err
	}

	var adjusted []model.Activity
	if err := json.Unmarshal(doc, &adjusted); err != nil {
		return nil, errx.MalformedOutput(fmt.Errorf("decode adjusted activities: %w", err))
	}
	return adjusted, nil
}

// generate runs one logical request: the retry controller around fresh
// conversation attempts. The call budget resets per attempt, and the whole
// sequence runs under the configured deadline so a hung upstream cannot pin
// a server worker.
func (p *Planner) generate(ctx context.Context, prompt string) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	return runWithRetry(ctx, p.retryAttempts, p.retryDelay, func(ctx context.Context) (string, error) {
		return NewConversation(p.chatModel, p.registry, p.maxToolCalls).Run(ctx, prompt)
	})
}

func parseItinerary(raw string) (*model.Itinerary, error) {
	doc, err := ExtractJSON(raw, ObjectMode)
	if err != nil {
		return nil, err
	}

	var itinerary model.Itinerary
	if err := json.Unmarshal(doc, &itinerary); err != nil {
		return nil, errx.MalformedOutput(fmt.Errorf("decode itinerary: %w", err))
	}
	if len(itinerary.Plan) == 0 {
		return nil, errx.MalformedOutput(fmt.Errorf("itinerary has no plan days"))
	}
	return &itinerary, nil
}
