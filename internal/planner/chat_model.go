package planner

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/yatrika/server/internal/planner/model"
	logx "github.com/yatrika/server/pkg/logger"
)

// ChatModelConfig holds what is needed to build the Gemini-backed chat model.
type ChatModelConfig struct {
	APIKey  string
	BaseURL string
	Planner model.PlannerModelConfig
}

// NewGeminiChatModel creates the planning chat model and binds the tool
// declarations so the model can request them during a conversation.
func NewGeminiChatModel(ctx context.Context, cfg ChatModelConfig, toolInfos []*schema.ToolInfo) (ChatModel, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Planner.Model,
		Temperature: &cfg.Planner.Temperature,
		MaxTokens:   &cfg.Planner.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating planner chat model")
		return nil, fmt.Errorf("error creating planner chat model: %w", err)
	}

	if len(toolInfos) > 0 {
		if err := chatModel.BindTools(toolInfos); err != nil {
			logx.Error().Err(err).Msg("Failed to bind tools to planner model")
			return nil, fmt.Errorf("failed to bind tools: %w", err)
		}
	}

	logx.Debug().Str("model", cfg.Planner.Model).Int("tools", len(toolInfos)).Msg("Planner chat model ready")
	return chatModel, nil
}
