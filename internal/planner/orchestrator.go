package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	errx "github.com/yatrika/server/internal/core/error"
	logx "github.com/yatrika/server/pkg/logger"
)

// DefaultMaxToolCalls bounds tool dispatches within one conversation attempt.
const DefaultMaxToolCalls = 5

// ChatModel is the slice of the eino chat-model surface the orchestrator
// needs. Satisfied by *gemini.ChatModel and by deterministic stubs in tests.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// Conversation drives one bounded tool-call loop against the model: send a
// prompt, execute the requested tool call if any, feed the result back,
// repeat until the model yields plain text or the call budget runs out.
//
// The loop is deliberately an explicit for-loop with a visible counter rather
// than recursion; termination follows from the counter being strictly
// increasing and bounded. State is a single local message slice, discarded
// when the attempt ends.
type Conversation struct {
	chatModel    ChatModel
	registry     *Registry
	maxToolCalls int
}

// NewConversation builds a conversation over the given model and tool set.
// A non-positive budget falls back to DefaultMaxToolCalls.
func NewConversation(cm ChatModel, reg *Registry, maxToolCalls int) *Conversation {
	if maxToolCalls <= 0 {
		maxToolCalls = DefaultMaxToolCalls
	}
	if reg == nil {
		reg = NewRegistry()
	}
	return &Conversation{
		chatModel:    cm,
		registry:     reg,
		maxToolCalls: maxToolCalls,
	}
}

// Run executes the loop for a single prompt and returns the model's final
// textual answer. Exceeding the call budget or meeting an unknown tool name
// ends the loop with the last reply's text as best effort rather than an
// error; a possibly incomplete answer beats no answer.
func (c *Conversation) Run(ctx context.Context, prompt string) (string, error) {
	history := []*schema.Message{schema.UserMessage(prompt)}

	toolCalls := 0
	idSeq := 0
	for {
		reply, err := c.chatModel.Generate(ctx, history)
		if err != nil {
			return "", errx.WrapModel(err)
		}
		if reply == nil {
			return "", errx.WrapModel(fmt.Errorf("model returned nil reply"))
		}

		if len(reply.ToolCalls) == 0 {
			return reply.Content, nil
		}

		// The protocol allows at most one tool call per turn; only the first
		// content part is inspected.
		call := reply.ToolCalls[0]

		toolCalls++
		if toolCalls > c.maxToolCalls {
			logx.Warn().
				Int("tool_call_count", toolCalls).
				Int("max_tool_calls", c.maxToolCalls).
				Msg("Tool call budget exhausted, returning best-effort text")
			return reply.Content, nil
		}

		exec, ok := c.registry.Lookup(call.Function.Name)
		if !ok {
			logx.Warn().
				Str("tool_name", call.Function.Name).
				Msg("Unknown tool requested, ending conversation")
			return reply.Content, nil
		}

		// Gemini sometimes omits tool call IDs; synthesize one so the result
		// turn can reference it.
		if strings.TrimSpace(call.ID) == "" {
			idSeq++
			call.ID = fmt.Sprintf("call_%d", idSeq)
			reply.ToolCalls[0].ID = call.ID
		}

		result, err := exec.InvokableRun(ctx, call.Function.Arguments)
		if err != nil {
			// Executors degrade internally; an error here means the model
			// supplied arguments the tool could not decode.
			return "", errx.MalformedCall(fmt.Errorf("tool %s: %w", call.Function.Name, err))
		}

		logx.Debug().
			Str("tool_name", call.Function.Name).
			Int("tool_call_count", toolCalls).
			Msg("Tool dispatched, feeding result back")

		history = append(history, reply, schema.ToolMessage(result, call.ID))
	}
}
