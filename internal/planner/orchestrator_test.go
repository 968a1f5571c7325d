package planner

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	errx "github.com/yatrika/server/internal/core/error"
)

// scriptedModel replays a fixed sequence of replies and records the inputs it
// was called with.
type scriptedModel struct {
	replies []*schema.Message
	errs    []error
	calls   int
	inputs  [][]*schema.Message
}

func (m *scriptedModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	idx := m.calls
	m.calls++
	m.inputs = append(m.inputs, input)
	if idx < len(m.errs) && m.errs[idx] != nil {
		return nil, m.errs[idx]
	}
	if idx >= len(m.replies) {
		return nil, fmt.Errorf("unscripted call %d", idx)
	}
	return m.replies[idx], nil
}

func toolCallReply(name, args string) *schema.Message {
	return &schema.Message{
		Role:    schema.Assistant,
		Content: "working on it",
		ToolCalls: []schema.ToolCall{
			{Function: schema.FunctionCall{Name: name, Arguments: args}},
		},
	}
}

func textReply(content string) *schema.Message {
	return &schema.Message{Role: schema.Assistant, Content: content}
}

func TestConversationPlainAnswer(t *testing.T) {
	cm := &scriptedModel{replies: []*schema.Message{textReply("final answer")}}
	conv := NewConversation(cm, NewRegistry(), 5)

	out, err := conv.Run(context.Background(), "plan a trip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "final answer" {
		t.Fatalf("unexpected output: %s", out)
	}
	if cm.calls != 1 {
		t.Fatalf("expected 1 model call, got %d", cm.calls)
	}
}

func TestConversationDispatchesToolAndFeedsResult(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()
	dispatched := 0
	if err := reg.Register(ctx, &stubTool{
		name: "price",
		run: func(ctx context.Context, args string) (string, error) {
			dispatched++
			return `{"price": 3500}`, nil
		},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	cm := &scriptedModel{replies: []*schema.Message{
		toolCallReply("price", `{"destination": "Jaipur"}`),
		textReply("done"),
	}}
	conv := NewConversation(cm, reg, 5)

	out, err := conv.Run(ctx, "plan")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "done" {
		t.Fatalf("unexpected output: %s", out)
	}
	if dispatched != 1 {
		t.Fatalf("expected 1 dispatch, got %d", dispatched)
	}

	// The second call must carry the tool result back to the model.
	second := cm.inputs[1]
	last := second[len(second)-1]
	if last.Role != schema.Tool {
		t.Fatalf("expected trailing tool message, got role %s", last.Role)
	}
	if last.Content != `{"price": 3500}` {
		t.Fatalf("unexpected tool result content: %s", last.Content)
	}
	if last.ToolCallID == "" {
		t.Fatal("expected tool message to carry a call id")
	}
}

func TestConversationBudgetSoftExit(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()
	dispatched := 0
	if err := reg.Register(ctx, &stubTool{
		name: "price",
		run: func(ctx context.Context, args string) (string, error) {
			dispatched++
			return "{}", nil
		},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	// The model asks for the tool forever; the loop must stop after the budget
	// and hand back the last text rather than erroring.
	replies := make([]*schema.Message, 0, 4)
	for i := 0; i < 4; i++ {
		replies = append(replies, toolCallReply("price", "{}"))
	}
	cm := &scriptedModel{replies: replies}
	conv := NewConversation(cm, reg, 3)

	out, err := conv.Run(ctx, "plan")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "working on it" {
		t.Fatalf("expected best-effort text, got %q", out)
	}
	if dispatched != 3 {
		t.Fatalf("expected exactly 3 dispatches, got %d", dispatched)
	}
	if cm.calls != 4 {
		t.Fatalf("expected 4 model calls, got %d", cm.calls)
	}
}

func TestConversationUnknownToolSoftExit(t *testing.T) {
	cm := &scriptedModel{replies: []*schema.Message{toolCallReply("does_not_exist", "{}")}}
	conv := NewConversation(cm, NewRegistry(), 5)

	out, err := conv.Run(context.Background(), "plan")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "working on it" {
		t.Fatalf("expected best-effort text, got %q", out)
	}
}

func TestConversationMalformedArgsTerminal(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()
	if err := reg.Register(ctx, &stubTool{
		name: "price",
		run: func(ctx context.Context, args string) (string, error) {
			return "", fmt.Errorf("cannot decode arguments")
		},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	cm := &scriptedModel{replies: []*schema.Message{toolCallReply("price", "not json")}}
	conv := NewConversation(cm, reg, 5)

	_, err := conv.Run(ctx, "plan")
	if err == nil {
		t.Fatal("expected terminal error")
	}
	if errx.KindOf(err) != errx.KindMalformedCall {
		t.Fatalf("expected malformed call kind, got %v", errx.KindOf(err))
	}
}

func TestConversationModelErrorWrapped(t *testing.T) {
	cm := &scriptedModel{errs: []error{fmt.Errorf("upstream boom")}}
	conv := NewConversation(cm, NewRegistry(), 5)

	_, err := conv.Run(context.Background(), "plan")
	if err == nil {
		t.Fatal("expected error")
	}
	var appErr *errx.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
}
