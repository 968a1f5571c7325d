package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
)

type stubTool struct {
	name string
	run  func(ctx context.Context, args string) (string, error)
}

func (s *stubTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{Name: s.name}, nil
}

func (s *stubTool) InvokableRun(ctx context.Context, args string, opts ...tool.Option) (string, error) {
	if s.run == nil {
		return "{}", nil
	}
	return s.run(ctx, args)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()

	if err := reg.Register(ctx, &stubTool{name: "alpha"}); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	err := reg.Register(ctx, &stubTool{name: "alpha"})
	if !errors.Is(err, ErrDuplicateTool) {
		t.Fatalf("expected ErrDuplicateTool, got %v", err)
	}
	if reg.Len() != 1 {
		t.Fatalf("expected 1 tool, got %d", reg.Len())
	}
}

func TestRegistryPreservesOrder(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()

	for _, name := range []string{"charlie", "alpha", "bravo"} {
		if err := reg.Register(ctx, &stubTool{name: name}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	infos := reg.Infos()
	if len(infos) != 3 {
		t.Fatalf("expected 3 infos, got %d", len(infos))
	}
	for i, want := range []string{"charlie", "alpha", "bravo"} {
		if infos[i].Name != want {
			t.Errorf("position %d: expected %s, got %s", i, want, infos[i].Name)
		}
	}
}

func TestRegistryLookup(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()
	if err := reg.Register(ctx, &stubTool{name: "alpha"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, ok := reg.Lookup("alpha"); !ok {
		t.Fatal("expected alpha to resolve")
	}
	if _, ok := reg.Lookup("missing"); ok {
		t.Fatal("expected missing tool to not resolve")
	}
}
