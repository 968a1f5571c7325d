package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
)

// ErrDuplicateTool is returned when a tool name is registered twice.
var ErrDuplicateTool = errors.New("duplicate tool name")

// Registry declares the tools advertised to the model for one conversation.
// Declarations are immutable once registered; Infos preserves registration
// order because that is the order the model sees them in.
type Registry struct {
	names []string
	tools map[string]tool.InvokableTool
	infos map[string]*schema.ToolInfo
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]tool.InvokableTool),
		infos: make(map[string]*schema.ToolInfo),
	}
}

// Register adds a tool by its declared name.
func (r *Registry) Register(ctx context.Context, t tool.BaseTool) error {
	info, err := t.Info(ctx)
	if err != nil {
		return fmt.Errorf("tool info: %w", err)
	}
	if info == nil || info.Name == "" {
		return fmt.Errorf("tool has no name")
	}
	if _, exists := r.tools[info.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, info.Name)
	}
	inv, ok := t.(tool.InvokableTool)
	if !ok {
		return fmt.Errorf("tool %s is not invokable", info.Name)
	}

	r.names = append(r.names, info.Name)
	r.tools[info.Name] = inv
	r.infos[info.Name] = info
	return nil
}

// Infos returns all declarations in registration order, for advertising to
// the model at conversation start.
func (r *Registry) Infos() []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, len(r.names))
	for _, name := range r.names {
		infos = append(infos, r.infos[name])
	}
	return infos
}

// Lookup returns the executor registered under name.
func (r *Registry) Lookup(name string) (tool.InvokableTool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Len reports the number of registered tools.
func (r *Registry) Len() int {
	return len(r.names)
}
