package mockmcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync"

	"github.com/gobwas/glob"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/MegaGrindStone/go-mockmcp/internal/dataset"
)

// ToolHandler executes a single tool call. The args hold the raw JSON
// arguments, already validated against the tool's input schema when the tool
// declares one. The returned value is rendered as indented JSON text in the
// tool result.
type ToolHandler func(ctx context.Context, args json.RawMessage) (any, error)

// ToolSet is a registry of tools that implements the ToolServer and
// ToolListUpdater interfaces. Tools are registered with their JSON Schema and
// a handler, listed in registration order, and dispatched by name.
//
// Handler failures are reported in-band as a failed tool result carrying a
// structured error object, while protocol-level failures such as an unknown
// tool name surface as JSON-RPC errors.
type ToolSet struct {
	mu      sync.RWMutex
	entries []toolEntry
	index   map[string]int

	updates   chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

type toolEntry struct {
	tool    Tool
	handler ToolHandler
	schema  *jsonschema.Schema
}

// NewToolSet creates an empty tool registry.
func NewToolSet() *ToolSet {
	return &ToolSet{
		index:   make(map[string]int),
		updates: make(chan struct{}, 5),
		done:    make(chan struct{}),
	}
}

// Register adds a tool and its handler to the set. The tool's input schema is
// compiled once here, so arguments can be validated on every call. Returns an
// error if the name is already taken or the schema does not compile.
func (t *ToolSet) Register(tool Tool, handler ToolHandler) error {
	if tool.Name == "" {
		return errors.New("tool name must not be empty")
	}
	if handler == nil {
		return fmt.Errorf("tool %q has no handler", tool.Name)
	}

	var schema *jsonschema.Schema
	if len(tool.InputSchema) > 0 {
		compiled, err := jsonschema.CompileString(tool.Name+".json", string(tool.InputSchema))
		if err != nil {
			return fmt.Errorf("failed to compile input schema for tool %q: %w", tool.Name, err)
		}
		schema = compiled
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.index[tool.Name]; ok {
		return fmt.Errorf("tool %q is already registered", tool.Name)
	}
	t.index[tool.Name] = len(t.entries)
	t.entries = append(t.entries, toolEntry{
		tool:    tool,
		handler: handler,
		schema:  schema,
	})

	t.notifyToolListChanged()

	return nil
}

// MustRegister is like Register but panics on error. It is intended for
// static tool tables built at startup.
func (t *ToolSet) MustRegister(tool Tool, handler ToolHandler) {
	if err := t.Register(tool, handler); err != nil {
		panic(err)
	}
}

// Add registers every tool of other into t. Nothing is added if any name
// collides with an already registered tool.
func (t *ToolSet) Add(other *ToolSet) error {
	other.mu.RLock()
	entries := make([]toolEntry, len(other.entries))
	copy(entries, other.entries)
	other.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, entry := range entries {
		if _, ok := t.index[entry.tool.Name]; ok {
			return fmt.Errorf("tool %q is already registered", entry.tool.Name)
		}
	}
	for _, entry := range entries {
		t.index[entry.tool.Name] = len(t.entries)
		t.entries = append(t.entries, entry)
	}

	t.notifyToolListChanged()

	return nil
}

// Filter returns a new ToolSet holding the tools whose names match one of the
// allow patterns and none of the deny patterns. An empty allow list admits
// every tool. Patterns use glob syntax, e.g. "search_*" or "*_event".
func (t *ToolSet) Filter(allow, deny []string) (*ToolSet, error) {
	allowGlobs, err := compileGlobs(allow)
	if err != nil {
		return nil, fmt.Errorf("failed to compile allow patterns: %w", err)
	}
	denyGlobs, err := compileGlobs(deny)
	if err != nil {
		return nil, fmt.Errorf("failed to compile deny patterns: %w", err)
	}

	filtered := NewToolSet()

	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, entry := range t.entries {
		if len(allowGlobs) > 0 && !matchAny(allowGlobs, entry.tool.Name) {
			continue
		}
		if matchAny(denyGlobs, entry.tool.Name) {
			continue
		}
		filtered.index[entry.tool.Name] = len(filtered.entries)
		filtered.entries = append(filtered.entries, entry)
	}

	return filtered, nil
}

// ListTools implements the ToolServer interface. The whole registry fits in
// one page, so the cursor is ignored.
func (t *ToolSet) ListTools(_ context.Context, _ ListToolsParams) (ListToolsResult, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	tools := make([]Tool, 0, len(t.entries))
	for _, entry := range t.entries {
		tools = append(tools, entry.tool)
	}

	return ListToolsResult{Tools: tools}, nil
}

// CallTool implements the ToolServer interface.
func (t *ToolSet) CallTool(ctx context.Context, params CallToolParams) (CallToolResult, error) {
	t.mu.RLock()
	idx, ok := t.index[params.Name]
	var entry toolEntry
	if ok {
		entry = t.entries[idx]
	}
	t.mu.RUnlock()

	if !ok {
		return CallToolResult{}, JSONRPCError{
			Code:    jsonRPCMethodNotFoundCode,
			Message: fmt.Sprintf("unknown tool: %s", params.Name),
		}
	}

	args := params.Arguments
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	if entry.schema != nil {
		if err := validateArguments(entry.schema, args); err != nil {
			return errorResult(err), nil
		}
	}

	result, err := entry.handler(ctx, args)
	if err != nil {
		return errorResult(err), nil
	}

	return textResult(result)
}

// ToolListUpdates implements the ToolListUpdater interface. The iterator ends
// when Close is called.
func (t *ToolSet) ToolListUpdates() iter.Seq[struct{}] {
	return func(yield func(struct{}) bool) {
		for {
			select {
			case <-t.done:
				return
			case <-t.updates:
				if !yield(struct{}{}) {
					return
				}
			}
		}
	}
}

// Close ends the tool list update stream.
func (t *ToolSet) Close() {
	t.closeOnce.Do(func() {
		close(t.done)
	})
}

func (t *ToolSet) notifyToolListChanged() {
	select {
	case t.updates <- struct{}{}:
	default:
	}
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func matchAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func validateArguments(schema *jsonschema.Schema, args json.RawMessage) error {
	var v any
	if err := json.Unmarshal(args, &v); err != nil {
		return &dataset.Error{
			Kind:  dataset.KindInvalidArgument,
			Field: "arguments",
			Msg:   "arguments are not valid JSON",
			Err:   err,
		}
	}

	err := schema.Validate(v)
	if err == nil {
		return nil
	}

	vErr := &jsonschema.ValidationError{}
	if !errors.As(err, &vErr) {
		return &dataset.Error{
			Kind:  dataset.KindInvalidArgument,
			Field: "arguments",
			Msg:   err.Error(),
		}
	}

	leaf := vErr
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	field := strings.ReplaceAll(strings.TrimPrefix(leaf.InstanceLocation, "/"), "/", ".")
	if field == "" {
		field = "arguments"
	}

	return &dataset.Error{
		Kind:  dataset.KindInvalidArgument,
		Field: field,
		Msg:   fmt.Sprintf("invalid %s: %s", field, leaf.Message),
	}
}

// errorResult renders a handler failure as an in-band tool result. The body
// carries the error classification so callers can branch without parsing
// message text.
func errorResult(err error) CallToolResult {
	type errorBody struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
		Field   string `json:"field,omitempty"`
		Value   string `json:"value,omitempty"`
	}

	body := errorBody{
		Kind:    dataset.KindOf(err).String(),
		Message: err.Error(),
	}

	var dsErr *dataset.Error
	if errors.As(err, &dsErr) {
		body.Field = dsErr.Field
		body.Value = dsErr.Value
	}

	bs, mErr := dataset.Marshal(map[string]errorBody{"error": body})
	if mErr != nil {
		return CallToolResult{
			Content: []Content{{Type: ContentTypeText, Text: err.Error()}},
			IsError: true,
		}
	}

	return CallToolResult{
		Content: []Content{{Type: ContentTypeText, Text: strings.TrimSuffix(string(bs), "\n")}},
		IsError: true,
	}
}

func textResult(result any) (CallToolResult, error) {
	bs, err := dataset.Marshal(result)
	if err != nil {
		return CallToolResult{}, JSONRPCError{
			Code:    jsonRPCInternalErrorCode,
			Message: fmt.Errorf("failed to marshal tool result: %w", err).Error(),
		}
	}

	return CallToolResult{
		Content: []Content{{Type: ContentTypeText, Text: strings.TrimSuffix(string(bs), "\n")}},
	}, nil
}
