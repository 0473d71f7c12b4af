package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/MegaGrindStone/go-mockmcp"
)

type stubToolServer struct {
	result mockmcp.CallToolResult
	err    error
}

func (s stubToolServer) ListTools(context.Context, mockmcp.ListToolsParams) (mockmcp.ListToolsResult, error) {
	return mockmcp.ListToolsResult{}, nil
}

func (s stubToolServer) CallTool(context.Context, mockmcp.CallToolParams) (mockmcp.CallToolResult, error) {
	return s.result, s.err
}

func TestCallToolOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		stub    stubToolServer
		outcome string
	}{
		{"ok", stubToolServer{}, "ok"},
		{"tool error", stubToolServer{result: mockmcp.CallToolResult{IsError: true}}, "tool_error"},
		{"protocol error", stubToolServer{err: errors.New("boom")}, "error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reg := prometheus.NewRegistry()
			wrapped := WrapToolServer(tc.stub, reg).(*toolServer)

			_, err := wrapped.CallTool(context.Background(), mockmcp.CallToolParams{Name: "list_events"})
			if (err != nil) != (tc.stub.err != nil) {
				t.Fatalf("unexpected error state: %v", err)
			}

			got := testutil.ToFloat64(wrapped.calls.WithLabelValues("list_events", tc.outcome))
			if got != 1 {
				t.Errorf("expected 1 call counted as %s, got %v", tc.outcome, got)
			}
		})
	}
}

func TestDurationObserved(t *testing.T) {
	reg := prometheus.NewRegistry()
	wrapped := WrapToolServer(stubToolServer{}, reg)

	if _, err := wrapped.CallTool(context.Background(), mockmcp.CallToolParams{Name: "ping_tool"}); err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}

	count, err := testutil.GatherAndCount(reg, "mockmcp_tool_call_duration_seconds")
	if err != nil {
		t.Fatalf("failed to gather: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 duration series, got %d", count)
	}
}
