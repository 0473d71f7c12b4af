// Package metrics instruments the tool-call surface with Prometheus
// counters and histograms.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MegaGrindStone/go-mockmcp"
)

type toolServer struct {
	inner mockmcp.ToolServer

	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// WrapToolServer instruments inner with per-tool call counters and duration
// histograms registered on reg. The outcome label distinguishes in-band
// tool errors from protocol-level failures.
func WrapToolServer(inner mockmcp.ToolServer, reg prometheus.Registerer) mockmcp.ToolServer {
	return &toolServer{
		inner: inner,
		calls: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "mockmcp_tool_calls_total",
			Help: "Total number of tool calls by tool name and outcome.",
		}, []string{"tool", "outcome"}),
		duration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mockmcp_tool_call_duration_seconds",
			Help:    "Tool call duration in seconds by tool name.",
			Buckets: prometheus.DefBuckets,
		}, []string{"tool"}),
	}
}

// Handler serves the metrics gathered from g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (t *toolServer) ListTools(ctx context.Context, params mockmcp.ListToolsParams) (mockmcp.ListToolsResult, error) {
	return t.inner.ListTools(ctx, params)
}

func (t *toolServer) CallTool(ctx context.Context, params mockmcp.CallToolParams) (mockmcp.CallToolResult, error) {
	start := time.Now()
	result, err := t.inner.CallTool(ctx, params)
	t.duration.WithLabelValues(params.Name).Observe(time.Since(start).Seconds())

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case result.IsError:
		outcome = "tool_error"
	}
	t.calls.WithLabelValues(params.Name, outcome).Inc()

	return result, err
}
