package weather

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MegaGrindStone/go-mockmcp"
	"github.com/MegaGrindStone/go-mockmcp/internal/dataset"
)

// Server exposes the weather dataset as MCP tools. It implements the
// mockmcp.ToolServer interface by delegating to its tool registry.
type Server struct {
	store *dataset.Store[Document]
	tools *mockmcp.ToolSet
	log   *mockmcp.LogStream
}

// Option configures a Server.
type Option func(*Server)

// WithLogStream routes per-tool diagnostics to the given stream.
func WithLogStream(log *mockmcp.LogStream) Option {
	return func(s *Server) {
		s.log = log
	}
}

// NewServer creates a weather server over the given store.
func NewServer(store *dataset.Store[Document], options ...Option) *Server {
	s := &Server{store: store}
	for _, opt := range options {
		opt(s)
	}

	s.tools = mockmcp.NewToolSet()
	s.tools.MustRegister(getLiveWeatherTool, s.getLiveWeather)
	s.tools.MustRegister(listStationsTool, s.listStations)

	return s
}

// ToolSet returns the server's tool registry.
func (s *Server) ToolSet() *mockmcp.ToolSet {
	return s.tools
}

// ListTools implements the mockmcp.ToolServer interface.
func (s *Server) ListTools(ctx context.Context, params mockmcp.ListToolsParams) (mockmcp.ListToolsResult, error) {
	return s.tools.ListTools(ctx, params)
}

// CallTool implements the mockmcp.ToolServer interface.
func (s *Server) CallTool(ctx context.Context, params mockmcp.CallToolParams) (mockmcp.CallToolResult, error) {
	return s.tools.CallTool(ctx, params)
}

func (s *Server) logf(level mockmcp.LogLevel, format string, args ...any) {
	if s.log == nil {
		return
	}
	s.log.Logf(level, format, args...)
}

func (s *Server) getLiveWeather(ctx context.Context, args json.RawMessage) (any, error) {
	var params getLiveWeatherArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, err
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	obs, exact, found := doc.findStation(params.Latitude, params.Longitude)
	if !found {
		return nil, dataset.NewTargetNotFound("location",
			fmt.Sprintf("%g,%g", params.Latitude, params.Longitude))
	}

	matched := "nearest"
	if exact {
		matched = "exact"
	}
	s.logf(mockmcp.LogLevelDebug, "get_live_weather %s match: station %s", matched, obs.StationID)

	return map[string]any{"observation": obs, "matched": matched}, nil
}

func (s *Server) listStations(ctx context.Context, args json.RawMessage) (any, error) {
	var params listStationsArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, err
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	return map[string]any{"stations": doc.listStations(params.City)}, nil
}
