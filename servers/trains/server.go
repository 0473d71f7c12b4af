package trains

import (
	"context"
	"encoding/json"

	"github.com/MegaGrindStone/go-mockmcp"
	"github.com/MegaGrindStone/go-mockmcp/internal/dataset"
	"github.com/MegaGrindStone/go-mockmcp/internal/query"
)

// Server exposes the trains dataset as MCP tools. It implements the
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

// NewServer creates a trains server over the given store.
func NewServer(store *dataset.Store[Document], options ...Option) *Server {
	s := &Server{store: store}
	for _, opt := range options {
		opt(s)
	}

	s.tools = mockmcp.NewToolSet()
	s.tools.MustRegister(searchStationsTool, s.searchStations)
	s.tools.MustRegister(stationCodeTool, s.stationCode)
	s.tools.MustRegister(searchTicketsTool, s.searchTickets)

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

func (s *Server) searchStations(ctx context.Context, args json.RawMessage) (any, error) {
	var params searchStationsArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, err
	}

	if params.Keyword == "" {
		return nil, dataset.NewInvalidArgument("keyword", params.Keyword, "must not be empty")
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	matched := doc.searchStations(params.Keyword)
	s.logf(mockmcp.LogLevelDebug, "search_stations matched %d of %d stations", len(matched), len(doc.Stations))

	return map[string]any{"stations": matched}, nil
}

func (s *Server) stationCode(ctx context.Context, args json.RawMessage) (any, error) {
	var params stationCodeArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, err
	}

	if params.Name == "" {
		return nil, dataset.NewInvalidArgument("name", params.Name, "must not be empty")
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	station, ok := doc.stationByName(params.Name)
	if !ok {
		return nil, dataset.NewTargetNotFound("name", params.Name)
	}

	return map[string]any{"station": station}, nil
}

func (s *Server) searchTickets(ctx context.Context, args json.RawMessage) (any, error) {
	var params searchTicketsArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, err
	}

	if !query.ValidDate(params.Date) {
		return nil, dataset.NewInvalidArgument("date", params.Date, "must be in YYYY-MM-DD format")
	}
	if params.FromStation == "" {
		return nil, dataset.NewInvalidArgument("from_station", params.FromStation, "must not be empty")
	}
	if params.ToStation == "" {
		return nil, dataset.NewInvalidArgument("to_station", params.ToStation, "must not be empty")
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	if !doc.hasStationCode(params.FromStation) {
		return nil, dataset.NewReferenceNotFound("from_station", params.FromStation)
	}
	if !doc.hasStationCode(params.ToStation) {
		return nil, dataset.NewReferenceNotFound("to_station", params.ToStation)
	}

	matched := doc.searchTickets(params.Date, params.FromStation, params.ToStation)
	s.logf(mockmcp.LogLevelDebug, "search_tickets matched %d of %d tickets", len(matched), len(doc.Tickets))

	return map[string]any{"tickets": matched}, nil
}
