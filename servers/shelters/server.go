package shelters

import (
	"context"
	"encoding/json"

	"github.com/MegaGrindStone/go-mockmcp"
	"github.com/MegaGrindStone/go-mockmcp/internal/dataset"
)

// Server exposes the shelters dataset as MCP tools. It implements the
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

// NewServer creates a shelters server over the given store.
func NewServer(store *dataset.Store[Document], options ...Option) *Server {
	s := &Server{store: store}
	for _, opt := range options {
		opt(s)
	}

	s.tools = mockmcp.NewToolSet()
	s.tools.MustRegister(findSheltersTool, s.findShelters)
	s.tools.MustRegister(getShelterTool, s.getShelter)

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

func (s *Server) findShelters(ctx context.Context, args json.RawMessage) (any, error) {
	var params findSheltersArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, err
	}

	var refLat, refLon *float64
	if params.Location != "" {
		lat, lon, ok := resolveNeighborhood(params.Location)
		if !ok {
			return nil, dataset.NewInvalidArgument("location", params.Location, "unknown neighborhood")
		}
		refLat, refLon = &lat, &lon
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	matched := doc.findShelters(refLat, refLon, params.MaxDistance, params.Services, params.HasVacancy)
	s.logf(mockmcp.LogLevelDebug, "find_shelters matched %d of %d shelters", len(matched), len(doc.Shelters))

	return map[string]any{"shelters": matched}, nil
}

func (s *Server) getShelter(ctx context.Context, args json.RawMessage) (any, error) {
	var params getShelterArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, err
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	shelter, ok := doc.findShelter(params.ShelterID)
	if !ok {
		return nil, dataset.NewTargetNotFound("shelter_id", params.ShelterID)
	}

	return map[string]any{"shelter": shelter}, nil
}
