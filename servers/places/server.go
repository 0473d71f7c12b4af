package places

import (
	"context"
	"encoding/json"
	"math"

	"github.com/MegaGrindStone/go-mockmcp"
	"github.com/MegaGrindStone/go-mockmcp/internal/dataset"
	"github.com/MegaGrindStone/go-mockmcp/internal/geo"
)

// drivingMetersPerSecond is the fixed speed behind the coarse duration
// estimates in the distance matrix, roughly 30 km/h of city driving.
const drivingMetersPerSecond = 8.33

// Server exposes the places dataset as MCP tools. It implements the
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

// NewServer creates a places server over the given store.
func NewServer(store *dataset.Store[Document], options ...Option) *Server {
	s := &Server{store: store}
	for _, opt := range options {
		opt(s)
	}

	s.tools = mockmcp.NewToolSet()
	s.tools.MustRegister(searchNearbyTool, s.searchNearby)
	s.tools.MustRegister(placeDetailsTool, s.placeDetails)
	s.tools.MustRegister(geocodeTool, s.geocode)
	s.tools.MustRegister(reverseGeocodeTool, s.reverseGeocode)
	s.tools.MustRegister(distanceMatrixTool, s.distanceMatrix)

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

func (s *Server) searchNearby(ctx context.Context, args json.RawMessage) (any, error) {
	var params searchNearbyArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, err
	}

	radius := defaultRadiusMeters
	if params.Radius != nil {
		radius = *params.Radius
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	matched := doc.searchNearby(params.Latitude, params.Longitude, params.Category, radius)
	s.logf(mockmcp.LogLevelDebug, "search_nearby matched %d of %d places", len(matched), len(doc.Places))

	return map[string]any{"places": matched}, nil
}

func (s *Server) placeDetails(ctx context.Context, args json.RawMessage) (any, error) {
	var params placeDetailsArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, err
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	place, ok := doc.findPlace(params.PlaceID)
	if !ok {
		return nil, dataset.NewTargetNotFound("place_id", params.PlaceID)
	}

	return map[string]any{"place": place}, nil
}

type geocodeResult struct {
	Place
	Location location `json:"location"`
}

type location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (s *Server) geocode(ctx context.Context, args json.RawMessage) (any, error) {
	var params geocodeArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, err
	}

	if params.Address == "" {
		return nil, dataset.NewInvalidArgument("address", params.Address, "must not be empty")
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	matched := doc.geocode(params.Address)
	results := make([]geocodeResult, 0, len(matched))
	for _, place := range matched {
		results = append(results, geocodeResult{
			Place:    place,
			Location: location{Latitude: place.Latitude, Longitude: place.Longitude},
		})
	}

	status := "OK"
	if len(results) == 0 {
		status = "ZERO_RESULTS"
	}

	return map[string]any{"status": status, "results": results}, nil
}

func (s *Server) reverseGeocode(ctx context.Context, args json.RawMessage) (any, error) {
	var params reverseGeocodeArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, err
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	place, ok := doc.reverseGeocode(params.Latitude, params.Longitude)
	if !ok {
		return map[string]any{"status": "ZERO_RESULTS"}, nil
	}

	return map[string]any{
		"status":            "OK",
		"formatted_address": place.Address,
		"place":             place,
	}, nil
}

type matrixElement struct {
	Status          string  `json:"status"`
	DistanceMeters  float64 `json:"distance_meters,omitempty"`
	DurationSeconds int     `json:"duration_seconds,omitempty"`
}

type matrixRow struct {
	Elements []matrixElement `json:"elements"`
}

func (s *Server) distanceMatrix(ctx context.Context, args json.RawMessage) (any, error) {
	var params distanceMatrixArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, err
	}

	if len(params.Origins) == 0 {
		return nil, dataset.NewInvalidArgument("origins", "", "must not be empty")
	}
	if len(params.Destinations) == 0 {
		return nil, dataset.NewInvalidArgument("destinations", "", "must not be empty")
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	// Resolve each name through the same substring match geocode uses,
	// taking the first hit.
	resolve := func(name string) (Place, bool) {
		matched := doc.geocode(name)
		if len(matched) == 0 {
			return Place{}, false
		}
		return matched[0], true
	}

	rows := make([]matrixRow, 0, len(params.Origins))
	for _, originName := range params.Origins {
		origin, originOK := resolve(originName)
		elements := make([]matrixElement, 0, len(params.Destinations))
		for _, destinationName := range params.Destinations {
			destination, destinationOK := resolve(destinationName)
			if !originOK || !destinationOK {
				elements = append(elements, matrixElement{Status: "NOT_FOUND"})
				continue
			}
			distance := geo.Distance(origin.Latitude, origin.Longitude, destination.Latitude, destination.Longitude)
			elements = append(elements, matrixElement{
				Status:          "OK",
				DistanceMeters:  geo.Round2(distance),
				DurationSeconds: int(math.Round(distance / drivingMetersPerSecond)),
			})
		}
		rows = append(rows, matrixRow{Elements: elements})
	}

	return map[string]any{
		"origins":      params.Origins,
		"destinations": params.Destinations,
		"rows":         rows,
	}, nil
}
