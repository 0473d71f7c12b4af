package flights

import (
	"context"
	"encoding/json"

	"github.com/MegaGrindStone/go-mockmcp"
	"github.com/MegaGrindStone/go-mockmcp/internal/dataset"
	"github.com/MegaGrindStone/go-mockmcp/internal/query"
)

const (
	defaultStaysPerPage   = 10
	defaultReviewLimit    = 10
	defaultNumberOfGuests = 1
)

// Server exposes the flights dataset as MCP tools. It implements the
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

// NewServer creates a flights server over the given store.
func NewServer(store *dataset.Store[Document], options ...Option) *Server {
	s := &Server{store: store}
	for _, opt := range options {
		opt(s)
	}

	s.tools = mockmcp.NewToolSet()
	s.tools.MustRegister(searchFlightsTool, s.searchFlights)
	s.tools.MustRegister(offerDetailsTool, s.offerDetails)
	s.tools.MustRegister(searchMultiCityTool, s.searchMultiCity)
	s.tools.MustRegister(searchStaysTool, s.searchStays)
	s.tools.MustRegister(stayReviewsTool, s.stayReviews)

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

func (s *Server) searchFlights(ctx context.Context, args json.RawMessage) (any, error) {
	var params searchFlightsArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, err
	}

	if params.Origin == "" {
		return nil, dataset.NewInvalidArgument("origin", params.Origin, "must not be empty")
	}
	if params.Destination == "" {
		return nil, dataset.NewInvalidArgument("destination", params.Destination, "must not be empty")
	}
	if !query.ValidDate(params.DepartureDate) {
		return nil, dataset.NewInvalidArgument("departure_date", params.DepartureDate, "must be in YYYY-MM-DD format")
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	matched := doc.searchFlights(params.Origin, params.Destination, params.DepartureDate,
		params.CabinClass, params.MaxConnections)
	s.logf(mockmcp.LogLevelDebug, "search_flights matched %d of %d flights", len(matched), len(doc.Flights))

	return map[string]any{"flights": matched}, nil
}

func (s *Server) offerDetails(ctx context.Context, args json.RawMessage) (any, error) {
	var params offerDetailsArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, err
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	flight, ok := doc.findFlight(params.OfferID)
	if !ok {
		return nil, dataset.NewTargetNotFound("offer_id", params.OfferID)
	}

	return map[string]any{
		"offer": map[string]any{
			"id":             flight.ID,
			"total_amount":   flight.Price.Amount,
			"total_currency": flight.Price.Currency,
			"flight_details": flight,
		},
	}, nil
}

func (s *Server) searchMultiCity(ctx context.Context, args json.RawMessage) (any, error) {
	var params searchMultiCityArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, err
	}

	for _, segment := range params.Segments {
		if !query.ValidDate(segment.DepartureDate) {
			return nil, dataset.NewInvalidArgument("departure_date", segment.DepartureDate,
				"must be in YYYY-MM-DD format")
		}
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	type itinerary struct {
		Segment          flightSegment `json:"segment"`
		AvailableFlights []Flight      `json:"available_flights"`
	}

	itineraries := make([]itinerary, 0, len(params.Segments))
	for _, segment := range params.Segments {
		itineraries = append(itineraries, itinerary{
			Segment: segment,
			AvailableFlights: doc.searchFlights(segment.Origin, segment.Destination,
				segment.DepartureDate, params.CabinClass, params.MaxConnections),
		})
	}

	return map[string]any{"itineraries": itineraries}, nil
}

func (s *Server) searchStays(ctx context.Context, args json.RawMessage) (any, error) {
	var params searchStaysArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, err
	}

	if params.Location == "" {
		return nil, dataset.NewInvalidArgument("location", params.Location, "must not be empty")
	}
	if !query.ValidDate(params.CheckIn) {
		return nil, dataset.NewInvalidArgument("check_in", params.CheckIn, "must be in YYYY-MM-DD format")
	}
	if !query.ValidDate(params.CheckOut) {
		return nil, dataset.NewInvalidArgument("check_out", params.CheckOut, "must be in YYYY-MM-DD format")
	}

	guests := params.Guests
	if guests == 0 {
		guests = defaultNumberOfGuests
	}
	page := 1
	if params.Page != nil {
		page = *params.Page
	}
	perPage := defaultStaysPerPage
	if params.PerPage != nil {
		perPage = *params.PerPage
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	matched := doc.searchStays(params.Location, params.CheckIn, params.CheckOut, guests)
	pageItems, pageInfo, err := query.Paginate(matched, page, perPage)
	if err != nil {
		return nil, err
	}

	s.logf(mockmcp.LogLevelDebug, "search_stays matched %d of %d stays", len(matched), len(doc.Stays))

	type staysPage struct {
		Stays []Stay `json:"stays"`
		query.PageInfo
	}
	return staysPage{Stays: pageItems, PageInfo: pageInfo}, nil
}

func (s *Server) stayReviews(ctx context.Context, args json.RawMessage) (any, error) {
	var params stayReviewsArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, err
	}

	if params.After != "" && !query.ValidDate(params.After) {
		return nil, dataset.NewInvalidArgument("after", params.After, "must be in YYYY-MM-DD format")
	}
	if params.Before != "" && !query.ValidDate(params.Before) {
		return nil, dataset.NewInvalidArgument("before", params.Before, "must be in YYYY-MM-DD format")
	}

	limit := defaultReviewLimit
	if params.Limit != nil {
		limit = *params.Limit
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	if !doc.hasStay(params.StayID) {
		return nil, dataset.NewReferenceNotFound("stay_id", params.StayID)
	}

	matched := doc.stayReviews(params.StayID, params.After, params.Before)
	if len(matched) > limit {
		matched = matched[:limit]
	}

	return map[string]any{"reviews": matched}, nil
}
