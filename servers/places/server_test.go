package places

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/MegaGrindStone/go-mockmcp"
	"github.com/MegaGrindStone/go-mockmcp/internal/dataset"
)

// fixtureDocument holds five places around downtown San Francisco; the
// first three sit within 1000 meters of (37.7749, -122.4194).
func fixtureDocument() Document {
	rating := 4.5
	return Document{
		Places: []Place{
			{
				ID: "place-1", Name: "Golden Grind", Address: "1 Market St, San Francisco",
				Latitude: 37.7749, Longitude: -122.4194, Category: "cafe", Rating: &rating,
			},
			{
				ID: "place-2", Name: "Mission Beans", Address: "200 Valencia St, San Francisco",
				Latitude: 37.7790, Longitude: -122.4194, Category: "cafe",
			},
			{
				ID: "place-3", Name: "Hayes Bakery", Address: "55 Hayes St, San Francisco",
				Latitude: 37.7749, Longitude: -122.4294, Category: "cafe",
			},
			{
				ID: "place-4", Name: "Marina Coffee", Address: "900 North Point St, San Francisco",
				Latitude: 37.7949, Longitude: -122.4194, Category: "cafe",
			},
			{
				ID: "place-5", Name: "Dogpatch Roasters", Address: "700 22nd St, San Francisco",
				Latitude: 37.7749, Longitude: -122.3894, Category: "cafe",
			},
		},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	path := filepath.Join(t.TempDir(), DatasetName)
	store := NewStore(path, false)
	if err := store.Save(context.Background(), fixtureDocument()); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	return NewServer(store)
}

func callTool(t *testing.T, s *Server, name string, args any) mockmcp.CallToolResult {
	t.Helper()

	argsBs, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("failed to marshal args: %v", err)
	}

	result, err := s.CallTool(context.Background(), mockmcp.CallToolParams{
		Name:      name,
		Arguments: argsBs,
	})
	if err != nil {
		t.Fatalf("CallTool %s returned protocol error: %v", name, err)
	}
	return result
}

func decodeResult(t *testing.T, result mockmcp.CallToolResult, v any) {
	t.Helper()

	if result.IsError {
		t.Fatalf("unexpected tool error: %s", result.Content[0].Text)
	}
	if err := json.Unmarshal([]byte(result.Content[0].Text), v); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
}

func TestSearchNearby(t *testing.T) {
	srv := newTestServer(t)

	var res struct {
		Places []placeWithDistance `json:"places"`
	}
	decodeResult(t, callTool(t, srv, "search_nearby", map[string]any{
		"latitude":  37.7749,
		"longitude": -122.4194,
		"radius":    1000,
	}), &res)

	if len(res.Places) != 3 {
		t.Fatalf("expected 3 places within 1000m, got %d", len(res.Places))
	}
	// A place at the reference point itself is always included.
	if res.Places[0].ID != "place-1" || res.Places[0].Distance != 0 {
		t.Errorf("expected place-1 at distance 0 first, got %s at %v", res.Places[0].ID, res.Places[0].Distance)
	}
	// Ascending by computed distance.
	for i := 1; i < len(res.Places); i++ {
		if res.Places[i].Distance < res.Places[i-1].Distance {
			t.Errorf("results not sorted by distance: %v before %v",
				res.Places[i-1].Distance, res.Places[i].Distance)
		}
	}
	if res.Places[1].ID != "place-2" || res.Places[2].ID != "place-3" {
		t.Errorf("unexpected order: %s, %s", res.Places[1].ID, res.Places[2].ID)
	}
}

func TestSearchNearbyCategoryMismatch(t *testing.T) {
	srv := newTestServer(t)

	var res struct {
		Places []placeWithDistance `json:"places"`
	}
	decodeResult(t, callTool(t, srv, "search_nearby", map[string]any{
		"latitude":  37.7749,
		"longitude": -122.4194,
		"category":  "museum",
	}), &res)

	if len(res.Places) != 0 {
		t.Errorf("expected no museums, got %d", len(res.Places))
	}
}

func TestSearchNearbyDefaultRadius(t *testing.T) {
	srv := newTestServer(t)

	var res struct {
		Places []placeWithDistance `json:"places"`
	}
	decodeResult(t, callTool(t, srv, "search_nearby", map[string]any{
		"latitude":  37.7749,
		"longitude": -122.4194,
		"category":  "CAFE",
	}), &res)

	// Category matching is case-insensitive and the default radius is
	// 1000 meters.
	if len(res.Places) != 3 {
		t.Errorf("expected 3 places with default radius, got %d", len(res.Places))
	}
}

func TestGetPlaceDetails(t *testing.T) {
	srv := newTestServer(t)

	var res struct {
		Place Place `json:"place"`
	}
	decodeResult(t, callTool(t, srv, "get_place_details", map[string]any{"place_id": "place-3"}), &res)

	if res.Place.Name != "Hayes Bakery" {
		t.Errorf("expected Hayes Bakery, got %s", res.Place.Name)
	}
}

func TestGetPlaceDetailsUnknown(t *testing.T) {
	srv := newTestServer(t)

	result := callTool(t, srv, "get_place_details", map[string]any{"place_id": "nope"})
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	var body struct {
		Error struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(result.Content[0].Text), &body); err != nil {
		t.Fatalf("failed to decode error: %v", err)
	}
	if body.Error.Kind != "target_not_found" {
		t.Errorf("expected target_not_found, got %s", body.Error.Kind)
	}
}

func TestGeocode(t *testing.T) {
	srv := newTestServer(t)

	var res struct {
		Status  string          `json:"status"`
		Results []geocodeResult `json:"results"`
	}
	decodeResult(t, callTool(t, srv, "geocode", map[string]any{"address": "valencia"}), &res)

	if res.Status != "OK" {
		t.Fatalf("expected OK, got %s", res.Status)
	}
	if len(res.Results) != 1 || res.Results[0].ID != "place-2" {
		t.Fatalf("expected place-2, got %+v", res.Results)
	}
	if res.Results[0].Location.Latitude != 37.7790 {
		t.Errorf("unexpected location: %+v", res.Results[0].Location)
	}
}

func TestGeocodeZeroResults(t *testing.T) {
	srv := newTestServer(t)

	var res struct {
		Status  string          `json:"status"`
		Results []geocodeResult `json:"results"`
	}
	decodeResult(t, callTool(t, srv, "geocode", map[string]any{"address": "atlantis"}), &res)

	if res.Status != "ZERO_RESULTS" {
		t.Errorf("expected ZERO_RESULTS, got %s", res.Status)
	}
	if len(res.Results) != 0 {
		t.Errorf("expected no results, got %d", len(res.Results))
	}
}

func TestReverseGeocode(t *testing.T) {
	srv := newTestServer(t)

	var res struct {
		Status           string `json:"status"`
		FormattedAddress string `json:"formatted_address"`
	}
	decodeResult(t, callTool(t, srv, "reverse_geocode", map[string]any{
		"latitude":  37.7750,
		"longitude": -122.4195,
	}), &res)

	if res.Status != "OK" {
		t.Fatalf("expected OK, got %s", res.Status)
	}
	if res.FormattedAddress != "1 Market St, San Francisco" {
		t.Errorf("expected nearest place address, got %s", res.FormattedAddress)
	}

	// Far outside the 0.1 degree window on both axes.
	decodeResult(t, callTool(t, srv, "reverse_geocode", map[string]any{
		"latitude":  40.7128,
		"longitude": -74.0060,
	}), &res)
	if res.Status != "ZERO_RESULTS" {
		t.Errorf("expected ZERO_RESULTS, got %s", res.Status)
	}
}

func TestDistanceMatrix(t *testing.T) {
	srv := newTestServer(t)

	var res struct {
		Rows []matrixRow `json:"rows"`
	}
	decodeResult(t, callTool(t, srv, "distance_matrix", map[string]any{
		"origins":      []string{"Market St"},
		"destinations": []string{"Hayes St", "unknown road"},
	}), &res)

	if len(res.Rows) != 1 || len(res.Rows[0].Elements) != 2 {
		t.Fatalf("unexpected matrix shape: %+v", res.Rows)
	}
	first := res.Rows[0].Elements[0]
	if first.Status != "OK" || first.DistanceMeters <= 0 || first.DurationSeconds <= 0 {
		t.Errorf("unexpected first element: %+v", first)
	}
	if res.Rows[0].Elements[1].Status != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND for unresolvable name, got %+v", res.Rows[0].Elements[1])
	}
}

func TestFallbackStore(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.json"), true)
	srv := NewServer(store)

	var res struct {
		Places []placeWithDistance `json:"places"`
	}
	decodeResult(t, callTool(t, srv, "search_nearby", map[string]any{
		"latitude":  37.7749,
		"longitude": -122.4194,
	}), &res)

	if len(res.Places) != 0 {
		t.Errorf("expected empty result from fallback store, got %d", len(res.Places))
	}
}

func TestFilterConjunction(t *testing.T) {
	srv := newTestServer(t)

	// Adding a criterion never grows the result set.
	var unfiltered, filtered struct {
		Places []placeWithDistance `json:"places"`
	}
	decodeResult(t, callTool(t, srv, "search_nearby", map[string]any{
		"latitude":  37.7749,
		"longitude": -122.4194,
		"radius":    5000,
	}), &unfiltered)
	decodeResult(t, callTool(t, srv, "search_nearby", map[string]any{
		"latitude":  37.7749,
		"longitude": -122.4194,
		"radius":    5000,
		"category":  "cafe",
	}), &filtered)

	if len(filtered.Places) > len(unfiltered.Places) {
		t.Errorf("adding a filter grew the result: %d > %d", len(filtered.Places), len(unfiltered.Places))
	}
}

func TestDocumentValidate(t *testing.T) {
	if err := (Document{}).Validate(); dataset.KindOf(err) != dataset.KindContractViolation {
		t.Errorf("expected contract_violation for missing key, got %v", err)
	}

	doc := Document{Places: []Place{{ID: "p", Name: "n"}}}
	if err := doc.Validate(); dataset.KindOf(err) != dataset.KindContractViolation {
		t.Errorf("expected contract_violation for missing category, got %v", err)
	}
}
