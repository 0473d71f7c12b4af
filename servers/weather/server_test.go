package weather

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/MegaGrindStone/go-mockmcp"
)

func fixtureDocument() Document {
	return Document{
		Observations: []Observation{
			{
				StationID: "KSFO", City: "San Francisco",
				Latitude: 37.6213, Longitude: -122.3790,
				TemperatureC: 16.1, Humidity: 78, WindKph: 22.5,
				Condition: "Partly cloudy", ObservedAt: "2024-06-01T15:00:00Z",
			},
			{
				StationID: "KOAK", City: "Oakland",
				Latitude: 37.7214, Longitude: -122.2208,
				TemperatureC: 18.3, Humidity: 65, WindKph: 14.0,
				Condition: "Sunny", ObservedAt: "2024-06-01T15:00:00Z",
			},
			{
				StationID: "KSJC", City: "San Jose",
				Latitude: 37.3639, Longitude: -121.9289,
				TemperatureC: 22.7, Humidity: 52, WindKph: 9.5,
				Condition: "Clear", ObservedAt: "2024-06-01T15:00:00Z",
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

func errorKind(t *testing.T, result mockmcp.CallToolResult) string {
	t.Helper()

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
	return body.Error.Kind
}

func TestGetLiveWeatherExactMatch(t *testing.T) {
	srv := newTestServer(t)

	var res struct {
		Observation Observation `json:"observation"`
		Matched     string      `json:"matched"`
	}
	// Just inside the per-axis tolerance of KSFO.
	decodeResult(t, callTool(t, srv, "get_live_weather", map[string]any{
		"latitude":  37.62135,
		"longitude": -122.37905,
	}), &res)

	if res.Matched != "exact" {
		t.Errorf("expected exact match, got %s", res.Matched)
	}
	if res.Observation.StationID != "KSFO" {
		t.Errorf("expected KSFO, got %s", res.Observation.StationID)
	}
}

func TestGetLiveWeatherNearestMatch(t *testing.T) {
	srv := newTestServer(t)

	var res struct {
		Observation Observation `json:"observation"`
		Matched     string      `json:"matched"`
	}
	// Downtown Oakland: no station within tolerance, KOAK is closest.
	decodeResult(t, callTool(t, srv, "get_live_weather", map[string]any{
		"latitude":  37.8044,
		"longitude": -122.2712,
	}), &res)

	if res.Matched != "nearest" {
		t.Errorf("expected nearest match, got %s", res.Matched)
	}
	if res.Observation.StationID != "KOAK" {
		t.Errorf("expected KOAK, got %s", res.Observation.StationID)
	}
}

func TestGetLiveWeatherEmptyDataset(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.json"), true)
	srv := NewServer(store)

	result := callTool(t, srv, "get_live_weather", map[string]any{
		"latitude":  37.0,
		"longitude": -122.0,
	})
	if kind := errorKind(t, result); kind != "target_not_found" {
		t.Errorf("expected target_not_found, got %s", kind)
	}
}

func TestListStations(t *testing.T) {
	srv := newTestServer(t)

	var res struct {
		Stations []Observation `json:"stations"`
	}
	decodeResult(t, callTool(t, srv, "list_stations", map[string]any{}), &res)
	if len(res.Stations) != 3 {
		t.Fatalf("expected 3 stations, got %d", len(res.Stations))
	}

	decodeResult(t, callTool(t, srv, "list_stations", map[string]any{"city": "san"}), &res)
	if len(res.Stations) != 2 {
		t.Fatalf("expected 2 stations matching city substring, got %d", len(res.Stations))
	}
	for _, obs := range res.Stations {
		if obs.City != "San Francisco" && obs.City != "San Jose" {
			t.Errorf("unexpected station %s in filtered result", obs.StationID)
		}
	}
}

func TestStrictStoreMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.json"), false)
	srv := NewServer(store)

	result := callTool(t, srv, "list_stations", map[string]any{})
	if kind := errorKind(t, result); kind != "not_found" {
		t.Errorf("expected not_found, got %s", kind)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     Document
		wantErr bool
	}{
		{"valid", fixtureDocument(), false},
		{"empty", EmptyDocument(), false},
		{"missing key", Document{}, true},
		{
			"empty station id",
			Document{Observations: []Observation{{City: "X", Condition: "Clear", ObservedAt: "2024-06-01T15:00:00Z"}}},
			true,
		},
		{
			"duplicate station id",
			Document{Observations: []Observation{
				{StationID: "A", City: "X", Condition: "Clear", ObservedAt: "2024-06-01T15:00:00Z"},
				{StationID: "A", City: "Y", Condition: "Clear", ObservedAt: "2024-06-01T15:00:00Z"},
			}},
			true,
		},
		{
			"bad timestamp",
			Document{Observations: []Observation{
				{StationID: "A", City: "X", Condition: "Clear", ObservedAt: "yesterday"},
			}},
			true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.doc.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
