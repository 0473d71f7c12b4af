package trains

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/MegaGrindStone/go-mockmcp"
	"github.com/MegaGrindStone/go-mockmcp/internal/dataset"
)

func fixtureDocument() Document {
	return Document{
		Stations: []Station{
			{Code: "BJP", Name: "Beijing South", City: "Beijing"},
			{Code: "SHH", Name: "Shanghai Hongqiao", City: "Shanghai"},
			{Code: "NJH", Name: "Nanjing South", City: "Nanjing"},
		},
		Tickets: []Ticket{
			{
				TrainNo: "G1", FromStation: "BJP", ToStation: "SHH", Date: "2025-04-01",
				DepartureTime: "09:00", ArrivalTime: "13:28", Duration: "4:28",
				Seats: map[string]Seat{
					"second_class": {Price: 553.0, Available: 120},
					"first_class":  {Price: 933.0, Available: 24},
				},
			},
			{
				TrainNo: "G3", FromStation: "BJP", ToStation: "SHH", Date: "2025-04-02",
				DepartureTime: "10:00", ArrivalTime: "14:30", Duration: "4:30",
				Seats: map[string]Seat{
					"second_class": {Price: 553.0, Available: 0},
				},
			},
			{
				TrainNo: "G105", FromStation: "BJP", ToStation: "NJH", Date: "2025-04-01",
				DepartureTime: "08:05", ArrivalTime: "11:40", Duration: "3:35",
				Seats: map[string]Seat{
					"second_class": {Price: 443.5, Available: 88},
				},
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
		t.Fatalf("expected tool error, got success: %s", result.Content[0].Text)
	}
	var body struct {
		Error struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(result.Content[0].Text), &body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body.Error.Kind
}

func TestSearchStations(t *testing.T) {
	srv := newTestServer(t)

	var res struct {
		Stations []Station `json:"stations"`
	}
	decodeResult(t, callTool(t, srv, "search_stations", map[string]any{"keyword": "south"}), &res)

	if len(res.Stations) != 2 {
		t.Fatalf("expected 2 stations, got %d", len(res.Stations))
	}

	// City names match too.
	decodeResult(t, callTool(t, srv, "search_stations", map[string]any{"keyword": "shanghai"}), &res)
	if len(res.Stations) != 1 || res.Stations[0].Code != "SHH" {
		t.Errorf("expected SHH, got %+v", res.Stations)
	}
}

func TestGetStationCode(t *testing.T) {
	srv := newTestServer(t)

	var res struct {
		Station Station `json:"station"`
	}
	decodeResult(t, callTool(t, srv, "get_station_code", map[string]any{"name": "beijing south"}), &res)

	if res.Station.Code != "BJP" {
		t.Errorf("expected BJP, got %s", res.Station.Code)
	}

	result := callTool(t, srv, "get_station_code", map[string]any{"name": "Atlantis Central"})
	if kind := errorKind(t, result); kind != "target_not_found" {
		t.Errorf("expected target_not_found, got %s", kind)
	}
}

func TestSearchTickets(t *testing.T) {
	srv := newTestServer(t)

	var res struct {
		Tickets []Ticket `json:"tickets"`
	}
	// Codes are case-insensitive.
	decodeResult(t, callTool(t, srv, "search_tickets", map[string]any{
		"date":         "2025-04-01",
		"from_station": "bjp",
		"to_station":   "shh",
	}), &res)

	if len(res.Tickets) != 1 || res.Tickets[0].TrainNo != "G1" {
		t.Fatalf("expected G1, got %+v", res.Tickets)
	}
	if res.Tickets[0].Seats["first_class"].Available != 24 {
		t.Errorf("unexpected seats: %+v", res.Tickets[0].Seats)
	}
}

func TestSearchTicketsBadDate(t *testing.T) {
	srv := newTestServer(t)

	result := callTool(t, srv, "search_tickets", map[string]any{
		"date":         "April 1st",
		"from_station": "BJP",
		"to_station":   "SHH",
	})
	if kind := errorKind(t, result); kind != "invalid_argument" {
		t.Errorf("expected invalid_argument, got %s", kind)
	}
}

func TestSearchTicketsUnknownStation(t *testing.T) {
	srv := newTestServer(t)

	result := callTool(t, srv, "search_tickets", map[string]any{
		"date":         "2025-04-01",
		"from_station": "XXX",
		"to_station":   "SHH",
	})
	if kind := errorKind(t, result); kind != "reference_not_found" {
		t.Errorf("expected reference_not_found, got %s", kind)
	}
}

func TestDocumentValidateStrict(t *testing.T) {
	// The strict contract rejects an empty station table.
	doc := Document{Stations: []Station{}, Tickets: []Ticket{}}
	if err := doc.Validate(); dataset.KindOf(err) != dataset.KindContractViolation {
		t.Errorf("expected contract_violation for empty stations, got %v", err)
	}

	doc = fixtureDocument()
	doc.Tickets = append(doc.Tickets, Ticket{TrainNo: "G9", FromStation: "ZZZ", ToStation: "SHH", Date: "2025-04-01"})
	if err := doc.Validate(); dataset.KindOf(err) != dataset.KindContractViolation {
		t.Errorf("expected contract_violation for dangling station reference, got %v", err)
	}
}
