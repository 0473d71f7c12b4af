package datagen

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/MegaGrindStone/go-mockmcp/internal/dataset"
)

var baseDate = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func marshal(t *testing.T, v any) []byte {
	t.Helper()

	bs, err := dataset.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	return bs
}

func TestDeterministicOutput(t *testing.T) {
	build := func(g *Generator) []any {
		return []any{
			g.Calendar(10), g.Places(10), g.Flights(8, 4, 6),
			g.Trains(5), g.Shelters(6), g.Weather(4),
		}
	}

	first := build(New(42, baseDate))
	second := build(New(42, baseDate))
	for i := range first {
		if !bytes.Equal(marshal(t, first[i]), marshal(t, second[i])) {
			t.Errorf("document %d differs across runs with equal seed", i)
		}
	}

	other := build(New(43, baseDate))
	same := 0
	for i := range first {
		if bytes.Equal(marshal(t, first[i]), marshal(t, other[i])) {
			same++
		}
	}
	if same == len(first) {
		t.Error("different seeds produced identical output")
	}
}

func TestGeneratedDocumentsValidate(t *testing.T) {
	g := New(7, baseDate)

	docs := map[string]dataset.Document{
		"calendar": g.Calendar(12),
		"places":   g.Places(15),
		"flights":  g.Flights(10, 5, 8),
		"trains":   g.Trains(6),
		"shelters": g.Shelters(8),
		"weather":  g.Weather(5),
	}

	for name, doc := range docs {
		if err := doc.Validate(); err != nil {
			t.Errorf("generated %s dataset fails its contract: %v", name, err)
		}
	}
}

func TestGeneratedIDShape(t *testing.T) {
	doc := New(1, baseDate).Calendar(3)

	for _, event := range doc.Events {
		if len(event.ID) != 36 || strings.Count(event.ID, "-") != 4 {
			t.Errorf("event id %q is not a canonical uuid", event.ID)
		}
	}
}

func TestReviewsRequireStays(t *testing.T) {
	doc := New(1, baseDate).Flights(2, 0, 5)
	if len(doc.StayReviews) != 0 {
		t.Errorf("expected no reviews without stays, got %d", len(doc.StayReviews))
	}
}

func TestTimesDeriveFromBase(t *testing.T) {
	g := New(9, baseDate)

	for _, event := range g.Calendar(20).Events {
		start, err := time.Parse(time.RFC3339, event.Start.DateTime)
		if err != nil {
			t.Fatalf("failed to parse start time: %v", err)
		}
		if start.Before(baseDate) || start.After(baseDate.AddDate(0, 0, 29)) {
			t.Errorf("event start %s outside the generation window", event.Start.DateTime)
		}
	}
}
