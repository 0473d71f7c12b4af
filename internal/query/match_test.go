package query

import (
	"math"
	"testing"
	"time"

	"github.com/MegaGrindStone/go-mockmcp/internal/dataset"
)

func TestContainsFold(t *testing.T) {
	cases := []struct {
		s      string
		substr string
		want   bool
	}{
		{"Grand Central Terminal", "central", true},
		{"Grand Central Terminal", "CENTRAL", true},
		{"Grand Central Terminal", "harbor", false},
		{"Café de Flore", "CAFÉ", true},
		{"anything", "", true},
		{"", "x", false},
	}
	for _, c := range cases {
		if got := ContainsFold(c.s, c.substr); got != c.want {
			t.Errorf("ContainsFold(%q, %q): expected %v, got %v", c.s, c.substr, c.want, got)
		}
	}
}

func TestEqualCode(t *testing.T) {
	if !EqualCode("sfo", "SFO") {
		t.Error("expected codes to match ignoring case")
	}
	if EqualCode("SFO", "LAX") {
		t.Error("expected different codes not to match")
	}
}

func TestInRange(t *testing.T) {
	min := 10.0
	max := 20.0

	if !InRange(15, nil, nil) {
		t.Error("expected nil bounds to match anything")
	}
	if !InRange(10, &min, &max) {
		t.Error("expected lower bound to be inclusive")
	}
	if !InRange(20, &min, &max) {
		t.Error("expected upper bound to be inclusive")
	}
	if InRange(9.99, &min, &max) {
		t.Error("expected value below lower bound not to match")
	}
	if InRange(20.01, &min, &max) {
		t.Error("expected value above upper bound not to match")
	}
	if !InRange(5, nil, &max) {
		t.Error("expected value under max-only bound to match")
	}
	if InRange(5, &min, nil) {
		t.Error("expected value under min-only bound not to match")
	}
}

func TestParseTime(t *testing.T) {
	utc, err := ParseTime("2025-06-10T14:30:00Z")
	if err != nil {
		t.Fatalf("failed to parse UTC timestamp: %v", err)
	}

	offset, err := ParseTime("2025-06-10T16:30:00+02:00")
	if err != nil {
		t.Fatalf("failed to parse offset timestamp: %v", err)
	}
	if !utc.Equal(offset) {
		t.Errorf("expected %v and %v to be the same instant", utc, offset)
	}

	zoneless, err := ParseTime("2025-06-10T14:30:00")
	if err != nil {
		t.Fatalf("failed to parse zoneless timestamp: %v", err)
	}
	if !zoneless.Equal(utc) {
		t.Errorf("expected zoneless timestamp to be read as UTC, got %v", zoneless)
	}

	if _, err := ParseTime("June 10th 2025"); err == nil {
		t.Error("expected error for unparseable timestamp")
	}
}

func TestInTimeRange(t *testing.T) {
	min := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	max := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)
	inside := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	if !InTimeRange(inside, min, max) {
		t.Error("expected instant inside bounds to match")
	}
	if !InTimeRange(min, min, max) {
		t.Error("expected lower bound to be inclusive")
	}
	if !InTimeRange(max, min, max) {
		t.Error("expected upper bound to be inclusive")
	}
	if InTimeRange(min.Add(-time.Second), min, max) {
		t.Error("expected instant before range not to match")
	}
	if InTimeRange(max.Add(time.Second), min, max) {
		t.Error("expected instant after range not to match")
	}
	if !InTimeRange(inside, time.Time{}, time.Time{}) {
		t.Error("expected zero bounds to match anything")
	}
}

func TestValidDate(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"2025-06-10", true},
		{"2025-6-10", false},
		{"06/10/2025", false},
		{"2025-06-10T00:00:00Z", false},
		{"tomorrow", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ValidDate(c.in); got != c.want {
			t.Errorf("ValidDate(%q): expected %v, got %v", c.in, c.want, got)
		}
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	page, info, err := Paginate(items, 2, 3)
	if err != nil {
		t.Fatalf("failed to paginate: %v", err)
	}
	if len(page) != 3 || page[0] != 4 || page[2] != 6 {
		t.Errorf("expected items 4..6 on page 2, got %v", page)
	}
	want := PageInfo{TotalCount: 7, Page: 2, PerPage: 3, HasNextPage: true, HasPreviousPage: true}
	if info != want {
		t.Errorf("expected page info %+v, got %+v", want, info)
	}
}

func TestPaginateFirstAndLastPage(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	first, info, err := Paginate(items, 1, 2)
	if err != nil {
		t.Fatalf("failed to paginate first page: %v", err)
	}
	if len(first) != 2 || info.HasPreviousPage || !info.HasNextPage {
		t.Errorf("unexpected first page %v with info %+v", first, info)
	}

	last, info, err := Paginate(items, 3, 2)
	if err != nil {
		t.Fatalf("failed to paginate last page: %v", err)
	}
	if len(last) != 1 || last[0] != "e" {
		t.Errorf("expected final partial page [e], got %v", last)
	}
	if info.HasNextPage || !info.HasPreviousPage {
		t.Errorf("unexpected last page info %+v", info)
	}
}

func TestPaginateBeyondEnd(t *testing.T) {
	items := []int{1, 2, 3}

	page, info, err := Paginate(items, 5, 10)
	if err != nil {
		t.Fatalf("failed to paginate beyond end: %v", err)
	}
	if len(page) != 0 {
		t.Errorf("expected empty page beyond end, got %v", page)
	}
	if info.TotalCount != 3 || info.HasNextPage || !info.HasPreviousPage {
		t.Errorf("unexpected beyond-end page info %+v", info)
	}
}

func TestPaginateHugePage(t *testing.T) {
	items := []int{1, 2, 3}

	page, info, err := Paginate(items, math.MaxInt, 10)
	if err != nil {
		t.Fatalf("failed to paginate huge page: %v", err)
	}
	if len(page) != 0 {
		t.Errorf("expected empty page for huge page number, got %v", page)
	}
	if info.TotalCount != 3 || info.HasNextPage || !info.HasPreviousPage {
		t.Errorf("unexpected huge-page info %+v", info)
	}

	second, _, err := Paginate(items, 2, math.MaxInt)
	if err != nil {
		t.Fatalf("failed to paginate with huge per_page: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("expected empty second page with huge per_page, got %v", second)
	}

	empty, _, err := Paginate([]int{}, math.MaxInt, math.MaxInt)
	if err != nil {
		t.Fatalf("failed to paginate empty set: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty page from empty set, got %v", empty)
	}
}

func TestPaginateInvalidArguments(t *testing.T) {
	items := []int{1, 2, 3}

	if _, _, err := Paginate(items, 0, 10); dataset.KindOf(err) != dataset.KindInvalidArgument {
		t.Errorf("expected invalid argument error for page 0, got %v", err)
	}
	if _, _, err := Paginate(items, 1, 0); dataset.KindOf(err) != dataset.KindInvalidArgument {
		t.Errorf("expected invalid argument error for per_page 0, got %v", err)
	}
}
