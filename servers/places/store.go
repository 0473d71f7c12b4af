// Package places implements a dataset-backed mock place search server:
// radius search, place details, forward and reverse geocoding, and a
// distance matrix, all over one offline collection of places.
package places

import (
	"fmt"
	"sort"

	"github.com/MegaGrindStone/go-mockmcp/internal/dataset"
	"github.com/MegaGrindStone/go-mockmcp/internal/geo"
	"github.com/MegaGrindStone/go-mockmcp/internal/query"
)

// DatasetName is the conventional backing file name for this domain.
const DatasetName = "places_dataset.json"

// defaultRadiusMeters is the search radius applied when the caller omits
// one.
const defaultRadiusMeters = 1000.0

// reverseGeocodeTolerance is the per-axis degree window a place must fall
// in to answer a reverse geocode.
const reverseGeocodeTolerance = 0.1

// Document is the places dataset root.
type Document struct {
	Places []Place `json:"places"`
}

// Place is one place record.
type Place struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Category  string   `json:"category"`
	Rating    *float64 `json:"rating,omitempty"`
}

// placeWithDistance augments a matched place with its computed distance in
// meters, rounded to two decimals.
type placeWithDistance struct {
	Place
	Distance float64 `json:"distance"`
}

// NewStore creates the dataset store for this domain. The default contract
// for this domain falls back to an empty dataset when the file is absent.
func NewStore(path string, fallback bool) *dataset.Store[Document] {
	if fallback {
		return dataset.New(path, dataset.WithFallback(EmptyDocument))
	}
	return dataset.New[Document](path)
}

// EmptyDocument returns the fallback document used when the backing file
// is allowed to be absent.
func EmptyDocument() Document {
	return Document{Places: []Place{}}
}

// Validate implements the dataset.Document interface.
func (d Document) Validate() error {
	if d.Places == nil {
		return dataset.NewContractViolation("places", "missing required key")
	}

	ids := make(map[string]struct{}, len(d.Places))
	for i, place := range d.Places {
		field := fmt.Sprintf("places[%d]", i)
		if place.ID == "" {
			return dataset.NewContractViolation(field+".id", "must not be empty")
		}
		if _, ok := ids[place.ID]; ok {
			return dataset.NewContractViolation(field+".id", fmt.Sprintf("duplicate place id %q", place.ID))
		}
		ids[place.ID] = struct{}{}
		if place.Name == "" {
			return dataset.NewContractViolation(field+".name", "must not be empty")
		}
		if place.Category == "" {
			return dataset.NewContractViolation(field+".category", "must not be empty")
		}
	}

	return nil
}

// searchNearby returns the places of the given category within radius
// meters of the reference point, closest first. An empty category matches
// every place.
func (d Document) searchNearby(lat, lon float64, category string, radius float64) []placeWithDistance {
	matched := make([]placeWithDistance, 0, len(d.Places))
	for _, place := range d.Places {
		if category != "" && !query.EqualCode(place.Category, category) {
			continue
		}
		distance := geo.Distance(lat, lon, place.Latitude, place.Longitude)
		if distance > radius {
			continue
		}
		matched = append(matched, placeWithDistance{
			Place:    place,
			Distance: geo.Round2(distance),
		})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Distance < matched[j].Distance
	})

	return matched
}

func (d Document) findPlace(id string) (Place, bool) {
	for _, place := range d.Places {
		if place.ID == id {
			return place, true
		}
	}
	return Place{}, false
}

// geocode returns the places whose address contains the query,
// case-insensitively.
func (d Document) geocode(address string) []Place {
	matched := make([]Place, 0)
	for _, place := range d.Places {
		if query.ContainsFold(place.Address, address) {
			matched = append(matched, place)
		}
	}
	return matched
}

// reverseGeocode returns the place nearest to the reference point, as long
// as it falls within the tolerance window on both axes.
func (d Document) reverseGeocode(lat, lon float64) (Place, bool) {
	var nearest Place
	nearestDistance := -1.0
	for _, place := range d.Places {
		if abs(place.Latitude-lat) > reverseGeocodeTolerance || abs(place.Longitude-lon) > reverseGeocodeTolerance {
			continue
		}
		distance := geo.Distance(lat, lon, place.Latitude, place.Longitude)
		if nearestDistance < 0 || distance < nearestDistance {
			nearest = place
			nearestDistance = distance
		}
	}
	return nearest, nearestDistance >= 0
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
