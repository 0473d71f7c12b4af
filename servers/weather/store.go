// Package weather implements a dataset-backed mock live weather service.
package weather

import (
	"fmt"
	"math"
	"time"

	"github.com/MegaGrindStone/go-mockmcp/internal/dataset"
	"github.com/MegaGrindStone/go-mockmcp/internal/query"
)

// DatasetName is the conventional backing file name for this domain.
const DatasetName = "weather_dataset.json"

// coordTolerance is the per-axis tolerance, in degrees, within which a
// queried coordinate counts as an exact station match.
const coordTolerance = 1e-4

// Document is the weather dataset root.
type Document struct {
	Observations []Observation `json:"observations"`
}

// Observation is one station's current conditions.
type Observation struct {
	StationID    string  `json:"station_id"`
	City         string  `json:"city"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	TemperatureC float64 `json:"temperature_c"`
	Humidity     float64 `json:"humidity"`
	WindKph      float64 `json:"wind_kph"`
	Condition    string  `json:"condition"`
	ObservedAt   string  `json:"observed_at"`
}

// NewStore creates the dataset store for this domain. The default contract
// for this domain requires the backing file to exist.
func NewStore(path string, fallback bool) *dataset.Store[Document] {
	if fallback {
		return dataset.New(path, dataset.WithFallback(EmptyDocument))
	}
	return dataset.New[Document](path)
}

// EmptyDocument returns an empty weather document.
func EmptyDocument() Document {
	return Document{Observations: []Observation{}}
}

// Validate implements the dataset.Document interface.
func (d Document) Validate() error {
	if d.Observations == nil {
		return dataset.NewContractViolation("observations", "missing required key")
	}

	ids := make(map[string]struct{}, len(d.Observations))
	for i, obs := range d.Observations {
		field := fmt.Sprintf("observations[%d]", i)
		if obs.StationID == "" {
			return dataset.NewContractViolation(field+".station_id", "must not be empty")
		}
		if _, ok := ids[obs.StationID]; ok {
			return dataset.NewContractViolation(field+".station_id",
				fmt.Sprintf("duplicate station id %q", obs.StationID))
		}
		ids[obs.StationID] = struct{}{}
		if obs.City == "" {
			return dataset.NewContractViolation(field+".city", "must not be empty")
		}
		if obs.Condition == "" {
			return dataset.NewContractViolation(field+".condition", "must not be empty")
		}
		if _, err := time.Parse(time.RFC3339, obs.ObservedAt); err != nil {
			return dataset.NewContractViolation(field+".observed_at", "must be an RFC 3339 timestamp")
		}
	}

	return nil
}

// findStation locates the observation for the queried coordinates. An
// observation within coordTolerance on both axes is an exact match;
// otherwise the nearest station by squared-degree distance wins. The
// returned flag reports whether the dataset was empty.
func (d Document) findStation(lat, lon float64) (obs Observation, exact, found bool) {
	if len(d.Observations) == 0 {
		return Observation{}, false, false
	}

	best := 0
	bestDist := math.Inf(1)
	for i, candidate := range d.Observations {
		if math.Abs(candidate.Latitude-lat) <= coordTolerance &&
			math.Abs(candidate.Longitude-lon) <= coordTolerance {
			return candidate, true, true
		}

		dLat := candidate.Latitude - lat
		dLon := candidate.Longitude - lon
		if dist := dLat*dLat + dLon*dLon; dist < bestDist {
			best, bestDist = i, dist
		}
	}

	return d.Observations[best], false, true
}

// listStations returns the observations matching an optional city substring.
func (d Document) listStations(city string) []Observation {
	matched := make([]Observation, 0, len(d.Observations))
	for _, obs := range d.Observations {
		if city != "" && !query.ContainsFold(obs.City, city) {
			continue
		}
		matched = append(matched, obs)
	}
	return matched
}
