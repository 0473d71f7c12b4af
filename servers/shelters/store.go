// Package shelters implements a dataset-backed mock dog shelter finder for
// San Francisco. It is the one imperial-unit domain in the module: the
// canonical meter distances convert to miles at this boundary.
package shelters

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MegaGrindStone/go-mockmcp/internal/dataset"
	"github.com/MegaGrindStone/go-mockmcp/internal/geo"
)

// DatasetName is the conventional backing file name for this domain.
const DatasetName = "shelters_dataset.json"

// neighborhoodCoords maps the known San Francisco neighborhoods to their
// approximate centers. Location criteria resolve through this table.
var neighborhoodCoords = map[string][2]float64{
	"potrero hill":    {37.758, -122.397},
	"noe valley":      {37.751, -122.434},
	"hayes valley":    {37.777, -122.426},
	"marina":          {37.803, -122.440},
	"sunset":          {37.759, -122.497},
	"russian hill":    {37.802, -122.424},
	"north beach":     {37.805, -122.410},
	"pacific heights": {37.790, -122.442},
	"bernal heights":  {37.745, -122.417},
}

// Document is the shelters dataset root.
type Document struct {
	Shelters []Shelter `json:"shelters"`
}

// Shelter is one shelter record.
type Shelter struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Neighborhood string   `json:"neighborhood"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	Services     []string `json:"services"`
	HasVacancy   bool     `json:"has_vacancy"`
	Phone        *string  `json:"phone,omitempty"`
}

// shelterWithDistance augments a matched shelter with its distance from
// the reference point in miles, rounded to two decimals. The pointer keeps
// the field out of name-sorted results where no reference point exists.
type shelterWithDistance struct {
	Shelter
	Distance *float64 `json:"distance,omitempty"`
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
	return Document{Shelters: []Shelter{}}
}

// Validate implements the dataset.Document interface.
func (d Document) Validate() error {
	if d.Shelters == nil {
		return dataset.NewContractViolation("shelters", "missing required key")
	}

	ids := make(map[string]struct{}, len(d.Shelters))
	for i, shelter := range d.Shelters {
		field := fmt.Sprintf("shelters[%d]", i)
		if shelter.ID == "" {
			return dataset.NewContractViolation(field+".id", "must not be empty")
		}
		if _, ok := ids[shelter.ID]; ok {
			return dataset.NewContractViolation(field+".id", fmt.Sprintf("duplicate shelter id %q", shelter.ID))
		}
		ids[shelter.ID] = struct{}{}
		if shelter.Name == "" {
			return dataset.NewContractViolation(field+".name", "must not be empty")
		}
		if shelter.Address == "" {
			return dataset.NewContractViolation(field+".address", "must not be empty")
		}
		if shelter.Neighborhood == "" {
			return dataset.NewContractViolation(field+".neighborhood", "must not be empty")
		}
	}

	return nil
}

// resolveNeighborhood returns the reference coordinates for a location
// criterion, case-insensitively.
func resolveNeighborhood(location string) (lat, lon float64, ok bool) {
	coords, ok := neighborhoodCoords[strings.ToLower(location)]
	if !ok {
		return 0, 0, false
	}
	return coords[0], coords[1], true
}

// offersServices reports whether the shelter offers every required
// service, case-insensitively.
func (s Shelter) offersServices(required []string) bool {
	for _, want := range required {
		found := false
		for _, have := range s.Services {
			if strings.EqualFold(have, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// findShelters returns the shelters matching the supplied criteria. With a
// reference point the results carry a miles distance and sort closest
// first; without one they sort by name.
func (d Document) findShelters(refLat, refLon *float64, maxDistance *float64,
	services []string, hasVacancy *bool,
) []shelterWithDistance {
	matched := make([]shelterWithDistance, 0, len(d.Shelters))
	for _, shelter := range d.Shelters {
		if !shelter.offersServices(services) {
			continue
		}
		if hasVacancy != nil && shelter.HasVacancy != *hasVacancy {
			continue
		}

		var distance *float64
		if refLat != nil && refLon != nil {
			miles := geo.Round2(geo.Miles(geo.Distance(*refLat, *refLon, shelter.Latitude, shelter.Longitude)))
			if maxDistance != nil && miles > *maxDistance {
				continue
			}
			distance = &miles
		}

		matched = append(matched, shelterWithDistance{Shelter: shelter, Distance: distance})
	}

	if refLat != nil && refLon != nil {
		sort.SliceStable(matched, func(i, j int) bool {
			return *matched[i].Distance < *matched[j].Distance
		})
	} else {
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].Name < matched[j].Name
		})
	}

	return matched
}

func (d Document) findShelter(id string) (Shelter, bool) {
	for _, shelter := range d.Shelters {
		if shelter.ID == id {
			return shelter, true
		}
	}
	return Shelter{}, false
}
