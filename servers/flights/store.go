// Package flights implements a dataset-backed mock travel search server
// covering flight offers, multi-city itineraries, paginated stay search,
// and stay reviews.
package flights

import (
	"fmt"
	"sort"

	"github.com/MegaGrindStone/go-mockmcp/internal/dataset"
	"github.com/MegaGrindStone/go-mockmcp/internal/query"
)

// DatasetName is the conventional backing file name for this domain.
const DatasetName = "flights_dataset.json"

// Document is the flights dataset root.
type Document struct {
	Flights     []Flight     `json:"flights"`
	Stays       []Stay       `json:"stays"`
	StayReviews []StayReview `json:"stay_reviews"`
}

// Flight is one bookable flight offer.
type Flight struct {
	ID              string `json:"id"`
	Origin          string `json:"origin"`
	Destination     string `json:"destination"`
	DepartureDate   string `json:"departure_date"`
	DepartureTime   string `json:"departure_time"`
	ArrivalTime     string `json:"arrival_time"`
	Carrier         string `json:"carrier"`
	FlightNumber    string `json:"flight_number"`
	CabinClass      string `json:"cabin_class"`
	Connections     int    `json:"connections"`
	Price           Price  `json:"price"`
	DurationMinutes int    `json:"duration_minutes"`
}

// Price is an amount in a named currency.
type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Stay is one bookable accommodation.
type Stay struct {
	ID            string  `json:"id"`
	Location      string  `json:"location"`
	Name          string  `json:"name"`
	NightlyRate   float64 `json:"nightly_rate"`
	Capacity      int     `json:"capacity"`
	AvailableFrom string  `json:"available_from"`
	AvailableTo   string  `json:"available_to"`
	Rating        float64 `json:"rating"`
}

// StayReview is one guest review of a stay.
type StayReview struct {
	ID       string  `json:"id"`
	StayID   string  `json:"stay_id"`
	Reviewer string  `json:"reviewer"`
	Rating   float64 `json:"rating"`
	Comment  string  `json:"comment"`
	Date     string  `json:"date"`
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
	return Document{Flights: []Flight{}, Stays: []Stay{}, StayReviews: []StayReview{}}
}

// Validate implements the dataset.Document interface.
func (d Document) Validate() error {
	if d.Flights == nil {
		return dataset.NewContractViolation("flights", "missing required key")
	}
	if d.Stays == nil {
		return dataset.NewContractViolation("stays", "missing required key")
	}
	if d.StayReviews == nil {
		return dataset.NewContractViolation("stay_reviews", "missing required key")
	}

	for i, flight := range d.Flights {
		field := fmt.Sprintf("flights[%d]", i)
		if flight.ID == "" {
			return dataset.NewContractViolation(field+".id", "must not be empty")
		}
		if flight.Origin == "" || flight.Destination == "" {
			return dataset.NewContractViolation(field, "origin and destination must not be empty")
		}
		if !query.ValidDate(flight.DepartureDate) {
			return dataset.NewContractViolation(field+".departure_date", "not a YYYY-MM-DD date")
		}
	}
	for i, stay := range d.Stays {
		field := fmt.Sprintf("stays[%d]", i)
		if stay.ID == "" {
			return dataset.NewContractViolation(field+".id", "must not be empty")
		}
		if stay.Location == "" {
			return dataset.NewContractViolation(field+".location", "must not be empty")
		}
	}

	stayIDs := make(map[string]struct{}, len(d.Stays))
	for _, stay := range d.Stays {
		stayIDs[stay.ID] = struct{}{}
	}
	for i, review := range d.StayReviews {
		field := fmt.Sprintf("stay_reviews[%d]", i)
		if review.ID == "" {
			return dataset.NewContractViolation(field+".id", "must not be empty")
		}
		if _, ok := stayIDs[review.StayID]; !ok {
			return dataset.NewContractViolation(field+".stay_id",
				fmt.Sprintf("references unknown stay %q", review.StayID))
		}
	}

	return nil
}

// searchFlights returns the flights matching the supplied criteria in
// dataset order. Codes compare case-insensitively; a nil maxConnections
// imposes no constraint.
func (d Document) searchFlights(origin, destination, departureDate, cabinClass string, maxConnections *int) []Flight {
	matched := make([]Flight, 0)
	for _, flight := range d.Flights {
		if !query.EqualCode(flight.Origin, origin) {
			continue
		}
		if !query.EqualCode(flight.Destination, destination) {
			continue
		}
		if flight.DepartureDate != departureDate {
			continue
		}
		if cabinClass != "" && !query.EqualCode(flight.CabinClass, cabinClass) {
			continue
		}
		if maxConnections != nil && flight.Connections > *maxConnections {
			continue
		}
		matched = append(matched, flight)
	}
	return matched
}

func (d Document) findFlight(id string) (Flight, bool) {
	for _, flight := range d.Flights {
		if flight.ID == id {
			return flight, true
		}
	}
	return Flight{}, false
}

func (d Document) hasStay(id string) bool {
	for _, stay := range d.Stays {
		if stay.ID == id {
			return true
		}
	}
	return false
}

// searchStays returns the stays in a location that can host the party for
// the whole requested window, in dataset order.
func (d Document) searchStays(location, checkIn, checkOut string, guests int) []Stay {
	matched := make([]Stay, 0)
	for _, stay := range d.Stays {
		if !query.ContainsFold(stay.Location, location) {
			continue
		}
		if guests > 0 && stay.Capacity < guests {
			continue
		}
		// The availability window must contain the whole requested range.
		if stay.AvailableFrom > checkIn || stay.AvailableTo < checkOut {
			continue
		}
		matched = append(matched, stay)
	}
	return matched
}

// stayReviews returns the reviews of one stay inside the exclusive
// (after, before) date window, newest first.
func (d Document) stayReviews(stayID, after, before string) []StayReview {
	matched := make([]StayReview, 0)
	for _, review := range d.StayReviews {
		if review.StayID != stayID {
			continue
		}
		if after != "" && review.Date <= after {
			continue
		}
		if before != "" && review.Date >= before {
			continue
		}
		matched = append(matched, review)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Date > matched[j].Date
	})

	return matched
}
