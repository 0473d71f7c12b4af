// Package trains implements a dataset-backed mock railway ticket server
// with the strictest loader contract in the module: the station table must
// be present and non-empty before any search runs.
package trains

import (
	"fmt"

	"github.com/MegaGrindStone/go-mockmcp/internal/dataset"
	"github.com/MegaGrindStone/go-mockmcp/internal/query"
)

// DatasetName is the conventional backing file name for this domain.
const DatasetName = "trains_dataset.json"

// Document is the trains dataset root.
type Document struct {
	Stations []Station `json:"stations"`
	Tickets  []Ticket  `json:"tickets"`
}

// Station is one railway station record.
type Station struct {
	Code string `json:"code"`
	Name string `json:"name"`
	City string `json:"city"`
}

// Ticket is one bookable train run between two stations on a date.
type Ticket struct {
	TrainNo       string          `json:"train_no"`
	FromStation   string          `json:"from_station"`
	ToStation     string          `json:"to_station"`
	Date          string          `json:"date"`
	DepartureTime string          `json:"departure_time"`
	ArrivalTime   string          `json:"arrival_time"`
	Duration      string          `json:"duration"`
	Seats         map[string]Seat `json:"seats"`
}

// Seat is the price and remaining availability for one seat type.
type Seat struct {
	Price     float64 `json:"price"`
	Available int     `json:"available"`
}

// NewStore creates the dataset store for this domain. The contract is
// strict; the fallback flag exists for configuration symmetry with the
// laxer domains.
func NewStore(path string, fallback bool) *dataset.Store[Document] {
	if fallback {
		return dataset.New(path, dataset.WithFallback(EmptyDocument))
	}
	return dataset.New[Document](path)
}

// EmptyDocument returns a fallback document. Note that it does not satisfy
// Validate: the strict contract requires a non-empty station table, and
// the fallback path bypasses validation by design.
func EmptyDocument() Document {
	return Document{Stations: []Station{}, Tickets: []Ticket{}}
}

// Validate implements the dataset.Document interface.
func (d Document) Validate() error {
	if d.Stations == nil {
		return dataset.NewContractViolation("stations", "missing required key")
	}
	if len(d.Stations) == 0 {
		return dataset.NewContractViolation("stations", "must not be empty")
	}
	if d.Tickets == nil {
		return dataset.NewContractViolation("tickets", "missing required key")
	}

	codes := make(map[string]struct{}, len(d.Stations))
	for i, station := range d.Stations {
		field := fmt.Sprintf("stations[%d]", i)
		if station.Code == "" {
			return dataset.NewContractViolation(field+".code", "must not be empty")
		}
		if station.Name == "" {
			return dataset.NewContractViolation(field+".name", "must not be empty")
		}
		if station.City == "" {
			return dataset.NewContractViolation(field+".city", "must not be empty")
		}
		codes[station.Code] = struct{}{}
	}

	for i, ticket := range d.Tickets {
		field := fmt.Sprintf("tickets[%d]", i)
		if ticket.TrainNo == "" {
			return dataset.NewContractViolation(field+".train_no", "must not be empty")
		}
		if !query.ValidDate(ticket.Date) {
			return dataset.NewContractViolation(field+".date", "not a YYYY-MM-DD date")
		}
		if _, ok := codes[ticket.FromStation]; !ok {
			return dataset.NewContractViolation(field+".from_station",
				fmt.Sprintf("references unknown station %q", ticket.FromStation))
		}
		if _, ok := codes[ticket.ToStation]; !ok {
			return dataset.NewContractViolation(field+".to_station",
				fmt.Sprintf("references unknown station %q", ticket.ToStation))
		}
	}

	return nil
}

// searchStations returns the stations whose name or city contains the
// keyword, case-insensitively, in dataset order.
func (d Document) searchStations(keyword string) []Station {
	matched := make([]Station, 0)
	for _, station := range d.Stations {
		if query.ContainsFold(station.Name, keyword) || query.ContainsFold(station.City, keyword) {
			matched = append(matched, station)
		}
	}
	return matched
}

func (d Document) stationByName(name string) (Station, bool) {
	for _, station := range d.Stations {
		if query.EqualCode(station.Name, name) {
			return station, true
		}
	}
	return Station{}, false
}

func (d Document) hasStationCode(code string) bool {
	for _, station := range d.Stations {
		if query.EqualCode(station.Code, code) {
			return true
		}
	}
	return false
}

// searchTickets returns the tickets between two station codes on a date,
// in dataset order. Codes compare case-insensitively.
func (d Document) searchTickets(date, fromStation, toStation string) []Ticket {
	matched := make([]Ticket, 0)
	for _, ticket := range d.Tickets {
		if ticket.Date != date {
			continue
		}
		if !query.EqualCode(ticket.FromStation, fromStation) {
			continue
		}
		if !query.EqualCode(ticket.ToStation, toStation) {
			continue
		}
		matched = append(matched, ticket)
	}
	return matched
}
