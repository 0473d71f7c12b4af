// Package datagen produces deterministic sample datasets for every domain.
// All randomness flows from one seeded source and all times derive from one
// base instant, so equal inputs serialize to byte-identical files.
package datagen

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/MegaGrindStone/go-mockmcp/servers/calendar"
	"github.com/MegaGrindStone/go-mockmcp/servers/flights"
	"github.com/MegaGrindStone/go-mockmcp/servers/places"
	"github.com/MegaGrindStone/go-mockmcp/servers/shelters"
	"github.com/MegaGrindStone/go-mockmcp/servers/trains"
	"github.com/MegaGrindStone/go-mockmcp/servers/weather"
)

// Generator builds sample documents from a seeded random source.
type Generator struct {
	rng  *rand.Rand
	base time.Time
}

// New creates a Generator. Equal seed and base yield equal output for equal
// build calls.
func New(seed int64, base time.Time) *Generator {
	return &Generator{
		rng:  rand.New(rand.NewSource(seed)),
		base: base.UTC(),
	}
}

func (g *Generator) uuid() string {
	// rand.Rand implements io.Reader and never fails.
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		panic(fmt.Sprintf("failed to generate uuid: %v", err))
	}
	return id.String()
}

func (g *Generator) pick(options []string) string {
	return options[g.rng.Intn(len(options))]
}

// round2 keeps generated floats at two decimals so the serialized form is
// stable and readable.
func (g *Generator) round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var eventSummaries = []string{
	"Team standup", "Product review", "Design sync", "1:1", "Sprint planning",
	"Customer call", "Dentist appointment", "Lunch with Sam", "Interview",
}

var eventLocations = []string{
	"Conference Room A", "Conference Room B", "Zoom", "Cafe downstairs",
}

// Calendar builds a calendar document with two calendars and the requested
// number of events spread over the four weeks after the base date.
func (g *Generator) Calendar(events int) calendar.Document {
	doc := calendar.Document{
		Calendars: []calendar.Calendar{
			{ID: "primary", Summary: "Personal", TimeZone: "America/New_York"},
			{ID: "work", Summary: "Work", Description: "Team calendar", TimeZone: "America/New_York"},
		},
		Events: make([]calendar.Event, 0, events),
	}

	for i := 0; i < events; i++ {
		start := g.base.AddDate(0, 0, g.rng.Intn(28)).Add(time.Duration(8+g.rng.Intn(10)) * time.Hour)
		end := start.Add(time.Duration(1+g.rng.Intn(2)) * time.Hour)

		event := calendar.Event{
			ID:         g.uuid(),
			CalendarID: doc.Calendars[g.rng.Intn(len(doc.Calendars))].ID,
			Summary:    g.pick(eventSummaries),
			Start:      calendar.EventTime{DateTime: start.Format(time.RFC3339), TimeZone: "America/New_York"},
			End:        calendar.EventTime{DateTime: end.Format(time.RFC3339), TimeZone: "America/New_York"},
			Status:     "confirmed",
			Reminders:  calendar.Reminders{UseDefault: true, Overrides: []calendar.ReminderOverride{}},
		}
		if g.rng.Intn(2) == 0 {
			location := g.pick(eventLocations)
			event.Location = &location
		}
		doc.Events = append(doc.Events, event)
	}

	return doc
}

var placeNames = []string{
	"Blue Bottle Coffee", "Golden Gate Grill", "Mission Bikes", "Corner Pharmacy",
	"Bayview Books", "Dolores Deli", "Marina Market", "Sunset Yoga",
}

var placeCategories = []string{"cafe", "restaurant", "store", "pharmacy", "gym"}

var placeStreets = []string{"Market St", "Valencia St", "Mission St", "Columbus Ave", "Irving St"}

// Places builds a places document with n places jittered around downtown
// San Francisco.
func (g *Generator) Places(n int) places.Document {
	doc := places.Document{Places: make([]places.Place, 0, n)}

	for i := 0; i < n; i++ {
		place := places.Place{
			ID:        g.uuid(),
			Name:      fmt.Sprintf("%s #%d", g.pick(placeNames), i+1),
			Address:   fmt.Sprintf("%d %s, San Francisco, CA", 100+g.rng.Intn(3900), g.pick(placeStreets)),
			Latitude:  37.7749 + (g.rng.Float64()-0.5)*0.08,
			Longitude: -122.4194 + (g.rng.Float64()-0.5)*0.08,
			Category:  g.pick(placeCategories),
		}
		if g.rng.Intn(3) > 0 {
			rating := g.round2(2.5 + g.rng.Float64()*2.5)
			place.Rating = &rating
		}
		doc.Places = append(doc.Places, place)
	}

	return doc
}

var airportCodes = []string{"SFO", "JFK", "LAX", "ORD", "SEA", "BOS"}

var carriers = []string{"Pacific Air", "Transcon", "Skylink", "Aurora Airlines"}

var cabinClasses = []string{"economy", "premium_economy", "business", "first"}

var stayLocations = []string{"San Francisco", "New York", "Los Angeles", "Chicago", "Seattle"}

var reviewers = []string{"Alex P.", "Jordan M.", "Casey R.", "Riley T.", "Morgan L."}

var reviewComments = []string{
	"Great location, would stay again.",
	"Clean and quiet, exactly as described.",
	"Check-in was slow but the room was lovely.",
	"A bit noisy at night.",
	"Fantastic host and spotless rooms.",
}

// Flights builds a travel document with the requested numbers of flight
// offers, stays, and stay reviews. Reviews reference generated stays, so
// asking for reviews without stays yields none.
func (g *Generator) Flights(flightCount, stayCount, reviewCount int) flights.Document {
	doc := flights.Document{
		Flights:     make([]flights.Flight, 0, flightCount),
		Stays:       make([]flights.Stay, 0, stayCount),
		StayReviews: make([]flights.StayReview, 0, reviewCount),
	}

	for i := 0; i < flightCount; i++ {
		origin := g.pick(airportCodes)
		destination := g.pick(airportCodes)
		for destination == origin {
			destination = g.pick(airportCodes)
		}

		departure := g.base.AddDate(0, 0, g.rng.Intn(60)).Add(time.Duration(6+g.rng.Intn(14)) * time.Hour)
		duration := 90 + g.rng.Intn(330)

		doc.Flights = append(doc.Flights, flights.Flight{
			ID:              "off_" + g.uuid(),
			Origin:          origin,
			Destination:     destination,
			DepartureDate:   departure.Format("2006-01-02"),
			DepartureTime:   departure.Format("15:04"),
			ArrivalTime:     departure.Add(time.Duration(duration) * time.Minute).Format("15:04"),
			Carrier:         g.pick(carriers),
			FlightNumber:    fmt.Sprintf("%s%d", g.pick([]string{"PA", "TC", "SL", "AA"}), 100+g.rng.Intn(900)),
			CabinClass:      g.pick(cabinClasses),
			Connections:     g.rng.Intn(3),
			Price:           flights.Price{Amount: g.round2(79 + g.rng.Float64()*900), Currency: "USD"},
			DurationMinutes: duration,
		})
	}

	for i := 0; i < stayCount; i++ {
		from := g.base.AddDate(0, 0, g.rng.Intn(10))
		doc.Stays = append(doc.Stays, flights.Stay{
			ID:            "stay_" + g.uuid(),
			Location:      g.pick(stayLocations),
			Name:          fmt.Sprintf("The %s Hotel %d", g.pick([]string{"Grand", "Harbor", "Union", "Park"}), i+1),
			NightlyRate:   g.round2(90 + g.rng.Float64()*310),
			Capacity:      1 + g.rng.Intn(6),
			AvailableFrom: from.Format("2006-01-02"),
			AvailableTo:   from.AddDate(0, 0, 30+g.rng.Intn(60)).Format("2006-01-02"),
			Rating:        g.round2(3 + g.rng.Float64()*2),
		})
	}

	if len(doc.Stays) > 0 {
		for i := 0; i < reviewCount; i++ {
			doc.StayReviews = append(doc.StayReviews, flights.StayReview{
				ID:       "rev_" + g.uuid(),
				StayID:   doc.Stays[g.rng.Intn(len(doc.Stays))].ID,
				Reviewer: g.pick(reviewers),
				Rating:   float64(3 + g.rng.Intn(3)),
				Comment:  g.pick(reviewComments),
				Date:     g.base.AddDate(0, 0, -g.rng.Intn(180)).Format("2006-01-02"),
			})
		}
	}

	return doc
}

var trainStations = []trains.Station{
	{Code: "BJP", Name: "Beijing South", City: "Beijing"},
	{Code: "SHH", Name: "Shanghai Hongqiao", City: "Shanghai"},
	{Code: "NJH", Name: "Nanjing South", City: "Nanjing"},
	{Code: "HZH", Name: "Hangzhou East", City: "Hangzhou"},
}

var seatTypes = []string{"business", "first", "second"}

// Trains builds a railway document with a fixed station table and the
// requested number of tickets between random station pairs.
func (g *Generator) Trains(tickets int) trains.Document {
	doc := trains.Document{
		Stations: append([]trains.Station(nil), trainStations...),
		Tickets:  make([]trains.Ticket, 0, tickets),
	}

	for i := 0; i < tickets; i++ {
		from := trainStations[g.rng.Intn(len(trainStations))]
		to := trainStations[g.rng.Intn(len(trainStations))]
		for to.Code == from.Code {
			to = trainStations[g.rng.Intn(len(trainStations))]
		}

		departure := g.base.AddDate(0, 0, g.rng.Intn(14)).Add(time.Duration(6+g.rng.Intn(14)) * time.Hour)
		duration := time.Duration(90+g.rng.Intn(270)) * time.Minute

		seats := make(map[string]trains.Seat, len(seatTypes))
		for _, seatType := range seatTypes {
			seats[seatType] = trains.Seat{
				Price:     g.round2(50 + g.rng.Float64()*500),
				Available: g.rng.Intn(120),
			}
		}

		doc.Tickets = append(doc.Tickets, trains.Ticket{
			TrainNo:       fmt.Sprintf("G%d", 100+g.rng.Intn(900)),
			FromStation:   from.Code,
			ToStation:     to.Code,
			Date:          departure.Format("2006-01-02"),
			DepartureTime: departure.Format("15:04"),
			ArrivalTime:   departure.Add(duration).Format("15:04"),
			Duration:      fmt.Sprintf("%dh%02dm", int(duration.Hours()), int(duration.Minutes())%60),
			Seats:         seats,
		})
	}

	return doc
}

type neighborhood struct {
	name string
	lat  float64
	lon  float64
}

var shelterNeighborhoods = []neighborhood{
	{"Potrero Hill", 37.758, -122.397},
	{"Noe Valley", 37.751, -122.434},
	{"Hayes Valley", 37.777, -122.426},
	{"Marina", 37.803, -122.440},
	{"Sunset", 37.759, -122.497},
	{"Russian Hill", 37.802, -122.424},
	{"North Beach", 37.805, -122.410},
	{"Pacific Heights", 37.790, -122.442},
	{"Bernal Heights", 37.745, -122.417},
}

var shelterServices = []string{"adoption", "boarding", "grooming", "training", "emergency"}

var shelterNames = []string{
	"Paws Haven", "Happy Tails", "Golden Gate Rescue", "Bay Dog Sanctuary",
	"Second Chance Shelter", "Furry Friends",
}

// Shelters builds a shelter document with n shelters placed near known
// neighborhood centers.
func (g *Generator) Shelters(n int) shelters.Document {
	doc := shelters.Document{Shelters: make([]shelters.Shelter, 0, n)}

	for i := 0; i < n; i++ {
		hood := shelterNeighborhoods[g.rng.Intn(len(shelterNeighborhoods))]

		services := make([]string, 0, len(shelterServices))
		for _, service := range shelterServices {
			if g.rng.Intn(2) == 0 {
				services = append(services, service)
			}
		}
		if len(services) == 0 {
			services = append(services, "adoption")
		}

		shelter := shelters.Shelter{
			ID:           "shelter-" + g.uuid(),
			Name:         fmt.Sprintf("%s %s", hood.name, g.pick(shelterNames)),
			Address:      fmt.Sprintf("%d %s St", 100+g.rng.Intn(3900), g.pick([]string{"Oak", "Pine", "Folsom", "Church", "Castro"})),
			Neighborhood: hood.name,
			Latitude:     hood.lat + (g.rng.Float64()-0.5)*0.01,
			Longitude:    hood.lon + (g.rng.Float64()-0.5)*0.01,
			Services:     services,
			HasVacancy:   g.rng.Intn(3) > 0,
		}
		if g.rng.Intn(2) == 0 {
			phone := fmt.Sprintf("(415) 555-%04d", g.rng.Intn(10000))
			shelter.Phone = &phone
		}
		doc.Shelters = append(doc.Shelters, shelter)
	}

	return doc
}

type weatherSite struct {
	station string
	city    string
	lat     float64
	lon     float64
}

var weatherSites = []weatherSite{
	{"KSFO", "San Francisco", 37.6213, -122.3790},
	{"KOAK", "Oakland", 37.7214, -122.2208},
	{"KSJC", "San Jose", 37.3639, -121.9289},
	{"KSEA", "Seattle", 47.4502, -122.3088},
	{"KLAX", "Los Angeles", 33.9416, -118.4085},
	{"KJFK", "New York", 40.6413, -73.7781},
	{"KORD", "Chicago", 41.9742, -87.9073},
	{"KBOS", "Boston", 42.3656, -71.0096},
}

var weatherConditions = []string{"Sunny", "Partly cloudy", "Overcast", "Light rain", "Fog", "Clear"}

// Weather builds a weather document with up to len(weatherSites) stations,
// observed at the base instant.
func (g *Generator) Weather(stations int) weather.Document {
	if stations > len(weatherSites) {
		stations = len(weatherSites)
	}
	doc := weather.Document{Observations: make([]weather.Observation, 0, stations)}

	for i := 0; i < stations; i++ {
		site := weatherSites[i]
		doc.Observations = append(doc.Observations, weather.Observation{
			StationID:    site.station,
			City:         site.city,
			Latitude:     site.lat,
			Longitude:    site.lon,
			TemperatureC: g.round2(-5 + g.rng.Float64()*35),
			Humidity:     float64(30 + g.rng.Intn(70)),
			WindKph:      g.round2(g.rng.Float64() * 40),
			Condition:    g.pick(weatherConditions),
			ObservedAt:   g.base.Format(time.RFC3339),
		})
	}

	return doc
}
