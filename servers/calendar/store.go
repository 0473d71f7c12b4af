// Package calendar implements a dataset-backed mock calendar server. It
// exposes calendar and event queries plus the only mutating tool surface in
// this module: events can be created, updated, and deleted, with every
// mutation persisting the whole dataset back to its backing file.
package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/MegaGrindStone/go-mockmcp/internal/dataset"
	"github.com/MegaGrindStone/go-mockmcp/internal/query"
)

// DatasetName is the conventional backing file name for this domain.
const DatasetName = "google_calendar_dataset.json"

// defaultTimeZone is applied to created events that don't name one.
const defaultTimeZone = "America/New_York"

// Document is the calendar dataset root. The first calendar is the primary
// one by convention.
type Document struct {
	Calendars []Calendar `json:"calendars"`
	Events    []Event    `json:"events"`
}

// Calendar is one calendar record.
type Calendar struct {
	ID          string `json:"id"`
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	TimeZone    string `json:"timeZone"`
}

// Event is one event record. Description and Location are pointers so a
// JSON null round-trips unchanged through a mutation cycle.
type Event struct {
	ID          string    `json:"id"`
	CalendarID  string    `json:"calendarId"`
	Summary     string    `json:"summary"`
	Description *string   `json:"description"`
	Start       EventTime `json:"start"`
	End         EventTime `json:"end"`
	Location    *string   `json:"location"`
	Status      string    `json:"status"`
	Creator     *Person   `json:"creator,omitempty"`
	Organizer   *Person   `json:"organizer,omitempty"`
	Reminders   Reminders `json:"reminders"`
}

// EventTime pairs an instant with the zone it is displayed in.
type EventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// Person identifies an event creator or organizer.
type Person struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

// Reminders is the event reminder configuration.
type Reminders struct {
	UseDefault bool               `json:"useDefault"`
	Overrides  []ReminderOverride `json:"overrides"`
}

// ReminderOverride is one non-default reminder.
type ReminderOverride struct {
	Method  string `json:"method"`
	Minutes int    `json:"minutes"`
}

// NewStore creates the dataset store for this domain. The fallback flag
// selects the empty-dataset policy for a missing backing file; the default
// contract for this domain is strict.
func NewStore(path string, fallback bool) *dataset.Store[Document] {
	if fallback {
		return dataset.New(path, dataset.WithFallback(EmptyDocument))
	}
	return dataset.New[Document](path)
}

// EmptyDocument returns the fallback document used when the backing file
// is allowed to be absent.
func EmptyDocument() Document {
	return Document{Calendars: []Calendar{}, Events: []Event{}}
}

// Validate implements the dataset.Document interface.
func (d Document) Validate() error {
	if d.Calendars == nil {
		return dataset.NewContractViolation("calendars", "missing required key")
	}
	if d.Events == nil {
		return dataset.NewContractViolation("events", "missing required key")
	}

	calendarIDs := make(map[string]struct{}, len(d.Calendars))
	for i, cal := range d.Calendars {
		field := fmt.Sprintf("calendars[%d]", i)
		if cal.ID == "" {
			return dataset.NewContractViolation(field+".id", "must not be empty")
		}
		if cal.Summary == "" {
			return dataset.NewContractViolation(field+".summary", "must not be empty")
		}
		if _, ok := calendarIDs[cal.ID]; ok {
			return dataset.NewContractViolation(field+".id", fmt.Sprintf("duplicate calendar id %q", cal.ID))
		}
		calendarIDs[cal.ID] = struct{}{}
	}

	eventIDs := make(map[string]struct{}, len(d.Events))
	for i, event := range d.Events {
		field := fmt.Sprintf("events[%d]", i)
		if event.ID == "" {
			return dataset.NewContractViolation(field+".id", "must not be empty")
		}
		if _, ok := eventIDs[event.ID]; ok {
			return dataset.NewContractViolation(field+".id", fmt.Sprintf("duplicate event id %q", event.ID))
		}
		eventIDs[event.ID] = struct{}{}
		if event.CalendarID == "" {
			return dataset.NewContractViolation(field+".calendarId", "must not be empty")
		}
		if event.Summary == "" {
			return dataset.NewContractViolation(field+".summary", "must not be empty")
		}
		if _, err := query.ParseTime(event.Start.DateTime); err != nil {
			return dataset.NewContractViolation(field+".start.dateTime", "not a valid timestamp")
		}
		if _, err := query.ParseTime(event.End.DateTime); err != nil {
			return dataset.NewContractViolation(field+".end.dateTime", "not a valid timestamp")
		}
	}

	return nil
}

func (d Document) hasCalendar(id string) bool {
	for _, cal := range d.Calendars {
		if cal.ID == id {
			return true
		}
	}
	return false
}

// filterEvents returns the events matching the supplied criteria, sorted by
// start time ascending with dataset order breaking ties. An empty
// calendarID matches every calendar; zero bounds impose no constraint.
func (d Document) filterEvents(calendarID string, timeMin, timeMax time.Time) []Event {
	matched := make([]Event, 0, len(d.Events))
	for _, event := range d.Events {
		if calendarID != "" && event.CalendarID != calendarID {
			continue
		}
		start, err := query.ParseTime(event.Start.DateTime)
		if err != nil {
			continue
		}
		if !query.InTimeRange(start, timeMin, timeMax) {
			continue
		}
		matched = append(matched, event)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		ti, _ := query.ParseTime(matched[i].Start.DateTime)
		tj, _ := query.ParseTime(matched[j].Start.DateTime)
		return ti.Before(tj)
	})

	return matched
}

func (d Document) findEvent(calendarID, eventID string) (int, bool) {
	for i, event := range d.Events {
		if event.ID == eventID && (calendarID == "" || event.CalendarID == calendarID) {
			return i, true
		}
	}
	return 0, false
}
