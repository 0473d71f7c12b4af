package calendar

type listEventsArgs struct {
	CalendarID string `json:"calendar_id"`
	TimeMin    string `json:"time_min"`
	TimeMax    string `json:"time_max"`
}

type createEventArgs struct {
	CalendarID  string  `json:"calendar_id"`
	Summary     string  `json:"summary"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	TimeZone    string  `json:"time_zone"`
}

type updateEventArgs struct {
	CalendarID  string  `json:"calendar_id"`
	EventID     string  `json:"event_id"`
	Summary     *string `json:"summary"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
}

type deleteEventArgs struct {
	CalendarID string `json:"calendar_id"`
	EventID    string `json:"event_id"`
}

var listCalendarsSchema = []byte(`{
  "type": "object",
  "properties": {}
}`)

var listEventsSchema = []byte(`{
  "type": "object",
  "properties": {
    "calendar_id": { "type": "string", "description": "Optional calendar ID to filter events" },
    "time_min": { "type": "string", "description": "Optional start of the time range (ISO 8601)" },
    "time_max": { "type": "string", "description": "Optional end of the time range (ISO 8601)" }
  }
}`)

var createEventSchema = []byte(`{
  "type": "object",
  "properties": {
    "calendar_id": { "type": "string", "description": "ID of the calendar to add the event to" },
    "summary": { "type": "string", "description": "Event title" },
    "start_time": { "type": "string", "description": "Event start time (ISO 8601)" },
    "end_time": { "type": "string", "description": "Event end time (ISO 8601)" },
    "description": { "type": "string", "description": "Optional event description" },
    "location": { "type": "string", "description": "Optional event location" },
    "time_zone": { "type": "string", "description": "Timezone for the event (default: America/New_York)" }
  },
  "required": ["calendar_id", "summary", "start_time", "end_time"]
}`)

var updateEventSchema = []byte(`{
  "type": "object",
  "properties": {
    "calendar_id": { "type": "string", "description": "ID of the calendar containing the event" },
    "event_id": { "type": "string", "description": "ID of the event to update" },
    "summary": { "type": "string", "description": "New event title" },
    "description": { "type": "string", "description": "New event description" },
    "location": { "type": "string", "description": "New event location" },
    "start_time": { "type": "string", "description": "New start time (ISO 8601)" },
    "end_time": { "type": "string", "description": "New end time (ISO 8601)" }
  },
  "required": ["calendar_id", "event_id"]
}`)

var deleteEventSchema = []byte(`{
  "type": "object",
  "properties": {
    "calendar_id": { "type": "string", "description": "ID of the calendar containing the event" },
    "event_id": { "type": "string", "description": "ID of the event to delete" }
  },
  "required": ["calendar_id", "event_id"]
}`)
