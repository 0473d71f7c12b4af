package trains

type searchStationsArgs struct {
	Keyword string `json:"keyword"`
}

type stationCodeArgs struct {
	Name string `json:"name"`
}

type searchTicketsArgs struct {
	Date        string `json:"date"`
	FromStation string `json:"from_station"`
	ToStation   string `json:"to_station"`
}

var searchStationsSchema = []byte(`{
  "type": "object",
  "properties": {
    "keyword": { "type": "string", "description": "Substring matched against station names and cities" }
  },
  "required": ["keyword"]
}`)

var stationCodeSchema = []byte(`{
  "type": "object",
  "properties": {
    "name": { "type": "string", "description": "Exact station name (case-insensitive)" }
  },
  "required": ["name"]
}`)

var searchTicketsSchema = []byte(`{
  "type": "object",
  "properties": {
    "date": { "type": "string", "description": "Travel date in YYYY-MM-DD format" },
    "from_station": { "type": "string", "description": "Departure station code" },
    "to_station": { "type": "string", "description": "Arrival station code" }
  },
  "required": ["date", "from_station", "to_station"]
}`)
