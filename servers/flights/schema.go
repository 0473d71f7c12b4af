package flights

type searchFlightsArgs struct {
	Origin         string `json:"origin"`
	Destination    string `json:"destination"`
	DepartureDate  string `json:"departure_date"`
	CabinClass     string `json:"cabin_class"`
	MaxConnections *int   `json:"max_connections"`
}

type offerDetailsArgs struct {
	OfferID string `json:"offer_id"`
}

type flightSegment struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
}

type searchMultiCityArgs struct {
	Segments       []flightSegment `json:"segments"`
	CabinClass     string          `json:"cabin_class"`
	MaxConnections *int            `json:"max_connections"`
}

type searchStaysArgs struct {
	Location string `json:"location"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Guests   int    `json:"guests"`
	Page     *int   `json:"page"`
	PerPage  *int   `json:"per_page"`
}

type stayReviewsArgs struct {
	StayID string `json:"stay_id"`
	After  string `json:"after"`
	Before string `json:"before"`
	Limit  *int   `json:"limit"`
}

var searchFlightsSchema = []byte(`{
  "type": "object",
  "properties": {
    "origin": { "type": "string", "description": "Departure airport code, e.g. LAX" },
    "destination": { "type": "string", "description": "Arrival airport code, e.g. JFK" },
    "departure_date": { "type": "string", "description": "Departure date in YYYY-MM-DD format" },
    "cabin_class": { "type": "string", "description": "Optional cabin class (economy, premium_economy, business, first)" },
    "max_connections": { "type": "integer", "minimum": 0, "description": "Optional maximum number of connections" }
  },
  "required": ["origin", "destination", "departure_date"]
}`)

var offerDetailsSchema = []byte(`{
  "type": "object",
  "properties": {
    "offer_id": { "type": "string", "description": "The unique identifier of the offer" }
  },
  "required": ["offer_id"]
}`)

var searchMultiCitySchema = []byte(`{
  "type": "object",
  "properties": {
    "segments": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "properties": {
          "origin": { "type": "string", "description": "Departure airport code" },
          "destination": { "type": "string", "description": "Arrival airport code" },
          "departure_date": { "type": "string", "description": "Departure date in YYYY-MM-DD format" }
        },
        "required": ["origin", "destination", "departure_date"]
      },
      "description": "Ordered itinerary segments"
    },
    "cabin_class": { "type": "string", "description": "Optional cabin class applied to every segment" },
    "max_connections": { "type": "integer", "minimum": 0, "description": "Optional maximum connections per segment" }
  },
  "required": ["segments"]
}`)

var searchStaysSchema = []byte(`{
  "type": "object",
  "properties": {
    "location": { "type": "string", "description": "Location to search, matched as a case-insensitive substring" },
    "check_in": { "type": "string", "description": "Check-in date in YYYY-MM-DD format" },
    "check_out": { "type": "string", "description": "Check-out date in YYYY-MM-DD format" },
    "guests": { "type": "integer", "minimum": 1, "description": "Number of guests (default: 1)" },
    "page": { "type": "integer", "minimum": 1, "description": "1-based page number (default: 1)" },
    "per_page": { "type": "integer", "minimum": 1, "description": "Page size (default: 10)" }
  },
  "required": ["location", "check_in", "check_out"]
}`)

var stayReviewsSchema = []byte(`{
  "type": "object",
  "properties": {
    "stay_id": { "type": "string", "description": "The unique identifier of the stay" },
    "after": { "type": "string", "description": "Only reviews strictly after this date (YYYY-MM-DD)" },
    "before": { "type": "string", "description": "Only reviews strictly before this date (YYYY-MM-DD)" },
    "limit": { "type": "integer", "minimum": 1, "description": "Maximum number of reviews to return (default: 10)" }
  },
  "required": ["stay_id"]
}`)
