package places

type searchNearbyArgs struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Category  string   `json:"category"`
	Radius    *float64 `json:"radius"`
}

type placeDetailsArgs struct {
	PlaceID string `json:"place_id"`
}

type geocodeArgs struct {
	Address string `json:"address"`
}

type reverseGeocodeArgs struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type distanceMatrixArgs struct {
	Origins      []string `json:"origins"`
	Destinations []string `json:"destinations"`
}

var searchNearbySchema = []byte(`{
  "type": "object",
  "properties": {
    "latitude": { "type": "number", "description": "Latitude of the reference point" },
    "longitude": { "type": "number", "description": "Longitude of the reference point" },
    "category": { "type": "string", "description": "Optional category to match (case-insensitive)" },
    "radius": { "type": "number", "minimum": 0, "description": "Search radius in meters (default: 1000)" }
  },
  "required": ["latitude", "longitude"]
}`)

var placeDetailsSchema = []byte(`{
  "type": "object",
  "properties": {
    "place_id": { "type": "string", "description": "The unique identifier of the place" }
  },
  "required": ["place_id"]
}`)

var geocodeSchema = []byte(`{
  "type": "object",
  "properties": {
    "address": { "type": "string", "description": "The address to geocode, matched as a case-insensitive substring" }
  },
  "required": ["address"]
}`)

var reverseGeocodeSchema = []byte(`{
  "type": "object",
  "properties": {
    "latitude": { "type": "number", "description": "Latitude to resolve into an address" },
    "longitude": { "type": "number", "description": "Longitude to resolve into an address" }
  },
  "required": ["latitude", "longitude"]
}`)

var distanceMatrixSchema = []byte(`{
  "type": "object",
  "properties": {
    "origins": {
      "type": "array",
      "items": { "type": "string" },
      "description": "Origin place names, resolved by substring match"
    },
    "destinations": {
      "type": "array",
      "items": { "type": "string" },
      "description": "Destination place names, resolved by substring match"
    }
  },
  "required": ["origins", "destinations"]
}`)
