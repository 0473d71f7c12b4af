package weather

type getLiveWeatherArgs struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type listStationsArgs struct {
	City string `json:"city"`
}

var getLiveWeatherSchema = []byte(`{
  "type": "object",
  "properties": {
    "latitude": { "type": "number", "minimum": -90, "maximum": 90, "description": "Latitude of the location" },
    "longitude": { "type": "number", "minimum": -180, "maximum": 180, "description": "Longitude of the location" }
  },
  "required": ["latitude", "longitude"]
}`)

var listStationsSchema = []byte(`{
  "type": "object",
  "properties": {
    "city": { "type": "string", "description": "Filter stations by city name substring" }
  }
}`)
