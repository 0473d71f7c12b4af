package shelters

type findSheltersArgs struct {
	Location    string   `json:"location"`
	MaxDistance *float64 `json:"max_distance"`
	Services    []string `json:"services"`
	HasVacancy  *bool    `json:"has_vacancy"`
}

type getShelterArgs struct {
	ShelterID string `json:"shelter_id"`
}

var findSheltersSchema = []byte(`{
  "type": "object",
  "properties": {
    "location": { "type": "string", "description": "Neighborhood or area in San Francisco" },
    "max_distance": { "type": "number", "minimum": 0, "description": "Maximum distance in miles from the location" },
    "services": {
      "type": "array",
      "items": { "type": "string" },
      "description": "Required services (adoption, boarding, grooming, training, emergency)"
    },
    "has_vacancy": { "type": "boolean", "description": "Only show shelters with available space" }
  }
}`)

var getShelterSchema = []byte(`{
  "type": "object",
  "properties": {
    "shelter_id": { "type": "string", "description": "The unique identifier of the shelter" }
  },
  "required": ["shelter_id"]
}`)
