package places

import (
	"github.com/MegaGrindStone/go-mockmcp"
)

var searchNearbyTool = mockmcp.Tool{
	Name: "search_nearby",
	Description: "Search for places near a reference point, optionally filtered by category. " +
		"Results carry a computed distance in meters and are sorted closest first.",
	InputSchema: searchNearbySchema,
}

var placeDetailsTool = mockmcp.Tool{
	Name:        "get_place_details",
	Description: "Get detailed information about a specific place.",
	InputSchema: placeDetailsSchema,
}

var geocodeTool = mockmcp.Tool{
	Name:        "geocode",
	Description: "Convert an address into geographic coordinates.",
	InputSchema: geocodeSchema,
}

var reverseGeocodeTool = mockmcp.Tool{
	Name:        "reverse_geocode",
	Description: "Convert geographic coordinates into the nearest known address.",
	InputSchema: reverseGeocodeSchema,
}

var distanceMatrixTool = mockmcp.Tool{
	Name:        "distance_matrix",
	Description: "Compute pairwise distances and coarse driving durations between named places.",
	InputSchema: distanceMatrixSchema,
}
