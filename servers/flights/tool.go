package flights

import (
	"github.com/MegaGrindStone/go-mockmcp"
)

var searchFlightsTool = mockmcp.Tool{
	Name: "search_flights",
	Description: "Search for flights between two airports on a given date, " +
		"optionally filtered by cabin class and connection count.",
	InputSchema: searchFlightsSchema,
}

var offerDetailsTool = mockmcp.Tool{
	Name:        "get_offer_details",
	Description: "Get detailed information about a specific flight offer.",
	InputSchema: offerDetailsSchema,
}

var searchMultiCityTool = mockmcp.Tool{
	Name:        "search_multi_city",
	Description: "Search for flights across an ordered list of itinerary segments.",
	InputSchema: searchMultiCitySchema,
}

var searchStaysTool = mockmcp.Tool{
	Name: "search_stays",
	Description: "Search for accommodation stays in a location for a date range, " +
		"with pagination metadata in the result.",
	InputSchema: searchStaysSchema,
}

var stayReviewsTool = mockmcp.Tool{
	Name:        "get_stay_reviews",
	Description: "Get reviews for a specific stay, newest first, optionally bounded by date.",
	InputSchema: stayReviewsSchema,
}
