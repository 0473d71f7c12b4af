package trains

import (
	"github.com/MegaGrindStone/go-mockmcp"
)

var searchStationsTool = mockmcp.Tool{
	Name:        "search_stations",
	Description: "Search stations by a keyword matched against name and city.",
	InputSchema: searchStationsSchema,
}

var stationCodeTool = mockmcp.Tool{
	Name:        "get_station_code",
	Description: "Resolve an exact station name to its station code.",
	InputSchema: stationCodeSchema,
}

var searchTicketsTool = mockmcp.Tool{
	Name:        "search_tickets",
	Description: "Search train tickets between two station codes on a given date.",
	InputSchema: searchTicketsSchema,
}
