package weather

import (
	"github.com/MegaGrindStone/go-mockmcp"
)

var getLiveWeatherTool = mockmcp.Tool{
	Name: "get_live_weather",
	Description: "Get current weather conditions for a coordinate. Returns the " +
		"station at that coordinate, or the nearest one.",
	InputSchema: getLiveWeatherSchema,
}

var listStationsTool = mockmcp.Tool{
	Name:        "list_stations",
	Description: "List known weather stations, optionally filtered by city.",
	InputSchema: listStationsSchema,
}
