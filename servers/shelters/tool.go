package shelters

import (
	"github.com/MegaGrindStone/go-mockmcp"
)

var findSheltersTool = mockmcp.Tool{
	Name: "find_shelters",
	Description: "Find dog shelters in San Francisco by neighborhood, distance, " +
		"required services, and vacancy. Distances are reported in miles.",
	InputSchema: findSheltersSchema,
}

var getShelterTool = mockmcp.Tool{
	Name:        "get_shelter",
	Description: "Get detailed information about a specific shelter.",
	InputSchema: getShelterSchema,
}
