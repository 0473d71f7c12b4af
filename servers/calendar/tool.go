package calendar

import (
	"github.com/MegaGrindStone/go-mockmcp"
)

var listCalendarsTool = mockmcp.Tool{
	Name:        "list_calendars",
	Description: "List all available calendars.",
	InputSchema: listCalendarsSchema,
}

var listEventsTool = mockmcp.Tool{
	Name: "list_events",
	Description: "List events, optionally filtered by calendar and time range. " +
		"Events are returned sorted by start time.",
	InputSchema: listEventsSchema,
}

var createEventTool = mockmcp.Tool{
	Name:        "create_event",
	Description: "Create a new calendar event and persist it to the dataset.",
	InputSchema: createEventSchema,
}

var updateEventTool = mockmcp.Tool{
	Name:        "update_event",
	Description: "Update an existing calendar event. Only the supplied fields change.",
	InputSchema: updateEventSchema,
}

var deleteEventTool = mockmcp.Tool{
	Name:        "delete_event",
	Description: "Delete a calendar event and return a snapshot of the removed record.",
	InputSchema: deleteEventSchema,
}
