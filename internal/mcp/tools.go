package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchBookingsTool defines the search_bookings MCP tool.
var searchBookingsTool = mcp.NewTool("search_bookings",
	mcp.WithDescription("Search past HVAC service bookings semantically. Returns matching bookings with their details."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query, e.g. \"ac not cooling downtown\""),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 10)"),
	),
	mcp.WithString("service_type",
		mcp.Description("Filter results by service type"),
		mcp.Enum("ac_repair", "furnace_maintenance", "installation", "cleaning", "ventilation_maintenance", "other"),
	),
	mcp.WithString("city",
		mcp.Description("Filter results by city"),
	),
)

// listBookingsTool defines the list_bookings MCP tool.
var listBookingsTool = mcp.NewTool("list_bookings",
	mcp.WithDescription("List recent HVAC service bookings, newest first."),
	mcp.WithString("service_type",
		mcp.Description("Filter by service type"),
		mcp.Enum("ac_repair", "furnace_maintenance", "installation", "cleaning", "ventilation_maintenance", "other"),
	),
	mcp.WithString("city",
		mcp.Description("Filter by city"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of bookings to return (default 20)"),
	),
)

// getBookingTool defines the get_booking MCP tool.
var getBookingTool = mcp.NewTool("get_booking",
	mcp.WithDescription("Get one booking with its full field data and conversation transcript."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Booking ID"),
	),
)
