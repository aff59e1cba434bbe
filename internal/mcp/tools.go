package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listFloorsTool defines the list_floors MCP tool.
var listFloorsTool = mcp.NewTool("list_floors",
	mcp.WithDescription("List the building's floors with their room counts and how many rooms are occupied."),
)

// getOfficeTool defines the get_office MCP tool.
var getOfficeTool = mcp.NewTool("get_office",
	mcp.WithDescription("Get one office: its floor and its occupants, including temporary assignment dates."),
	mcp.WithString("office_id",
		mcp.Required(),
		mcp.Description("Room number, e.g. 302 or 333A"),
	),
)

// findOccupantTool defines the find_occupant MCP tool.
var findOccupantTool = mcp.NewTool("find_occupant",
	mcp.WithDescription("Find which office a person is assigned to. Matches any part of the name, ignoring case."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Full or partial name"),
	),
)

// renderFloorTool defines the render_floor MCP tool.
var renderFloorTool = mcp.NewTool("render_floor",
	mcp.WithDescription("Render a floor plan as SVG markup."),
	mcp.WithNumber("floor",
		mcp.Required(),
		mcp.Description("Floor number, e.g. 3"),
	),
)

// officeHistoryTool defines the office_history MCP tool.
var officeHistoryTool = mcp.NewTool("office_history",
	mcp.WithDescription("List recent changes to an office's occupants, newest first."),
	mcp.WithString("office_id",
		mcp.Required(),
		mcp.Description("Room number"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of changes to return (default 20)"),
	),
)
