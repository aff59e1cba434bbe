package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/officespace/internal/audit"
	"github.com/ziadkadry99/officespace/internal/popup"
)

// handleListFloors summarises every floor.
func (s *Server) handleListFloors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.refresh(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading offices: %v", err)), nil
	}

	var sb strings.Builder
	for _, f := range s.state.Plan().Floors() {
		offices, err := s.state.Offices(f.Number)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("reading floor %d: %v", f.Number, err)), nil
		}
		occupied := 0
		for _, o := range offices {
			if o.Occupied() {
				occupied++
			}
		}
		fmt.Fprintf(&sb, "Floor %d (%s): %d rooms, %d occupied\n", f.Number, f.Name, len(offices), occupied)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetOffice describes one office.
func (s *Server) handleGetOffice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("office_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: office_id"), nil
	}
	if err := s.refresh(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading offices: %v", err)), nil
	}

	office, ok := s.state.Office(strings.TrimSpace(id))
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("No office %q on any floor.", id)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Office %s, floor %d\n", office.ID, office.Floor)
	if !office.Occupied() {
		sb.WriteString("No occupants assigned.\n")
	}
	for _, o := range office.Occupants {
		fmt.Fprintf(&sb, "- %s\n", popup.ListLabel(o))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleFindOccupant searches every floor for a name.
func (s *Server) handleFindOccupant(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil || strings.TrimSpace(name) == "" {
		return mcp.NewToolResultError("missing required parameter: name"), nil
	}
	if err := s.refresh(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading offices: %v", err)), nil
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	var matches []string
	for _, f := range s.state.Plan().Floors() {
		offices, err := s.state.Offices(f.Number)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("reading floor %d: %v", f.Number, err)), nil
		}
		for _, office := range offices {
			for _, o := range office.Occupants {
				if strings.Contains(strings.ToLower(o.Name), needle) {
					matches = append(matches, fmt.Sprintf("%s (floor %d): %s", office.ID, f.Number, popup.ListLabel(o)))
				}
			}
		}
	}

	if len(matches) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Nobody matching %q is assigned to an office.", name)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Found %d match(es):\n%s\n", len(matches), strings.Join(matches, "\n"))), nil
}

// handleRenderFloor returns a floor as SVG.
func (s *Server) handleRenderFloor(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	floor, err := request.RequireInt("floor")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: floor"), nil
	}
	if err := s.refresh(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading offices: %v", err)), nil
	}

	var sb strings.Builder
	if err := s.state.WriteFloorSVG(&sb, floor); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rendering floor %d: %v", floor, err)), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleOfficeHistory lists audit entries for an office.
func (s *Server) handleOfficeHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("office_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: office_id"), nil
	}
	limit := request.GetInt("limit", 20)
	if limit <= 0 {
		limit = 20
	}

	entries, err := s.history.Query(ctx, audit.QueryFilter{OfficeID: id, Limit: limit})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading history: %v", err)), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No recorded changes for office %s.", id)), nil
	}

	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "%s  %-16s %-8s %s\n", e.Timestamp.Format("2006-01-02 15:04"), e.Action, e.Actor, e.Summary)
	}
	return mcp.NewToolResultText(sb.String()), nil
}
