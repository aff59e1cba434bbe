package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/officespace/internal/app"
	"github.com/ziadkadry99/officespace/internal/audit"
	"github.com/ziadkadry99/officespace/internal/db"
	"github.com/ziadkadry99/officespace/internal/floorplan"
	"github.com/ziadkadry99/officespace/internal/render"
	"github.com/ziadkadry99/officespace/internal/textwrap"
)

// mockSource implements app.Source for testing.
type mockSource struct {
	data  floorplan.Dataset
	err   error
	calls int
}

func (m *mockSource) FetchOffices(context.Context) (floorplan.Dataset, error) {
	m.calls++
	return m.data, m.err
}

func newState() *app.State {
	plan := floorplan.NewPlan(floorplan.DefaultFloors(), floorplan.DefaultGrid)
	r := render.New(plan.Grid(), render.DefaultStyle, textwrap.FixedMeasurer(6), textwrap.FixedMeasurer(5))
	return app.New(plan, r)
}

func newTestServer(t *testing.T) (*Server, *mockSource) {
	t.Helper()
	src := &mockSource{data: floorplan.Dataset{
		"302": {{ID: 1, Name: "Alice Smith"}},
		"405": {{ID: 2, Name: "Bob Jones", Temporary: true, EndDate: "2025-05-31"}},
	}}
	return NewServer(newState(), src, nil), src
}

func callTool(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content = %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"list_floors", listFloorsTool, "list_floors"},
		{"get_office", getOfficeTool, "get_office"},
		{"find_occupant", findOccupantTool, "find_occupant"},
		{"render_floor", renderFloorTool, "render_floor"},
		{"office_history", officeHistoryTool, "office_history"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv, _ := newTestServer(t)
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
}

func TestHandleListFloors(t *testing.T) {
	srv, src := newTestServer(t)

	result, err := srv.handleListFloors(context.Background(), callTool(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "Floor 3 (3rd Floor): 37 rooms, 1 occupied") {
		t.Errorf("missing floor 3 summary in %q", text)
	}
	if !strings.Contains(text, "Floor 4 (4th Floor): 35 rooms, 1 occupied") {
		t.Errorf("missing floor 4 summary in %q", text)
	}
	if src.calls != 1 {
		t.Errorf("source calls = %d, want 1", src.calls)
	}
}

func TestHandleGetOffice(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	t.Run("occupied", func(t *testing.T) {
		result, err := srv.handleGetOffice(ctx, callTool(map[string]any{"office_id": "405"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "Office 405, floor 4") || !strings.Contains(text, "Bob Jones (Temp: Until 2025-05-31)") {
			t.Errorf("unexpected text %q", text)
		}
	})

	t.Run("empty", func(t *testing.T) {
		result, err := srv.handleGetOffice(ctx, callTool(map[string]any{"office_id": "303"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(resultText(t, result), "No occupants assigned.") {
			t.Errorf("expected empty office text")
		}
	})

	t.Run("unknown", func(t *testing.T) {
		result, err := srv.handleGetOffice(ctx, callTool(map[string]any{"office_id": "999"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for unknown office")
		}
	})

	t.Run("missing id", func(t *testing.T) {
		result, err := srv.handleGetOffice(ctx, callTool(map[string]any{}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing office_id")
		}
	})
}

func TestHandleFindOccupant(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	result, err := srv.handleFindOccupant(ctx, callTool(map[string]any{"name": "smith"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "302 (floor 3): Alice Smith") {
		t.Errorf("unexpected text %q", text)
	}

	result, err = srv.handleFindOccupant(ctx, callTool(map[string]any{"name": "zed"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError || !strings.Contains(resultText(t, result), "Nobody matching") {
		t.Error("no match should be a plain text result")
	}
}

func TestHandleRenderFloor(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	result, err := srv.handleRenderFloor(ctx, callTool(map[string]any{"floor": float64(3)}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
	text := resultText(t, result)
	if !strings.HasPrefix(text, "<svg") || !strings.Contains(text, `id="office-302"`) {
		t.Errorf("unexpected svg %q", text[:min(len(text), 120)])
	}

	result, err = srv.handleRenderFloor(ctx, callTool(map[string]any{"floor": float64(7)}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error for unknown floor")
	}
}

func TestRefreshFailure(t *testing.T) {
	src := &mockSource{err: errors.New("db down")}
	srv := NewServer(newState(), src, nil)

	result, err := srv.handleListFloors(context.Background(), callTool(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error when nothing could be loaded")
	}
}

func TestHandleOfficeHistory(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()
	store := audit.NewStore(database)
	ctx := context.Background()
	if err := store.Log(ctx, audit.Entry{Actor: "alice", Action: audit.ActionOccupantAdded, OfficeID: "302", Summary: "added Bob to 302"}); err != nil {
		t.Fatalf("Log: %v", err)
	}

	srv, _ := newTestServer(t)
	srv.SetHistory(store)

	result, err := srv.handleOfficeHistory(ctx, callTool(map[string]any{"office_id": "302"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(resultText(t, result), "added Bob to 302") {
		t.Errorf("history missing entry: %q", resultText(t, result))
	}

	result, err = srv.handleOfficeHistory(ctx, callTool(map[string]any{"office_id": "303"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(resultText(t, result), "No recorded changes") {
		t.Error("expected empty history text")
	}
}
