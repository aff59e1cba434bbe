package audit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/officespace/internal/db"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestLogAndGetByID(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	entry := Entry{
		ID:            "test-1",
		Actor:         "alice",
		Action:        ActionOccupantUpdated,
		OfficeID:      "302",
		OccupantID:    17,
		Summary:       "Bob -> Robert",
		PreviousValue: `{"full_name":"Bob"}`,
		NewValue:      `{"full_name":"Robert"}`,
	}

	if err := store.Log(ctx, entry); err != nil {
		t.Fatalf("Log: %v", err)
	}

	got, err := store.GetByID(ctx, "test-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	if got.Actor != "alice" {
		t.Errorf("Actor = %q, want %q", got.Actor, "alice")
	}
	if got.Action != ActionOccupantUpdated {
		t.Errorf("Action = %q, want %q", got.Action, ActionOccupantUpdated)
	}
	if got.OfficeID != "302" {
		t.Errorf("OfficeID = %q, want %q", got.OfficeID, "302")
	}
	if got.OccupantID != 17 {
		t.Errorf("OccupantID = %d, want 17", got.OccupantID)
	}
	if got.PreviousValue != `{"full_name":"Bob"}` {
		t.Errorf("PreviousValue = %q", got.PreviousValue)
	}
	if got.NewValue != `{"full_name":"Robert"}` {
		t.Errorf("NewValue = %q", got.NewValue)
	}
	if got.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestLogDefaults(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if err := store.Log(ctx, Entry{Action: ActionImport, Summary: "imported 12 rows"}); err != nil {
		t.Fatalf("Log: %v", err)
	}

	entries, err := store.Query(ctx, QueryFilter{Action: ActionImport})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].ID == "" {
		t.Error("expected generated ID, got empty string")
	}
	if entries[0].Actor != DefaultActor {
		t.Errorf("Actor = %q, want %q", entries[0].Actor, DefaultActor)
	}
	if entries[0].OccupantID != 0 {
		t.Errorf("OccupantID = %d, want 0", entries[0].OccupantID)
	}
}

func TestLogRejectsUnknownAction(t *testing.T) {
	store := setupStore(t)
	err := store.Log(context.Background(), Entry{Action: "office_painted"})
	if err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestQueryFilterByOffice(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for _, office := range []string{"302", "303", "302"} {
		if err := store.Log(ctx, Entry{Action: ActionOccupantAdded, OfficeID: office}); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	entries, err := store.Query(ctx, QueryFilter{OfficeID: "302"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries for 302, got %d", len(entries))
	}
}

func TestQueryFilterByActorAndAction(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	logs := []Entry{
		{Actor: "alice", Action: ActionOccupantAdded},
		{Actor: "alice", Action: ActionOccupantRemoved},
		{Actor: "bob", Action: ActionOccupantAdded},
	}
	for _, e := range logs {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	entries, err := store.Query(ctx, QueryFilter{Actor: "alice", Action: ActionOccupantAdded})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
}

func TestQueryNewestFirst(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := store.Log(ctx, Entry{ID: id, Action: ActionOccupantAdded}); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	entries, err := store.Query(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 3 || entries[0].ID != "c" || entries[2].ID != "a" {
		t.Errorf("unexpected order: %+v", entries)
	}
}

func TestQueryLimitOffset(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := store.Log(ctx, Entry{Action: ActionOccupantUpdated}); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	entries, err := store.Query(ctx, QueryFilter{Limit: 2})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries with limit, got %d", len(entries))
	}

	entries, err = store.Query(ctx, QueryFilter{Limit: 2, Offset: 4})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry with offset, got %d", len(entries))
	}

	entries, err = store.Query(ctx, QueryFilter{Offset: 3})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries with offset only, got %d", len(entries))
	}
}

func TestDeleteBefore(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.Log(ctx, Entry{Action: ActionOccupantRemoved}); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	deleted, err := store.DeleteBefore(ctx, time.Now().Add(24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if deleted != 3 {
		t.Errorf("expected 3 deleted, got %d", deleted)
	}

	entries, err := store.Query(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected 0 remaining entries, got %d", len(entries))
	}
}

func TestPrune(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := store.Log(ctx, Entry{Action: ActionOccupantAdded}); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	now := time.Now()
	if n, err := store.Prune(ctx, 0, now.AddDate(1, 0, 0)); err != nil || n != 0 {
		t.Errorf("Prune(0 days) = %d, %v; want 0, nil", n, err)
	}
	if n, err := store.Prune(ctx, 30, now); err != nil || n != 0 {
		t.Errorf("Prune(30 days) of fresh entries = %d, %v; want 0, nil", n, err)
	}
	n, err := store.Prune(ctx, 30, now.AddDate(0, 0, 60))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 pruned, got %d", n)
	}
}

func TestParseCutoff(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-03-01T08:00:00Z", time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)},
		{"90d", now.AddDate(0, 0, -90)},
		{" 0d ", now},
		{"36h", now.Add(-36 * time.Hour)},
	}
	for _, tt := range tests {
		got, err := ParseCutoff(tt.in, now)
		if err != nil {
			t.Errorf("ParseCutoff(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseCutoff(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, in := range []string{"", "yesterday", "-5d", "-1h", "1/2/2024"} {
		if _, err := ParseCutoff(in, now); !errors.Is(err, ErrBadCutoff) {
			t.Errorf("ParseCutoff(%q) error = %v, want ErrBadCutoff", in, err)
		}
	}
}

func TestGetByIDNotFound(t *testing.T) {
	store := setupStore(t)

	_, err := store.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// --- HTTP handler tests ---

func setupRouter(t *testing.T) (chi.Router, *Store) {
	t.Helper()
	store := setupStore(t)
	r := chi.NewRouter()
	RegisterRoutes(r, store)
	return r, store
}

func TestHTTPGetByID(t *testing.T) {
	r, store := setupRouter(t)

	entry := Entry{ID: "http-1", Actor: "alice", Action: ActionOccupantAdded, OfficeID: "405"}
	if err := store.Log(context.Background(), entry); err != nil {
		t.Fatalf("Log: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/audit/http-1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got Entry
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "http-1" || got.OfficeID != "405" {
		t.Errorf("got %+v", got)
	}
}

func TestHTTPGetByIDNotFound(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/audit/missing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHTTPQueryByOffice(t *testing.T) {
	r, store := setupRouter(t)
	ctx := context.Background()

	for _, office := range []string{"302", "303", "302"} {
		if err := store.Log(ctx, Entry{Action: ActionOccupantAdded, OfficeID: office}); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/audit?office=302&limit=10", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var entries []Entry
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries for 302, got %d", len(entries))
	}
}

func TestHTTPQueryEmptyIsArray(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/audit", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("body = %q, want []", body)
	}
}

func TestHTTPQueryBadLimit(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/audit?limit=zero", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestActorContext(t *testing.T) {
	ctx := context.Background()
	if got := ActorFrom(ctx); got != DefaultActor {
		t.Errorf("ActorFrom(empty) = %q, want %q", got, DefaultActor)
	}
	if got := ActorFrom(WithActor(ctx, "carol")); got != "carol" {
		t.Errorf("ActorFrom = %q, want carol", got)
	}
	if got := ActorFrom(WithActor(ctx, "")); got != DefaultActor {
		t.Errorf("ActorFrom(blank) = %q, want %q", got, DefaultActor)
	}
}
