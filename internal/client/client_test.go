package client

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/officespace/internal/app"
	"github.com/ziadkadry99/officespace/internal/audit"
	"github.com/ziadkadry99/officespace/internal/config"
	"github.com/ziadkadry99/officespace/internal/db"
	"github.com/ziadkadry99/officespace/internal/floorplan"
	"github.com/ziadkadry99/officespace/internal/occupancy"
	"github.com/ziadkadry99/officespace/internal/render"
	"github.com/ziadkadry99/officespace/internal/textwrap"
)

func setupServer(t *testing.T) (*Client, *occupancy.Service, *audit.Store) {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	auditStore := audit.NewStore(database)
	svc := occupancy.NewService(occupancy.NewStore(database), auditStore, nil, nil)
	r := chi.NewRouter()
	occupancy.RegisterRoutes(r, svc)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c, err := New(config.RemoteConfig{BaseURL: srv.URL, Timeout: 5}, nil)
	require.NoError(t, err)
	return c, svc, auditStore
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(config.RemoteConfig{}, nil)
	assert.ErrorIs(t, err, ErrNoBaseURL)
}

func TestFetchOffices(t *testing.T) {
	c, svc, _ := setupServer(t)
	ctx := context.Background()
	_, err := svc.Add(ctx, "302", occupancy.Input{Name: "Alice"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, "302", occupancy.Input{Name: "Bob", EndDate: "2025-05-31"})
	require.NoError(t, err)

	data, err := c.FetchOffices(ctx)
	require.NoError(t, err)
	require.Len(t, data["302"], 2)
	assert.Equal(t, "Alice", data["302"][0].Name)
	assert.True(t, data["302"][1].Temporary)
	assert.Equal(t, "2025-05-31", data["302"][1].EndDate)
	assert.NotZero(t, data["302"][0].ID)
}

func TestWriteRoundTrip(t *testing.T) {
	c, svc, auditStore := setupServer(t)
	ctx := context.Background()
	c.SetActor("frank")

	added, err := c.AddOccupant(ctx, "405", occupancy.Input{Name: "Carol", AppointmentType: "Staff"})
	require.NoError(t, err)
	assert.Equal(t, "405", added.OfficeID)
	assert.Equal(t, "Staff", added.AppointmentType)

	edited, err := c.EditOccupant(ctx, added.ID, occupancy.Input{Name: "Carol W", StartDate: "2024-01-01"})
	require.NoError(t, err)
	assert.True(t, edited.Temporary)

	found, err := c.SearchOccupants(ctx, "carol")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "405", found[0].OfficeID)

	require.NoError(t, c.DeleteOccupant(ctx, added.ID))
	n, err := svc.Store().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	entries, err := auditStore.Query(ctx, audit.QueryFilter{Actor: "frank"})
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestErrors(t *testing.T) {
	c, _, _ := setupServer(t)
	ctx := context.Background()

	err := c.DeleteOccupant(ctx, 999)
	assert.ErrorIs(t, err, occupancy.ErrNotFound)

	_, err = c.AddOccupant(ctx, "302", occupancy.Input{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "missing 'name' field", apiErr.Message)
}

func TestRetriesReadsOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"302":{"occupants":[]}}`))
	}))
	defer srv.Close()

	c, err := New(config.RemoteConfig{BaseURL: srv.URL, Timeout: 5, Retries: 3}, nil)
	require.NoError(t, err)

	data, err := c.FetchOffices(context.Background())
	require.NoError(t, err)
	assert.Contains(t, data, "302")
	assert.Equal(t, int32(3), calls.Load())
}

func TestRemoteState(t *testing.T) {
	c, svc, _ := setupServer(t)
	ctx := context.Background()
	_, err := svc.Add(ctx, "303", occupancy.Input{Name: "Bob"})
	require.NoError(t, err)

	plan := floorplan.NewPlan(floorplan.DefaultFloors(), floorplan.DefaultGrid)
	r := render.New(plan.Grid(), render.DefaultStyle, textwrap.FixedMeasurer(6), textwrap.FixedMeasurer(5))
	state := app.New(plan, r, app.WithPersister(c))
	require.NoError(t, state.Load(ctx, c))

	require.NoError(t, state.AddOccupant(ctx, "302", floorplan.Occupant{Name: "Alice"}))
	bob, ok := state.Office("303")
	require.True(t, ok)
	require.NoError(t, state.RemoveOccupant(ctx, "303", 0, bob.Occupants[0]))

	grouped, err := svc.Offices(ctx)
	require.NoError(t, err)
	require.Len(t, grouped["302"], 1)
	assert.Equal(t, "Alice", grouped["302"][0].FullName)
	assert.Empty(t, grouped["303"])

	var svg bytes.Buffer
	require.NoError(t, state.WriteFloorSVG(&svg, 3))
	assert.Contains(t, svg.String(), "Alice")
}
