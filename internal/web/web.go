// Package web serves the floor plan page, its rendering endpoints, popup
// dialog sessions and the live update feed.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ziadkadry99/officespace/internal/app"
	"github.com/ziadkadry99/officespace/internal/events"
	"github.com/ziadkadry99/officespace/internal/popup"
)

// SweepInterval is how often idle popup sessions are looked for.
const SweepInterval = time.Minute

// Web provides the browser-facing routes.
type Web struct {
	state    *app.State
	source   app.Source
	sessions *Sessions
	hub      *Hub
	logger   *zap.Logger
}

// New creates the web front end over state. source is used to reload the
// state when another writer changes the data.
func New(state *app.State, source app.Source, logger *zap.Logger) *Web {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("web")
	return &Web{
		state:    state,
		source:   source,
		sessions: NewSessions(state, DefaultSessionTTL),
		hub:      NewHub(logger),
		logger:   logger,
	}
}

// Sessions returns the popup session registry.
func (wb *Web) Sessions() *Sessions { return wb.sessions }

// Hub returns the websocket hub.
func (wb *Web) Hub() *Hub { return wb.hub }

// RegisterRoutes mounts all page, rendering, popup and websocket routes.
func (wb *Web) RegisterRoutes(r chi.Router) {
	r.Get("/", ServeIndex)
	r.Get("/api/floors", wb.handleFloors)
	r.Get("/floors/{n}.svg", wb.handleFloorSVG)
	r.Get("/api/floors/{n}/scene", wb.handleScene)

	r.Post("/api/popup", wb.handleNewSession)
	r.Get("/api/popup/{sid}", wb.handleView)
	r.Post("/api/popup/{sid}/{action}", wb.handleAction)

	r.Get("/ws/floors", wb.hub.ServeWS)
}

// Run reloads the state and notifies page clients for every change event
// until ctx is done, and expires idle popup sessions meanwhile.
func (wb *Web) Run(ctx context.Context, bus events.Bus) {
	ch, cancel := bus.Subscribe(ctx)
	defer cancel()

	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			wb.apply(ctx, e)
		case now := <-ticker.C:
			if n := wb.sessions.Sweep(now); n > 0 {
				wb.logger.Debug("expired popup sessions", zap.Int("count", n))
			}
		}
	}
}

// Close disconnects every websocket client.
func (wb *Web) Close() { wb.hub.Close() }

func (wb *Web) apply(ctx context.Context, e events.Event) {
	if wb.source != nil {
		if err := wb.state.Load(ctx, wb.source); err != nil {
			wb.logger.Error("reloading offices after change", zap.String("event", string(e.Type)), zap.Error(err))
			return
		}
	}
	msg := Message{Type: MessageFloorChanged, OfficeID: e.OfficeID}
	if n, ok := wb.state.Plan().FloorOf(e.OfficeID); ok {
		msg.Floor = n
	}
	wb.hub.Broadcast(msg)
}

type floorInfo struct {
	Number   int    `json:"number"`
	Name     string `json:"name"`
	Rooms    int    `json:"rooms"`
	Occupied int    `json:"occupied"`
}

func (wb *Web) handleFloors(w http.ResponseWriter, r *http.Request) {
	out := []floorInfo{}
	for _, f := range wb.state.Plan().Floors() {
		info := floorInfo{Number: f.Number, Name: f.Name, Rooms: len(f.Rooms)}
		if offices, err := wb.state.Offices(f.Number); err == nil {
			for _, o := range offices {
				if o.Occupied() {
					info.Occupied++
				}
			}
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, map[string]any{"current": wb.state.CurrentFloor(), "floors": out})
}

func (wb *Web) handleFloorSVG(w http.ResponseWriter, r *http.Request) {
	n, ok := floorParam(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	if err := wb.state.WriteFloorSVG(w, n); err != nil {
		w.Header().Set("Content-Type", "application/json")
		writeStateError(w, err)
	}
}

func (wb *Web) handleScene(w http.ResponseWriter, r *http.Request) {
	n, ok := floorParam(w, r)
	if !ok {
		return
	}
	groups, err := wb.state.Scene(n)
	if err != nil {
		writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func floorParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "floor must be a number")
		return 0, false
	}
	return n, true
}

func writeStateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrUnknownFloor), errors.Is(err, app.ErrUnknownOffice), errors.Is(err, popup.ErrUnknownOffice):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, app.ErrNotLoaded):
		writeError(w, http.StatusServiceUnavailable, "Could not load office data.")
	case errors.Is(err, popup.ErrEmptyName), errors.Is(err, popup.ErrIndexOutOfRange), errors.Is(err, app.ErrIndexOutOfRange):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, popup.ErrInvalidState), errors.Is(err, app.ErrOccupantChanged):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
