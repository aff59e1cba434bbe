package occupancy

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/officespace/internal/audit"
)

// ActorHeader names the request header that identifies who made a change.
const ActorHeader = "X-Actor"

// RegisterRoutes mounts the occupancy API on the given router.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/api/offices", handleListOffices(svc))
	r.Post("/api/offices/{officeID}/occupants", handleAdd(svc))
	r.Get("/api/occupants", handleSearch(svc))
	r.Put("/api/occupants/{id}", handleUpdate(svc))
	r.Delete("/api/occupants/{id}", handleDelete(svc))
}

// OccupantJSON is a record as returned by the write endpoints, which also
// name the office.
type OccupantJSON struct {
	Record
	OfficeID string `json:"office_id"`
}

type writeResponse struct {
	Message  string        `json:"message"`
	Occupant *OccupantJSON `json:"occupant,omitempty"`
}

func handleListOffices(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		grouped, err := svc.Offices(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Database error")
			return
		}
		out := make(map[string]Office, len(grouped))
		for id, records := range grouped {
			out[id] = Office{Occupants: records}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleSearch(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := svc.Store().Search(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Database error")
			return
		}
		out := make([]OccupantJSON, 0, len(records))
		for _, rec := range records {
			out = append(out, OccupantJSON{Record: rec, OfficeID: rec.OfficeID})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleAdd(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, ok := decodeInput(w, r)
		if !ok {
			return
		}
		rec, err := svc.Add(withActor(r), chi.URLParam(r, "officeID"), in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, writeResponse{
			Message:  "Occupant added successfully",
			Occupant: &OccupantJSON{Record: rec, OfficeID: rec.OfficeID},
		})
	}
}

func handleUpdate(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := occupantID(w, r)
		if !ok {
			return
		}
		in, ok := decodeInput(w, r)
		if !ok {
			return
		}
		rec, err := svc.Update(withActor(r), id, in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, writeResponse{
			Message:  "Occupant updated successfully",
			Occupant: &OccupantJSON{Record: rec, OfficeID: rec.OfficeID},
		})
	}
}

func handleDelete(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := occupantID(w, r)
		if !ok {
			return
		}
		if _, err := svc.Delete(withActor(r), id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, writeResponse{Message: "Occupant deleted successfully"})
	}
}

func decodeInput(w http.ResponseWriter, r *http.Request) (Input, bool) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "Request must be JSON")
		return Input{}, false
	}
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return Input{}, false
	}
	return in, true
}

func occupantID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "occupant id must be an integer")
		return 0, false
	}
	return id, true
}

func withActor(r *http.Request) context.Context {
	if actor := r.Header.Get(ActorHeader); actor != "" {
		return audit.WithActor(r.Context(), actor)
	}
	return r.Context()
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNameRequired), errors.Is(err, ErrOfficeID):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "Occupant not found")
	default:
		writeError(w, http.StatusInternalServerError, "Database error")
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
