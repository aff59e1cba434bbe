package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/officespace/internal/audit"
	"github.com/ziadkadry99/officespace/internal/importer"
	"github.com/ziadkadry99/officespace/internal/occupancy"
	"github.com/ziadkadry99/officespace/internal/popup"
)

// actionRequest is the body of a popup action. Only the fields the action
// needs are read.
type actionRequest struct {
	OfficeID string     `json:"office_id"`
	Index    int        `json:"index"`
	Form     popup.Form `json:"form"`
	Confirm  bool       `json:"confirm"`
}

type popupResponse struct {
	SessionID string     `json:"session_id"`
	View      popup.View `json:"view"`
	Removed   *bool      `json:"removed,omitempty"`
}

func (wb *Web) handleNewSession(w http.ResponseWriter, r *http.Request) {
	id := wb.sessions.Create()
	var view popup.View
	wb.sessions.do(id, func(sess *session) error {
		view = sess.machine.View()
		return nil
	})
	writeJSON(w, http.StatusCreated, popupResponse{SessionID: id, View: view})
}

func (wb *Web) handleView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sid")
	var view popup.View
	err := wb.sessions.do(id, func(sess *session) error {
		view = inputView(sess.machine.View())
		return nil
	})
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, popupResponse{SessionID: id, View: view})
}

func (wb *Web) handleAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sid")
	action := chi.URLParam(r, "action")

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	ctx := r.Context()
	if actor := r.Header.Get(occupancy.ActorHeader); actor != "" {
		ctx = audit.WithActor(ctx, actor)
	}

	resp := popupResponse{SessionID: id}
	err := wb.sessions.do(id, func(sess *session) error {
		m := sess.machine
		var err error
		switch action {
		case "open":
			err = m.Open(req.OfficeID)
		case "edit":
			err = m.Edit(req.Index)
		case "add":
			err = m.Add()
		case "save":
			err = m.Save(ctx, req.Form)
		case "delete":
			sess.confirmed = req.Confirm
			var removed bool
			removed, err = m.Delete(ctx)
			sess.confirmed = false
			resp.Removed = &removed
		case "cancel":
			err = m.Cancel()
		case "close", "backdrop":
			m.Close()
		default:
			return errUnknownAction
		}
		resp.View = inputView(m.View())
		return err
	})

	switch {
	case errors.Is(err, ErrNoSession):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errUnknownAction):
		writeError(w, http.StatusBadRequest, "unknown popup action: "+action)
	case err != nil:
		writeStateError(w, err)
	default:
		writeJSON(w, http.StatusOK, resp)
	}
}

var errUnknownAction = errors.New("unknown popup action")

// inputView converts roster-style form dates to what a date input accepts.
func inputView(v popup.View) popup.View {
	if v.ShowForm {
		v.Form.StartDate = importer.FormatDateForInput(v.Form.StartDate)
		v.Form.EndDate = importer.FormatDateForInput(v.Form.EndDate)
	}
	return v
}
