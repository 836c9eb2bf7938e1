package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lehigh-university-libraries/restorer/internal/models"
	"github.com/lehigh-university-libraries/restorer/internal/session"
)

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := session.New(h.restorer)
	h.sessionStore.Set(sess.ID, sess)

	slog.Info("Session created", "session_id", sess.ID)
	h.writeState(w, sess, sess.Snapshot(), http.StatusCreated)
}

func (h *Handler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.sessionStore.GetAll()
	list := make([]StateResponse, 0, len(sessions))
	for _, sess := range sessions {
		list = append(list, newStateResponse(sess, sess.Snapshot()))
	}
	h.writeJSON(w, list)
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	h.writeState(w, sess, sess.Snapshot(), http.StatusOK)
}

func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	h.sessionStore.Delete(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleSelectOption(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	var request struct {
		Option models.RestorationOption `json:"option"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if !request.Option.Valid() {
		h.writeError(w, "option is required", http.StatusBadRequest)
		return
	}

	h.writeState(w, sess, sess.SelectOption(request.Option), http.StatusOK)
}

func (h *Handler) HandleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	var update models.PreferencesUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.writeState(w, sess, sess.UpdatePreferences(update), http.StatusOK)
}

func (h *Handler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	// The restoration runs to completion even if the client disconnects
	ctx := context.WithoutCancel(r.Context())
	err := sess.Restore(ctx)

	code := http.StatusOK
	switch {
	case err == nil:
	case errors.Is(err, session.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, session.ErrInProgress), errors.Is(err, session.ErrSuperseded):
		code = http.StatusConflict
	default:
		code = http.StatusBadGateway
	}

	h.writeState(w, sess, sess.Snapshot(), code)
}

func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	h.writeState(w, sess, sess.Reset(), http.StatusOK)
}

func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	download, ok := sess.Download()
	if !ok {
		h.writeError(w, "No restored image", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", download.MIMEType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+download.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(download.Data)))
	if _, err := w.Write(download.Data); err != nil {
		slog.Error("Unable to write download", "session_id", sess.ID, "err", err)
	}
}

func (h *Handler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	type labelled struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	}

	genders := make([]labelled, 0, len(models.Genders()))
	for _, g := range models.Genders() {
		genders = append(genders, labelled{ID: string(g), Label: g.Label()})
	}
	ethnicities := make([]labelled, 0, len(models.Ethnicities()))
	for _, e := range models.Ethnicities() {
		ethnicities = append(ethnicities, labelled{ID: string(e), Label: e.Label()})
	}

	h.writeJSON(w, map[string]any{
		"options":     models.RestorationOptions(),
		"genders":     genders,
		"ethnicities": ethnicities,
		"defaults":    models.DefaultPreferences(),
		"age_range":   []int{models.MinAge, models.MaxAge},
	})
}
