package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/lehigh-university-libraries/restorer/internal/images"
	"github.com/lehigh-university-libraries/restorer/internal/session"
	"github.com/lehigh-university-libraries/restorer/internal/storage"
)

type Handler struct {
	sessionStore   *storage.SessionStore
	restorer       session.Restorer
	fetcher        *images.Fetcher
	maxUploadBytes int64
}

// StateResponse is the JSON view of a session
type StateResponse struct {
	ID string `json:"id"`
	session.State
	HasOriginal    bool    `json:"has_original"`
	HasRestored    bool    `json:"has_restored"`
	CanRestore     bool    `json:"can_restore"`
	DownloadReady  bool    `json:"download_ready"`
	SliderPosition float64 `json:"slider_position"`
}

func New(store *storage.SessionStore, restorer session.Restorer, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 20 << 20
	}
	return &Handler{
		sessionStore:   store,
		restorer:       restorer,
		fetcher:        images.NewFetcher(maxUploadBytes),
		maxUploadBytes: maxUploadBytes,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

func (h *Handler) writeState(w http.ResponseWriter, sess *session.Session, state session.State, code int) {
	h.writeJSONStatus(w, code, newStateResponse(sess, state))
}

func newStateResponse(sess *session.Session, state session.State) StateResponse {
	return StateResponse{
		ID:             sess.ID,
		State:          state,
		HasOriginal:    state.OriginalImageURL != "",
		HasRestored:    state.RestoredImageURL != "",
		CanRestore:     state.CanRestore(),
		DownloadReady:  state.DownloadReady(),
		SliderPosition: sess.Slider.Position(),
	}
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sessionID := mux.Vars(r)["id"]
	sess, exists := h.sessionStore.Get(sessionID)
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}
