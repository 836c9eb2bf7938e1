package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

// Router wires the HTTP API, event stream and static UI
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/options", h.HandleOptions).Methods(http.MethodGet)
	api.HandleFunc("/sessions", h.HandleCreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions", h.HandleListSessions).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", h.HandleGetSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", h.HandleDeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/upload", h.HandleUpload).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/upload-url", h.HandleUploadURL).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/option", h.HandleSelectOption).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{id}/preferences", h.HandleUpdatePreferences).Methods(http.MethodPatch)
	api.HandleFunc("/sessions/{id}/restore", h.HandleRestore).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/reset", h.HandleReset).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/download", h.HandleDownload).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/compare", h.HandleCompare).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/events", h.HandleEvents).Methods(http.MethodGet)

	r.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	r.PathPrefix("/").HandlerFunc(h.HandleStatic)

	return r
}
