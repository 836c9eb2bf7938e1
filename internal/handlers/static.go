package handlers

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/restorer/internal/session"
)

//go:embed static
var staticFiles embed.FS

func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	filepath := strings.TrimPrefix(r.URL.Path, "/static/")
	filepath = strings.TrimPrefix(filepath, "/")
	if filepath == "" {
		filepath = "index.html"
	}

	// ?image=<url> starts a session with a remote photo
	if imageURL := r.URL.Query().Get("image"); imageURL != "" {
		sessionID, err := h.createSessionFromURL(r.Context(), imageURL)
		if err != nil {
			slog.Error("Failed to create session from URL", "url", imageURL, "error", err)
			http.Error(w, "Failed to process image URL: "+err.Error(), http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, "/?session="+sessionID, http.StatusFound)
		return
	}

	// Prevent directory traversal attacks
	if strings.Contains(filepath, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	switch {
	case strings.HasSuffix(filepath, ".css"):
		w.Header().Set("Content-Type", "text/css")
	case strings.HasSuffix(filepath, ".js"):
		w.Header().Set("Content-Type", "application/javascript")
	case strings.HasSuffix(filepath, ".html"):
		w.Header().Set("Content-Type", "text/html")
	}

	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.ServeFileFS(w, r, sub, filepath)
}

func (h *Handler) createSessionFromURL(ctx context.Context, imageURL string) (string, error) {
	img, err := h.fetcher.Fetch(ctx, imageURL)
	if err != nil {
		return "", err
	}

	sess := session.New(h.restorer)
	sess.Upload(img)
	h.sessionStore.Set(sess.ID, sess)

	slog.Info("Session created from URL", "session_id", sess.ID, "url", imageURL)
	return sess.ID, nil
}
