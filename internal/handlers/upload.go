package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/restorer/internal/images"

	"github.com/lehigh-university-libraries/restorer/internal/upload"
)

func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, "File exceeds upload limit", http.StatusRequestEntityTooLarge)
			return
		}
		h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		file, header, err = r.FormFile("files")
		if err != nil {
			h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	defer file.Close()

	img, err := upload.FromMultipart(file, header)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	slog.Info("Image uploaded", "session_id", sess.ID, "filename", img.Name, "mime_type", img.MIMEType, "bytes", len(img.Data))

	h.writeState(w, sess, sess.Upload(img), http.StatusOK)
}

// HandleUploadURL loads the original image from a remote URL
func (h *Handler) HandleUploadURL(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	var request struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if request.URL == "" {
		h.writeError(w, "url is required", http.StatusBadRequest)
		return
	}

	img, err := h.fetcher.Fetch(r.Context(), request.URL)
	if err != nil {
		code := http.StatusBadGateway
		if errors.Is(err, images.ErrTooLarge) {
			code = http.StatusRequestEntityTooLarge
		}
		h.writeError(w, "Failed to fetch image: "+err.Error(), code)
		return
	}

	slog.Info("Image fetched", "session_id", sess.ID, "url", request.URL, "mime_type", img.MIMEType, "bytes", len(img.Data))
	h.writeState(w, sess, sess.Upload(img), http.StatusOK)
}
