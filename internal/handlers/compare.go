package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lehigh-university-libraries/restorer/internal/compare"
)

// HandleCompare renders the before/after composite at the requested (or
// current) slider position
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	state := sess.Snapshot()
	if state.Original.Empty() {
		h.writeError(w, "No image uploaded", http.StatusNotFound)
		return
	}

	position := sess.Slider.Position()
	if p := r.URL.Query().Get("position"); p != "" {
		parsed, err := strconv.ParseFloat(p, 64)
		if err != nil {
			h.writeError(w, "Invalid position: "+err.Error(), http.StatusBadRequest)
			return
		}
		position = compare.Clamp(parsed)
	}

	format := r.URL.Query().Get("format")
	if format != "" && format != "png" && format != "webp" {
		h.writeError(w, "Invalid format. Must be 'png' or 'webp'", http.StatusBadRequest)
		return
	}

	original, err := compare.Decode(state.Original.Data, state.Original.MIMEType)
	if err != nil {
		h.writeError(w, "Failed to decode original image: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	out := original
	if state.RestoredImageURL != "" {
		data, err := state.RestoredImage()
		if err != nil {
			h.writeError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		restored, err := compare.Decode(data, "")
		if err != nil {
			h.writeError(w, "Failed to decode restored image: "+err.Error(), http.StatusInternalServerError)
			return
		}
		out = compare.Render(original, restored, position)
	}

	var buf bytes.Buffer
	if err := compare.Encode(&buf, out, format); err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", compare.ContentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("Unable to write comparison image", "session_id", sess.ID, "err", err)
	}
}
