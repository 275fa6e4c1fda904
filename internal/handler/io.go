package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"logicsim/internal/codec"
)

// Export downloads the graph in the format given by the format query parameter
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	c, err := codec.Lookup(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, h.logger, "Unsupported format", err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := h.editor.Save(&buf, c); err != nil {
		writeError(w, h.logger, "Failed to export", err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", c.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", c.FileName()))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("failed to write export", zap.Error(err))
	}
}

// Import replaces the graph with the uploaded document as a committed load
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	c, err := codec.Lookup(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, h.logger, "Unsupported format", err.Error(), http.StatusBadRequest)
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := h.editor.Load(body, c); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, h.logger, "Document too large", err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		writeError(w, h.logger, "Failed to load document", err.Error(), http.StatusUnprocessableEntity)
		return
	}
	h.respond(w, nil, nil)
}
