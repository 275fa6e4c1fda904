package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"logicsim/internal/codec"
	"logicsim/internal/repository"
	"logicsim/internal/service"
)

type saveSchemeRequest struct {
	Name string `json:"name" validate:"required,max=128"`
}

// ListSchemes returns the saved schemes
func (h *Handler) ListSchemes(w http.ResponseWriter, r *http.Request) {
	schemes, err := h.schemes.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list schemes", zap.Error(err))
		writeError(w, h.logger, "Failed to list schemes", err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, h.logger, schemes, http.StatusOK)
}

// SaveScheme stores the current graph under a name
func (h *Handler) SaveScheme(w http.ResponseWriter, r *http.Request) {
	var req saveSchemeRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.logger, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	scheme, err := h.schemes.Save(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSchemeName) {
			writeError(w, h.logger, "Invalid scheme name", err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to save scheme", zap.String("name", req.Name), zap.Error(err))
		writeError(w, h.logger, "Failed to save scheme", err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, h.logger, scheme, http.StatusCreated)
}

// LoadScheme replaces the graph with a saved scheme
func (h *Handler) LoadScheme(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, err := h.schemes.Load(r.Context(), name); err != nil {
		switch {
		case errors.Is(err, repository.ErrSchemeNotFound):
			writeError(w, h.logger, "Not found", err.Error(), http.StatusNotFound)
		case errors.Is(err, codec.ErrInvalidDocument):
			writeError(w, h.logger, "Failed to load scheme", err.Error(), http.StatusUnprocessableEntity)
		default:
			h.logger.Error("failed to load scheme", zap.String("name", name), zap.Error(err))
			writeError(w, h.logger, "Failed to load scheme", err.Error(), http.StatusInternalServerError)
		}
		return
	}
	h.respond(w, nil, nil)
}

// DeleteScheme removes a saved scheme
func (h *Handler) DeleteScheme(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.schemes.Delete(r.Context(), name); err != nil {
		if errors.Is(err, repository.ErrSchemeNotFound) {
			writeError(w, h.logger, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("failed to delete scheme", zap.String("name", name), zap.Error(err))
		writeError(w, h.logger, "Failed to delete scheme", err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
