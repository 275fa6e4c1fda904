package handler

import (
	"errors"
	"net/http"

	"logicsim/internal/analysis"
	"logicsim/internal/domain"
)

// TruthTable returns the truth table of the current graph
func (h *Handler) TruthTable(w http.ResponseWriter, r *http.Request) {
	table, err := analysis.TruthTable(h.editor.Graph())
	if err != nil {
		writeError(w, h.logger, "Too many inputs", err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, h.logger, table, http.StatusOK)
}

// Satisfy searches for an input assignment that drives a node true
func (h *Handler) Satisfy(w http.ResponseWriter, r *http.Request) {
	id, err := nodeIDParam(r)
	if err != nil {
		writeError(w, h.logger, "Invalid node ID", err.Error(), http.StatusBadRequest)
		return
	}

	witness, err := analysis.Satisfy(h.editor.Graph(), id)
	switch {
	case err == nil:
		writeJSON(w, h.logger, witness, http.StatusOK)
	case errors.Is(err, domain.ErrNodeNotFound):
		writeError(w, h.logger, "Not found", err.Error(), http.StatusNotFound)
	case errors.Is(err, analysis.ErrUnsatisfiable), errors.Is(err, analysis.ErrCyclic):
		writeError(w, h.logger, "No witness", err.Error(), http.StatusUnprocessableEntity)
	default:
		writeError(w, h.logger, "Analysis failed", err.Error(), http.StatusInternalServerError)
	}
}
