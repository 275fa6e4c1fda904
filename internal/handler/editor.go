package handler

import (
	"net/http"
	"strconv"

	"logicsim/internal/domain"
)

type addNodeRequest struct {
	Type  string   `json:"type"`
	Label string   `json:"label" validate:"max=64"`
	X     *float64 `json:"x" validate:"required"`
	Y     *float64 `json:"y" validate:"required"`
}

type positionRequest struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
}

type labelRequest struct {
	Label string `json:"label" validate:"max=64"`
}

type selectTypeRequest struct {
	Type string `json:"type" validate:"required"`
}

type connectRequest struct {
	From *int `json:"from" validate:"required"`
	To   *int `json:"to" validate:"required"`
}

type connectStartRequest struct {
	ID *int `json:"id" validate:"required"`
}

// connectFinishRequest names the target either by id or by canvas position
type connectFinishRequest struct {
	ID *int     `json:"id" validate:"required_without_all=X Y"`
	X  *float64 `json:"x" validate:"required_with=Y"`
	Y  *float64 `json:"y" validate:"required_with=X"`
}

// GetState returns the graph together with selection and history state
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, h.editor.State(), http.StatusOK)
}

// Reset starts a new session
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.editor.Reset()
	h.respond(w, nil, nil)
}

// SelectType sets the element type used when a node is added without one
func (h *Handler) SelectType(w http.ResponseWriter, r *http.Request) {
	var req selectTypeRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.logger, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	t, err := domain.ParseNodeType(req.Type)
	if err != nil {
		h.respond(w, err, nil)
		return
	}
	h.respond(w, h.editor.SelectType(t), nil)
}

// AddNode places a node. Without a type the selected type is used.
func (h *Handler) AddNode(w http.ResponseWriter, r *http.Request) {
	var req addNodeRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.logger, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	pos := domain.NewPosition(*req.X, *req.Y)

	var (
		id  domain.NodeID
		err error
	)
	if req.Type == "" {
		id, err = h.editor.AddNodeAt(pos)
	} else {
		var t domain.NodeType
		if t, err = domain.ParseNodeType(req.Type); err == nil {
			id, err = h.editor.AddNode(t, req.Label, pos)
		}
	}
	if err != nil {
		h.respond(w, err, nil)
		return
	}
	h.respond(w, nil, &id)
}

// NodeAt returns the node under the point given by the x and y query parameters
func (h *Handler) NodeAt(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	y, errY := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	if errX != nil || errY != nil {
		writeError(w, h.logger, "Invalid position", "x and y must be numbers", http.StatusBadRequest)
		return
	}
	node, ok := h.editor.NodeAt(domain.NewPosition(x, y))
	if !ok {
		writeError(w, h.logger, "Not found", "no node at that position", http.StatusNotFound)
		return
	}
	writeJSON(w, h.logger, node, http.StatusOK)
}

// MoveNode repositions a node during a drag
func (h *Handler) MoveNode(w http.ResponseWriter, r *http.Request) {
	id, err := nodeIDParam(r)
	if err != nil {
		writeError(w, h.logger, "Invalid node ID", err.Error(), http.StatusBadRequest)
		return
	}
	var req positionRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.logger, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	h.respond(w, h.editor.MoveNode(id, domain.NewPosition(*req.X, *req.Y)), nil)
}

// ToggleInput flips an INPUT node
func (h *Handler) ToggleInput(w http.ResponseWriter, r *http.Request) {
	id, err := nodeIDParam(r)
	if err != nil {
		writeError(w, h.logger, "Invalid node ID", err.Error(), http.StatusBadRequest)
		return
	}
	h.respond(w, h.editor.ToggleInput(id), nil)
}

// SetLabel names an INPUT or OUTPUT node
func (h *Handler) SetLabel(w http.ResponseWriter, r *http.Request) {
	id, err := nodeIDParam(r)
	if err != nil {
		writeError(w, h.logger, "Invalid node ID", err.Error(), http.StatusBadRequest)
		return
	}
	var req labelRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.logger, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	h.respond(w, h.editor.SetLabel(id, req.Label), nil)
}

// DeleteNode removes a node and its connections
func (h *Handler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	id, err := nodeIDParam(r)
	if err != nil {
		writeError(w, h.logger, "Invalid node ID", err.Error(), http.StatusBadRequest)
		return
	}
	h.respond(w, h.editor.DeleteNode(id), nil)
}

// Connect wires one node's output into another's inputs
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.logger, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	h.respond(w, h.editor.Connect(domain.NodeID(*req.From), domain.NodeID(*req.To)), nil)
}

// ConnectStart records the source of a two-click connection
func (h *Handler) ConnectStart(w http.ResponseWriter, r *http.Request) {
	var req connectStartRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.logger, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	h.respond(w, h.editor.ConnectStart(domain.NodeID(*req.ID)), nil)
}

// ConnectFinish completes a two-click connection on a node id or a canvas point
func (h *Handler) ConnectFinish(w http.ResponseWriter, r *http.Request) {
	var req connectFinishRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.logger, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if req.ID != nil {
		h.respond(w, h.editor.ConnectFinish(domain.NodeID(*req.ID)), nil)
		return
	}
	h.respond(w, h.editor.ConnectFinishAt(domain.NewPosition(*req.X, *req.Y)), nil)
}

// CancelConnect drops a pending connection source
func (h *Handler) CancelConnect(w http.ResponseWriter, r *http.Request) {
	h.editor.CancelConnect()
	h.respond(w, nil, nil)
}

// Simulate recomputes the circuit
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	h.editor.Simulate()
	h.respond(w, nil, nil)
}

// Undo steps back one snapshot
func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	h.boundary(w, "undo", h.editor.Undo())
}

// Redo steps forward one snapshot
func (h *Handler) Redo(w http.ResponseWriter, r *http.Request) {
	h.boundary(w, "redo", h.editor.Redo())
}

// boundary answers undo and redo, which are no-ops at the ends of history
func (h *Handler) boundary(w http.ResponseWriter, op string, moved bool) {
	resp := OperationResponse{Applied: moved, State: h.editor.State()}
	if !moved {
		resp.Reason = "nothing to " + op
		h.logger.Debug(op+" at history boundary")
	}
	writeJSON(w, h.logger, resp, http.StatusOK)
}
