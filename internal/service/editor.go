package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"logicsim/internal/codec"
	"logicsim/internal/domain"
	"logicsim/internal/history"
	"logicsim/internal/metrics"
	"logicsim/internal/simulate"
)

var (
	// ErrNoPrompter is returned by EditLabel when no LabelPrompter is configured
	ErrNoPrompter = errors.New("no label prompter configured")
	// ErrNoPendingConnection is returned by ConnectFinish without a prior ConnectStart
	ErrNoPendingConnection = errors.New("no pending connection")
)

// Operation names used for logging and metrics
const (
	OpAddNode       = "add_node"
	OpMoveNode      = "move_node"
	OpToggleInput   = "toggle_input"
	OpSetLabel      = "set_label"
	OpConnect       = "connect"
	OpConnectStart  = "connect_start"
	OpConnectFinish = "connect_finish"
	OpDeleteNode    = "delete_node"
	OpSimulate      = "simulate"
	OpUndo          = "undo"
	OpRedo          = "redo"
	OpLoad          = "load"
	OpSelectType    = "select_type"
)

// LabelPrompter asks the user for a signal name.
// Returning false means the prompt was cancelled.
type LabelPrompter interface {
	PromptLabel(ctx context.Context, node domain.Node) (string, bool)
}

// LabelPrompterFunc adapts a function to LabelPrompter
type LabelPrompterFunc func(ctx context.Context, node domain.Node) (string, bool)

// PromptLabel calls f
func (f LabelPrompterFunc) PromptLabel(ctx context.Context, node domain.Node) (string, bool) {
	return f(ctx, node)
}

// Option configures an Editor
type Option func(*Editor)

// WithLogger sets the editor logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithEventBus publishes change notifications on bus
func WithEventBus(bus *EventBus) Option {
	return func(e *Editor) { e.events = bus }
}

// WithMetrics records operations on collector
func WithMetrics(collector *metrics.Collector) Option {
	return func(e *Editor) { e.metrics = collector }
}

// WithLabelPrompter sets the port EditLabel uses to ask for a label
func WithLabelPrompter(p LabelPrompter) Option {
	return func(e *Editor) { e.prompter = p }
}

// Editor is one editing session: the live graph, its id allocator and its
// undo history. Each method is one event from the presentation layer and
// runs to completion under the session lock before the next is accepted.
//
// Committing operations push a snapshot onto the history. Rejected
// mutations leave everything untouched and return the rejection reason.
// Moves are never committed, so only the position before a drag is
// recoverable through undo.
type Editor struct {
	mu       sync.Mutex
	graph    *domain.Graph
	ids      *domain.IDAllocator
	history  *history.Manager
	selected domain.NodeType
	pending  *domain.NodeID

	prompter LabelPrompter
	events   *EventBus
	metrics  *metrics.Collector
	logger   *zap.Logger
}

// NewEditor starts a session with an empty graph and one empty snapshot in history
func NewEditor(opts ...Option) *Editor {
	e := &Editor{
		ids:      domain.NewIDAllocator(),
		history:  history.New(),
		selected: domain.NodeTypeInput,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.resetLocked()
	return e
}

// Reset starts a new session, discarding graph, history and id sequence
func (e *Editor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resetLocked()
	e.logger.Info("session reset")
	e.publishLocked(EventSessionReset)
}

func (e *Editor) resetLocked() {
	e.graph = domain.NewGraph()
	e.ids.Reset()
	e.history.Reset()
	e.pending = nil
	e.history.Push(domain.NewSnapshot(e.graph))
	e.recordSizesLocked()
}

// State returns a copy of the current editor view
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// Graph returns a copy of the current graph
func (e *Editor) Graph() *domain.Graph {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.Clone()
}

// SelectType sets the element type used by AddNodeAt
func (e *Editor) SelectType(t domain.NodeType) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !t.Valid() {
		return e.rejectLocked(OpSelectType, fmt.Errorf("%w: %q", domain.ErrUnknownType, t))
	}
	e.selected = t
	e.publishLocked(EventTypeSelected)
	return nil
}

// SelectedType returns the element type used by AddNodeAt
func (e *Editor) SelectedType() domain.NodeType {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selected
}

// AddNodeAt places a node of the selected type with an empty label
func (e *Editor) AddNodeAt(pos domain.Position) (domain.NodeID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addNodeLocked(e.selected, "", pos)
}

// AddNode places a new node. The id is only consumed when the node is placed.
func (e *Editor) AddNode(t domain.NodeType, label string, pos domain.Position) (domain.NodeID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addNodeLocked(t, label, pos)
}

func (e *Editor) addNodeLocked(t domain.NodeType, label string, pos domain.Position) (domain.NodeID, error) {
	node := domain.NewNode(e.ids.Peek(), t, label, pos)
	if err := e.graph.AddNode(node); err != nil {
		return 0, e.rejectLocked(OpAddNode, err)
	}
	id := e.ids.Next()
	e.commitLocked(OpAddNode, EventNodeAdded, zap.Int("node", int(id)))
	return id, nil
}

// MoveNode repositions a node while it is dragged. Moves are not committed.
func (e *Editor) MoveNode(id domain.NodeID, pos domain.Position) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.graph.MoveNode(id, pos); err != nil {
		return e.rejectLocked(OpMoveNode, err)
	}
	e.metrics.RecordOperation(OpMoveNode, true)
	e.publishLocked(EventNodeMoved)
	return nil
}

// ToggleInput flips an INPUT node's state
func (e *Editor) ToggleInput(id domain.NodeID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.graph.ToggleInput(id); err != nil {
		return e.rejectLocked(OpToggleInput, err)
	}
	e.commitLocked(OpToggleInput, EventInputToggled, zap.Int("node", int(id)))
	return nil
}

// SetLabel names an INPUT or OUTPUT node
func (e *Editor) SetLabel(id domain.NodeID, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setLabelLocked(id, text)
}

func (e *Editor) setLabelLocked(id domain.NodeID, text string) error {
	if err := e.graph.SetLabel(id, text); err != nil {
		return e.rejectLocked(OpSetLabel, err)
	}
	e.commitLocked(OpSetLabel, EventLabelChanged, zap.Int("node", int(id)))
	return nil
}

// EditLabel asks the configured LabelPrompter for a new label and applies it.
// The prompt runs outside the session lock; a cancelled prompt changes nothing.
func (e *Editor) EditLabel(ctx context.Context, id domain.NodeID) error {
	e.mu.Lock()
	node, ok := e.graph.Node(id)
	prompter := e.prompter
	var err error
	switch {
	case !ok:
		err = e.rejectLocked(OpSetLabel, fmt.Errorf("node %d: %w", id, domain.ErrNodeNotFound))
	case !node.Type.Labelable():
		err = e.rejectLocked(OpSetLabel, fmt.Errorf("node %d: %w", id, domain.ErrNotLabelable))
	case prompter == nil:
		err = ErrNoPrompter
	}
	e.mu.Unlock()
	if err != nil {
		return err
	}

	text, ok := prompter.PromptLabel(ctx, node)
	if !ok {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setLabelLocked(id, text)
}

// Connect wires from's output into to's inputs
func (e *Editor) Connect(from, to domain.NodeID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.connectLocked(OpConnect, from, to)
}

func (e *Editor) connectLocked(op string, from, to domain.NodeID) error {
	if err := e.graph.Connect(from, to); err != nil {
		return e.rejectLocked(op, err)
	}
	e.commitLocked(op, EventNodesConnected, zap.Int("from", int(from)), zap.Int("to", int(to)))
	return nil
}

// ConnectStart remembers id as the source of the next ConnectFinish
func (e *Editor) ConnectStart(id domain.NodeID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.graph.HasNode(id) {
		return e.rejectLocked(OpConnectStart, fmt.Errorf("node %d: %w", id, domain.ErrNodeNotFound))
	}
	src := id
	e.pending = &src
	e.publishLocked(EventConnectPending)
	return nil
}

// PendingSource returns the source recorded by ConnectStart, if any
func (e *Editor) PendingSource() (domain.NodeID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil {
		return 0, false
	}
	return *e.pending, true
}

// ConnectFinish connects the pending source to target. The pending source
// is cleared whether or not an edge was created.
func (e *Editor) ConnectFinish(target domain.NodeID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.finishLocked(target)
}

// ConnectFinishAt connects the pending source to the node under pt.
// Clicking empty canvas only clears the pending source.
func (e *Editor) ConnectFinishAt(pt domain.Position) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	target, ok := e.graph.NodeAt(pt)
	if !ok {
		e.clearPendingLocked()
		return e.rejectLocked(OpConnectFinish, fmt.Errorf("no node at (%g, %g): %w", pt.X, pt.Y, domain.ErrNodeNotFound))
	}
	return e.finishLocked(target.ID)
}

func (e *Editor) finishLocked(target domain.NodeID) error {
	if e.pending == nil {
		return e.rejectLocked(OpConnectFinish, ErrNoPendingConnection)
	}
	src := *e.pending
	e.pending = nil
	if err := e.connectLocked(OpConnectFinish, src, target); err != nil {
		e.publishLocked(EventConnectCleared)
		return err
	}
	return nil
}

// CancelConnect drops the pending source without creating an edge
func (e *Editor) CancelConnect() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clearPendingLocked()
}

func (e *Editor) clearPendingLocked() {
	if e.pending == nil {
		return
	}
	e.pending = nil
	e.publishLocked(EventConnectCleared)
}

// DeleteNode removes a node and everything referencing it
func (e *Editor) DeleteNode(id domain.NodeID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.graph.DeleteNode(id); err != nil {
		return e.rejectLocked(OpDeleteNode, err)
	}
	if e.pending != nil && *e.pending == id {
		e.pending = nil
	}
	e.commitLocked(OpDeleteNode, EventNodeDeleted, zap.Int("node", int(id)))
	return nil
}

// NodeAt returns the node under pt, if any
func (e *Editor) NodeAt(pt domain.Position) (domain.Node, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.NodeAt(pt)
}

// Simulate recomputes every non-INPUT state and commits the result
func (e *Editor) Simulate() {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	e.graph = simulate.Run(e.graph)
	elapsed := time.Since(start)

	e.metrics.ObserveSimulation(elapsed)
	e.commitLocked(OpSimulate, EventSimulated, zap.Duration("elapsed", elapsed))
}

// Undo restores the previous snapshot. It reports false at the oldest snapshot.
func (e *Editor) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap, ok := e.history.Undo()
	if !ok {
		e.metrics.RecordOperation(OpUndo, false)
		return false
	}
	e.adoptLocked(OpUndo, EventUndone, snap)
	return true
}

// Redo restores the next snapshot. It reports false at the newest snapshot.
func (e *Editor) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap, ok := e.history.Redo()
	if !ok {
		e.metrics.RecordOperation(OpRedo, false)
		return false
	}
	e.adoptLocked(OpRedo, EventRedone, snap)
	return true
}

func (e *Editor) adoptLocked(op string, evt EventType, snap *domain.Snapshot) {
	e.graph = snap.Graph()
	e.metrics.RecordOperation(op, true)
	e.recordSizesLocked()
	e.logger.Debug(op, zap.Int("cursor", e.history.Cursor()))
	e.publishLocked(evt)
}

// Save writes the current graph with exporter
func (e *Editor) Save(w io.Writer, exporter codec.Exporter) error {
	g := e.Graph()
	if err := exporter.Export(g, w); err != nil {
		e.logger.Error("save failed", zap.String("format", exporter.Format()), zap.Error(err))
		return err
	}
	return nil
}

// Load replaces the whole graph with one parsed by importer and commits it.
// A failed load leaves graph, history and id sequence untouched.
func (e *Editor) Load(r io.Reader, importer codec.Importer) error {
	g, err := importer.Parse(r)
	if err != nil {
		e.metrics.RecordOperation(OpLoad, false)
		e.logger.Warn("load failed", zap.String("format", importer.Format()), zap.Error(err))
		return err
	}
	return e.Replace(g)
}

// Replace adopts g wholesale as a committed load. The id allocator moves
// past the largest id in g so new nodes never collide with loaded ones.
func (e *Editor) Replace(g *domain.Graph) error {
	if err := g.Validate(); err != nil {
		e.metrics.RecordOperation(OpLoad, false)
		e.logger.Warn("load rejected", zap.Error(err))
		return fmt.Errorf("%w: %v", codec.ErrInvalidDocument, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.graph = g.Clone()
	e.ids.Observe(e.graph.MaxID())
	e.pending = nil
	e.commitLocked(OpLoad, EventSchemeLoaded, zap.Int("nodes", len(e.graph.Nodes)))
	return nil
}

// commitLocked pushes the current graph onto history and notifies subscribers
func (e *Editor) commitLocked(op string, evt EventType, fields ...zap.Field) {
	e.history.Push(domain.NewSnapshot(e.graph))
	e.metrics.RecordOperation(op, true)
	e.recordSizesLocked()

	fields = append(fields, zap.Int("cursor", e.history.Cursor()))
	e.logger.Debug(op, fields...)
	e.publishLocked(evt)
}

// rejectLocked records a rejected mutation and hands the reason back
func (e *Editor) rejectLocked(op string, err error) error {
	e.metrics.RecordOperation(op, false)
	e.logger.Debug(op+" rejected", zap.Error(err))
	return err
}

func (e *Editor) recordSizesLocked() {
	e.metrics.SetGraphSize(len(e.graph.Nodes), len(e.graph.Connections))
	e.metrics.SetHistory(e.history.Len(), e.history.Cursor())
}

func (e *Editor) publishLocked(evt EventType) {
	if e.events == nil {
		return
	}
	e.events.Publish(Event{Type: evt, Payload: e.stateLocked()})
}

func (e *Editor) stateLocked() State {
	s := State{
		Graph:         e.graph.Clone(),
		SelectedType:  e.selected,
		CanUndo:       e.history.CanUndo(),
		CanRedo:       e.history.CanRedo(),
		HistoryCursor: e.history.Cursor(),
		HistoryLength: e.history.Len(),
	}
	if e.pending != nil {
		src := *e.pending
		s.PendingSource = &src
	}
	return s
}
