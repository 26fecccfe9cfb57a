package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/viant/xview/correlate"
	"github.com/viant/xview/decoration"
	"github.com/viant/xview/flame"
	"github.com/viant/xview/flowgraph"
	"github.com/viant/xview/mapping"
	"github.com/viant/xview/timing"
)

// EditorView decorates the source editor
type EditorView struct {
	decorations *decoration.Sync
}

// NewEditorView creates an editor view over surface
func NewEditorView(surface decoration.Surface, options ...decoration.Option) *EditorView {
	return &EditorView{decorations: decoration.NewSync(correlate.Editor, surface, decoration.EditorProjector{}, options...)}
}

// Origin returns editor origin
func (v *EditorView) Origin() correlate.Origin {
	return correlate.Editor
}

// Update applies hover and highlight line decorations
func (v *EditorView) Update(ctx context.Context, state *State) {
	v.decorations.Apply(ctx, state.Snapshot, state.Hover, decoration.Hover)
	v.decorations.Apply(ctx, state.Snapshot, state.Highlight, decoration.Highlight)
}

// Sync returns the decoration synchronizer
func (v *EditorView) Sync() *decoration.Sync {
	return v.decorations
}

// GraphView reconciles the dataflow graph and its hover/highlight classes
type GraphView struct {
	engine      *flowgraph.Engine
	coloring    flowgraph.Coloring
	surface     *graphSurface
	decorations *decoration.Sync
	snapshot    *correlate.Snapshot
	pulse       *timing.Pulse
	styled      bool
	highlight   *correlate.Record
}

// NewGraphView creates a graph view over engine styled by coloring
func NewGraphView(engine *flowgraph.Engine, coloring flowgraph.Coloring, options ...decoration.Option) *GraphView {
	surface := &graphSurface{engine: engine, active: map[decoration.Handle]decoration.Decoration{}}
	return &GraphView{
		engine:      engine,
		coloring:    coloring,
		surface:     surface,
		decorations: decoration.NewSync(correlate.Graph, surface, decoration.NodeProjector{}, options...),
	}
}

// Origin returns graph origin
func (v *GraphView) Origin() correlate.Origin {
	return correlate.Graph
}

// Update reconciles elements on snapshot change, restyles on element or pulse change, then applies hover and highlight
func (v *GraphView) Update(ctx context.Context, state *State) {
	restyle := !v.styled || state.Pulse != v.pulse
	if state.Snapshot != v.snapshot {
		v.snapshot = state.Snapshot
		v.engine.SetElements(state.Elements)
		if v.engine.SetPositions(ctx, state.Positions) {
			recordRelayout(ctx)
		}
		restyle = true
	}
	if restyle {
		v.styled = true
		v.pulse = state.Pulse
		v.engine.SetStyle(flowgraph.Stylesheet(state.Values(), v.coloring, state.Elements.ColorKeys()))
	}
	v.decorations.Apply(ctx, state.Snapshot, state.Hover, decoration.Hover)
	v.decorations.Apply(ctx, state.Snapshot, state.Highlight, decoration.Highlight)
	if state.Highlight == v.highlight {
		return
	}
	v.highlight = state.Highlight
	if state.Highlight == nil {
		v.engine.Select(nil)
		return
	}
	if state.Highlight.Target != "" {
		nodes := make([]string, 0, len(state.Highlight.IDs))
		for _, id := range state.Highlight.IDs {
			nodes = append(nodes, string(id))
		}
		v.engine.Select(&flowgraph.Selection{Nodes: nodes})
	}
}

// Engine returns graph engine
func (v *GraphView) Engine() *flowgraph.Engine {
	return v.engine
}

// Revealed returns the node most recently revealed
func (v *GraphView) Revealed() string {
	return v.surface.Revealed()
}

// Sync returns the decoration synchronizer
func (v *GraphView) Sync() *decoration.Sync {
	return v.decorations
}

// graphSurface maps decorations to engine node classes
type graphSurface struct {
	engine   *flowgraph.Engine
	mux      sync.Mutex
	active   map[decoration.Handle]decoration.Decoration
	revealed string
}

func (s *graphSurface) Contains(ref string) bool {
	return s.engine.Contains(ref)
}

func (s *graphSurface) DeltaDecorations(old []decoration.Handle, next []decoration.Decoration) []decoration.Handle {
	s.mux.Lock()
	defer s.mux.Unlock()
	for _, handle := range old {
		delete(s.active, handle)
	}
	result := make([]decoration.Handle, 0, len(next))
	for _, item := range next {
		handle := decoration.Handle(uuid.NewString())
		s.active[handle] = item
		result = append(result, handle)
	}
	classes := map[string][]string{flowgraph.HoverClass: nil, flowgraph.HighlightClass: nil}
	for _, item := range s.active {
		class := flowgraph.HoverClass
		if item.Class == decoration.Highlight.String() {
			class = flowgraph.HighlightClass
		}
		classes[class] = append(classes[class], item.Ref)
	}
	for class, ids := range classes {
		s.engine.SyncClass(class, ids)
	}
	return result
}

func (s *graphSurface) Reveal(ctx context.Context, item decoration.Decoration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	s.revealed = item.Ref
	return nil
}

func (s *graphSurface) Revealed() string {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.revealed
}

// FlameView builds the flame tree of the selected pulse and decorates its nodes
type FlameView struct {
	options     *flame.Options
	logger      *slog.Logger
	layer       *decoration.Layer
	projector   *decoration.FlameProjector
	decorations *decoration.Sync

	mux      sync.Mutex
	snapshot *correlate.Snapshot
	pulse    *timing.Pulse
	zoom     *flame.Zoom
}

// NewFlameView creates a flame view
func NewFlameView(options *flame.Options, logger *slog.Logger) *FlameView {
	if logger == nil {
		logger = slog.Default()
	}
	layer := decoration.NewLayer()
	layer.SetRefs(nil)
	projector := &decoration.FlameProjector{}
	return &FlameView{
		options:     options,
		logger:      logger,
		layer:       layer,
		projector:   projector,
		decorations: decoration.NewSync(correlate.Flame, layer, projector, decoration.WithLogger(logger)),
	}
}

// Origin returns flame origin
func (v *FlameView) Origin() correlate.Origin {
	return correlate.Flame
}

// Update rebuilds the tree when mapping or pulse changed, then applies hover and highlight
func (v *FlameView) Update(ctx context.Context, state *State) {
	v.mux.Lock()
	if state.Snapshot != v.snapshot || state.Pulse != v.pulse {
		v.snapshot = state.Snapshot
		v.pulse = state.Pulse
		v.rebuild(state.Mapping, state.Values())
		v.decorations.Invalidate()
	}
	v.mux.Unlock()
	v.decorations.Apply(ctx, state.Snapshot, state.Hover, decoration.Hover)
	v.decorations.Apply(ctx, state.Snapshot, state.Highlight, decoration.Highlight)
}

func (v *FlameView) rebuild(m mapping.Mapping, values timing.Values) {
	v.zoom = nil
	records := flame.Input(m, values)
	if records == nil {
		v.reset()
		return
	}
	tree, err := flame.Build(records, v.options)
	if err != nil {
		v.logger.Warn("failed to build flame tree", "err", err)
		v.reset()
		return
	}
	refs := make([]string, 0, len(tree.Nodes()))
	for _, node := range tree.Nodes() {
		refs = append(refs, node.ID)
	}
	v.projector.SetTree(tree)
	v.layer.SetRefs(refs)
	v.zoom = flame.NewZoom(tree)
}

func (v *FlameView) reset() {
	v.projector.SetTree(nil)
	v.layer.SetRefs(nil)
}

// Tree returns the current flame tree
func (v *FlameView) Tree() *flame.Tree {
	return v.projector.Tree()
}

// Layer returns the decorated surface
func (v *FlameView) Layer() *decoration.Layer {
	return v.layer
}

// Click zooms to node id and returns the node for highlighting
func (v *FlameView) Click(id string) (*flame.Node, *flame.Transition) {
	v.mux.Lock()
	defer v.mux.Unlock()
	tree := v.projector.Tree()
	if tree == nil || v.zoom == nil {
		return nil, nil
	}
	node, ok := tree.Lookup(id)
	if !ok {
		return nil, nil
	}
	return node, v.zoom.Click(node)
}

// DoubleClick resets the zoom
func (v *FlameView) DoubleClick() *flame.Transition {
	v.mux.Lock()
	defer v.mux.Unlock()
	if v.zoom == nil {
		return nil
	}
	return v.zoom.DoubleClick()
}

// Zoom returns the zoom state machine
func (v *FlameView) Zoom() *flame.Zoom {
	v.mux.Lock()
	defer v.mux.Unlock()
	return v.zoom
}

// Cells returns label visibility and titles at the current zoom
func (v *FlameView) Cells() []flame.Cell {
	v.mux.Lock()
	defer v.mux.Unlock()
	if v.zoom == nil {
		return nil
	}
	return v.zoom.Cells()
}

// ListView lists timed operators ordered by time and filtered by highlight
type ListView struct {
	layer       *decoration.Layer
	decorations *decoration.Sync

	mux  sync.Mutex
	rows []timing.Row
}

// NewListView creates a list view
func NewListView(options ...decoration.Option) *ListView {
	layer := decoration.NewLayer()
	layer.SetRefs(nil)
	return &ListView{layer: layer, decorations: decoration.NewSync(correlate.List, layer, decoration.NodeProjector{}, options...)}
}

// Origin returns list origin
func (v *ListView) Origin() correlate.Origin {
	return correlate.List
}

// Update recomputes rows and applies hover
func (v *ListView) Update(ctx context.Context, state *State) {
	labels := map[string]string{}
	if state.Elements != nil {
		for _, node := range state.Elements.Nodes {
			labels[node.ID] = node.Label
		}
	}
	var filter []mapping.OperatorID
	if state.Highlight != nil {
		filter = state.Highlight.IDs
	}
	rows := timing.Rows(state.Values(), labels, filter)
	refs := make([]string, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, string(row.ID))
	}
	v.mux.Lock()
	v.rows = rows
	v.mux.Unlock()
	v.layer.SetRefs(refs)
	v.decorations.Invalidate()
	v.decorations.Apply(ctx, state.Snapshot, state.Hover, decoration.Hover)
}

// Rows returns listed rows
func (v *ListView) Rows() []timing.Row {
	v.mux.Lock()
	defer v.mux.Unlock()
	return v.rows
}

// Layer returns the decorated surface
func (v *ListView) Layer() *decoration.Layer {
	return v.layer
}
