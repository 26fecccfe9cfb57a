package flowgraph

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
)

const (
	// HighlightClass marks nodes of the sticky highlight
	HighlightClass = "highlightNodes"
	// HoverClass marks nodes of the transient hover
	HoverClass = "hoverNodes"
)

// Engine reconciles element and position snapshots against a rendered graph
type Engine struct {
	layouter Layouter
	logger   *slog.Logger

	mux       sync.Mutex
	nodes     map[string]*Node
	edges     map[string]*Edge
	order     []string
	removed   map[string]bool
	positions Positions
	selected  map[string]bool
	classes   map[string]map[string]bool
	style     []Rule
	layouts   int
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	onSelect     func(selection *Selection)
	onHoverReset func()
	onClear      func()
}

// Option configures Engine
type Option func(e *Engine)

// WithLogger sets logger
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithOnSelect sets selection listener; nil selection means cleared
func WithOnSelect(fn func(selection *Selection)) Option {
	return func(e *Engine) {
		e.onSelect = fn
	}
}

// WithOnHoverReset sets listener invoked when hover must be dropped
func WithOnHoverReset(fn func()) Option {
	return func(e *Engine) {
		e.onHoverReset = fn
	}
}

// WithOnClear sets listener invoked when the background is clicked
func WithOnClear(fn func()) Option {
	return func(e *Engine) {
		e.onClear = fn
	}
}

// NewEngine creates an engine
func NewEngine(layouter Layouter, options ...Option) *Engine {
	result := &Engine{
		layouter: layouter,
		logger:   slog.Default(),
		nodes:    map[string]*Node{},
		edges:    map[string]*Edge{},
		selected: map[string]bool{},
		classes:  map[string]map[string]bool{},
	}
	for _, opt := range options {
		opt(result)
	}
	return result
}

// SetElements drops all elements, adds els and removes nodes absent from the current positions
func (e *Engine) SetElements(els *Elements) {
	e.mux.Lock()
	e.nodes = map[string]*Node{}
	e.edges = map[string]*Edge{}
	e.order = nil
	e.selected = map[string]bool{}
	e.removed = nil
	if els != nil {
		e.removed = map[string]bool{}
		for i := range els.Nodes {
			node := &els.Nodes[i]
			e.nodes[node.ID] = node
			e.order = append(e.order, node.ID)
			if _, ok := e.positions[node.ID]; !ok {
				e.removed[node.ID] = true
			}
		}
		for i := range els.Edges {
			edge := &els.Edges[i]
			e.edges[edge.ID] = edge
		}
	}
	e.mux.Unlock()
	e.resetHover()
}

// SetPositions stops the running layout, restores removed nodes and removes unpositioned ones.
// A layout runs only when the removed node set changed.
func (e *Engine) SetPositions(ctx context.Context, positions Positions) bool {
	e.mux.Lock()
	e.stopLayout()
	e.positions = positions
	if positions == nil {
		e.mux.Unlock()
		return false
	}
	restored := e.removed
	removed := map[string]bool{}
	var visible []string
	for _, id := range e.order {
		if _, ok := positions[id]; ok {
			visible = append(visible, id)
			continue
		}
		removed[id] = true
	}
	e.removed = removed
	if setsEqual(restored, removed) {
		e.mux.Unlock()
		return false
	}
	animate := false
	for _, id := range visible {
		if !restored[id] {
			animate = true
			break
		}
	}
	request := &LayoutRequest{Nodes: visible, Positions: positions, Animate: animate, Restored: copySet(restored)}
	e.layouts++
	layoutCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.wg.Add(1)
	e.mux.Unlock()

	e.resetHover()
	go func() {
		defer e.wg.Done()
		defer cancel()
		if err := e.layouter.Layout(layoutCtx, request); err != nil && !errors.Is(err, context.Canceled) {
			e.logger.Warn("layout failed", "nodes", len(request.Nodes), "err", err)
		}
	}()
	return true
}

// Wait blocks until the running layout finishes
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Stop cancels the running layout
func (e *Engine) Stop() {
	e.mux.Lock()
	e.stopLayout()
	e.mux.Unlock()
	e.wg.Wait()
}

// Layouts returns number of layout invocations
func (e *Engine) Layouts() int {
	e.mux.Lock()
	defer e.mux.Unlock()
	return e.layouts
}

// Visible returns node ids currently shown, in declaration order
func (e *Engine) Visible() []string {
	e.mux.Lock()
	defer e.mux.Unlock()
	var result []string
	for _, id := range e.order {
		if !e.removed[id] {
			result = append(result, id)
		}
	}
	return result
}

// VisibleEdges returns edge ids whose endpoints are both shown
func (e *Engine) VisibleEdges() []string {
	e.mux.Lock()
	defer e.mux.Unlock()
	var result []string
	for id := range e.edges {
		if e.edgeVisible(id) {
			result = append(result, id)
		}
	}
	sort.Strings(result)
	return result
}

// Removed returns ids of temporarily removed nodes
func (e *Engine) Removed() []string {
	e.mux.Lock()
	defer e.mux.Unlock()
	return sortedKeys(e.removed)
}

// Contains reports whether node is shown
func (e *Engine) Contains(id string) bool {
	e.mux.Lock()
	defer e.mux.Unlock()
	_, ok := e.nodes[id]
	return ok && !e.removed[id]
}

// Select makes exactly the given shown elements selected in one batch and notifies once
func (e *Engine) Select(selection *Selection) {
	e.mux.Lock()
	e.selected = map[string]bool{}
	if selection != nil {
		for _, id := range selection.Nodes {
			if _, ok := e.nodes[id]; ok && !e.removed[id] {
				e.selected[id] = true
			}
		}
		for _, id := range selection.Edges {
			if e.edgeVisible(id) {
				e.selected[id] = true
			}
		}
	}
	current := e.selection()
	e.mux.Unlock()
	e.notifySelect(current)
}

// Selected returns the current selection
func (e *Engine) Selected() *Selection {
	e.mux.Lock()
	defer e.mux.Unlock()
	return e.selection()
}

// ClickBackground clears selection and the highlight class, then notifies the clear listener
func (e *Engine) ClickBackground() {
	e.mux.Lock()
	e.selected = map[string]bool{}
	delete(e.classes, HighlightClass)
	e.mux.Unlock()
	e.notifySelect(nil)
	if e.onClear != nil {
		e.onClear()
	}
}

// SetStyle replaces the stylesheet
func (e *Engine) SetStyle(rules []Rule) {
	e.mux.Lock()
	defer e.mux.Unlock()
	e.style = rules
}

// Style returns the current stylesheet
func (e *Engine) Style() []Rule {
	e.mux.Lock()
	defer e.mux.Unlock()
	return e.style
}

// SyncClass clears class from every node and applies it to the given known nodes
func (e *Engine) SyncClass(class string, ids []string) {
	e.mux.Lock()
	defer e.mux.Unlock()
	members := map[string]bool{}
	for _, id := range ids {
		if _, ok := e.nodes[id]; ok {
			members[id] = true
		}
	}
	e.classes[class] = members
}

// HasClass reports whether node carries class
func (e *Engine) HasClass(id, class string) bool {
	e.mux.Lock()
	defer e.mux.Unlock()
	return e.classes[class][id]
}

// Classed returns nodes carrying class
func (e *Engine) Classed(class string) []string {
	e.mux.Lock()
	defer e.mux.Unlock()
	return sortedKeys(e.classes[class])
}

func (e *Engine) selection() *Selection {
	if len(e.selected) == 0 {
		return nil
	}
	result := &Selection{}
	for _, id := range sortedKeys(e.selected) {
		if _, ok := e.nodes[id]; ok {
			result.Nodes = append(result.Nodes, id)
			continue
		}
		result.Edges = append(result.Edges, id)
	}
	return result
}

func (e *Engine) edgeVisible(id string) bool {
	edge, ok := e.edges[id]
	if !ok {
		return false
	}
	_, hasSource := e.nodes[edge.Source]
	_, hasTarget := e.nodes[edge.Target]
	return hasSource && hasTarget && !e.removed[edge.Source] && !e.removed[edge.Target]
}

func (e *Engine) stopLayout() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

func (e *Engine) notifySelect(selection *Selection) {
	if e.onSelect != nil {
		e.onSelect(selection)
	}
}

func (e *Engine) resetHover() {
	if e.onHoverReset != nil {
		e.onHoverReset()
	}
}

func setsEqual(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for key := range a {
		if !b[key] {
			return false
		}
	}
	return true
}

func copySet(set map[string]bool) map[string]bool {
	result := make(map[string]bool, len(set))
	for key := range set {
		result[key] = true
	}
	return result
}

func sortedKeys(set map[string]bool) []string {
	result := make([]string, 0, len(set))
	for key := range set {
		result = append(result, key)
	}
	sort.Strings(result)
	return result
}
