package flowgraph

import (
	"context"
	"sort"
	"sync"
)

// LayoutRequest describes one preset layout run
type LayoutRequest struct {
	Nodes     []string        // visible nodes
	Positions Positions       // target coordinates
	Animate   bool            // some visible node was not just restored
	Restored  map[string]bool // nodes placed without animation
}

// Layouter moves visible nodes to their positions until done or ctx is cancelled
type Layouter interface {
	Layout(ctx context.Context, request *LayoutRequest) error
}

// Preset is an in-memory layouter placing nodes at their supplied coordinates
type Preset struct {
	mux      sync.Mutex
	placed   map[string]Position
	animated map[string]bool
}

// NewPreset creates a preset layouter
func NewPreset() *Preset {
	return &Preset{placed: map[string]Position{}, animated: map[string]bool{}}
}

// Layout places every visible node unless cancelled
func (p *Preset) Layout(ctx context.Context, request *LayoutRequest) error {
	p.mux.Lock()
	defer p.mux.Unlock()
	for _, id := range request.Nodes {
		if err := ctx.Err(); err != nil {
			return err
		}
		position, ok := request.Positions[id]
		if !ok {
			continue
		}
		p.placed[id] = position
		p.animated[id] = request.Animate && !request.Restored[id]
	}
	return nil
}

// Position returns the placed coordinate of node
func (p *Preset) Position(id string) (Position, bool) {
	p.mux.Lock()
	defer p.mux.Unlock()
	position, ok := p.placed[id]
	return position, ok
}

// Animated reports whether node moved with animation in its last placement
func (p *Preset) Animated(id string) bool {
	p.mux.Lock()
	defer p.mux.Unlock()
	return p.animated[id]
}

// Placed returns placed node ids
func (p *Preset) Placed() []string {
	p.mux.Lock()
	defer p.mux.Unlock()
	result := make([]string, 0, len(p.placed))
	for id := range p.placed {
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}
