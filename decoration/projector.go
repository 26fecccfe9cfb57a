package decoration

import (
	"sync"

	"github.com/viant/xview/correlate"
	"github.com/viant/xview/document"
	"github.com/viant/xview/flame"
)

// Projector turns a record into decorations of one view kind
type Projector interface {
	Project(snapshot *correlate.Snapshot, record *correlate.Record) []Decoration
}

// EditorProjector projects target and paths to editor line spans
type EditorProjector struct{}

// Project returns one span per distinct range, target first
func (EditorProjector) Project(snapshot *correlate.Snapshot, record *correlate.Record) []Decoration {
	if snapshot == nil || record == nil {
		return nil
	}
	var result []Decoration
	seen := map[document.PathKey]bool{}
	add := func(item *document.Range) {
		if item == nil || seen[item.Key()] {
			return
		}
		seen[item.Key()] = true
		result = append(result, Decoration{Ref: string(item.Key()), StartLine: item.StartLine, EndLine: item.EndLine})
	}
	if record.Target != "" {
		item, ok := snapshot.Ranges.Lookup(record.Target)
		if !ok {
			item = record.Selected
		}
		add(item)
	}
	for _, key := range record.Paths {
		item, _ := snapshot.Ranges.Lookup(key)
		add(item)
	}
	return result
}

// NodeProjector projects operator ids to graph or list node refs
type NodeProjector struct{}

// Project returns one decoration per operator id
func (NodeProjector) Project(_ *correlate.Snapshot, record *correlate.Record) []Decoration {
	if record == nil {
		return nil
	}
	result := make([]Decoration, 0, len(record.IDs))
	for _, id := range record.IDs {
		result = append(result, Decoration{Ref: string(id)})
	}
	return result
}

// FlameProjector projects ids and paths with their children to flame node refs
type FlameProjector struct {
	mux  sync.RWMutex
	tree *flame.Tree
}

// SetTree replaces the projected tree
func (p *FlameProjector) SetTree(tree *flame.Tree) {
	p.mux.Lock()
	defer p.mux.Unlock()
	p.tree = tree
}

// Tree returns the projected tree
func (p *FlameProjector) Tree() *flame.Tree {
	p.mux.RLock()
	defer p.mux.RUnlock()
	return p.tree
}

// Project returns one decoration per matching flame node
func (p *FlameProjector) Project(_ *correlate.Snapshot, record *correlate.Record) []Decoration {
	tree := p.Tree()
	if tree == nil || record == nil {
		return nil
	}
	nodes := tree.Matching(record.Refs())
	result := make([]Decoration, 0, len(nodes))
	for _, node := range nodes {
		result = append(result, Decoration{Ref: node.ID})
	}
	return result
}
