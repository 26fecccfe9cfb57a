package correlate

import (
	"github.com/viant/xview/document"
	"github.com/viant/xview/flame"
	"github.com/viant/xview/mapping"
)

// Line is a zero-based editor line
type Line int

// Snapshot pairs ranges and mapping index derived from the same document version
type Snapshot struct {
	Version uint64
	Ranges  *document.Ranges
	Index   *mapping.Index
}

// NewSnapshot creates a snapshot
func NewSnapshot(version uint64, ranges *document.Ranges, index *mapping.Index) *Snapshot {
	return &Snapshot{Version: version, Ranges: ranges, Index: index}
}

// Correlate maps a view payload to a record: a range, path key, editor line, operator id or flame node.
// It returns nil for an unresolvable payload and an empty record for a known one without associations.
func Correlate(snapshot *Snapshot, origin Origin, payload interface{}) *Record {
	if snapshot == nil {
		return nil
	}
	switch actual := payload.(type) {
	case Line:
		selected, ok := snapshot.Ranges.Resolve(int(actual))
		if !ok {
			return nil
		}
		return FromRange(snapshot, origin, selected)
	case *document.Range:
		return FromRange(snapshot, origin, actual)
	case document.PathKey:
		return FromPath(snapshot, origin, actual)
	case mapping.OperatorID:
		return FromOperator(snapshot, origin, actual)
	case *flame.Node:
		return FromFlame(snapshot, origin, actual)
	}
	return nil
}

// FromRange correlates an editor range
func FromRange(snapshot *Snapshot, origin Origin, selected *document.Range) *Record {
	if selected == nil {
		return nil
	}
	result := FromPath(snapshot, origin, selected.Key())
	if result != nil {
		result.Selected = selected
	}
	return result
}

// FromPath correlates a path with every operator mapped under it
func FromPath(snapshot *Snapshot, origin Origin, key document.PathKey) *Record {
	if key.Depth() < 0 {
		return nil
	}
	result := &Record{
		Paths:  snapshot.Index.KeysUnder(key),
		IDs:    snapshot.Index.OperatorsUnder(key),
		Target: key,
		Source: origin,
	}
	result.Selected, _ = snapshot.Ranges.Lookup(key)
	return result
}

// FromOperator correlates an operator with the most specific path mapping it
func FromOperator(snapshot *Snapshot, origin Origin, op mapping.OperatorID) *Record {
	if op == "" {
		return nil
	}
	result := &Record{IDs: []mapping.OperatorID{op}, Source: origin}
	if key, ok := snapshot.Index.PathContaining(op); ok {
		result.Target = key
		result.Selected, _ = snapshot.Ranges.Lookup(key)
	}
	return result
}

// FromFlame correlates a flame subtree: operator leaves become ids, interior nodes paths.
// Target is the node itself for interior nodes and its parent for leaves.
func FromFlame(snapshot *Snapshot, origin Origin, node *flame.Node) *Record {
	if node == nil {
		return nil
	}
	result := &Record{Source: origin}
	seenIDs := map[mapping.OperatorID]bool{}
	seenPaths := map[document.PathKey]bool{}
	node.Walk(func(item *flame.Node) bool {
		if item.Parent == nil {
			return true
		}
		if isOperator(snapshot, item) {
			id := mapping.OperatorID(item.ID)
			if !seenIDs[id] {
				seenIDs[id] = true
				result.IDs = append(result.IDs, id)
			}
			return true
		}
		key := document.PathKey(item.ID)
		if !seenPaths[key] {
			seenPaths[key] = true
			result.Paths = append(result.Paths, key)
		}
		return true
	})
	target := node
	if isOperator(snapshot, node) {
		target = node.Parent
	}
	if target != nil && target.Parent != nil {
		result.Target = document.PathKey(target.ID)
		result.Selected, _ = snapshot.Ranges.Lookup(result.Target)
	}
	return result
}

func isOperator(snapshot *Snapshot, node *flame.Node) bool {
	if !node.IsLeaf() {
		return false
	}
	return node.HasTime || snapshot.Index.Has(mapping.OperatorID(node.ID))
}
