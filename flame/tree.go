package flame

import (
	"fmt"
)

// DefaultEpsilon is the minimal leaf value keeping zero-cost leaves clickable
const DefaultEpsilon = 0.01

// Record is a flat flame input entry
type Record struct {
	ID     string   `yaml:"id"`
	Parent string   `yaml:"parent,omitempty"` // Empty for the root
	Time   *float64 `yaml:"time,omitempty"`   // Own time used for display
	Value  float64  `yaml:"value,omitempty"`  // Own value used for geometry
}

// Rect is a partition rectangle
type Rect struct {
	X0, X1, Y0, Y1 float64
}

// Width returns horizontal extent
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns vertical extent
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// Node is a built flame tree node
type Node struct {
	ID       string
	ParentID string
	OwnTime  float64
	HasTime  bool
	Time     float64 // own + children time
	Value    float64 // own value after epsilon adjustment
	Sum      float64 // aggregated value driving width
	Depth    int
	Height   int // distance to the deepest leaf
	Children []*Node
	Parent   *Node
	Rect
}

// IsLeaf reports whether the node has no children
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// IsAncestorOf reports whether n is a strict ancestor of other
func (n *Node) IsAncestorOf(other *Node) bool {
	for parent := other.Parent; parent != nil; parent = parent.Parent {
		if parent == n {
			return true
		}
	}
	return false
}

// Walk visits nodes breadth first
func (n *Node) Walk(visit func(node *Node) bool) {
	queue := []*Node{n}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if !visit(node) {
			return
		}
		queue = append(queue, node.Children...)
	}
}

// Options controls building and layout
type Options struct {
	Width   float64
	Height  float64
	Epsilon float64
}

// DefaultOptions returns the chart geometry used by the flame view
func DefaultOptions() *Options {
	return &Options{Width: 975, Height: 200, Epsilon: DefaultEpsilon}
}

// Tree is a built, partitioned flame tree
type Tree struct {
	Root    *Node
	Options Options
	nodes   []*Node // breadth first order
	byID    map[string]*Node
}

// Build creates a rooted tree from flat records and computes its partition
func Build(records []Record, options *Options) (*Tree, error) {
	if options == nil {
		options = DefaultOptions()
	}
	byID := make(map[string]*Node, len(records))
	ordered := make([]*Node, 0, len(records))
	var root *Node
	for _, record := range records {
		if _, ok := byID[record.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, record.ID)
		}
		node := &Node{ID: record.ID, ParentID: record.Parent, Value: record.Value}
		if record.Time != nil {
			node.OwnTime = *record.Time
			node.HasTime = true
		}
		byID[record.ID] = node
		ordered = append(ordered, node)
		if record.Parent == "" {
			if root != nil {
				return nil, fmt.Errorf("%w: %s and %s", ErrMultipleRoots, root.ID, record.ID)
			}
			root = node
		}
	}
	if root == nil {
		return nil, ErrNoRoot
	}
	for _, node := range ordered {
		if node == root {
			continue
		}
		parent, ok := byID[node.ParentID]
		if !ok {
			return nil, fmt.Errorf("%w: %s of %s", ErrUnknownParent, node.ParentID, node.ID)
		}
		node.Parent = parent
		parent.Children = append(parent.Children, node)
	}
	tree := &Tree{Root: root, Options: *options, byID: byID}
	reached := make(map[*Node]bool, len(ordered))
	root.Walk(func(node *Node) bool {
		if node.Parent != nil {
			node.Depth = node.Parent.Depth + 1
		}
		reached[node] = true
		tree.nodes = append(tree.nodes, node)
		return true
	})
	for _, node := range ordered {
		if !reached[node] {
			return nil, fmt.Errorf("%w: %s", ErrUnreachable, node.ID)
		}
	}
	tree.aggregate(root)
	tree.partition()
	return tree, nil
}

// aggregate sums time and value in post order
func (t *Tree) aggregate(node *Node) {
	node.Time = node.OwnTime
	if node.IsLeaf() && node.Value < t.Options.Epsilon {
		node.Value = t.Options.Epsilon
	}
	node.Sum = node.Value
	node.Height = 0
	for _, child := range node.Children {
		t.aggregate(child)
		node.Time += child.Time
		node.Sum += child.Sum
		if child.Height+1 > node.Height {
			node.Height = child.Height + 1
		}
	}
}

// partition assigns each node a horizontal interval proportional to its sum and a depth band.
// Children are laid out from the left edge; an interior node's own value stays uncovered on the right.
func (t *Tree) partition() {
	band := t.Options.Height / float64(t.Root.Height+1)
	t.Root.Rect = Rect{X0: 0, X1: t.Options.Width, Y0: 0, Y1: band}
	for _, node := range t.nodes {
		if node.IsLeaf() || node.Sum <= 0 {
			continue
		}
		scale := node.Width() / node.Sum
		x := node.X0
		for _, child := range node.Children {
			width := child.Sum * scale
			child.Rect = Rect{X0: x, X1: x + width, Y0: float64(child.Depth) * band, Y1: float64(child.Depth+1) * band}
			x += width
		}
	}
}

// Lookup returns node by id
func (t *Tree) Lookup(id string) (*Node, bool) {
	node, ok := t.byID[id]
	return node, ok
}

// Nodes returns nodes in breadth first order
func (t *Tree) Nodes() []*Node {
	return t.nodes
}

// Matching returns non-root nodes whose id or parent id is in refs
func (t *Tree) Matching(refs []string) []*Node {
	if len(refs) == 0 {
		return nil
	}
	set := make(map[string]bool, len(refs))
	for _, ref := range refs {
		set[ref] = true
	}
	var result []*Node
	for _, node := range t.nodes {
		if node == t.Root {
			continue
		}
		if set[node.ID] || set[node.ParentID] {
			result = append(result, node)
		}
	}
	return result
}
