package flame

import (
	"time"
)

// TransitionDuration is the animation length of a focus change
const TransitionDuration = 750 * time.Millisecond

// State is a zoom state
type State int

const (
	// Idle shows the whole tree
	Idle State = iota
	// Focused shows the subtree of the focus node across the full width
	Focused
)

// String returns state name
func (s State) String() string {
	if s == Focused {
		return "focused"
	}
	return "idle"
}

// Transition animates every rectangle from its displayed position to its target
type Transition struct {
	Focus    *Node
	Duration time.Duration
	From     map[string]Rect
	To       map[string]Rect
}

// At returns the interpolated rectangle of node at progress in [0,1]
func (t *Transition) At(node *Node, progress float64) Rect {
	to, ok := t.To[node.ID]
	if !ok {
		return node.Rect
	}
	from, ok := t.From[node.ID]
	if !ok {
		return to
	}
	k := easeCubicInOut(clamp(progress))
	return Rect{
		X0: from.X0 + (to.X0-from.X0)*k,
		X1: from.X1 + (to.X1-from.X1)*k,
		Y0: from.Y0 + (to.Y0-from.Y0)*k,
		Y1: from.Y1 + (to.Y1-from.Y1)*k,
	}
}

// Zoom is the flame focus state machine: Idle(root) -click-> Focused(node) -dblclick-> Idle
type Zoom struct {
	tree       *Tree
	focus      *Node
	displayed  map[string]Rect
	transition *Transition
}

// NewZoom creates an idle zoom over tree
func NewZoom(tree *Tree) *Zoom {
	result := &Zoom{tree: tree, focus: tree.Root}
	result.displayed = result.targets(tree.Root)
	return result
}

// State returns current state
func (z *Zoom) State() State {
	if z.focus == z.tree.Root {
		return Idle
	}
	return Focused
}

// Focus returns the focus node (root when idle)
func (z *Zoom) Focus() *Node {
	return z.focus
}

// Transition returns the latest transition, superseding any earlier one
func (z *Zoom) Transition() *Transition {
	return z.transition
}

// Rect returns the displayed rectangle of node after the latest transition completes
func (z *Zoom) Rect(node *Node) Rect {
	if rect, ok := z.displayed[node.ID]; ok {
		return rect
	}
	return node.Rect
}

// Click focuses node; clicking the focused node focuses its parent. Root clicks are ignored.
func (z *Zoom) Click(node *Node) *Transition {
	if node == nil || node.Depth == 0 {
		return nil
	}
	if owner, ok := z.tree.Lookup(node.ID); !ok || owner != node {
		return nil
	}
	focus := node
	if z.focus == node {
		focus = node.Parent
	}
	return z.refocus(focus)
}

// DoubleClick resets to idle
func (z *Zoom) DoubleClick() *Transition {
	return z.refocus(z.tree.Root)
}

func (z *Zoom) refocus(focus *Node) *Transition {
	to := z.targets(focus)
	z.transition = &Transition{Focus: focus, Duration: TransitionDuration, From: z.displayed, To: to}
	z.displayed = to
	z.focus = focus
	return z.transition
}

// targets remaps every rectangle affinely into the focus interval
func (z *Zoom) targets(focus *Node) map[string]Rect {
	result := make(map[string]Rect, len(z.tree.nodes))
	width := z.tree.Options.Width
	span := focus.Width()
	for _, node := range z.tree.nodes {
		if focus == z.tree.Root || span <= 0 {
			result[node.ID] = node.Rect
			continue
		}
		result[node.ID] = Rect{
			X0: (node.X0 - focus.X0) / span * width,
			X1: (node.X1 - focus.X0) / span * width,
			Y0: node.Y0 - focus.Y0,
			Y1: node.Y1 - focus.Y0,
		}
	}
	return result
}

func easeCubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

func clamp(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
