package flame

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	legibleWidth      = 50
	shortLegibleWidth = 20
	shortLabelLength  = 10
)

// LabelVisible reports whether the label of node id fits the rectangle within a canvas of the given height.
// The raw id length decides the narrow threshold.
func LabelVisible(rect Rect, id string, height float64) bool {
	if rect.Y1 > height || rect.X0 < 0 {
		return false
	}
	width := rect.Width()
	return width > legibleWidth || (width > shortLegibleWidth && len(id) < shortLabelLength)
}

// Cell is the drawn state of a node
type Cell struct {
	Node    *Node
	Rect    Rect
	Width   float64 // drawn width
	Label   string
	Title   string
	Visible bool // label shown
}

// Cells returns the drawn state of every node at its displayed rectangle, breadth first
func (z *Zoom) Cells() []Cell {
	result := make([]Cell, 0, len(z.tree.nodes))
	for _, node := range z.tree.nodes {
		rect := z.Rect(node)
		result = append(result, Cell{
			Node:    node,
			Rect:    rect,
			Width:   RectWidth(rect),
			Label:   Label(node.ID),
			Title:   Title(node),
			Visible: LabelVisible(rect, node.ID, z.tree.Options.Height),
		})
	}
	return result
}

// RectWidth returns drawn width leaving a one pixel gap between siblings
func RectWidth(rect Rect) float64 {
	width := rect.Width()
	return width - math.Min(1, width/2)
}

// Label strips a bracketed id to its last step, e.g. ["marks"][0] -> 0
func Label(id string) string {
	if idx := strings.LastIndex(id, "["); idx >= 0 {
		id = id[idx+1:]
	}
	return strings.NewReplacer(`"`, "", "]", "").Replace(id)
}

// Title derives a readable id with its time, e.g. ["marks"][0] -> marks -> 0
func Title(node *Node) string {
	id := node.ID
	if _, err := strconv.ParseFloat(id, 64); err == nil && node.ParentID != "" {
		id = node.ParentID + "[" + id
	}
	id = strings.ReplaceAll(id, "][", " -> ")
	id = strings.NewReplacer("]", "", "[", "", `"`, "").Replace(id)
	return fmt.Sprintf("%s\ntime: %s ms", id, FormatTime(node.Time))
}

// FormatTime formats milliseconds with two decimals
func FormatTime(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
