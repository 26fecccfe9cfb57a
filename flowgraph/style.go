package flowgraph

import (
	"sort"
	"strconv"

	"github.com/viant/xview/mapping"
	"github.com/viant/xview/timing"
)

// Coloring selects node fill strategy
type Coloring string

const (
	// ByTime scales red opacity with operator time
	ByTime Coloring = "time"
	// ByType assigns a categorical color per color key
	ByType Coloring = "type"
)

// Rule is one stylesheet rule
type Rule struct {
	Selector string            `yaml:"selector"`
	Style    map[string]string `yaml:"style"`
}

var palette = []string{
	// tableau20
	"#4c78a8", "#9ecae9", "#f58518", "#ffbf79", "#54a24b", "#88d27a", "#b79a20", "#f2cf5b", "#439894", "#83bcb6",
	"#e45756", "#ff9d98", "#79706e", "#bab0ac", "#d67195", "#fcbfd2", "#b279a2", "#d6a5c9", "#9e765f", "#d8b5a5",
	// category20b
	"#393b79", "#5254a3", "#6b6ecf", "#9c9ede", "#637939", "#8ca252", "#b5cf6b", "#cedb9c", "#8c6d31", "#bd9e39",
	"#e7ba52", "#e7cb94", "#843c39", "#ad494a", "#d6616b", "#e7969c", "#7b4173", "#a55194", "#ce6dbd", "#de9ed6",
}

// Color returns palette color of the i-th color key
func Color(i int) string {
	return palette[i%len(palette)]
}

// Opacity maps time to [0.05, 0.75] relative to max
func Opacity(time, maxTime float64) float64 {
	if maxTime <= 0 {
		return 0.05
	}
	return 0.05 + time/maxTime*0.7
}

// Stylesheet returns base rules followed by per-node coloring
func Stylesheet(values timing.Values, coloring Coloring, colorKeys []string) []Rule {
	result := []Rule{
		{Selector: "node", Style: map[string]string{"shape": "round-rectangle", "background-opacity": "0.6", "label": "data(label)"}},
		{Selector: "." + HighlightClass, Style: map[string]string{"border-color": "#0066cc", "border-width": "8"}},
		{Selector: "." + HoverClass, Style: map[string]string{"underlay-color": "#0066cc", "underlay-opacity": "0.5"}},
		{Selector: "edge", Style: map[string]string{"target-arrow-shape": "triangle", "curve-style": "bezier", "width": "1"}},
		{Selector: `edge[primary="false"]`, Style: map[string]string{"line-color": "#ddd", "target-arrow-color": "#ddd"}},
	}
	if coloring == ByTime && values != nil {
		maxTime := values.Max()
		ids := make([]string, 0, len(values))
		for id := range values {
			ids = append(ids, string(id))
		}
		sort.Strings(ids)
		for _, id := range ids {
			opacity := Opacity(values[mapping.OperatorID(id)].Time, maxTime)
			result = append(result, Rule{
				Selector: `node[id="` + id + `"]`,
				Style:    map[string]string{"background-color": "red", "background-opacity": strconv.FormatFloat(opacity, 'f', 3, 64)},
			})
		}
		return result
	}
	for i, key := range colorKeys {
		result = append(result, Rule{
			Selector: `node[colorKey="` + key + `"]`,
			Style:    map[string]string{"background-color": Color(i)},
		})
	}
	return result
}
