package flowgraph

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Node is a dataflow graph node
type Node struct {
	ID       string  `yaml:"id"`
	Label    string  `yaml:"label,omitempty"`
	Parent   string  `yaml:"parent,omitempty"`
	ColorKey string  `yaml:"colorKey,omitempty"`
	Width    float64 `yaml:"width,omitempty"`
	Height   float64 `yaml:"height,omitempty"`
}

// Edge is a dataflow graph edge
type Edge struct {
	ID      string `yaml:"id"`
	Source  string `yaml:"source"`
	Target  string `yaml:"target"`
	Label   string `yaml:"label,omitempty"`
	Primary bool   `yaml:"primary,omitempty"`
}

// Elements is a graph element snapshot
type Elements struct {
	Nodes []Node `yaml:"nodes"`
	Edges []Edge `yaml:"edges"`
}

// NodeIDs returns node ids in declaration order
func (e *Elements) NodeIDs() []string {
	if e == nil {
		return nil
	}
	result := make([]string, 0, len(e.Nodes))
	for _, node := range e.Nodes {
		result = append(result, node.ID)
	}
	return result
}

// ColorKeys returns distinct non-empty node color keys in declaration order
func (e *Elements) ColorKeys() []string {
	if e == nil {
		return nil
	}
	var result []string
	seen := map[string]bool{}
	for _, node := range e.Nodes {
		if node.ColorKey == "" || seen[node.ColorKey] {
			continue
		}
		seen[node.ColorKey] = true
		result = append(result, node.ColorKey)
	}
	return result
}

// Position is a node coordinate
type Position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Positions maps visible node ids to coordinates; nil means no positions snapshot
type Positions map[string]Position

// Selection lists selected element ids
type Selection struct {
	Nodes []string `yaml:"nodes,omitempty"`
	Edges []string `yaml:"edges,omitempty"`
}

// Empty reports whether nothing is selected
func (s *Selection) Empty() bool {
	return s == nil || (len(s.Nodes) == 0 && len(s.Edges) == 0)
}

// DecodeElements parses a YAML or JSON element snapshot
func DecodeElements(data []byte) (*Elements, error) {
	result := &Elements{}
	if err := yaml.Unmarshal(data, result); err != nil {
		return nil, fmt.Errorf("failed to decode elements: %w", err)
	}
	return result, nil
}

// DecodePositions parses a YAML or JSON positions snapshot
func DecodePositions(data []byte) (Positions, error) {
	var result Positions
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode positions: %w", err)
	}
	return result, nil
}
