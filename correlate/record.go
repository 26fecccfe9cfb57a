package correlate

import (
	"github.com/viant/xview/document"
	"github.com/viant/xview/mapping"
)

// Origin identifies the view that produced a record
type Origin string

const (
	// Editor is the source document editor
	Editor Origin = "editor"
	// Graph is the dataflow graph view
	Graph Origin = "graph"
	// Flame is the flame chart view
	Flame Origin = "flame"
	// List is the operator timing list
	List Origin = "list"
)

// Record is a hover (transient) or highlight (sticky) correlation; nil means nothing
type Record struct {
	Paths    []document.PathKey   `yaml:"paths,omitempty"`
	IDs      []mapping.OperatorID `yaml:"ids,omitempty"`
	Selected *document.Range      `yaml:"-"`
	Target   document.PathKey     `yaml:"target,omitempty"`
	Source   Origin               `yaml:"source,omitempty"`
}

// Empty reports whether record references nothing
func (r *Record) Empty() bool {
	return r == nil || (len(r.Paths) == 0 && len(r.IDs) == 0 && r.Target == "")
}

// HasID reports whether record references operator
func (r *Record) HasID(id mapping.OperatorID) bool {
	if r == nil {
		return false
	}
	for _, candidate := range r.IDs {
		if candidate == id {
			return true
		}
	}
	return false
}

// HasPath reports whether record references key
func (r *Record) HasPath(key document.PathKey) bool {
	if r == nil {
		return false
	}
	if r.Target == key {
		return true
	}
	for _, candidate := range r.Paths {
		if candidate == key {
			return true
		}
	}
	return false
}

// Refs returns ids followed by paths and target as plain strings
func (r *Record) Refs() []string {
	if r == nil {
		return nil
	}
	result := make([]string, 0, len(r.IDs)+len(r.Paths)+1)
	for _, id := range r.IDs {
		result = append(result, string(id))
	}
	for _, key := range r.Paths {
		result = append(result, string(key))
	}
	if r.Target != "" {
		result = append(result, string(r.Target))
	}
	return result
}

// Equal reports whether both records reference the same things from the same source
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.Source != other.Source || r.Target != other.Target {
		return false
	}
	if !sameRange(r.Selected, other.Selected) {
		return false
	}
	if len(r.Paths) != len(other.Paths) || len(r.IDs) != len(other.IDs) {
		return false
	}
	for i := range r.Paths {
		if r.Paths[i] != other.Paths[i] {
			return false
		}
	}
	for i := range r.IDs {
		if r.IDs[i] != other.IDs[i] {
			return false
		}
	}
	return true
}

func sameRange(a, b *document.Range) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.StartLine == b.StartLine && a.EndLine == b.EndLine && a.Key() == b.Key()
}
