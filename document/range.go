package document

import (
	"sort"
)

// Range represents a foldable editor line interval tagged with its structural path
type Range struct {
	StartLine int  `yaml:"startLine"` // Zero-based first line
	EndLine   int  `yaml:"endLine"`   // Zero-based last folded line
	Path      Path `yaml:"-"`         // Structural path of the folded value
}

// Key returns the PathKey of the range
func (r *Range) Key() PathKey {
	return r.Path.Key()
}

// Ranges is an immutable snapshot of document ranges, replaced wholesale on each document change
type Ranges struct {
	// Fingerprint of the source the ranges were derived from
	Fingerprint uint64

	items []*Range
	// sorted distinct start lines
	starts []int
	// most specific range per start line
	byStart map[int]*Range
	byKey   map[PathKey]*Range
}

// NewRanges indexes ranges; when two ranges share a key the first one is kept
func NewRanges(ranges []*Range) *Ranges {
	result := &Ranges{
		byStart: make(map[int]*Range),
		byKey:   make(map[PathKey]*Range),
	}
	for _, item := range ranges {
		if item == nil {
			continue
		}
		key := item.Key()
		if _, ok := result.byKey[key]; ok {
			continue
		}
		result.byKey[key] = item
		result.items = append(result.items, item)
		prev, ok := result.byStart[item.StartLine]
		if !ok {
			result.starts = append(result.starts, item.StartLine)
			result.byStart[item.StartLine] = item
			continue
		}
		if len(item.Path) > len(prev.Path) {
			result.byStart[item.StartLine] = item
		}
	}
	sort.Ints(result.starts)
	return result
}

// Len returns number of ranges
func (r *Ranges) Len() int {
	if r == nil {
		return 0
	}
	return len(r.items)
}

// Items returns ranges in registration order
func (r *Ranges) Items() []*Range {
	if r == nil {
		return nil
	}
	return r.items
}

// Resolve returns the range with the greatest StartLine not exceeding line
func (r *Ranges) Resolve(line int) (*Range, bool) {
	if r == nil || len(r.starts) == 0 || line < 0 {
		return nil, false
	}
	idx := sort.Search(len(r.starts), func(i int) bool { return r.starts[i] > line })
	if idx == 0 {
		return nil, false
	}
	return r.byStart[r.starts[idx-1]], true
}

// Lookup returns the range for the key
func (r *Ranges) Lookup(key PathKey) (*Range, bool) {
	if r == nil {
		return nil, false
	}
	item, ok := r.byKey[key]
	return item, ok
}
