package mapping

import (
	"sort"

	"github.com/viant/xview/document"
)

// MatchMode controls how a path key associates with mapping keys
type MatchMode string

const (
	// MatchSubstring associates every mapping key containing the path key as a substring.
	// It over-matches shared numeric prefixes, e.g. [1 matches both [1] and [10].
	MatchSubstring MatchMode = "substring"
	// MatchPrefix associates the mapping key itself and its structural descendants
	MatchPrefix MatchMode = "prefix"
)

// Option configures an Index
type Option func(*Index)

// WithMatchMode sets association mode
func WithMatchMode(mode MatchMode) Option {
	return func(i *Index) {
		if mode == MatchPrefix || mode == MatchSubstring {
			i.mode = mode
		}
	}
}

// Index is a read-only bidirectional index between path keys and operator sets
type Index struct {
	mode      MatchMode
	keys      []document.PathKey
	operators map[document.PathKey][]OperatorID
	owners    map[OperatorID][]document.PathKey
}

// NewIndex builds an index from a mapping; the mapping is copied
func NewIndex(m Mapping, options ...Option) *Index {
	result := &Index{
		mode:      MatchSubstring,
		keys:      m.Keys(),
		operators: make(map[document.PathKey][]OperatorID, len(m)),
		owners:    make(map[OperatorID][]document.PathKey),
	}
	for _, option := range options {
		option(result)
	}
	for _, key := range result.keys {
		seen := make(map[OperatorID]bool)
		for _, op := range m[key] {
			if seen[op] {
				continue
			}
			seen[op] = true
			result.operators[key] = append(result.operators[key], op)
			result.owners[op] = append(result.owners[op], key)
		}
	}
	return result
}

// Mode returns association mode
func (i *Index) Mode() MatchMode {
	return i.mode
}

// Len returns number of mapping keys
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.keys)
}

// Keys returns mapping keys in lexical order
func (i *Index) Keys() []document.PathKey {
	if i == nil {
		return nil
	}
	return i.keys
}

// Operators returns operators registered exactly under key
func (i *Index) Operators(key document.PathKey) []OperatorID {
	if i == nil {
		return nil
	}
	return i.operators[key]
}

// Has reports whether the operator belongs to any mapping key
func (i *Index) Has(op OperatorID) bool {
	if i == nil {
		return false
	}
	_, ok := i.owners[op]
	return ok
}

// Matches reports whether key associates with the mapping key under the index mode
func (i *Index) Matches(key, mappingKey document.PathKey) bool {
	if i.mode == MatchPrefix {
		return mappingKey.HasPrefix(key)
	}
	return mappingKey.Contains(key)
}

// KeysUnder returns the mapping keys associated with key, in lexical order
func (i *Index) KeysUnder(key document.PathKey) []document.PathKey {
	if i == nil {
		return nil
	}
	var result []document.PathKey
	for _, candidate := range i.keys {
		if i.Matches(key, candidate) {
			result = append(result, candidate)
		}
	}
	return result
}

// OperatorsUnder returns the union of operators over every mapping key associated with key.
// Operators are ordered by first appearance when walking keys lexically.
func (i *Index) OperatorsUnder(key document.PathKey) []OperatorID {
	if i == nil {
		return nil
	}
	var result []OperatorID
	seen := make(map[OperatorID]bool)
	for _, candidate := range i.KeysUnder(key) {
		for _, op := range i.operators[candidate] {
			if seen[op] {
				continue
			}
			seen[op] = true
			result = append(result, op)
		}
	}
	return result
}

// PathContaining returns the longest mapping key whose set contains op
func (i *Index) PathContaining(op OperatorID) (document.PathKey, bool) {
	if i == nil {
		return "", false
	}
	owners := i.owners[op]
	if len(owners) == 0 {
		return "", false
	}
	best := owners[0]
	for _, candidate := range owners[1:] {
		if len(candidate) > len(best) || (len(candidate) == len(best) && candidate < best) {
			best = candidate
		}
	}
	return best, true
}

// AllOperators returns all distinct operators sorted lexically
func (i *Index) AllOperators() []OperatorID {
	if i == nil {
		return nil
	}
	result := make([]OperatorID, 0, len(i.owners))
	for op := range i.owners {
		result = append(result, op)
	}
	sort.Slice(result, func(a, b int) bool { return result[a] < result[b] })
	return result
}
