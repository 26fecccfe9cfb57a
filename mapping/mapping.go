package mapping

import (
	"fmt"
	"sort"

	"github.com/viant/xview/document"
	"gopkg.in/yaml.v3"
)

// OperatorID identifies a node in the compiled computation graph
type OperatorID string

// UnmarshalYAML accepts both string and numeric operator ids
func (o *OperatorID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: operator id at line %d is not a scalar", ErrDecode, value.Line)
	}
	*o = OperatorID(value.Value)
	return nil
}

// Mapping associates document paths with the operators compiled from them
type Mapping map[document.PathKey][]OperatorID

// Decode parses a YAML or JSON mapping document
func Decode(data []byte) (Mapping, error) {
	result := Mapping{}
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return result, nil
}

// Keys returns mapping keys in lexical order
func (m Mapping) Keys() []document.PathKey {
	keys := make([]document.PathKey, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
