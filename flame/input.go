package flame

import (
	"github.com/viant/xview/mapping"
	"github.com/viant/xview/timing"
)

// RootID is the id of the synthetic root generated by Input
const RootID = "root"

// Input generates flat records from a mapping and pulse values: every mapping key becomes
// a chain of path prefixes under the root and every timed operator a leaf under its key.
// Nil values yield nil records.
func Input(m mapping.Mapping, values timing.Values) []Record {
	if values == nil {
		return nil
	}
	records := []Record{{ID: RootID}}
	seen := map[string]bool{RootID: true}
	for _, key := range m.Keys() {
		parent := RootID
		for _, prefix := range key.Prefixes() {
			id := string(prefix)
			if !seen[id] {
				seen[id] = true
				records = append(records, Record{ID: id, Parent: parent})
			}
			parent = id
		}
		for _, op := range m[key] {
			value, ok := values[op]
			if !ok || seen[string(op)] {
				continue
			}
			seen[string(op)] = true
			own := value.Time
			records = append(records, Record{ID: string(op), Parent: parent, Time: &own, Value: own})
		}
	}
	return records
}
