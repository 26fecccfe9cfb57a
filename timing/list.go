package timing

import (
	"math"
	"sort"

	"github.com/viant/xview/mapping"
)

// Row is one entry of the runtime table
type Row struct {
	ID    mapping.OperatorID `yaml:"id"`
	Label string             `yaml:"label"`
	Time  float64            `yaml:"time"`
}

// Rows lists operators present in labels ordered by time descending (ties by id).
// When filter is not empty only filtered operators are listed.
func Rows(values Values, labels map[string]string, filter []mapping.OperatorID) []Row {
	var allowed map[mapping.OperatorID]bool
	if len(filter) > 0 {
		allowed = make(map[mapping.OperatorID]bool, len(filter))
		for _, id := range filter {
			allowed[id] = true
		}
	}
	var result []Row
	for id, value := range values {
		label, ok := labels[string(id)]
		if !ok {
			continue
		}
		if allowed != nil && !allowed[id] {
			continue
		}
		result = append(result, Row{ID: id, Label: label, Time: round(value.Time, 3)})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Time != result[j].Time {
			return result[i].Time > result[j].Time
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func round(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}
