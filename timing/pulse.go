package timing

import (
	"fmt"
	"sort"

	"github.com/viant/xview/mapping"
	"gopkg.in/yaml.v3"
)

// Timing holds per-operator timing of one pulse
type Timing struct {
	Time float64 `yaml:"time"` // Milliseconds spent in the operator
}

// Values maps operators to their timing
type Values map[mapping.OperatorID]Timing

// Max returns the largest time, or zero for empty values
func (v Values) Max() float64 {
	var result float64
	for _, item := range v {
		if item.Time > result {
			result = item.Time
		}
	}
	return result
}

// Pulse is one timed execution snapshot, ordered by its logical clock
type Pulse struct {
	Clock  int64  `yaml:"clock"`
	Values Values `yaml:"values"`
}

// DecodePulses parses a YAML or JSON list of pulses
func DecodePulses(data []byte) ([]*Pulse, error) {
	var result []*Pulse
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode pulses: %w", err)
	}
	return result, nil
}

// Pulses is a clock ordered log of pulses
type Pulses struct {
	items []*Pulse
}

// Add inserts a pulse by clock; a pulse with an existing clock replaces it
func (p *Pulses) Add(pulse *Pulse) {
	if pulse == nil {
		return
	}
	idx := sort.Search(len(p.items), func(i int) bool { return p.items[i].Clock >= pulse.Clock })
	if idx < len(p.items) && p.items[idx].Clock == pulse.Clock {
		p.items[idx] = pulse
		return
	}
	p.items = append(p.items, nil)
	copy(p.items[idx+1:], p.items[idx:])
	p.items[idx] = pulse
}

// Len returns number of pulses
func (p *Pulses) Len() int {
	return len(p.items)
}

// Items returns pulses in clock order
func (p *Pulses) Items() []*Pulse {
	return p.items
}

// First returns the earliest pulse
func (p *Pulses) First() *Pulse {
	if len(p.items) == 0 {
		return nil
	}
	return p.items[0]
}

// Find returns the pulse with the clock
func (p *Pulses) Find(clock int64) *Pulse {
	idx := sort.Search(len(p.items), func(i int) bool { return p.items[i].Clock >= clock })
	if idx < len(p.items) && p.items[idx].Clock == clock {
		return p.items[idx]
	}
	return nil
}

// Values returns the values of the selected clock, falling back to the first pulse when nothing is selected
func (p *Pulses) Values(selected *int64) Values {
	if selected != nil {
		if pulse := p.Find(*selected); pulse != nil {
			return pulse.Values
		}
		return nil
	}
	if first := p.First(); first != nil {
		return first.Values
	}
	return nil
}
