package timing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/xview/mapping"
)

func TestPulses_Add(t *testing.T) {
	pulses := &Pulses{}
	pulses.Add(&Pulse{Clock: 5})
	pulses.Add(&Pulse{Clock: 1})
	pulses.Add(&Pulse{Clock: 3})
	replacement := &Pulse{Clock: 3, Values: Values{"op1": {Time: 2}}}
	pulses.Add(replacement)
	pulses.Add(nil)

	var clocks []int64
	for _, pulse := range pulses.Items() {
		clocks = append(clocks, pulse.Clock)
	}
	assert.Equal(t, []int64{1, 3, 5}, clocks)
	assert.Same(t, replacement, pulses.Find(3))
	assert.Nil(t, pulses.Find(4))
	assert.EqualValues(t, 1, pulses.First().Clock)
}

func TestPulses_Values(t *testing.T) {
	pulses := &Pulses{}
	assert.Nil(t, pulses.Values(nil))

	pulses.Add(&Pulse{Clock: 2, Values: Values{"op2": {Time: 4}}})
	pulses.Add(&Pulse{Clock: 1, Values: Values{"op1": {Time: 1}}})

	assert.Equal(t, Values{"op1": {Time: 1}}, pulses.Values(nil))
	selected := int64(2)
	assert.Equal(t, Values{"op2": {Time: 4}}, pulses.Values(&selected))
	missing := int64(9)
	assert.Nil(t, pulses.Values(&missing))
	assert.Equal(t, 4.0, pulses.Values(&selected).Max())
}

func TestDecodePulses(t *testing.T) {
	input := `
- clock: 1
  values:
    op1: {time: 1.5}
    7: {time: 0.25}
`
	pulses, err := DecodePulses([]byte(input))
	require.NoError(t, err)
	require.Len(t, pulses, 1)
	assert.Equal(t, Values{"op1": {Time: 1.5}, "7": {Time: 0.25}}, pulses[0].Values)

	_, err = DecodePulses([]byte(`- clock: [`))
	assert.Error(t, err)
}

func TestRows(t *testing.T) {
	values := Values{
		"op1": {Time: 1.23456},
		"op2": {Time: 5},
		"op3": {Time: 1.23456},
		"op4": {Time: 9},
	}
	labels := map[string]string{"op1": "filter", "op2": "aggregate", "op3": "collect"}

	testCases := []struct {
		description string
		filter      []mapping.OperatorID
		expect      []Row
	}{
		{
			description: "all labelled operators by time",
			expect: []Row{
				{ID: "op2", Label: "aggregate", Time: 5},
				{ID: "op1", Label: "filter", Time: 1.235},
				{ID: "op3", Label: "collect", Time: 1.235},
			},
		},
		{
			description: "filtered by highlight",
			filter:      []mapping.OperatorID{"op3", "op4"},
			expect:      []Row{{ID: "op3", Label: "collect", Time: 1.235}},
		},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, Rows(values, labels, testCase.filter), testCase.description)
	}
}
