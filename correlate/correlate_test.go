package correlate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/xview/document"
	"github.com/viant/xview/flame"
	"github.com/viant/xview/mapping"
	"github.com/viant/xview/timing"
)

var marks0 = document.Path{document.Property("marks"), document.Index(0)}

func sampleSnapshot() *Snapshot {
	ranges := document.NewRanges([]*document.Range{
		{StartLine: 0, EndLine: 2, Path: marks0},
		{StartLine: 5, EndLine: 8, Path: document.Path{document.Property("signals")}},
	})
	index := mapping.NewIndex(mapping.Mapping{
		`["marks"][0]`:           {"op3", "op4"},
		`["marks"][0]["encode"]`: {"op5"},
		`["data"][0]`:            {"op1"},
	})
	return NewSnapshot(1, ranges, index)
}

func TestCorrelate(t *testing.T) {
	snapshot := sampleSnapshot()

	testCases := []struct {
		description string
		origin      Origin
		payload     interface{}
		expectNil   bool
		ids         []mapping.OperatorID
		paths       []document.PathKey
		target      document.PathKey
		selected    bool
	}{
		{
			description: "editor path collects operators under it",
			origin:      Editor,
			payload:     document.PathKey(`["marks"][0]`),
			ids:         []mapping.OperatorID{"op3", "op4", "op5"},
			paths:       []document.PathKey{`["marks"][0]`, `["marks"][0]["encode"]`},
			target:      `["marks"][0]`,
			selected:    true,
		},
		{
			description: "editor line resolves nearest range",
			origin:      Editor,
			payload:     Line(1),
			ids:         []mapping.OperatorID{"op3", "op4", "op5"},
			paths:       []document.PathKey{`["marks"][0]`, `["marks"][0]["encode"]`},
			target:      `["marks"][0]`,
			selected:    true,
		},
		{
			description: "known range without operators yields empty record",
			origin:      Editor,
			payload:     Line(6),
			target:      `["signals"]`,
			selected:    true,
		},
		{
			description: "operator targets its most specific path",
			origin:      List,
			payload:     mapping.OperatorID("op5"),
			ids:         []mapping.OperatorID{"op5"},
			target:      `["marks"][0]["encode"]`,
		},
		{
			description: "unmapped operator keeps its id",
			origin:      Graph,
			payload:     mapping.OperatorID("op42"),
			ids:         []mapping.OperatorID{"op42"},
		},
		{
			description: "malformed path",
			origin:      Editor,
			payload:     document.PathKey(`["marks"`),
			expectNil:   true,
		},
		{
			description: "nil range",
			origin:      Editor,
			payload:     (*document.Range)(nil),
			expectNil:   true,
		},
		{
			description: "unsupported payload",
			origin:      Editor,
			payload:     42,
			expectNil:   true,
		},
	}
	for _, testCase := range testCases {
		actual := Correlate(snapshot, testCase.origin, testCase.payload)
		if testCase.expectNil {
			assert.Nil(t, actual, testCase.description)
			continue
		}
		require.NotNil(t, actual, testCase.description)
		assert.Equal(t, testCase.origin, actual.Source, testCase.description)
		assert.Equal(t, testCase.ids, actual.IDs, testCase.description)
		assert.Equal(t, testCase.paths, actual.Paths, testCase.description)
		assert.Equal(t, testCase.target, actual.Target, testCase.description)
		assert.Equal(t, testCase.selected, actual.Selected != nil, testCase.description)
	}
}

func TestCorrelate_EditorScenario(t *testing.T) {
	snapshot := NewSnapshot(1,
		document.NewRanges([]*document.Range{{StartLine: 0, EndLine: 2, Path: marks0}}),
		mapping.NewIndex(mapping.Mapping{`["marks"][0]`: {"op3", "op4"}}))

	actual := Correlate(snapshot, Editor, document.PathKey(`["marks"][0]`))
	require.NotNil(t, actual)
	assert.ElementsMatch(t, []mapping.OperatorID{"op3", "op4"}, actual.IDs)
	assert.EqualValues(t, `["marks"][0]`, actual.Target)
}

func TestCorrelate_QuotedPropertyName(t *testing.T) {
	quoted := document.Path{document.Property(`say "hi"`), document.Index(0)}
	ranges := document.NewRanges([]*document.Range{{StartLine: 1, EndLine: 3, Path: quoted}})
	index := mapping.NewIndex(mapping.Mapping{quoted.Key(): {"op7"}})
	snapshot := NewSnapshot(1, ranges, index)

	record := Correlate(snapshot, Editor, Line(2))
	require.NotNil(t, record)
	assert.Equal(t, quoted.Key(), record.Target)
	assert.Equal(t, []mapping.OperatorID{"op7"}, record.IDs)
	require.NotNil(t, record.Selected)
	assert.Equal(t, 1, record.Selected.StartLine)

	record = Correlate(snapshot, Graph, mapping.OperatorID("op7"))
	require.NotNil(t, record)
	assert.Equal(t, quoted.Key(), record.Target)
}

func TestCorrelate_Deterministic(t *testing.T) {
	snapshot := sampleSnapshot()
	first := Correlate(snapshot, Editor, Line(1))
	second := Correlate(snapshot, Editor, Line(1))
	assert.True(t, first.Equal(second))
	assert.False(t, first.Equal(Correlate(snapshot, Graph, Line(1))))
	assert.Nil(t, Correlate(nil, Editor, Line(1)))
}

func TestCorrelate_Flame(t *testing.T) {
	snapshot := sampleSnapshot()
	m := mapping.Mapping{
		`["marks"][0]`:           {"op3", "op4"},
		`["marks"][0]["encode"]`: {"op5"},
	}
	tree, err := flame.Build(flame.Input(m, timing.Values{"op3": {Time: 1}, "op4": {Time: 1}, "op5": {Time: 2}}), nil)
	require.NoError(t, err)

	interior, ok := tree.Lookup(`["marks"][0]`)
	require.True(t, ok)
	actual := Correlate(snapshot, Flame, interior)
	require.NotNil(t, actual)
	assert.Equal(t, []document.PathKey{`["marks"][0]`, `["marks"][0]["encode"]`}, actual.Paths)
	assert.ElementsMatch(t, []mapping.OperatorID{"op3", "op4", "op5"}, actual.IDs)
	assert.EqualValues(t, `["marks"][0]`, actual.Target)
	assert.NotNil(t, actual.Selected)

	leaf, ok := tree.Lookup("op5")
	require.True(t, ok)
	actual = Correlate(snapshot, Flame, leaf)
	require.NotNil(t, actual)
	assert.Equal(t, []mapping.OperatorID{"op5"}, actual.IDs)
	assert.Empty(t, actual.Paths)
	assert.EqualValues(t, `["marks"][0]["encode"]`, actual.Target)

	actual = Correlate(snapshot, Flame, tree.Root)
	require.NotNil(t, actual)
	assert.Empty(t, actual.Target, "synthetic root has no path")
	assert.NotContains(t, actual.Paths, document.PathKey(flame.RootID))
	assert.Len(t, actual.IDs, 3)
}

func TestRecord(t *testing.T) {
	var empty *Record
	assert.True(t, empty.Empty())
	assert.False(t, empty.HasID("op1"))
	assert.True(t, (&Record{Source: Editor}).Empty())

	record := &Record{IDs: []mapping.OperatorID{"op1"}, Paths: []document.PathKey{`["a"]`}, Target: `["a"][0]`}
	assert.True(t, record.HasID("op1"))
	assert.True(t, record.HasPath(`["a"][0]`))
	assert.True(t, record.HasPath(`["a"]`))
	assert.False(t, record.HasPath(`["b"]`))
	assert.Equal(t, []string{"op1", `["a"]`, `["a"][0]`}, record.Refs())
	assert.True(t, empty.Equal(nil))
	assert.False(t, record.Equal(nil))
}
