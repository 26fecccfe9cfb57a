package document

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

const sampleSpec = `{
  "marks": [
    {
      "type": "rect",
      "encode": {
        "update": {"fill": {"value": "red"}}
      }
    }
  ],
  "signals": []
}`

func TestRanges_Resolve(t *testing.T) {
	ranges := NewRanges([]*Range{{StartLine: 0, EndLine: 2, Path: Path{Property("marks"), Index(0)}}})

	testCases := []struct {
		description string
		line        int
		expectKey   PathKey
		expectFound bool
	}{
		{description: "pointer inside range", line: 1, expectKey: `["marks"][0]`, expectFound: true},
		{description: "pointer on start line", line: 0, expectKey: `["marks"][0]`, expectFound: true},
		{description: "pointer past end still resolves by start line", line: 7, expectKey: `["marks"][0]`, expectFound: true},
		{description: "negative line", line: -1},
	}
	for _, testCase := range testCases {
		actual, ok := ranges.Resolve(testCase.line)
		if !assert.Equal(t, testCase.expectFound, ok, testCase.description) || !ok {
			continue
		}
		assert.Equal(t, testCase.expectKey, actual.Key(), testCase.description)
	}
}

func TestRanges_SameStartLinePrefersDeeperPath(t *testing.T) {
	outer := &Range{StartLine: 3, EndLine: 9, Path: Path{Property("marks")}}
	inner := &Range{StartLine: 3, EndLine: 8, Path: Path{Property("marks"), Index(0)}}
	ranges := NewRanges([]*Range{outer, inner})

	actual, ok := ranges.Resolve(4)
	require.True(t, ok)
	assert.Same(t, inner, actual)
	byKey, ok := ranges.Lookup(`["marks"]`)
	require.True(t, ok)
	assert.Same(t, outer, byKey)
	assert.Equal(t, 2, ranges.Len())
}

func TestRanges_Nil(t *testing.T) {
	var ranges *Ranges
	_, ok := ranges.Resolve(1)
	assert.False(t, ok)
	_, ok = ranges.Lookup(`["marks"]`)
	assert.False(t, ok)
	assert.Equal(t, 0, ranges.Len())
}

func TestParse(t *testing.T) {
	ranges, err := Parse(context.Background(), []byte(sampleSpec))
	require.NoError(t, err)

	expect := map[PathKey][2]int{
		``:                       {0, 9},
		`["marks"]`:              {1, 7},
		`["marks"][0]`:           {2, 6},
		`["marks"][0]["encode"]`: {4, 5},
	}
	assert.Equal(t, len(expect), ranges.Len())
	for key, lines := range expect {
		actual, ok := ranges.Lookup(key)
		if !assert.True(t, ok, key) {
			continue
		}
		assert.Equal(t, lines[0], actual.StartLine, key)
		assert.Equal(t, lines[1], actual.EndLine, key)
	}

	resolved, ok := ranges.Resolve(3)
	require.True(t, ok)
	assert.EqualValues(t, `["marks"][0]`, resolved.Key())
	assert.NotZero(t, ranges.Fingerprint)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse(context.Background(), []byte(`{"marks": [}`))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestParse_QuotedPropertyName(t *testing.T) {
	ranges, err := Parse(context.Background(), []byte("{\n  \"say \\\"hi\\\"\": [\n    1\n  ]\n}"))
	require.NoError(t, err)
	key := Path{Property(`say "hi"`)}.Key()
	item, ok := ranges.Lookup(key)
	require.True(t, ok, key)
	assert.Equal(t, 1, item.StartLine)
	assert.Equal(t, 2, item.EndLine)
	assert.Equal(t, 1, key.Depth())
}

func TestLoad(t *testing.T) {
	location := filepath.Join(t.TempDir(), "spec.json")
	require.NoError(t, os.WriteFile(location, []byte(sampleSpec), 0644))

	data, err := Load(context.Background(), afs.New(), location)
	require.NoError(t, err)
	assert.Equal(t, sampleSpec, string(data))

	_, err = Load(context.Background(), nil, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	first, err := Fingerprint([]byte(sampleSpec))
	require.NoError(t, err)
	second, err := Fingerprint([]byte(sampleSpec))
	require.NoError(t, err)
	other, err := Fingerprint([]byte(sampleSpec + " "))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
}
