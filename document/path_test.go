package document

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath_Key(t *testing.T) {
	testCases := []struct {
		description string
		path        Path
		key         PathKey
		display     string
	}{
		{
			description: "property then index",
			path:        Path{Property("marks"), Index(0)},
			key:         `["marks"][0]`,
			display:     `['marks'][0]`,
		},
		{
			description: "nested properties",
			path:        Path{Property("encode"), Property("update"), Property("fill")},
			key:         `["encode"]["update"]["fill"]`,
			display:     `['encode']['update']['fill']`,
		},
		{
			description: "quoted name",
			path:        Path{Property(`say "hi"`), Index(0)},
			key:         `["say \"hi\""][0]`,
			display:     `['say "hi"'][0]`,
		},
		{
			description: "empty path",
			path:        Path{},
			key:         ``,
			display:     ``,
		},
	}

	for _, testCase := range testCases {
		assert.EqualValues(t, testCase.key, testCase.path.Key(), testCase.description)
		assert.EqualValues(t, testCase.display, testCase.path.Display(), testCase.description)
	}
}

func TestParseKey_RoundTrip(t *testing.T) {
	paths := []Path{
		{Property("marks"), Index(0)},
		{Property("data"), Index(12), Property("transform"), Index(3)},
		{Property("signals")},
		{Index(7)},
		{Property("with space"), Property("")},
		{Property(`say "hi"`), Index(0)},
		{Property("it's"), Property(`back\slash`)},
	}
	for _, path := range paths {
		decoded, err := ParseKey(path.Key())
		require.NoError(t, err, path.Key())
		assert.True(t, decoded.Equal(path), path.Key())
		assert.Equal(t, path.Key(), decoded.Key())

		fromDisplay, err := ParseKey(PathKey(path.Display()))
		require.NoError(t, err)
		assert.Equal(t, path.Key(), fromDisplay.Key())
	}
}

func TestParseKey_Malformed(t *testing.T) {
	testCases := []struct {
		description string
		key         PathKey
	}{
		{description: "missing bracket", key: `marks[0]`},
		{description: "unterminated property", key: `["marks`},
		{description: "unterminated index", key: `["marks"][0`},
		{description: "non numeric index", key: `["marks"][x]`},
		{description: "trailing text", key: `["marks"]x`},
		{description: "dangling escape", key: `["marks\`},
		{description: "unescaped inner quote", key: `["say "hi""]`},
	}
	for _, testCase := range testCases {
		_, err := ParseKey(testCase.key)
		assert.True(t, errors.Is(err, ErrMalformedPath), testCase.description)
	}
}

func TestNewPath(t *testing.T) {
	path, err := NewPath("marks", 0, "encode")
	require.NoError(t, err)
	assert.EqualValues(t, `["marks"][0]["encode"]`, path.Key())

	_, err = NewPath("marks", true)
	assert.ErrorIs(t, err, ErrMalformedPath)
}

func TestPathKey_Prefixes(t *testing.T) {
	key := PathKey(`["marks"][0]["encode"]`)
	assert.Equal(t, []PathKey{`["marks"]`, `["marks"][0]`, `["marks"][0]["encode"]`}, key.Prefixes())
	assert.Equal(t, 3, key.Depth())
	assert.Equal(t, -1, PathKey(`[x`).Depth())
}

func TestPathKey_Matching(t *testing.T) {
	key := PathKey(`["marks"][10]`)
	assert.True(t, key.Contains(`["marks"][1`))
	assert.True(t, key.Contains(`[10]`))
	assert.False(t, key.HasPrefix(`["marks"][1`))
	assert.True(t, key.HasPrefix(`["marks"]`))
	assert.True(t, key.HasPrefix(key))
}
