package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/xview/flowgraph"
	"github.com/viant/xview/mapping"
)

func TestLoad(t *testing.T) {
	testCases := []struct {
		description string
		content     string
		expectErr   bool
		expect      func(t *testing.T, cfg *Config)
	}{
		{
			description: "overrides keep defaults",
			content:     "debounce: 250ms\nmatchMode: prefix\nflame:\n  width: 500\n",
			expect: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 250*time.Millisecond, cfg.Debounce)
				mode, err := cfg.Mode()
				require.NoError(t, err)
				assert.Equal(t, mapping.MatchPrefix, mode)
				assert.Equal(t, 500.0, cfg.FlameOptions().Width)
				assert.Equal(t, 200.0, cfg.FlameOptions().Height)
				assert.Equal(t, flowgraph.ByTime, cfg.Coloring)
			},
		},
		{
			description: "unknown match mode",
			content:     "matchMode: regex\n",
			expectErr:   true,
		},
		{
			description: "unknown coloring",
			content:     "coloring: rainbow\n",
			expectErr:   true,
		},
		{
			description: "malformed yaml",
			content:     "debounce: [\n",
			expectErr:   true,
		},
	}
	fs := afs.New()
	for i, testCase := range testCases {
		location := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(location, []byte(testCase.content), 0o644), i)
		cfg, err := Load(context.Background(), fs, location)
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			assert.Nil(t, cfg, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		testCase.expect(t, cfg)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 700*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 975.0, cfg.Flame.Width)
	assert.Equal(t, 0.01, cfg.Flame.Epsilon)
}
