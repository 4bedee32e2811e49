package optimize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dowser/dowser-go/cluster"
)

func TestConfigRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Costs.Stride = 0.25
	cfg.Annealer.CoolingSteps = 17

	path := filepath.Join(t.TempDir(), "costs.yaml")
	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfigFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("costs:\n  sameTag: 3\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3.0, cfg.Costs.SameTag)
	assert.Equal(t, cluster.DefaultCosts().DifferentTag, cfg.Costs.DifferentTag)
	assert.Equal(t, DefaultParameters(), cfg.Annealer)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
