package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadThresholdsProfiles(t *testing.T) {
	demo, err := LoadThresholds(CheckupConfig{Profile: ProfileDemo})
	require.NoError(t, err)
	assert.Equal(t, DemoThresholds(), demo)

	prod, err := LoadThresholds(CheckupConfig{Profile: ProfileProduction})
	require.NoError(t, err)
	assert.Equal(t, 100, prod.QueryCountThreshold)
	assert.Equal(t, 200, prod.QueryCountWarning)
	assert.Equal(t, 64.0, prod.MemoryWarningMB)

	_, err = LoadThresholds(CheckupConfig{Profile: "staging"})
	assert.ErrorIs(t, err, ErrInvalidThresholds)
}

func TestLoadThresholdsFileOverridesProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("memory_warning_mb: 128\nslow_query_seconds: 0.25\n"), 0o600))

	got, err := LoadThresholds(CheckupConfig{Profile: ProfileProduction, ThresholdsFile: path})
	require.NoError(t, err)
	assert.Equal(t, 100, got.QueryCountThreshold)
	assert.Equal(t, 200, got.QueryCountWarning)
	assert.Equal(t, 0.25, got.SlowQuerySeconds)
	assert.Equal(t, 128.0, got.MemoryWarningMB)
}

func TestLoadThresholdsRejectsInvertedQueryTiers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("query_count_threshold: 300\n"), 0o600))

	_, err := LoadThresholds(CheckupConfig{Profile: ProfileProduction, ThresholdsFile: path})
	assert.ErrorIs(t, err, ErrInvalidThresholds)
}

func TestLoadThresholdsMissingFile(t *testing.T) {
	_, err := LoadThresholds(CheckupConfig{ThresholdsFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}
