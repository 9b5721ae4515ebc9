package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jihwankim/hrcls/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := config.DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 32, cfg.CPU.SlotCapacity)
	assert.Equal(t, 16, cfg.FPGA.SlotCapacity)
	assert.True(t, cfg.FPGA.RequireBitstream)
	assert.Equal(t, 3, cfg.Execution.RedundantLaneCount)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.CPU.SlotCapacity = 8
	cfg.Framework.LogLevel = "debug"

	path := filepath.Join(t.TempDir(), "hrcls.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, loaded.CPU.SlotCapacity)
	assert.Equal(t, "debug", loaded.Framework.LogLevel)
}

func TestLoadExpandsEnvironmentVariables(t *testing.T) {
	require.NoError(t, os.Setenv("HRCLS_TEST_LOG_LEVEL", "warn"))
	defer os.Unsetenv("HRCLS_TEST_LOG_LEVEL")

	path := filepath.Join(t.TempDir(), "hrcls.yaml")
	content := "framework:\n  log_level: \"${HRCLS_TEST_LOG_LEVEL}\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Framework.LogLevel)
}

func TestValidateRejectsZeroCapacity(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DSP.SlotCapacity = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsInsufficientRedundantLaneCount(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Execution.RedundantLaneCount = 1
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsZeroMaxWCET(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Safety.MaxWCETUs = 0
	assert.Error(t, cfg.Validate())
}
