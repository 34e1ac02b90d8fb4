package model

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Mission.MinSettlementPopulation)
	assert.Equal(t, 0.75, cfg.Mission.LoadChance)
	assert.Equal(t, time.Hour, cfg.Mission.BoardingDeadline())
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("logging:\n  level: debug\nmission:\n  load_chance: 1\n  boarding_deadline_min: 30\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 1.0, cfg.Mission.LoadChance)
	assert.Equal(t, 30*time.Minute, cfg.Mission.BoardingDeadline())
	// untouched keys keep their defaults
	assert.Equal(t, 0.75, cfg.Mission.UnloadChance)
	assert.Equal(t, 0.84, cfg.Supplies.OxygenPerSol)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mission:\n  load_chance: 2\n"), 0644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "load_chance")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{"COLONYSIM_LOG_LEVEL": "warn", "COLONYSIM_SEED": "42"}
	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, int64(42), cfg.Simulation.Seed)

	env["COLONYSIM_SEED"] = "abc"
	assert.Error(t, cfg.ApplyEnv(func(k string) string { return env[k] }))
}
