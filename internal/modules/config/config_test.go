package config

import (
	"os"
	"path/filepath"
	"testing"

	"signal_bot/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// chdir is t.Chdir for pre-1.24 toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestNewConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir()) // no configs/ dir, no .env

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, 15.0, cfg.MaxLossRatio)
	assert.Equal(t, 30, cfg.MaxLeverage)
	assert.Equal(t, 0.95, cfg.SafetyFraction)
	assert.Equal(t, 10.0, cfg.MinBalance)
	assert.Equal(t, 0.001, cfg.MinOrderSize)
	assert.Equal(t, "trade_stats.json", cfg.StatsFile)
	assert.Equal(t, 8080, cfg.Service.Port)
}

func TestNewConfig_EnvOverridesFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	yaml := []byte("max_loss_ratio: 12\nmax_leverage: 20\nstats_file: from_file.json\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "values_test.yaml"), yaml, 0o644))

	chdir(t, dir)
	t.Setenv("CONFIG_FILE", "values_test.yaml")
	t.Setenv("MAX_LEVERAGE", "25")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.MaxLeverage, "env wins over the file")
	assert.Equal(t, 12.0, cfg.MaxLossRatio, "file wins over the default")
	assert.Equal(t, "from_file.json", cfg.StatsFile)
	assert.Equal(t, 0.95, cfg.SafetyFraction, "untouched keys keep defaults")
}
