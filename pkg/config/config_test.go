package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ajitpratap0/reservoir/pkg/config"
	"github.com/ajitpratap0/reservoir/pkg/errors"
	"github.com/ajitpratap0/reservoir/pkg/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reservoir.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSettings(t *testing.T) {
	path := writeConfigFile(t, `
version: "1.0.0"
logging:
  level: debug
  encoding: console
metrics:
  enabled: true
  listen: ":9191"
  path: /metrics
pools:
  - name: buffers
    initial_capacity: 4
    max_capacity: 64
    object_capacity: 8192
    metrics: true
  - name: frames
    max_capacity: 16
`)

	settings := config.NewSettings()
	require.NoError(t, config.Load(path, settings))
	require.NoError(t, settings.Validate())

	assert.Equal(t, "debug", settings.Logging.Level)
	assert.Equal(t, "console", settings.Logging.Encoding)
	assert.True(t, settings.Metrics.Enabled)
	assert.Equal(t, ":9191", settings.Metrics.Listen)
	require.Len(t, settings.Pools, 2)

	buffers, ok := settings.Pool("buffers")
	require.True(t, ok)
	assert.Equal(t, 4, buffers.InitialCapacity)
	assert.Equal(t, 64, buffers.MaxCapacity)
	assert.Equal(t, 8192, buffers.ObjectCapacity)
	assert.True(t, buffers.Metrics)

	_, ok = settings.Pool("absent")
	assert.False(t, ok)
}

func TestLoadSubstitutesEnvVars(t *testing.T) {
	t.Setenv("RESERVOIR_LOG_LEVEL", "warn")
	t.Setenv("RESERVOIR_POOL_NAME", "env-pool")

	path := writeConfigFile(t, `
logging:
  level: ${RESERVOIR_LOG_LEVEL}
pools:
  - name: ${RESERVOIR_POOL_NAME}
    max_capacity: 8
`)

	settings := config.NewSettings()
	require.NoError(t, config.Load(path, settings))

	assert.Equal(t, "warn", settings.Logging.Level)
	require.Len(t, settings.Pools, 1)
	assert.Equal(t, "env-pool", settings.Pools[0].Name)
}

func TestLoadMissingFile(t *testing.T) {
	err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"), config.NewSettings())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "pools: [unclosed")

	err := config.Load(path, config.NewSettings())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestSaveRoundTrip(t *testing.T) {
	settings := config.NewSettings()
	cfg := config.NewPoolConfig("saved")
	cfg.MaxCapacity = 32
	settings.Pools = append(settings.Pools, cfg)

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, config.Save(path, settings))

	loaded := config.NewSettings()
	require.NoError(t, config.Load(path, loaded))
	reread, ok := loaded.Pool("saved")
	require.True(t, ok)
	assert.Equal(t, 32, reread.MaxCapacity)
}

func TestPoolConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.PoolConfig)
		wantErr bool
	}{
		{"defaults are valid", func(p *config.PoolConfig) {}, false},
		{"empty name", func(p *config.PoolConfig) { p.Name = "" }, true},
		{"zero max", func(p *config.PoolConfig) { p.MaxCapacity = 0 }, true},
		{"negative max", func(p *config.PoolConfig) { p.MaxCapacity = -1 }, true},
		{"initial exceeds max", func(p *config.PoolConfig) {
			p.InitialCapacity = 100
			p.MaxCapacity = 10
		}, true},
		{"negative initial", func(p *config.PoolConfig) { p.InitialCapacity = -1 }, true},
		{"negative object capacity", func(p *config.PoolConfig) { p.ObjectCapacity = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewPoolConfig("candidate")
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSettingsValidateRejectsDuplicateNames(t *testing.T) {
	settings := config.NewSettings()
	settings.Pools = append(settings.Pools,
		config.NewPoolConfig("twin"),
		config.NewPoolConfig("twin"),
	)

	err := settings.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestSettingsValidateSections(t *testing.T) {
	t.Run("bad log level", func(t *testing.T) {
		settings := config.NewSettings()
		settings.Logging.Level = "verbose"
		assert.Error(t, settings.Validate())
	})

	t.Run("bad encoding", func(t *testing.T) {
		settings := config.NewSettings()
		settings.Logging.Encoding = "xml"
		assert.Error(t, settings.Validate())
	})

	t.Run("metrics enabled without listen address", func(t *testing.T) {
		settings := config.NewSettings()
		settings.Metrics.Enabled = true
		settings.Metrics.Listen = ""
		assert.Error(t, settings.Validate())
	})
}

func TestNewPoolFromConfig(t *testing.T) {
	cfg := config.NewPoolConfig("from-config")
	cfg.InitialCapacity = 2
	cfg.MaxCapacity = 4
	cfg.ObjectCapacity = 512

	p, err := config.NewPool(cfg, pool.BufferFactory(cfg.ObjectCapacity))
	require.NoError(t, err)
	assert.Equal(t, "from-config", p.Name())
	assert.Equal(t, int64(2), p.Capacity())
	assert.Equal(t, int64(4), p.MaxCapacity())

	h := p.Acquire()
	h.Release()
}

func TestNewPoolRejectsInvalidConfig(t *testing.T) {
	cfg := config.NewPoolConfig("bad")
	cfg.MaxCapacity = 0

	_, err := config.NewPool(cfg, pool.BufferFactory(64))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestNewPoolRejectsNilFactory(t *testing.T) {
	cfg := config.NewPoolConfig("nil-factory")

	_, err := config.NewPool[*pool.Buffer](cfg, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}
