package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageDriverMemory, cfg.DB.Driver)
	assert.Equal(t, 5*time.Second, cfg.DB.TxTimeout)
	assert.Equal(t, 30*time.Second, cfg.Settings.CacheTTL)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.False(t, cfg.FX.Enabled)
}

func TestLoad_DuracionesDesdeEnv(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("DB_TX_TIMEOUT", "250ms")
	t.Setenv("SETTINGS_CACHE_TTL", "2")
	t.Setenv("FX_PROVIDER_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.DB.TxTimeout)
	assert.Equal(t, 2*time.Second, cfg.Settings.CacheTTL)
	assert.True(t, cfg.FX.Enabled)
}

func TestLoad_DriverDesconocido(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "yuandi", SSLMode: "require"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/yuandi?sslmode=require", c.DSN())
}
