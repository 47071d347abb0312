package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 3, cfg.Ledger.ToggleMaxAttempts)
	assert.Equal(t, 20*time.Millisecond, cfg.Ledger.RetryBaseDelay)
	assert.Equal(t, 5*time.Second, cfg.Ledger.ToggleTimeout)
	assert.Equal(t, 2*time.Second, cfg.Ledger.LockTimeout)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "*", cfg.HTTP.CORSOrigins)
	assert.True(t, cfg.DB.AutoMigrate)
}

func TestFromViper_LeeValoresComoTexto(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "MEMORY")
	v.Set("LEDGER_TOGGLE_MAX_ATTEMPTS", "0")
	v.Set("LEDGER_TOGGLE_TIMEOUT_MS", "250")
	v.Set("HTTP_PORT", "9090")
	v.Set("STORE_SEED_FILE", "fixtures/cajas.json")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, 1, cfg.Ledger.ToggleMaxAttempts, "al menos un intento")
	assert.Equal(t, 250*time.Millisecond, cfg.Ledger.ToggleTimeout)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "fixtures/cajas.json", cfg.Store.SeedFile)
}

func TestFromViper_DriverInvalido(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "mongo")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "cajas", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/cajas?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
