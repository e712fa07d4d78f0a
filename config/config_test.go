package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("SALT_ROUND", "")
	t.Setenv("PORT", "")

	cfg := LoadConfig()

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 10, cfg.SaltRound)
	assert.Equal(t, "local", cfg.UploadDriver)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Mongo")
	t.Setenv("SALT_ROUND", "12")
	t.Setenv("MONGO_TRANSACTIONS", "true")
	t.Setenv("RECONCILE_CRON", "")

	cfg := LoadConfig()

	assert.Equal(t, "mongo", cfg.DBDriver)
	assert.Equal(t, 12, cfg.SaltRound)
	assert.True(t, cfg.MongoTransactions)
	assert.Empty(t, cfg.ReconcileCron, "an explicitly empty schedule disables the job")
}

func TestGetEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SALT_ROUND", "ten")
	assert.Equal(t, 10, getEnvInt("SALT_ROUND", 10))
}

func TestIsProduction(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{"prod", true},
		{"production", true},
		{"development", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			assert.Equal(t, tt.want, (&Config{AppEnv: tt.env}).IsProduction())
		})
	}
}
