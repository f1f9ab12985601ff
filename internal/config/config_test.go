package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, 20, cfg.JWTExpirationMinutes)
	assert.Equal(t, 168, cfg.JWTRefreshExpirationHours)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Contains(t, cfg.Database.DSN, "@tcp(localhost:3306)/clinic")
	assert.Equal(t, 10*time.Second, cfg.Booking.LockTTL)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoadConfigPostgresDSN(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USERNAME", "clinic")
	t.Setenv("DB_NAME", "clinic")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "host=db user=clinic password= dbname=clinic port=5432 sslmode=disable TimeZone=UTC", cfg.Database.DSN)
}

func TestLoadConfigSQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", "/tmp/clinic.db")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/clinic.db", cfg.Database.DSN)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown driver", "DB_DRIVER", "oracle"},
		{"bad jwt minutes", "JWT_EXPIRATION_MINUTES", "soon"},
		{"bad redis db", "REDIS_DB", "zero"},
		{"bad timezone", "APP_TIMEZONE", "Mars/Olympus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLocation(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "Europe/Berlin")
	cfg, err := LoadConfig()
	require.NoError(t, err)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}
