package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", DriverSQLite)
	t.Setenv("SQLITE_PATH", "/tmp/planilla-test.db")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://planilla.pe")
	t.Setenv("CRON_INTERVAL", "30m")
	t.Setenv("CRON_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/planilla-test.db", cfg.Database.SQLitePath)
	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, []string{"http://localhost:3000", "https://planilla.pe"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 30*time.Minute, cfg.Cron.Interval)
	assert.False(t, cfg.Cron.Enabled)
	assert.Equal(t, "8h", cfg.JWT.AccessExpiration)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("bad port", func(t *testing.T) {
		t.Setenv("APP_PORT", "http")
		_, err := Load()
		assert.ErrorContains(t, err, "APP_PORT")
	})

	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("DB_DRIVER", DriverSQLite)
		t.Setenv("JWT_SECRET_KEY", "")
		_, err := Load()
		assert.ErrorContains(t, err, "JWT_SECRET_KEY")
	})
}

func TestValidateDatabase(t *testing.T) {
	tests := []struct {
		name    string
		db      DatabaseConfig
		wantErr string
	}{
		{"postgres ok", DatabaseConfig{Driver: DriverPostgres, Password: "pw"}, ""},
		{"postgres without password", DatabaseConfig{Driver: DriverPostgres}, "DB_PASSWORD"},
		{"sqlite ok", DatabaseConfig{Driver: DriverSQLite, SQLitePath: "x.db"}, ""},
		{"sqlite without path", DatabaseConfig{Driver: DriverSQLite}, "SQLITE_PATH"},
		{"unknown driver", DatabaseConfig{Driver: "mysql"}, "DB_DRIVER"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Database: tt.db}
			err := cfg.ValidateDatabase()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestFromViper(t *testing.T) {
	v := viper.New()
	v.Set("database.sqlite_path", "/var/lib/planilla/data.db")
	v.Set("jwt.secret", "cli-secret")
	v.Set("logging.level", "debug")

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/var/lib/planilla/data.db", cfg.Database.SQLitePath)
	assert.Equal(t, "cli-secret", cfg.JWT.Secret)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{User: "u", Password: "p", Host: "db", Port: 5433, Name: "planilla", SSLMode: "require"}}
	assert.Equal(t, "postgres://u:p@db:5433/planilla?sslmode=require", cfg.DatabaseURL())
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/op")
	t.Setenv("PLANILLA_DIR", "/srv")
	assert.Equal(t, "/home/op/data.db", ExpandPath("~/data.db"))
	assert.Equal(t, "/srv/data.db", ExpandPath("$PLANILLA_DIR/data.db"))
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, AppConfig{LogLevel: "DEBUG"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, AppConfig{LogLevel: "warning"}.SlogLevel())
	assert.Equal(t, slog.LevelError, AppConfig{LogLevel: "error"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, AppConfig{}.SlogLevel())
}
