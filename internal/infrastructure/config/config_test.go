package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "glow-studio", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "glow_studio", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
		assert.Equal(t, StorageLocal, cfg.Storage.Provider)
		assert.Equal(t, int64(10<<20), cfg.Storage.MaxUploadSize)
		assert.Equal(t, "/uploads", cfg.Storage.Local.PublicPath)
		assert.Equal(t, 24*time.Hour, cfg.Checkout.IdempotencyTTL)
		assert.Equal(t, "glow-studio", cfg.Telemetry.ServiceName)
	})

	t.Run("loads values from environment variables with GLOW prefix", func(t *testing.T) {
		t.Setenv("GLOW_APP_NAME", "test-app")
		t.Setenv("GLOW_APP_PORT", "9000")
		t.Setenv("GLOW_DATABASE_HOST", "testdb.local")
		t.Setenv("GLOW_DATABASE_PORT", "5433")
		t.Setenv("GLOW_DATABASE_PASSWORD", "testpass")
		t.Setenv("GLOW_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("GLOW_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("GLOW_REDIS_ENABLED", "true")
		t.Setenv("GLOW_JWT_ACCESS_TOKEN_EXPIRATION", "30m")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenExpiration)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("GLOW_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("GLOW_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects unknown storage provider", func(t *testing.T) {
		t.Setenv("GLOW_STORAGE_PROVIDER", "ftp")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown storage.provider")
	})

	t.Run("s3 provider requires bucket", func(t *testing.T) {
		t.Setenv("GLOW_STORAGE_PROVIDER", "s3")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket")
	})

	t.Run("cloudinary provider requires credentials", func(t *testing.T) {
		t.Setenv("GLOW_STORAGE_PROVIDER", "cloudinary")
		t.Setenv("GLOW_STORAGE_CLOUDINARY_CLOUD_NAME", "demo")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "api_key")
	})

	t.Run("rejects invalid timezone", func(t *testing.T) {
		t.Setenv("GLOW_APP_TIMEZONE", "Mars/Olympus")

		_, err := Load()
		require.Error(t, err)
	})
}

func TestValidate_Production(t *testing.T) {
	base := func() *Config {
		cfg := &Config{App: AppConfig{Env: "production"}}
		applyDefaults(cfg)
		cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		return cfg
	}

	t.Run("accepts hardened config", func(t *testing.T) {
		assert.NoError(t, base().validate())
	})

	t.Run("rejects short jwt secret", func(t *testing.T) {
		cfg := base()
		cfg.JWT.Secret = "short"
		assert.ErrorContains(t, cfg.validate(), "jwt.secret")
	})

	t.Run("rejects disabled sslmode", func(t *testing.T) {
		cfg := base()
		cfg.Database.SSLMode = "disable"
		assert.ErrorContains(t, cfg.validate(), "sslmode")
	})

	t.Run("rejects wildcard CORS", func(t *testing.T) {
		cfg := base()
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
		assert.ErrorContains(t, cfg.validate(), "cors_allow_origins")
	})

	t.Run("rejects open swagger", func(t *testing.T) {
		cfg := base()
		cfg.Swagger.Enabled = true
		assert.ErrorContains(t, cfg.validate(), "swagger")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "glow", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/glow?sslmode=disable", d.DSN())
}
