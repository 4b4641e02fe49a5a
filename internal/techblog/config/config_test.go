package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfigDefaults(t *testing.T) {
	t.Setenv("WEB_URL", "https://blog.example.com/")
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("AWS_S3_BUCKET_NAME", "")
	t.Setenv("MEDIA_PREFIX", "")
	t.Setenv("MEDIA_PUBLIC_URL", "")
	t.Setenv("RENDER_MAX_DEPTH", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("METRICS_ADDR", "")

	cfg, err := ReadConfig()
	require.NoError(t, err)

	assert.Equal(t, "blog.example.com", cfg.WebURL.Host)
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, DefaultBucketName, cfg.AWSBucketName)
	assert.Equal(t, DefaultMediaPrefix, cfg.MediaPrefix)
	assert.Equal(t, "https://blog.example.com/article-images", cfg.MediaPublicURL)
	assert.Equal(t, DefaultMaxDepth, cfg.RenderMaxDepth)
	assert.Equal(t, DefaultHTTPAddr, cfg.HTTPAddr)
	assert.Equal(t, DefaultMetricsAddr, cfg.MetricsAddr)
}

func TestReadConfigValues(t *testing.T) {
	t.Setenv("WEB_URL", "http://localhost:8080")
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("AWS_S3_USE_SSL", "true")
	t.Setenv("MEDIA_PREFIX", "/uploads/")
	t.Setenv("MEDIA_PUBLIC_URL", "https://cdn.example.com/img")
	t.Setenv("RENDER_MAX_DEPTH", "16")
	t.Setenv("ADMIN_TOKEN", "s3cr3t")

	cfg, err := ReadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "file::memory:", cfg.DatabaseDSN)
	assert.True(t, cfg.AWSUseSSL)
	assert.Equal(t, "uploads", cfg.MediaPrefix)
	assert.Equal(t, "https://cdn.example.com/img", cfg.MediaPublicURL)
	assert.Equal(t, 16, cfg.RenderMaxDepth)
	assert.Equal(t, "s3cr3t", cfg.AdminToken)
}

func TestReadConfigErrors(t *testing.T) {
	t.Run("web url required", func(t *testing.T) {
		t.Setenv("WEB_URL", "")
		_, err := ReadConfig()
		assert.ErrorIs(t, err, ErrWebURLRequired)
	})

	t.Run("bad web url", func(t *testing.T) {
		t.Setenv("WEB_URL", "http://[::1")
		_, err := ReadConfig()
		assert.ErrorContains(t, err, "WEB_URL incorrect")
	})

	t.Run("bad integer", func(t *testing.T) {
		t.Setenv("WEB_URL", "http://localhost")
		t.Setenv("RENDER_MAX_DEPTH", "deep")
		_, err := ReadConfig()
		assert.EqualError(t, err, `RENDER_MAX_DEPTH: "deep" is not an integer`)
	})

	t.Run("bad boolean", func(t *testing.T) {
		t.Setenv("WEB_URL", "http://localhost")
		t.Setenv("AWS_S3_USE_SSL", "yes")
		_, err := ReadConfig()
		assert.EqualError(t, err, `AWS_S3_USE_SSL: "yes" is not a boolean`)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("WEB_URL", "http://localhost")
		t.Setenv("DATABASE_DRIVER", "mysql")
		_, err := ReadConfig()
		assert.ErrorContains(t, err, "unsupported DATABASE_DRIVER")
	})
}

func TestLookupEnv(t *testing.T) {
	t.Setenv("TECHBLOG_TEST_VALUE", "  spaced  ")
	val, ok := LookupEnv("TECHBLOG_TEST_VALUE")
	assert.True(t, ok)
	assert.Equal(t, "spaced", val)

	t.Setenv("TECHBLOG_TEST_VALUE", " ")
	_, ok = LookupEnv("TECHBLOG_TEST_VALUE")
	assert.False(t, ok)

	n, err := ParseIntEnv("TECHBLOG_TEST_MISSING")
	require.NoError(t, err)
	assert.Zero(t, n)

	t.Setenv("TECHBLOG_TEST_VALUE", " 32 ")
	n, err = ParseIntEnv("TECHBLOG_TEST_VALUE")
	require.NoError(t, err)
	assert.Equal(t, 32, n)
}

func TestLogValueMasksSecrets(t *testing.T) {
	assert.Equal(t, "s****t", logValue("AdminToken", "s3cr3t"))
	assert.Equal(t, "k*y", logValue("AWSSecretKey", "key"))
	assert.Equal(t, "**", logValue("AWSSecretKey", "ab"))
	assert.Equal(t, "https://x", logValue("WebURLRaw", "https://x"))
}
