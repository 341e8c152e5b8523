package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HTTP_PORT", "")
	t.Setenv("AVAILABILITY_TIMEOUT", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 5*time.Second, cfg.AvailabilityTimeout)
	assert.False(t, cfg.StrictLifecycle)
}

func TestLoad_FromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# local overrides\nDB_NAME=rental_test\nAVAILABILITY_TIMEOUT=750ms\nREDIS_DB=3\nSTRICT_LIFECYCLE=true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("DB_NAME", "")
	t.Setenv("AVAILABILITY_TIMEOUT", "")
	t.Setenv("REDIS_DB", "")
	t.Setenv("STRICT_LIFECYCLE", "")
	os.Unsetenv("DB_NAME")
	os.Unsetenv("AVAILABILITY_TIMEOUT")
	os.Unsetenv("REDIS_DB")
	os.Unsetenv("STRICT_LIFECYCLE")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "rental_test", cfg.DBName)
	assert.Equal(t, 750*time.Millisecond, cfg.AvailabilityTimeout)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.StrictLifecycle)
}
