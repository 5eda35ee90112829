package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/sentra-emo/internal/application"
	"github.com/bnema/sentra-emo/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(FileEnvKey, "")

	v, err := Load(Options{EnvFile: filepath.Join(t.TempDir(), "missing.env")}, nil)
	require.NoError(t, err)

	s, err := application.LoadSettings(v)
	require.NoError(t, err)
	assert.Equal(t, 7200, s.Port)
	assert.Equal(t, domain.BackendLocal, s.Backend)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	configFile := filepath.Join(dir, "sentra.toml")
	require.NoError(t, os.WriteFile(configFile, []byte("EMO_BACKEND = \"auto\"\nAPP_PORT = 8080\nEMO_TOPK = 3\n"), 0o600))

	t.Setenv("EMO_TOPK", "5")

	v, err := Load(Options{EnvFile: envFile, ConfigFile: configFile}, nil)
	require.NoError(t, err)

	s, err := application.LoadSettings(v)
	require.NoError(t, err)
	assert.Equal(t, domain.BackendAuto, s.Backend)
	assert.Equal(t, 8080, s.Port)
	assert.Equal(t, 5, s.TopK)
}

func TestLoadLegacyAliases(t *testing.T) {
	t.Setenv(FileEnvKey, "")
	t.Setenv("NLP_CLOUD_API_TOKEN", "tok-a,tok-b")
	t.Setenv("USER_EMA_HALF_LIFE_SEC", "120")

	v, err := Load(Options{EnvFile: filepath.Join(t.TempDir(), "none.env")}, nil)
	require.NoError(t, err)

	s, err := application.LoadSettings(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-a", "tok-b"}, s.Online.Tokens)
	assert.Equal(t, 120.0, s.Tracker.FastHalfLife.Seconds())
}

func TestLoadRejectsUnreadableConfigFile(t *testing.T) {
	t.Setenv(FileEnvKey, filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load(Options{EnvFile: filepath.Join(t.TempDir(), "none.env")}, nil)
	assert.ErrorIs(t, err, domain.ErrConfig)
}
