package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CONFIG_FILE", "PORT", "TEMPLATE_PATH", "FILE_PREFIX", "ID_PREFIX",
		"CERT_SUBTITLE", "OUTPUT_DIR", "LOG_LEVEL", "QR_ENABLED", "MAX_PHOTO_BYTES"} {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "certgate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9000\"\nfile_prefix: acme\nqr_enabled: true\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")
	t.Setenv("MAX_PHOTO_BYTES", "2048")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "acme", cfg.FilePrefix)
	assert.True(t, cfg.QREnabled)
	assert.Equal(t, int64(2048), cfg.MaxPhotoBytes)
	assert.Equal(t, "MD", cfg.IDPrefix)
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("QR_ENABLED", "maybe")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("QR_ENABLED", "")
	t.Setenv("MAX_PHOTO_BYTES", "-1")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	assert.Error(t, err)
}
