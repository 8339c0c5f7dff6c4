package application

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/binpack-go/internal/binpack/cache"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "binpack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestInitDefaults(t *testing.T) {
	chdirTemp(t)

	app := New()
	require.NoError(t, app.Init(""))
	defer app.Close()

	assert.Empty(t, app.Config().Path())
	assert.Equal(t, CodecConfig{CacheSize: cache.DefaultSize}, app.CodecConfig())
	require.NotNil(t, app.Codec())

	out, err := app.Codec().Pack(context.Background(), "n", 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1}, out)
}

func TestInitFromFlag(t *testing.T) {
	path := writeConfig(t, `
codec:
  cache-size: 16
  strict: true
  workers: 2
logging:
  codec:
    level: debug
`)
	app := New()
	require.NoError(t, app.Init(path))
	defer app.Close()

	assert.Equal(t, path, app.Config().Path())
	assert.Equal(t, CodecConfig{CacheSize: 16, Strict: true, Workers: 2}, app.CodecConfig())
	assert.NotNil(t, app.Logger(CodecLoggerName))

	_, err := app.Codec().Pack(context.Background(), "N")
	assert.Error(t, err)
}

func TestConfigPathPriority(t *testing.T) {
	envPath := writeConfig(t, "codec:\n  workers: 3\n")
	flagPath := writeConfig(t, "codec:\n  workers: 5\n")
	t.Setenv(ConfigPathEnv, envPath)

	app := New()
	require.NoError(t, app.Init(""))
	assert.Equal(t, 3, app.CodecConfig().Workers)
	app.Close()

	app = New()
	require.NoError(t, app.Init(flagPath))
	assert.Equal(t, 5, app.CodecConfig().Workers)
	app.Close()
}

func TestExplicitConfigMissing(t *testing.T) {
	app := New()
	err := app.Init(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "codec:\n  cache-size: 16\n")
	t.Setenv("BINPACK_CODEC_CACHE_SIZE", "32")

	app := New()
	require.NoError(t, app.Init(path))
	defer app.Close()
	assert.Equal(t, 32, app.CodecConfig().CacheSize)
}

func TestInvalidCodecConfig(t *testing.T) {
	path := writeConfig(t, "codec:\n  workers: -1\n")

	app := New()
	// 非正数的 workers 视为未设置。
	require.NoError(t, app.Init(path))
	app.Close()
}

// chdirTemp changes into a fresh temp dir for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
