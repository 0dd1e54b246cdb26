package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000/api", cfg.Client.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Client.Timeout)
	assert.Equal(t, StoreDriverFile, cfg.Store.Driver)
	assert.True(t, cfg.Interview.Offline)
	assert.Equal(t, 15, cfg.Interview.MinQuestions)
	assert.Equal(t, "interview_chat", cfg.Interview.TranscriptKey)
	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, ProviderCanned, cfg.AI.Provider)
	assert.False(t, cfg.AI.Enabled())
}

func TestLoadFileThenEnvironment(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "careerpath.yaml")
	content := []byte(`
client:
  base_url: http://backend.test/api
  timeout: 5s
store:
  driver: libsql
  path: state.db
server:
  addr: "8081"
ai:
  provider: openai
  model: gpt-4o-mini
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("CAREERPATH_CLIENT_TIMEOUT", "2s")
	t.Setenv("CAREERPATH_AI_API_KEY", "sk-test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://backend.test/api", cfg.Client.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Client.Timeout)
	assert.Equal(t, StoreDriverLibSQL, cfg.Store.Driver)
	assert.Equal(t, ":8081", cfg.Server.Addr)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.True(t, cfg.AI.Enabled())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CAREERPATH_STORE_DRIVER", "redis")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidateSpeechNeedsGateway(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CAREERPATH_SPEECH_ENABLED", "true")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "speech.gateway_url")
}

func TestNormalizeAddr(t *testing.T) {
	assert.Equal(t, ":5000", normalizeAddr(""))
	assert.Equal(t, ":9000", normalizeAddr("9000"))
	assert.Equal(t, "127.0.0.1:9000", normalizeAddr("127.0.0.1:9000"))
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("failed to restore working directory: %v", err)
		}
	})
}
