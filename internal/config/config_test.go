package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func dataMap(t *testing.T, cfg *Config) map[string]interface{} {
	t.Helper()
	data, ok := cfg.AI.Data.(map[string]interface{})
	require.True(t, ok)
	return data
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	cfg, err := Load(writeConfig(t, `{}`))
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "gemini", cfg.AI.Provider)
	require.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
	require.Equal(t, 4, cfg.RAG.TopK)
	require.Equal(t, "local", cfg.FileStore.Type)
}

func TestLoad_RejectsTopKOutOfRange(t *testing.T) {
	_, err := Load(writeConfig(t, `{"rag": {"top_k": 17}}`))
	require.Error(t, err)
}

func TestLoad_EnvKeyFallbackWithoutDataBlock(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	cfg, err := Load(writeConfig(t, `{}`))
	require.NoError(t, err)
	require.Equal(t, "env-key", dataMap(t, cfg)["api_key"])
}

func TestLoad_EnvKeyFallbackFillsPartialDataBlock(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	cfg, err := Load(writeConfig(t, `{"ai": {"data": {"base_url": "http://proxy.local"}}}`))
	require.NoError(t, err)
	data := dataMap(t, cfg)
	require.Equal(t, "env-key", data["api_key"])
	require.Equal(t, "http://proxy.local", data["base_url"])
}

func TestLoad_EnvKeyDoesNotOverrideConfigKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	cfg, err := Load(writeConfig(t, `{"ai": {"data": {"api_key": "file-key"}}}`))
	require.NoError(t, err)
	require.Equal(t, "file-key", dataMap(t, cfg)["api_key"])
}
