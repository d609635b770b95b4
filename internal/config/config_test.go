package config

import (
	"os"
	"testing"
)

// mapBackend is an in-memory Backend for testing.
type mapBackend struct {
	data map[string]any
}

func (m *mapBackend) GetString(key string) (string, bool, error) {
	v, ok := m.data[key]
	if !ok {
		return "", false, nil
	}
	s, _ := v.(string)
	return s, true, nil
}

func (m *mapBackend) GetInt(key string) (int, bool, error) {
	v, ok := m.data[key]
	if !ok {
		return 0, false, nil
	}
	i, _ := v.(int)
	return i, true, nil
}

func (m *mapBackend) SetString(key, val string) error { m.data[key] = val; return nil }
func (m *mapBackend) SetInt(key string, val int) error { m.data[key] = val; return nil }
func (m *mapBackend) Delete(key string) error          { delete(m.data, key); return nil }

func withAPIKey(t *testing.T) {
	t.Helper()
	t.Setenv("SCOUT_GROQ_API_KEY", "test-key")
}

func TestDefaults(t *testing.T) {
	withAPIKey(t)

	cfg, err := loadWith(&mapBackend{data: map[string]any{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 4400 {
		t.Errorf("Server.Port = %d, want 4400", cfg.Server.Port)
	}
	if cfg.Groq.Model != "llama-3.3-70b-versatile" {
		t.Errorf("Groq.Model = %q", cfg.Groq.Model)
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Errorf("Storage.Driver = %q, want sqlite", cfg.Storage.Driver)
	}
	if cfg.Chat.Temperature != 0.7 || cfg.Chat.MaxTokens != 1000 || cfg.Chat.HistoryLimit != 20 {
		t.Errorf("Chat defaults = %+v", cfg.Chat)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestBackendValuesOverrideDefaults(t *testing.T) {
	withAPIKey(t)

	b := &mapBackend{data: map[string]any{
		"server.port":      8080,
		"groq.model":       "mixtral-8x7b",
		"storage.driver":   "json",
		"chat.temperature": "0.2",
	}}
	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Groq.Model != "mixtral-8x7b" {
		t.Errorf("Groq.Model = %q", cfg.Groq.Model)
	}
	if cfg.Storage.Driver != "json" {
		t.Errorf("Storage.Driver = %q", cfg.Storage.Driver)
	}
	if cfg.Chat.Temperature != 0.2 {
		t.Errorf("Chat.Temperature = %v, want 0.2", cfg.Chat.Temperature)
	}
}

func TestEnvOverridesBackend(t *testing.T) {
	withAPIKey(t)
	t.Setenv("SCOUT_SERVER_PORT", "9000")
	t.Setenv("SCOUT_CHAT_HISTORY_LIMIT", "10")

	b := &mapBackend{data: map[string]any{"server.port": 8080}}
	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want env override 9000", cfg.Server.Port)
	}
	if cfg.Chat.HistoryLimit != 10 {
		t.Errorf("Chat.HistoryLimit = %d, want 10", cfg.Chat.HistoryLimit)
	}
}

func TestMissingAPIKeyIsAnError(t *testing.T) {
	t.Setenv("SCOUT_GROQ_API_KEY", "")
	os.Unsetenv("SCOUT_GROQ_API_KEY")

	if _, err := loadRequiredWith(&mapBackend{data: map[string]any{}}); err == nil {
		t.Fatal("expected error when Groq API key is missing")
	}
}

func TestValidKeysExcludeSecrets(t *testing.T) {
	for _, k := range ValidKeys() {
		if k == "groq.api_key" || k == "server.api_token" {
			t.Errorf("secret key %q exposed by ValidKeys", k)
		}
	}
}
