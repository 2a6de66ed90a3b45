package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCreatesDefaults(t *testing.T) {
	configDir := t.TempDir()
	dataDir := filepath.Join(t.TempDir(), "data")
	t.Setenv("ONBOARD_CONFIG_DIR", configDir)
	t.Setenv("ONBOARD_DATA_DIR", dataDir)
	t.Setenv("ONBOARD_LLM_PROVIDER", "")
	t.Setenv("ONBOARD_LLM_MODEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DataDir() != dataDir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir(), dataDir)
	}
	if cfg.LLM.Provider != "groq" || cfg.LLM.Model != "llama3-70b-8192" {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.Documents.ChunkSize != 512 || cfg.Documents.ChunkOverlap != 20 || cfg.Documents.TopK != 4 {
		t.Errorf("Documents = %+v", cfg.Documents)
	}
	if cfg.Agent.MaxIterations != 15 || cfg.Agent.MaxParseErrors != 3 {
		t.Errorf("Agent = %+v", cfg.Agent)
	}
	if cfg.Calendar.DefaultTimezone != "America/Sao_Paulo" {
		t.Errorf("Calendar = %+v", cfg.Calendar)
	}

	for _, path := range []string{
		filepath.Join(configDir, "settings.toml"),
		filepath.Join(dataDir, "config.toml"),
	} {
		if !FileExists(path) {
			t.Errorf("expected %s to be created", path)
		}
	}

	info, err := os.Stat(dataDir)
	if err != nil {
		t.Fatalf("stat data dir: %v", err)
	}
	if info.Mode().Perm() != 0700 {
		t.Errorf("data dir perm = %o, want 700", info.Mode().Perm())
	}
}

func TestLoadUserConfigKeepsMissingKeys(t *testing.T) {
	dataDir := t.TempDir()
	content := "[llm]\nprovider = \"ollama\"\nmodel = \"llama3.1\"\n"
	if err := os.WriteFile(filepath.Join(dataDir, "config.toml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadUserConfig(dataDir)
	if err != nil {
		t.Fatalf("LoadUserConfig: %v", err)
	}
	if cfg.LLM.Provider != "ollama" || cfg.LLM.Model != "llama3.1" {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.Documents.ChunkSize != 512 {
		t.Errorf("ChunkSize = %d, want default 512", cfg.Documents.ChunkSize)
	}
	if cfg.Agent.Timezone != "America/Sao_Paulo" {
		t.Errorf("Timezone = %q", cfg.Agent.Timezone)
	}
}

func TestLoadUserConfigRejectsBadTOML(t *testing.T) {
	dataDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dataDir, "config.toml"), []byte("[llm\nprovider = "), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadUserConfig(dataDir)
	if err == nil || !strings.Contains(err.Error(), "config.toml") {
		t.Errorf("error = %v, want one naming config.toml", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{}
		c.applyUserConfig(DefaultUserConfig())
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"missing provider", func(c *Config) { c.LLM.Provider = "" }, "llm.provider"},
		{"missing embeddings", func(c *Config) { c.Embeddings.Provider = "" }, "embeddings.provider"},
		{"zero iterations", func(c *Config) { c.Agent.MaxIterations = 0 }, "max_iterations"},
		{"negative parse errors", func(c *Config) { c.Agent.MaxParseErrors = -1 }, "max_parse_errors"},
		{"ssh without key", func(c *Config) { c.Security.Method = SecuritySSHKey }, "ssh_key_path"},
		{"unknown security", func(c *Config) { c.Security.Method = "vault" }, "unknown security method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestAPIKeyPrefersEnvironment(t *testing.T) {
	store := NewCredentialStore(SecurityPlainText, "")
	_ = store.Set("groq", "from-store")
	_ = store.Set("openai", "openai-store")
	cfg := &Config{CredentialStore: store}

	t.Setenv("GROQ_API_KEY", "from-env")
	t.Setenv("OPENAI_API_KEY", "")

	if got := cfg.APIKey("groq"); got != "from-env" {
		t.Errorf("groq = %q, want from-env", got)
	}
	if got := cfg.APIKey("openai"); got != "openai-store" {
		t.Errorf("openai = %q, want openai-store", got)
	}
	if got := cfg.APIKey("unknown"); got != "" {
		t.Errorf("unknown = %q, want empty", got)
	}
}

func TestDocumentPaths(t *testing.T) {
	cfg := &Config{DataDirectory: "/srv/onboard"}
	cfg.Documents.Paths = []string{"Base.pdf", "/abs/TechLab Tech4ai.pdf"}

	got := cfg.DocumentPaths()
	want := []string{"/srv/onboard/Base.pdf", "/abs/TechLab Tech4ai.pdf"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("path %d = %q, want %q", i, got[i], want[i])
		}
	}

	cfg.Calendar.CredentialsFile = "credentials.json"
	if p := cfg.CalendarCredentialsPath(); p != "/srv/onboard/credentials.json" {
		t.Errorf("CalendarCredentialsPath = %q", p)
	}

	if p := cfg.IndexPath(); p != "" {
		t.Errorf("IndexPath without a file = %q", p)
	}
	cfg.Documents.IndexPath = "index.db"
	if p := cfg.IndexPath(); p != "/srv/onboard/index.db" {
		t.Errorf("IndexPath = %q", p)
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/ana")
	t.Setenv("ONBOARD_TEST_DIR", "docs")

	tests := map[string]string{
		"":                       "",
		"~/x/y":                  "/home/ana/x/y",
		"/tmp/$ONBOARD_TEST_DIR": "/tmp/docs",
		"a/../b":                 "b",
	}
	for in, want := range tests {
		if got := ExpandPath(in); got != want {
			t.Errorf("ExpandPath(%q) = %q, want %q", in, got, want)
		}
	}
}
