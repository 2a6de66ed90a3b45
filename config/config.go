package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

// LLMConfig selects the generative model used by the router and the RAG tool.
type LLMConfig struct {
	Provider    string  `toml:"provider"`
	BaseURL     string  `toml:"base_url,omitempty"`
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
}

type EmbeddingsConfig struct {
	Provider string `toml:"provider"`
	BaseURL  string `toml:"base_url,omitempty"`
	Model    string `toml:"model"`
}

type DocumentsConfig struct {
	Paths        []string `toml:"paths"`
	ChunkSize    int      `toml:"chunk_size"`
	ChunkOverlap int      `toml:"chunk_overlap"`
	TopK         int      `toml:"top_k"`
	IndexPath    string   `toml:"index_path,omitempty"`
}

type AgentConfig struct {
	MaxIterations  int    `toml:"max_iterations"`
	MaxParseErrors int    `toml:"max_parse_errors"`
	Timezone       string `toml:"timezone"`
	// Offer the tools through the provider's function-calling API as well as the prompt
	NativeTools bool `toml:"native_tools"`
}

type SearchConfig struct {
	EngineID    string `toml:"engine_id,omitempty"`
	ResultCount int    `toml:"result_count"`
}

type CalendarConfig struct {
	CredentialsFile string `toml:"credentials_file"`
	CalendarID      string `toml:"calendar_id"`
	DefaultTimezone string `toml:"default_timezone"`
}

type SecurityConfig struct {
	Method     SecurityMethod `toml:"method"`
	SSHKeyPath string         `toml:"ssh_key_path,omitempty"`
}

type UserConfig struct {
	LLM             LLMConfig        `toml:"llm"`
	Embeddings      EmbeddingsConfig `toml:"embeddings"`
	Documents       DocumentsConfig  `toml:"documents"`
	Agent           AgentConfig      `toml:"agent"`
	Search          SearchConfig     `toml:"search"`
	Calendar        CalendarConfig   `toml:"calendar"`
	Security        SecurityConfig   `toml:"security"`
	SaveTranscripts bool             `toml:"save_transcripts"`
}

type Config struct {
	DataDirectory   string
	LLM             LLMConfig
	Embeddings      EmbeddingsConfig
	Documents       DocumentsConfig
	Agent           AgentConfig
	Search          SearchConfig
	Calendar        CalendarConfig
	Security        SecurityConfig
	SaveTranscripts bool

	CredentialStore *CredentialStore
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// DocumentPaths resolves relative document paths against the data directory.
func (c *Config) DocumentPaths() []string {
	paths := make([]string, 0, len(c.Documents.Paths))
	for _, p := range c.Documents.Paths {
		p = ExpandPath(p)
		if !filepath.IsAbs(p) {
			p = filepath.Join(c.DataDir(), p)
		}
		paths = append(paths, p)
	}
	return paths
}

// IndexPath is the on-disk index location, or "" for an in-memory index.
func (c *Config) IndexPath() string {
	p := ExpandPath(c.Documents.IndexPath)
	if p != "" && !filepath.IsAbs(p) {
		p = filepath.Join(c.DataDir(), p)
	}
	return p
}

// CalendarCredentialsPath resolves the OAuth client file against the data directory.
func (c *Config) CalendarCredentialsPath() string {
	p := ExpandPath(c.Calendar.CredentialsFile)
	if p != "" && !filepath.IsAbs(p) {
		p = filepath.Join(c.DataDir(), p)
	}
	return p
}

// APIKey returns the key for a provider ID, preferring the environment over
// the credential store.
func (c *Config) APIKey(providerID string) string {
	if key := os.Getenv(apiKeyEnvVar(providerID)); key != "" {
		return key
	}
	if c.CredentialStore != nil {
		return c.CredentialStore.Get(providerID)
	}
	return ""
}

func apiKeyEnvVar(providerID string) string {
	switch providerID {
	case "groq":
		return "GROQ_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	case "openrouter":
		return "OPENROUTER_API_KEY"
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "gemini":
		return "GEMINI_API_KEY"
	case "google_search":
		return "GOOGLE_API_KEY"
	default:
		return ""
	}
}

func (c *Config) applyEnvOverrides() {
	if p := os.Getenv("ONBOARD_LLM_PROVIDER"); p != "" {
		c.LLM.Provider = p
	}
	if model := os.Getenv("ONBOARD_LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if dataDir := os.Getenv("ONBOARD_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if cx := os.Getenv("GOOGLE_CSE_ID"); cx != "" {
		c.Search.EngineID = cx
	}
}

func CheckDebug() bool {
	debug := os.Getenv("ONBOARD_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: prompts and answers end up in here
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (ONBOARD_DEBUG=%s) ===", os.Getenv("ONBOARD_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

// Debugf writes to the debug log when it is enabled.
func Debugf(format string, args ...any) {
	if Debug && DebugLog != nil {
		DebugLog.Printf(format, args...)
	}
}

func Load() (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, err
	}

	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}

	cfg := &Config{DataDirectory: systemCfg.DataDirectory}
	if dataDir := os.Getenv("ONBOARD_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
	}

	dataDir := cfg.DataDir()
	if err := ensurePrivateDir(dataDir); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	cfg.applyUserConfig(userCfg)
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store := NewCredentialStore(cfg.Security.Method, ExpandPath(cfg.Security.SSHKeyPath))
	if err := store.Load(dataDir); err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	cfg.CredentialStore = store

	return cfg, nil
}

func (c *Config) applyUserConfig(u *UserConfig) {
	c.LLM = u.LLM
	c.Embeddings = u.Embeddings
	c.Documents = u.Documents
	c.Agent = u.Agent
	c.Search = u.Search
	c.Calendar = u.Calendar
	c.Security = u.Security
	c.SaveTranscripts = u.SaveTranscripts

	defaults := DefaultUserConfig()
	if c.Security.Method == "" {
		c.Security.Method = defaults.Security.Method
	}
	if c.Agent.Timezone == "" {
		c.Agent.Timezone = defaults.Agent.Timezone
	}
	if c.Calendar.DefaultTimezone == "" {
		c.Calendar.DefaultTimezone = defaults.Calendar.DefaultTimezone
	}
	if c.Calendar.CalendarID == "" {
		c.Calendar.CalendarID = defaults.Calendar.CalendarID
	}
	if c.Documents.TopK <= 0 {
		c.Documents.TopK = defaults.Documents.TopK
	}
	if c.Search.ResultCount <= 0 {
		c.Search.ResultCount = defaults.Search.ResultCount
	}
}

// Validate rejects settings that would only fail later, deep inside a turn.
// Chunking parameters are validated by the document splitter itself.
func (c *Config) Validate() error {
	if c.LLM.Provider == "" {
		return fmt.Errorf("llm.provider must be set")
	}
	if c.Embeddings.Provider == "" {
		return fmt.Errorf("embeddings.provider must be set")
	}
	if c.Agent.MaxIterations <= 0 {
		return fmt.Errorf("agent.max_iterations must be positive, got %d", c.Agent.MaxIterations)
	}
	if c.Agent.MaxParseErrors < 0 {
		return fmt.Errorf("agent.max_parse_errors must not be negative, got %d", c.Agent.MaxParseErrors)
	}
	switch c.Security.Method {
	case SecurityPlainText:
	case SecuritySSHKey:
		if c.Security.SSHKeyPath == "" {
			return fmt.Errorf("security.ssh_key_path is required when security.method is %q", SecuritySSHKey)
		}
	default:
		return fmt.Errorf("unknown security method: %s", c.Security.Method)
	}
	return nil
}
