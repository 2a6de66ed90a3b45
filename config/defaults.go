package config

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/onboard",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		LLM: LLMConfig{
			Provider:    "groq",
			Model:       "llama3-70b-8192",
			Temperature: 0.5,
		},
		Embeddings: EmbeddingsConfig{
			Provider: "ollama",
			BaseURL:  "http://localhost:11434",
			Model:    "nomic-embed-text",
		},
		Documents: DocumentsConfig{
			Paths:        []string{"Base.pdf", "TechLab Tech4ai.pdf"},
			ChunkSize:    512,
			ChunkOverlap: 20,
			TopK:         4,
		},
		Agent: AgentConfig{
			MaxIterations:  15,
			MaxParseErrors: 3,
			Timezone:       "America/Sao_Paulo",
		},
		Search: SearchConfig{
			ResultCount: 5,
		},
		Calendar: CalendarConfig{
			CredentialsFile: "credentials.json",
			CalendarID:      "primary",
			DefaultTimezone: "America/Sao_Paulo",
		},
		Security: SecurityConfig{
			Method: SecurityPlainText,
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# Onboard System Configuration
# Location: ~/.config/onboard/settings.toml
# This file uses TOML format: https://toml.io

# Directory where documents, the index and user config are stored
data_directory = "~/.local/share/onboard"
`
}

func GenerateUserConfigTemplate() string {
	return `# Onboard User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

# Keep a JSON transcript of every chat session under <data_directory>/transcripts
save_transcripts = false

[llm]
# groq, openai, openrouter, ollama, anthropic or gemini
provider = "groq"
model = "llama3-70b-8192"
temperature = 0.5
# base_url = "https://api.groq.com/openai/v1"

[embeddings]
# ollama, openai or gemini
provider = "ollama"
base_url = "http://localhost:11434"
model = "nomic-embed-text"

[documents]
# Relative paths are resolved against the data directory
paths = ["Base.pdf", "TechLab Tech4ai.pdf"]
chunk_size = 512
chunk_overlap = 20
top_k = 4
# Keep the index on disk instead of in memory (rebuilt at every start)
# index_path = "index.db"

[agent]
max_iterations = 15
max_parse_errors = 3
timezone = "America/Sao_Paulo"
# Also offer the tools through the provider's function-calling API
native_tools = false

[search]
# Google Programmable Search engine ID (or GOOGLE_CSE_ID)
engine_id = ""
result_count = 5

[calendar]
# OAuth client file downloaded from Google Cloud Console
credentials_file = "credentials.json"
calendar_id = "primary"
default_timezone = "America/Sao_Paulo"

[security]
# plaintext or ssh_key (encrypts API keys and the calendar token)
method = "plaintext"
# ssh_key_path = "~/.ssh/id_ed25519"
`
}
