package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/CrisMolina12/CatchaiIA/internal/domain"
)

// CredentialConfig names the environment variable holding the model API key.
type CredentialConfig struct {
	Env     string `yaml:"env"`
	EnvFile string `yaml:"env_file"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL           string  `yaml:"base_url"`
	APIKeyEnv         string  `yaml:"api_key_env"`
	Model             string  `yaml:"model"`
	TimeoutSecs       int     `yaml:"timeout_secs"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	MaxRetries        int     `yaml:"max_retries"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
// Each index partition becomes one collection.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// LLMConfig configures the OpenAI-compatible chat endpoint.
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutSecs int     `yaml:"timeout_secs"`
}

type RetrievalConfig struct {
	KPerDoc   int `yaml:"k_per_doc"`
	FallbackK int `yaml:"fallback_k"`
}

type IngestConfig struct {
	MaxFiles         int `yaml:"max_files"`
	PreviewSentences int `yaml:"preview_sentences"`
}

type LogConfig struct {
	File    string `yaml:"file"`
	Verbose bool   `yaml:"verbose"`
}

type WatchConfig struct {
	Dir string `yaml:"dir"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Credential  CredentialConfig  `yaml:"credential"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	Chunker     ChunkerConfig     `yaml:"chunker"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	LLM         LLMConfig         `yaml:"llm"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
	Ingest      IngestConfig      `yaml:"ingest"`
	DataDir     string            `yaml:"data_dir"`
	Log         LogConfig         `yaml:"log"`
	Watch       WatchConfig       `yaml:"watch"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/catchai/config.yaml.
// If neither exists, it writes defaults to ~/.config/catchai/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	dir, err := UserDir()
	if err != nil {
		return nil, "", err
	}
	userPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// UserDir is ~/.config/catchai.
func UserDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "catchai"), nil
}

// placeholders are template values shipped in example .env files.
var placeholders = map[string]struct{}{
	"tu_google_api_key_aqui": {},
	"your_api_key_here":      {},
}

// APIKey loads the env file, if present, and returns the model API key.
// A missing or placeholder value yields domain.ErrMissingCredential.
func (c *AppConfig) APIKey() (string, error) {
	if err := godotenv.Load(c.Credential.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("loading %s: %w", c.Credential.EnvFile, err)
	}
	return lookupCredential(c.Credential.Env)
}

// ReloadAPIKey re-reads the env file, letting it override the process
// environment, and returns the model API key. It picks up a key switched
// while the program runs.
func (c *AppConfig) ReloadAPIKey() (string, error) {
	if err := godotenv.Overload(c.Credential.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("loading %s: %w", c.Credential.EnvFile, err)
	}
	return lookupCredential(c.Credential.Env)
}

// EmbedderAPIKey returns the key for the remote embedder, falling back to the
// model credential when the embedder has no variable of its own.
func (c *AppConfig) EmbedderAPIKey() (string, error) {
	if c.Embedder.OpenAI == nil || c.Embedder.OpenAI.APIKeyEnv == "" {
		return c.APIKey()
	}
	return lookupCredential(c.Embedder.OpenAI.APIKeyEnv)
}

func lookupCredential(env string) (string, error) {
	v := strings.TrimSpace(os.Getenv(env))
	if v == "" {
		return "", fmt.Errorf("%w: %s is not set", domain.ErrMissingCredential, env)
	}
	if _, ok := placeholders[strings.ToLower(v)]; ok {
		return "", fmt.Errorf("%w: %s still holds the example value", domain.ErrMissingCredential, env)
	}
	return v, nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Embedder:    EmbedderConfig{Type: "tfidf"},
		VectorStore: VectorStoreConfig{Type: "sqlite"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Credential.Env == "" {
		cfg.Credential.Env = "GOOGLE_API_KEY"
	}
	if cfg.Credential.EnvFile == "" {
		cfg.Credential.EnvFile = ".env"
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "tfidf"
	}
	if cfg.Chunker.Size == 0 {
		cfg.Chunker.Size = 1000
	}
	if cfg.Chunker.Overlap == 0 {
		cfg.Chunker.Overlap = 200
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "sqlite"
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gemini-1.5-flash"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.1
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 2048
	}
	if cfg.LLM.TimeoutSecs == 0 {
		cfg.LLM.TimeoutSecs = 120
	}
	if cfg.Retrieval.KPerDoc == 0 {
		cfg.Retrieval.KPerDoc = 5
	}
	if cfg.Retrieval.FallbackK == 0 {
		cfg.Retrieval.FallbackK = 25
	}
	if cfg.Ingest.MaxFiles == 0 {
		cfg.Ingest.MaxFiles = 5
	}
	if cfg.Ingest.PreviewSentences == 0 {
		cfg.Ingest.PreviewSentences = 3
	}
	if cfg.DataDir == "" {
		if dir, err := UserDir(); err == nil {
			cfg.DataDir = filepath.Join(dir, "data")
		} else {
			cfg.DataDir = "data"
		}
	}
	if cfg.Log.File == "" {
		if dir, err := UserDir(); err == nil {
			cfg.Log.File = filepath.Join(dir, "catchai.log")
		} else {
			cfg.Log.File = "catchai.log"
		}
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI == nil {
		cfg.Embedder.OpenAI = &OpenAIEmbedderConfig{}
	}
	if o := cfg.Embedder.OpenAI; o != nil {
		if o.BaseURL == "" {
			o.BaseURL = "https://api.openai.com/v1"
		}
		if o.Model == "" {
			o.Model = "text-embedding-3-small"
		}
		if o.TimeoutSecs == 0 {
			o.TimeoutSecs = 30
		}
	}
	if cfg.VectorStore.Type == "qdrant" && cfg.VectorStore.Qdrant == nil {
		cfg.VectorStore.Qdrant = &QdrantConfig{}
	}
	if q := cfg.VectorStore.Qdrant; q != nil {
		if q.URL == "" {
			q.URL = "http://localhost:6333"
		}
		if q.TimeoutSecs == 0 {
			q.TimeoutSecs = 15
		}
	}
}
