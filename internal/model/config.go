package model

import "time"

// Config is the complete claimlens configuration
type Config struct {
	DataDir   string          `yaml:"data_dir"`
	IndexPath string          `yaml:"index_path"`
	Store     StoreConfig     `yaml:"store"`
	Cache     CacheConfig     `yaml:"cache"`
	Embedding ProviderConfig  `yaml:"embedding"`
	Generation ProviderConfig `yaml:"generation"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Output    OutputConfig    `yaml:"output"`
}

// ProviderConfig configures one LLM service endpoint (embedding or generation)
type ProviderConfig struct {
	// Provider name: "ollama", "openai", "anthropic" (generation only)
	Provider string `yaml:"provider"`

	// Model name (provider-specific)
	Model string `yaml:"model"`

	// APIKey for hosted providers (recommended via environment instead)
	APIKey string `yaml:"api_key,omitempty"`

	// BaseURL for custom endpoints (e.g., a local Ollama instance)
	BaseURL string `yaml:"base_url,omitempty"`

	// Timeout for API requests, in seconds
	Timeout int `yaml:"timeout"`

	// MaxTokens limits generated response length
	MaxTokens int `yaml:"max_tokens,omitempty"`

	// Proxy settings
	HTTPProxy  string `yaml:"http_proxy,omitempty"`
	HTTPSProxy string `yaml:"https_proxy,omitempty"`
	NoProxy    string `yaml:"no_proxy,omitempty"`
}

// RetrievalConfig controls nearest-neighbor lookup
type RetrievalConfig struct {
	// TopK is the number of passages retrieved per query
	TopK int `yaml:"top_k"`
}

// IngestConfig controls index building
type IngestConfig struct {
	// Workers is the number of concurrent embedding calls
	Workers int `yaml:"workers"`

	// RequestsPerSecond rate-limits calls to the embedding endpoint
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst is the rate limiter burst size
	Burst int `yaml:"burst"`
}

// CacheConfig controls the embedding cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// StoreConfig controls the SQLite record store
type StoreConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig controls CLI output
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
	JSON    bool `yaml:"json"`
}

// DefaultConfig returns sensible defaults: a local Ollama instance for both
// embedding and generation, index and store under the working directory.
func DefaultConfig() *Config {
	return &Config{
		DataDir:   "data",
		IndexPath: "index.json",
		Store: StoreConfig{
			Path: "claimlens.db",
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".claimlens-cache",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Embedding: ProviderConfig{
			Provider: "ollama",
			Model:    "llama3.2",
			Timeout:  30,
		},
		Generation: ProviderConfig{
			Provider:  "ollama",
			Model:     "llama3.2",
			Timeout:   60,
			MaxTokens: 1000,
		},
		Retrieval: RetrievalConfig{
			TopK: 5,
		},
		Ingest: IngestConfig{
			Workers:           4,
			RequestsPerSecond: 4,
			Burst:             4,
		},
	}
}
