package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"

	"github.com/kesona/askhub/internal/filestore"
	"github.com/kesona/askhub/internal/rag"
)

type Config struct {
	Port      int              `json:"port"`
	LogConfig logger.LogConfig `json:"log_config"`
	AI        AIConfig         `json:"ai"`
	RAG       RAGConfig        `json:"rag"`
	WebSearch WebSearchConfig  `json:"web_search"`
	Arxiv     ArxivConfig      `json:"arxiv"`
	Upload    UploadConfig     `json:"upload"`
	FileStore filestore.Config `json:"file_store"`
	CORS      []string         `json:"cors_allowlist"`
}

type AIConfig struct {
	Provider      string      `json:"provider"`
	Model         string      `json:"model"`
	EmbedModel    string      `json:"embed_model"`
	TimeoutSec    int         `json:"timeout_sec"`
	MaxInputChars int         `json:"max_input_chars"`
	CacheSize     int         `json:"cache_size"`
	CacheTTLSec   int         `json:"cache_ttl_sec"`
	Data          interface{} `json:"data"`
}

type RAGConfig struct {
	Segmenter rag.SegmenterConfig `json:"segmenter"`
	TopK      int                 `json:"top_k"`
}

type WebSearchConfig struct {
	Endpoint   string `json:"endpoint"`
	MaxResults int    `json:"max_results"`
}

type ArxivConfig struct {
	Endpoint   string `json:"endpoint"`
	MaxResults int    `json:"max_results"`
}

type UploadConfig struct {
	MaxSizeBytes int64 `json:"max_size_bytes"`
	Keep         bool  `json:"keep"`
	KeepDays     int   `json:"keep_days"`
	RateLimitSec int   `json:"rate_limit_sec"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "gemini"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-2.5-flash"
	}
	if cfg.AI.EmbedModel == "" {
		cfg.AI.EmbedModel = "gemini-embedding-001"
	}
	if cfg.AI.TimeoutSec == 0 {
		cfg.AI.TimeoutSec = 60
	}
	if cfg.AI.MaxInputChars == 0 {
		cfg.AI.MaxInputChars = 8192
	}
	if cfg.AI.CacheSize == 0 {
		cfg.AI.CacheSize = 10000
	}
	if cfg.AI.CacheTTLSec == 0 {
		cfg.AI.CacheTTLSec = 7200
	}
	// The provider reads api_key from its data block; fall back to the
	// conventional env var whenever the config does not carry one itself.
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		switch data := cfg.AI.Data.(type) {
		case nil:
			cfg.AI.Data = map[string]interface{}{"api_key": key}
		case map[string]interface{}:
			if v, _ := data["api_key"].(string); v == "" {
				data["api_key"] = key
			}
		}
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = 4
	}
	if cfg.RAG.TopK < 0 || cfg.RAG.TopK > 16 {
		return nil, fmt.Errorf("rag.top_k must be within 1..16, got %d", cfg.RAG.TopK)
	}
	if cfg.WebSearch.MaxResults == 0 {
		cfg.WebSearch.MaxResults = 5
	}
	if cfg.Arxiv.MaxResults == 0 {
		cfg.Arxiv.MaxResults = 3
	}
	if cfg.Upload.MaxSizeBytes == 0 {
		cfg.Upload.MaxSizeBytes = 20 << 20
	}
	if cfg.Upload.KeepDays == 0 {
		cfg.Upload.KeepDays = 7
	}
	if cfg.Upload.RateLimitSec == 0 {
		cfg.Upload.RateLimitSec = 5
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
		cfg.FileStore.Data = map[string]interface{}{"dir": "./uploads"}
	}
	return &cfg, nil
}
