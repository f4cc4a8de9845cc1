// File path: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ChunkerConfig controls how extracted document text is split before
// embedding. Size and Overlap are measured in runes.
type ChunkerConfig struct {
	Size    int
	Overlap int
}

// RetrievalConfig tunes the chat retrieval loop.
type RetrievalConfig struct {
	TopK          int
	HistoryWindow int
}

// PYQConfig tunes the previous-year-question analysis. A topic counts a PYQ
// chunk as a match when cosine similarity meets MatchThreshold. Frequency at
// or above HighThreshold maps to high priority, MediumThreshold to medium.
type PYQConfig struct {
	MatchK          int
	MatchThreshold  float64
	HighThreshold   int
	MediumThreshold int
	MaxQuestions    int
}

// VectorConfig selects the vector index backend. "memory" keeps indexes in
// process; "chromem" persists them under Path.
type VectorConfig struct {
	Backend string
	Path    string
}

// CatalogConfig locates the SQLite document catalog.
type CatalogConfig struct {
	Path string
}

// Config is the root application configuration, assembled from environment
// variables with sensible defaults.
type Config struct {
	Addr      string
	Chunker   ChunkerConfig
	Retrieval RetrievalConfig
	PYQ       PYQConfig
	Vector    VectorConfig
	Catalog   CatalogConfig
}

// Load reads configuration from the environment and applies defaults.
func Load() (Config, error) {
	cfg := Config{}
	if addr := strings.TrimSpace(os.Getenv("STUDYBUDDY_ADDR")); addr != "" {
		cfg.Addr = addr
	}
	var err error
	if cfg.Chunker.Size, err = envInt("STUDYBUDDY_CHUNK_SIZE"); err != nil {
		return Config{}, err
	}
	if cfg.Chunker.Overlap, err = envInt("STUDYBUDDY_CHUNK_OVERLAP"); err != nil {
		return Config{}, err
	}
	if cfg.Retrieval.TopK, err = envInt("STUDYBUDDY_TOP_K"); err != nil {
		return Config{}, err
	}
	if cfg.Retrieval.HistoryWindow, err = envInt("STUDYBUDDY_HISTORY_WINDOW"); err != nil {
		return Config{}, err
	}
	if cfg.PYQ.MatchK, err = envInt("STUDYBUDDY_PYQ_MATCH_K"); err != nil {
		return Config{}, err
	}
	if cfg.PYQ.MatchThreshold, err = envFloat("STUDYBUDDY_PYQ_MATCH_THRESHOLD"); err != nil {
		return Config{}, err
	}
	if cfg.PYQ.HighThreshold, err = envInt("STUDYBUDDY_PYQ_HIGH_THRESHOLD"); err != nil {
		return Config{}, err
	}
	if cfg.PYQ.MediumThreshold, err = envInt("STUDYBUDDY_PYQ_MEDIUM_THRESHOLD"); err != nil {
		return Config{}, err
	}
	if cfg.PYQ.MaxQuestions, err = envInt("STUDYBUDDY_MOCK_MAX_QUESTIONS"); err != nil {
		return Config{}, err
	}
	if backend := strings.TrimSpace(os.Getenv("STUDYBUDDY_VECTOR_BACKEND")); backend != "" {
		cfg.Vector.Backend = strings.ToLower(backend)
	}
	if path := strings.TrimSpace(os.Getenv("STUDYBUDDY_VECTOR_PATH")); path != "" {
		cfg.Vector.Path = path
	}
	if path := strings.TrimSpace(os.Getenv("STUDYBUDDY_CATALOG_PATH")); path != "" {
		cfg.Catalog.Path = path
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration used when no environment overrides are
// present. Tests rely on it for reproducible tuning values.
func Default() Config {
	cfg := Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills any unset field with its default value.
func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.Addr) == "" {
		c.Addr = ":8080"
	}
	if c.Chunker.Size <= 0 {
		c.Chunker.Size = 1000
	}
	if c.Chunker.Overlap <= 0 {
		c.Chunker.Overlap = 200
	}
	if c.Chunker.Overlap >= c.Chunker.Size {
		c.Chunker.Overlap = c.Chunker.Size / 5
	}
	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = 3
	}
	if c.Retrieval.HistoryWindow <= 0 {
		c.Retrieval.HistoryWindow = 6
	}
	if c.PYQ.MatchK <= 0 {
		c.PYQ.MatchK = 4
	}
	if c.PYQ.MatchThreshold <= 0 {
		c.PYQ.MatchThreshold = 0.45
	}
	if c.PYQ.HighThreshold <= 0 {
		c.PYQ.HighThreshold = 5
	}
	if c.PYQ.MediumThreshold <= 0 {
		c.PYQ.MediumThreshold = 2
	}
	if c.PYQ.MaxQuestions <= 0 {
		c.PYQ.MaxQuestions = 20
	}
	if strings.TrimSpace(c.Vector.Backend) == "" {
		c.Vector.Backend = "memory"
	}
	if strings.TrimSpace(c.Vector.Path) == "" {
		c.Vector.Path = "studybuddy_vectors"
	}
	if strings.TrimSpace(c.Catalog.Path) == "" {
		c.Catalog.Path = "studybuddy_catalog.db"
	}
}

// Validate rejects combinations that would break chunking or analysis.
func (c Config) Validate() error {
	if c.Chunker.Overlap >= c.Chunker.Size {
		return fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", c.Chunker.Overlap, c.Chunker.Size)
	}
	if c.PYQ.MediumThreshold > c.PYQ.HighThreshold {
		return fmt.Errorf("pyq medium threshold %d exceeds high threshold %d", c.PYQ.MediumThreshold, c.PYQ.HighThreshold)
	}
	switch c.Vector.Backend {
	case "memory", "chromem":
	default:
		return fmt.Errorf("unknown vector backend %q", c.Vector.Backend)
	}
	return nil
}

func envInt(name string) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return value, nil
}

func envFloat(name string) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return value, nil
}
