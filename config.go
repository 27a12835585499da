package lawgraph

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every tunable of the engine. All hardcoded values of the
// pipeline live here; deployments adjust this struct, not the code.
type Config struct {
	// LLMModel is the generative model name.
	LLMModel string
	// LLMTemperature is the sampling temperature for all LLM calls.
	LLMTemperature float32
	// EmbeddingModel is the dense embedding model name.
	EmbeddingModel string

	// VectorDim is the dense vector dimensionality.
	VectorDim int
	// TopKVector is the per-query hit cap for hybrid retrieval.
	TopKVector int
	// TopKRerank is how many candidates survive the cross-encoder.
	TopKRerank int
	// TopKFinal is how many documents feed answer generation.
	TopKFinal int
	// PerQueryLimit caps hits fetched for each expanded query variant.
	PerQueryLimit int
	// MaxQueries caps the deduplicated multi-query list.
	MaxQueries int
	// RelevanceThreshold drops documents scoring below it (after boosting).
	RelevanceThreshold float64
	// StatuteBoost is added to a document's score when a referenced statute
	// name is a substring of its statute-name field. Additive, not normalized:
	// boosted scores may exceed 1.0.
	StatuteBoost float64
	// MaxRetry caps evaluate-triggered re-searches. Total search visits are
	// bounded by MaxRetry+1.
	MaxRetry int
	// ContextCharLimit truncates each passage in the generation context.
	ContextCharLimit int
	// HistoryLimit caps how many stored turns are loaded per session.
	HistoryLimit int

	// Qdrant connection settings.
	QdrantHost       string
	QdrantPort       int
	QdrantAPIKey     string
	QdrantUseTLS     bool
	QdrantCollection string
	QdrantTimeout    time.Duration

	// Prompts are the node and per-intent prompt strings.
	Prompts *PromptSet
}

// DefaultConfig returns the tuned production defaults.
func DefaultConfig() *Config {
	return &Config{
		LLMModel:           "gpt-4o-mini",
		LLMTemperature:     0.0,
		EmbeddingModel:     "text-embedding-3-small",
		VectorDim:          1024,
		TopKVector:         10,
		TopKRerank:         5,
		TopKFinal:          3,
		PerQueryLimit:      5,
		MaxQueries:         4,
		RelevanceThreshold: 0.2,
		StatuteBoost:       0.1,
		MaxRetry:           2,
		ContextCharLimit:   800,
		HistoryLimit:       20,
		QdrantHost:         "localhost",
		QdrantPort:         6334,
		QdrantCollection:   "labor_laws",
		QdrantTimeout:      10 * time.Second,
		Prompts:            DefaultPrompts(),
	}
}

// ConfigFromEnv loads DefaultConfig overridden by environment variables.
// A .env file in the working directory is honored when present.
func ConfigFromEnv() (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLMModel = v
	}
	if v := os.Getenv("EMBEDDING_MODEL"); v != "" {
		cfg.EmbeddingModel = v
	}
	if v := os.Getenv("QDRANT_HOST"); v != "" {
		cfg.QdrantHost = v
	}
	if v := os.Getenv("QDRANT_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid QDRANT_PORT %q: %w", v, err)
		}
		cfg.QdrantPort = port
	}
	if v := os.Getenv("QDRANT_API_KEY"); v != "" {
		cfg.QdrantAPIKey = v
		cfg.QdrantUseTLS = true
	}
	if v := os.Getenv("QDRANT_COLLECTION_NAME"); v != "" {
		cfg.QdrantCollection = v
	}
	if v := os.Getenv("MAX_RETRY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_RETRY %q: %w", v, err)
		}
		cfg.MaxRetry = n
	}
	if v := os.Getenv("RELEVANCE_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid RELEVANCE_THRESHOLD %q: %w", v, err)
		}
		cfg.RelevanceThreshold = f
	}
	return cfg, nil
}

// Validate reports configuration mistakes that would make the engine
// misbehave silently.
func (c *Config) Validate() error {
	if c.TopKFinal <= 0 {
		return fmt.Errorf("TopKFinal must be positive, got %d", c.TopKFinal)
	}
	if c.TopKRerank < c.TopKFinal {
		return fmt.Errorf("TopKRerank (%d) must be >= TopKFinal (%d)", c.TopKRerank, c.TopKFinal)
	}
	if c.MaxRetry < 0 {
		return fmt.Errorf("MaxRetry must be >= 0, got %d", c.MaxRetry)
	}
	if c.MaxQueries <= 0 {
		return fmt.Errorf("MaxQueries must be positive, got %d", c.MaxQueries)
	}
	if c.Prompts == nil {
		return fmt.Errorf("Prompts must not be nil")
	}
	return nil
}
