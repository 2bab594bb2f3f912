package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "gallery-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// MuseumConfig holds settings for the museum collection API client.
type MuseumConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL overrides the collection API base URL, for routing through an
	// intermediary. Empty means the public Met endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Query is the fixed search query whose results form the id pool.
	Query string `json:"query" yaml:"query"`

	// APIKey is sent as X-Api-Key when routing through an intermediary.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts per request (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RetryBaseDelay is the initial backoff delay; it doubles per attempt
	// (default 250ms).
	RetryBaseDelay time.Duration `json:"retry_base_delay" yaml:"retry_base_delay"`
}

// FetchConfig holds settings for batch assembly.
type FetchConfig struct {
	// BatchSize is the number of artworks per batch (default 12).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// Concurrency caps simultaneously outstanding detail requests. This is
	// backpressure against the collection API, not a worker-pool size
	// (default 10).
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// MaxRounds bounds how many sampling rounds a single batch may use to
	// reach BatchSize (default 3).
	MaxRounds int `json:"max_rounds" yaml:"max_rounds"`
}

// GateConfig holds settings for the image readiness gate.
type GateConfig struct {
	// MinReady is the number of preloaded images required before a batch is
	// considered displayable. Zero means half the batch.
	MinReady int `json:"min_ready" yaml:"min_ready"`

	// Timeout bounds how long the gate waits for MinReady (default 5s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// PrefetchConfig holds settings for the background batch buffer.
type PrefetchConfig struct {
	// TargetBatches is the number of ready batches the buffer maintains
	// (default 2).
	TargetBatches int `json:"target_batches" yaml:"target_batches"`
}

// CacheConfig holds settings for the local batch cache.
type CacheConfig struct {
	// Dir is the directory holding the cache database.
	Dir string `json:"dir" yaml:"dir"`

	// TTL is how long a persisted batch stays valid (default 1h).
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// HistoryConfig holds settings for the served-artwork history store.
type HistoryConfig struct {
	// Dir is the directory holding the history database.
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// GalleryConfig groups all stage configurations.
type GalleryConfig struct {
	Museum   MuseumConfig   `json:"museum" yaml:"museum"`
	Fetch    FetchConfig    `json:"fetch" yaml:"fetch"`
	Gate     GateConfig     `json:"gate" yaml:"gate"`
	Prefetch PrefetchConfig `json:"prefetch" yaml:"prefetch"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
	History  HistoryConfig  `json:"history" yaml:"history"`
}
