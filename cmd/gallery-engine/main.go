// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the gallery-engine CLI.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/gallery-engine/internal/cache"
	"github.com/pdiddy/gallery-engine/internal/secrets"
	"github.com/pdiddy/gallery-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "gallery-engine/0.1"
	defaultQuery     = "painting"
	defaultDataDir   = ".gallery"
)

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the gallery-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "gallery-engine",
	Short: "Batch-oriented gallery viewer for the Met collection",
	Long: `gallery-engine retrieves artwork records from The Metropolitan Museum of
Art Collection API and assembles display-ready batches. A prefetch buffer and
a TTL-bounded local cache keep browsing instant.

Each operation is a subcommand: fetch a single batch, browse interactively,
inspect the id pool, and manage the cache, theme preference, and viewing
history.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./gallery-engine.yaml or ~/.config/gallery-engine/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", defaultDataDir, "base directory for local state (cache, history)")
	rootCmd.PersistentFlags().String("query", "", "collection search query forming the id pool (default \"painting\")")
	rootCmd.PersistentFlags().String("base-url", "", "override the collection API base URL (intermediary routing)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("gallery-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "gallery-engine"))
		}
	}

	viper.SetEnvPrefix("GALLERY_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// galleryConfig assembles the full configuration from flags, the config file,
// and loaded secrets. Flags win over the config file.
func galleryConfig(cmd *cobra.Command) types.GalleryConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = viper.GetDuration("museum.timeout")
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}

	query, _ := cmd.Flags().GetString("query")
	if query == "" {
		query = viper.GetString("museum.query")
	}
	if query == "" {
		query = defaultQuery
	}

	baseURL, _ := cmd.Flags().GetString("base-url")
	if baseURL == "" {
		baseURL = viper.GetString("museum.base_url")
	}

	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == defaultDataDir && viper.GetString("data_dir") != "" {
		dataDir = viper.GetString("data_dir")
	}

	cfg := types.GalleryConfig{
		Museum: types.MuseumConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   timeout,
				UserAgent: defaultUserAgent,
			},
			BaseURL:        baseURL,
			Query:          query,
			APIKey:         secretDefault("gateway-api-key", viper.GetString("museum.api_key")),
			MaxRetries:     viper.GetInt("museum.max_retries"),
			RetryBaseDelay: viper.GetDuration("museum.retry_base_delay"),
		},
		Fetch: types.FetchConfig{
			BatchSize:   viper.GetInt("fetch.batch_size"),
			Concurrency: viper.GetInt("fetch.concurrency"),
			MaxRounds:   viper.GetInt("fetch.max_rounds"),
		},
		Gate: types.GateConfig{
			MinReady: viper.GetInt("gate.min_ready"),
			Timeout:  viper.GetDuration("gate.timeout"),
		},
		Prefetch: types.PrefetchConfig{
			TargetBatches: viper.GetInt("prefetch.target_batches"),
		},
		Cache: types.CacheConfig{
			Dir: filepath.Join(dataDir, "cache"),
			TTL: viper.GetDuration("cache.ttl"),
		},
		History: types.HistoryConfig{
			Dir:        filepath.Join(dataDir, "history"),
			MaxResults: viper.GetInt("history.max_results"),
		},
	}
	return cfg
}

// httpClient builds the HTTP client shared by API and image requests.
func httpClient(cfg types.GalleryConfig) *http.Client {
	return &http.Client{Timeout: cfg.Museum.Timeout}
}

// openCache opens the batch cache, degrading to a no-op store on failure.
func openCache(cfg types.GalleryConfig) *cache.Store {
	store, err := cache.Open(cfg.Cache.Dir, cfg.Cache.TTL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: cache unavailable: %v\n", err)
		noop, _ := cache.Open("", cfg.Cache.TTL)
		return noop
	}
	return store
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
