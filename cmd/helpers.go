package cmd

import (
	"fmt"
	"time"

	"github.com/Tameem1/quran-chatbot/internal/config"
	"github.com/Tameem1/quran-chatbot/internal/corpus"
	"github.com/Tameem1/quran-chatbot/internal/llm"
	"github.com/Tameem1/quran-chatbot/internal/pipeline"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `quranqa init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openCorpus loads the three corpus files into the in-memory store.
func openCorpus(cfg *config.Config) (*corpus.Store, error) {
	store, err := corpus.Open(corpus.Paths{
		Morphology: cfg.MorphologyPath(),
		Roots:      cfg.RootsPath(),
		Dictionary: cfg.DictionaryPath(),
	})
	if err != nil {
		return nil, fmt.Errorf("loading corpus from %s: %w", cfg.DataDir, err)
	}
	return store, nil
}

// buildPipeline assembles the full pipeline from config: corpus store, LLM
// provider, and stage settings.
func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, *corpus.Store, error) {
	store, err := openCorpus(cfg)
	if err != nil {
		return nil, nil, err
	}

	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("creating LLM provider: %w", err)
	}

	p := pipeline.New(store, provider, pipeline.Settings{
		Model:           cfg.Model,
		ClassifierModel: cfg.ClassifierModel,
		Timeout:         time.Duration(cfg.TimeoutSeconds) * time.Second,
		MaxRetries:      cfg.MaxRetries,
	})
	return p, store, nil
}
