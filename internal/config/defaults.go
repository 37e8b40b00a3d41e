package config

// DefaultConfig returns a configuration with sensible defaults. The model
// names mirror what the hosted pipeline was tuned against.
func DefaultConfig() *Config {
	return &Config{
		Provider:        ProviderOpenAI,
		Model:           "gpt-4o-mini-2024-07-18",
		ClassifierModel: "gpt-4o-mini-2024-07-18",
		TimeoutSeconds:  30,
		MaxRetries:      3,
		DataDir:         "data",
		Corpus: CorpusConfig{
			MorphologyFile: "quran_morphology.jsonl",
			RootsFile:      "root_analysis.jsonl",
			DictionaryFile: "arabic_dictionary.jsonl",
		},
		Server: ServerConfig{
			Port: 8080,
		},
	}
}
