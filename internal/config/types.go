package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
)

// Config is the top-level configuration, corresponding to .quranqa.yml.
type Config struct {
	Provider        ProviderType `yaml:"provider" koanf:"provider"`
	Model           string       `yaml:"model" koanf:"model"`
	ClassifierModel string       `yaml:"classifier_model" koanf:"classifier_model"`
	TimeoutSeconds  int          `yaml:"timeout_seconds" koanf:"timeout_seconds"`
	MaxRetries      int          `yaml:"max_retries" koanf:"max_retries"`
	DataDir         string       `yaml:"data_dir" koanf:"data_dir"`
	Corpus          CorpusConfig `yaml:"corpus" koanf:"corpus"`
	Server          ServerConfig `yaml:"server" koanf:"server"`
}

// CorpusConfig names the JSONL corpus files inside DataDir.
type CorpusConfig struct {
	MorphologyFile string `yaml:"morphology_file" koanf:"morphology_file"`
	RootsFile      string `yaml:"roots_file" koanf:"roots_file"`
	DictionaryFile string `yaml:"dictionary_file" koanf:"dictionary_file"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int  `yaml:"port" koanf:"port"`
	CORSAllowAll bool `yaml:"cors_allow_all" koanf:"cors_allow_all"`
}
