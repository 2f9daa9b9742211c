package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env            string
	ServiceName    string
	ServiceVersion string

	GeminiAPIKey  string
	GeminiBaseURL string

	RedisURL string

	AuthJWTSecret string
	AuthJWTIssuer string

	OtelExporterOTLPEndpoint string
	OtelExporterOTLPHeaders  string
	SentryDSN                string

	Port string

	Generation GenerationConfig
	Jobs       JobsConfig
}

// GenerationConfig controls how recipes and images are requested from Gemini.
type GenerationConfig struct {
	Backend         string        `yaml:"backend"`
	TextModel       string        `yaml:"text_model"`
	ImageModel      string        `yaml:"image_model"`
	Temperature     float32       `yaml:"temperature"`
	MaxAttempts     int           `yaml:"max_attempts"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ImageTimeout    time.Duration `yaml:"image_timeout"`
	FallbackEnabled bool          `yaml:"fallback_enabled"`
	FallbackModel   string        `yaml:"fallback_model"`
}

type JobsConfig struct {
	ResultRetention time.Duration `yaml:"result_retention"`
	Concurrency     int           `yaml:"concurrency"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                      os.Getenv("ENV"),
		ServiceName:              os.Getenv("SERVICE_NAME"),
		ServiceVersion:           os.Getenv("SERVICE_VERSION"),
		GeminiAPIKey:             os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL:            os.Getenv("GEMINI_BASE_URL"),
		RedisURL:                 os.Getenv("REDIS_URL"),
		AuthJWTSecret:            os.Getenv("AUTH_JWT_SECRET"),
		AuthJWTIssuer:            os.Getenv("AUTH_JWT_ISSUER"),
		OtelExporterOTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OtelExporterOTLPHeaders:  os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"),
		SentryDSN:                os.Getenv("SENTRY_DSN"),
		Port:                     os.Getenv("PORT"),
	}
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = os.Getenv("API_KEY")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	// Load from YAML file if available
	if err := cfg.LoadFromYAML(configPath); err != nil {
		return nil, fmt.Errorf("failed to load YAML config: %w", err)
	}

	// Set defaults
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "recipeai"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "1.0.0"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	cfg.SetGenerationDefaults()
	cfg.SetJobsDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) LoadFromYAML(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File not found is not an error
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlConfig struct {
		Generation GenerationConfig `yaml:"generation"`
		Jobs       JobsConfig       `yaml:"jobs"`
	}

	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	g := yamlConfig.Generation
	if g.Backend != "" {
		c.Generation.Backend = g.Backend
	}
	if g.TextModel != "" {
		c.Generation.TextModel = g.TextModel
	}
	if g.ImageModel != "" {
		c.Generation.ImageModel = g.ImageModel
	}
	if g.Temperature != 0 {
		c.Generation.Temperature = g.Temperature
	}
	if g.MaxAttempts != 0 {
		c.Generation.MaxAttempts = g.MaxAttempts
	}
	if g.RequestTimeout != 0 {
		c.Generation.RequestTimeout = g.RequestTimeout
	}
	if g.ImageTimeout != 0 {
		c.Generation.ImageTimeout = g.ImageTimeout
	}
	if g.FallbackEnabled {
		c.Generation.FallbackEnabled = g.FallbackEnabled
	}
	if g.FallbackModel != "" {
		c.Generation.FallbackModel = g.FallbackModel
	}

	if yamlConfig.Jobs.ResultRetention != 0 {
		c.Jobs.ResultRetention = yamlConfig.Jobs.ResultRetention
	}
	if yamlConfig.Jobs.Concurrency != 0 {
		c.Jobs.Concurrency = yamlConfig.Jobs.Concurrency
	}

	return nil
}

func (c *Config) SetGenerationDefaults() {
	if c.Generation.Backend == "" {
		c.Generation.Backend = "rest"
	}
	if c.Generation.TextModel == "" {
		c.Generation.TextModel = "gemini-2.5-flash"
	}
	if c.Generation.ImageModel == "" {
		c.Generation.ImageModel = "gemini-2.5-flash-image"
	}
	if c.Generation.Temperature == 0 {
		c.Generation.Temperature = 0.7
	}
	if c.Generation.MaxAttempts == 0 {
		c.Generation.MaxAttempts = 1
	}
	if c.Generation.FallbackEnabled && c.Generation.FallbackModel == "" {
		c.Generation.FallbackModel = "gemini-2.0-flash"
	}
}

func (c *Config) SetJobsDefaults() {
	if c.Jobs.ResultRetention == 0 {
		c.Jobs.ResultRetention = time.Hour
	}
	if c.Jobs.Concurrency == 0 {
		c.Jobs.Concurrency = 10
	}
}

// OTLPHeaders parses OTEL_EXPORTER_OTLP_HEADERS ("k1=v1,k2=v2").
func (c *Config) OTLPHeaders() map[string]string {
	if c.OtelExporterOTLPHeaders == "" {
		return nil
	}
	headers := make(map[string]string)
	for _, pair := range strings.Split(c.OtelExporterOTLPHeaders, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		headers[key] = strings.TrimSpace(value)
	}
	return headers
}

// AsyncJobsEnabled reports whether a Redis URL was configured for the job queue.
func (c *Config) AsyncJobsEnabled() bool {
	return c.RedisURL != ""
}

func (c *Config) validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.Generation.Temperature <= 0 {
		return fmt.Errorf("generation.temperature must be positive")
	}
	switch c.Generation.Backend {
	case "rest", "sdk":
	default:
		return fmt.Errorf("unknown generation.backend %q", c.Generation.Backend)
	}
	if c.Generation.MaxAttempts < 1 {
		return fmt.Errorf("generation.max_attempts must be at least 1")
	}
	return nil
}
