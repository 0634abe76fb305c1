package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

var defaultModels = map[string]string{
	ProviderGemini: "gemini-1.5-flash",
	ProviderOpenAI: "gpt-4o-mini",
}

type Config struct {
	Server struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"readTimeout"`
		WriteTimeout    time.Duration `yaml:"writeTimeout"`
		IdleTimeout     time.Duration `yaml:"idleTimeout"`
		ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
		MaxUploadBytes  int64         `yaml:"maxUploadBytes"`
		AllowedOrigins  []string      `yaml:"allowedOrigins"`
		// TrustProxy takes the client address from X-Forwarded-For/X-Real-IP.
		// Enable only behind a proxy that overwrites those headers.
		TrustProxy bool `yaml:"trustProxy"`
		RateLimit       struct {
			Capacity        int `yaml:"capacity"`
			RefillPerSecond int `yaml:"refillPerSecond"`
		} `yaml:"rateLimit"`
	} `yaml:"server"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Analysis Analysis `yaml:"analysis"`
}

// Analysis is process-wide; it is fixed when the analysis client is built.
type Analysis struct {
	Provider string        `yaml:"provider"`
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"apiKey"`
	BaseURL  string        `yaml:"baseURL"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Server.Port = 3000
	cfg.Server.ReadTimeout = 30 * time.Second
	cfg.Server.WriteTimeout = 90 * time.Second
	cfg.Server.IdleTimeout = 60 * time.Second
	cfg.Server.ShutdownTimeout = 5 * time.Second
	cfg.Server.MaxUploadBytes = 10 << 20
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	cfg.Analysis.Provider = ProviderGemini
	cfg.Analysis.Timeout = 60 * time.Second
	return &cfg
}

// Load reads the YAML file at path on top of the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := getEnvInt("PORT", 0); v > 0 {
		c.Server.Port = v
	}
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
	c.Analysis.Provider = getEnv("ANALYSIS_PROVIDER", c.Analysis.Provider)
	c.Analysis.Model = getEnv("ANALYSIS_MODEL", c.Analysis.Model)
	if v := getEnv("TRUST_PROXY", ""); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Server.TrustProxy = b
		}
	}

	// the provider's own key variable wins over the file
	switch strings.ToLower(c.Analysis.Provider) {
	case ProviderOpenAI:
		c.Analysis.APIKey = getEnv("OPENAI_API_KEY", c.Analysis.APIKey)
	default:
		c.Analysis.APIKey = getEnv("GEMINI_API_KEY", c.Analysis.APIKey)
	}
}

func (c *Config) normalize() error {
	c.Analysis.Provider = strings.ToLower(strings.TrimSpace(c.Analysis.Provider))
	c.Analysis.APIKey = strings.TrimSpace(c.Analysis.APIKey)

	switch c.Analysis.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown analysis provider %q", c.Analysis.Provider)
	}
	if strings.TrimSpace(c.Analysis.Model) == "" {
		c.Analysis.Model = defaultModels[c.Analysis.Provider]
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Server.MaxUploadBytes <= 0 {
		c.Server.MaxUploadBytes = 10 << 20
	}
	if c.Analysis.Timeout <= 0 {
		c.Analysis.Timeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 5 * time.Second
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
