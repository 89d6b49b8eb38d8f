package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ignite/collections-monitor/internal/domain"
	"github.com/ignite/collections-monitor/internal/recommend"
)

// Config holds all configuration for the application
type Config struct {
	Server         ServerConfig         `yaml:"server"`
	Database       DatabaseConfig       `yaml:"database"`
	Redis          RedisConfig          `yaml:"redis"`
	Chat           ChatConfig           `yaml:"chat"`
	Metrics        MetricsConfig        `yaml:"metrics"`
	Recommendation recommend.Thresholds `yaml:"recommendation"`
	Sources        []SourceConfig       `yaml:"sources"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// GetHost returns the bind host, defaulting to all interfaces.
func (s ServerConfig) GetHost() string {
	if s.Host == "" {
		return "0.0.0.0"
	}
	return s.Host
}

// DatabaseConfig holds the Postgres connection and ledger table settings.
type DatabaseConfig struct {
	URL         string `yaml:"url"`
	LedgerTable string `yaml:"ledger_table"`
}

// RedisConfig holds the responder-cache settings.
type RedisConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Addr            string `yaml:"addr"`
	Password        string `yaml:"password"`
	DB              int    `yaml:"db"`
	CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`
}

// ChatConfig holds the conversation-platform API settings.
type ChatConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// MetricsConfig holds the aggregation tunables. The defaults (0.014 per
// message, batches of 500) are the provider rate and the backend
// query-size limit; both are injected, never hardcoded downstream.
type MetricsConfig struct {
	CostRate  float64 `yaml:"cost_rate"`
	BatchSize int     `yaml:"batch_size"`
}

// SourceConfig registers one campaign-send table with its category tag.
// The tag is assigned here, once; display names are never re-parsed at
// computation time.
type SourceConfig struct {
	Name     string `yaml:"name"`
	Table    string `yaml:"table"`
	Category string `yaml:"category"` // negative_days, positive_days, zero_days, payment_commitment, reactivation, other
	Days     int    `yaml:"days"`     // signed, for the day-count categories
}

// DomainCategory converts the registry entry to its domain tag. Unknown
// category strings degrade to Other rather than failing startup.
func (s SourceConfig) DomainCategory() domain.Category {
	switch domain.CategoryKind(s.Category) {
	case domain.CategoryNegativeDays:
		return domain.Category{Kind: domain.CategoryNegativeDays, Days: s.Days}
	case domain.CategoryPositiveDays:
		return domain.Category{Kind: domain.CategoryPositiveDays, Days: s.Days}
	case domain.CategoryZeroDays:
		return domain.Category{Kind: domain.CategoryZeroDays}
	case domain.CategoryPaymentCommitment:
		return domain.Category{Kind: domain.CategoryPaymentCommitment}
	case domain.CategoryReactivation:
		return domain.Category{Kind: domain.CategoryReactivation}
	}
	return domain.Category{Kind: domain.CategoryOther}
}

// Load reads configuration from a YAML file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// LoadFromEnv loads the YAML config, then applies .env and environment
// variable overrides (env wins, matching deployment practice).
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
		cfg.Redis.Enabled = true
	}
	if pw := os.Getenv("REDIS_PASSWORD"); pw != "" {
		cfg.Redis.Password = pw
	}
	if baseURL := os.Getenv("CHAT_BASE_URL"); baseURL != "" {
		cfg.Chat.BaseURL = baseURL
	}
	if apiKey := os.Getenv("CHAT_API_KEY"); apiKey != "" {
		cfg.Chat.APIKey = apiKey
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Metrics.CostRate <= 0 {
		c.Metrics.CostRate = 0.014
	}
	if c.Metrics.BatchSize <= 0 {
		c.Metrics.BatchSize = 500
	}
	if c.Redis.CacheTTLMinutes <= 0 {
		c.Redis.CacheTTLMinutes = 5
	}
	if c.Recommendation == (recommend.Thresholds{}) {
		c.Recommendation = recommend.DefaultThresholds()
	}
}

// Validate reports configuration errors that should stop startup.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	seen := make(map[string]bool, len(c.Sources))
	for _, s := range c.Sources {
		if s.Name == "" || s.Table == "" {
			return fmt.Errorf("every campaign source needs a name and a table")
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate campaign source %q", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}
