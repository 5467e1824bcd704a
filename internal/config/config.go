package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Policy    PolicyConfig    `yaml:"policy" mapstructure:"policy"`
	Events    EventsConfig    `yaml:"events" mapstructure:"events"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Match     MatchConfig     `yaml:"match" mapstructure:"match"`
	Quote     QuoteConfig     `yaml:"quote" mapstructure:"quote"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the catalog/quotation database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DSN         string `yaml:"dsn" mapstructure:"dsn"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// PolicyConfig holds the discount policy knobs consumed by the pricing engine.
// Percentages are signed: discounts are negative, surcharges positive.
type PolicyConfig struct {
	HighInventoryMultiple    float64 `yaml:"high_inventory_multiple" mapstructure:"high_inventory_multiple"`
	HighInventoryDiscountPct float64 `yaml:"high_inventory_discount_pct" mapstructure:"high_inventory_discount_pct"`
	BulkOrderThreshold       int     `yaml:"bulk_order_threshold" mapstructure:"bulk_order_threshold"`
	BulkOrderDiscountPct     float64 `yaml:"bulk_order_discount_pct" mapstructure:"bulk_order_discount_pct"`
	EventAdjustmentPct       float64 `yaml:"event_adjustment_pct" mapstructure:"event_adjustment_pct"`
	MaxDiscountFloorPct      float64 `yaml:"max_discount_floor_pct" mapstructure:"max_discount_floor_pct"`
	RiskMaxDiscountPct       float64 `yaml:"risk_max_discount_pct" mapstructure:"risk_max_discount_pct"`
}

// EventsConfig configures the event scout.
type EventsConfig struct {
	LookaheadDays int    `yaml:"lookahead_days" mapstructure:"lookahead_days"`
	Classifier    string `yaml:"classifier" mapstructure:"classifier"` // "table" or "claude"
}

// AnthropicConfig holds Anthropic API settings for the Claude event classifier.
type AnthropicConfig struct {
	Key               string  `yaml:"key" mapstructure:"key"`
	Model             string  `yaml:"model" mapstructure:"model"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// MatchConfig configures fuzzy product-name matching for suggestions.
type MatchConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
	MaxSuggestions      int     `yaml:"max_suggestions" mapstructure:"max_suggestions"`
}

// QuoteConfig configures quotation assembly.
type QuoteConfig struct {
	MaxConcurrentItems int `yaml:"max_concurrent_items" mapstructure:"max_concurrent_items"`
}

// ServerConfig configures the webhook server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("QUOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "quote.db")
	v.SetDefault("policy.high_inventory_multiple", 3.0)
	v.SetDefault("policy.high_inventory_discount_pct", -15.0)
	v.SetDefault("policy.bulk_order_threshold", 25)
	v.SetDefault("policy.bulk_order_discount_pct", -12.5)
	v.SetDefault("policy.event_adjustment_pct", 5.0)
	v.SetDefault("policy.max_discount_floor_pct", -50.0)
	v.SetDefault("policy.risk_max_discount_pct", 25.0)
	v.SetDefault("events.lookahead_days", 45)
	v.SetDefault("events.classifier", "table")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.requests_per_second", 1.0)
	v.SetDefault("match.similarity_threshold", 0.4)
	v.SetDefault("match.max_suggestions", 3)
	v.SetDefault("quote.max_concurrent_items", 4)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
