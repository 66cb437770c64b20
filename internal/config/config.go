package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Models     ModelsConfig     `mapstructure:"models"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Moderation ModerationConfig `mapstructure:"moderation"`
	Retrieval  RetrievalConfig  `mapstructure:"retrieval"`
	Session    SessionConfig    `mapstructure:"session"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Cache      CacheConfig      `mapstructure:"cache"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	I18n       I18nConfig       `mapstructure:"i18n"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type ModelsConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	ChatModel      string        `mapstructure:"chat_model"`
	EmbeddingModel string        `mapstructure:"embedding_model"`
	Temperature    float64       `mapstructure:"temperature"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

type ModerationConfig struct {
	// Mode is "block" (profane input short-circuits with a polite reply)
	// or "censor" (offending tokens are masked and the request continues).
	Mode         string   `mapstructure:"mode"`
	ExtraWordsRO []string `mapstructure:"extra_words_ro"`
	ExtraWordsEN []string `mapstructure:"extra_words_en"`
}

type RetrievalConfig struct {
	TopK  int         `mapstructure:"top_k"`
	Index IndexConfig `mapstructure:"index"`
}

type IndexConfig struct {
	Type   string       `mapstructure:"type"`
	Chroma ChromaConfig `mapstructure:"chroma"`
}

type ChromaConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	Collection string `mapstructure:"collection"`
}

type SessionConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type StorageConfig struct {
	Type   string       `mapstructure:"type"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Memory MemoryConfig `mapstructure:"memory"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MemoryConfig struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
	MaxSize int           `mapstructure:"max_size"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	Burst             int  `mapstructure:"burst"`
}

type LoggingConfig struct {
	Level  string     `mapstructure:"level"`
	Format string     `mapstructure:"format"`
	Output string     `mapstructure:"output"`
	File   FileConfig `mapstructure:"file"`
}

type FileConfig struct {
	Path       string `mapstructure:"path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

type MonitoringConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

type I18nConfig struct {
	Dir             string   `mapstructure:"dir"`
	DefaultLanguage string   `mapstructure:"default_language"`
	Languages       []string `mapstructure:"languages"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// Enable environment variable substitution
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Set environment variable overrides
	viper.SetEnvPrefix("") // No prefix
	viper.BindEnv("models.api_key", "OPENAI_API_KEY")
	viper.BindEnv("models.base_url", "OPENAI_BASE_URL")
	viper.BindEnv("storage.redis.password", "REDIS_PASSWORD")
	viper.BindEnv("storage.redis.db", "REDIS_DB")

	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Handle Redis address special case
	if redisHost := viper.GetString("REDIS_HOST"); redisHost != "" {
		redisPort := viper.GetString("REDIS_PORT")
		if redisPort == "" {
			redisPort = "6379"
		}
		config.Storage.Redis.Addr = fmt.Sprintf("%s:%s", redisHost, redisPort)
	}

	// Validate required fields
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 15*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("models.base_url", "https://api.openai.com/v1")
	viper.SetDefault("models.chat_model", "gpt-4o-mini")
	viper.SetDefault("models.embedding_model", "text-embedding-3-small")
	viper.SetDefault("models.temperature", 0.4)
	viper.SetDefault("models.request_timeout", 20*time.Second)
	viper.SetDefault("catalog.path", "configs/book_summaries.json")
	viper.SetDefault("moderation.mode", "block")
	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("retrieval.top_k", 3)
	viper.SetDefault("retrieval.index.type", "memory")
	viper.SetDefault("session.timeout", 180*time.Second)
	viper.SetDefault("i18n.default_language", "ro")
}

func validateConfig(cfg *Config) error {
	if cfg.Models.APIKey == "" {
		return fmt.Errorf("models api key is required")
	}
	if cfg.Moderation.Mode != "block" && cfg.Moderation.Mode != "censor" {
		return fmt.Errorf("unsupported moderation mode: %s", cfg.Moderation.Mode)
	}
	if cfg.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval top_k must be positive")
	}
	return nil
}
