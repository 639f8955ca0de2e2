package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Lookup   LookupConfig   `mapstructure:"lookup"`
	Identity IdentityConfig `mapstructure:"identity"`
	Parser   ParserConfig   `mapstructure:"parser"`
	Planner  PlannerConfig  `mapstructure:"planner"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port       string        `mapstructure:"port"`
	JWTSecret  string        `mapstructure:"jwt_secret"`
	RateLimit  int           `mapstructure:"rate_limit"`  // 每个窗口内的请求数
	RateWindow time.Duration `mapstructure:"rate_window"`
}

// DatabaseConfig holds the SQLite index location.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LookupConfig selects where the location table is loaded from. A set
// S3 bucket takes precedence over the local path.
type LookupConfig struct {
	Path        string `mapstructure:"path"`
	S3Bucket    string `mapstructure:"s3_bucket"`
	S3Key       string `mapstructure:"s3_key"`
	S3Region    string `mapstructure:"s3_region"`
	S3Endpoint  string `mapstructure:"s3_endpoint"`
	S3AccessKey string `mapstructure:"s3_access_key"`
	S3SecretKey string `mapstructure:"s3_secret_key"`
}

// IdentityConfig controls subscriber id normalization.
type IdentityConfig struct {
	Prefix     string   `mapstructure:"prefix"`
	FullLength int      `mapstructure:"full_length"`
	HomeCodes  []string `mapstructure:"home_codes"`
}

// ParserConfig holds the data-session quality rules.
type ParserConfig struct {
	Legacy3GPattern string `mapstructure:"legacy_3g_pattern"`
	StickySubtype   int64  `mapstructure:"sticky_subtype"`
	AnchorSubtype   int64  `mapstructure:"anchor_subtype"`
}

// PlannerConfig bounds range planning.
type PlannerConfig struct {
	MaxBits   int `mapstructure:"max_bits"`
	KeyChars  int `mapstructure:"key_chars"`
	MaxRanges int `mapstructure:"max_ranges"`
}

// IngestConfig 批量导入配置
type IngestConfig struct {
	Workers   int `mapstructure:"workers"`
	BatchSize int `mapstructure:"batch_size"`
}

// NATSConfig holds the event bus connection. An empty URL disables
// publishing.
type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Token   string `mapstructure:"token"`
	Subject string `mapstructure:"subject"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load 加载配置，环境变量前缀 LOCSTORE_
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LOCSTORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.jwt_secret", "")
	v.SetDefault("server.rate_limit", 100)
	v.SetDefault("server.rate_window", "1m")

	v.SetDefault("database.path", "./data/locstore/index.db")

	v.SetDefault("lookup.path", "./data/locstore/lookup.txt")
	v.SetDefault("lookup.s3_bucket", "")
	v.SetDefault("lookup.s3_key", "lookup/lookup.txt.zst")
	v.SetDefault("lookup.s3_region", "us-east-1")
	v.SetDefault("lookup.s3_endpoint", "")
	v.SetDefault("lookup.s3_access_key", "")
	v.SetDefault("lookup.s3_secret_key", "")

	v.SetDefault("identity.prefix", "310410")
	v.SetDefault("identity.full_length", 15)
	v.SetDefault("identity.home_codes", []string{"310", "311", "312", "313", "314", "315", "316"})

	v.SetDefault("parser.legacy_3g_pattern", "^000")
	v.SetDefault("parser.sticky_subtype", 29)
	v.SetDefault("parser.anchor_subtype", 28)

	v.SetDefault("planner.max_bits", 25)
	v.SetDefault("planner.key_chars", 5)
	v.SetDefault("planner.max_ranges", 4096)

	v.SetDefault("ingest.workers", 4)
	v.SetDefault("ingest.batch_size", 1000)

	v.SetDefault("nats.url", "")
	v.SetDefault("nats.token", "")
	v.SetDefault("nats.subject", "locstore.ingest.completed")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// 可选配置文件，环境变量优先
	if path := os.Getenv("LOCSTORE_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail deep inside a
// component.
func (c *Config) Validate() error {
	if c.Identity.FullLength < 0 {
		return fmt.Errorf("identity.full_length must not be negative")
	}
	if c.Planner.MaxBits <= 0 {
		return fmt.Errorf("planner.max_bits must be positive")
	}
	if c.Planner.KeyChars != 5 {
		// row keys carry a fixed 5-char geohash prefix
		return fmt.Errorf("planner.key_chars must be 5, got %d", c.Planner.KeyChars)
	}
	if c.Ingest.Workers <= 0 {
		return fmt.Errorf("ingest.workers must be positive")
	}
	if c.Ingest.BatchSize <= 0 {
		return fmt.Errorf("ingest.batch_size must be positive")
	}
	return nil
}

// UseS3Lookup reports whether the lookup table comes from object storage
func (c *Config) UseS3Lookup() bool {
	return c.Lookup.S3Bucket != ""
}
