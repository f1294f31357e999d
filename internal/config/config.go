package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

const (
	UpstreamModeHTTP       = "http"
	UpstreamModeSimulation = "simulation"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Session    SessionConfig    `mapstructure:"session"`
	Upstream   UpstreamConfig   `mapstructure:"upstream"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Storage    StorageConfig
	AI         AIConfig
	Tracing    TracingConfig   `mapstructure:"tracing"`
	CORS       CORSConfig      `mapstructure:"cors"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
	Log        LogConfig       `mapstructure:"log"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Driver    string `mapstructure:"driver"` // mysql 或 sqlite
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
	Path      string `mapstructure:"path"` // sqlite 文件路径
}

type RedisConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Host     string
	Port     int
	Password string
	DB       int
}

// SessionConfig 会话存储配置，对应浏览器 localStorage 中的会话字段
type SessionConfig struct {
	Store    string        `mapstructure:"store"` // memory 或 redis
	Secret   string        `mapstructure:"secret"`
	TTLHours time.Duration `mapstructure:"ttl_hours"`
}

// UpstreamConfig 上游内容后端
type UpstreamConfig struct {
	Mode           string        `mapstructure:"mode"`
	BaseURL        string        `mapstructure:"base_url"`
	TimeoutSeconds time.Duration `mapstructure:"timeout_seconds"`
}

// SimulationConfig 模拟后端配置，DelayMS 为模拟异步操作的人工延迟
type SimulationConfig struct {
	DelayMS int   `mapstructure:"delay_ms"`
	Seed    int64 `mapstructure:"seed"`
}

func (s SimulationConfig) Delay() time.Duration {
	return time.Duration(s.DelayMS) * time.Millisecond
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	OSSEndpoint   string `mapstructure:"oss_endpoint"`
	OSSAccessKey  string `mapstructure:"oss_access_key"`
	OSSSecretKey  string `mapstructure:"oss_secret_key"`
	OSSBucket     string `mapstructure:"oss_bucket"`
}

type AIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

// Enabled AI 服务仅在配置了地址和密钥时可用，否则回退到模拟结果
func (a AIConfig) Enabled() bool {
	return a.BaseURL != "" && a.APIKey != ""
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type LogConfig struct {
	File string `mapstructure:"file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/authoring.db")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parsetime", true)
	v.SetDefault("session.store", "memory")
	v.SetDefault("session.ttl_hours", 24)
	v.SetDefault("upstream.mode", UpstreamModeSimulation)
	v.SetDefault("upstream.timeout_seconds", 30)
	v.SetDefault("simulation.delay_ms", 1500)
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "uploads")
	v.SetDefault("rate_limit.max_requests", 6000)
	v.SetDefault("rate_limit.window_minutes", 1)
	v.SetDefault("log.file", "logs/app.log")
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("AUTHORING")
	v.AutomaticEnv()
	setDefaults(v)

	// Server
	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("server.port", "SERVER_PORT")

	// Database
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Session
	v.BindEnv("session.store", "SESSION_STORE")
	v.BindEnv("session.secret", "SESSION_SECRET")

	// Upstream
	v.BindEnv("upstream.mode", "UPSTREAM_MODE")
	v.BindEnv("upstream.base_url", "UPSTREAM_BASE_URL")

	// AI
	v.BindEnv("ai.base_url", "AI_BASE_URL")
	v.BindEnv("ai.api_key", "AI_API_KEY")
	v.BindEnv("ai.model", "AI_MODEL")

	// Storage / OSS
	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.oss_endpoint", "OSS_ENDPOINT")
	v.BindEnv("storage.oss_access_key", "OSS_ACCESS_KEY")
	v.BindEnv("storage.oss_secret_key", "OSS_SECRET_KEY")
	v.BindEnv("storage.oss_bucket", "OSS_BUCKET")
	v.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Session.TTLHours = cfg.Session.TTLHours * time.Hour
	cfg.Upstream.TimeoutSeconds = cfg.Upstream.TimeoutSeconds * time.Second

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

// Validate 校验配置组合是否合法
func (c *Config) Validate() error {
	// 生产环境校验会话密钥强度
	if c.Server.Mode == "release" && len(c.Session.Secret) < 32 {
		return fmt.Errorf("session secret is too short (%d chars), must be at least 32 characters in release mode", len(c.Session.Secret))
	}

	switch c.Upstream.Mode {
	case UpstreamModeHTTP:
		if c.Upstream.BaseURL == "" {
			return fmt.Errorf("upstream.base_url is required when upstream.mode is %q", UpstreamModeHTTP)
		}
	case UpstreamModeSimulation:
	default:
		return fmt.Errorf("unknown upstream.mode %q", c.Upstream.Mode)
	}

	switch c.Session.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown session.store %q", c.Session.Store)
	}

	if c.Simulation.DelayMS < 0 {
		return fmt.Errorf("simulation.delay_ms must not be negative")
	}

	return nil
}
