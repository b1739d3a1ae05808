package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const DefaultDataSource = "https://cf-courses-data.s3.us.cloud-object-storage.appdomain.cloud/" +
	"IBMDeveloperSkillsNetwork-DV0101EN-SkillsNetwork/Data%20Files/historical_automobile_sales.csv"

type Config struct {
	Server      ServerConfig
	Data        DataConfig
	Logger      LoggerConfig
	Security    SecurityConfig
	Compression CompressionConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	Debug           bool
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DataConfig struct {
	Source       string
	FetchTimeout time.Duration
	CacheDir     string
	CacheTTL     time.Duration
}

type LoggerConfig struct {
	Level  string
	Format string
}

type SecurityConfig struct {
	EnableRateLimit bool
	RateLimitRPS    int
	RateLimitBurst  int
	AllowedOrigins  []string
	// TrustedProxies may set X-Forwarded-For; empty by default so the rate
	// limiter keys on the peer address.
	TrustedProxies []string
}

type CompressionConfig struct {
	MinSize int
	Level   int
}

// fileConfig is the optional TOML overlay. Zero values leave the defaults
// untouched; durations are Go duration strings.
type fileConfig struct {
	Server struct {
		Host  string `toml:"host"`
		Port  int    `toml:"port"`
		Debug bool   `toml:"debug"`
	} `toml:"server"`
	Data struct {
		Source       string `toml:"source"`
		FetchTimeout string `toml:"fetch_timeout"`
		CacheDir     string `toml:"cache_dir"`
		CacheTTL     string `toml:"cache_ttl"`
	} `toml:"data"`
	Logger struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"logger"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8050,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Data: DataConfig{
			Source:       DefaultDataSource,
			FetchTimeout: 30 * time.Second,
			CacheTTL:     24 * time.Hour,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "json",
		},
		Security: SecurityConfig{
			EnableRateLimit: true,
			RateLimitRPS:    50,
			RateLimitBurst:  20,
			AllowedOrigins:  []string{"http://127.0.0.1:8050", "http://localhost:8050"},
		},
		Compression: CompressionConfig{
			MinSize: 1024,
			Level:   6,
		},
	}
}

// Load reads .env (if present), then the TOML file named by CONFIG_FILE (if
// set), then environment variables, each layer overriding the previous one.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.Server.Debug {
		cfg.Logger.Level = "debug"
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return err
	}

	if fc.Server.Host != "" {
		c.Server.Host = fc.Server.Host
	}
	if fc.Server.Port != 0 {
		c.Server.Port = fc.Server.Port
	}
	if fc.Server.Debug {
		c.Server.Debug = true
	}
	if fc.Data.Source != "" {
		c.Data.Source = fc.Data.Source
	}
	if fc.Data.CacheDir != "" {
		c.Data.CacheDir = fc.Data.CacheDir
	}
	if fc.Data.FetchTimeout != "" {
		d, err := time.ParseDuration(fc.Data.FetchTimeout)
		if err != nil {
			return fmt.Errorf("data.fetch_timeout: %w", err)
		}
		c.Data.FetchTimeout = d
	}
	if fc.Data.CacheTTL != "" {
		d, err := time.ParseDuration(fc.Data.CacheTTL)
		if err != nil {
			return fmt.Errorf("data.cache_ttl: %w", err)
		}
		c.Data.CacheTTL = d
	}
	if fc.Logger.Level != "" {
		c.Logger.Level = fc.Logger.Level
	}
	if fc.Logger.Format != "" {
		c.Logger.Format = fc.Logger.Format
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Host = getEnvString("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvInt("SERVER_PORT", c.Server.Port)
	c.Server.Debug = getEnvBool("DEBUG", c.Server.Debug)
	c.Server.ReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.IdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", c.Server.IdleTimeout)
	c.Server.ShutdownTimeout = getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)

	c.Data.Source = getEnvString("DATA_SOURCE", c.Data.Source)
	c.Data.FetchTimeout = getEnvDuration("DATA_FETCH_TIMEOUT", c.Data.FetchTimeout)
	c.Data.CacheDir = getEnvString("DATA_CACHE_DIR", c.Data.CacheDir)
	c.Data.CacheTTL = getEnvDuration("DATA_CACHE_TTL", c.Data.CacheTTL)

	c.Logger.Level = getEnvString("LOG_LEVEL", c.Logger.Level)
	c.Logger.Format = getEnvString("LOG_FORMAT", c.Logger.Format)

	c.Security.EnableRateLimit = getEnvBool("SECURITY_RATE_LIMIT_ENABLED", c.Security.EnableRateLimit)
	c.Security.RateLimitRPS = getEnvInt("SECURITY_RATE_LIMIT_RPS", c.Security.RateLimitRPS)
	c.Security.RateLimitBurst = getEnvInt("SECURITY_RATE_LIMIT_BURST", c.Security.RateLimitBurst)
	c.Security.AllowedOrigins = getEnvStringSlice("SECURITY_ALLOWED_ORIGINS", c.Security.AllowedOrigins)
	c.Security.TrustedProxies = getEnvStringSlice("SECURITY_TRUSTED_PROXIES", c.Security.TrustedProxies)

	c.Compression.MinSize = getEnvInt("COMPRESSION_MIN_SIZE", c.Compression.MinSize)
	c.Compression.Level = getEnvInt("COMPRESSION_LEVEL", c.Compression.Level)
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Data.Source == "" {
		return fmt.Errorf("data source cannot be empty")
	}

	if c.Data.FetchTimeout <= 0 {
		return fmt.Errorf("data fetch timeout must be positive")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "text"}
	if !contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(validLogFormats, ", "))
	}

	if c.Security.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit RPS must be positive")
	}

	if c.Security.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	if c.Compression.Level < 1 || c.Compression.Level > 9 {
		return fmt.Errorf("compression level must be between 1 and 9, got %d", c.Compression.Level)
	}

	return nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
