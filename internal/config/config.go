package config

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultUserAgent is the default User-Agent string sent with all HTTP requests.
const DefaultUserAgent = "CineFinder/1.0 (+https://github.com/Belphemur/CineFinder)"

// Config holds the whole application configuration.
// Durations are Go duration strings like "30s", "1h", etc.
type Config struct {
	ProxyConnectionString string `mapstructure:"proxy_connection_string"`
	ClientTimeout         string `mapstructure:"client_timeout"`
	UserAgent             string `mapstructure:"user_agent"`
	LogLevel              string `mapstructure:"log_level"`

	TMDB struct {
		BaseURL      string  `mapstructure:"base_url"`
		APIKey       string  `mapstructure:"api_key"`
		Language     string  `mapstructure:"language"`
		ImageBaseURL string  `mapstructure:"image_base_url"`
		RateLimit    float64 `mapstructure:"rate_limit"` // requests per second, 0 disables the limiter
		RateBurst    int     `mapstructure:"rate_burst"`
		Breaker      struct {
			FailureThreshold uint32 `mapstructure:"failure_threshold"`
			Timeout          string `mapstructure:"timeout"`
		} `mapstructure:"breaker"`
	} `mapstructure:"tmdb"`

	Server struct {
		Port            int    `mapstructure:"port"`
		Address         string `mapstructure:"address"`
		ShutdownTimeout string `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`

	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"metrics"`

	Cache struct {
		Provider string `mapstructure:"provider"` // "memory" or "redis"
		Size     int    `mapstructure:"size"`     // Maximum number of entries in the LRU cache
		TTL      string `mapstructure:"ttl"`
		Redis    struct {
			Address   string `mapstructure:"address"`
			Password  string `mapstructure:"password"`
			DB        int    `mapstructure:"db"`
			KeyPrefix string `mapstructure:"key_prefix"`
		} `mapstructure:"redis"`
	} `mapstructure:"cache"`

	Storage struct {
		Provider string `mapstructure:"provider"` // "badger" or "memory"
		Path     string `mapstructure:"path"`
	} `mapstructure:"storage"`

	Auth struct {
		Mode       string `mapstructure:"mode"` // "demo" accepts any non-empty credentials, "local" verifies bcrypt hashes
		JWTSecret  string `mapstructure:"jwt_secret"`
		SessionTTL string `mapstructure:"session_ttl"`
	} `mapstructure:"auth"`

	CORS struct {
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"cors"`

	RateLimit struct {
		Requests int    `mapstructure:"requests"`
		Window   string `mapstructure:"window"`
		Disabled bool   `mapstructure:"disabled"`
	} `mapstructure:"rate_limit"`

	Browse struct {
		StateSize int    `mapstructure:"state_size"`
		StateTTL  string `mapstructure:"state_ttl"`
	} `mapstructure:"browse"`

	Sentry struct {
		DSN         string `mapstructure:"dsn"`
		Environment string `mapstructure:"environment"`
	} `mapstructure:"sentry"`
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stdout,
		NoColor: false,
	}).With().Timestamp().Logger()

	config, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	level := zerolog.InfoLevel
	if config.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", config.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)

	logger.Info().Str("level", level.String()).Msg("Logging configured")
	globalConfig = config
	logger.Info().Msg("Configuration loaded successfully")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("client_timeout", "30s")
	v.SetDefault("log_level", "info")

	v.SetDefault("tmdb.base_url", "https://api.themoviedb.org/3")
	v.SetDefault("tmdb.language", "en-US")
	v.SetDefault("tmdb.image_base_url", "https://image.tmdb.org/t/p/")
	v.SetDefault("tmdb.rate_limit", 40.0)
	v.SetDefault("tmdb.rate_burst", 20)
	v.SetDefault("tmdb.breaker.failure_threshold", 5)
	v.SetDefault("tmdb.breaker.timeout", "30s")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.address", "localhost")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)

	v.SetDefault("cache.provider", "memory")
	v.SetDefault("cache.size", 2000)
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.redis.address", "localhost:6379")
	v.SetDefault("cache.redis.key_prefix", "cinefinder:")

	v.SetDefault("storage.provider", "badger")
	v.SetDefault("storage.path", "./data")

	v.SetDefault("auth.mode", "demo")
	v.SetDefault("auth.session_ttl", "24h")

	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("browse.state_size", 1000)
	v.SetDefault("browse.state_ttl", "30m")
}

// LoadConfig reads config.yaml from "." or "./config" and overlays APP_* environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variable support
	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("tmdb.api_key", "APP_TMDB_API_KEY", "TMDB_API_KEY")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}

	return &config, nil
}

func GetConfig() *Config {
	return globalConfig
}

func GetUserAgent() string {
	if globalConfig != nil && globalConfig.UserAgent != "" {
		return globalConfig.UserAgent
	}

	return DefaultUserAgent
}

func GetLogger() zerolog.Logger {
	return logger
}

// ParseDuration parses a configured duration, falling back to def (with a warning) when
// the value is empty or invalid.
func ParseDuration(key, value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		logger.Warn().Str("key", key).Str("value", value).Dur("default", def).Msg("Invalid duration, using default")
		return def
	}
	return d
}
