package config

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultUserAgent identifies sublify to the subtitle provider APIs.
const DefaultUserAgent = "sublify v1.0"

// DefaultProviders is the baseline provider allow-list used when none is
// configured on the command line or in the config file.
var DefaultProviders = []string{"opensubtitles", "podnapisi", "tvsubtitles"}

// Config is the resolved configuration for one invocation. It is built once
// at startup from the config file, environment variables and CLI flags, and
// is immutable for the process lifetime.
type Config struct {
	UserAgent     string `mapstructure:"user_agent"`
	ClientTimeout string `mapstructure:"client_timeout"` // Go duration string like "30s", "1m", etc.
	Proxy         string `mapstructure:"proxy"`
	LogLevel      string `mapstructure:"log_level"`
	SentryDSN     string `mapstructure:"sentry_dsn"`

	Providers []string `mapstructure:"providers"`
	MinScore  float64  `mapstructure:"min_score"`
	Retries   int      `mapstructure:"retries"` // provider retry attempts on transient failure

	Languages       []string `mapstructure:"languages"`
	Recursive       bool     `mapstructure:"recursive"`
	HearingImpaired bool     `mapstructure:"hearing_impaired"`
	Force           bool     `mapstructure:"force"`
	DryRun          bool     `mapstructure:"dry_run"`
	DelaySeconds    float64  `mapstructure:"delay_seconds"`

	Cache struct {
		Backend       string `mapstructure:"backend"` // "memory" or "redis"
		Size          int    `mapstructure:"size"`
		TTL           string `mapstructure:"ttl"` // Go duration string like "1h", "24h", etc.
		RedisAddress  string `mapstructure:"redis_address"`
		RedisPassword string `mapstructure:"redis_password"`
		RedisDB       int    `mapstructure:"redis_db"`
	} `mapstructure:"cache"`

	OpenSubtitles struct {
		APIKey   string `mapstructure:"api_key"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
	} `mapstructure:"opensubtitles"`

	// Root is the positional path argument; set by the CLI, never by viper.
	Root string `mapstructure:"-"`
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	// Console logger available before configuration is loaded.
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: false,
	}).With().Timestamp().Logger()
}

// LoadConfig reads the optional config file and environment variables.
// CLI flags are layered on top by the caller before Init.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variable support
	viper.AutomaticEnv()
	viper.SetEnvPrefix("SUBLIFY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Credential pair consumed at Provider Session construction; absence is
	// not an error, only a reduced-capability anonymous mode.
	_ = viper.BindEnv("opensubtitles.username", "OPENSUBTITLES_USERNAME")
	_ = viper.BindEnv("opensubtitles.password", "OPENSUBTITLES_PASSWORD")
	_ = viper.BindEnv("opensubtitles.api_key", "OPENSUBTITLES_API_KEY")
	_ = viper.BindEnv("log_level", "LOG_LEVEL")
	_ = viper.BindEnv("sentry_dsn", "SENTRY_DSN")

	// Set defaults
	viper.SetDefault("user_agent", DefaultUserAgent)
	viper.SetDefault("client_timeout", "30s")
	viper.SetDefault("providers", DefaultProviders)
	viper.SetDefault("min_score", 0.0)
	viper.SetDefault("retries", 1)
	viper.SetDefault("languages", []string{"en"})
	viper.SetDefault("delay_seconds", 0.0)
	viper.SetDefault("cache.backend", "memory")
	viper.SetDefault("cache.size", 100)
	viper.SetDefault("cache.ttl", "1h")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if len(config.Providers) == 0 {
		config.Providers = DefaultProviders
	}

	return &config, nil
}

// Init installs the resolved configuration and applies the log level.
func Init(config *Config) {
	level := zerolog.InfoLevel // default
	if config.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", config.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)
	globalConfig = config
}

// GetConfig returns the installed configuration, or nil before Init.
func GetConfig() *Config {
	return globalConfig
}

// GetLogger returns the process-wide logger.
func GetLogger() zerolog.Logger {
	return logger
}

// GetUserAgent returns the configured User-Agent string.
func GetUserAgent() string {
	if globalConfig != nil && globalConfig.UserAgent != "" {
		return globalConfig.UserAgent
	}

	return DefaultUserAgent
}

// Timeout returns the HTTP client timeout, defaulting to 30s on a bad value.
func (c *Config) Timeout() time.Duration {
	return parseDurationOr(c.ClientTimeout, 30*time.Second)
}

// CacheTTL returns the cache entry time-to-live, defaulting to one hour.
func (c *Config) CacheTTL() time.Duration {
	return parseDurationOr(c.Cache.TTL, time.Hour)
}

// Delay returns the pause between processed files.
func (c *Config) Delay() time.Duration {
	if c.DelaySeconds <= 0 {
		return 0
	}
	return time.Duration(c.DelaySeconds * float64(time.Second))
}

// HasCredentials reports whether an explicit OpenSubtitles credential pair
// was supplied.
func (c *Config) HasCredentials() bool {
	return c.OpenSubtitles.Username != "" && c.OpenSubtitles.Password != ""
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logger.Warn().Err(err).Str("duration", value).Msg("Invalid duration, using default")
		return fallback
	}
	return parsed
}
