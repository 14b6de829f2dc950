package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultUserAgent is the default User-Agent string sent with all upstream requests.
const DefaultUserAgent = "ShowFinder/1.0 (+https://github.com/Belphemur/ShowFinder)"

// DefaultAPIURL is the public TVmaze API root.
const DefaultAPIURL = "https://api.tvmaze.com"

type Config struct {
	ProxyConnectionString string `mapstructure:"proxy_connection_string"`
	APIURL                string `mapstructure:"api_url"`
	ClientTimeout         string `mapstructure:"client_timeout"` // Go duration string like "30s", "1m", etc.
	UserAgent             string `mapstructure:"user_agent"`
	Server                struct {
		Port    int    `mapstructure:"port"`
		Address string `mapstructure:"address"`
	} `mapstructure:"server"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  struct {
		Path       string `mapstructure:"path"` // empty disables file output
		MaxSizeMB  int    `mapstructure:"max_size_mb"`
		MaxBackups int    `mapstructure:"max_backups"`
	} `mapstructure:"log_file"`
	Cache struct {
		Provider string `mapstructure:"provider"` // "memory" or "redis"
		Size     int    `mapstructure:"size"`     // Maximum number of cached upstream responses
		TTL      string `mapstructure:"ttl"`      // Empty or zero disables the response cache
		Redis    struct {
			Address  string `mapstructure:"address"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"cache"`
	Sessions struct {
		Size int    `mapstructure:"size"`
		TTL  string `mapstructure:"ttl"`
	} `mapstructure:"sessions"`
	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"metrics"`
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
	logger = zerolog.New(newLogWriter(config)).Level(level).With().Timestamp().Logger()

	logger.Info().Str("level", level.String()).Msg("Logging configured")
	globalConfig = config
	logger.Info().Msg("Configuration loaded successfully")
}

// newLogWriter returns the console writer, teed into a rotating file when log_file.path is set.
func newLogWriter(cfg *Config) io.Writer {
	console := zerolog.ConsoleWriter{Out: os.Stdout}
	if cfg.LogFile.Path == "" {
		return console
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.LogFile.Path,
		MaxSize:    cfg.LogFile.MaxSizeMB,
		MaxBackups: cfg.LogFile.MaxBackups,
		LocalTime:  true,
	}
	return io.MultiWriter(console, rotator)
}

func LoadConfig() (*Config, error) {
	// A missing .env is the common case.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = viper.BindEnv("log_level", "LOG_LEVEL")
	_ = viper.BindEnv("sentry.dsn", "SENTRY_DSN")

	viper.SetDefault("api_url", DefaultAPIURL)
	viper.SetDefault("client_timeout", "30s")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.address", "0.0.0.0")
	viper.SetDefault("log_file.max_size_mb", 10)
	viper.SetDefault("log_file.max_backups", 5)
	viper.SetDefault("cache.provider", "memory")
	viper.SetDefault("cache.size", 256)
	viper.SetDefault("cache.ttl", "")
	viper.SetDefault("sessions.size", 1024)
	viper.SetDefault("sessions.ttl", "30m")
	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.port", 9090)

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
	if config.APIURL == "" {
		config.APIURL = DefaultAPIURL
	}
	config.APIURL = strings.TrimRight(config.APIURL, "/")

	return &config, nil
}

// ParseDuration parses a Go duration string from the config, logging and
// returning fallback when the value is empty or invalid.
func ParseDuration(key, value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Str("value", value).Dur("fallback", fallback).Msg("Invalid duration, using fallback")
		return fallback
	}
	return parsed
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
