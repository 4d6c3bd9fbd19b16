package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string          `mapstructure:"environment"`
	LogLevel    string          `mapstructure:"log_level"`
	Server      ServerConfig    `mapstructure:"server"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Redis       RedisConfig     `mapstructure:"redis"`
	ChainData   ChainDataConfig `mapstructure:"chain_data"`
	Telegram    TelegramConfig  `mapstructure:"telegram"`
	Analysis    AnalysisConfig  `mapstructure:"analysis"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ChainDataConfig points at the external option-chain data service. When
// UseSimulator is set, a synthetic chain source replaces the HTTP client
// (development and tests).
type ChainDataConfig struct {
	ServiceURL    string `mapstructure:"service_url"`
	Timeout       int    `mapstructure:"timeout"`
	UseSimulator  bool   `mapstructure:"use_simulator"`
	SimulatorSeed int64  `mapstructure:"simulator_seed"`
}

type TelegramConfig struct {
	BotToken string  `mapstructure:"bot_token"`
	ChatIDs  []int64 `mapstructure:"chat_ids"`
}

// AnalysisConfig controls the analysis run: which symbols to walk, the
// fallback VIX figure when the caller supplies none, cache TTL and how much
// verdict history the API serves.
type AnalysisConfig struct {
	Symbols      []string `mapstructure:"symbols"`
	DefaultVIX   float64  `mapstructure:"default_vix"`
	CacheTTL     string   `mapstructure:"cache_ttl"`
	HistoryLimit int      `mapstructure:"history_limit"`
}

// CacheTTLDuration parses the configured cache TTL, falling back to five
// minutes on a bad value.
func (a AnalysisConfig) CacheTTLDuration() time.Duration {
	d, err := time.ParseDuration(a.CacheTTL)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind TELEGRAM_BOT_TOKEN environment variable: %w", err)
	}

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Environment = strings.ToLower(config.Environment)

	if config.Analysis.HistoryLimit <= 0 {
		return nil, fmt.Errorf("analysis.history_limit must be positive, got %d", config.Analysis.HistoryLimit)
	}
	if _, err := time.ParseDuration(config.Analysis.CacheTTL); err != nil {
		return nil, fmt.Errorf("invalid analysis.cache_ttl: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "optionpulse")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_open_conns", 25)

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("chain_data.service_url", "http://localhost:3001")
	viper.SetDefault("chain_data.timeout", 30)
	viper.SetDefault("chain_data.use_simulator", false)
	viper.SetDefault("chain_data.simulator_seed", 0)

	viper.SetDefault("telegram.bot_token", "")
	viper.SetDefault("telegram.chat_ids", []int64{})

	viper.SetDefault("analysis.symbols", []string{"NIFTY", "BANKNIFTY"})
	viper.SetDefault("analysis.default_vix", 15.0)
	viper.SetDefault("analysis.cache_ttl", "5m")
	viper.SetDefault("analysis.history_limit", 30)
}
