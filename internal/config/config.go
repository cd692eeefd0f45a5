package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Feed     FeedConfig     `mapstructure:"feed"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// ServerConfig holds settings for the feed-serving HTTP endpoint
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// FeedConfig holds feed generation settings
type FeedConfig struct {
	ShopName     string `mapstructure:"shop_name"`
	CompanyName  string `mapstructure:"company_name"`
	DomainSuffix string `mapstructure:"domain_suffix"`
	FeedsDir     string `mapstructure:"feeds_dir"`
	CityID       int    `mapstructure:"city_id"`

	// PageSize bounds how many products one store query may return.
	PageSize int `mapstructure:"page_size"`
	// PagesPerSecond paces page queries against the store; 0 disables pacing.
	PagesPerSecond int `mapstructure:"pages_per_second"`
	// ProgressInterval is how many offers pass between progress reports.
	ProgressInterval int `mapstructure:"progress_interval"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// RedisConfig holds Redis connection details. An empty host disables the
// redis-backed progress reporter.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config.yaml file not found in current directory")
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "localhost")

	viper.SetDefault("feed.shop_name", "")
	viper.SetDefault("feed.company_name", "")
	viper.SetDefault("feed.domain_suffix", "")
	viper.SetDefault("feed.feeds_dir", "./feeds")
	viper.SetDefault("feed.city_id", 0)
	viper.SetDefault("feed.page_size", 1000)
	viper.SetDefault("feed.pages_per_second", 0)
	viper.SetDefault("feed.progress_interval", 10000)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "catalog")
	viper.SetDefault("database.user", "catalog_user")
	viper.SetDefault("database.password", "catalog_pass")

	viper.SetDefault("redis.host", "")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.database", 0)
}
