package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/cypherlabdev/prediction-tracker-service/internal/models"
)

// Config holds all configuration for prediction-tracker-service
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Kafka   KafkaConfig   `mapstructure:"kafka"`
	Redis   RedisConfig   `mapstructure:"redis"`
	VIP     VIPConfig     `mapstructure:"vip"`
	Query   QueryConfig   `mapstructure:"query"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"` // Topic to consume from (vip_payments)
	GroupID string   `mapstructure:"group_id"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	ReferenceTTL time.Duration `mapstructure:"reference_ttl"` // How long applied payment references are remembered
}

// VIPConfig holds subscription pricing
type VIPConfig struct {
	YearlyAmount  float64 `mapstructure:"yearly_amount"`
	MonthlyAmount float64 `mapstructure:"monthly_amount"`
}

// QueryConfig holds outcome listing defaults
type QueryConfig struct {
	DefaultDaysBack int `mapstructure:"default_days_back"`
	DatesLimit      int `mapstructure:"dates_limit"`
}

// CORSConfig holds cross-origin settings
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "vip_payments")
	v.SetDefault("kafka.group_id", "prediction-tracker")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.reference_ttl", 30*24*time.Hour)

	v.SetDefault("vip.yearly_amount", 50000)
	v.SetDefault("vip.monthly_amount", 5000)

	v.SetDefault("query.default_days_back", 30)
	v.SetDefault("query.dates_limit", 30)

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Override with environment variables
	v.SetEnvPrefix("PREDICTION_TRACKER")
	v.AutomaticEnv()
	// Replace . with _ for environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Unmarshal to struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.VIP.YearlyAmount <= 0 || config.VIP.MonthlyAmount <= 0 {
		return nil, fmt.Errorf("vip amounts must be positive")
	}

	return &config, nil
}

// ToPlan converts the configured prices to a subscription plan
func (c *VIPConfig) ToPlan() models.SubscriptionPlan {
	return models.SubscriptionPlan{
		YearlyAmount:  decimal.NewFromFloat(c.YearlyAmount),
		MonthlyAmount: decimal.NewFromFloat(c.MonthlyAmount),
	}
}
