package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NeuralTrust/TrustBatch/pkg/app/debouncer"
	"github.com/NeuralTrust/TrustBatch/pkg/app/notification"
	"github.com/NeuralTrust/TrustBatch/pkg/ratelimit"
	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Server        ServerConfig           `mapstructure:"server"`
	Metrics       MetricsConfig          `mapstructure:"metrics"`
	Database      DatabaseConfig         `mapstructure:"database"`
	Redis         RedisConfig            `mapstructure:"redis"`
	Debouncer     debouncer.Config       `mapstructure:"debouncer"`
	RateLimit     ratelimit.Config       `mapstructure:"rate_limit"`
	Telemetry     TelemetryConfig        `mapstructure:"telemetry"`
	Kafka         map[string]interface{} `mapstructure:"kafka"`
	Delivery      DeliveryConfig         `mapstructure:"delivery"`
	Notifications NotificationsConfig    `mapstructure:"notifications"`
}

type ServerConfig struct {
	AdminPort    int    `mapstructure:"admin_port"`
	MetricsPort  int    `mapstructure:"metrics_port"`
	Host         string `mapstructure:"host"`
	SecretKey    string `mapstructure:"secret_key"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes"`
}

type MetricsConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	EnableProcess bool `mapstructure:"enable_process"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"name"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

type TelemetryConfig struct {
	Topic      string        `mapstructure:"topic"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
	MaxEvents  int           `mapstructure:"max_events"`
}

type DeliveryConfig struct {
	Driver             string        `mapstructure:"driver"`
	BreakerTimeout     time.Duration `mapstructure:"breaker_timeout"`
	BreakerMaxFailures uint32        `mapstructure:"breaker_max_failures"`
}

type NotificationsConfig struct {
	Topic      string                  `mapstructure:"topic"`
	Categories []notification.Category `mapstructure:"categories"`
}

var globalConfig Config

// Load reads config.yaml from configPath (or ./config, .) and applies
// environment overrides such as SERVER_ADMIN_PORT.
func Load(configPath string) error {
	cfg, err := loadConfigFile(configPath, "config")
	if err != nil {
		return fmt.Errorf("could not load main config file: %w", err)
	}
	globalConfig = *cfg
	return nil
}

func loadConfigFile(configPath, fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("config file %s.yaml not found: %w", fileName, err)
		}
		return nil, fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
	}

	var out Config
	if err := v.Unmarshal(&out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}
	setDefaultValues(&out)
	if err := out.validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

func setDefaultValues(c *Config) {
	if c.Server.AdminPort == 0 {
		c.Server.AdminPort = 8080
	}
	if c.Server.MetricsPort == 0 {
		c.Server.MetricsPort = 9090
	}
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = 1 << 20
	}
	if c.Database.Driver == "" {
		c.Database.Driver = StoreDriverPostgres
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.RateLimit == (ratelimit.Config{}) {
		c.RateLimit = ratelimit.DefaultConfig()
	}
	if c.Delivery.Driver == "" {
		c.Delivery.Driver = "log"
	}
	if c.Notifications.Topic == "" {
		c.Notifications.Topic = notification.DefaultTopic
	}
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("unknown database driver: %s", c.Database.Driver)
	}
	if err := c.RateLimit.Validate(); err != nil {
		return err
	}
	for _, category := range c.Notifications.Categories {
		if category.Name == "" {
			return errors.New("notification category without name")
		}
		if err := category.Timing.Validate(); err != nil {
			return fmt.Errorf("notification category %s: %w", category.Name, err)
		}
	}
	return nil
}

func GetConfig() *Config {
	return &globalConfig
}
