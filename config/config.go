package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Environment   string              `mapstructure:"environment"`
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Store         StoreConfig         `mapstructure:"store"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Kitchen       KitchenConfig       `mapstructure:"kitchen"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Display       DisplayConfig       `mapstructure:"display"`
	ChangeFeed    ChangeFeedConfig    `mapstructure:"changefeed"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Mail          MailConfig          `mapstructure:"mail"`
	Reports       ReportsConfig       `mapstructure:"reports"`
	Log           LogConfig           `mapstructure:"log"`
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	TrustedProxies []string `mapstructure:"trusted_proxies"`
	CorsOrigin     string   `mapstructure:"cors_origin"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type StoreConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type KitchenConfig struct {
	PollInterval        time.Duration `mapstructure:"poll_interval"`
	DelayedAfterMinutes int           `mapstructure:"delayed_after_minutes"`
}

type NotificationsConfig struct {
	Capacity int `mapstructure:"capacity"`
}

type DisplayConfig struct {
	Timezone       string `mapstructure:"timezone"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
}

// Location resolves the display timezone, falling back to UTC.
func (d DisplayConfig) Location() *time.Location {
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type ChangeFeedConfig struct {
	Driver       string        `mapstructure:"driver"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Channel      string        `mapstructure:"channel"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MailConfig struct {
	ResendAPIKey string `mapstructure:"resend_api_key"`
	From         string `mapstructure:"from"`
}

type ReportsConfig struct {
	// Schedule is a daily "HH:MM" time in the display timezone; empty disables it.
	Schedule      string   `mapstructure:"schedule"`
	Recipients    []string `mapstructure:"recipients"`
	ArchiveBucket string   `mapstructure:"archive_bucket"`
	ArchiveRegion string   `mapstructure:"archive_region"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads .env, then config.yaml from path, then RESTO_* variables.
func LoadConfig(path string) (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.AddConfigPath("./config")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("RESTO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.ChangeFeed.Driver {
	case "db", "redis":
	default:
		return fmt.Errorf("unsupported changefeed driver %q", c.ChangeFeed.Driver)
	}
	if c.Environment == "production" && c.Auth.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("auth.jwt_secret must be set in production")
	}
	if c.Store.Timeout <= 0 {
		return fmt.Errorf("store.timeout must be positive")
	}
	return nil
}

const defaultJWTSecret = "dev-secret-change-me"

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.trusted_proxies", []string{"127.0.0.1"})
	v.SetDefault("server.cors_origin", "*")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "restaurant.db")

	v.SetDefault("store.timeout", "10s")

	v.SetDefault("auth.jwt_secret", defaultJWTSecret)
	v.SetDefault("auth.token_ttl", "24h")

	v.SetDefault("kitchen.poll_interval", "10s")
	v.SetDefault("kitchen.delayed_after_minutes", 20)

	v.SetDefault("notifications.capacity", 50)

	v.SetDefault("display.timezone", "Europe/Madrid")
	v.SetDefault("display.currency_symbol", "€")

	v.SetDefault("changefeed.driver", "db")
	v.SetDefault("changefeed.poll_interval", "1s")
	v.SetDefault("changefeed.channel", "orders:changes")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("mail.resend_api_key", "")
	v.SetDefault("mail.from", "reports@restaurant.local")

	v.SetDefault("reports.schedule", "")
	v.SetDefault("reports.recipients", []string{})
	v.SetDefault("reports.archive_bucket", "")
	v.SetDefault("reports.archive_region", "eu-west-1")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}
