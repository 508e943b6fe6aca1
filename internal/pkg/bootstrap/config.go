// internal/pkg/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration shared by every binary.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Infra    InfraConfig    `yaml:"infra"`
	Platform PlatformConfig `yaml:"platform"`
	Auth     AuthConfig     `yaml:"auth"`
	Sweep    SweepConfig    `yaml:"sweep"`
}

type AppConfig struct {
	Name          string `yaml:"name"`
	Port          int    `yaml:"port"`
	LogLevel      string `yaml:"logLevel"`
	PublicBaseURL string `yaml:"publicBaseURL"`
	AdminEmail    string `yaml:"adminEmail"`
	Timezone      string `yaml:"timezone"`

	// Visitor access fee and the share of it credited to the referring partner.
	VisitorFee     float64 `yaml:"visitorFee"`
	CommissionRate float64 `yaml:"commissionRate"`

	PollInterval      time.Duration `yaml:"pollInterval"`
	MessagesPerMinute int64         `yaml:"messagesPerMinute"`

	// ListingVisibility is a CEL expression evaluated against every listing
	// served to someone other than its owner.
	ListingVisibility string `yaml:"listingVisibility"`

	FeatureFlags FeatureFlags `yaml:"featureFlags"`
}

type FeatureFlags struct {
	WelcomeEmail      bool `yaml:"welcomeEmail"`
	AdminSignupNotice bool `yaml:"adminSignupNotice"`
	MessageEmail      bool `yaml:"messageEmail"`
}

type InfraConfig struct {
	MySQL      MySQLConfig     `yaml:"mysql"`
	SQLitePath string          `yaml:"sqlitePath"`
	Redis      RedisConfig     `yaml:"redis"`
	Kafka      KafkaConfig     `yaml:"kafka"`
	Jaeger     JaegerConfig    `yaml:"jaeger"`
	Zookeeper  ZookeeperConfig `yaml:"zookeeper"`
	Nacos      NacosConfig     `yaml:"nacos"`
}

type MySQLConfig struct {
	Addr     string `yaml:"addr"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RedisConfig struct {
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
}

type JaegerConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type ZookeeperConfig struct {
	Servers []string      `yaml:"servers"`
	Timeout time.Duration `yaml:"timeout"`
}

type NacosConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Addrs     string `yaml:"addrs"`
	Namespace string `yaml:"namespace"`
	Group     string `yaml:"group"`
}

// PlatformConfig points at the hosted backend functions (uploads, checkout, e-mail).
type PlatformConfig struct {
	BaseURL string        `yaml:"baseURL"`
	APIKey  string        `yaml:"apiKey"`
	Timeout time.Duration `yaml:"timeout"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwtSecret"`
	Issuer    string `yaml:"issuer"`
}

type SweepConfig struct {
	Interval time.Duration `yaml:"interval"`
	LockName string        `yaml:"lockName"`
}

const defaultVisibility = `listing.status == "active" && (!listing.has_expiry || listing.expires_on >= today)`

// DefaultConfig mirrors configs/config.yaml for local development.
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:              "alpha-se",
			Port:              8080,
			LogLevel:          "info",
			PublicBaseURL:     "https://alpha-se.com.br",
			AdminEmail:        "contato@alpha-se.com.br",
			Timezone:          "America/Sao_Paulo",
			VisitorFee:        9.90,
			CommissionRate:    0.10,
			PollInterval:      5 * time.Second,
			MessagesPerMinute: 30,
			ListingVisibility: defaultVisibility,
			FeatureFlags: FeatureFlags{
				WelcomeEmail:      true,
				AdminSignupNotice: true,
				MessageEmail:      true,
			},
		},
		Infra: InfraConfig{
			MySQL:     MySQLConfig{Addr: "localhost:3306", User: "root", Database: "alphase"},
			Redis:     RedisConfig{Addrs: []string{"localhost:6379"}},
			Kafka:     KafkaConfig{Brokers: []string{"localhost:9092"}},
			Jaeger:    JaegerConfig{Endpoint: "http://localhost:14268/api/traces"},
			Zookeeper: ZookeeperConfig{Servers: []string{"localhost:2181"}, Timeout: 10 * time.Second},
			Nacos:     NacosConfig{Addrs: "localhost:8848", Group: "DEFAULT_GROUP"},
		},
		Platform: PlatformConfig{Timeout: 15 * time.Second},
		Auth:     AuthConfig{JWTSecret: placeholderSecret, Issuer: "alpha-se-platform"},
		Sweep:    SweepConfig{Interval: time.Hour, LockName: "expiry-sweeper"},
	}
}

// LoadConfig reads the YAML file at path (if present) over the defaults and
// then applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// placeholderSecret is only accepted in SQLite dev mode.
const placeholderSecret = "change-me"

// Validate rejects configurations that would make the money math or the
// listing policy meaningless, and a placeholder JWT secret outside dev mode.
func (c *Config) Validate() error {
	if c.App.CommissionRate < 0 || c.App.CommissionRate > 1 {
		return fmt.Errorf("app.commissionRate must be within [0,1], got %v", c.App.CommissionRate)
	}
	if c.App.VisitorFee < 0 {
		return fmt.Errorf("app.visitorFee must not be negative")
	}
	if secret := strings.TrimSpace(c.Auth.JWTSecret); (secret == "" || secret == placeholderSecret) && c.Infra.SQLitePath == "" {
		return fmt.Errorf("auth.jwtSecret must be set (AUTH_JWT_SECRET) unless infra.sqlitePath is set")
	}
	if strings.TrimSpace(c.App.ListingVisibility) == "" {
		c.App.ListingVisibility = defaultVisibility
	}
	if c.App.PollInterval <= 0 {
		c.App.PollInterval = 5 * time.Second
	}
	return nil
}

// Location returns the configured time zone used for calendar-day comparisons.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func applyEnv(c *Config) {
	c.App.Port = getEnvInt("APP_PORT", c.App.Port)
	c.App.LogLevel = getEnv("LOG_LEVEL", c.App.LogLevel)
	c.App.PublicBaseURL = getEnv("PUBLIC_BASE_URL", c.App.PublicBaseURL)
	c.Infra.MySQL.Addr = getEnv("MYSQL_ADDR", c.Infra.MySQL.Addr)
	c.Infra.MySQL.User = getEnv("MYSQL_USER", c.Infra.MySQL.User)
	c.Infra.MySQL.Password = getEnv("MYSQL_PASSWORD", c.Infra.MySQL.Password)
	c.Infra.MySQL.Database = getEnv("MYSQL_DATABASE", c.Infra.MySQL.Database)
	c.Infra.SQLitePath = getEnv("SQLITE_PATH", c.Infra.SQLitePath)
	c.Infra.Redis.Addrs = getEnvList("REDIS_ADDRS", c.Infra.Redis.Addrs)
	c.Infra.Redis.Password = getEnv("REDIS_PASSWORD", c.Infra.Redis.Password)
	c.Infra.Kafka.Brokers = getEnvList("KAFKA_BROKERS", c.Infra.Kafka.Brokers)
	c.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", c.Infra.Jaeger.Endpoint)
	c.Infra.Zookeeper.Servers = getEnvList("ZOOKEEPER_SERVERS", c.Infra.Zookeeper.Servers)
	c.Infra.Nacos.Addrs = getEnv("NACOS_SERVER_ADDRS", c.Infra.Nacos.Addrs)
	c.Infra.Nacos.Namespace = getEnv("NACOS_NAMESPACE", c.Infra.Nacos.Namespace)
	c.Infra.Nacos.Group = getEnv("NACOS_GROUP", c.Infra.Nacos.Group)
	c.Platform.BaseURL = getEnv("PLATFORM_BASE_URL", c.Platform.BaseURL)
	c.Platform.APIKey = getEnv("PLATFORM_API_KEY", c.Platform.APIKey)
	c.Auth.JWTSecret = getEnv("AUTH_JWT_SECRET", c.Auth.JWTSecret)
}

// getEnv reads a configuration value from the environment.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
