package config

import (
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server         ServerConfig     `yaml:"server"`
	Database       DatabaseConfig   `yaml:"database"`
	Redis          RedisConfig      `yaml:"redis"`
	Session        SessionConfig    `yaml:"session"`
	Rental         RentalConfig     `yaml:"rental"`
	Push           PushConfig       `yaml:"push"`
	WorkerPool     WorkerPoolConfig `yaml:"worker_pool"`
	Telemetry      TelemetryConfig  `yaml:"telemetry"`
	BootstrapAdmin BootstrapAdmin   `yaml:"bootstrap_admin"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	RateLimitPerSec float64  `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int      `yaml:"rate_limit_burst"`
	CacheTTLSeconds int      `yaml:"cache_ttl_seconds"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // postgres | sqlite
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogSQL                 bool   `yaml:"log_sql"`
}

// RedisConfig points at the session backend. An empty Addr keeps sessions in memory.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// SessionConfig controls the login session cookie.
type SessionConfig struct {
	CookieName string        `yaml:"cookie_name"`
	TTLHours   int           `yaml:"ttl_hours"`
	TTL        time.Duration `yaml:"-"`
	Secure     bool          `yaml:"secure"`
}

// RentalConfig tunes the rental lifecycle rules.
type RentalConfig struct {
	Timezone                string `yaml:"timezone"`
	AuditCheckOut           bool   `yaml:"audit_check_out"`
	SingleRentalPerBorrower bool   `yaml:"single_rental_per_borrower"`
	FallbackActor           string `yaml:"fallback_actor"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// Enabled reports whether both VAPID keys are present.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// TelemetryConfig enables OTLP trace export when Endpoint is set.
type TelemetryConfig struct {
	Endpoint    string `yaml:"otlp_endpoint"`
	Insecure    bool   `yaml:"insecure"`
	ServiceName string `yaml:"service_name"`
}

// BootstrapAdmin is created on startup when the user table is empty.
type BootstrapAdmin struct {
	EmployeeID string `yaml:"employee_id"`
	Name       string `yaml:"name"`
	Password   string `yaml:"password"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// applyEnv lets secrets and endpoints come from the environment instead of the file.
func (c *Config) applyEnv() {
	override := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	override(&c.Database.Driver, "DATABASE_DRIVER")
	override(&c.Database.DSN, "DATABASE_DSN")
	override(&c.Redis.Addr, "REDIS_ADDR")
	override(&c.Redis.Password, "REDIS_PASSWORD")
	override(&c.Push.PublicKey, "VAPID_PUBLIC_KEY")
	override(&c.Push.PrivateKey, "VAPID_PRIVATE_KEY")
	override(&c.BootstrapAdmin.Password, "BOOTSTRAP_ADMIN_PASSWORD")
	override(&c.Telemetry.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func (c *Config) applyDefaults() {
	if c.Server.Port <= 0 {
		c.Server.Port = 8080
	}
	if c.Server.RateLimitPerSec <= 0 {
		c.Server.RateLimitPerSec = 10
	}
	if c.Server.RateLimitBurst <= 0 {
		c.Server.RateLimitBurst = 5
	}
	if c.Server.CacheTTLSeconds <= 0 {
		c.Server.CacheTTLSeconds = 30
	}

	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}

	if c.Session.CookieName == "" {
		c.Session.CookieName = "lending_session"
	}
	if c.Session.TTLHours <= 0 {
		c.Session.TTLHours = 24
	}
	c.Session.TTL = time.Duration(c.Session.TTLHours) * time.Hour

	if c.Rental.Timezone == "" {
		c.Rental.Timezone = "Local"
	}
	if c.Rental.FallbackActor == "" {
		c.Rental.FallbackActor = "system"
	}

	if c.Push.TTL <= 0 {
		c.Push.TTL = 3600
	}

	if c.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		c.WorkerPool.Size = 1
	}

	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = "device-lending-backend"
	}
}

// Location resolves the rental timezone used to decide what "today" is.
func (r RentalConfig) Location() (*time.Location, error) {
	return time.LoadLocation(r.Timezone)
}
