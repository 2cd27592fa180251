package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	API      APIConfig      `yaml:"api"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	NATS     NATSConfig     `yaml:"nats"`
	JWT      JWTConfig      `yaml:"jwt"`
	Log      LogConfig      `yaml:"log"`
	Tenant   TenantConfig   `yaml:"tenant"`
	Cart     CartConfig     `yaml:"cart"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// APIConfig represents API configuration
type APIConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// RedisConfig represents Redis configuration
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// NATSConfig represents NATS configuration
type NATSConfig struct {
	URL               string        `yaml:"url"`
	Username          string        `yaml:"username"`
	Password          string        `yaml:"password"`
	MaxReconnects     int           `yaml:"max_reconnects"`
	ReconnectInterval time.Duration `yaml:"reconnect_interval"`
}

// JWTConfig represents JWT configuration
type JWTConfig struct {
	Secret          string        `yaml:"secret"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TenantConfig represents tenant-resolution configuration
type TenantConfig struct {
	// Host suffixes that identify a platform subdomain, e.g. "myshops.app".
	PlatformDomains []string `yaml:"platform_domains"`
	// First labels that never resolve to a tenant slug.
	ReservedLabels []string `yaml:"reserved_labels"`
	// Base URL of the tenant lookup API used by the resolver client.
	LookupURL string `yaml:"lookup_url"`
	// Lookup request timeout.
	LookupTimeout time.Duration `yaml:"lookup_timeout"`
	// How long a resolved config is kept before re-fetching.
	CacheTTL time.Duration `yaml:"cache_ttl"`
	// Fallbacks applied when a tenant record leaves regional rules unset.
	DefaultDecimalPlaces int    `yaml:"default_decimal_places"`
	DefaultThousandsSep  string `yaml:"default_thousands_sep"`
	DefaultDecimalSep    string `yaml:"default_decimal_sep"`
	DefaultWorkdays      []int  `yaml:"default_workdays"`
}

// CartConfig represents cart persistence configuration
type CartConfig struct {
	KeyPrefix string        `yaml:"key_prefix"`
	TTL       time.Duration `yaml:"ttl"`
}

// Load loads configuration from file
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.validateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides
func (c *Config) applyEnvOverrides() {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		c.Database.DSN = dsn
	}

	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		c.Redis.Addr = redisAddr
	}

	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		c.NATS.URL = natsURL
	}

	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		c.JWT.Secret = jwtSecret
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Log.Level = logLevel
	}

	if lookupURL := os.Getenv("TENANT_API_URL"); lookupURL != "" {
		c.Tenant.LookupURL = lookupURL
	}

	if domains := os.Getenv("PLATFORM_DOMAINS"); domains != "" {
		c.Tenant.PlatformDomains = splitAndTrim(domains)
	}
}

// validateAndSetDefaults validates the configuration and fills defaults
func (c *Config) validateAndSetDefaults() error {
	if len(c.Tenant.PlatformDomains) == 0 {
		c.Tenant.PlatformDomains = []string{"myshops.app", "myshops.dev"}
	}
	if len(c.Tenant.ReservedLabels) == 0 {
		c.Tenant.ReservedLabels = []string{"www", "api"}
	}
	if c.Tenant.LookupTimeout == 0 {
		c.Tenant.LookupTimeout = 10 * time.Second
	}
	if c.Tenant.CacheTTL == 0 {
		c.Tenant.CacheTTL = 5 * time.Minute
	}

	if c.Tenant.DefaultThousandsSep == "" {
		c.Tenant.DefaultThousandsSep = "."
	}
	if c.Tenant.DefaultDecimalSep == "" {
		c.Tenant.DefaultDecimalSep = ","
	}
	if c.Tenant.DefaultThousandsSep == c.Tenant.DefaultDecimalSep {
		return fmt.Errorf("thousands and decimal separators must differ (both %q)",
			c.Tenant.DefaultThousandsSep)
	}
	if len(c.Tenant.DefaultWorkdays) == 0 {
		// Monday through Friday, Monday-first encoding.
		c.Tenant.DefaultWorkdays = []int{0, 1, 2, 3, 4}
	}
	for _, d := range c.Tenant.DefaultWorkdays {
		if d < 0 || d > 6 {
			return fmt.Errorf("invalid workday %d, must be 0..6", d)
		}
	}

	if c.Cart.KeyPrefix == "" {
		c.Cart.KeyPrefix = "cart"
	}
	if c.Cart.TTL == 0 {
		// Carts span browser sessions; keep them for a month of inactivity.
		c.Cart.TTL = 30 * 24 * time.Hour
	}

	if c.JWT.AccessTokenTTL == 0 {
		c.JWT.AccessTokenTTL = 15 * time.Minute
	}
	if c.JWT.RefreshTokenTTL == 0 {
		c.JWT.RefreshTokenTTL = 7 * 24 * time.Hour
	}

	return nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
