package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. SHOPSCOUT_REDIS_HOST
const EnvPrefix = "SHOPSCOUT"

// Config holds all application configuration
type Config struct {
	App         AppConfig
	HTTP        HTTPConfig
	Log         LogConfig
	Redis       RedisConfig
	Database    DatabaseConfig
	Telemetry   TelemetryConfig
	Search      SearchConfig
	Marketplace MarketplaceConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MaxHeaderBytes    int
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSAllowOrigins  []string
	TrustedProxies    []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// DatabaseConfig holds the optional Postgres connection used for marketplace
// credential overrides and search history
type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
	SlowThreshold   time.Duration
	MigrationsPath  string
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	MetricsEnabled    bool
	LogsEnabled       bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	ExportInterval    time.Duration
}

// SearchConfig holds aggregator settings
type SearchConfig struct {
	DefaultLimit   int
	MaxLimit       int
	AdapterTimeout time.Duration
	MaxConcurrency int
	RankDecay      float64
	RequirePrice   bool
	CacheBackend   string // redis, memory, none
	CacheTTL       time.Duration
	CacheKeyPrefix string
	HistoryEnabled bool
	DebugEnabled   bool
}

// MarketplaceConfig holds one section per marketplace integration
type MarketplaceConfig struct {
	Taobao ProviderConfig
	Douyin ProviderConfig
	Ebay   ProviderConfig
	OLX    ProviderConfig
}

// ProviderConfig holds the settings shared by all marketplace integrations.
// Not every provider uses every credential field.
type ProviderConfig struct {
	Enabled        bool
	BaseURL        string
	APIKey         string
	APISecret      string
	Token          string
	AdzoneID       string
	DefaultCountry string
	DefaultCity    string
	Currency       string
	Timeout        time.Duration
	RateLimit      float64 // requests per second, 0 = unlimited
	RateBurst      int
}

var (
	ErrInvalidSearchLimits   = errors.New("config: search.default_limit must be positive and not exceed search.max_limit")
	ErrInvalidCacheBackend   = errors.New("config: search.cache_backend must be one of redis, memory, none")
	ErrInvalidRankDecay      = errors.New("config: search.rank_decay must be between 0 and 1")
	ErrInvalidAdapterTimeout = errors.New("config: search.adapter_timeout must be positive")
)

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with SHOPSCOUT_ prefix (e.g., SHOPSCOUT_REDIS_HOST)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	return LoadFrom(".", "/app")
}

// LoadFrom loads configuration searching the given directories for config.toml
func LoadFrom(paths ...string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Booleans that default to true cannot be defaulted after reading
	for _, name := range []string{"taobao", "douyin", "ebay", "olx"} {
		v.SetDefault("marketplace."+name+".enabled", true)
	}
	v.SetDefault("http.rate_limit_enabled", true)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:   v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Database: DatabaseConfig{
			Enabled:         v.GetBool("database.enabled"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
			LogLevel:        v.GetString("database.log_level"),
			SlowThreshold:   v.GetDuration("database.slow_threshold"),
			MigrationsPath:  v.GetString("database.migrations_path"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			ExportInterval:    v.GetDuration("telemetry.export_interval"),
		},
		Search: SearchConfig{
			DefaultLimit:   v.GetInt("search.default_limit"),
			MaxLimit:       v.GetInt("search.max_limit"),
			AdapterTimeout: v.GetDuration("search.adapter_timeout"),
			MaxConcurrency: v.GetInt("search.max_concurrency"),
			RankDecay:      v.GetFloat64("search.rank_decay"),
			RequirePrice:   v.GetBool("search.require_price"),
			CacheBackend:   strings.ToLower(v.GetString("search.cache_backend")),
			CacheTTL:       v.GetDuration("search.cache_ttl"),
			CacheKeyPrefix: v.GetString("search.cache_key_prefix"),
			HistoryEnabled: v.GetBool("search.history_enabled"),
			DebugEnabled:   v.GetBool("search.debug_enabled"),
		},
		Marketplace: MarketplaceConfig{
			Taobao: loadProvider(v, "taobao"),
			Douyin: loadProvider(v, "douyin"),
			Ebay:   loadProvider(v, "ebay"),
			OLX:    loadProvider(v, "olx"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadProvider(v *viper.Viper, name string) ProviderConfig {
	key := func(field string) string { return "marketplace." + name + "." + field }
	return ProviderConfig{
		Enabled:        v.GetBool(key("enabled")),
		BaseURL:        v.GetString(key("base_url")),
		APIKey:         v.GetString(key("api_key")),
		APISecret:      v.GetString(key("api_secret")),
		Token:          v.GetString(key("token")),
		AdzoneID:       v.GetString(key("adzone_id")),
		DefaultCountry: v.GetString(key("default_country")),
		DefaultCity:    v.GetString(key("default_city")),
		Currency:       v.GetString(key("currency")),
		Timeout:        v.GetDuration(key("timeout")),
		RateLimit:      v.GetFloat64(key("rate_limit")),
		RateBurst:      v.GetInt(key("rate_burst")),
	}
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "shopscout"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}

	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 15 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 60
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "shopscout"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 2
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = time.Hour
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn"
	}
	if cfg.Database.SlowThreshold == 0 {
		cfg.Database.SlowThreshold = 200 * time.Millisecond
	}
	if cfg.Database.MigrationsPath == "" {
		cfg.Database.MigrationsPath = "migrations"
	}

	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.ExportInterval == 0 {
		cfg.Telemetry.ExportInterval = 60 * time.Second
	}

	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 20
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 100
	}
	if cfg.Search.AdapterTimeout == 0 {
		cfg.Search.AdapterTimeout = 5 * time.Second
	}
	if cfg.Search.RankDecay == 0 {
		cfg.Search.RankDecay = 0.01
	}
	if cfg.Search.CacheBackend == "" {
		cfg.Search.CacheBackend = "redis"
	}
	if cfg.Search.CacheTTL == 0 {
		cfg.Search.CacheTTL = 10 * time.Minute
	}
	if cfg.Search.CacheKeyPrefix == "" {
		cfg.Search.CacheKeyPrefix = "shopscout:"
	}

	if cfg.Marketplace.Ebay.DefaultCountry == "" {
		cfg.Marketplace.Ebay.DefaultCountry = "US"
	}
	if cfg.Marketplace.OLX.DefaultCity == "" {
		cfg.Marketplace.OLX.DefaultCity = "warszawa"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Search.DefaultLimit <= 0 || c.Search.MaxLimit <= 0 || c.Search.DefaultLimit > c.Search.MaxLimit {
		return fmt.Errorf("%w: default=%d max=%d", ErrInvalidSearchLimits, c.Search.DefaultLimit, c.Search.MaxLimit)
	}
	if c.Search.AdapterTimeout < 0 {
		return ErrInvalidAdapterTimeout
	}
	if c.Search.RankDecay < 0 || c.Search.RankDecay > 1 {
		return fmt.Errorf("%w, got %f", ErrInvalidRankDecay, c.Search.RankDecay)
	}
	switch c.Search.CacheBackend {
	case "redis", "memory", "none":
	default:
		return fmt.Errorf("%w, got %q", ErrInvalidCacheBackend, c.Search.CacheBackend)
	}
	if c.Search.MaxConcurrency < 0 {
		return fmt.Errorf("search.max_concurrency cannot be negative")
	}

	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Search.HistoryEnabled && !c.Database.Enabled {
		return fmt.Errorf("search.history_enabled requires database.enabled")
	}

	if c.App.Env == "production" {
		if c.Database.Enabled && c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// IsProduction reports whether the app runs in production
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}
