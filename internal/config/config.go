package config

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type (
	// Config holds configuration settings for the orchestration service
	Config struct {
		// API Server
		APIHost         string        `yaml:"api_host"`
		APIPort         int           `yaml:"api_port"`
		LogLevel        string        `yaml:"log_level"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

		Upstreams Upstreams      `yaml:"upstreams"`
		OrderLog  OrderLogConfig `yaml:"order_log"`
		Claims    ClaimsConfig   `yaml:"claims"`
	}

	// Upstreams locates the REST services the flows call
	Upstreams struct {
		PhonebookURL string        `yaml:"phonebook_url"`
		PostalURL    string        `yaml:"postal_url"`
		CatalogURL   string        `yaml:"catalog_url"`
		OrderLogURL  string        `yaml:"order_log_url"`
		Timeout      time.Duration `yaml:"timeout"`

		// Sentinels the first call of each flow is compared against
		NotFoundMessage    string `yaml:"not_found_message"`
		OrderPlacedMessage string `yaml:"order_placed_message"`
	}

	// OrderLogConfig selects where placed orders are recorded
	OrderLogConfig struct {
		Sink          string `yaml:"sink"`
		RedisAddr     string `yaml:"redis_addr"`
		RedisPassword string `yaml:"redis_password"`
		RedisDB       int    `yaml:"redis_db"`
		RedisStream   string `yaml:"redis_stream"`
		BucketURL     string `yaml:"bucket_url"`
		BucketPrefix  string `yaml:"bucket_prefix"`
	}

	// ClaimsConfig holds the per-type claim limits
	ClaimsConfig struct {
		Limits map[string]float64 `yaml:"limits"`
	}
)

const (
	SinkHTTP  = "http"
	SinkRedis = "redis"
	SinkBlob  = "blob"
	SinkNone  = "none"
)

const (
	DefaultAPIHost         = "0.0.0.0"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultUpstreamTimeout = 30 * time.Second
	MaxTCPPort             = 65535

	DefaultGatewayURL  = "http://localhost:9080"
	DefaultPostalURL   = "http://api.zippopotam.us"
	DefaultNotFound    = "SPECIFIED PERSON WAS NOT FOUND"
	DefaultOrderPlaced = "ORDER SUCCESSFULLY PLACED"

	DefaultRedisAddr    = "localhost:6379"
	DefaultRedisStream  = "orchestrate:orders"
	DefaultBucketPrefix = "orders"

	claimLimitPrefix = "CLAIM_LIMIT_"
)

var (
	ErrInvalidAPIPort         = errors.New("invalid API port")
	ErrInvalidShutdownTimeout = errors.New("shutdown timeout must be positive")
	ErrInvalidUpstreamTimeout = errors.New(
		"upstream timeout cannot be negative",
	)
	ErrInvalidUpstreamURL = errors.New("invalid upstream URL")
	ErrInvalidSink        = errors.New("invalid order log sink")
	ErrRedisAddrRequired  = errors.New("order log redis address is required")
	ErrBucketURLRequired  = errors.New("order log bucket URL is required")
	ErrInvalidClaimLimit  = errors.New("claim limit cannot be negative")
	ErrReadConfigFile     = errors.New("failed to read config file")
	ErrParseConfigFile    = errors.New("failed to parse config file")
)

// NewDefaultConfig creates a configuration with sensible defaults for the
// server, the upstream services, and the claim limits
func NewDefaultConfig() *Config {
	return &Config{
		APIHost:         DefaultAPIHost,
		LogLevel:        "info",
		ShutdownTimeout: DefaultShutdownTimeout,
		Upstreams: Upstreams{
			PhonebookURL:       DefaultGatewayURL,
			PostalURL:          DefaultPostalURL,
			CatalogURL:         DefaultGatewayURL,
			OrderLogURL:        DefaultGatewayURL,
			Timeout:            DefaultUpstreamTimeout,
			NotFoundMessage:    DefaultNotFound,
			OrderPlacedMessage: DefaultOrderPlaced,
		},
		OrderLog: OrderLogConfig{
			Sink:         SinkHTTP,
			RedisAddr:    DefaultRedisAddr,
			RedisStream:  DefaultRedisStream,
			BucketPrefix: DefaultBucketPrefix,
		},
		Claims: ClaimsConfig{
			Limits: DefaultClaimLimits(),
		},
	}
}

// DefaultClaimLimits returns the stock limit per claim type
func DefaultClaimLimits() map[string]float64 {
	return map[string]float64{
		"MEDICAL": 100,
		"DENTAL":  800,
		"DRUG":    1000,
	}
}

// LoadFile overlays the YAML file at path onto the configuration. A missing
// file is not an error
func (c *Config) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrReadConfigFile, err)
	}

	limits := c.Claims.Limits
	c.Claims.Limits = nil
	if err := yaml.Unmarshal(data, c); err != nil {
		c.Claims.Limits = limits
		return fmt.Errorf("%w: %s: %w", ErrParseConfigFile, path, err)
	}
	c.Claims.Limits = mergeLimits(limits, c.Claims.Limits)
	return nil
}

// LoadFromEnv populates configuration values from environment variables.
// Returns an error if any env var cannot be parsed.
func (c *Config) LoadFromEnv() error {
	setString(&c.APIHost, "API_HOST")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.Upstreams.PhonebookURL, "PHONEBOOK_URL")
	setString(&c.Upstreams.PostalURL, "POSTAL_URL")
	setString(&c.Upstreams.CatalogURL, "CATALOG_URL")
	setString(&c.Upstreams.OrderLogURL, "ORDER_LOG_URL")
	setString(&c.Upstreams.NotFoundMessage, "CONTACT_NOT_FOUND_MESSAGE")
	setString(&c.Upstreams.OrderPlacedMessage, "ORDER_PLACED_MESSAGE")
	setString(&c.OrderLog.Sink, "ORDER_LOG_SINK")
	setString(&c.OrderLog.RedisAddr, "ORDER_LOG_REDIS_ADDR")
	setString(&c.OrderLog.RedisPassword, "ORDER_LOG_REDIS_PASSWORD")
	setString(&c.OrderLog.RedisStream, "ORDER_LOG_REDIS_STREAM")
	setString(&c.OrderLog.BucketURL, "ORDER_LOG_BUCKET_URL")
	setString(&c.OrderLog.BucketPrefix, "ORDER_LOG_BUCKET_PREFIX")

	if err := loadEnvInt("API_PORT", &c.APIPort, 0, MaxTCPPort); err != nil {
		return err
	}
	if err := loadEnvInt(
		"ORDER_LOG_REDIS_DB", &c.OrderLog.RedisDB, -1, 15,
	); err != nil {
		return err
	}
	if err := loadEnvDuration(
		"SHUTDOWN_TIMEOUT", &c.ShutdownTimeout,
	); err != nil {
		return err
	}
	if err := loadEnvDuration(
		"UPSTREAM_TIMEOUT", &c.Upstreams.Timeout,
	); err != nil {
		return err
	}

	return c.loadClaimLimitsFromEnv()
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.APIPort < 0 || c.APIPort > MaxTCPPort {
		return fmt.Errorf("%w: %d", ErrInvalidAPIPort, c.APIPort)
	}

	if c.ShutdownTimeout <= 0 {
		return ErrInvalidShutdownTimeout
	}

	if c.Upstreams.Timeout < 0 {
		return ErrInvalidUpstreamTimeout
	}

	for name, raw := range map[string]string{
		"phonebook": c.Upstreams.PhonebookURL,
		"postal":    c.Upstreams.PostalURL,
		"catalog":   c.Upstreams.CatalogURL,
	} {
		if err := validateURL(name, raw); err != nil {
			return err
		}
	}

	switch c.OrderLog.Sink {
	case SinkHTTP:
		if err := validateURL("order log", c.Upstreams.OrderLogURL); err != nil {
			return err
		}
	case SinkRedis:
		if c.OrderLog.RedisAddr == "" {
			return ErrRedisAddrRequired
		}
	case SinkBlob:
		if c.OrderLog.BucketURL == "" {
			return ErrBucketURLRequired
		}
	case SinkNone:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSink, c.OrderLog.Sink)
	}

	for claimType, limit := range c.Claims.Limits {
		if limit < 0 {
			return fmt.Errorf("%w: %s %v",
				ErrInvalidClaimLimit, claimType, limit)
		}
	}

	return nil
}

// ListenAddr returns the host:port to serve on, using defaultPort when no
// port was configured
func (c *Config) ListenAddr(defaultPort int) string {
	port := c.APIPort
	if port == 0 {
		port = defaultPort
	}
	return fmt.Sprintf("%s:%d", c.APIHost, port)
}

// loadClaimLimitsFromEnv reads CLAIM_LIMIT_<TYPE> variables. Claim types
// are upper-cased; when both CLAIM_LIMIT_medical and CLAIM_LIMIT_MEDICAL
// are set, the upper-case variable wins
func (c *Config) loadClaimLimitsFromEnv() error {
	env := map[string]string{}
	for _, kv := range os.Environ() {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, claimLimitPrefix) || val == "" {
			continue
		}
		env[strings.TrimPrefix(key, claimLimitPrefix)] = val
	}

	limits := make(map[string]float64, len(env))
	for _, claimType := range upperFirst(env) {
		key := claimLimitPrefix + claimType
		val := env[claimType]
		limit, err := strconv.ParseFloat(val, 64)
		if err != nil || claimType == "" {
			return fmt.Errorf("invalid %s: %q", key, val)
		}
		limits[claimType] = limit
	}
	c.Claims.Limits = mergeLimits(c.Claims.Limits, limits)
	return nil
}

// mergeLimits overlays over onto base with claim types upper-cased. An
// upper-case key in over takes precedence over its mixed-case spellings
func mergeLimits(base, over map[string]float64) map[string]float64 {
	res := make(map[string]float64, len(base)+len(over))
	maps.Copy(res, base)
	seen := map[string]bool{}
	for _, k := range upperFirst(over) {
		name := strings.ToUpper(k)
		if seen[name] {
			continue
		}
		seen[name] = true
		res[name] = over[k]
	}
	return res
}

// upperFirst returns the keys of m sorted so that each upper-case key comes
// before any other spelling of the same name
func upperFirst[V any](m map[string]V) []string {
	return slices.SortedFunc(maps.Keys(m), func(a, b string) int {
		if c := strings.Compare(strings.ToUpper(a), strings.ToUpper(b)); c != 0 {
			return c
		}
		au, bu := a == strings.ToUpper(a), b == strings.ToUpper(b)
		switch {
		case au && !bu:
			return -1
		case bu && !au:
			return 1
		}
		return strings.Compare(a, b)
	})
}

func validateURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" ||
		(u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %s %q", ErrInvalidUpstreamURL, name, raw)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// loadEnvInt reads key from the environment, parses it as an integer, and
// sets *dst if the value is in the range (min, max]. Returns an error if the
// value cannot be parsed or falls outside the valid range.
func loadEnvInt[T ~int | ~int64](key string, dst *T, min, max T) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	tv := T(v)
	if tv <= min || tv > max {
		return fmt.Errorf("invalid %s: %d out of range [%d, %d]",
			key, tv, min+1, max)
	}
	*dst = tv
	return nil
}

func loadEnvDuration(key string, dst *time.Duration) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	*dst = d
	return nil
}
