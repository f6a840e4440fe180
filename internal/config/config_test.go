package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	testify "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zosconnect/orchestrate/internal/assert"
	"github.com/zosconnect/orchestrate/internal/assert/helpers"
	"github.com/zosconnect/orchestrate/internal/config"
)

func TestConfigValidation(t *testing.T) {
	as := assert.New(t)

	t.Run("valid_default_config", func(t *testing.T) {
		cfg := config.NewDefaultConfig()
		as.ConfigValid(cfg)
	})

	t.Run("valid_test_config", func(t *testing.T) {
		cfg := helpers.NewTestConfig(helpers.NewUpstream(t))
		as.ConfigValid(cfg)
	})

	tests := []struct {
		name          string
		configMod     func(*config.Config)
		errorContains string
	}{
		{
			name: "invalid_api_port_negative",
			configMod: func(c *config.Config) {
				c.APIPort = -1
			},
			errorContains: "invalid API port",
		},
		{
			name: "invalid_api_port_too_high",
			configMod: func(c *config.Config) {
				c.APIPort = 70000
			},
			errorContains: "invalid API port",
		},
		{
			name: "zero_shutdown_timeout",
			configMod: func(c *config.Config) {
				c.ShutdownTimeout = 0
			},
			errorContains: "shutdown timeout must be positive",
		},
		{
			name: "negative_upstream_timeout",
			configMod: func(c *config.Config) {
				c.Upstreams.Timeout = -time.Second
			},
			errorContains: "upstream timeout cannot be negative",
		},
		{
			name: "relative_phonebook_url",
			configMod: func(c *config.Config) {
				c.Upstreams.PhonebookURL = "/phonebook"
			},
			errorContains: "phonebook",
		},
		{
			name: "unsupported_postal_scheme",
			configMod: func(c *config.Config) {
				c.Upstreams.PostalURL = "ftp://zippopotam.us"
			},
			errorContains: "postal",
		},
		{
			name: "empty_catalog_url",
			configMod: func(c *config.Config) {
				c.Upstreams.CatalogURL = ""
			},
			errorContains: "invalid upstream URL",
		},
		{
			name: "http_sink_without_url",
			configMod: func(c *config.Config) {
				c.Upstreams.OrderLogURL = ""
			},
			errorContains: "order log",
		},
		{
			name: "redis_sink_without_addr",
			configMod: func(c *config.Config) {
				c.OrderLog.Sink = config.SinkRedis
				c.OrderLog.RedisAddr = ""
			},
			errorContains: "redis address is required",
		},
		{
			name: "blob_sink_without_bucket",
			configMod: func(c *config.Config) {
				c.OrderLog.Sink = config.SinkBlob
			},
			errorContains: "bucket URL is required",
		},
		{
			name: "unknown_sink",
			configMod: func(c *config.Config) {
				c.OrderLog.Sink = "kafka"
			},
			errorContains: "invalid order log sink",
		},
		{
			name: "negative_claim_limit",
			configMod: func(c *config.Config) {
				c.Claims.Limits["DRUG"] = -1
			},
			errorContains: "claim limit cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewDefaultConfig()
			tt.configMod(cfg)
			as.ConfigInvalid(cfg, tt.errorContains)
		})
	}
}

func TestSinksWithoutOrderLogURL(t *testing.T) {
	as := assert.New(t)

	cfg := config.NewDefaultConfig()
	cfg.Upstreams.OrderLogURL = ""
	cfg.OrderLog.Sink = config.SinkNone
	as.ConfigValid(cfg)

	cfg.OrderLog.Sink = config.SinkRedis
	as.ConfigValid(cfg)

	cfg.OrderLog.Sink = config.SinkBlob
	cfg.OrderLog.BucketURL = "file:///tmp/orders"
	as.ConfigValid(cfg)
}

func TestDefaultConfigValues(t *testing.T) {
	as := assert.New(t)

	cfg := config.NewDefaultConfig()

	as.Zero(cfg.APIPort)
	as.Equal("0.0.0.0", cfg.APIHost)
	as.Equal("info", cfg.LogLevel)
	as.Equal(config.DefaultShutdownTimeout, cfg.ShutdownTimeout)
	as.Equal(config.DefaultUpstreamTimeout, cfg.Upstreams.Timeout)
	as.Equal("http://localhost:9080", cfg.Upstreams.PhonebookURL)
	as.Equal("http://api.zippopotam.us", cfg.Upstreams.PostalURL)
	as.Equal("SPECIFIED PERSON WAS NOT FOUND", cfg.Upstreams.NotFoundMessage)
	as.Equal("ORDER SUCCESSFULLY PLACED", cfg.Upstreams.OrderPlacedMessage)
	as.Equal(config.SinkHTTP, cfg.OrderLog.Sink)
	as.Equal(map[string]float64{
		"MEDICAL": 100, "DENTAL": 800, "DRUG": 1000,
	}, cfg.Claims.Limits)
}

func TestDefaultClaimLimitsAreCopies(t *testing.T) {
	a := config.DefaultClaimLimits()
	a["MEDICAL"] = 1
	testify.Equal(t, 100.0, config.DefaultClaimLimits()["MEDICAL"])
}

func TestLoadFromEnv(t *testing.T) {
	as := assert.New(t)

	t.Setenv("API_HOST", "127.0.0.1")
	t.Setenv("API_PORT", "50001")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PHONEBOOK_URL", "http://ims.example.com:9080")
	t.Setenv("POSTAL_URL", "https://postal.example.com")
	t.Setenv("CATALOG_URL", "http://cics.example.com:9080")
	t.Setenv("ORDER_LOG_URL", "http://db2.example.com:9080")
	t.Setenv("CONTACT_NOT_FOUND_MESSAGE", "NO SUCH PERSON")
	t.Setenv("ORDER_PLACED_MESSAGE", "ORDER OK")
	t.Setenv("ORDER_LOG_SINK", "redis")
	t.Setenv("ORDER_LOG_REDIS_ADDR", "redis:6379")
	t.Setenv("ORDER_LOG_REDIS_PASSWORD", "secret")
	t.Setenv("ORDER_LOG_REDIS_DB", "3")
	t.Setenv("ORDER_LOG_REDIS_STREAM", "orders")
	t.Setenv("ORDER_LOG_BUCKET_URL", "s3://orders?region=us-east-1")
	t.Setenv("ORDER_LOG_BUCKET_PREFIX", "placed")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("UPSTREAM_TIMEOUT", "0")
	t.Setenv("CLAIM_LIMIT_MEDICAL", "500")
	t.Setenv("CLAIM_LIMIT_VISION", "250.5")

	cfg := config.NewDefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	as.Equal("127.0.0.1", cfg.APIHost)
	as.Equal(50001, cfg.APIPort)
	as.Equal("debug", cfg.LogLevel)
	as.Equal("http://ims.example.com:9080", cfg.Upstreams.PhonebookURL)
	as.Equal("https://postal.example.com", cfg.Upstreams.PostalURL)
	as.Equal("http://cics.example.com:9080", cfg.Upstreams.CatalogURL)
	as.Equal("http://db2.example.com:9080", cfg.Upstreams.OrderLogURL)
	as.Equal("NO SUCH PERSON", cfg.Upstreams.NotFoundMessage)
	as.Equal("ORDER OK", cfg.Upstreams.OrderPlacedMessage)
	as.Equal(config.OrderLogConfig{
		Sink:          config.SinkRedis,
		RedisAddr:     "redis:6379",
		RedisPassword: "secret",
		RedisDB:       3,
		RedisStream:   "orders",
		BucketURL:     "s3://orders?region=us-east-1",
		BucketPrefix:  "placed",
	}, cfg.OrderLog)
	as.Equal(3*time.Second, cfg.ShutdownTimeout)
	as.Zero(cfg.Upstreams.Timeout)
	as.Equal(500.0, cfg.Claims.Limits["MEDICAL"])
	as.Equal(250.5, cfg.Claims.Limits["VISION"])
	as.Equal(800.0, cfg.Claims.Limits["DENTAL"])
	as.ConfigValid(cfg)
}

func TestLoadFromEnvErrors(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "API_PORT", value: "http"},
		{key: "API_PORT", value: "0"},
		{key: "API_PORT", value: "65536"},
		{key: "ORDER_LOG_REDIS_DB", value: "16"},
		{key: "SHUTDOWN_TIMEOUT", value: "soon"},
		{key: "UPSTREAM_TIMEOUT", value: "10"},
		{key: "CLAIM_LIMIT_DRUG", value: "lots"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			cfg := config.NewDefaultConfig()
			err := cfg.LoadFromEnv()
			testify.Error(t, err)
			testify.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoadFromEnvClaimTypeCase(t *testing.T) {
	t.Setenv("CLAIM_LIMIT_medical", "500")

	for range 20 {
		cfg := config.NewDefaultConfig()
		require.NoError(t, cfg.LoadFromEnv())
		testify.Equal(t, map[string]float64{
			"MEDICAL": 500, "DENTAL": 800, "DRUG": 1000,
		}, cfg.Claims.Limits)
	}
}

func TestLoadFromEnvUpperCaseWins(t *testing.T) {
	t.Setenv("CLAIM_LIMIT_Medical", "300")
	t.Setenv("CLAIM_LIMIT_medical", "400")
	t.Setenv("CLAIM_LIMIT_MEDICAL", "500")

	for range 20 {
		cfg := config.NewDefaultConfig()
		require.NoError(t, cfg.LoadFromEnv())
		testify.Equal(t, 500.0, cfg.Claims.Limits["MEDICAL"])
		testify.Len(t, cfg.Claims.Limits, 3)
	}
}

func TestLoadFileClaimTypeCase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orchestrate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
claims:
  limits:
    dental: 700
    Dental: 600
    DENTAL: 900
`), 0o600))

	for range 20 {
		cfg := config.NewDefaultConfig()
		require.NoError(t, cfg.LoadFile(path))
		testify.Equal(t, map[string]float64{
			"MEDICAL": 100, "DENTAL": 900, "DRUG": 1000,
		}, cfg.Claims.Limits)
	}
}

func TestLoadFile(t *testing.T) {
	as := assert.New(t)

	path := filepath.Join(t.TempDir(), "orchestrate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_host: 127.0.0.1
api_port: 50002
shutdown_timeout: 5s
upstreams:
  catalog_url: http://cics.example.com:9080
  timeout: 2s
order_log:
  sink: blob
  bucket_url: file:///var/orders
claims:
  limits:
    medical: 500
    vision: 50
`), 0o600))

	cfg := config.NewDefaultConfig()
	require.NoError(t, cfg.LoadFile(path))

	as.Equal("127.0.0.1", cfg.APIHost)
	as.Equal(50002, cfg.APIPort)
	as.Equal(5*time.Second, cfg.ShutdownTimeout)
	as.Equal("http://cics.example.com:9080", cfg.Upstreams.CatalogURL)
	as.Equal("http://api.zippopotam.us", cfg.Upstreams.PostalURL)
	as.Equal(2*time.Second, cfg.Upstreams.Timeout)
	as.Equal(config.SinkBlob, cfg.OrderLog.Sink)
	as.Equal("file:///var/orders", cfg.OrderLog.BucketURL)
	as.Equal(config.DefaultBucketPrefix, cfg.OrderLog.BucketPrefix)
	as.Equal(map[string]float64{
		"MEDICAL": 500, "DENTAL": 800, "DRUG": 1000, "VISION": 50,
	}, cfg.Claims.Limits)
	as.ConfigValid(cfg)
}

func TestLoadFileMissing(t *testing.T) {
	cfg := config.NewDefaultConfig()
	testify.NoError(t, cfg.LoadFile(""))
	testify.NoError(t, cfg.LoadFile(
		filepath.Join(t.TempDir(), "missing.yaml"),
	))
	testify.Equal(t, config.NewDefaultConfig(), cfg)
}

func TestLoadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("claims: [1, 2"), 0o600))

	cfg := config.NewDefaultConfig()
	err := cfg.LoadFile(path)
	testify.ErrorIs(t, err, config.ErrParseConfigFile)
	testify.Equal(t, config.DefaultClaimLimits(), cfg.Claims.Limits)
}

func TestLoadFileUnreadable(t *testing.T) {
	cfg := config.NewDefaultConfig()
	err := cfg.LoadFile(t.TempDir())
	testify.ErrorIs(t, err, config.ErrReadConfigFile)
}

func TestListenAddr(t *testing.T) {
	cfg := config.NewDefaultConfig()
	testify.Equal(t, "0.0.0.0:50003", cfg.ListenAddr(50003))

	cfg.APIHost = "localhost"
	cfg.APIPort = 9090
	testify.Equal(t, "localhost:9090", cfg.ListenAddr(50003))
}
