package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (SHOP_ prefix), flags, or YAML config files.
type Config struct {
	Addr               string        `default:"0.0.0.0:8080" usage:"API server listen address"`
	StoreDomain        string        `usage:"Commerce store domain (e.g. my-store.myshopify.com)" flag:"store-domain"`
	StorefrontToken    string        `usage:"Storefront API access token" flag:"storefront-token"`
	RevalidationSecret string        `usage:"Shared secret for the revalidation webhook" flag:"revalidation-secret"`
	CacheTTL           time.Duration `default:"5m" usage:"TTL for cached catalog reads; 0 disables expiry" flag:"cache-ttl"`
	RateLimit          RateLimitConfig
	CORS               CORSConfig
	Graceful           GracefulConfig
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls cross-origin access for browser frontends.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"true" usage:"Allow the cart cookie cross-origin" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and platform defaults. Missing commerce credentials fail here, at
// startup, rather than on the first upstream call.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "SHOP",
		Files:     []string{"config.yaml", "/etc/protoshop/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.StoreDomain == "" {
		return nil, errors.New("store domain is required: set SHOP_STORE_DOMAIN")
	}
	if cfg.StorefrontToken == "" {
		return nil, errors.New("storefront token is required: set SHOP_STOREFRONT_TOKEN")
	}
	if cfg.RevalidationSecret == "" {
		return nil, errors.New("revalidation secret is required: set SHOP_REVALIDATION_SECRET")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) onto the SHOP_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
