package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"3000"`
	LogMode  string `envconfig:"LOG_MODE" default:"development"`
	GinMode  string `envconfig:"GIN_MODE" default:"release"`
	MongoURI string `envconfig:"MONGO_URI"`
	DBUser   string `envconfig:"DB_USER"`
	DBPass   string `envconfig:"DB_PASS"`
	DBHost   string `envconfig:"DB_HOST" default:"cluster0.0ocgkty.mongodb.net"`
	DBName   string `envconfig:"DB_NAME" required:"true"`

	ConnectTimeout time.Duration `envconfig:"CONNECT_TIMEOUT" default:"10s"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`

	// RateLimit is the number of requests a client IP may make per
	// RateLimitWindow. Zero disables the limiter.
	RateLimit       int           `envconfig:"RATE_LIMIT" default:"0"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// TrustedProxies lists the IPs or CIDRs whose X-Forwarded-For is believed.
	// Empty means the client IP is always the connection's remote address.
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`

	// Thumbnail uploads are enabled only when a bucket is configured.
	BucketName string `envconfig:"BUCKET_NAME"`
	AWSRegion  string `envconfig:"AWS_REGION"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DBName == "" {
		return errors.New("DB_NAME must not be empty")
	}
	if c.MongoURI == "" && (c.DBUser == "" || c.DBPass == "") {
		return errors.New("either MONGO_URI or DB_USER and DB_PASS must be set")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("RATE_LIMIT must not be negative, got %d", c.RateLimit)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	for _, p := range c.TrustedProxies {
		if net.ParseIP(p) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(p); err != nil {
			return fmt.Errorf("TRUSTED_PROXIES entry %q is not an IP or CIDR", p)
		}
	}
	return nil
}

// ConnectionString returns MONGO_URI when set, otherwise an Atlas SRV URI
// assembled from the DB_* credentials.
func (c *Config) ConnectionString() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}
	u := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(c.DBUser, c.DBPass),
		Host:     c.DBHost,
		Path:     "/",
		RawQuery: "appName=Cluster",
	}
	return u.String()
}

func (c *Config) ThumbnailsEnabled() bool {
	return c.BucketName != ""
}
