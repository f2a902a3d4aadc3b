package creds

import (
	"os"
	"time"
)

const (
	// RelativeURIEnvVar names the variable the container platform sets to the
	// path of the credentials endpoint.
	RelativeURIEnvVar = "AWS_CONTAINER_CREDENTIALS_RELATIVE_URI"
	// DefaultEndpoint is the link-local address of the container credentials endpoint.
	DefaultEndpoint = "http://169.254.170.2"

	DefaultFetchTimeout    = 10 * time.Second
	DefaultCheckInterval   = 30 * time.Minute
	DefaultExpiryMargin    = 30 * time.Minute
	DefaultRefreshInterval = 5 * time.Hour
)

type Config struct {
	// Endpoint is the scheme and host of the credentials endpoint.
	Endpoint string
	// RelativeURI is the path appended to Endpoint. Empty disables the manager.
	RelativeURI string
	// FetchTimeout bounds a single request to the endpoint.
	FetchTimeout time.Duration
	// CheckInterval is how often the background task evaluates the policy.
	CheckInterval time.Duration
	// ExpiryMargin refreshes credentials that expire sooner than this.
	ExpiryMargin time.Duration
	// RefreshInterval refreshes credentials older than this regardless of expiry.
	RefreshInterval time.Duration
	// RetryMaxElapsed bounds retries of a failed refresh within one background
	// tick. Zero means a single attempt per tick.
	RetryMaxElapsed time.Duration
	// PublishEnvironment also writes the AWS_* environment variables read by
	// the default SDK credential chain.
	PublishEnvironment bool
}

func DefaultConfig() *Config {
	return &Config{
		Endpoint:           DefaultEndpoint,
		FetchTimeout:       DefaultFetchTimeout,
		CheckInterval:      DefaultCheckInterval,
		ExpiryMargin:       DefaultExpiryMargin,
		RefreshInterval:    DefaultRefreshInterval,
		PublishEnvironment: true,
	}
}

// ConfigFromEnvironment returns the default config with RelativeURI read from
// the process environment.
func ConfigFromEnvironment() *Config {
	c := DefaultConfig()
	c.RelativeURI = os.Getenv(RelativeURIEnvVar)
	return c
}

// Configured reports whether a credentials endpoint path is present.
func (c *Config) Configured() bool {
	return c.RelativeURI != ""
}
