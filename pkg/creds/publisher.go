package creds

import (
	"errors"
	"os"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go/aws/credentials"
)

const (
	AccessKeyIDEnvVar     = "AWS_ACCESS_KEY_ID"
	SecretAccessKeyEnvVar = "AWS_SECRET_ACCESS_KEY"
	SessionTokenEnvVar    = "AWS_SESSION_TOKEN"

	// ProviderName is reported in credentials.Value.ProviderName.
	ProviderName = "ContainerCredentialsManager"
)

var ErrNoCredentials = errors.New("no credentials published")

// Publisher makes fetched credentials available to the rest of the process.
// Publish is always called while the manager holds its refresh lock.
type Publisher interface {
	Publish(c *Credentials)
}

// EnvironmentPublisher writes credentials to the well-known AWS environment
// variables so an unmodified SDK credential chain picks them up. The three
// variables are set one after another: a concurrent reader of the environment
// can see a mix of old and new values. Only Provider guarantees a consistent
// set.
type EnvironmentPublisher struct{}

func (p *EnvironmentPublisher) Publish(c *Credentials) {
	os.Setenv(AccessKeyIDEnvVar, c.AccessKeyId)
	os.Setenv(SecretAccessKeyEnvVar, c.SecretAccessKey)
	os.Setenv(SessionTokenEnvVar, c.Token)
}

type snapshot struct {
	credentials *Credentials
	generation  uint64
}

// Provider holds the most recently published credentials as a single
// immutable snapshot. Components making authenticated AWS calls take an
// aws-sdk-go *credentials.Credentials from Credentials.
type Provider struct {
	current atomic.Value // *snapshot
	now     func() time.Time
}

func NewProvider() *Provider {
	p := &Provider{now: time.Now}
	p.current.Store(&snapshot{})
	return p
}

func (p *Provider) Publish(c *Credentials) {
	prev := p.load()
	p.current.Store(&snapshot{credentials: c, generation: prev.generation + 1})
}

func (p *Provider) load() *snapshot {
	return p.current.Load().(*snapshot)
}

// Get returns the published credentials, or nil if none have been published.
func (p *Provider) Get() *Credentials {
	return p.load().credentials
}

// ExpiresAt returns the expiry of the published credentials.
func (p *Provider) ExpiresAt() time.Time {
	s := p.load()
	if s.credentials == nil {
		return time.Time{}
	}
	return s.credentials.Expiration
}

// SDKProvider returns a credentials.Provider reading from p. Each returned
// value tracks what it last handed out, so it must back a single
// *credentials.Credentials.
func (p *Provider) SDKProvider() credentials.Provider {
	return &sdkProvider{provider: p}
}

// Credentials wraps the provider for use in an aws.Config.
func (p *Provider) Credentials() *credentials.Credentials {
	return credentials.NewCredentials(p.SDKProvider())
}

// sdkProvider reports the credentials it last retrieved as expired as soon
// as a newer set is published, so SDK clients pick up every refresh.
type sdkProvider struct {
	provider  *Provider
	retrieved uint64 // generation last returned by Retrieve
}

func (s *sdkProvider) Retrieve() (credentials.Value, error) {
	current := s.provider.load()
	if current.credentials == nil {
		return credentials.Value{ProviderName: ProviderName}, ErrNoCredentials
	}
	atomic.StoreUint64(&s.retrieved, current.generation)
	return credentials.Value{
		AccessKeyID:     current.credentials.AccessKeyId,
		SecretAccessKey: current.credentials.SecretAccessKey,
		SessionToken:    current.credentials.Token,
		ProviderName:    ProviderName,
	}, nil
}

func (s *sdkProvider) IsExpired() bool {
	current := s.provider.load()
	if current.credentials == nil {
		return true
	}
	if atomic.LoadUint64(&s.retrieved) != current.generation {
		return true
	}
	exp := current.credentials.Expiration
	return !exp.IsZero() && !s.provider.now().Before(exp)
}
