// Copyright 2017 uSwitch
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package creds

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/aws-samples/sample-camera-edge-data-intelligence-transformation-with-bedrock-sub002/pkg/statsd"
	"github.com/cenkalti/backoff"
	log "github.com/sirupsen/logrus"
)

// Phase is the manager's lifecycle position as seen by a reader.
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseFresh         Phase = "fresh"
	PhaseDue           Phase = "due"
)

// Status is a consistent copy of the manager's refresh state.
type Status struct {
	Configured    bool      `json:"configured"`
	Phase         Phase     `json:"phase"`
	LastRefreshAt time.Time `json:"lastRefreshAt"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// MarshalJSON leaves out times that were never set.
func (s Status) MarshalJSON() ([]byte, error) {
	type status struct {
		Configured    bool       `json:"configured"`
		Phase         Phase      `json:"phase"`
		LastRefreshAt *time.Time `json:"lastRefreshAt,omitempty"`
		ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	}

	out := status{Configured: s.Configured, Phase: s.Phase}
	if !s.LastRefreshAt.IsZero() {
		out.LastRefreshAt = &s.LastRefreshAt
	}
	if !s.ExpiresAt.IsZero() {
		out.ExpiresAt = &s.ExpiresAt
	}
	return json.Marshal(out)
}

// Healthy reports whether usable credentials are published at now. A manager
// without an endpoint has nothing to publish and is always healthy.
func (s Status) Healthy(now time.Time) bool {
	if !s.Configured {
		return true
	}
	// a failed forced refresh clears LastRefreshAt but leaves the previous
	// credentials and their expiry in place
	if s.LastRefreshAt.IsZero() && s.ExpiresAt.IsZero() {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}

const retryInterval = time.Second

// Manager keeps a single set of container credentials fresh. Refreshes are
// serialized: at most one fetch is in flight at any time.
type Manager struct {
	cfg        *Config
	policy     Policy
	fetcher    Fetcher
	provider   *Provider
	publishers []Publisher
	now        func() time.Time

	// refreshMu is held for the whole read-decide-fetch-publish-commit
	// sequence.
	refreshMu sync.Mutex

	// stateMu guards state and initialized for readers. Writers also hold
	// refreshMu.
	stateMu     sync.RWMutex
	state       RefreshState
	initialized bool

	unavailable sync.Once
}

// NewManager creates a manager fetching with fetcher. Credentials are always
// published to the manager's Provider, then to each of publishers.
func NewManager(cfg *Config, fetcher Fetcher, publishers ...Publisher) *Manager {
	provider := NewProvider()
	return &Manager{
		cfg:        cfg,
		policy:     Policy{ExpiryMargin: cfg.ExpiryMargin},
		fetcher:    fetcher,
		provider:   provider,
		publishers: append([]Publisher{provider}, publishers...),
		now:        time.Now,
		state:      RefreshState{RefreshInterval: cfg.RefreshInterval},
	}
}

// NewDefaultManager creates a manager fetching from the container
// credentials endpoint named by cfg.
func NewDefaultManager(cfg *Config) *Manager {
	var publishers []Publisher
	if cfg.PublishEnvironment {
		publishers = append(publishers, &EnvironmentPublisher{})
	}
	return NewManager(cfg, NewContainerFetcher(cfg), publishers...)
}

// Provider returns the credentials provider to pass to components that make
// authenticated AWS calls.
func (m *Manager) Provider() *Provider {
	return m.provider
}

// Status returns the current refresh state.
func (m *Manager) Status() Status {
	m.stateMu.RLock()
	state := m.state
	initialized := m.initialized
	m.stateMu.RUnlock()

	status := Status{
		Configured:    m.cfg.Configured(),
		LastRefreshAt: state.LastRefreshAt,
		ExpiresAt:     state.ExpiresAt,
	}
	switch {
	case !initialized:
		status.Phase = PhaseUninitialized
	case m.policy.NeedsRefresh(m.now(), state):
		status.Phase = PhaseDue
	default:
		status.Phase = PhaseFresh
	}
	return status
}

// RefreshCredentials fetches and publishes new credentials if the policy says
// a refresh is due. It returns nil without doing anything when no refresh is
// due or no endpoint is configured. On error the previously published
// credentials and state are left untouched.
func (m *Manager) RefreshCredentials(ctx context.Context) error {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	return m.refresh(ctx)
}

// ForceRefresh discards the last refresh time and refreshes.
func (m *Manager) ForceRefresh(ctx context.Context) error {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	m.stateMu.Lock()
	m.state.LastRefreshAt = time.Time{}
	m.stateMu.Unlock()

	log.Infof("forcing credentials refresh")
	return m.refresh(ctx)
}

// refresh must be called with refreshMu held.
func (m *Manager) refresh(ctx context.Context) error {
	m.stateMu.Lock()
	m.initialized = true
	state := m.state
	m.stateMu.Unlock()

	if !m.policy.NeedsRefresh(m.now(), state) {
		log.WithFields(stateFields(state)).Debugf("credentials fresh, skipping refresh")
		return nil
	}

	started := time.Now()
	fetched, err := m.fetcher.Fetch(ctx)
	statsd.Timing("credentials.fetch", time.Since(started))

	if errors.Is(err, ErrUnavailable) {
		m.logUnavailable()
		return nil
	}
	if err != nil {
		refreshes.WithLabelValues("error").Inc()
		fetchErrors.WithLabelValues(reasonLabel(err)).Inc()
		statsd.Increment("credentials.refresh.error")
		return err
	}

	for _, p := range m.publishers {
		p.Publish(fetched)
	}

	committed := RefreshState{
		LastRefreshAt:   m.now(),
		ExpiresAt:       fetched.Expiration,
		RefreshInterval: state.RefreshInterval,
	}
	m.stateMu.Lock()
	m.state = committed
	m.stateMu.Unlock()

	refreshes.WithLabelValues("success").Inc()
	statsd.Increment("credentials.refresh.success")
	lastRefreshTimestamp.Set(float64(committed.LastRefreshAt.Unix()))
	if fetched.Expiration.IsZero() {
		expiryTimestamp.Set(0)
	} else {
		expiryTimestamp.Set(float64(fetched.Expiration.Unix()))
		statsd.Gauge("credentials.ttl", int(fetched.Expiration.Sub(committed.LastRefreshAt).Seconds()))
	}

	log.WithFields(fetched.LogFields()).Infof("refreshed credentials")
	return nil
}

func (m *Manager) logUnavailable() {
	m.unavailable.Do(func() {
		log.Infof("%s not set, container credentials refresh disabled", RelativeURIEnvVar)
	})
}

// Start launches the background refresh task if an endpoint is configured.
// The task checks the policy every CheckInterval until ctx is cancelled. It
// returns nil if no task was started, otherwise a channel that is closed once
// the task has stopped.
func (m *Manager) Start(ctx context.Context) <-chan struct{} {
	if !m.cfg.Configured() {
		m.logUnavailable()
		return nil
	}

	done := make(chan struct{})
	go m.run(ctx, done)
	return done
}

func (m *Manager) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	log.Infof("checking credentials every %s", m.cfg.CheckInterval)
	ticker := time.NewTicker(m.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Infof("stopping credentials refresh")
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				continue
			}
			m.refreshWithRetry(ctx)
		}
	}
}

// refreshWithRetry runs a refresh detached from ctx so that an in-flight
// fetch is bounded only by its own timeout. ctx stops any further retries.
func (m *Manager) refreshWithRetry(ctx context.Context) {
	op := func() error {
		return m.RefreshCredentials(context.Background())
	}

	var strategy backoff.BackOff = &backoff.StopBackOff{}
	if m.cfg.RetryMaxElapsed > 0 {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = retryInterval
		exp.MaxElapsedTime = m.cfg.RetryMaxElapsed
		strategy = exp
	}

	notify := func(err error, wait time.Duration) {
		log.Warnf("error refreshing credentials, retrying in %s: %s", wait, err.Error())
	}

	err := backoff.RetryNotify(op, backoff.WithContext(strategy, ctx), notify)
	if err != nil {
		log.WithFields(stateFields(m.currentState())).Errorf("error refreshing credentials, keeping previous credentials: %s", err.Error())
	}
}

func (m *Manager) currentState() RefreshState {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.state
}

func stateFields(s RefreshState) log.Fields {
	fields := log.Fields{}
	if s.LastRefreshAt.IsZero() {
		fields["credentials.refreshed"] = "never"
	} else {
		fields["credentials.refreshed"] = s.LastRefreshAt.UTC().Format(timeLayout)
	}
	if s.ExpiresAt.IsZero() {
		fields["credentials.expiration"] = "unknown"
	} else {
		fields["credentials.expiration"] = s.ExpiresAt.UTC().Format(timeLayout)
	}
	return fields
}
