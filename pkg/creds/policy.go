package creds

import "time"

// RefreshState is the manager's record of the most recent successful refresh.
// Zero times mean never refreshed and unknown expiry respectively.
type RefreshState struct {
	LastRefreshAt   time.Time
	ExpiresAt       time.Time
	RefreshInterval time.Duration
}

// Policy decides when credentials should be fetched again.
type Policy struct {
	// ExpiryMargin is how long before expiry credentials are refreshed.
	ExpiryMargin time.Duration
}

// NeedsRefresh evaluates the rules in order and returns on the first match.
// The expiry margin is checked before the refresh interval.
func (p Policy) NeedsRefresh(now time.Time, state RefreshState) bool {
	if state.LastRefreshAt.IsZero() {
		return true
	}
	if state.ExpiresAt.IsZero() {
		return true
	}
	if state.ExpiresAt.Sub(now) < p.ExpiryMargin {
		return true
	}
	if now.Sub(state.LastRefreshAt) > state.RefreshInterval {
		return true
	}
	return false
}
