package statsd

import (
	"testing"
	"time"
)

func TestHelpersWithoutClient(t *testing.T) {
	Client = nil

	Increment("credentials.refresh.success")
	Timing("credentials.fetch", time.Millisecond)
	Gauge("credentials.expiry", 1)
	Close()
}

func TestMutedWithoutAddress(t *testing.T) {
	defer func() { Client = nil }()

	if err := New("", "edge.credentials", time.Second); err != nil {
		t.Fatal(err.Error())
	}
	if Client == nil {
		t.Fatal("expected client to be configured")
	}

	Increment("credentials.refresh.success")
	Close()
}
