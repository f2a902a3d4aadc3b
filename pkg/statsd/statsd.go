package statsd

import (
	"fmt"
	"time"

	"gopkg.in/alexcesaro/statsd.v2"
)

// Client is the process-wide statsd client. It stays nil until New is called,
// in which case the helpers below do nothing.
var Client *statsd.Client

// New configures Client. With an empty address the client is muted.
func New(address string, prefix string, interval time.Duration) error {
	var options []statsd.Option
	if address == "" {
		options = []statsd.Option{statsd.Mute(true)}
	} else {
		options = []statsd.Option{
			statsd.Address(address),
			statsd.Prefix(prefix),
			statsd.FlushPeriod(interval),
		}
	}

	sd, err := statsd.New(options...)
	if err != nil {
		return fmt.Errorf("statsd.New: %v", err)
	}

	Client = sd
	return nil
}

func Increment(bucket string) {
	if Client == nil {
		return
	}
	Client.Increment(bucket)
}

func Timing(bucket string, d time.Duration) {
	if Client == nil {
		return
	}
	Client.Timing(bucket, int(d/time.Millisecond))
}

func Gauge(bucket string, value interface{}) {
	if Client == nil {
		return
	}
	Client.Gauge(bucket, value)
}

// Close flushes and closes Client.
func Close() {
	if Client == nil {
		return
	}
	Client.Close()
}
