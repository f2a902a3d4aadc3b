package main

import (
	"testing"
	"time"

	"github.com/aws-samples/sample-camera-edge-data-intelligence-transformation-with-bedrock-sub002/pkg/creds"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

func TestRunFlagsBindConfig(t *testing.T) {
	app := kingpin.New("credentials-agent", "")
	cmd := &runCommand{}
	cmd.Bind(app.Command("run", ""))

	_, err := app.Parse([]string{"run", "--relative-uri", "/v2/credentials/abc", "--expiry-margin", "10m", "--listen-addr", "127.0.0.1:0"})
	if err != nil {
		t.Fatal(err.Error())
	}

	if cmd.RelativeURI != "/v2/credentials/abc" {
		t.Error("unexpected relative uri, was", cmd.RelativeURI)
	}
	if cmd.ExpiryMargin != 10*time.Minute {
		t.Error("unexpected expiry margin, was", cmd.ExpiryMargin)
	}
	if cmd.RefreshInterval != creds.DefaultRefreshInterval {
		t.Error("unexpected refresh interval, was", cmd.RefreshInterval)
	}
	if cmd.Endpoint != creds.DefaultEndpoint {
		t.Error("unexpected endpoint, was", cmd.Endpoint)
	}
	if cmd.RetryMaxElapsed != time.Minute {
		t.Error("unexpected retry max elapsed, was", cmd.RetryMaxElapsed)
	}
	if !cmd.PublishEnvironment {
		t.Error("expected environment publishing by default")
	}
	if cmd.ListenAddress != "127.0.0.1:0" {
		t.Error("unexpected listen address, was", cmd.ListenAddress)
	}
}
