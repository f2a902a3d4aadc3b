package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws-samples/sample-camera-edge-data-intelligence-transformation-with-bedrock-sub002/pkg/creds"
	"github.com/fortytw2/leaktest"
)

func statusServer(code int, status creds.Status) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(status)
	}))
}

func TestCheckHealthReportsHealthyAgent(t *testing.T) {
	defer leaktest.Check(t)()

	server := statusServer(http.StatusOK, creds.Status{Configured: true, Phase: creds.PhaseFresh, ExpiresAt: time.Now().Add(time.Hour)})
	defer server.Close()

	status, err := checkHealth(context.Background(), strings.TrimPrefix(server.URL, "http://"))
	if err != nil {
		t.Fatal(err.Error())
	}
	if status.Phase != creds.PhaseFresh {
		t.Error("unexpected phase, was", status.Phase)
	}
}

func TestCheckHealthFailsForUnhealthyAgent(t *testing.T) {
	defer leaktest.Check(t)()

	server := statusServer(http.StatusServiceUnavailable, creds.Status{Configured: true, Phase: creds.PhaseUninitialized})
	defer server.Close()

	status, err := checkHealth(context.Background(), strings.TrimPrefix(server.URL, "http://"))
	if err == nil {
		t.Fatal("expected error for unhealthy agent")
	}
	if status.Phase != creds.PhaseUninitialized {
		t.Error("unexpected phase, was", status.Phase)
	}
}
