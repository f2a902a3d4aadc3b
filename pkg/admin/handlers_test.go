package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws-samples/sample-camera-edge-data-intelligence-transformation-with-bedrock-sub002/pkg/creds"
	"github.com/fortytw2/leaktest"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type stubManager struct {
	mu       sync.Mutex
	status   creds.Status
	err      error
	refreshs int
}

func (s *stubManager) Status() creds.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *stubManager) ForceRefresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshs++
	return s.err
}

var fixedNow = time.Date(2025, 1, 1, 1, 0, 0, 0, time.UTC)

func freshStatus() creds.Status {
	return creds.Status{
		Configured:    true,
		Phase:         creds.PhaseFresh,
		LastRefreshAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiresAt:     time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC),
	}
}

func serveHealth(manager CredentialsManager) *httptest.ResponseRecorder {
	r, _ := http.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()

	handler := newHealthHandler(manager)
	handler.now = func() time.Time { return fixedNow }
	router := mux.NewRouter()
	handler.Install(router)
	router.ServeHTTP(rr, r)
	return rr
}

func TestHealthReturnsStatus(t *testing.T) {
	defer leaktest.Check(t)()

	rr := serveHealth(&stubManager{status: freshStatus()})
	if rr.Code != http.StatusOK {
		t.Error("expected 200 response, was", rr.Code)
	}
	if content := rr.Header().Get("Content-Type"); content != "application/json" {
		t.Error("expected json result", content)
	}

	var status creds.Status
	if err := json.NewDecoder(rr.Body).Decode(&status); err != nil {
		t.Fatal(err.Error())
	}
	if status.Phase != creds.PhaseFresh {
		t.Error("unexpected phase, was", status.Phase)
	}
	if !status.ExpiresAt.Equal(freshStatus().ExpiresAt) {
		t.Error("unexpected expiry, was", status.ExpiresAt)
	}
}

func TestHealthUnavailableBeforeFirstRefresh(t *testing.T) {
	defer leaktest.Check(t)()

	rr := serveHealth(&stubManager{status: creds.Status{Configured: true, Phase: creds.PhaseUninitialized}})
	if rr.Code != http.StatusServiceUnavailable {
		t.Error("expected 503 response, was", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "lastRefreshAt") {
		t.Error("expected no refresh time before first refresh, was", rr.Body.String())
	}
}

func TestHealthUnavailableWhenExpired(t *testing.T) {
	defer leaktest.Check(t)()

	status := freshStatus()
	status.ExpiresAt = fixedNow.Add(-time.Minute)
	rr := serveHealth(&stubManager{status: status})
	if rr.Code != http.StatusServiceUnavailable {
		t.Error("expected 503 response, was", rr.Code)
	}
}

func TestHealthyWithoutEndpoint(t *testing.T) {
	defer leaktest.Check(t)()

	rr := serveHealth(&stubManager{status: creds.Status{Phase: creds.PhaseUninitialized}})
	if rr.Code != http.StatusOK {
		t.Error("expected 200 response, was", rr.Code)
	}
}

func TestRefreshForcesRefresh(t *testing.T) {
	defer leaktest.Check(t)()

	manager := &stubManager{status: freshStatus()}
	r, _ := http.NewRequest("POST", "/refresh", nil)
	rr := httptest.NewRecorder()

	router := mux.NewRouter()
	newRefreshHandler(manager).Install(router)
	router.ServeHTTP(rr, r)

	if rr.Code != http.StatusOK {
		t.Error("expected 200 response, was", rr.Code)
	}
	if manager.refreshs != 1 {
		t.Error("expected a forced refresh, was", manager.refreshs)
	}
}

func TestRefreshReportsFetchError(t *testing.T) {
	defer leaktest.Check(t)()

	before := testutil.ToFloat64(forcedRefreshes.WithLabelValues("error"))

	manager := &stubManager{err: &creds.FetchError{Reason: creds.ErrBadResponse, StatusCode: 500, Body: "boom"}}
	r, _ := http.NewRequest("POST", "/refresh", nil)
	rr := httptest.NewRecorder()

	router := mux.NewRouter()
	newRefreshHandler(manager).Install(router)
	router.ServeHTTP(rr, r)

	if rr.Code != http.StatusBadGateway {
		t.Error("expected 502 response, was", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "boom") {
		t.Error("unexpected error", rr.Body.String())
	}
	if testutil.ToFloat64(forcedRefreshes.WithLabelValues("error")) != before+1 {
		t.Error("expected forced refresh error to be counted")
	}
}

func TestRefreshRequiresPost(t *testing.T) {
	defer leaktest.Check(t)()

	manager := &stubManager{}
	r, _ := http.NewRequest("GET", "/refresh", nil)
	rr := httptest.NewRecorder()

	router := mux.NewRouter()
	newRefreshHandler(manager).Install(router)
	router.ServeHTTP(rr, r)

	if rr.Code == http.StatusOK {
		t.Error("didn't expect GET to be accepted")
	}
	if manager.refreshs != 0 {
		t.Error("didn't expect a refresh, was", manager.refreshs)
	}
}

func TestServerServesAndStops(t *testing.T) {
	defer leaktest.Check(t)()

	server, err := NewWebServer(&ServerOptions{ListenAddress: "127.0.0.1:0"}, &stubManager{status: freshStatus()})
	if err != nil {
		t.Fatal(err.Error())
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve()
	}()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get(fmt.Sprintf("http://%s/ping", server.Addr()))
	if err != nil {
		t.Fatal(err.Error())
	}
	body, _ := ioutil.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "pong" {
		t.Error("unexpected ping response", string(body))
	}

	if err := server.Stop(context.Background()); err != nil {
		t.Error(err.Error())
	}
	if err := <-errCh; err != nil {
		t.Error("expected clean shutdown, was", err)
	}
}

func TestServerRejectsBadAddress(t *testing.T) {
	_, err := NewWebServer(&ServerOptions{ListenAddress: "not-an-address"}, &stubManager{})
	if err == nil {
		t.Error("expected error for invalid listen address")
	}
}
