package prometheus

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// TelemetryServer runs an HTTP service for exporting
// metrics
type TelemetryServer struct {
	server   *http.Server
	listener net.Listener
}

// NewServer creates a prometheus text format HTTP metrics server
// bound to listenAddr.
func NewServer(listenAddr string) (*TelemetryServer, error) {
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &TelemetryServer{server: &http.Server{Handler: mux}, listener: listener}, nil
}

// Addr is the address the server is listening on.
func (s *TelemetryServer) Addr() string {
	return s.listener.Addr().String()
}

// Listen starts an HTTP service exporting metrics. It stops
// when the passed context is completed. The returned channel
// is closed once the server has shut down.
func (s *TelemetryServer) Listen(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		log.Infof("started prometheus metric listener %s", s.Addr())
		if err := s.server.Serve(s.listener); err != nil && err != http.ErrServerClosed {
			log.Errorf("error serving prometheus metrics: %s", err.Error())
		}
	}()
	go func() {
		defer close(done)
		<-ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()

		log.Infof("stopping prometheus metric listener")
		s.server.Shutdown(ctx)
	}()
	return done
}
