package pprof

import (
	"context"
	"net/http"
	_ "net/http/pprof"

	log "github.com/sirupsen/logrus"
)

func NewServer(listenAddr string) *http.Server {
	return &http.Server{Addr: listenAddr, Handler: http.DefaultServeMux}
}

// ListenAndWait serves pprof until ctx is done.
func ListenAndWait(ctx context.Context, server *http.Server) {
	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Errorf("error starting pprof http server: %s", err.Error())
		}
	}()
	<-ctx.Done()
	log.Infof("shutting down pprof server")
	server.Shutdown(context.Background())
}
