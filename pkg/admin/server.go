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
package admin

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/aws-samples/sample-camera-edge-data-intelligence-transformation-with-bedrock-sub002/pkg/creds"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// CredentialsManager is the part of creds.Manager the admin API drives.
type CredentialsManager interface {
	Status() creds.Status
	ForceRefresh(ctx context.Context) error
}

type Server struct {
	cfg      *ServerOptions
	server   *http.Server
	listener net.Listener
}

type ServerOptions struct {
	ListenAddress string
}

func DefaultOptions() *ServerOptions {
	return &ServerOptions{
		ListenAddress: "localhost:9611",
	}
}

// NewWebServer binds the listen address straight away so callers learn about
// address errors before serving.
func NewWebServer(config *ServerOptions, manager CredentialsManager) (*Server, error) {
	listener, err := net.Listen("tcp", config.ListenAddress)
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:      config,
		server:   &http.Server{Handler: buildHTTPHandler(manager)},
		listener: listener,
	}, nil
}

func buildHTTPHandler(manager CredentialsManager) http.Handler {
	router := mux.NewRouter()
	router.Handle("/ping", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { fmt.Fprint(w, "pong") }))

	newHealthHandler(manager).Install(router)
	newRefreshHandler(manager).Install(router)

	return router
}

// Addr is the address the server is listening on.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

func (s *Server) Serve() error {
	log.Infof("admin server listening on %s", s.Addr())
	err := s.server.Serve(s.listener)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Stop(ctx context.Context) error {
	log.Infoln("starting admin server shutdown")
	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.server.Shutdown(c)
}
