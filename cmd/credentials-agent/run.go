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
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws-samples/sample-camera-edge-data-intelligence-transformation-with-bedrock-sub002/pkg/admin"
	"github.com/aws-samples/sample-camera-edge-data-intelligence-transformation-with-bedrock-sub002/pkg/creds"
	"github.com/aws-samples/sample-camera-edge-data-intelligence-transformation-with-bedrock-sub002/pkg/statsd"
	log "github.com/sirupsen/logrus"
)

type runCommand struct {
	logOptions
	telemetryOptions
	refreshOptions
	*admin.ServerOptions
}

func (cmd *runCommand) Bind(parser parser) {
	cmd.logOptions.bind(parser)
	cmd.telemetryOptions.bind(parser)
	cmd.refreshOptions.bind(parser)

	cmd.ServerOptions = admin.DefaultOptions()

	parser.Flag("listen-addr", "Admin HTTP listen address").Default(cmd.ListenAddress).StringVar(&cmd.ListenAddress)
	parser.Flag("retry-max-elapsed", "Retry a failed refresh for up to this long each check. 0 disables retries.").Default("1m").DurationVar(&cmd.RetryMaxElapsed)
	parser.Flag("publish-env", "Also publish credentials to AWS_* environment variables").Default("true").BoolVar(&cmd.PublishEnvironment)
}

// run is the actual run implementation.
func (opts *runCommand) run() error {
	opts.configureLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := opts.telemetryOptions.start(ctx); err != nil {
		log.Errorf("error starting telemetry: %s", err.Error())
		return err
	}
	defer statsd.Close()

	stopChan := make(chan os.Signal, 8)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)

	manager := creds.NewDefaultManager(opts.Config)

	initCtx, cancelInit := context.WithTimeout(ctx, opts.FetchTimeout+time.Second)
	if err := manager.RefreshCredentials(initCtx); err != nil {
		log.Warnf("error fetching initial credentials, will retry in background: %s", err.Error())
	}
	cancelInit()

	refreshDone := manager.Start(ctx)

	server, err := admin.NewWebServer(opts.ServerOptions, manager)
	if err != nil {
		log.Errorf("error creating admin http server: %s", err.Error())
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Errorf("error running server: %s", err.Error())
			return err
		}
	case sig := <-stopChan:
		log.Infof("received signal (%s): starting shutdown", sig.String())
		if err := server.Stop(ctx); err != nil {
			log.Errorf("error shutting down server: %s", err.Error())
			return err
		}
		log.Infoln("gracefully shutdown server")
	}

	cancel()
	if refreshDone != nil {
		<-refreshDone
	}
	log.Infoln("stopped")
	return nil
}

func (opts *runCommand) Run() {
	if err := opts.run(); err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}
