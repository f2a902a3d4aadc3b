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
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aws-samples/sample-camera-edge-data-intelligence-transformation-with-bedrock-sub002/pkg/creds"
	"github.com/cenkalti/backoff"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/context/ctxhttp"
)

type healthCommand struct {
	logOptions

	address string
	timeout time.Duration
}

func (cmd *healthCommand) Bind(parser parser) {
	cmd.logOptions.bind(parser)

	parser.Flag("addr", "Admin HTTP address of the agent").Default("localhost:9611").StringVar(&cmd.address)
	parser.Flag("timeout", "Timeout for health check").Default("1s").DurationVar(&cmd.timeout)
}

func checkHealth(ctx context.Context, address string) (creds.Status, error) {
	var status creds.Status

	resp, err := ctxhttp.Get(ctx, http.DefaultClient, fmt.Sprintf("http://%s/health", address))
	if err != nil {
		return status, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return status, fmt.Errorf("error decoding health response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return status, fmt.Errorf("unhealthy, status %d, phase %s", resp.StatusCode, status.Phase)
	}
	return status, nil
}

func (opts *healthCommand) Run() {
	opts.configureLogger()

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	op := func() error {
		status, err := checkHealth(ctx, opts.address)
		if err != nil {
			log.Warnf("error checking health: %s", err.Error())
			return err
		}

		log.Infof("healthy: %s", status.Phase)

		return nil
	}
	err := backoff.Retry(op, backoff.WithContext(backoff.NewConstantBackOff(100*time.Millisecond), ctx))

	if err != nil {
		log.Fatalf("error retrieving health: %s", err.Error())
	}
}
