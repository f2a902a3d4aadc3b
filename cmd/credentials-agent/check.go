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

	"github.com/aws-samples/sample-camera-edge-data-intelligence-transformation-with-bedrock-sub002/pkg/aws/sts"
	"github.com/aws-samples/sample-camera-edge-data-intelligence-transformation-with-bedrock-sub002/pkg/creds"
	log "github.com/sirupsen/logrus"
)

type checkCommand struct {
	logOptions
	refreshOptions

	verify      bool
	region      string
	stsEndpoint string
}

func (cmd *checkCommand) Bind(parser parser) {
	cmd.logOptions.bind(parser)
	cmd.refreshOptions.bind(parser)

	parser.Flag("verify", "Verify fetched credentials with STS GetCallerIdentity").Default("false").BoolVar(&cmd.verify)
	parser.Flag("region", "AWS region for STS").Envar("AWS_REGION").StringVar(&cmd.region)
	parser.Flag("sts-endpoint", "Override the STS endpoint").StringVar(&cmd.stsEndpoint)
}

func (opts *checkCommand) run() error {
	opts.configureLogger()

	fetcher := creds.NewContainerFetcher(opts.Config)
	fetched, err := fetcher.Fetch(context.Background())
	if err != nil {
		return err
	}

	log.WithFields(fetched.LogFields()).Infof("fetched credentials")

	if !opts.verify {
		return nil
	}

	provider := creds.NewProvider()
	provider.Publish(fetched)

	cfg := sts.NewConfigBuilder().WithRegion(opts.region).WithEndpoint(opts.stsEndpoint).WithCredentials(provider.Credentials()).Config()
	gateway, err := sts.NewIdentityGateway(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), sts.VerifyTimeout)
	defer cancel()

	identity, err := gateway.CallerIdentity(ctx)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{"sts.account": identity.Account, "sts.arn": identity.Arn}).Infof("verified credentials")
	return nil
}

func (opts *checkCommand) Run() {
	if err := opts.run(); err != nil {
		log.Fatalf("error fetching credentials: %s", err.Error())
	}
}
