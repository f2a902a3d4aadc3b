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
	"time"

	"github.com/aws-samples/sample-camera-edge-data-intelligence-transformation-with-bedrock-sub002/pkg/creds"
	"github.com/aws-samples/sample-camera-edge-data-intelligence-transformation-with-bedrock-sub002/pkg/pprof"
	"github.com/aws-samples/sample-camera-edge-data-intelligence-transformation-with-bedrock-sub002/pkg/prometheus"
	"github.com/aws-samples/sample-camera-edge-data-intelligence-transformation-with-bedrock-sub002/pkg/statsd"
	log "github.com/sirupsen/logrus"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

type parser interface {
	Flag(name, help string) *kingpin.FlagClause
}

type logOptions struct {
	jsonLog  bool
	logLevel string
}

func (o *logOptions) bind(parser parser) {
	parser.Flag("json-log", "Output log in JSON").BoolVar(&o.jsonLog)
	parser.Flag("level", "Log level: debug, info, warn, error.").Default("info").EnumVar(&o.logLevel, "debug", "info", "warn", "error")
}

func (o *logOptions) configureLogger() {
	if o.jsonLog {
		log.SetFormatter(&log.JSONFormatter{})
	}

	switch o.logLevel {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	}
}

type telemetryOptions struct {
	prometheusListen string
	pprofListen      string
	statsD           string
	statsDPrefix     string
	statsDInterval   time.Duration
}

func (o *telemetryOptions) bind(parser parser) {
	parser.Flag("prometheus-listen-addr", "Prometheus HTTP listen address. e.g. localhost:9620").StringVar(&o.prometheusListen)
	parser.Flag("pprof-listen-addr", "Address to bind pprof HTTP server. e.g. localhost:9990").Default("").StringVar(&o.pprofListen)

	parser.Flag("statsd", "UDP address to publish StatsD metrics. e.g. 127.0.0.1:8125").Default("").StringVar(&o.statsD)
	parser.Flag("statsd-prefix", "statsd namespace to use").Default("edge.credentials").StringVar(&o.statsDPrefix)
	parser.Flag("statsd-interval", "Interval to publish to StatsD").Default("100ms").DurationVar(&o.statsDInterval)
}

func (o telemetryOptions) start(ctx context.Context) error {
	if err := statsd.New(o.statsD, o.statsDPrefix, o.statsDInterval); err != nil {
		return err
	}

	if o.prometheusListen != "" {
		metrics, err := prometheus.NewServer(o.prometheusListen)
		if err != nil {
			return err
		}
		metrics.Listen(ctx)
	}

	if o.pprofListen != "" {
		log.Infof("pprof listen address specified, will listen on %s", o.pprofListen)
		server := pprof.NewServer(o.pprofListen)
		go pprof.ListenAndWait(ctx, server)
	}
	return nil
}

type refreshOptions struct {
	*creds.Config
}

func (o *refreshOptions) bind(parser parser) {
	o.Config = creds.DefaultConfig()

	parser.Flag("endpoint", "Container credentials endpoint scheme and host").Default(creds.DefaultEndpoint).StringVar(&o.Endpoint)
	parser.Flag("relative-uri", "Path of the credentials endpoint. Refresh is disabled when empty.").Envar(creds.RelativeURIEnvVar).StringVar(&o.RelativeURI)
	parser.Flag("fetch-timeout", "Timeout for a single credentials request").Default(creds.DefaultFetchTimeout.String()).DurationVar(&o.FetchTimeout)
	parser.Flag("check-interval", "How often to check whether credentials need refreshing").Default(creds.DefaultCheckInterval.String()).DurationVar(&o.CheckInterval)
	parser.Flag("expiry-margin", "Refresh credentials expiring within this window").Default(creds.DefaultExpiryMargin.String()).DurationVar(&o.ExpiryMargin)
	parser.Flag("refresh-interval", "Refresh credentials older than this").Default(creds.DefaultRefreshInterval.String()).DurationVar(&o.RefreshInterval)
}
