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
package creds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/net/context/ctxhttp"
)

// Fetcher retrieves a new set of credentials. Implementations don't retry.
type Fetcher interface {
	Fetch(ctx context.Context) (*Credentials, error)
}

// maxBodySize caps how much of a response is read.
const maxBodySize = 1 << 20

type containerCredentialsResponse struct {
	AccessKeyId     string
	SecretAccessKey string
	Token           string
	Expiration      string
}

// ContainerFetcher requests credentials from the container credentials
// endpoint exposed by the hosting platform.
type ContainerFetcher struct {
	endpoint    string
	relativeURI string
	timeout     time.Duration
	client      *http.Client
}

func NewContainerFetcher(cfg *Config) *ContainerFetcher {
	return &ContainerFetcher{
		endpoint:    cfg.Endpoint,
		relativeURI: cfg.RelativeURI,
		timeout:     cfg.FetchTimeout,
		client:      &http.Client{},
	}
}

// Configured reports whether the fetcher has an endpoint path to call.
func (f *ContainerFetcher) Configured() bool {
	return f.relativeURI != ""
}

func (f *ContainerFetcher) url() string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(f.endpoint, "/"), strings.TrimLeft(f.relativeURI, "/"))
}

func (f *ContainerFetcher) Fetch(ctx context.Context) (*Credentials, error) {
	if !f.Configured() {
		return nil, ErrUnavailable
	}

	timer := prometheus.NewTimer(fetchTimer)
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	resp, err := ctxhttp.Get(ctx, f.client, f.url())
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, &FetchError{Reason: ErrTimeout, Err: err}
		}
		return nil, &FetchError{Reason: ErrRequestFailed, Err: err}
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, &FetchError{Reason: ErrTimeout, Err: err}
		}
		return nil, &FetchError{Reason: ErrRequestFailed, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Reason: ErrBadResponse, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return parseCredentials(body)
}

func parseCredentials(body []byte) (*Credentials, error) {
	var parsed containerCredentialsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &FetchError{Reason: ErrBadResponse, StatusCode: http.StatusOK, Err: err}
	}

	var missing []string
	if parsed.AccessKeyId == "" {
		missing = append(missing, "AccessKeyId")
	}
	if parsed.SecretAccessKey == "" {
		missing = append(missing, "SecretAccessKey")
	}
	if parsed.Token == "" {
		missing = append(missing, "Token")
	}
	if len(missing) > 0 {
		return nil, &FetchError{Reason: ErrIncomplete, Err: fmt.Errorf("missing %s", strings.Join(missing, ", "))}
	}

	// an absent expiration is left as zero and treated as unknown
	var expiration time.Time
	if parsed.Expiration != "" {
		t, err := time.Parse(time.RFC3339, parsed.Expiration)
		if err != nil {
			return nil, &FetchError{Reason: ErrBadResponse, StatusCode: http.StatusOK, Err: fmt.Errorf("invalid expiration: %s", err.Error())}
		}
		expiration = t
	}

	return NewCredentials(parsed.AccessKeyId, parsed.SecretAccessKey, parsed.Token, expiration), nil
}

func isTimeout(ctx context.Context, err error) bool {
	if ctx.Err() == context.DeadlineExceeded {
		return true
	}
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return true
	}
	return false
}
