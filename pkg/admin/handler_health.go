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
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aws-samples/sample-camera-edge-data-intelligence-transformation-with-bedrock-sub002/pkg/creds"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

type healthHandler struct {
	manager CredentialsManager
	now     func() time.Time
}

func (h *healthHandler) Install(router *mux.Router) {
	router.Handle("/health", adapt(withMeter("health", h))).Methods(http.MethodGet)
}

func (h *healthHandler) Handle(ctx context.Context, w http.ResponseWriter, req *http.Request) (int, error) {
	timer := prometheus.NewTimer(handlerTimer.WithLabelValues("health"))
	defer timer.ObserveDuration()

	status := h.manager.Status()
	code := http.StatusOK
	if !status.Healthy(h.now()) {
		code = http.StatusServiceUnavailable
	}

	return writeStatus(w, code, status)
}

func writeStatus(w http.ResponseWriter, code int, status creds.Status) (int, error) {
	body, err := json.Marshal(status)
	if err != nil {
		return http.StatusInternalServerError, fmt.Errorf("error encoding status: %s", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(body)
	return code, nil
}

func newHealthHandler(manager CredentialsManager) *healthHandler {
	return &healthHandler{
		manager: manager,
		now:     time.Now,
	}
}
