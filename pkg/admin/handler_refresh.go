package admin

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// refreshHandler forces the manager to fetch new credentials regardless of
// how fresh the current ones are.
type refreshHandler struct {
	manager CredentialsManager
}

func (h *refreshHandler) Install(router *mux.Router) {
	router.Handle("/refresh", adapt(withMeter("refresh", h))).Methods(http.MethodPost)
}

func (h *refreshHandler) Handle(ctx context.Context, w http.ResponseWriter, req *http.Request) (int, error) {
	timer := prometheus.NewTimer(handlerTimer.WithLabelValues("refresh"))
	defer timer.ObserveDuration()

	log.WithFields(requestFields(req)).Infof("credentials refresh requested")

	if err := h.manager.ForceRefresh(ctx); err != nil {
		forcedRefreshes.WithLabelValues("error").Inc()
		return http.StatusBadGateway, fmt.Errorf("error refreshing credentials: %s", err.Error())
	}

	forcedRefreshes.WithLabelValues("success").Inc()
	return writeStatus(w, http.StatusOK, h.manager.Status())
}

func newRefreshHandler(manager CredentialsManager) *refreshHandler {
	return &refreshHandler{manager: manager}
}
