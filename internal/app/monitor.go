package app

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vk/plantsimgo/internal/observability"
)

// healthHandler reports process liveness.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// startMonitorServer runs the HTTP server exposing the health check and
// the Prometheus metrics of the engine.
func (a *App) startMonitorServer(port int, collector *observability.EngineCollector) {
	a.logger.Debug("Configuring monitor server.")
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	if collector != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(collector.Gatherer(), promhttp.HandlerOpts{}))
	}

	addr := fmt.Sprintf(":%d", port)

	go func() {
		a.logger.Info("Monitor server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			a.logger.Error("Monitor server failed", "error", err)
		}
	}()
}
