package main

import (
	"io"
	"net"
	"net/http"

	"github.com/brimdata/extsort/cli"
	"github.com/brimdata/extsort/run"
	"github.com/brimdata/extsort/spill"
	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// newMetricsHandler returns the routes of the metrics endpoint: Prometheus
// metrics for the counters of stats plus the Go runtime, a liveness check
// and the version of the command.
func newMetricsHandler(stats *run.Stats) (http.Handler, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	if err := spill.RegisterMetrics(registry, stats); err != nil {
		return nil, err
	}
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods("GET")
	router.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	}).Methods("GET")
	router.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Content-Type", "application/json")
		json.NewEncoder(w).Encode(struct {
			Version string `json:"version"`
		}{cli.Version()})
	}).Methods("GET")
	return router, nil
}

// serveMetrics serves the metrics endpoint at addr until the returned
// function is called.
func serveMetrics(addr string, stats *run.Stats, logger *zap.Logger) (func(), error) {
	handler, err := newMetricsHandler(stats)
	if err != nil {
		return nil, err
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	srv := &http.Server{Handler: handler}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.Warn("Metrics server", zap.Error(err))
		}
	}()
	logger.Info("Serving metrics", zap.String("addr", ln.Addr().String()))
	return func() { srv.Close() }, nil
}
