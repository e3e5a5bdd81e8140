package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(mux *http.ServeMux, h *Handler, maxInputBytes int64) http.Handler {
	// Pages
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("POST /{$}", h.Submit)

	// Analysis APIs
	mux.HandleFunc("POST /api/analyze", h.AnalyzeJSON)
	mux.HandleFunc("GET /charts/{file}", h.GetChart)

	// Observability APIs
	mux.HandleFunc("GET /healthz", h.GetHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(h.prom, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /metrics.json", h.GetMetrics)

	// Admin APIs
	mux.HandleFunc("GET /admin/logs", h.GetLogs)
	mux.HandleFunc("GET /admin/charts", h.ListCharts)
	mux.HandleFunc("DELETE /admin/charts/{id}", h.DeleteChart)

	// Middlewares
	return Chain(
		mux,
		RecoveryMiddleware(h.logger),
		LoggingMiddleware(h.logger),
		MaxBytesMiddleware(maxInputBytes, h.metrics),
	)
}
