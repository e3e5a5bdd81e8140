package api

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"loghealth/internal/analyzer"
	"loghealth/internal/chart"
	"loghealth/internal/logs"
	"loghealth/internal/metrics"
	"loghealth/internal/store"
	apperrors "loghealth/pkg/errors"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

const defaultLogLimit = 100

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	analyzer  *analyzer.Analyzer
	store     *store.Store
	metrics   *metrics.Registry
	logger    *logs.Logger
	prom      *prometheus.Registry
	chartOpts chart.Options
}

// NewHandler creates a new API handler.
func NewHandler(
	an *analyzer.Analyzer,
	store *store.Store,
	metricsRegistry *metrics.Registry,
	logger *logs.Logger,
	chartOpts chart.Options,
) *Handler {
	return &Handler{
		analyzer:  an,
		store:     store,
		metrics:   metricsRegistry,
		logger:    logger,
		prom:      metrics.NewPrometheusRegistry(metricsRegistry),
		chartOpts: chartOpts,
	}
}

// analyze runs one submission and stores its chart. The chart ID is empty
// when rendering failed; the report is still valid.
func (h *Handler) analyze(text string) (analyzer.Report, string) {
	report := h.analyzer.Analyze(text)
	h.metrics.RecordReport(report)

	var buf bytes.Buffer
	if err := chart.RenderPNG(&buf, report.Chart, h.chartOpts); err != nil {
		h.metrics.Inc(metrics.ChartRenderFailuresTotal)
		h.logger.Errorw("chart render failed", "error", err)
		return report, ""
	}

	id := h.store.Put(buf.Bytes(), chart.ContentType)

	h.logger.Debugw("analysis complete",
		"lines", report.Lines,
		"health", report.Summary.Health,
		"alerts", len(report.Alerts),
		"chart", id,
	)
	return report, id
}

func chartURL(id string) string {
	if id == "" {
		return ""
	}
	return "/charts/" + id + ".png"
}

// rejectTooLarge answers 413 when err came from the body limit.
func (h *Handler) rejectTooLarge(w http.ResponseWriter, err error) bool {
	var maxErr *http.MaxBytesError
	if !errors.As(err, &maxErr) {
		return false
	}
	h.metrics.Inc(metrics.RequestsRejected)
	http.Error(w, apperrors.NewInputTooLargeError(maxErr.Limit).Error(), http.StatusRequestEntityTooLarge)
	return true
}

/* ---------------- GET / and POST / ---------------- */

type pageData struct {
	Submitted bool
	Logs      string
	Report    analyzer.Report
	ChartURL  string
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, pageData{})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		if h.rejectTooLarge(w, err) {
			return
		}
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	text := r.PostForm.Get("logs")
	report, id := h.analyze(text)

	h.renderPage(w, pageData{
		Submitted: true,
		Logs:      text,
		Report:    report,
		ChartURL:  chartURL(id),
	})
}

func (h *Handler) renderPage(w http.ResponseWriter, data pageData) {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		h.logger.Errorw("render page failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

/* ---------------- POST /api/analyze ---------------- */

type analyzeRequest struct {
	Logs string `json:"logs"`
}

type analyzeResponse struct {
	analyzer.Report
	ChartURL string `json:"chart_url,omitempty"`
}

func (h *Handler) AnalyzeJSON(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if h.rejectTooLarge(w, err) {
			return
		}
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	report, id := h.analyze(req.Logs)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(analyzeResponse{
		Report:   report,
		ChartURL: chartURL(id),
	})
}

/* ---------------- GET /charts/{file} ---------------- */

func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	id, ok := strings.CutSuffix(file, ".png")
	if !ok || id == "" {
		http.Error(w, apperrors.NewChartError(file).Error(), http.StatusNotFound)
		return
	}

	entry, ok := h.store.Get(id)
	if !ok {
		http.Error(w, apperrors.NewChartError(id).Error(), http.StatusNotFound)
		return
	}

	h.metrics.Inc(metrics.ChartsServedTotal)
	w.Header().Set("Content-Type", entry.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(entry.Data)))
	_, _ = w.Write(entry.Data)
}

/* ---------------- GET /admin/charts ---------------- */

type chartInfo struct {
	ID          string     `json:"id"`
	URL         string     `json:"url"`
	ContentType string     `json:"content_type"`
	Size        int        `json:"size"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// ListCharts returns the live charts, oldest first.
func (h *Handler) ListCharts(w http.ResponseWriter, r *http.Request) {
	entries := h.store.List()

	charts := make([]chartInfo, 0, len(entries))
	for id, e := range entries {
		info := chartInfo{
			ID:          id,
			URL:         chartURL(id),
			ContentType: e.ContentType,
			Size:        len(e.Data),
			CreatedAt:   e.CreatedAt,
		}
		if !e.ExpiresAt.IsZero() {
			expires := e.ExpiresAt
			info.ExpiresAt = &expires
		}
		charts = append(charts, info)
	}
	sort.Slice(charts, func(i, j int) bool {
		if charts[i].CreatedAt.Equal(charts[j].CreatedAt) {
			return charts[i].ID < charts[j].ID
		}
		return charts[i].CreatedAt.Before(charts[j].CreatedAt)
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(charts)
}

/* ---------------- DELETE /admin/charts/{id} ---------------- */

func (h *Handler) DeleteChart(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.store.Delete(id) {
		http.Error(w, apperrors.NewChartError(id).Error(), http.StatusNotFound)
		return
	}

	h.logger.Infow("chart deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

/* ---------------- GET /healthz ---------------- */

func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

/* ---------------- GET /metrics.json ---------------- */

func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.metrics.Snapshot())
}

/* ---------------- GET /admin/logs ---------------- */

func (h *Handler) GetLogs(w http.ResponseWriter, r *http.Request) {
	n := defaultLogLimit
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid n", http.StatusBadRequest)
			return
		}
		n = parsed
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.logger.GetLast(n))
}
