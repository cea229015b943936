package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	answerRequestsTotal   *prometheus.CounterVec
	answerRetrievalHit    *prometheus.CounterVec
	answerNoContextTotal  *prometheus.CounterVec
	answerContextChunks   *prometheus.HistogramVec
	answerDuration        *prometheus.HistogramVec
	structuredSourceTotal *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "faq",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "faq",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "faq",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	answerRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "faq",
			Subsystem: "answer",
			Name:      "requests_total",
			Help:      "Total successful answer requests.",
		},
		[]string{"service"},
	)
	answerRetrievalHit := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "faq",
			Subsystem: "answer",
			Name:      "retrieval_hit_total",
			Help:      "Total answer requests with at least one cited source.",
		},
		[]string{"service"},
	)
	answerNoContextTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "faq",
			Subsystem: "answer",
			Name:      "no_context_total",
			Help:      "Total answer requests that found no knowledge-base context.",
		},
		[]string{"service"},
	)
	answerContextChunks := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "faq",
			Subsystem: "answer",
			Name:      "context_sources",
			Help:      "Distribution of cited sources per successful answer request.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service"},
	)
	answerDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "faq",
			Subsystem: "answer",
			Name:      "duration_seconds",
			Help:      "Answer pipeline duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	structuredSourceTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "faq",
			Subsystem: "answer",
			Name:      "structured_source_total",
			Help:      "Structured answer origin: model output, extractor fallback, or absent.",
		},
		[]string{"service", "source"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		answerRequestsTotal,
		answerRetrievalHit,
		answerNoContextTotal,
		answerContextChunks,
		answerDuration,
		structuredSourceTotal,
	)

	return &HTTPServerMetrics{
		registry:              registry,
		requestTotal:          requestTotal,
		requestDuration:       requestDuration,
		requestInFlight:       requestInFlight,
		answerRequestsTotal:   answerRequestsTotal,
		answerRetrievalHit:    answerRetrievalHit,
		answerNoContextTotal:  answerNoContextTotal,
		answerContextChunks:   answerContextChunks,
		answerDuration:        answerDuration,
		structuredSourceTotal: structuredSourceTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/documents/"):
		return "/v1/documents/{document_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordAnswer(service string, sourceCount int, duration time.Duration) {
	m.answerRequestsTotal.WithLabelValues(service).Inc()
	m.answerContextChunks.WithLabelValues(service).Observe(float64(sourceCount))
	m.answerDuration.WithLabelValues(service).Observe(duration.Seconds())

	if sourceCount > 0 {
		m.answerRetrievalHit.WithLabelValues(service).Inc()
		return
	}
	m.answerNoContextTotal.WithLabelValues(service).Inc()
}

func (m *HTTPServerMetrics) RecordStructuredSource(service, source string) {
	if source == "" {
		source = "unknown"
	}
	m.structuredSourceTotal.WithLabelValues(service, source).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
