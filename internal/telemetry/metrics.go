package telemetry

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/TimurManjosov/volumediscount/internal/engine"
	"github.com/TimurManjosov/volumediscount/internal/obs"
)

// Evaluation outcomes.
const (
	OutcomeDiscounted = "discounted"
	OutcomeEmpty      = "empty"
)

// Settings write results.
const (
	WriteSaved   = "saved"
	WriteInvalid = "invalid"
	WriteError   = "error"
)

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	httpDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	Evaluations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discount_evaluations_total",
			Help: "Discount evaluations by outcome",
		},
		[]string{"outcome"},
	)
	Candidates = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "discount_candidates",
		Help:    "Number of discount candidates produced per evaluation",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
	})
	SettingsWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settings_writes_total",
			Help: "Volume discount settings writes by result",
		},
		[]string{"result"},
	)

	initOnce sync.Once
)

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(httpReqs, httpDur, Evaluations, Candidates, SettingsWrites)
	})
}

// RecordEvaluation counts one evaluation and the size of its plan.
func RecordEvaluation(p engine.Plan) {
	outcome := OutcomeEmpty
	if !p.Empty() {
		outcome = OutcomeDiscounted
	}
	Evaluations.WithLabelValues(outcome).Inc()
	Candidates.Observe(float64(p.CandidateCount()))
}

// RecordSettingsWrite counts one settings write attempt.
func RecordSettingsWrite(result string) {
	SettingsWrites.WithLabelValues(result).Inc()
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := obs.NewStatusRecorder(w)
		next.ServeHTTP(ww, r)

		// route pattern is only resolved once the router has matched
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}

		httpReqs.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
		httpDur.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
