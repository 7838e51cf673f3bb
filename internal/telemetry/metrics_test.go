package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/TimurManjosov/volumediscount/internal/engine"
)

func TestInit_Idempotent(t *testing.T) {
	Init()
	Init()
}

func TestRecordEvaluation(t *testing.T) {
	emptyBefore := testutil.ToFloat64(Evaluations.WithLabelValues(OutcomeEmpty))
	discountedBefore := testutil.ToFloat64(Evaluations.WithLabelValues(OutcomeDiscounted))

	RecordEvaluation(engine.Plan{Operations: []engine.Operation{}})
	RecordEvaluation(engine.Plan{Operations: []engine.Operation{
		engine.ProductDiscountsAdd{
			SelectionStrategy: engine.SelectionAll,
			Candidates:        []engine.Candidate{{Message: "Buy 2, get 10% off", Targets: []engine.LineID{"L1"}, Percentage: 10}},
		},
	}})

	if got := testutil.ToFloat64(Evaluations.WithLabelValues(OutcomeEmpty)) - emptyBefore; got != 1 {
		t.Errorf("empty evaluations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(Evaluations.WithLabelValues(OutcomeDiscounted)) - discountedBefore; got != 1 {
		t.Errorf("discounted evaluations = %v, want 1", got)
	}
}

func TestRecordSettingsWrite(t *testing.T) {
	before := testutil.ToFloat64(SettingsWrites.WithLabelValues(WriteInvalid))
	RecordSettingsWrite(WriteInvalid)
	if got := testutil.ToFloat64(SettingsWrites.WithLabelValues(WriteInvalid)) - before; got != 1 {
		t.Fatalf("invalid writes = %v, want 1", got)
	}
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/v1/shops/{shopID}/volume-discount", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpReqs.WithLabelValues("/v1/shops/{shopID}/volume-discount", http.MethodGet, "404"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/shops/s1/volume-discount", nil))

	got := testutil.ToFloat64(httpReqs.WithLabelValues("/v1/shops/{shopID}/volume-discount", http.MethodGet, "404")) - before
	if got != 1 {
		t.Fatalf("http_requests_total = %v, want 1", got)
	}
}
