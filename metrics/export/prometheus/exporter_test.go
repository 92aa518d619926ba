package prometheus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MrEthical07/sessid"
)

type fakeSource struct {
	snapshot sessid.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() sessid.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                    { return f.dropped }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewExporterFromSource(fakeSource{
		snapshot: sessid.MetricsSnapshot{
			Counters:   map[sessid.MetricID]uint64{},
			Histograms: map[sessid.MetricID][]uint64{},
		},
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderIncludesCounterAndHistogram(t *testing.T) {
	exp := NewExporterFromSource(fakeSource{
		snapshot: sessid.MetricsSnapshot{
			Counters: map[sessid.MetricID]uint64{
				sessid.MetricSignatureMismatch: 7,
			},
			Histograms: map[sessid.MetricID][]uint64{
				sessid.MetricAuthenticateLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
		dropped: 2,
	})

	out := exp.Render()
	for _, want := range []string{
		"# TYPE sessid_signature_mismatch_total counter\n",
		"sessid_signature_mismatch_total 7\n",
		"sessid_identifier_generated_total 0\n",
		`sessid_authenticate_latency_seconds_bucket{le="0.000001"} 1` + "\n",
		`sessid_authenticate_latency_seconds_bucket{le="+Inf"} 36` + "\n",
		"sessid_authenticate_latency_seconds_count 36\n",
		"sessid_audit_dropped_total 2\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestRenderOmitsHistogramWhenLatencyDisabled(t *testing.T) {
	exp := NewExporterFromSource(fakeSource{
		snapshot: sessid.MetricsSnapshot{
			Counters:   map[sessid.MetricID]uint64{sessid.MetricParseSuccess: 1},
			Histograms: map[sessid.MetricID][]uint64{},
		},
	})

	if out := exp.Render(); strings.Contains(out, "latency") {
		t.Fatalf("expected no histogram, got:\n%s", out)
	}
}

func TestRenderFromEngine(t *testing.T) {
	engine, err := sessid.New().
		WithSecret([]byte("topsecret")).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	sid, err := engine.Issue(context.Background())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := engine.Authenticate(context.Background(), sid.SignedText()); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	out := NewExporter(engine).Render()
	if !strings.Contains(out, "sessid_signed_generated_total 1\n") {
		t.Fatalf("expected issued counter, got:\n%s", out)
	}
	if !strings.Contains(out, "sessid_authenticate_success_total 1\n") {
		t.Fatalf("expected authenticate counter, got:\n%s", out)
	}
}

func TestHandlerWritesPrometheusContentType(t *testing.T) {
	exp := NewExporterFromSource(fakeSource{
		snapshot: sessid.MetricsSnapshot{
			Counters:   map[sessid.MetricID]uint64{sessid.MetricParseSuccess: 1},
			Histograms: map[sessid.MetricID][]uint64{},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/plain") {
		t.Fatalf("expected prometheus content type, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func BenchmarkRender(b *testing.B) {
	exp := NewExporterFromSource(fakeSource{
		snapshot: sessid.MetricsSnapshot{
			Counters: map[sessid.MetricID]uint64{
				sessid.MetricSignedGenerated:     1000,
				sessid.MetricAuthenticateSuccess: 800,
				sessid.MetricAuthenticateFailure: 40,
				sessid.MetricSignatureExpired:    30,
				sessid.MetricSignatureMismatch:   10,
			},
			Histograms: map[sessid.MetricID][]uint64{
				sessid.MetricAuthenticateLatency: {10, 20, 30, 40, 50, 60, 70, 80},
			},
		},
	})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = exp.Render()
	}
}
