package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/spec-kit/hr-client/internal/config"
)

func TestRedactToken(t *testing.T) {
	tests := map[string]string{
		"":                          "",
		"short":                     "***",
		"eyJhbGciOiJIUzI1NiJ9.body": "eyJh***body",
	}
	for in, want := range tests {
		if got := RedactToken(in); got != want {
			t.Fatalf("RedactToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.RecordAPIError("FORBIDDEN")
	m.RecordRoleFallback("missing")
	m.RecordGuardDecision("auth", true)
	m.RecordSessionEvent("login")
	if m.Registry() != nil {
		t.Fatal("nil metrics has no registry")
	}
}

func TestRoleFallbackCounter(t *testing.T) {
	m := NewMetrics()
	m.RecordRoleFallback("unknown")
	m.RecordRoleFallback("unknown")
	if got := testutil.ToFloat64(m.roleFallbacks.WithLabelValues("unknown")); got != 2 {
		t.Fatalf("fallback counter = %v, want 2", got)
	}
}

func TestNewLoggerAcceptsBadLevel(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "loud"})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger")
	}
}
