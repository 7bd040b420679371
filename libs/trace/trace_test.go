package trace

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitTracerRecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	shutdown := InitTracer("ledger", "test", recorder)
	defer shutdown(context.Background())

	_, span := otel.Tracer("ledger").Start(context.Background(), "probe")
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 || ended[0].Name() != "probe" {
		t.Fatalf("expected probe span, got %d spans", len(ended))
	}

	var service string
	for _, attr := range ended[0].Resource().Attributes() {
		if attr.Key == "service.name" {
			service = attr.Value.AsString()
		}
	}
	if service != "ledger" {
		t.Fatalf("expected service.name ledger, got %q", service)
	}
}
