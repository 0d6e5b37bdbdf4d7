package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSpans_ExportedWithParentAndStatus(t *testing.T) {
	// GIVEN an in-memory exporter installed as the global provider
	exporter := tracetest.NewInMemoryExporter()
	require.NoError(t, InitWithExporter("genetic-quantum", "test", exporter))

	// WHEN a parent span and a failing child span are recorded
	ctx, parent := StartSpan(context.Background(), "run")
	parent.SetString("run.id", "abc").SetInt("generations", 3)
	_, child := StartSpan(ctx, "generation")
	child.SetFloat("hypervolume", 1.5)
	EndSpan(child, errors.New("boom"))
	EndSpan(parent, nil)

	// THEN both spans are exported, the child linked to the parent
	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "generation", spans[0].Name)
	assert.Equal(t, "run", spans[1].Name)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, codes.Ok, spans[1].Status.Code)
}

func TestEndSpan_NilSpan_NoPanic(t *testing.T) {
	var sp *Span
	sp.SetString("k", "v").SetInt("n", 1).SetFloat("f", 1)
	EndSpan(sp, nil)
}
