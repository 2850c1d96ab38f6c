package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/jhoicas/materiales-obra-api/internal/infrastructure/telemetry"
	"github.com/jhoicas/materiales-obra-api/pkg/config"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestRecordAdmission(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp, err := telemetry.NewMeterProvider(ctx, config.TelemetryConfig{ServiceName: "test"}, reader)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Shutdown(ctx) })

	m, err := telemetry.NewAdmissionMetrics(mp)
	require.NoError(t, err)

	m.RecordAdmission(ctx, "out", "committed", 3*time.Millisecond)
	m.RecordAdmission(ctx, "out", "committed", 5*time.Millisecond)
	m.RecordAdmission(ctx, "out", "InsufficientStock", time.Millisecond)
	m.RecordAdmission(ctx, "TRANSFER", "ValidationError", time.Millisecond)

	metrics := collect(t, reader)

	counter, ok := metrics[telemetry.AdmissionCounterName].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	got := map[string]int64{}
	for _, dp := range counter.DataPoints {
		typ, _ := dp.Attributes.Value(attribute.Key("movement.type"))
		outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
		got[typ.AsString()+"/"+outcome.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{
		"out/committed":           2,
		"out/InsufficientStock":   1,
		"invalid/ValidationError": 1,
	}, got)

	hist, ok := metrics[telemetry.AdmissionDurationName].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var total uint64
	for _, dp := range hist.DataPoints {
		total += dp.Count
	}
	assert.EqualValues(t, 4, total)
}
