package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"github.com/jhoicas/materiales-obra-api/internal/application/inventory"
	"github.com/jhoicas/materiales-obra-api/internal/domain/entity"
)

// Nombres de instrumentos.
const (
	MeterName             = "github.com/jhoicas/materiales-obra-api/admission"
	AdmissionCounterName  = "ledger.admissions"
	AdmissionDurationName = "ledger.admission.duration"
	attrMovementType      = "movement.type"
	attrOutcome           = "outcome"
)

var _ inventory.AdmissionMetrics = (*AdmissionMetrics)(nil)

// AdmissionMetrics cuenta solicitudes de movimiento por tipo y resultado y mide su latencia.
type AdmissionMetrics struct {
	admissions metric.Int64Counter
	duration   metric.Float64Histogram
}

// NewAdmissionMetrics crea los instrumentos sobre el MeterProvider dado.
func NewAdmissionMetrics(mp metric.MeterProvider) (*AdmissionMetrics, error) {
	meter := mp.Meter(MeterName)
	admissions, err := meter.Int64Counter(AdmissionCounterName,
		metric.WithDescription("Solicitudes de movimiento por tipo y resultado"),
	)
	if err != nil {
		return nil, fmt.Errorf("counter %s: %w", AdmissionCounterName, err)
	}
	duration, err := meter.Float64Histogram(AdmissionDurationName,
		metric.WithDescription("Latencia de la admisión de movimientos"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("histogram %s: %w", AdmissionDurationName, err)
	}
	return &AdmissionMetrics{admissions: admissions, duration: duration}, nil
}

// RecordAdmission implementa inventory.AdmissionMetrics.
func (m *AdmissionMetrics) RecordAdmission(ctx context.Context, movementType, outcome string, elapsed time.Duration) {
	// Tipos fuera de in/out vienen del cliente: se agrupan para acotar la cardinalidad.
	if !entity.IsValidMovementType(movementType) {
		movementType = "invalid"
	}
	attrs := metric.WithAttributes(
		attribute.String(attrMovementType, movementType),
		attribute.String(attrOutcome, outcome),
	)
	m.admissions.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(elapsed)/float64(time.Millisecond), attrs)
}
