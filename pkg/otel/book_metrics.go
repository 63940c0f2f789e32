package otel

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/erain9/tickbook/pkg/otel"

var (
	bookMetrics     *BookMetrics
	bookMetricsOnce sync.Once
	meter           = otel.GetMeterProvider().Meter(instrumentationName)
)

// BookMetrics holds counters for order book maintenance. Instruments are
// created against the global meter provider; with no provider installed
// they are no-ops.
type BookMetrics struct {
	deltasApplied    metric.Int64Counter
	snapshotsApplied metric.Int64Counter
	crossedBooks     metric.Int64Counter
	invalidDeltas    metric.Int64Counter
}

// GetBookMetrics returns the BookMetrics singleton.
func GetBookMetrics() *BookMetrics {
	bookMetricsOnce.Do(func() {
		m := &BookMetrics{}
		m.deltasApplied, _ = meter.Int64Counter(
			"orderbook.deltas_applied.total",
			metric.WithDescription("Total number of book deltas applied"),
			metric.WithUnit("{delta}"),
		)
		m.snapshotsApplied, _ = meter.Int64Counter(
			"orderbook.snapshots_applied.total",
			metric.WithDescription("Total number of book snapshots applied"),
			metric.WithUnit("{snapshot}"),
		)
		m.crossedBooks, _ = meter.Int64Counter(
			"orderbook.crossed.total",
			metric.WithDescription("Total number of crossed top-of-book observations"),
			metric.WithUnit("{event}"),
		)
		m.invalidDeltas, _ = meter.Int64Counter(
			"orderbook.invalid_deltas.total",
			metric.WithDescription("Total number of deltas rejected by validation"),
			metric.WithUnit("{delta}"),
		)
		bookMetrics = m
	})
	return bookMetrics
}

// IncDeltasApplied increments the applied-delta counter for one action.
func IncDeltasApplied(instrumentID, action string) {
	m := GetBookMetrics()
	if m.deltasApplied == nil {
		return
	}
	m.deltasApplied.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("instrument.id", instrumentID),
		attribute.String("delta.action", action),
	))
}

// IncSnapshotsApplied increments the snapshot counter.
func IncSnapshotsApplied(instrumentID string) {
	m := GetBookMetrics()
	if m.snapshotsApplied == nil {
		return
	}
	m.snapshotsApplied.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("instrument.id", instrumentID),
	))
}

// IncCrossedBooks increments the crossed-book counter.
func IncCrossedBooks(instrumentID string) {
	m := GetBookMetrics()
	if m.crossedBooks == nil {
		return
	}
	m.crossedBooks.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("instrument.id", instrumentID),
	))
}

// IncInvalidDeltas increments the rejected-delta counter.
func IncInvalidDeltas(instrumentID string) {
	m := GetBookMetrics()
	if m.invalidDeltas == nil {
		return
	}
	m.invalidDeltas.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("instrument.id", instrumentID),
	))
}
