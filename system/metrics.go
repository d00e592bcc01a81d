package system

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope for system metrics.
const meterName = "github.com/cognet-ai/cognet/system"

// systemMetrics holds the OpenTelemetry instruments the orchestrator
// records into. With no meter provider configured these are no-ops.
type systemMetrics struct {
	agentsCreated     metric.Int64Counter
	broadcasts        metric.Int64Counter
	maintenancePasses metric.Int64Counter
}

func newSystemMetrics(mp metric.MeterProvider, s *System) (*systemMetrics, error) {
	meter := mp.Meter(meterName)

	agentsCreated, err := meter.Int64Counter("cognet.agents.created",
		metric.WithDescription("Number of agents created"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating agents counter: %w", err)
	}

	broadcasts, err := meter.Int64Counter("cognet.broadcasts",
		metric.WithDescription("Number of system broadcast messages"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating broadcast counter: %w", err)
	}

	maintenancePasses, err := meter.Int64Counter("cognet.attention.passes",
		metric.WithDescription("Number of attention maintenance passes"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating maintenance counter: %w", err)
	}

	atoms, err := meter.Int64ObservableGauge("cognet.atoms",
		metric.WithDescription("Number of atoms in the space"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating atom gauge: %w", err)
	}

	attention, err := meter.Float64ObservableGauge("cognet.attention.mean",
		metric.WithDescription("Mean attention across all atoms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating attention gauge: %w", err)
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := s.Stats()
		o.ObserveInt64(atoms, int64(stats.TotalAtoms))
		o.ObserveFloat64(attention, stats.AverageAttention)
		return nil
	}, atoms, attention)
	if err != nil {
		return nil, fmt.Errorf("registering gauge callback: %w", err)
	}

	return &systemMetrics{
		agentsCreated:     agentsCreated,
		broadcasts:        broadcasts,
		maintenancePasses: maintenancePasses,
	}, nil
}
