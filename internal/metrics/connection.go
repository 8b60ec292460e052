package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ConnectionState reports the vault connection the gateway currently drives.
type ConnectionState func() (provider string, slot int, active bool)

// RegisterConnectionGauge exposes the active connection slot as <namespace>_connection_slot,
// labeled by provider. Nothing is observed while no connection is active.
func RegisterConnectionGauge(meterProvider metric.MeterProvider, namespace string, state ConnectionState) error {
	meter := meterProvider.Meter(namespace)

	_, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_connection_slot", namespace),
		metric.WithDescription("Connection slot the tokenization gateway currently drives"),
		metric.WithInt64Callback(func(ctx context.Context, o metric.Int64Observer) error {
			provider, slot, active := state()
			if !active {
				return nil
			}
			o.Observe(int64(slot), metric.WithAttributes(attribute.String("provider", provider)))
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create connection gauge: %w", err)
	}
	return nil
}
