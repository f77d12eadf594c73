package listeners

import (
	"context"

	"github.com/dcodingdev/gearguard/internal/events"
	"github.com/dcodingdev/gearguard/pkg/eventbus"
	"github.com/dcodingdev/gearguard/pkg/metrics"
)

// MetricsListener turns request and scrap events into prometheus counters.
type MetricsListener struct {
	metrics *metrics.Metrics
}

func NewMetricsListener(m *metrics.Metrics) *MetricsListener {
	return &MetricsListener{metrics: m}
}

func (l *MetricsListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.RequestCreated, l.onCreated)
	bus.Subscribe(events.RequestUpdated, l.onUpdated)
	bus.Subscribe(events.EquipmentScrapped, l.onScrapped)
}

func (l *MetricsListener) onCreated(_ context.Context, event eventbus.Event) error {
	if e, ok := event.(events.RequestCreatedEvent); ok {
		l.metrics.ObserveTransition("", e.Request.Status)
	}
	return nil
}

func (l *MetricsListener) onUpdated(_ context.Context, event eventbus.Event) error {
	if e, ok := event.(events.RequestUpdatedEvent); ok && e.StatusChanged() {
		l.metrics.ObserveTransition(e.PreviousStatus, e.Request.Status)
	}
	return nil
}

func (l *MetricsListener) onScrapped(_ context.Context, event eventbus.Event) error {
	if e, ok := event.(events.EquipmentScrappedEvent); ok {
		l.metrics.SiblingsCancelled(e.Source, len(e.CancelledRequestID))
	}
	return nil
}
