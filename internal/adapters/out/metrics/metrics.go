// Package metrics exposes engine activity to Prometheus.
//
// Counters are fed by the event fanout as a ports.EventSink; the queue gauges
// are refreshed from a ledger snapshot by the snapshot job.
package metrics

import (
	"context"
	"net/http"

	"porterage/internal/core/domain/model/event"
	"porterage/internal/core/domain/model/porter"
	"porterage/internal/core/domain/model/request"
	"porterage/internal/core/domain/services"
	"porterage/internal/core/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "porterage"

// Collector owns a private registry so tests and multiple engines never collide.
type Collector struct {
	registry    *prometheus.Registry
	events      *prometheus.CounterVec
	requests    *prometheus.GaugeVec
	porters     *prometheus.GaugeVec
	completed   prometheus.Gauge
	avgTransit  prometheus.Gauge
	coordinator services.AssignmentCoordinator
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Engine events by kind.",
		}, []string{"kind"}),
		requests: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "requests",
			Help:      "Requests in the ledger by status.",
		}, []string{"status"}),
		porters: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "porters",
			Help:      "Signed-in porters by availability.",
		}, []string{"availability"}),
		completed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "completed_transports",
			Help:      "Finished requests still held in the ledger.",
		}),
		avgTransit: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "average_transit_minutes",
			Help:      "Average start to finish time of finished requests.",
		}),
		coordinator: services.NewAssignmentCoordinator(),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.events, c.requests, c.porters, c.completed, c.avgTransit,
	)

	for _, k := range event.Kinds() {
		c.events.WithLabelValues(string(k))
	}
	return c
}

func (c *Collector) Name() string { return "metrics" }

// Send counts the event.
func (c *Collector) Send(_ context.Context, e event.Event) error {
	c.events.WithLabelValues(string(e.Kind)).Inc()
	return nil
}

// ObserveSnapshot sets the gauges from a consistent view of the engine.
func (c *Collector) ObserveSnapshot(s ports.LedgerSnapshot) {
	byStatus := map[request.Status]int{
		request.Waiting:   0,
		request.PickedUp:  0,
		request.InTransit: 0,
		request.Finished:  0,
	}
	for _, r := range s.Requests {
		byStatus[r.Status()]++
	}
	for status, n := range byStatus {
		c.requests.WithLabelValues(status.Code()).Set(float64(n))
	}

	byAvailability := map[porter.Availability]int{porter.Available: 0, porter.Busy: 0}
	for _, v := range c.coordinator.Availability(s.Porters, s.Requests) {
		byAvailability[v.Availability]++
	}
	for a, n := range byAvailability {
		c.porters.WithLabelValues(a.String()).Set(float64(n))
	}

	stats := services.ComputeStatistics(s.Requests, len(s.Journal))
	c.completed.Set(float64(stats.CompletedTransports))
	c.avgTransit.Set(stats.AverageTransitMinutes)
}

// Gatherer exposes the private registry.
func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
