// Package metrics defines the Prometheus collectors for the service.
// All collectors are registered on the default registry and exposed
// via GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveConnections tracks currently open websocket connections.
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "santa_active_connections",
		Help: "Number of currently registered websocket connections.",
	})

	// BroadcastsTotal counts group broadcast events.
	BroadcastsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "santa_broadcasts_total",
		Help: "Total number of broadcast events fanned out to groups.",
	})

	// MessagesDropped counts outbound messages dropped because a
	// connection's send buffer was full.
	MessagesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "santa_messages_dropped_total",
		Help: "Total number of outbound messages dropped due to slow connections.",
	})

	// GroupsCreated counts successfully created groups.
	GroupsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "santa_groups_created_total",
		Help: "Total number of groups created.",
	})

	// PairsGenerated counts successful pair generation events.
	PairsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "santa_pairs_generated_total",
		Help: "Total number of groups whose pairs have been generated.",
	})
)
