// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

package observability

import "github.com/prometheus/client_golang/prometheus"

// Package-level collectors let the physics engine and scenes record events
// without holding a reference to the server.
var (
	collisionsPredicted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "burge_physics_collisions_predicted_total",
		Help: "Total number of collision notices produced by the physics engine",
	})
	routesDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burge_routed_events_dropped_total",
			Help: "Total number of routed events dropped because no receiver was registered",
		},
		[]string{"channel"},
	)
	spawnFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burge_scene_spawn_failures_total",
			Help: "Total number of template instantiations that failed to load",
		},
		[]string{"template"},
	)
)

// RecordCollisions adds n predicted collisions.
func RecordCollisions(n int) {
	if n > 0 {
		collisionsPredicted.Add(float64(n))
	}
}

// RecordDroppedRoute counts a routed event with no registered receiver.
func RecordDroppedRoute(channel string) {
	routesDropped.WithLabelValues(channel).Inc()
}

// RecordSpawnFailure counts a failed template instantiation.
func RecordSpawnFailure(template string) {
	spawnFailures.WithLabelValues(template).Inc()
}

// Metrics holds the frame loop metrics owned by a host.
type Metrics struct {
	Frames       prometheus.Counter
	FrameSeconds prometheus.Histogram
	Entities     *prometheus.GaugeVec
}

// NewMetrics creates and registers the frame loop metrics together with the
// package-level collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "burge_frames_total",
			Help: "Total number of frames stepped",
		}),
		FrameSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "burge_frame_duration_seconds",
			Help:    "Wall-clock time spent stepping one frame",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.016, 0.033, 0.1},
		}),
		Entities: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "burge_scene_entities",
				Help: "Number of entities registered in a scene",
			},
			[]string{"scene"},
		),
	}

	reg.MustRegister(m.Frames)
	reg.MustRegister(m.FrameSeconds)
	reg.MustRegister(m.Entities)
	reg.MustRegister(collisionsPredicted)
	reg.MustRegister(routesDropped)
	reg.MustRegister(spawnFailures)

	return m
}
