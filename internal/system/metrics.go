package system

import (
	"strconv"
	"time"

	"github.com/fractallands/simcore/internal/world"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the simulation's prometheus collectors. A nil *Metrics
// records nothing.
type Metrics struct {
	ticks            prometheus.Counter
	tickDuration     prometheus.Histogram
	entities         *prometheus.GaugeVec
	particlesDropped prometheus.Counter
	hits             prometheus.Counter
	membersPruned    prometheus.Counter
	transitions      prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg when it is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "simcore",
			Name:      "ticks_total",
			Help:      "Simulation ticks run.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "simcore",
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent in one simulation tick.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
		entities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "simcore",
			Name:      "entities",
			Help:      "Live entities per map layer.",
		}, []string{"layer"}),
		particlesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "simcore",
			Name:      "particles_dropped_total",
			Help:      "Particle allocations dropped because a pool was full.",
		}),
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "simcore",
			Name:      "projectile_hits_total",
			Help:      "Projectile hits resolved.",
		}),
		membersPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "simcore",
			Name:      "mob_members_pruned_total",
			Help:      "Mob group members dropped because their entity vanished.",
		}),
		transitions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "simcore",
			Name:      "map_transitions_total",
			Help:      "Map transitions performed.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.ticks, m.tickDuration, m.entities,
			m.particlesDropped, m.hits, m.membersPruned, m.transitions)
	}
	return m
}

func (m *Metrics) observeTick(d time.Duration, counts [world.LayerCount]int) {
	if m == nil {
		return
	}
	m.ticks.Inc()
	m.tickDuration.Observe(d.Seconds())
	for i, n := range counts {
		m.entities.WithLabelValues(strconv.Itoa(i)).Set(float64(n))
	}
}

func (m *Metrics) particleDropped() {
	if m != nil {
		m.particlesDropped.Inc()
	}
}

func (m *Metrics) hit() {
	if m != nil {
		m.hits.Inc()
	}
}

func (m *Metrics) pruned() {
	if m != nil {
		m.membersPruned.Inc()
	}
}

func (m *Metrics) transition() {
	if m != nil {
		m.transitions.Inc()
	}
}
