package board

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts board activity.
type Metrics struct {
	Searches     prometheus.Counter
	Endorsements *prometheus.CounterVec
	Mutations    *prometheus.CounterVec
}

// NewMetrics builds the board collectors and registers them with reg when
// reg is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Searches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "qboard_searches_total",
			Help: "Keyword searches served.",
		}),
		Endorsements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "qboard_endorsements_total",
			Help: "Endorsement calls by target and whether the endorser set grew.",
		}, []string{"target", "result"}),
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "qboard_mutations_total",
			Help: "Create, modify and delete operations by kind.",
		}, []string{"op"}),
	}
	if reg != nil {
		reg.MustRegister(m.Searches, m.Endorsements, m.Mutations)
	}
	return m
}

func (m *Metrics) endorsed(target string, added bool) {
	result := "duplicate"
	if added {
		result = "added"
	}
	m.Endorsements.WithLabelValues(target, result).Inc()
}
