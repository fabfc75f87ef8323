package metrics

import (
	"github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "chaintracker"

// Metrics exposes the state of a chain tracker to prometheus
type Metrics struct {
	reorgs        prometheus.Counter
	added         prometheus.Counter
	removed       prometheus.Counter
	length        prometheus.Gauge
	lockedLength  prometheus.Gauge
	ingestedNodes prometheus.Counter
}

// New creates the chain tracker metrics and registers them with registerer
func New(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		reorgs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reorgs_total",
			Help:      "number of changes of the selected chain that removed at least one block",
		}),
		added: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "added_total",
			Help:      "number of published add changes",
		}),
		removed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "removed_total",
			Help:      "number of published remove changes",
		}),
		length: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "length",
			Help:      "length of the chain, locked blocks included",
		}),
		lockedLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "locked_length",
			Help:      "number of locked blocks",
		}),
		ingestedNodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingested_nodes_total",
			Help:      "number of block records handed to the tracker",
		}),
	}

	collectors := []prometheus.Collector{m.reorgs, m.added, m.removed, m.length, m.lockedLength, m.ingestedNodes}
	for _, collector := range collectors {
		err := registerer.Register(collector)
		if err != nil {
			return nil, errors.Wrap(err, "failed to register chain tracker metrics")
		}
	}
	return m, nil
}

// RegisterBacklog registers a gauge reporting the number of changes pending
// in the queue of the subscriber called name
func RegisterBacklog(registerer prometheus.Registerer, name string, backlog func() int) error {
	gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "subscriber_backlog",
		Help:        "number of changes waiting to be consumed by a subscriber",
		ConstLabels: prometheus.Labels{"subscriber": name},
	}, func() float64 {
		return float64(backlog())
	})
	return errors.WithStack(registerer.Register(gauge))
}

// ObserveIngestion records an AddNodes call of nodeCount records which
// published changes
func (m *Metrics) ObserveIngestion(nodeCount int, changes []*externalapi.ChainChange) {
	m.ingestedNodes.Add(float64(nodeCount))

	isReorg := false
	for _, change := range changes {
		switch change.Kind {
		case externalapi.ChainChangeAdd:
			m.added.Inc()
		case externalapi.ChainChangeRemove:
			m.removed.Inc()
			isReorg = true
		}
	}
	if isReorg {
		m.reorgs.Inc()
	}
}

// SetLengths records the current length and locked length of the chain
func (m *Metrics) SetLengths(length, lockedLength uint64) {
	m.length.Set(float64(length))
	m.lockedLength.Set(float64(lockedLength))
}
