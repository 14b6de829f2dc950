package cache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Cache metrics carry a "cache" label equal to ProviderConfig.Group.
var (
	HitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "showfinder",
			Name:      "cache_hits_total",
			Help:      "Total number of response cache hits.",
		},
		[]string{"cache"},
	)

	MissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "showfinder",
			Name:      "cache_misses_total",
			Help:      "Total number of response cache misses.",
		},
		[]string{"cache"},
	)

	EvictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "showfinder",
			Name:      "cache_evictions_total",
			Help:      "Total number of entries evicted from the response cache.",
		},
		[]string{"cache"},
	)
)

func init() {
	prometheus.MustRegister(
		HitsTotal,
		MissesTotal,
		EvictionsTotal,
	)
}

// entriesCollector reports the entry count of one cache group by calling lenFunc at scrape time.
type entriesCollector struct {
	desc    *prometheus.Desc
	lenFunc func() int
}

func (c *entriesCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *entriesCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(c.lenFunc()))
}

var (
	entriesCollectorMu sync.Mutex
	entriesCollectors  = make(map[string]*entriesCollector)
	// entriesReg is swapped for an isolated registry in tests.
	entriesReg prometheus.Registerer = prometheus.DefaultRegisterer
)

// registerEntriesCollector registers the entries gauge for group, replacing any previous one.
func registerEntriesCollector(group string, lenFunc func() int) {
	desc := prometheus.NewDesc(
		"showfinder_cache_entries",
		"Current number of entries in the response cache.",
		nil,
		prometheus.Labels{"cache": group},
	)
	c := &entriesCollector{desc: desc, lenFunc: lenFunc}

	entriesCollectorMu.Lock()
	defer entriesCollectorMu.Unlock()

	if old, ok := entriesCollectors[group]; ok {
		entriesReg.Unregister(old)
	}
	entriesCollectors[group] = c
	_ = entriesReg.Register(c)
}

func unregisterEntriesCollector(group string) {
	entriesCollectorMu.Lock()
	defer entriesCollectorMu.Unlock()

	if c, ok := entriesCollectors[group]; ok {
		entriesReg.Unregister(c)
		delete(entriesCollectors, group)
	}
}
