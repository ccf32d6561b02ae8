// Package metrics exposes graph analytics and API operation counts to
// Prometheus.
package metrics

import (
	"socialgraph/backend/internal/graph"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "socialgraph"

// StatsSource is the read side of the graph the collector scrapes
type StatsSource interface {
	Stats() graph.Stats
}

// GraphCollector reports the graph's live counts at scrape time
type GraphCollector struct {
	source StatsSource

	accounts *prometheus.Desc
	content  *prometheus.Desc
	topIDs   *prometheus.Desc
}

// NewGraphCollector creates a collector reading from source
func NewGraphCollector(source StatsSource) *GraphCollector {
	return &GraphCollector{
		source: source,
		accounts: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "accounts"),
			"Number of live accounts.",
			nil, nil,
		),
		content: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "content_items"),
			"Number of content items by kind; removed items count as tombstones.",
			[]string{"kind"}, nil,
		),
		topIDs: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "most_endorsed_id"),
			"Id of the most endorsed entity, 0 when there is none.",
			[]string{"entity"}, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *GraphCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.accounts
	ch <- c.content
	ch <- c.topIDs
}

// Collect implements prometheus.Collector
func (c *GraphCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()

	ch <- prometheus.MustNewConstMetric(c.accounts, prometheus.GaugeValue, float64(s.Accounts))
	for kind, n := range map[graph.Kind]int{
		graph.KindPost:        s.Posts,
		graph.KindComment:     s.Comments,
		graph.KindEndorsement: s.Endorsements,
		graph.KindTombstone:   s.Tombstones,
	} {
		ch <- prometheus.MustNewConstMetric(c.content, prometheus.GaugeValue, float64(n), string(kind))
	}
	ch <- prometheus.MustNewConstMetric(c.topIDs, prometheus.GaugeValue, float64(s.MostEndorsedContentID), "content")
	ch <- prometheus.MustNewConstMetric(c.topIDs, prometheus.GaugeValue, float64(s.MostEndorsedAccountID), "account")
}

// Metrics bundles the collectors the server registers
type Metrics struct {
	Registry   *prometheus.Registry
	Operations *prometheus.CounterVec
	Snapshots  *prometheus.CounterVec
}

// New builds a registry holding the graph collector, the operation and
// snapshot counters and the standard Go and process collectors
func New(source StatsSource) *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Graph operations handled, by operation and result.",
		}, []string{"operation", "result"}),
		Snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_total",
			Help:      "Snapshot saves and loads, by action and result.",
		}, []string{"action", "result"}),
	}
	m.Registry.MustRegister(
		NewGraphCollector(source),
		m.Operations,
		m.Snapshots,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe counts one operation; result is "ok" or the error kind
func (m *Metrics) Observe(operation, result string) {
	m.Operations.WithLabelValues(operation, result).Inc()
}

// ObserveSnapshot counts one save or load
func (m *Metrics) ObserveSnapshot(action string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Snapshots.WithLabelValues(action, result).Inc()
}
