// Package metrics exports handoff counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ezrec/handoff/channel"
)

// StatsSource is anything that can report handoff counters together with
// the slot state they correspond to. *channel.Handoff satisfies it for every
// payload type.
type StatsSource interface {
	Snapshot() (stats channel.Stats, state channel.State)
}

var _ StatsSource = (*channel.Handoff[int32])(nil)

// Collector reads a StatsSource on every scrape.
type Collector struct {
	source StatsSource

	puts      *prometheus.Desc
	takes     *prometheus.Desc
	putWaits  *prometheus.Desc
	takeWaits *prometheus.Desc
	full      *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector whose metric names start with namespace.
func NewCollector(namespace string, source StatsSource) *Collector {
	name := func(metric string) string {
		return prometheus.BuildFQName(namespace, "", metric)
	}

	return &Collector{
		source: source,

		puts: prometheus.NewDesc(name("puts_total"),
			"Values deposited into the handoff.", nil, nil),
		takes: prometheus.NewDesc(name("takes_total"),
			"Values withdrawn from the handoff.", nil, nil),
		putWaits: prometheus.NewDesc(name("put_waits_total"),
			"Puts that waited for the slot to empty.", nil, nil),
		takeWaits: prometheus.NewDesc(name("take_waits_total"),
			"Takes that waited for the slot to fill.", nil, nil),
		full: prometheus.NewDesc(name("full"),
			"1 if a value is waiting in the slot, else 0.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.puts
	ch <- c.takes
	ch <- c.putWaits
	ch <- c.takeWaits
	ch <- c.full
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats, state := c.source.Snapshot()

	var full float64
	if state == channel.Full {
		full = 1
	}

	ch <- prometheus.MustNewConstMetric(c.puts, prometheus.CounterValue, float64(stats.Puts))
	ch <- prometheus.MustNewConstMetric(c.takes, prometheus.CounterValue, float64(stats.Takes))
	ch <- prometheus.MustNewConstMetric(c.putWaits, prometheus.CounterValue, float64(stats.PutWaits))
	ch <- prometheus.MustNewConstMetric(c.takeWaits, prometheus.CounterValue, float64(stats.TakeWaits))
	ch <- prometheus.MustNewConstMetric(c.full, prometheus.GaugeValue, full)
}
