// Package linkmapprom exports linkmap statistics as Prometheus metrics.
package linkmapprom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/llxisdsh/linkmap"
)

const (
	namespace = "linkmap"
	labelMap  = "map"
)

// StatsSource is satisfied by linkmap.Map, linkmap.Segmented and
// linkmap.Immutable.
type StatsSource interface {
	Stats() *linkmap.MapStats
}

// Collector implements prometheus.Collector over the statistics of one map.
// Every scrape walks the whole map, so scrape intervals should suit the
// map size.
type Collector struct {
	source StatsSource

	size       *prometheus.Desc
	capacity   *prometheus.Desc
	maxFill    *prometheus.Desc
	loadFactor *prometheus.Desc
	maxProbe   *prometheus.Desc
	meanProbe  *prometheus.Desc
	segments   *prometheus.Desc
	growths    *prometheus.Desc
	shrinks    *prometheus.Desc
}

// NewCollector creates a collector reporting source under the given map
// label value.
func NewCollector(name string, source StatsSource) *Collector {
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", metric),
			help,
			nil,
			prometheus.Labels{labelMap: name},
		)
	}
	return &Collector{
		source:     source,
		size:       desc("entries", "Number of entries stored in the map"),
		capacity:   desc("capacity_slots", "Total number of slots over all tables"),
		maxFill:    desc("max_fill_entries", "Entries the tables hold before the next growth"),
		loadFactor: desc("load_ratio", "Entries divided by slots"),
		maxProbe:   desc("probe_distance_max", "Longest distance from an entry's ideal slot"),
		meanProbe:  desc("probe_distance_mean", "Mean distance from an entry's ideal slot"),
		segments:   desc("segments", "Number of independently locked tables"),
		growths:    desc("growths_total", "Number of times a table grew"),
		shrinks:    desc("shrinks_total", "Number of times a table shrank"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.size
	ch <- c.capacity
	ch <- c.maxFill
	ch <- c.loadFactor
	ch <- c.maxProbe
	ch <- c.meanProbe
	ch <- c.segments
	ch <- c.growths
	ch <- c.shrinks
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()
	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v)
	}
	counter := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, v)
	}
	gauge(c.size, float64(s.Size))
	gauge(c.capacity, float64(s.Capacity))
	gauge(c.maxFill, float64(s.MaxFill))
	gauge(c.loadFactor, s.LoadFactor)
	gauge(c.maxProbe, float64(s.MaxProbe))
	gauge(c.meanProbe, s.MeanProbe)
	gauge(c.segments, float64(s.Segments))
	counter(c.growths, float64(s.TotalGrowths))
	counter(c.shrinks, float64(s.TotalShrinks))
}

var _ prometheus.Collector = (*Collector)(nil)
