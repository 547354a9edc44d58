// Package promstats exports container metrics snapshots to Prometheus.
//
//	c := promstats.NewCollector("myapp")
//	c.Add("requests", dict)
//	prometheus.MustRegister(c)
//
// Snapshots are taken at scrape time. Containers are not goroutine-safe, so a
// registry scraped from another goroutine must be serialized with the owner.
package promstats

import (
	"slices"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pavanmanishd/growbuf"
)

// Source is anything exposing a metrics snapshot: every growbuf container does.
type Source interface {
	Metrics() growbuf.Metrics
}

// SourceFunc adapts a function to Source.
type SourceFunc func() growbuf.Metrics

// Metrics calls f.
func (f SourceFunc) Metrics() growbuf.Metrics { return f() }

// Arena adapts an arena: grows counts chunks added after the first.
func Arena(a *growbuf.Arena) Source {
	return SourceFunc(func() growbuf.Metrics {
		m := a.Metrics()
		return growbuf.Metrics{
			SizeInUse:   m.SizeInUse,
			Capacity:    m.Capacity,
			Grows:       max(m.NumChunks-1, 0),
			Utilization: m.Utilization,
		}
	})
}

// Collector is a prometheus.Collector over named sources.
type Collector struct {
	mu      sync.Mutex
	sources map[string]Source

	sizeInUse   *prometheus.Desc
	capacity    *prometheus.Desc
	utilization *prometheus.Desc
	grows       *prometheus.Desc
	relocations *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns an empty collector whose metrics live under namespace.
func NewCollector(namespace string) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "growbuf", name), help, []string{"container"}, nil)
	}
	return &Collector{
		sources:     make(map[string]Source),
		sizeInUse:   desc("size_in_use", "Units currently used by the container store."),
		capacity:    desc("capacity", "Units allocated for the container store."),
		utilization: desc("utilization_ratio", "Ratio of used to allocated units."),
		grows:       desc("grows_total", "Times the container store grew."),
		relocations: desc("relocations_total", "Growths that moved the container store."),
	}
}

// Add registers s under name, replacing any source with the same name.
func (c *Collector) Add(name string, s Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources[name] = s
}

// Remove drops the source registered under name.
func (c *Collector) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sources, name)
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.sizeInUse
	ch <- c.capacity
	ch <- c.utilization
	ch <- c.grows
	ch <- c.relocations
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, 0, len(c.sources))
	for name := range c.sources {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		m := c.sources[name].Metrics()
		ch <- prometheus.MustNewConstMetric(c.sizeInUse, prometheus.GaugeValue, float64(m.SizeInUse), name)
		ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(m.Capacity), name)
		ch <- prometheus.MustNewConstMetric(c.utilization, prometheus.GaugeValue, m.Utilization, name)
		ch <- prometheus.MustNewConstMetric(c.grows, prometheus.CounterValue, float64(m.Grows), name)
		ch <- prometheus.MustNewConstMetric(c.relocations, prometheus.CounterValue, float64(m.Relocations), name)
	}
}
