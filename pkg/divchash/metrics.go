package divchash

// metrics.go mirrors Voskan/arena-cache/pkg/metrics.go: a metricsSink
// interface abstracts away the concrete backend (Prometheus vs noop) so the
// hot path never pays for metric updates unless the caller opted in via
// WithMetrics.
//
// ┌───────────────────────────────┬───────┐
// │ Metric                        │ Type  │
// ├────────────────────────────────┼───────┤
// │ divchash_inserts_total        │ Ctr   │
// │ divchash_updates_total        │ Ctr   │
// │ divchash_removes_total        │ Ctr   │
// │ divchash_deletes_total        │ Ctr   │
// │ divchash_growths_total        │ Ctr   │
// │ divchash_ladder_exhausted     │ Gauge │
// │ divchash_element_count        │ Gauge │
// │ divchash_slot_count           │ Gauge │
// │ divchash_max_elements         │ Gauge │
// └────────────────────────────────┴───────┘
//
// © 2025 divchash authors. MIT License.

import "github.com/prometheus/client_golang/prometheus"

type metricsSink interface {
	incInsert()
	incUpdate()
	incRemove()
	incDelete()
	incGrowth()
	setExhausted(bool)
	setElementCount(uint64)
	setSlotCount(uint64)
	setMaxElements(uint64)
}

/* ---------------- No-op implementation ---------------- */

type noopMetrics struct{}

func (noopMetrics) incInsert()             {}
func (noopMetrics) incUpdate()             {}
func (noopMetrics) incRemove()             {}
func (noopMetrics) incDelete()             {}
func (noopMetrics) incGrowth()             {}
func (noopMetrics) setExhausted(bool)      {}
func (noopMetrics) setElementCount(uint64) {}
func (noopMetrics) setSlotCount(uint64)    {}
func (noopMetrics) setMaxElements(uint64)  {}

/* ---------------- Prometheus implementation ---------------- */

type promMetrics struct {
	inserts      prometheus.Counter
	updates      prometheus.Counter
	removes      prometheus.Counter
	deletes      prometheus.Counter
	growths      prometheus.Counter
	exhausted    prometheus.Gauge
	elementCount prometheus.Gauge
	slotCount    prometheus.Gauge
	maxElements  prometheus.Gauge
}

func newPromMetrics(reg *prometheus.Registry) *promMetrics {
	pm := &promMetrics{
		inserts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "divchash", Name: "inserts_total", Help: "Number of new keys inserted.",
		}),
		updates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "divchash", Name: "updates_total", Help: "Number of inserts that updated an existing key.",
		}),
		removes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "divchash", Name: "removes_total", Help: "Number of keys removed (value copied out).",
		}),
		deletes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "divchash", Name: "deletes_total", Help: "Number of keys deleted (no value copy-out).",
		}),
		growths: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "divchash", Name: "growths_total", Help: "Number of completed growth passes.",
		}),
		exhausted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "divchash", Name: "ladder_exhausted", Help: "1 if the prime ladder is exhausted, else 0.",
		}),
		elementCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "divchash", Name: "element_count", Help: "Current number of live key/value pairs.",
		}),
		slotCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "divchash", Name: "slot_count", Help: "Current slot array size.",
		}),
		maxElements: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "divchash", Name: "max_elements", Help: "Cached load-factor bound.",
		}),
	}
	reg.MustRegister(pm.inserts, pm.updates, pm.removes, pm.deletes, pm.growths,
		pm.exhausted, pm.elementCount, pm.slotCount, pm.maxElements)
	return pm
}

func (m *promMetrics) incInsert() { m.inserts.Inc() }
func (m *promMetrics) incUpdate() { m.updates.Inc() }
func (m *promMetrics) incRemove() { m.removes.Inc() }
func (m *promMetrics) incDelete() { m.deletes.Inc() }
func (m *promMetrics) incGrowth() { m.growths.Inc() }
func (m *promMetrics) setExhausted(v bool) {
	if v {
		m.exhausted.Set(1)
		return
	}
	m.exhausted.Set(0)
}
func (m *promMetrics) setElementCount(n uint64) { m.elementCount.Set(float64(n)) }
func (m *promMetrics) setSlotCount(n uint64)    { m.slotCount.Set(float64(n)) }
func (m *promMetrics) setMaxElements(n uint64)  { m.maxElements.Set(float64(n)) }

/* ---------------- Factory ---------------- */

func newMetricsSink(reg *prometheus.Registry) metricsSink {
	if reg == nil {
		return noopMetrics{}
	}
	return newPromMetrics(reg)
}
