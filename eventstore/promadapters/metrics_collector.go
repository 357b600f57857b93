// Package promadapters provides a Prometheus implementation of eventstore.MetricsCollector.
package promadapters

import (
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
)

// MetricsCollector maps durations to histograms (seconds), counters to counters and values to gauges.
//
// Collectors are created and registered on first use of a metric name. The label names are taken
// from that first call; later calls fill missing labels with "" and drop unknown ones, because a
// Prometheus metric has a fixed set of label names.
type MetricsCollector struct {
	registerer prometheus.Registerer
	buckets    []float64

	mu         sync.Mutex
	histograms map[string]*labeledHistogram
	counters   map[string]*labeledCounter
	gauges     map[string]*labeledGauge
}

type labeledHistogram struct {
	vec        *prometheus.HistogramVec
	labelNames []string
}

type labeledCounter struct {
	vec        *prometheus.CounterVec
	labelNames []string
}

type labeledGauge struct {
	vec        *prometheus.GaugeVec
	labelNames []string
}

// Option defines a functional option for configuring MetricsCollector.
type Option func(*MetricsCollector)

// WithBuckets overrides the histogram buckets, the default is prometheus.DefBuckets.
func WithBuckets(buckets []float64) Option {
	return func(m *MetricsCollector) {
		m.buckets = buckets
	}
}

// NewMetricsCollector creates a MetricsCollector registering its collectors with registerer.
func NewMetricsCollector(registerer prometheus.Registerer, options ...Option) *MetricsCollector {
	m := &MetricsCollector{
		registerer: registerer,
		buckets:    prometheus.DefBuckets,
		histograms: make(map[string]*labeledHistogram),
		counters:   make(map[string]*labeledCounter),
		gauges:     make(map[string]*labeledGauge),
	}

	for _, option := range options {
		option(m)
	}

	return m
}

func (m *MetricsCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	histogram := m.histogram(metric, labels)
	if histogram == nil {
		return
	}

	histogram.vec.WithLabelValues(labelValues(histogram.labelNames, labels)...).Observe(duration.Seconds())
}

func (m *MetricsCollector) IncrementCounter(metric string, labels map[string]string) {
	counter := m.counter(metric, labels)
	if counter == nil {
		return
	}

	counter.vec.WithLabelValues(labelValues(counter.labelNames, labels)...).Inc()
}

func (m *MetricsCollector) RecordValue(metric string, value float64, labels map[string]string) {
	gauge := m.gauge(metric, labels)
	if gauge == nil {
		return
	}

	gauge.vec.WithLabelValues(labelValues(gauge.labelNames, labels)...).Set(value)
}

// A collector that cannot be registered is skipped, recording metrics never fails the caller.
func (m *MetricsCollector) histogram(metric string, labels map[string]string) *labeledHistogram {
	m.mu.Lock()
	defer m.mu.Unlock()

	if histogram, ok := m.histograms[metric]; ok {
		return histogram
	}

	names := labelNames(labels)
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: metric, Help: metric, Buckets: m.buckets}, names)
	if err := m.registerer.Register(vec); err != nil {
		return nil
	}

	m.histograms[metric] = &labeledHistogram{vec: vec, labelNames: names}

	return m.histograms[metric]
}

func (m *MetricsCollector) counter(metric string, labels map[string]string) *labeledCounter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if counter, ok := m.counters[metric]; ok {
		return counter
	}

	names := labelNames(labels)
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: metric, Help: metric}, names)
	if err := m.registerer.Register(vec); err != nil {
		return nil
	}

	m.counters[metric] = &labeledCounter{vec: vec, labelNames: names}

	return m.counters[metric]
}

func (m *MetricsCollector) gauge(metric string, labels map[string]string) *labeledGauge {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gauge, ok := m.gauges[metric]; ok {
		return gauge
	}

	names := labelNames(labels)
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: metric, Help: metric}, names)
	if err := m.registerer.Register(vec); err != nil {
		return nil
	}

	m.gauges[metric] = &labeledGauge{vec: vec, labelNames: names}

	return m.gauges[metric]
}

func labelNames(labels map[string]string) []string {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

func labelValues(names []string, labels map[string]string) []string {
	values := make([]string, len(names))
	for i, name := range names {
		values[i] = labels[name]
	}

	return values
}

var _ eventstore.MetricsCollector = (*MetricsCollector)(nil)
