package mclog

import "github.com/prometheus/client_golang/prometheus"

// Collector exports logger counters to Prometheus. Values are read from
// Stats on every scrape.
type Collector struct {
	logger *Logger

	queueDepth       *prometheus.Desc
	throttle         *prometheus.Desc
	enqueued         *prometheus.Desc
	dropped          *prometheus.Desc
	dispatchedLogs   *prometheus.Desc
	dispatchedPrints *prometheus.Desc
	filtered         *prometheus.Desc
	rotations        *prometheus.Desc
	inertSinks       *prometheus.Desc
}

// NewCollector creates a collector for l. Register it with a
// prometheus.Registerer to expose it.
func NewCollector(l *Logger) *Collector {
	return &Collector{
		logger: l,
		queueDepth: prometheus.NewDesc("mclog_queue_depth",
			"Records waiting for dispatch.", nil, nil),
		throttle: prometheus.NewDesc("mclog_throttle_microseconds",
			"Current producer throttle delay.", nil, nil),
		enqueued: prometheus.NewDesc("mclog_records_enqueued_total",
			"Records accepted into the queue.", nil, nil),
		dropped: prometheus.NewDesc("mclog_records_dropped_total",
			"Records dropped at the hard threshold or after shutdown.", nil, nil),
		dispatchedLogs: prometheus.NewDesc("mclog_records_dispatched_total",
			"Log records handed to sinks.", nil, nil),
		dispatchedPrints: prometheus.NewDesc("mclog_prints_dispatched_total",
			"Print records handed to sinks.", nil, nil),
		filtered: prometheus.NewDesc("mclog_records_filtered_total",
			"Log records rejected by the filter at dispatch.", nil, nil),
		rotations: prometheus.NewDesc("mclog_rotations_total",
			"Rotation requests served.", nil, nil),
		inertSinks: prometheus.NewDesc("mclog_sinks_inert",
			"Installed sinks that are disabled.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.queueDepth
	ch <- c.throttle
	ch <- c.enqueued
	ch <- c.dropped
	ch <- c.dispatchedLogs
	ch <- c.dispatchedPrints
	ch <- c.filtered
	ch <- c.rotations
	ch <- c.inertSinks
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.logger.Stats()
	ch <- prometheus.MustNewConstMetric(c.queueDepth, prometheus.GaugeValue, float64(st.QueueDepth))
	ch <- prometheus.MustNewConstMetric(c.throttle, prometheus.GaugeValue, float64(st.ThrottleUs))
	ch <- prometheus.MustNewConstMetric(c.enqueued, prometheus.CounterValue, float64(st.Enqueued))
	ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(st.Dropped))
	ch <- prometheus.MustNewConstMetric(c.dispatchedLogs, prometheus.CounterValue, float64(st.DispatchedLogs))
	ch <- prometheus.MustNewConstMetric(c.dispatchedPrints, prometheus.CounterValue, float64(st.DispatchedPrints))
	ch <- prometheus.MustNewConstMetric(c.filtered, prometheus.CounterValue, float64(st.Filtered))
	ch <- prometheus.MustNewConstMetric(c.rotations, prometheus.CounterValue, float64(st.Rotations))
	ch <- prometheus.MustNewConstMetric(c.inertSinks, prometheus.GaugeValue, float64(st.InertSinks))
}
