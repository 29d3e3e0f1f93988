package segment

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "jiebasearch"

var (
	segmentLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "segment",
			Name:      "latency_seconds",
			Help:      "Time spent segmenting one text.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 10),
		}, []string{"engine"})

	segmentWords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "segment",
			Name:      "words_total",
			Help:      "Words emitted by segmentation, compound and sub-words included.",
		}, []string{"engine"})
)

// RegisterMetrics registers the segmentation metrics with r.
func RegisterMetrics(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{segmentLatency, segmentWords} {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func observe(engine string, start time.Time, words int) {
	segmentLatency.WithLabelValues(engine).Observe(time.Since(start).Seconds())
	segmentWords.WithLabelValues(engine).Add(float64(words))
}
