package terrain

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	levelLabel = "level"
)

var (
	lodUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "terrain_lod_updates_total",
		Help: "The total number of full-grid LOD updates.",
	})

	lodUpdateLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "terrain_lod_update_seconds",
		Help:    "The time spent selecting levels and versions for all patches.",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
	})

	patchesByLevel = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "terrain_patches_by_level",
		Help: "The number of patches at each detail level after the last update.",
	}, []string{levelLabel})

	indexBufferSwitches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "terrain_index_buffer_switches_total",
		Help: "The total number of times a patch changed index buffer.",
	})

	indexBuffers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "terrain_index_buffers",
		Help: "The number of live cached index buffers.",
	})
)

func instrumentIndexBuffers(delta int) {
	indexBuffers.Add(float64(delta))
}

// levelGauges resolves the per-level gauges once per Root.
func levelGauges(maxLevel int) []prometheus.Gauge {
	gauges := make([]prometheus.Gauge, maxLevel+1)
	for level := range gauges {
		gauges[level] = patchesByLevel.WithLabelValues(strconv.Itoa(level))
	}
	return gauges
}

func instrumentUpdate(took time.Duration, switches int, levels []int, gauges []prometheus.Gauge) {
	lodUpdates.Inc()
	lodUpdateLatency.Observe(took.Seconds())
	indexBufferSwitches.Add(float64(switches))
	for level, n := range levels {
		gauges[level].Set(float64(n))
	}
}
