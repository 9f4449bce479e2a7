package metrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

//nolint:gochecknoglobals
var (
	reg       = prometheus.NewRegistry()
	startOnce sync.Once
)

// RegisterMetric registers prometheus collector
func RegisterMetric(c prometheus.Collector) {
	_ = reg.Register(c)
}

// StartCollection registers the collectors and starts listening for zonegen events.
// Further calls have no effect.
func StartCollection() {
	startOnce.Do(func() {
		_ = reg.Register(collectors.NewGoCollector())

		RegisterEventListeners()
	})
}

// WriteTextfile writes all metrics in the text exposition format, for the node exporter textfile collector
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("can't write metrics: %w", err)
	}

	return nil
}
