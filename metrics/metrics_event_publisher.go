package metrics

import (
	"fmt"
	"time"

	"github.com/0xERR0R/zonegen/evt"
	"github.com/0xERR0R/zonegen/util"

	"github.com/prometheus/client_golang/prometheus"
)

// RegisterEventListeners registers all metric handlers by the event bus
func RegisterEventListeners() {
	registerZoneEventListeners()
	registerKeyEventListeners()
	registerParserEventListeners()
}

func registerZoneEventListeners() {
	generated := zonesGeneratedCount()
	records := recordsRenderedGauge()
	serial := serialGauge()
	lastGeneration := lastGenerationGauge()
	increments := serialIncrementCount()

	RegisterMetric(generated)
	RegisterMetric(records)
	RegisterMetric(serial)
	RegisterMetric(lastGeneration)
	RegisterMetric(increments)

	subscribe(evt.ZoneGenerated, func(zone string, zoneSerial uint32, count int) {
		generated.WithLabelValues(zone).Inc()
		records.WithLabelValues(zone).Set(float64(count))
		serial.WithLabelValues(zone).Set(float64(zoneSerial))
		lastGeneration.WithLabelValues(zone).Set(float64(time.Now().Unix()))
	})

	subscribe(evt.SerialIncremented, func(zone string, _, _ uint32) {
		increments.WithLabelValues(zone).Inc()
	})
}

func zonesGeneratedCount() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zonegen_zones_generated_total",
			Help: "Number of zone file generations",
		}, []string{"zone"},
	)
}

func recordsRenderedGauge() *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "zonegen_zone_records",
			Help: "Number of records in the last generated zone file",
		}, []string{"zone"},
	)
}

func serialGauge() *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "zonegen_zone_serial",
			Help: "SOA serial of the last generated zone file",
		}, []string{"zone"},
	)
}

func lastGenerationGauge() *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "zonegen_last_generation_timestamp_seconds",
			Help: "Timestamp of the last zone file generation",
		}, []string{"zone"},
	)
}

func serialIncrementCount() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zonegen_serial_increments_total",
			Help: "Number of serial increments",
		}, []string{"zone"},
	)
}

func registerKeyEventListeners() {
	imported := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zonegen_keys_imported_total",
			Help: "Number of imported DNSSEC keys",
		}, []string{"zone", "role"},
	)

	RegisterMetric(imported)

	subscribe(evt.KeyImported, func(zone string, _ uint16, ksk bool) {
		role := "zsk"
		if ksk {
			role = "ksk"
		}

		imported.WithLabelValues(zone, role).Inc()
	})
}

func registerParserEventListeners() {
	skipped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zonegen_skipped_lines_total",
			Help: "Number of zone file lines that could not be parsed",
		}, []string{"zone"},
	)

	RegisterMetric(skipped)

	subscribe(evt.LineSkipped, func(zone, _ string) {
		skipped.WithLabelValues(zone).Inc()
	})
}

func subscribe(topic string, fn interface{}) {
	util.FatalOnError(fmt.Sprintf("can't subscribe topic '%s'", topic), evt.Bus().Subscribe(topic, fn))
}
