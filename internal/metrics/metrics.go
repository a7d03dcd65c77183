package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wololo"

var (
	Wakes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wake_total",
		Help:      "Wake requests by result.",
	}, []string{"result"})

	InventoryRefreshes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inventory_refresh_total",
		Help:      "Router inventory refresh attempts by result.",
	}, []string{"result"})

	InventoryRefreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "inventory_refresh_duration_seconds",
		Help:      "Duration of router inventory refreshes.",
		Buckets:   prometheus.DefBuckets,
	})

	InventoryHosts = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "inventory_hosts",
		Help:      "Machines in the current router inventory snapshot.",
	})

	InventoryHostErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inventory_host_errors_total",
		Help:      "Per-host inventory records dropped because they could not be fetched or parsed.",
	})
)

var registry = prometheus.NewRegistry()

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		Wakes,
		InventoryRefreshes,
		InventoryRefreshDuration,
		InventoryHosts,
		InventoryHostErrors,
	)
}

// Handler serves the wololo registry in the Prometheus exposition format
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
