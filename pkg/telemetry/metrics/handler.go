package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns an HTTP handler for the Prometheus metrics endpoint.
//
// The handler exposes all registered metrics in the standard Prometheus
// exposition format. Watch mode mounts it at /metrics when a metrics
// address is configured:
//
//	http.Handle("/metrics", collector.Handler())
//	http.ListenAndServe(addr, nil)
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(
		c.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			ErrorHandling:     promhttp.ContinueOnError,
		},
	)
}
