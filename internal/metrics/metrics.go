// metrics — Prometheus-метрики прокси-маршрута.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "conecta"

type Proxy struct {
	requests         *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	upstreamErrors   prometheus.Counter
}

// NewProxy регистрирует метрики в reg; nil — prometheus.DefaultRegisterer.
func NewProxy(reg prometheus.Registerer) *Proxy {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Proxy{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "proxy",
			Name:      "requests_total",
			Help:      "Requests served by the /api proxy route, by method and response code.",
		}, []string{"method", "code"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "proxy",
			Name:      "upstream_duration_seconds",
			Help:      "Latency of upstream calls made by the proxy.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		upstreamErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "proxy",
			Name:      "upstream_errors_total",
			Help:      "Upstream calls that failed without an HTTP response.",
		}),
	}

	reg.MustRegister(m.requests, m.upstreamDuration, m.upstreamErrors)

	return m
}

// ObserveRequest учитывает отданный клиенту ответ. Nil-safe.
func (m *Proxy) ObserveRequest(method string, code int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, strconv.Itoa(code)).Inc()
}

// ObserveUpstream учитывает вызов апстрима; failed — ответа не было.
func (m *Proxy) ObserveUpstream(method string, dur time.Duration, failed bool) {
	if m == nil {
		return
	}
	m.upstreamDuration.WithLabelValues(method).Observe(dur.Seconds())
	if failed {
		m.upstreamErrors.Inc()
	}
}
