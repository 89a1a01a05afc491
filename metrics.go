package registry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a Middleware that exports resolution counters to Prometheus.
type Metrics struct {
	resolutions *prometheus.CounterVec
	rejections  prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// namespace prefixes every metric name and may be empty.
//
// Example:
//
//	m, err := registry.NewMetrics(prometheus.DefaultRegisterer, "app")
//	r := registry.New(registry.WithMiddleware(m))
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "service_registry",
			Name:      "resolutions_total",
			Help:      "Service lookups by where the service was found.",
		}, []string{"source"}),
		rejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "service_registry",
			Name:      "factory_rejections_total",
			Help:      "Factory results discarded because they did not satisfy their identifier.",
		}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.resolutions, m.rejections} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

// BeforeResolve implements Middleware.
func (m *Metrics) BeforeResolve(ServiceID) {}

// AfterResolve implements Middleware.
func (m *Metrics) AfterResolve(_ ServiceID, _ any, source Source) {
	m.resolutions.WithLabelValues(source.String()).Inc()
}

// FactoryRejected implements FactoryObserver.
func (m *Metrics) FactoryRejected(ServiceID, any) {
	m.rejections.Inc()
}
