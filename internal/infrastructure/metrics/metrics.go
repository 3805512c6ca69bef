// Package metrics colectores Prometheus del motor contable y de la API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "haci"

// Recorder agrupa los colectores. Se registra en un Registry propio para que
// las pruebas no choquen con el registro global.
type Recorder struct {
	Registry *prometheus.Registry

	intents        *prometheus.CounterVec
	intentDuration *prometheus.HistogramVec
	storeOps       *prometheus.CounterVec
	watchOverdue   prometheus.Gauge
	httpRequests   *prometheus.CounterVec
}

// New crea el registry con los colectores del proceso y de Go.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Recorder{
		Registry: reg,
		intents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "intents_total",
			Help:      "Intenciones aplicadas al árbol de estado, por tipo y resultado.",
		}, []string{"intent", "result"}),
		intentDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "intent_duration_seconds",
			Help:      "Duración de cargar, aplicar y guardar una intención.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"intent"}),
		storeOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Operaciones contra el almacén de estado.",
		}, []string{"op", "result"}),
		watchOverdue: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "watch",
			Name:      "overdue_items",
			Help:      "Elementos vencidos en la última lista calculada.",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Peticiones HTTP por método, ruta y código.",
		}, []string{"method", "route", "status"}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveIntent registra una intención despachada.
func (r *Recorder) ObserveIntent(kind string, took time.Duration, err error) {
	if r == nil {
		return
	}
	r.intents.WithLabelValues(kind, result(err)).Inc()
	r.intentDuration.WithLabelValues(kind).Observe(took.Seconds())
}

// ObserveStore registra una operación del almacén.
func (r *Recorder) ObserveStore(op string, err error) {
	if r == nil {
		return
	}
	r.storeOps.WithLabelValues(op, result(err)).Inc()
}

// SetOverdue publica cuántos elementos vencidos tiene la lista recién calculada.
func (r *Recorder) SetOverdue(n int) {
	if r == nil {
		return
	}
	r.watchOverdue.Set(float64(n))
}

// ObserveHTTP registra una petición atendida.
func (r *Recorder) ObserveHTTP(method, route, status string) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, route, status).Inc()
}
