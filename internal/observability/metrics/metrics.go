package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
)

// Metrics holds the billing-core counters.
type Metrics struct {
	ReadingsIngested *prometheus.CounterVec
	AlarmsFired      *prometheus.CounterVec
	PaymentFailures  prometheus.Counter
	ChartQueries     *prometheus.CounterVec
}

func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ReadingsIngested: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wattpay_readings_ingested_total",
			Help: "Meter readings accepted by the ingestion pipeline.",
		}, []string{"meter_id"}),
		AlarmsFired: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wattpay_alarms_fired_total",
			Help: "Alarm trigger events appended to history.",
		}, []string{"kind"}),
		PaymentFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "wattpay_payment_failures_total",
			Help: "Reading payments that failed or timed out.",
		}),
		ChartQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wattpay_chart_queries_total",
			Help: "Chart aggregation queries served.",
		}, []string{"granularity"}),
	}
}

func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

var Module = fx.Module("observability.metrics",
	fx.Provide(NewRegistry),
	fx.Provide(New),
)
