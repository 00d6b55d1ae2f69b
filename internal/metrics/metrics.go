package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	OrdersAccepted  prometheus.Counter
	OrdersRejected  prometheus.Counter
	OrdersProcessed prometheus.Counter
	TradesExecuted  prometheus.Counter
	QueueDepth      prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		OrdersAccepted: f.NewCounter(prometheus.CounterOpts{
			Name: "matchd_orders_accepted_total",
			Help: "Orders accepted by the gateway and enqueued.",
		}),
		OrdersRejected: f.NewCounter(prometheus.CounterOpts{
			Name: "matchd_orders_rejected_total",
			Help: "Orders rejected by gateway validation.",
		}),
		OrdersProcessed: f.NewCounter(prometheus.CounterOpts{
			Name: "matchd_orders_processed_total",
			Help: "Orders fully processed by the matching engine.",
		}),
		TradesExecuted: f.NewCounter(prometheus.CounterOpts{
			Name: "matchd_trades_executed_total",
			Help: "Trades produced by the matching engine.",
		}),
		QueueDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "matchd_ingest_queue_depth",
			Help: "Orders waiting in the ingestion queue.",
		}),
	}
}
