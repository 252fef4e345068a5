package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Fulfillment struct {
	Orders       *prometheus.CounterVec
	StockRejects *prometheus.CounterVec
	LatencyMS    prometheus.Histogram
}

func NewFulfillment(service string) *Fulfillment {
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pos",
		Subsystem: service,
		Name:      "orders_total",
		Help:      "Fulfillment attempts by outcome.",
	}, []string{"outcome"})
	rejects := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pos",
		Subsystem: service,
		Name:      "stock_rejects_total",
		Help:      "Orders rejected for insufficient stock, by menu item.",
	}, []string{"item"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pos",
		Subsystem: service,
		Name:      "fulfillment_duration_ms",
		Help:      "Order fulfillment latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	})

	prometheus.MustRegister(orders, rejects, latency)
	return &Fulfillment{Orders: orders, StockRejects: rejects, LatencyMS: latency}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
