// Package metrics exposes Prometheus instruments for calculations and receipts.
package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"phone-bill/core/types"
	"phone-bill/internal/errors"
)

const namespace = "phone_bill"

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds the application counters
type Metrics struct {
	calculations *prometheus.CounterVec
	rejections   *prometheus.CounterVec
	receipts     *prometheus.CounterVec
	overage      *prometheus.HistogramVec
}

// New creates the instruments and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Completed tariff calculations by plan.",
		}, []string{"plan"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_inputs_total",
			Help:      "Requests rejected before reaching the calculator, by error type.",
		}, []string{"reason"}),
		receipts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipts_total",
			Help:      "Receipt generation attempts by format and result.",
		}, []string{"format", "result"}),
		overage: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "overage_minutes",
			Help:      "Minutes billed at the extra rate per calculation.",
			Buckets:   []float64{0, 10, 50, 100, 500, 1000, 10000},
		}, []string{"plan"}),
	}

	if reg != nil {
		reg.MustRegister(m.calculations, m.rejections, m.receipts, m.overage)
	}
	return m
}

// ObserveCalculation records a completed calculation
func (m *Metrics) ObserveCalculation(result types.CalculationResult) {
	plan := string(result.Plan.ID)
	m.calculations.WithLabelValues(plan).Inc()
	m.overage.WithLabelValues(plan).Observe(float64(result.OverageMinutes))
}

// ObserveRejection records rejected input
func (m *Metrics) ObserveRejection(err error) {
	m.rejections.WithLabelValues(Reason(err)).Inc()
}

// ObserveReceipt records a receipt generation attempt
func (m *Metrics) ObserveReceipt(format string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.receipts.WithLabelValues(format, result).Inc()
}

// Reason maps an error to a low-cardinality label value
func Reason(err error) string {
	if t := errors.TypeOf(err); t != "" {
		return strings.ToLower(string(t))
	}
	return "unknown"
}

// Handler serves the metrics gathered by g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
