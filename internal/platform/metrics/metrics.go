package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the HTTP and leave ledger metrics of one registry.
type Collector struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	balancesCreated prometheus.Counter
	balancesSkipped prometheus.Counter
	generationRuns  prometheus.Counter
	postings        *prometheus.CounterVec
	encashmentsPaid prometheus.Counter
	policiesRetired prometheus.Counter
}

func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hrleave_http_requests_total",
			Help: "HTTP requests by method and status code",
		}, []string{"method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hrleave_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method"}),
		balancesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "hrleave_balances_created_total",
			Help: "Leave balances created by generation runs",
		}),
		balancesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "hrleave_balances_skipped_total",
			Help: "Generation entries skipped because the balance already existed",
		}),
		generationRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "hrleave_generation_runs_total",
			Help: "Completed balance generation runs",
		}),
		postings: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hrleave_ledger_postings_total",
			Help: "Committed ledger postings by transaction type",
		}, []string{"type"}),
		encashmentsPaid: factory.NewCounter(prometheus.CounterOpts{
			Name: "hrleave_encashments_paid_total",
			Help: "Encashments marked as paid",
		}),
		policiesRetired: factory.NewCounter(prometheus.CounterOpts{
			Name: "hrleave_policies_retired_total",
			Help: "Leave policies retired",
		}),
	}
}

func (c *Collector) Record(method string, status int, duration time.Duration) {
	c.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

func (c *Collector) BalancesGenerated(created, skipped int) {
	c.generationRuns.Inc()
	c.balancesCreated.Add(float64(created))
	c.balancesSkipped.Add(float64(skipped))
}

func (c *Collector) TransactionPosted(transactionType string) {
	c.postings.WithLabelValues(transactionType).Inc()
}

func (c *Collector) EncashmentPaid() {
	c.encashmentsPaid.Inc()
}

func (c *Collector) PolicyRetired() {
	c.policiesRetired.Inc()
}
