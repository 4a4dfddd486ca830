package apiclient

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts upstream API traffic.
type Metrics struct {
	requests *prometheus.CounterVec
	refresh  *prometheus.CounterVec
}

// NewMetrics registers the client counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalyst_api_requests_total",
			Help: "Upstream API calls by method and status.",
		}, []string{"method", "status"}),
		refresh: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalyst_api_refresh_total",
			Help: "Access token refresh attempts by outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.refresh)
	}
	return m
}

func (m *Metrics) observeRequest(method string, status int) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(method, label).Inc()
}

func (m *Metrics) observeRefresh(err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.refresh.WithLabelValues(outcome).Inc()
}
