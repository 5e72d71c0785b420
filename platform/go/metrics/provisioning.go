package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for admin_provisioning_total.
const (
	OutcomeCreated   = "created"
	OutcomeBootstrap = "bootstrap"
	OutcomeDenied    = "denied"
	OutcomeFailed    = "failed"
)

// Provisioning records createAdmin outcomes. A nil *Provisioning is valid and records nothing.
type Provisioning struct {
	requests *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewProvisioning registers the provisioning collectors on reg.
func NewProvisioning(reg prometheus.Registerer) (*Provisioning, error) {
	p := &Provisioning{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_provisioning_total",
			Help: "createAdmin calls by outcome.",
		}, []string{"outcome"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_provisioning_failures_total",
			Help: "createAdmin failures by the step that failed.",
		}, []string{"step"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "admin_provisioning_duration_seconds",
			Help:    "Wall time of createAdmin calls.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	for _, c := range []prometheus.Collector{p.requests, p.failures, p.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Observe records one finished call.
func (p *Provisioning) Observe(outcome string, elapsed time.Duration) {
	if p == nil {
		return
	}
	p.requests.WithLabelValues(outcome).Inc()
	p.duration.Observe(elapsed.Seconds())
}

// Failed records the step a failed call stopped at.
func (p *Provisioning) Failed(step string) {
	if p == nil {
		return
	}
	p.failures.WithLabelValues(step).Inc()
}
