package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AssignmentMetrics records outcomes of assignment operations.
type AssignmentMetrics struct {
	duration    *prometheus.HistogramVec
	success     *prometheus.CounterVec
	failure     *prometheus.CounterVec
	reconciled  prometheus.Counter
	provisioned prometheus.Counter
}

// NewAssignmentMetrics registers the assignment metrics on the provided
// registerer. A nil registerer yields a no-op collector.
func NewAssignmentMetrics(reg prometheus.Registerer) *AssignmentMetrics {
	if reg == nil {
		return &AssignmentMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "assignment_operation_duration_seconds",
		Help:    "Duration of assignment operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignment_operation_success",
		Help: "Successful assignment operations.",
	}, []string{"operation"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignment_operation_failure",
		Help: "Failed assignment operations.",
	}, []string{"operation"})
	reconciled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assignment_reconciled_total",
		Help: "Assignments of other agents stripped during reconciliation.",
	})
	provisioned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "candidate_profiles_provisioned_total",
		Help: "Candidate profiles lazily created by the provisioner.",
	})
	reg.MustRegister(duration, success, failure, reconciled, provisioned)
	return &AssignmentMetrics{
		duration:    duration,
		success:     success,
		failure:     failure,
		reconciled:  reconciled,
		provisioned: provisioned,
	}
}

// ObserveDuration records the duration for the named operation.
func (m *AssignmentMetrics) ObserveDuration(operation string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named operation.
func (m *AssignmentMetrics) IncSuccess(operation string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncFailure increments the failure counter for the named operation.
func (m *AssignmentMetrics) IncFailure(operation string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(operation)).Inc()
}

// AddReconciled counts assignments stripped by the reconciler.
func (m *AssignmentMetrics) AddReconciled(count int) {
	if m == nil || m.reconciled == nil || count <= 0 {
		return
	}
	m.reconciled.Add(float64(count))
}

// AddProvisioned counts lazily created candidate profiles.
func (m *AssignmentMetrics) AddProvisioned(count int) {
	if m == nil || m.provisioned == nil || count <= 0 {
		return
	}
	m.provisioned.Add(float64(count))
}

func normalizeLabel(operation string) string {
	if operation == "" {
		return "unknown"
	}
	return operation
}
