package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives planning events worth counting.
type Recorder interface {
	RecordRoundRun(round, automatic, manualNeeded int)
	RecordManualAssignment(round int)
	RecordResubmission()
}

// Nop discards every event.
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) RecordRoundRun(int, int, int) {}
func (Nop) RecordManualAssignment(int)   {}
func (Nop) RecordResubmission()          {}

// Prometheus records events as Prometheus metrics.
type Prometheus struct {
	roundRuns     *prometheus.CounterVec
	assignments   *prometheus.CounterVec
	manualNeeded  *prometheus.GaugeVec
	resubmissions prometheus.Counter
}

var _ Recorder = (*Prometheus)(nil)

// NewPrometheus registers the slotter metrics on reg. The namespace
// defaults to "slotter".
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	if namespace == "" {
		namespace = "slotter"
	}
	p := &Prometheus{
		roundRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "round_runs_total",
			Help:      "Automatic allocation runs by round.",
		}, []string{"round"}),
		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignments_total",
			Help:      "Slot assignments by round and origin (automatic, manual).",
		}, []string{"round", "origin"}),
		manualNeeded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "manual_needed",
			Help:      "Registrants left for manual assignment by the latest run of a round.",
		}, []string{"round"}),
		resubmissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resubmissions_total",
			Help:      "Registrations that replaced an earlier submission.",
		}),
	}
	reg.MustRegister(p.roundRuns, p.assignments, p.manualNeeded, p.resubmissions)
	return p
}

func (p *Prometheus) RecordRoundRun(round, automatic, manualNeeded int) {
	r := strconv.Itoa(round)
	p.roundRuns.WithLabelValues(r).Inc()
	p.assignments.WithLabelValues(r, "automatic").Add(float64(automatic))
	p.manualNeeded.WithLabelValues(r).Set(float64(manualNeeded))
}

func (p *Prometheus) RecordManualAssignment(round int) {
	p.assignments.WithLabelValues(strconv.Itoa(round), "manual").Inc()
}

func (p *Prometheus) RecordResubmission() {
	p.resubmissions.Inc()
}

// WriteTextfile writes everything gathered by g to path in the text
// exposition format, for pickup by a node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
