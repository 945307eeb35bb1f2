package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheus_WritesRecordedMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheus(reg, "")

	rec.RecordRoundRun(1, 12, 3)
	rec.RecordRoundRun(1, 11, 2)
	rec.RecordManualAssignment(1)
	rec.RecordResubmission()

	path := filepath.Join(t.TempDir(), "slotter.prom")
	require.NoError(t, WriteTextfile(path, reg))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)

	assert.Contains(t, out, `slotter_round_runs_total{round="1"} 2`)
	assert.Contains(t, out, `slotter_assignments_total{origin="automatic",round="1"} 23`)
	assert.Contains(t, out, `slotter_assignments_total{origin="manual",round="1"} 1`)
	assert.Contains(t, out, `slotter_manual_needed{round="1"} 2`, "gauge keeps the latest run")
	assert.Contains(t, out, `slotter_resubmissions_total 1`)
}

func TestPrometheus_CustomNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheus(reg, "club").RecordResubmission()

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "club_resubmissions_total", families[0].GetName())
}

func TestNop_AcceptsEverything(t *testing.T) {
	var rec Recorder = Nop{}
	assert.NotPanics(t, func() {
		rec.RecordRoundRun(1, 1, 1)
		rec.RecordManualAssignment(2)
		rec.RecordResubmission()
	})
}
