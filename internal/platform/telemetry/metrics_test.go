package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		byName[f.GetName()] = f
	}

	return byName
}

func TestSyncMetrics_ObserveRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSyncMetrics(reg)

	m.ObserveRun(OutcomeSuccess, 0.2, 2)
	m.ObserveRun(OutcomeSuccess, 0.1, 0)
	m.ObserveRun(OutcomeFailed, 0.05, 0)

	families := gather(t, reg)

	runs := families["quotes_sync_runs_total"]
	require.NotNil(t, runs)

	byOutcome := map[string]float64{}
	for _, metric := range runs.GetMetric() {
		byOutcome[metric.GetLabel()[0].GetValue()] = metric.GetCounter().GetValue()
	}

	assert.Equal(t, 2.0, byOutcome[OutcomeSuccess])
	assert.Equal(t, 1.0, byOutcome[OutcomeFailed])

	unmerged := families["quotes_sync_unmerged_local_total"]
	require.NotNil(t, unmerged)
	assert.Equal(t, 2.0, unmerged.GetMetric()[0].GetCounter().GetValue())

	duration := families["quotes_sync_duration_seconds"]
	require.NotNil(t, duration)
	assert.Equal(t, uint64(3), duration.GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestSyncMetrics_CollectionSizeAndPushes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSyncMetrics(reg)

	m.SetCollectionSize(7)
	m.ObservePush(OutcomeSuccess)
	m.ObservePush(OutcomeFailed)
	m.ObservePush(OutcomeFailed)

	families := gather(t, reg)

	assert.Equal(t, 7.0, families["quotes_collection_size"].GetMetric()[0].GetGauge().GetValue())

	pushes := families["quotes_sync_pushes_total"]
	require.NotNil(t, pushes)
	assert.Len(t, pushes.GetMetric(), 2)
}

func TestSyncMetrics_NilReceiver(t *testing.T) {
	var m *SyncMetrics

	assert.NotPanics(t, func() {
		m.ObserveRun(OutcomeSuccess, 1, 1)
		m.ObservePush(OutcomeFailed)
		m.SetCollectionSize(3)
	})
}
