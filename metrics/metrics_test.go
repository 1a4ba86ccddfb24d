package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServersLabel(t *testing.T) {
	assert.Equal(t, "3", ServersLabel(3))
}

func TestResetSweepGauges(t *testing.T) {
	// GIVEN gauges left over from a previous sweep
	LevelMeanTotalCost.WithLabelValues(ServersLabel(1)).Set(1200)
	LevelMeanTotalCost.WithLabelValues(ServersLabel(2)).Set(800)
	BestServerCount.Set(2)
	require.Equal(t, 2, testutil.CollectAndCount(LevelMeanTotalCost))

	// WHEN a new sweep starts
	ResetSweepGauges()

	// THEN no stale level survives
	assert.Equal(t, 0, testutil.CollectAndCount(LevelMeanTotalCost))
	assert.Equal(t, 0.0, testutil.ToFloat64(BestServerCount))
}

func TestRegistryExposesStaffsimNamespace(t *testing.T) {
	ReplicasTotal.WithLabelValues(ServersLabel(1)).Inc()

	want := `
# HELP staffsim_best_server_count Staffing level with the minimum mean total cost in the latest sweep
# TYPE staffsim_best_server_count gauge
staffsim_best_server_count 4
`
	BestServerCount.Set(4)
	assert.NoError(t, testutil.GatherAndCompare(Registry, strings.NewReader(want), "staffsim_best_server_count"))

	families, err := Registry.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		assert.True(t, strings.HasPrefix(mf.GetName(), "staffsim_"), mf.GetName())
	}
}
