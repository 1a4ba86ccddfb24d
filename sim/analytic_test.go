package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMMSMetrics_SingleServerMatchesMM1(t *testing.T) {
	lambda, mu := 1.0/3.0, 0.4
	got, ok := MMSMetrics(lambda, mu, 1)
	require.True(t, ok)

	rho := lambda / mu
	assert.InDelta(t, rho, got.Rho, 1e-12)
	assert.InDelta(t, rho, got.ProbWait, 1e-12)
	assert.InDelta(t, rho/(mu-lambda), got.AvgWaitTime, 1e-9)
	assert.InDelta(t, 1/(mu-lambda), got.AvgRespTime, 1e-9)
	assert.InDelta(t, rho*rho/(1-rho), got.AvgQueueLength, 1e-9)
	assert.InDelta(t, rho/(1-rho), got.AvgNumInSystem, 1e-9)
}

func TestMMSMetrics_ThreeServers(t *testing.T) {
	// a = 2, s = 3: P0 = 1/9, C = 4/9
	got, ok := MMSMetrics(2, 1, 3)
	require.True(t, ok)
	assert.InDelta(t, 4.0/9.0, got.ProbWait, 1e-12)
	assert.InDelta(t, 4.0/9.0, got.AvgWaitTime, 1e-12)
	assert.InDelta(t, 8.0/9.0, got.AvgQueueLength, 1e-12)
}

func TestMMSMetrics_Unstable(t *testing.T) {
	tests := []struct {
		name    string
		lambda  float64
		mu      float64
		servers int
	}{
		{"saturated", 1, 1, 1},
		{"overloaded", 5, 1, 2},
		{"zero lambda", 0, 1, 1},
		{"zero mu", 1, 0, 1},
		{"no servers", 1, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := MMSMetrics(tt.lambda, tt.mu, tt.servers)
			assert.False(t, ok)
		})
	}
}

func TestMMSMetrics_WaitDecreasesWithServers(t *testing.T) {
	prev, ok := MMSMetrics(1.0/3.0, 0.4, 1)
	require.True(t, ok)
	for s := 2; s <= 6; s++ {
		cur, ok := MMSMetrics(1.0/3.0, 0.4, s)
		require.True(t, ok)
		assert.Less(t, cur.AvgWaitTime, prev.AvgWaitTime)
		prev = cur
	}
}

func TestSimulate_ConvergesToMMS(t *testing.T) {
	if testing.Short() {
		t.Skip("long-horizon convergence check")
	}
	// GIVEN a stable M/M/2 queue (ρ ≈ 0.42) and long horizons
	params := SimulationParameters{ArrivalRate: 1.0 / 3.0, ServiceRate: 0.4, ServerCount: 2, Horizon: 20_000}
	theory, ok := MMSMetrics(params.ArrivalRate, params.ServiceRate, params.ServerCount)
	require.True(t, ok)

	// WHEN averaged over independent replicas
	costs := CostModel{SLATargetPct: 90, SLATimeThreshold: 10}
	replicas := make([]ReplicaResult, 0, 20)
	for r := 1; r <= 20; r++ {
		records := Simulate(params, NewPartitionedRNG(ReplicaKey(2024, params.ServerCount, r)))
		replicas = append(replicas, costs.Evaluate(r, records, params))
	}
	summary := Summarize(params.ServerCount, replicas, costs.SLATargetPct)

	// THEN Little's-law queue length and sojourn land near the Erlang C values
	assert.InEpsilon(t, theory.AvgQueueLength, summary.MeanQueueLength, 0.2)
	assert.InEpsilon(t, theory.AvgRespTime, summary.MeanSojourn, 0.05)
}
