// Package metrics provides Prometheus collectors for staffing sweeps.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for staffsim.
var Registry = prometheus.NewRegistry()

// factory registers collectors on Registry directly
var factory = promauto.With(Registry)

// ReplicasTotal counts simulated replicas by staffing level.
var ReplicasTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "staffsim",
	Name:      "replicas_total",
	Help:      "Total number of simulated replicas",
}, []string{"servers"})

// CustomersSimulatedTotal counts customers admitted across all replicas.
var CustomersSimulatedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "staffsim",
	Name:      "customers_simulated_total",
	Help:      "Total customers admitted before the horizon across all replicas",
})

// SweepDurationSeconds tracks wall time of a full staffing sweep.
var SweepDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "staffsim",
	Name:      "sweep_duration_seconds",
	Help:      "Time taken to simulate and evaluate every staffing level",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
})

// LevelMeanTotalCost exposes the latest mean total cost per staffing level.
var LevelMeanTotalCost = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "staffsim",
	Name:      "level_mean_total_cost",
	Help:      "Mean total cost of the staffing level in the latest sweep",
}, []string{"servers"})

// BestServerCount is the staffing level selected by the latest sweep.
var BestServerCount = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "staffsim",
	Name:      "best_server_count",
	Help:      "Staffing level with the minimum mean total cost in the latest sweep",
})

// ServersLabel formats a staffing level as a label value.
func ServersLabel(servers int) string {
	return strconv.Itoa(servers)
}

// ResetSweepGauges clears per-level gauges before a new sweep.
func ResetSweepGauges() {
	LevelMeanTotalCost.Reset()
	BestServerCount.Set(0)
}
