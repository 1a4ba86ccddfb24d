// Package capacity runs Monte Carlo replicas of the single-run simulator for
// every staffing level in a range and picks the cheapest level.
package capacity

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/queuecost/staffsim/metrics"
	"github.com/queuecost/staffsim/sim"
)

// UtilizationPoint is the offered utilization of one staffing level.
type UtilizationPoint struct {
	ServerCount    int     `json:"servers"`
	UtilizationPct float64 `json:"utilization_pct"` // λ/(sμ)·100
}

// SweepResult is the outcome of a staffing sweep, ordered by increasing
// server count.
type SweepResult struct {
	Config      Config                     `json:"config"`
	Levels      []sim.StaffingLevelSummary `json:"levels"`
	Utilization []UtilizationPoint         `json:"utilization"`

	// BestServerCount is the level flagged IsBestCandidate.
	BestServerCount int `json:"best_servers"`
	// BestCompliantServerCount is the cheapest level that meets the SLA, or 0.
	BestCompliantServerCount int `json:"best_compliant_servers"`
}

// Best returns the summary flagged as best candidate.
func (r *SweepResult) Best() *sim.StaffingLevelSummary {
	return r.Level(r.BestServerCount)
}

// Level returns the summary for servers, or nil if it was not swept.
func (r *SweepResult) Level(servers int) *sim.StaffingLevelSummary {
	for i := range r.Levels {
		if r.Levels[i].ServerCount == servers {
			return &r.Levels[i]
		}
	}
	return nil
}

// Optimize validates cfg, evaluates every staffing level in
// [MinServers, MaxServers] and flags the best one.
//
// Tie policy: levels are compared on their unrounded MeanTotalCost and, among
// levels sharing the minimum, only the smallest server count is flagged.
//
// Cancelling ctx abandons the sweep; no partial result is returned.
func Optimize(ctx context.Context, cfg Config) (*SweepResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	started := time.Now()
	metrics.ResetSweepGauges()

	levels := cfg.Levels()
	logrus.Infof("Starting sweep: servers=[%d,%d] λ=%v μ=%v replicas=%d horizon=%v seed=%d",
		cfg.MinServers, cfg.MaxServers, cfg.ArrivalRate, cfg.ServiceRate, cfg.Replicas, cfg.Horizon, cfg.Seed)

	replicas, err := runReplicas(ctx, cfg, levels)
	if err != nil {
		return nil, err
	}

	res := &SweepResult{
		Config:      cfg,
		Levels:      make([]sim.StaffingLevelSummary, len(levels)),
		Utilization: make([]UtilizationPoint, len(levels)),
	}
	for i, s := range levels {
		summary := summarizeLevel(cfg, s, replicas[i])
		res.Levels[i] = summary
		res.Utilization[i] = UtilizationPoint{ServerCount: s, UtilizationPct: summary.UtilizationPct}
		metrics.LevelMeanTotalCost.WithLabelValues(metrics.ServersLabel(s)).Set(summary.MeanTotalCost)
	}

	res.BestServerCount = markBest(res.Levels)
	res.BestCompliantServerCount = cheapestCompliant(res.Levels)
	metrics.BestServerCount.Set(float64(res.BestServerCount))

	elapsed := time.Since(started)
	metrics.SweepDurationSeconds.Observe(elapsed.Seconds())
	logrus.Infof("Sweep complete in %v: best=%d servers, cheapest meeting SLA=%d",
		elapsed, res.BestServerCount, res.BestCompliantServerCount)
	return res, nil
}

// Replicate runs cfg.Replicas replicas for one staffing level and summarises
// them. The range fields of cfg are ignored.
func Replicate(ctx context.Context, cfg Config, servers int) (sim.StaffingLevelSummary, error) {
	cfg.MinServers, cfg.MaxServers = servers, servers
	if err := cfg.Validate(); err != nil {
		return sim.StaffingLevelSummary{}, err
	}
	replicas, err := runReplicas(ctx, cfg, []int{servers})
	if err != nil {
		return sim.StaffingLevelSummary{}, err
	}
	return summarizeLevel(cfg, servers, replicas[0]), nil
}

// runReplicas simulates every (level, replica) pair on a bounded worker pool.
// Each unit owns its RNG and server pool and writes only its own slot, so
// nothing is locked until the caller reduces the table.
func runReplicas(ctx context.Context, cfg Config, levels []int) ([][]sim.ReplicaResult, error) {
	results := make([][]sim.ReplicaResult, len(levels))
	for i := range results {
		results[i] = make([]sim.ReplicaResult, cfg.Replicas)
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for li, s := range levels {
		params := cfg.Params(s)
		label := metrics.ServersLabel(s)
		for r := 1; r <= cfg.Replicas; r++ {
			if gctx.Err() != nil {
				break
			}
			li, s, r := li, s, r // per-iteration copies (pre-Go 1.22 loop semantics)
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				rng := sim.NewPartitionedRNG(replicaKey(cfg, s, r))
				records := sim.Simulate(params, rng)
				results[li][r-1] = cfg.Costs.Evaluate(r, records, params)

				metrics.ReplicasTotal.WithLabelValues(label).Inc()
				metrics.CustomersSimulatedTotal.Add(float64(len(records)))
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("staffing sweep aborted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("staffing sweep aborted: %w", err)
	}
	return results, nil
}

func replicaKey(cfg Config, servers, replica int) sim.SimulationKey {
	if cfg.CommonRandomNumbers {
		return sim.ReplicaKey(cfg.Seed, 0, replica)
	}
	return sim.ReplicaKey(cfg.Seed, servers, replica)
}

func summarizeLevel(cfg Config, servers int, replicas []sim.ReplicaResult) sim.StaffingLevelSummary {
	summary := sim.Summarize(servers, replicas, cfg.Costs.SLATargetPct)
	params := cfg.Params(servers)
	summary.UtilizationPct = params.Utilization() * 100
	if theory, ok := sim.MMSMetrics(cfg.ArrivalRate, cfg.ServiceRate, servers); ok {
		summary.Theory = &theory
	} else {
		logrus.Warnf("servers=%d: ρ=%.3f >= 1, no steady state; the queue grows over the horizon", servers, params.Utilization())
	}
	logrus.Debugf("servers=%d ρ=%.3f mean cost=%.2f (sd %.2f) sla=%.1f%% W=%.2f Wq=%.2f",
		servers, params.Utilization(), summary.MeanTotalCost, summary.StdevTotalCost,
		summary.MeanPctSLA, summary.MeanSojourn, summary.MeanWait)
	return summary
}

// markBest flags the first level holding the minimum mean total cost and
// returns its server count (0 for an empty sweep).
func markBest(levels []sim.StaffingLevelSummary) int {
	best := -1
	for i := range levels {
		levels[i].IsBestCandidate = false
		if best < 0 || levels[i].MeanTotalCost < levels[best].MeanTotalCost {
			best = i
		}
	}
	if best < 0 {
		return 0
	}
	levels[best].IsBestCandidate = true
	return levels[best].ServerCount
}

// cheapestCompliant returns the server count of the cheapest level that meets
// the SLA, or 0 if none does.
func cheapestCompliant(levels []sim.StaffingLevelSummary) int {
	best := -1
	for i := range levels {
		if !levels[i].MeetsSLA {
			continue
		}
		if best < 0 || levels[i].MeanTotalCost < levels[best].MeanTotalCost {
			best = i
		}
	}
	if best < 0 {
		return 0
	}
	return levels[best].ServerCount
}
