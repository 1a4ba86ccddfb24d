package sim

import "math"

// CostModel holds the cost and service-level coefficients applied to every
// replica.
type CostModel struct {
	OperatingCostPerServer float64 `json:"operating_cost_per_server"` // per server per time unit
	WaitingCostPerCustomer float64 `json:"waiting_cost_per_customer"` // per customer per time unit in system
	SLAPenaltyCoefficient  float64 `json:"sla_penalty_coefficient"`   // per percentage point below target
	SLATargetPct           float64 `json:"sla_target_pct"`            // in [0, 100]
	SLATimeThreshold       float64 `json:"sla_time_threshold"`        // sojourn time counted as within SLA
}

// Validate checks the coefficients and returns every violation joined.
func (c CostModel) Validate() []error {
	var errs []error
	nonNegative := func(field string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			errs = append(errs, InvalidParameter(field, v, "must be a finite value >= 0"))
		}
	}
	nonNegative("operating_cost_per_server", c.OperatingCostPerServer)
	nonNegative("waiting_cost_per_customer", c.WaitingCostPerCustomer)
	nonNegative("sla_penalty_coefficient", c.SLAPenaltyCoefficient)
	if math.IsNaN(c.SLATargetPct) || c.SLATargetPct < 0 || c.SLATargetPct > 100 {
		errs = append(errs, InvalidParameter("sla_target_pct", c.SLATargetPct, "must be within [0, 100]"))
	}
	if math.IsNaN(c.SLATimeThreshold) || math.IsInf(c.SLATimeThreshold, 0) || c.SLATimeThreshold <= 0 {
		errs = append(errs, InvalidParameter("sla_time_threshold", c.SLATimeThreshold, "must be a finite value > 0"))
	}
	return errs
}

// ReplicaResult is the cost and service-level outcome of one replica.
type ReplicaResult struct {
	ReplicaIndex    int     `json:"replica"`
	MeanSojourn     float64 `json:"mean_sojourn"`
	MeanWait        float64 `json:"mean_wait"`
	MeanQueueLength float64 `json:"mean_queue_length"` // λ × MeanWait (Little's law)
	PctWithinSLA    float64 `json:"pct_within_sla"`
	CustomerCount   int     `json:"customers"`
	OperatingCost   float64 `json:"operating_cost"`
	WaitingCost     float64 `json:"waiting_cost"`
	SLAPenalty      float64 `json:"sla_penalty"`
	TotalCost       float64 `json:"total_cost"`
}

// Evaluate turns one replica's records into a ReplicaResult.
//
// Operating cost depends only on staffing and horizon. An empty replica has
// zero mean times and satisfies the SLA vacuously (100%).
func (c CostModel) Evaluate(index int, records []CustomerRecord, params SimulationParameters) ReplicaResult {
	res := ReplicaResult{
		ReplicaIndex:  index,
		CustomerCount: len(records),
		PctWithinSLA:  100,
		OperatingCost: c.OperatingCostPerServer * float64(params.ServerCount) * params.Horizon,
	}

	if n := len(records); n > 0 {
		var sumSojourn, sumWait float64
		within := 0
		for _, r := range records {
			sojourn := r.SojournTime()
			sumSojourn += sojourn
			sumWait += r.WaitTime()
			if sojourn <= c.SLATimeThreshold {
				within++
			}
		}
		res.MeanSojourn = sumSojourn / float64(n)
		res.MeanWait = sumWait / float64(n)
		res.PctWithinSLA = float64(within) / float64(n) * 100
	}
	res.MeanQueueLength = params.ArrivalRate * res.MeanWait

	res.WaitingCost = c.WaitingCostPerCustomer * res.MeanSojourn * float64(res.CustomerCount)
	res.SLAPenalty = c.SLAPenaltyCoefficient * math.Max(0, c.SLATargetPct-res.PctWithinSLA)
	res.TotalCost = res.OperatingCost + res.WaitingCost + res.SLAPenalty
	return res
}
