package sim

import "gonum.org/v1/gonum/stat"

// StaffingLevelSummary reduces the replicas of one staffing level.
type StaffingLevelSummary struct {
	ServerCount       int     `json:"servers"`
	MeanTotalCost     float64 `json:"mean_total_cost"`
	StdevTotalCost    float64 `json:"stdev_total_cost"`
	MeanPctSLA        float64 `json:"mean_pct_sla"`
	MeanSojourn       float64 `json:"mean_sojourn"`
	MeanWait          float64 `json:"mean_wait"`
	MeanQueueLength   float64 `json:"mean_queue_length"`
	MeanCustomerCount float64 `json:"mean_customers"`
	MeanOperatingCost float64 `json:"mean_operating_cost"`
	MeanWaitingCost   float64 `json:"mean_waiting_cost"`
	MeanSLAPenalty    float64 `json:"mean_sla_penalty"`
	MeetsSLA          bool    `json:"meets_sla"`
	IsBestCandidate   bool    `json:"is_best"`
	UtilizationPct    float64 `json:"utilization_pct"`
	Theory            *Theory `json:"theory,omitempty"` // nil when the level is unstable (ρ >= 1)

	Replicas []ReplicaResult `json:"replicas,omitempty"`
}

// Summarize computes the arithmetic mean of every numeric replica field and
// the sample standard deviation of total cost (0 for a single replica).
// MeetsSLA compares the mean SLA percentage with slaTargetPct. Summarize is a
// pure reduction: the same input always yields the same summary.
func Summarize(serverCount int, replicas []ReplicaResult, slaTargetPct float64) StaffingLevelSummary {
	n := len(replicas)
	var (
		total     = make([]float64, n)
		pct       = make([]float64, n)
		sojourn   = make([]float64, n)
		wait      = make([]float64, n)
		queue     = make([]float64, n)
		customers = make([]float64, n)
		operating = make([]float64, n)
		waiting   = make([]float64, n)
		penalty   = make([]float64, n)
	)
	for i, r := range replicas {
		total[i] = r.TotalCost
		pct[i] = r.PctWithinSLA
		sojourn[i] = r.MeanSojourn
		wait[i] = r.MeanWait
		queue[i] = r.MeanQueueLength
		customers[i] = float64(r.CustomerCount)
		operating[i] = r.OperatingCost
		waiting[i] = r.WaitingCost
		penalty[i] = r.SLAPenalty
	}

	s := StaffingLevelSummary{
		ServerCount:       serverCount,
		MeanTotalCost:     mean(total),
		MeanPctSLA:        mean(pct),
		MeanSojourn:       mean(sojourn),
		MeanWait:          mean(wait),
		MeanQueueLength:   mean(queue),
		MeanCustomerCount: mean(customers),
		MeanOperatingCost: mean(operating),
		MeanWaitingCost:   mean(waiting),
		MeanSLAPenalty:    mean(penalty),
		Replicas:          replicas,
	}
	if n > 1 {
		s.StdevTotalCost = stat.StdDev(total, nil)
	}
	s.MeetsSLA = s.MeanPctSLA >= slaTargetPct
	return s
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}
