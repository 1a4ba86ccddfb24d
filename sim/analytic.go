package sim

import (
	"bytes"
	"fmt"
)

// Theory holds steady-state M/M/s performance measures.
type Theory struct {
	Rho            float64 `json:"rho"`            // utilization λ/(sμ)
	ProbWait       float64 `json:"prob_wait"`      // Erlang C: P(arrival waits)
	AvgWaitTime    float64 `json:"avg_wait"`       // Wq
	AvgRespTime    float64 `json:"avg_sojourn"`    // W = Wq + 1/μ
	AvgQueueLength float64 `json:"avg_queue"`      // Lq = λ·Wq
	AvgNumInSystem float64 `json:"avg_num_in_sys"` // L = λ·W
}

// MMSMetrics solves the M/M/s queue for the given rates and server count.
// ok is false when the queue is unstable (ρ >= 1) or the input is not
// positive; in that case no steady state exists.
func MMSMetrics(lambda, mu float64, servers int) (Theory, bool) {
	if lambda <= 0 || mu <= 0 || servers < 1 {
		return Theory{}, false
	}
	s := float64(servers)
	a := lambda / mu // offered load in Erlangs
	rho := a / s
	if rho >= 1 {
		return Theory{Rho: rho}, false
	}

	// Erlang B by the stable recurrence, then convert to Erlang C.
	b := 1.0
	for k := 1; k <= servers; k++ {
		b = a * b / (float64(k) + a*b)
	}
	c := b / (1 - rho*(1-b))

	wq := c / (s*mu - lambda)
	w := wq + 1/mu
	return Theory{
		Rho:            rho,
		ProbWait:       c,
		AvgWaitTime:    wq,
		AvgRespTime:    w,
		AvgQueueLength: lambda * wq,
		AvgNumInSystem: lambda * w,
	}, true
}

func (t Theory) String() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "rho=%v; C=%v; ", t.Rho, t.ProbWait)
	fmt.Fprintf(&b, "W=%v; Wq=%v; ", t.AvgRespTime, t.AvgWaitTime)
	fmt.Fprintf(&b, "L=%v; Lq=%v", t.AvgNumInSystem, t.AvgQueueLength)
	return b.String()
}
