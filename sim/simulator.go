// sim/simulator.go
package sim

import "github.com/sirupsen/logrus"

// SimulationParameters describes one replica. Immutable per run.
type SimulationParameters struct {
	ArrivalRate float64 // λ, customers per time unit (> 0)
	ServiceRate float64 // μ, customers per time unit per server (> 0)
	ServerCount int     // s (>= 1)
	Horizon     float64 // T, length of the simulated day (> 0)
}

// Utilization returns ρ = λ/(s·μ).
func (p SimulationParameters) Utilization() float64 {
	return p.ArrivalRate / (float64(p.ServerCount) * p.ServiceRate)
}

// CustomerRecord is the outcome of one admitted arrival.
type CustomerRecord struct {
	ArrivalTime      float64 `json:"arrival_time"`
	ServiceStartTime float64 `json:"service_start_time"`
	DepartureTime    float64 `json:"departure_time"`
}

// WaitTime is the time spent queueing before service (Wq).
func (c CustomerRecord) WaitTime() float64 {
	return c.ServiceStartTime - c.ArrivalTime
}

// SojournTime is the total time in the system (W).
func (c CustomerRecord) SojournTime() float64 {
	return c.DepartureTime - c.ArrivalTime
}

// ServiceTime is the time spent being served.
func (c CustomerRecord) ServiceTime() float64 {
	return c.DepartureTime - c.ServiceStartTime
}

// Simulate runs one replica: it drives an ArrivalGenerator on the arrival
// stream of rng and hands every arrival to a fresh ServerPool drawing on the
// service stream. Records are returned in arrival order. No arrivals before
// the horizon yields an empty, non-nil slice.
func Simulate(params SimulationParameters, rng *PartitionedRNG) []CustomerRecord {
	arrivals := NewArrivalGenerator(params.ArrivalRate, params.Horizon, rng.ForSubsystem(SubsystemArrival))
	pool := NewServerPool(params.ServerCount, params.ServiceRate, rng.ForSubsystem(SubsystemService))

	records := make([]CustomerRecord, 0, initialCapacity(params.ArrivalRate*params.Horizon))
	for {
		arrival, ok := arrivals.Next()
		if !ok {
			break
		}
		start, departure := pool.Assign(arrival)
		records = append(records, CustomerRecord{
			ArrivalTime:      arrival,
			ServiceStartTime: start,
			DepartureTime:    departure,
		})
	}

	logrus.Tracef("replica key=%d servers=%d: %d customers before horizon %.1f",
		rng.Key(), params.ServerCount, len(records), params.Horizon)
	return records
}

// initialCapacity sizes the record slice for roughly λT arrivals, capped so
// extreme parameters grow the slice on demand instead of preallocating.
func initialCapacity(expected float64) int {
	const maxPrealloc = 1 << 20
	if expected >= maxPrealloc {
		return maxPrealloc
	}
	return int(expected*1.125) + 1
}
