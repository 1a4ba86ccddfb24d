package capacity

import (
	"errors"
	"math"

	"github.com/queuecost/staffsim/sim"
)

const (
	// DefaultHorizon is an 8-hour operating day in minutes.
	DefaultHorizon = 480.0
	// DefaultReplicas is the number of simulated days per staffing level.
	DefaultReplicas = 10
)

// Config is the sweep input. The collaborator fills it in; Optimize only
// validates it and never clamps.
type Config struct {
	MinServers  int           `json:"min_servers"`
	MaxServers  int           `json:"max_servers"`
	ArrivalRate float64       `json:"arrival_rate"` // λ
	ServiceRate float64       `json:"service_rate"` // μ per server
	Costs       sim.CostModel `json:"costs"`
	Replicas    int           `json:"replicas"`
	Horizon     float64       `json:"horizon"`
	Seed        int64         `json:"seed"`

	// CommonRandomNumbers gives every staffing level the same arrival and
	// service streams for a given replica index.
	CommonRandomNumbers bool `json:"common_random_numbers"`

	// Workers bounds concurrent replicas; 0 means GOMAXPROCS.
	Workers int `json:"-"`
}

// DefaultConfig returns the reference scenario defaults: a single server,
// 10 replicas of a 480-minute day and a 90% within 10 minutes SLA.
func DefaultConfig() Config {
	return Config{
		MinServers:  1,
		MaxServers:  1,
		ArrivalRate: 1.0 / 3.0,
		ServiceRate: 1.0 / 2.5,
		Costs: sim.CostModel{
			OperatingCostPerServer: 1,
			WaitingCostPerCustomer: 0.5,
			SLAPenaltyCoefficient:  1000,
			SLATargetPct:           90,
			SLATimeThreshold:       10,
		},
		Replicas: DefaultReplicas,
		Horizon:  DefaultHorizon,
	}
}

// ClampRange forces MinServers >= 1 and MaxServers >= MinServers, the way
// form input is normalised before a sweep.
func (c *Config) ClampRange() {
	if c.MinServers < 1 {
		c.MinServers = 1
	}
	if c.MaxServers < c.MinServers {
		c.MaxServers = c.MinServers
	}
}

// Levels returns the staffing levels of the sweep in increasing order.
func (c Config) Levels() []int {
	if c.MaxServers < c.MinServers {
		return nil
	}
	levels := make([]int, 0, c.MaxServers-c.MinServers+1)
	for s := c.MinServers; s <= c.MaxServers; s++ {
		levels = append(levels, s)
	}
	return levels
}

// Params returns the single-run parameters for staffing level servers.
func (c Config) Params(servers int) sim.SimulationParameters {
	return sim.SimulationParameters{
		ArrivalRate: c.ArrivalRate,
		ServiceRate: c.ServiceRate,
		ServerCount: servers,
		Horizon:     c.Horizon,
	}
}

// Validate reports every invalid field at once. The returned error wraps
// sim.ErrInvalidParameter.
func (c Config) Validate() error {
	var errs []error
	positive := func(field string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			errs = append(errs, sim.InvalidParameter(field, v, "must be a finite value > 0"))
		}
	}
	positive("arrival_rate", c.ArrivalRate)
	positive("service_rate", c.ServiceRate)
	positive("horizon", c.Horizon)

	if c.MinServers < 1 {
		errs = append(errs, sim.InvalidParameter("min_servers", c.MinServers, "must be >= 1"))
	}
	if c.MaxServers < c.MinServers {
		errs = append(errs, sim.InvalidParameter("max_servers", c.MaxServers, "must be >= min_servers"))
	}
	if c.Replicas < 1 {
		errs = append(errs, sim.InvalidParameter("replicas", c.Replicas, "must be >= 1"))
	}
	if c.Workers < 0 {
		errs = append(errs, sim.InvalidParameter("workers", c.Workers, "must be >= 0"))
	}
	errs = append(errs, c.Costs.Validate()...)
	return errors.Join(errs...)
}
