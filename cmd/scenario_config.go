package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/queuecost/staffsim/sim/capacity"
)

// Scenario is the YAML form of a sweep. Absent keys keep their defaults, so
// every field is a pointer.
type Scenario struct {
	Servers             *ServerRange   `yaml:"servers"`
	ArrivalRate         *float64       `yaml:"arrival_rate"`
	ServiceRate         *float64       `yaml:"service_rate"`
	Horizon             *float64       `yaml:"horizon"`
	Replicas            *int           `yaml:"replicas"`
	Seed                *int64         `yaml:"seed"`
	CommonRandomNumbers *bool          `yaml:"common_random_numbers"`
	Workers             *int           `yaml:"workers"`
	Costs               *ScenarioCosts `yaml:"costs"`
}

// ServerRange is the inclusive staffing range.
type ServerRange struct {
	Min *int `yaml:"min"`
	Max *int `yaml:"max"`
}

type ScenarioCosts struct {
	Server       *float64 `yaml:"server"`
	Wait         *float64 `yaml:"wait"`
	SLAPenalty   *float64 `yaml:"sla_penalty"`
	SLATargetPct *float64 `yaml:"sla_target_pct"`
	SLATime      *float64 `yaml:"sla_time"`
}

// LoadScenario reads a scenario file. Unknown keys are errors so a typo
// never silently falls back to a default.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return parseScenario(data)
}

func parseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}
	return &sc, nil
}

// ApplyTo overwrites the fields of cfg that the scenario sets.
func (sc *Scenario) ApplyTo(cfg *capacity.Config) {
	if r := sc.Servers; r != nil {
		setIfPresent(&cfg.MinServers, r.Min)
		setIfPresent(&cfg.MaxServers, r.Max)
	}
	setIfPresent(&cfg.ArrivalRate, sc.ArrivalRate)
	setIfPresent(&cfg.ServiceRate, sc.ServiceRate)
	setIfPresent(&cfg.Horizon, sc.Horizon)
	setIfPresent(&cfg.Replicas, sc.Replicas)
	setIfPresent(&cfg.Seed, sc.Seed)
	setIfPresent(&cfg.CommonRandomNumbers, sc.CommonRandomNumbers)
	setIfPresent(&cfg.Workers, sc.Workers)
	if c := sc.Costs; c != nil {
		setIfPresent(&cfg.Costs.OperatingCostPerServer, c.Server)
		setIfPresent(&cfg.Costs.WaitingCostPerCustomer, c.Wait)
		setIfPresent(&cfg.Costs.SLAPenaltyCoefficient, c.SLAPenalty)
		setIfPresent(&cfg.Costs.SLATargetPct, c.SLATargetPct)
		setIfPresent(&cfg.Costs.SLATimeThreshold, c.SLATime)
	}
}

func setIfPresent[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
