// Package sim is the discrete-event core of staffsim: one simulated day of
// an M/M/s waiting line and the cost of running it.
//
// # Reading Guide
//
//   - rng.go: per-replica random streams, split by subsystem (arrival, service)
//   - arrival.go: Poisson arrival generator bounded by the horizon
//   - server_pool.go: earliest-available server assignment (FCFS, one queue)
//   - simulator.go: the single-run loop producing CustomerRecords
//   - cost.go: CostModel and the per-replica evaluation
//   - aggregate.go: reduction of replicas into a StaffingLevelSummary
//   - analytic.go: Erlang C reference values for stable levels
//
// Replication and the staffing sweep live in sim/capacity; rendering lives
// in sim/report.
package sim
