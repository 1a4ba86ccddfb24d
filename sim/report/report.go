// Package report renders a staffing sweep for humans and tools.
// Rounding to display precision happens here only.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/queuecost/staffsim/sim"
	"github.com/queuecost/staffsim/sim/capacity"
)

// Format selects an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or csv)", s)
}

// Options tunes rendering.
type Options struct {
	Details bool // include per-replica rows
}

// Write renders res in the given format.
func Write(w io.Writer, format Format, res *capacity.SweepResult, opts Options) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, res, opts)
	case FormatCSV:
		return WriteCSV(w, res, opts)
	default:
		return WriteText(w, res, opts)
	}
}

var (
	bestStyle = color.New(color.FgGreen, color.Bold)
	missStyle = color.New(color.FgRed)
)

// WriteText prints an aligned summary table, one row per staffing level.
func WriteText(w io.Writer, res *capacity.SweepResult, opts Options) error {
	cfg := res.Config
	fmt.Fprintln(w, "=== Staffing Sweep ===")
	fmt.Fprintf(w, "Arrival rate λ       : %.4f /unit\n", cfg.ArrivalRate)
	fmt.Fprintf(w, "Service rate μ       : %.4f /unit/server\n", cfg.ServiceRate)
	fmt.Fprintf(w, "Horizon              : %.0f units x %d replicas\n", cfg.Horizon, cfg.Replicas)
	fmt.Fprintf(w, "SLA                  : %.1f%% within %.2f units\n", cfg.Costs.SLATargetPct, cfg.Costs.SLATimeThreshold)
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "servers\tρ%\tcost\tstdev\tsla%\tW\tWq\tLq\tcustomers\toperating\twaiting\tpenalty\t")
	for _, lvl := range res.Levels {
		fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.1f\t%.1f\t%.2f\t%.2f\t%.2f\t%s\n",
			lvl.ServerCount, lvl.UtilizationPct, lvl.MeanTotalCost, lvl.StdevTotalCost,
			lvl.MeanPctSLA, lvl.MeanSojourn, lvl.MeanWait, lvl.MeanQueueLength,
			lvl.MeanCustomerCount, lvl.MeanOperatingCost, lvl.MeanWaitingCost, lvl.MeanSLAPenalty,
			levelTag(lvl))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	if best := res.Best(); best != nil {
		fmt.Fprintf(w, "Best staffing        : %s\n",
			bestStyle.Sprintf("%d servers (mean cost %.2f)", best.ServerCount, best.MeanTotalCost))
	}
	if res.BestCompliantServerCount > 0 {
		fmt.Fprintf(w, "Cheapest meeting SLA : %d servers\n", res.BestCompliantServerCount)
	} else {
		fmt.Fprintf(w, "Cheapest meeting SLA : %s\n", missStyle.Sprint("none"))
	}

	if opts.Details {
		for _, lvl := range res.Levels {
			if err := writeReplicaText(w, lvl); err != nil {
				return err
			}
		}
	}
	return nil
}

func levelTag(lvl sim.StaffingLevelSummary) string {
	var tags []string
	if lvl.IsBestCandidate {
		tags = append(tags, bestStyle.Sprint("BEST"))
	}
	if !lvl.MeetsSLA {
		tags = append(tags, missStyle.Sprint("SLA-MISS"))
	}
	return strings.Join(tags, " ")
}

func writeReplicaText(w io.Writer, lvl sim.StaffingLevelSummary) error {
	fmt.Fprintf(w, "\n--- %d servers: replicas ---\n", lvl.ServerCount)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "replica\tcustomers\tW\tWq\tLq\tsla%\toperating\twaiting\tpenalty\ttotal\t")
	for _, r := range lvl.Replicas {
		fmt.Fprintf(tw, "%d\t%d\t%.2f\t%.2f\t%.1f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t\n",
			r.ReplicaIndex, r.CustomerCount, r.MeanSojourn, r.MeanWait, r.MeanQueueLength,
			r.PctWithinSLA, r.OperatingCost, r.WaitingCost, r.SLAPenalty, r.TotalCost)
	}
	return tw.Flush()
}

// WriteJSON writes the whole sweep as indented JSON. Replica detail is
// dropped unless opts.Details is set.
func WriteJSON(w io.Writer, res *capacity.SweepResult, opts Options) error {
	out := *res
	if !opts.Details {
		out.Levels = make([]sim.StaffingLevelSummary, len(res.Levels))
		for i, lvl := range res.Levels {
			lvl.Replicas = nil
			out.Levels[i] = lvl
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

var csvLevelHeader = []string{
	"servers", "utilization_pct", "mean_total_cost", "stdev_total_cost", "mean_pct_sla",
	"mean_sojourn", "mean_wait", "mean_queue_length", "mean_customers",
	"mean_operating_cost", "mean_waiting_cost", "mean_sla_penalty", "meets_sla", "is_best",
}

var csvReplicaHeader = []string{
	"servers", "replica", "customers", "mean_sojourn", "mean_wait", "mean_queue_length",
	"pct_within_sla", "operating_cost", "waiting_cost", "sla_penalty", "total_cost",
}

// WriteCSV writes one row per staffing level, or one row per replica when
// opts.Details is set.
func WriteCSV(w io.Writer, res *capacity.SweepResult, opts Options) error {
	writer := csv.NewWriter(w)
	if opts.Details {
		writer.Write(csvReplicaHeader)
		for _, lvl := range res.Levels {
			for _, r := range lvl.Replicas {
				writer.Write([]string{
					strconv.Itoa(lvl.ServerCount), strconv.Itoa(r.ReplicaIndex), strconv.Itoa(r.CustomerCount),
					ff(r.MeanSojourn), ff(r.MeanWait), ff(r.MeanQueueLength), ff(r.PctWithinSLA),
					ff(r.OperatingCost), ff(r.WaitingCost), ff(r.SLAPenalty), ff(r.TotalCost),
				})
			}
		}
	} else {
		writer.Write(csvLevelHeader)
		for _, lvl := range res.Levels {
			writer.Write([]string{
				strconv.Itoa(lvl.ServerCount), ff(lvl.UtilizationPct), ff(lvl.MeanTotalCost),
				ff(lvl.StdevTotalCost), ff(lvl.MeanPctSLA), ff(lvl.MeanSojourn), ff(lvl.MeanWait),
				ff(lvl.MeanQueueLength), ff(lvl.MeanCustomerCount), ff(lvl.MeanOperatingCost),
				ff(lvl.MeanWaitingCost), ff(lvl.MeanSLAPenalty),
				strconv.FormatBool(lvl.MeetsSLA), strconv.FormatBool(lvl.IsBestCandidate),
			})
		}
	}
	writer.Flush()
	return writer.Error()
}

// ff rounds to display precision.
func ff(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
