package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/queuecost/staffsim/sim"
)

// theoryCmd prints the steady-state M/M/s table without simulating.
var theoryCmd = &cobra.Command{
	Use:   "theory",
	Short: "Print analytic M/M/s measures for the staffing range",
	Run: func(cmd *cobra.Command, args []string) {
		lo, hi := minServers, maxServers
		if lo < 1 {
			lo = 1
		}
		if hi < lo {
			hi = lo
		}
		if err := writeTheory(os.Stdout, arrivalRate, serviceRate, lo, hi); err != nil {
			logrus.Fatalf("Writing theory table: %v", err)
		}
	},
}

func writeTheory(w io.Writer, lambda, mu float64, lo, hi int) error {
	if lambda <= 0 || mu <= 0 {
		return fmt.Errorf("rates must be positive (lambda=%v, mu=%v)", lambda, mu)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "servers\tρ\tP(wait)\tWq\tW\tLq\tL\t")
	for s := lo; s <= hi; s++ {
		th, ok := sim.MMSMetrics(lambda, mu, s)
		if !ok {
			logrus.Warnf("%d servers: unstable (ρ=%.3f), no steady state", s, th.Rho)
			fmt.Fprintf(tw, "%d\t%.3f\t-\t-\t-\t-\t-\t\n", s, th.Rho)
			continue
		}
		fmt.Fprintf(tw, "%d\t%.3f\t%.4f\t%.3f\t%.3f\t%.3f\t%.3f\t\n",
			s, th.Rho, th.ProbWait, th.AvgWaitTime, th.AvgRespTime, th.AvgQueueLength, th.AvgNumInSystem)
	}
	return tw.Flush()
}
