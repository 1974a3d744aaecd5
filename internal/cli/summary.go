package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/sadopc/carebill/internal/billing"
	"github.com/spf13/cobra"
)

func newSummaryCmd(g *globalFlags) *cobra.Command {
	var pf periodFlags
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print revenue, payroll, profit and margin",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := pf.request(time.Now())
			if err != nil {
				return err
			}
			sess, err := g.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			ov, err := sess.gen.Overview(req)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Period\t%s\n", req.Period.Label())
			if ov.HouseName != "" {
				fmt.Fprintf(w, "House\t%s\n", ov.HouseName)
			}
			fmt.Fprintf(w, "Revenue\t%s\n", billing.FormatMoney(ov.Summary.TotalRevenue))
			fmt.Fprintf(w, "Payroll\t%s\n", billing.FormatMoney(ov.Summary.TotalPayroll))
			fmt.Fprintf(w, "Profit\t%s\n", billing.FormatMoney(ov.Summary.Profit()))
			fmt.Fprintf(w, "Margin\t%s\n", billing.FormatPercent(ov.Margin))
			fmt.Fprintf(w, "Hours\t%s\n", ov.Summary.TotalHours)
			return w.Flush()
		},
	}
	pf.register(cmd, "all")
	return cmd
}
