package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/sadopc/carebill/internal/billing"
	"github.com/sadopc/carebill/internal/export"
	"github.com/sadopc/carebill/internal/report"
	"github.com/spf13/cobra"
)

// periodFlags select the report window and house.
type periodFlags struct {
	period string
	month  string
	start  string
	house  string
}

func (p *periodFlags) register(cmd *cobra.Command, defaultPeriod string) {
	cmd.Flags().StringVarP(&p.period, "period", "p", defaultPeriod, "all, monthly, weekly or biweekly")
	cmd.Flags().StringVar(&p.month, "month", "", "month for monthly periods, YYYY-MM (default current month)")
	cmd.Flags().StringVar(&p.start, "start", "", "first day for weekly and biweekly periods, YYYY-MM-DD")
	cmd.Flags().StringVar(&p.house, "house", "all", "house ID or all")
}

func (p *periodFlags) request(now time.Time) (report.Request, error) {
	value := p.start
	switch p.period {
	case "monthly", "month":
		value = p.month
		if value == "" {
			value = now.Format("2006-01")
		}
	}
	period, err := billing.ParsePeriod(p.period, value)
	if err != nil {
		return report.Request{}, err
	}
	houseID, err := billing.ParseHouseFilter(p.house)
	if err != nil {
		return report.Request{}, NewCLIError("invalid --house", "Pass a numeric house ID or all", err)
	}
	return report.Request{Period: period, HouseID: houseID, Now: now}, nil
}

func newReportCmd(g *globalFlags, kind string) *cobra.Command {
	var (
		pf     periodFlags
		format string
		outDir string
	)
	cmd := &cobra.Command{
		Use:   kind,
		Short: fmt.Sprintf("Write the %s document for a period", kind),
		Example: fmt.Sprintf(`  carebill %[1]s --period monthly --month 2024-01 --house 2
  carebill %[1]s --period weekly --start 2024-01-01 --format csv
  carebill %[1]s --period all --format txt --out ./reports`, kind),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return NewCLIError("invalid --format", "Use json, csv or txt", err)
			}
			req, err := pf.request(time.Now())
			if err != nil {
				return err
			}

			sess, err := g.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			dir := outDir
			if dir == "" {
				dir = sess.cfg.ExportDir
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			var path string
			switch kind {
			case "invoice":
				res, err := sess.gen.Invoice(req)
				if err != nil {
					return err
				}
				path = export.PathFor(dir, res.Filename, f)
				if err := export.WriteInvoice(f, res.View, path); err != nil {
					return err
				}
			default:
				res, err := sess.gen.Payroll(req)
				if err != nil {
					return err
				}
				path = export.PathFor(dir, res.Filename, f)
				if err := export.WritePayroll(f, res.View, path); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	pf.register(cmd, "monthly")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "json, csv or txt")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default export_dir from config)")
	return cmd
}
