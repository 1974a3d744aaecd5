package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/sadopc/carebill/internal/billing"
)

const rule = "----------------------------------------"

func InvoiceText(v *billing.InvoiceView, path string) error {
	return writeFile(path, func(w io.Writer) error { return RenderInvoice(w, v) })
}

func PayrollText(v *billing.PayrollView, path string) error {
	return writeFile(path, func(w io.Writer) error { return RenderPayroll(w, v) })
}

func RenderInvoice(w io.Writer, v *billing.InvoiceView) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", v.CompanyName, v.Title)
	fmt.Fprintf(&b, "Date: %s\n", billing.FormatDate(v.InvoiceDate))
	if v.HouseName != "" {
		fmt.Fprintf(&b, "House: %s\n", v.HouseName)
	}
	fmt.Fprintf(&b, "Period: %s\n%s\n", v.PeriodLabel, rule)

	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, g := range v.Groups {
		fmt.Fprintf(tw, "%s\t\t%s\n", g.Employee, billing.FormatMoney(g.Subtotal))
		for _, line := range g.Lines {
			fmt.Fprintf(tw, "\t%s\t\n", line)
		}
	}
	tw.Flush()

	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "Total Entries: %d\n", v.Summary.TotalEntries)
	fmt.Fprintf(&b, "Total Days: %s\n", v.Summary.TotalDays)
	fmt.Fprintf(&b, "Total Hours: %s\n", v.Summary.TotalHours)
	fmt.Fprintf(&b, "Total Amount Due: %s\n\n", billing.FormatMoney(v.Summary.TotalDue))
	for _, line := range v.Footer {
		fmt.Fprintln(&b, line)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderPayroll prints the summary and breakdown once, then the itemized rows
// split into pages with the column header repeated. Pages are separated by a
// form feed and each ends with the report total.
func RenderPayroll(w io.Writer, v *billing.PayrollView) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", v.CompanyName, v.Title)
	fmt.Fprintf(&b, "Date: %s\n", billing.FormatDate(v.ReportDate))
	if v.HouseName != "" {
		fmt.Fprintf(&b, "House: %s\n", v.HouseName)
	}
	fmt.Fprintf(&b, "Period: %s", v.PeriodLabel)
	if v.PeriodStart != "" {
		fmt.Fprintf(&b, " (%s to %s)", v.PeriodStart, v.PeriodEnd)
	}
	fmt.Fprintf(&b, "\n%s\n", rule)
	fmt.Fprintf(&b, "Total Entries: %d\nTotal Hours: %s\nTotal Payroll: %s\n\n",
		v.Summary.TotalEntries, v.Summary.TotalHours, billing.FormatMoney(v.Summary.TotalPayroll))

	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Employee\tHours\tPay\tEntries")
	for _, e := range v.Breakdown {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", e.EmployeeName, e.TotalHours, billing.FormatMoney(e.TotalPay), e.Entries)
	}
	tw.Flush()

	pages := v.ItemPages()
	for i, page := range pages {
		if i > 0 {
			b.WriteString("\f")
		}
		fmt.Fprintf(&b, "\n%s (page %d of %d)\n", v.Title, i+1, len(pages))
		tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
		if i == 0 || v.Pagination.RepeatHeader {
			fmt.Fprintln(tw, "Date\tEmployee\tHours\tPay\tRate")
		}
		for _, it := range page {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				billing.FormatDate(it.Date), it.Employee, it.Hours, billing.FormatMoney(it.Pay), it.RateType.Short())
		}
		tw.Flush()
		fmt.Fprintf(&b, "%s\n%s\n", rule, v.FooterTotal)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create text file: %w", err)
	}
	defer f.Close()
	if err := render(f); err != nil {
		return fmt.Errorf("write text file: %w", err)
	}
	return nil
}
