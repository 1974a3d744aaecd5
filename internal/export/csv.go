package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/sadopc/carebill/internal/billing"
)

// InvoiceToCSV writes one row per caregiver followed by the totals.
func InvoiceToCSV(v *billing.InvoiceView, path string) error {
	rows := [][]string{{"Caregiver", "Details", "Subtotal"}}
	for _, g := range v.Groups {
		rows = append(rows, []string{g.Employee, strings.Join(g.Lines, "; "), g.Subtotal.StringFixed(2)})
	}
	rows = append(rows,
		[]string{"Total Entries", fmt.Sprintf("%d", v.Summary.TotalEntries), ""},
		[]string{"Total Days", v.Summary.TotalDays.String(), ""},
		[]string{"Total Hours", v.Summary.TotalHours.String(), ""},
		[]string{"Total Amount Due", "", v.Summary.TotalDue.StringFixed(2)},
	)
	return writeCSV(rows, path)
}

// PayrollToCSV writes the itemized entries followed by the payroll total.
func PayrollToCSV(v *billing.PayrollView, path string) error {
	rows := [][]string{{"Date", "Employee", "Hours", "Pay", "Rate Type"}}
	for _, it := range v.Items {
		rows = append(rows, []string{
			billing.FormatDate(it.Date),
			it.Employee,
			it.Hours.String(),
			it.Pay.StringFixed(2),
			string(it.RateType),
		})
	}
	rows = append(rows, []string{"Total", "", v.Summary.TotalHours.String(), v.Summary.TotalPayroll.StringFixed(2), ""})
	return writeCSV(rows, path)
}

func writeCSV(rows [][]string, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
