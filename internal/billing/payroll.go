package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultRowsPerPage is used when no pagination hint is configured.
const DefaultRowsPerPage = 40

type PayrollView struct {
	Title       string            `json:"title"`
	CompanyName string            `json:"company_name"`
	ReportDate  time.Time         `json:"report_date"`
	HouseName   string            `json:"house_name,omitempty"`
	PeriodLabel string            `json:"period"`
	PeriodStart string            `json:"period_start"`
	PeriodEnd   string            `json:"period_end"`
	Summary     PayrollSummary    `json:"summary"`
	Breakdown   []PayrollEmployee `json:"employee_breakdown"`
	Items       []PayrollItem     `json:"entries"`
	Pagination  Pagination        `json:"pagination"`
	FooterTotal string            `json:"footer_total"`
}

type PayrollSummary struct {
	TotalEntries int             `json:"total_entries"`
	TotalHours   decimal.Decimal `json:"total_hours"`
	TotalPayroll decimal.Decimal `json:"total_payroll"`
}

type PayrollEmployee struct {
	EmployeeName string          `json:"employee_name"`
	TotalHours   decimal.Decimal `json:"total_hours"`
	TotalPay     decimal.Decimal `json:"total_pay"`
	Entries      int             `json:"entries"`
}

type PayrollItem struct {
	Date     time.Time       `json:"date"`
	Employee string          `json:"employee"`
	Hours    decimal.Decimal `json:"hours"`
	Pay      decimal.Decimal `json:"pay"`
	RateType RateType        `json:"rate_type"`
}

// Pagination is a hint for the renderer; the content is not split here.
type Pagination struct {
	RowsPerPage  int  `json:"rows_per_page"`
	RepeatHeader bool `json:"repeat_header"`
}

type PayrollOptions struct {
	CompanyName string
	HouseName   string
	ReportDate  time.Time
	RowsPerPage int
}

// FormatPayrollReport builds the payroll report. Rows follow the aggregate's
// order; nothing is re-sorted.
func FormatPayrollReport(a *Aggregate, period Period, opts PayrollOptions) (*PayrollView, error) {
	if a.Empty() {
		return nil, fmt.Errorf("payroll report for %s: %w", period.Label(), ErrNoEntriesForPeriod)
	}

	rows := opts.RowsPerPage
	if rows <= 0 {
		rows = DefaultRowsPerPage
	}

	view := &PayrollView{
		Title:       "Employee Payroll Report",
		CompanyName: opts.CompanyName,
		ReportDate:  opts.ReportDate,
		HouseName:   opts.HouseName,
		PeriodLabel: period.Label(),
		Summary: PayrollSummary{
			TotalEntries: a.TotalEntries,
			TotalHours:   a.TotalHours,
			TotalPayroll: a.TotalPayroll,
		},
		Pagination:  Pagination{RowsPerPage: rows, RepeatHeader: true},
		FooterTotal: "Total Payroll: " + FormatMoney(a.TotalPayroll),
	}

	if r, err := period.Range(); err == nil && !r.All {
		view.PeriodStart, view.PeriodEnd = FormatDate(r.Start), FormatDate(r.End)
	} else if first, last, ok := a.DateBounds(); ok {
		view.PeriodStart, view.PeriodEnd = FormatDate(first), FormatDate(last)
	}

	for _, t := range a.Employees {
		view.Breakdown = append(view.Breakdown, PayrollEmployee{
			EmployeeName: t.EmployeeName,
			TotalHours:   t.HourEquivalent(),
			TotalPay:     t.Payroll,
			Entries:      len(t.Entries),
		})
	}
	for _, e := range a.Entries {
		view.Items = append(view.Items, PayrollItem{
			Date:     e.Date,
			Employee: e.EmployeeName,
			Hours:    e.Quantity.HourEquivalent(),
			Pay:      e.EmployeePay,
			RateType: RateTypeFor(e.Quantity),
		})
	}
	return view, nil
}

// ItemPages splits the itemized rows by the pagination hint.
func (v *PayrollView) ItemPages() [][]PayrollItem {
	size := v.Pagination.RowsPerPage
	if size <= 0 {
		size = DefaultRowsPerPage
	}
	var pages [][]PayrollItem
	for start := 0; start < len(v.Items); start += size {
		end := min(start+size, len(v.Items))
		pages = append(pages, v.Items[start:end])
	}
	return pages
}
