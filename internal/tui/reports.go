package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/carebill/internal/billing"
	"github.com/sadopc/carebill/internal/export"
	"github.com/sadopc/carebill/internal/report"
	"github.com/sadopc/carebill/internal/store"
)

type reportMode int

const (
	reportInvoice reportMode = iota
	reportPayroll
)

func (m reportMode) String() string {
	if m == reportPayroll {
		return "Payroll"
	}
	return "Invoice"
}

// periodFields backs the period picker.
type periodFields struct {
	kind    string
	value   string
	houseID int64 // 0 = all houses
}

type reportsModel struct {
	store  *store.Store
	gen    *report.Generator
	width  int
	height int

	mode    reportMode
	period  billing.Period
	houseID *int64
	houses  []billing.House

	invoice *report.InvoiceResult
	payroll *report.PayrollResult
	err     error

	chart barchart.Model

	formActive bool
	form       *huh.Form
	fields     *periodFields
}

func newReportsModel(s *store.Store, gen *report.Generator) reportsModel {
	now := time.Now()
	return reportsModel{
		store:  s,
		gen:    gen,
		period: billing.Monthly(now.Year(), now.Month()),
		chart:  barchart.New(60, 12),
		fields: &periodFields{},
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	invoice *report.InvoiceResult
	payroll *report.PayrollResult
	houses  []billing.House
	err     error
}

func (r reportsModel) request() report.Request {
	return report.Request{Period: r.period, HouseID: r.houseID}
}

func (r reportsModel) refresh() tea.Cmd {
	mode, req := r.mode, r.request()
	return func() tea.Msg {
		houses, _ := r.store.ListHouses()
		msg := reportsDataMsg{houses: houses}
		switch mode {
		case reportPayroll:
			msg.payroll, msg.err = r.gen.Payroll(req)
		default:
			msg.invoice, msg.err = r.gen.Invoice(req)
		}
		return msg
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	if r.formActive && r.form != nil {
		return r.updateForm(msg)
	}

	switch msg := msg.(type) {
	case reportsDataMsg:
		r.invoice = msg.invoice
		r.payroll = msg.payroll
		r.houses = msg.houses
		r.err = msg.err
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
			if r.mode == reportInvoice {
				r.mode = reportPayroll
			} else {
				r.mode = reportInvoice
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Period):
			return r.showForm()
		}
	}
	return r, nil
}

func (r reportsModel) showForm() (reportsModel, tea.Cmd) {
	f := periodFields{kind: r.period.Kind.String(), houseID: idOrZero(r.houseID)}
	switch r.period.Kind {
	case billing.PeriodMonthly:
		f.value = fmt.Sprintf("%04d-%02d", r.period.Year, int(r.period.Month))
	case billing.PeriodWeekly, billing.PeriodBiweekly:
		f.value = billing.FormatDate(r.period.Start)
	default:
		f.value = time.Now().Format("2006-01")
	}
	*r.fields = f

	houseOpts := []huh.Option[int64]{huh.NewOption("All houses", int64(0))}
	for _, h := range r.houses {
		houseOpts = append(houseOpts, huh.NewOption(h.Name, h.ID))
	}

	r.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Period").
				Options(
					huh.NewOption("All time", "all"),
					huh.NewOption("Monthly", "monthly"),
					huh.NewOption("Weekly", "weekly"),
					huh.NewOption("Bi-weekly", "biweekly"),
				).Value(&r.fields.kind),
			huh.NewInput().Title("Month (YYYY-MM) or start day (YYYY-MM-DD)").
				Description("Ignored for all time").
				Value(&r.fields.value),
			huh.NewSelect[int64]().Title("House").Options(houseOpts...).Value(&r.fields.houseID),
		),
	).WithShowHelp(true).WithShowErrors(true)

	r.formActive = true
	return r, r.form.Init()
}

func (r reportsModel) updateForm(msg tea.Msg) (reportsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		r.formActive = false
		r.form = nil
		return r, nil
	}

	form, cmd := r.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		r.form = f
	}

	if r.form.State == huh.StateCompleted {
		r.formActive = false
		value := r.fields.value
		if r.fields.kind == "all" {
			value = ""
		}
		p, err := billing.ParsePeriod(r.fields.kind, value)
		if err != nil {
			return r, func() tea.Msg { return errStatus("Period", err) }
		}
		r.period = p
		r.houseID = idOrNil(r.fields.houseID)
		return r, r.refresh()
	}
	return r, cmd
}

// export regenerates the current report and writes it to dir.
func (r reportsModel) export(f export.Format, dir string) tea.Cmd {
	mode, req := r.mode, r.request()
	req.Now = time.Now()
	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errStatus("Export", err)
		}
		var path string
		switch mode {
		case reportPayroll:
			res, err := r.gen.Payroll(req)
			if err != nil {
				return errStatus("Export", err)
			}
			path = export.PathFor(dir, res.Filename, f)
			if err := export.WritePayroll(f, res.View, path); err != nil {
				return errStatus("Export", err)
			}
		default:
			res, err := r.gen.Invoice(req)
			if err != nil {
				return errStatus("Export", err)
			}
			path = export.PathFor(dir, res.Filename, f)
			if err := export.WriteInvoice(f, res.View, path); err != nil {
				return errStatus("Export", err)
			}
		}
		return exportDoneMsg{path: path}
	}
}

func (r reportsModel) aggregate() *billing.Aggregate {
	switch {
	case r.mode == reportPayroll && r.payroll != nil:
		return r.payroll.Aggregate
	case r.mode == reportInvoice && r.invoice != nil:
		return r.invoice.Aggregate
	}
	return nil
}

func (r *reportsModel) buildChart() {
	chartWidth := max(20, r.width-8)
	chartHeight := 10
	if r.height > 36 {
		chartHeight = 14
	}
	r.chart = barchart.New(chartWidth, chartHeight)

	agg := r.aggregate()
	if agg == nil {
		return
	}

	var bars []barchart.BarData
	for i, t := range agg.Employees {
		amount := t.Revenue
		if r.mode == reportPayroll {
			amount = t.Payroll
		}
		style := lipgloss.NewStyle().Foreground(chartPalette[i%len(chartPalette)])
		bars = append(bars, barchart.BarData{
			Label: truncate(t.EmployeeName, 10),
			Values: []barchart.BarValue{{
				Name:  t.EmployeeName,
				Value: amount.InexactFloat64(),
				Style: style,
			}},
		})
	}
	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	if r.formActive && r.form != nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Report Period"), "", r.form.View()))
	}

	invoiceTab := inactiveTabStyle.Render("Invoice")
	payrollTab := inactiveTabStyle.Render("Payroll")
	if r.mode == reportInvoice {
		invoiceTab = activeTabStyle.Render("Invoice")
	} else {
		payrollTab = activeTabStyle.Render("Payroll")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, invoiceTab, payrollTab)

	scope := subtitleStyle.Render(fmt.Sprintf("%s · %s", r.period.Label(), r.houseLabel()))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom, titleStyle.Render("Reports"), "  ", modeTabs, "  ", scope)
	nav := mutedStyle.Render("  ←/→: invoice/payroll  p: period  e: export")

	var body string
	switch {
	case r.err != nil:
		body = r.renderError()
	case r.mode == reportPayroll && r.payroll != nil:
		body = lipgloss.JoinVertical(lipgloss.Left, r.chart.View(), "", r.renderPayroll(w))
	case r.mode == reportInvoice && r.invoice != nil:
		body = lipgloss.JoinVertical(lipgloss.Left, r.chart.View(), "", r.renderInvoice(w))
	default:
		body = mutedStyle.Render("  Loading...")
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", nav))
}

func (r reportsModel) houseLabel() string {
	if r.houseID == nil {
		return "All houses"
	}
	return houseName(r.houses, r.houseID)
}

func (r reportsModel) renderError() string {
	switch {
	case errors.Is(r.err, billing.ErrNoEntriesForPeriod):
		return mutedStyle.Render("  No timesheets in this period. Press p to pick another.")
	case errors.Is(r.err, billing.ErrIncompleteFilterSpecification):
		return warningStyle.Render("  The period needs a start date. Press p to set one.")
	}
	return errorStyle.Render("  " + r.err.Error())
}

func (r reportsModel) renderInvoice(w int) string {
	v := r.invoice.View
	rule := mutedStyle.Render("  " + strings.Repeat("─", min(w-6, 54)))
	rows := []string{
		mutedStyle.Render(fmt.Sprintf("  %s · %s layout", v.Title, v.Style)),
		rule,
	}
	for _, g := range v.Groups {
		rows = append(rows, "  "+highlightStyle.Render(fmt.Sprintf("%-30s", truncate(g.Employee, 30)))+fmt.Sprintf(" %12s", money(g.Subtotal)))
		for _, line := range g.Lines {
			rows = append(rows, mutedStyle.Render("    "+line))
		}
	}
	s := v.Summary
	rows = append(rows,
		rule,
		fmt.Sprintf("  %-16s %d", "Entries", s.TotalEntries),
		fmt.Sprintf("  %-16s %s", "Days", s.TotalDays),
		fmt.Sprintf("  %-16s %s", "Hours", s.TotalHours),
		fmt.Sprintf("  %-16s %s", "Amount due", figureStyle.Render(money(s.TotalDue))),
	)
	return strings.Join(rows, "\n")
}

func (r reportsModel) renderPayroll(w int) string {
	v := r.payroll.View
	rule := mutedStyle.Render("  " + strings.Repeat("─", min(w-6, 54)))
	rows := []string{
		mutedStyle.Render(fmt.Sprintf("  %-24s %8s %12s %8s", "Employee", "Hours", "Pay", "Entries")),
		rule,
	}
	for _, e := range v.Breakdown {
		rows = append(rows, fmt.Sprintf("  %-24s %8s %12s %8d",
			truncate(e.EmployeeName, 24), e.TotalHours, money(e.TotalPay), e.Entries))
	}
	pages := len(v.ItemPages())
	rows = append(rows,
		rule,
		figureStyle.Render(fmt.Sprintf("  %-24s %8s %12s %8d", "Total", v.Summary.TotalHours, money(v.Summary.TotalPayroll), v.Summary.TotalEntries)),
		mutedStyle.Render(fmt.Sprintf("  %d item rows over %d page(s) of %d", len(v.Items), pages, v.Pagination.RowsPerPage)),
	)
	return strings.Join(rows, "\n")
}
