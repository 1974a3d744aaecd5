package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/carebill/internal/billing"
	"github.com/sadopc/carebill/internal/report"
	"github.com/sadopc/carebill/internal/store"
)

type dashboardModel struct {
	store  *store.Store
	gen    *report.Generator
	width  int
	height int

	overview *report.Overview
	recent   []billing.Entry
	houses   []billing.House
	err      error
}

func newDashboardModel(s *store.Store, gen *report.Generator) dashboardModel {
	return dashboardModel{store: s, gen: gen}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	overview *report.Overview
	recent   []billing.Entry
	houses   []billing.House
	err      error
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		ov, err := d.gen.Overview(report.Request{Period: billing.AllTime()})
		if err != nil {
			return dashboardDataMsg{err: err}
		}
		recent, _ := d.store.ListRecentEntries(5)
		houses, _ := d.store.ListHouses()
		return dashboardDataMsg{overview: ov, recent: recent, houses: houses}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(dashboardDataMsg); ok {
		d.err = msg.err
		if msg.err == nil {
			d.overview = msg.overview
			d.recent = msg.recent
			d.houses = msg.houses
		}
	}
	return d, nil
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	w := d.width - 4

	if d.err != nil {
		return panelStyle.Width(w).Render(errorStyle.Render("Could not load dashboard: " + d.err.Error()))
	}
	if d.overview == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("Loading..."))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderTotalsPanel(w),
		d.renderPerformancePanel(w),
		d.renderRecentPanel(w),
	)
}

func (d dashboardModel) renderTotalsPanel(w int) string {
	s := d.overview.Summary
	figure := func(label, value string) string {
		return figureLabelStyle.Render(label) + " " + value
	}
	left := lipgloss.JoinVertical(lipgloss.Left,
		figure("Revenue", figureStyle.Render(money(s.TotalRevenue))),
		figure("Payroll", figureStyle.Render(money(s.TotalPayroll))),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		figure("Profit", profitStyled(s.Profit())),
		figure("Margin", figureStyle.Render(percent(d.overview.Margin))),
	)
	hours := figure("Hours", figureStyle.Render(s.TotalHours.String()))

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("All Time"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right, "    ", hours),
	)
	return activePanelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderPerformancePanel(w int) string {
	title := titleStyle.Render("Employee Performance")
	if len(d.overview.Performance) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No caregivers yet. Press 3 to add staff."),
		))
	}

	rows := []string{
		title,
		mutedStyle.Render(fmt.Sprintf("  %-22s %8s %12s %12s %12s %7s", "Name", "Hours", "Revenue", "Payroll", "Profit", "Entries")),
	}
	for _, p := range d.overview.Performance {
		rows = append(rows, fmt.Sprintf("  %-22s %8s %12s %12s %12s %7d",
			truncate(p.Name, 22), p.Hours, money(p.Revenue), money(p.Payroll), money(p.Profit), p.Entries))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Recent Timesheets")
	if len(d.recent) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No timesheets yet. Press 4 to record one."),
		))
	}

	rows := []string{title}
	for _, e := range d.recent {
		rows = append(rows, fmt.Sprintf("  %s  %-20s %-16s %-10s %10s  %s",
			billing.FormatDate(e.Date),
			truncate(e.EmployeeName, 20),
			truncate(houseName(d.houses, e.HouseID), 16),
			e.Quantity,
			money(e.ClientCharge),
			statusLabel(e.Status),
		))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func statusLabel(s billing.Status) string {
	switch s {
	case billing.StatusPaid:
		return successStyle.Render(string(s))
	case billing.StatusApproved:
		return highlightStyle.Render(string(s))
	default:
		return warningStyle.Render(string(s))
	}
}
