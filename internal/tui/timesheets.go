package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/carebill/internal/billing"
	"github.com/sadopc/carebill/internal/store"
	"github.com/shopspring/decimal"
)

// timesheetLimit caps how many entries the list loads.
const timesheetLimit = 200

type entryFields struct {
	employeeID int64
	houseID    int64 // 0 = employee's default house
	date       string
	unit       billing.Unit
	value      string
	notes      string
}

// input converts the form into a store input. Fields are validated by the form.
func (f *entryFields) input() (store.EntryInput, error) {
	date, err := billing.ParseDate(f.date)
	if err != nil {
		return store.EntryInput{}, err
	}
	v, err := decimal.NewFromString(strings.TrimSpace(f.value))
	if err != nil {
		return store.EntryInput{}, fmt.Errorf("parse quantity %q: %w", f.value, err)
	}
	return store.EntryInput{
		EmployeeID: f.employeeID,
		HouseID:    idOrNil(f.houseID),
		Date:       date,
		Quantity:   billing.Quantity{Unit: f.unit, Value: v},
		Notes:      f.notes,
	}, nil
}

type timesheetsModel struct {
	store  *store.Store
	width  int
	height int

	entries   []billing.Entry
	employees []billing.Employee
	houses    []billing.House
	cursor    int

	formActive bool
	form       *huh.Form
	fields     *entryFields
	editingID  int64
}

func newTimesheetsModel(s *store.Store) timesheetsModel {
	return timesheetsModel{store: s, fields: &entryFields{}}
}

func (m *timesheetsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type timesheetsDataMsg struct {
	entries   []billing.Entry
	employees []billing.Employee
	houses    []billing.House
}

func (m timesheetsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		entries, _ := m.store.ListRecentEntries(timesheetLimit)
		employees, _ := m.store.ListEmployees()
		houses, _ := m.store.ListHouses()
		return timesheetsDataMsg{entries: entries, employees: employees, houses: houses}
	}
}

func (m timesheetsModel) update(msg tea.Msg) (timesheetsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case timesheetsDataMsg:
		m.entries = msg.entries
		m.employees = msg.employees
		m.houses = msg.houses
		if m.cursor >= len(m.entries) {
			m.cursor = max(0, len(m.entries)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			if len(m.employees) == 0 {
				return m, func() tea.Msg {
					return statusMsg{text: "No staff yet. Press 3 to add an employee first.", isError: true}
				}
			}
			*m.fields = entryFields{
				employeeID: m.employees[0].ID,
				date:       billing.FormatDate(time.Now()),
				unit:       billing.UnitDays,
				value:      "1",
			}
			m.editingID = 0
			return m.showForm()
		case key.Matches(msg, keys.Enter):
			if len(m.entries) > 0 {
				e := m.entries[m.cursor]
				*m.fields = entryFields{
					employeeID: e.EmployeeID,
					houseID:    idOrZero(e.HouseID),
					date:       billing.FormatDate(e.Date),
					unit:       e.Quantity.Unit,
					value:      e.Quantity.Value.String(),
					notes:      e.Notes,
				}
				m.editingID = e.ID
				return m.showForm()
			}
		case key.Matches(msg, keys.Status):
			if len(m.entries) > 0 {
				e := m.entries[m.cursor]
				return m, tea.Sequence(m.statusCmd(e.ID, e.Status.Next()), m.refresh())
			}
		case key.Matches(msg, keys.Delete):
			if len(m.entries) > 0 {
				return m, tea.Sequence(m.deleteCmd(m.entries[m.cursor].ID), m.refresh())
			}
		}
	}
	return m, nil
}

func (m timesheetsModel) showForm() (timesheetsModel, tea.Cmd) {
	var employeeOpts []huh.Option[int64]
	for _, e := range m.employees {
		employeeOpts = append(employeeOpts, huh.NewOption(e.Name, e.ID))
	}
	houseOpts := []huh.Option[int64]{huh.NewOption("Employee's default house", int64(0))}
	for _, h := range m.houses {
		houseOpts = append(houseOpts, huh.NewOption(h.Name, h.ID))
	}

	employee := huh.NewSelect[int64]().Title("Employee").Options(employeeOpts...).Value(&m.fields.employeeID)
	var first huh.Field = employee
	// The employee of an existing entry cannot change.
	if m.editingID != 0 {
		first = huh.NewNote().Title("Employee").Description(m.employeeName(m.fields.employeeID))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			first,
			huh.NewSelect[int64]().Title("House").Options(houseOpts...).Value(&m.fields.houseID),
			huh.NewInput().Title("Date (YYYY-MM-DD)").Value(&m.fields.date).Validate(func(s string) error {
				_, err := billing.ParseDate(s)
				return err
			}),
		),
		huh.NewGroup(
			huh.NewSelect[billing.Unit]().Title("Recorded as").
				Options(
					huh.NewOption("Days", billing.UnitDays),
					huh.NewOption("Hours", billing.UnitHours),
				).Value(&m.fields.unit),
			huh.NewInput().Title("Quantity").Value(&m.fields.value).Validate(requireDecimal("quantity")),
			huh.NewText().Title("Notes").Value(&m.fields.notes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m timesheetsModel) employeeName(id int64) string {
	for _, e := range m.employees {
		if e.ID == id {
			return e.Name
		}
	}
	return fmt.Sprintf("#%d", id)
}

func (m timesheetsModel) updateForm(msg tea.Msg) (timesheetsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		m.formActive = false
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		return m, tea.Sequence(m.saveCmd(m.editingID, *m.fields), m.refresh())
	}
	return m, cmd
}

func (m timesheetsModel) saveCmd(id int64, f entryFields) tea.Cmd {
	return func() tea.Msg {
		in, err := f.input()
		if err != nil {
			return errStatus("Timesheet", err)
		}
		if id == 0 {
			e, err := m.store.CreateEntry(in)
			if err != nil {
				return errStatus("Create timesheet", err)
			}
			return statusMsg{text: fmt.Sprintf("Recorded %s for %s (%s)", e.Quantity, e.EmployeeName, money(e.ClientCharge))}
		}
		e, err := m.store.UpdateEntry(id, in)
		if err != nil {
			return errStatus("Update timesheet", err)
		}
		return statusMsg{text: fmt.Sprintf("Updated entry, repriced at %s", money(e.ClientCharge))}
	}
}

func (m timesheetsModel) statusCmd(id int64, next billing.Status) tea.Cmd {
	return func() tea.Msg {
		if err := m.store.UpdateEntryStatus(id, next); err != nil {
			return errStatus("Update status", err)
		}
		return statusMsg{text: "Marked " + string(next)}
	}
}

func (m timesheetsModel) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		if err := m.store.DeleteEntry(id); err != nil {
			return errStatus("Delete timesheet", err)
		}
		return statusMsg{text: "Timesheet deleted"}
	}
}

func (m timesheetsModel) view() string {
	w := m.width - 4
	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Timesheet")
		if m.editingID != 0 {
			title = titleStyle.Render("Edit Timesheet")
		}
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()))
	}

	title := titleStyle.Render("Timesheets")
	if len(m.entries) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No timesheets yet. Press n to record one."),
		))
	}

	// Keep the cursor row on screen.
	visible := max(1, m.height-10)
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(len(m.entries), start+visible)

	rows := []string{
		title,
		"",
		mutedStyle.Render(fmt.Sprintf("  %-10s %-20s %-16s %-10s %-6s %10s %10s %-9s", "Date", "Employee", "House", "Quantity", "Rate", "Pay", "Charge", "Status")),
	}
	for i := start; i < end; i++ {
		e := m.entries[i]
		cursor, render := cursorPrefix(i == m.cursor)
		line := render(fmt.Sprintf("%s%-10s %-20s %-16s %-10s %-6s %10s %10s ",
			cursor,
			billing.FormatDate(e.Date),
			truncate(e.EmployeeName, 20),
			truncate(houseName(m.houses, e.HouseID), 16),
			e.Quantity,
			billing.RateTypeFor(e.Quantity).Short(),
			money(e.EmployeePay),
			money(e.ClientCharge),
		))
		rows = append(rows, line+statusLabel(e.Status))
	}
	rows = append(rows,
		"",
		mutedStyle.Render(fmt.Sprintf("  %d of %d shown", end-start, len(m.entries))),
		mutedStyle.Render("  n: new  enter: edit  s: cycle status  d: delete"),
	)
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
