package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/carebill/internal/billing"
	"github.com/sadopc/carebill/internal/store"
)

type staffFields struct {
	name     string
	email    string
	password string
	role     billing.Role
	houseID  int64 // 0 = no default house
}

type staffModel struct {
	store  *store.Store
	width  int
	height int

	employees []billing.Employee
	houses    []billing.House
	cursor    int

	formActive bool
	form       *huh.Form
	fields     *staffFields
	editingID  int64
}

func newStaffModel(s *store.Store) staffModel {
	return staffModel{store: s, fields: &staffFields{}}
}

func (m *staffModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type staffDataMsg struct {
	employees []billing.Employee
	houses    []billing.House
}

func (m staffModel) refresh() tea.Cmd {
	return func() tea.Msg {
		employees, _ := m.store.ListEmployees()
		houses, _ := m.store.ListHouses()
		return staffDataMsg{employees: employees, houses: houses}
	}
}

func (m staffModel) update(msg tea.Msg) (staffModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case staffDataMsg:
		m.employees = msg.employees
		m.houses = msg.houses
		if m.cursor >= len(m.employees) {
			m.cursor = max(0, len(m.employees)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.employees)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			*m.fields = staffFields{role: billing.RoleCaregiver}
			m.editingID = 0
			return m.showForm()
		case key.Matches(msg, keys.Enter):
			if len(m.employees) > 0 {
				e := m.employees[m.cursor]
				*m.fields = staffFields{name: e.Name, email: e.Email, role: e.Role, houseID: idOrZero(e.HouseID)}
				m.editingID = e.ID
				return m.showForm()
			}
		case key.Matches(msg, keys.Delete):
			if len(m.employees) > 0 {
				return m, tea.Sequence(m.deleteCmd(m.employees[m.cursor]), m.refresh())
			}
		}
	}
	return m, nil
}

func (m staffModel) houseOptions() []huh.Option[int64] {
	opts := []huh.Option[int64]{huh.NewOption("No default house", int64(0))}
	for _, h := range m.houses {
		opts = append(opts, huh.NewOption(h.Name, h.ID))
	}
	return opts
}

func (m staffModel) showForm() (staffModel, tea.Cmd) {
	fields := []huh.Field{
		huh.NewInput().Title("Name").Value(&m.fields.name).Validate(requireNonEmpty("name")),
	}
	// Email and password are fixed once the employee exists.
	if m.editingID == 0 {
		fields = append(fields,
			huh.NewInput().Title("Email").Value(&m.fields.email).Validate(func(s string) error {
				if !strings.Contains(s, "@") {
					return fmt.Errorf("enter a valid email")
				}
				return nil
			}),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&m.fields.password),
		)
	}
	fields = append(fields,
		huh.NewSelect[billing.Role]().Title("Role").
			Options(
				huh.NewOption("Caregiver", billing.RoleCaregiver),
				huh.NewOption("Administrator", billing.RoleAdministrator),
			).Value(&m.fields.role),
		huh.NewSelect[int64]().Title("Default house").Options(m.houseOptions()...).Value(&m.fields.houseID),
	)

	m.form = huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(true).WithShowErrors(true)
	m.formActive = true
	return m, m.form.Init()
}

func (m staffModel) updateForm(msg tea.Msg) (staffModel, tea.Cmd) {
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
		submitted := *m.fields
		m.fields.password = ""
		return m, tea.Sequence(m.saveCmd(m.editingID, submitted), m.refresh())
	}
	return m, cmd
}

func (m staffModel) saveCmd(id int64, f staffFields) tea.Cmd {
	return func() tea.Msg {
		if id == 0 {
			_, err := m.store.CreateEmployee(store.EmployeeInput{
				Name:     f.name,
				Email:    f.email,
				Password: f.password,
				Role:     f.role,
				HouseID:  idOrNil(f.houseID),
			})
			if err != nil {
				return errStatus("Create employee", err)
			}
			return statusMsg{text: "Employee added"}
		}
		if err := m.store.UpdateEmployee(id, f.name, f.role, idOrNil(f.houseID)); err != nil {
			return errStatus("Update employee", err)
		}
		return statusMsg{text: "Employee updated"}
	}
}

// deleteCmd removes the employee together with their timesheets.
func (m staffModel) deleteCmd(e billing.Employee) tea.Cmd {
	return func() tea.Msg {
		if err := m.store.DeleteEmployee(e.ID); err != nil {
			return errStatus("Delete employee", err)
		}
		return statusMsg{text: "Deleted " + e.Name + " and their timesheets"}
	}
}

func (m staffModel) view() string {
	w := m.width - 4
	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Employee")
		if m.editingID != 0 {
			title = titleStyle.Render("Edit Employee")
		}
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()))
	}

	title := titleStyle.Render("Staff")
	if len(m.employees) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No staff yet. Press n to add someone."),
		))
	}

	rows := []string{
		title,
		"",
		mutedStyle.Render(fmt.Sprintf("  %-22s %-28s %-14s %-20s", "Name", "Email", "Role", "Default house")),
	}
	for i, e := range m.employees {
		cursor, render := cursorPrefix(i == m.cursor)
		role := string(e.Role)
		if e.IsAdministrator() {
			role += "*"
		}
		rows = append(rows, render(fmt.Sprintf("%s%-22s %-28s %-14s %-20s",
			cursor, truncate(e.Name, 22), truncate(e.Email, 28), role, truncate(houseName(m.houses, e.HouseID), 20))))
	}
	rows = append(rows,
		"",
		mutedStyle.Render("  * administrators are left out of payroll and performance"),
		mutedStyle.Render("  n: new  enter: edit  d: delete"),
	)
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
