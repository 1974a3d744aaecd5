package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/carebill/internal/billing"
	"github.com/sadopc/carebill/internal/report"
	"github.com/sadopc/carebill/internal/store"
)

const settingWeekStart = "week_start"

// settingFields backs the settings form.
type settingFields struct {
	companyName  string
	paymentTerms string
	rowsPerPage  string
	weekStart    string
}

func (f *settingFields) pairs() []store.Setting {
	return []store.Setting{
		{Key: report.SettingCompanyName, Value: strings.TrimSpace(f.companyName)},
		{Key: report.SettingPaymentTerms, Value: strings.TrimSpace(f.paymentTerms)},
		{Key: report.SettingRowsPerPage, Value: strings.TrimSpace(f.rowsPerPage)},
		{Key: settingWeekStart, Value: f.weekStart},
	}
}

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form
	fields     *settingFields
}

func newSettingsModel(s *store.Store) settingsModel {
	return settingsModel{store: s, fields: &settingFields{}}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("must be a whole number above zero")
	}
	return nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.fields = settingFields{
		companyName:  s.store.SettingOr(report.SettingCompanyName, ""),
		paymentTerms: s.store.SettingOr(report.SettingPaymentTerms, ""),
		rowsPerPage:  strconv.Itoa(s.store.IntSettingOr(report.SettingRowsPerPage, billing.DefaultRowsPerPage)),
		weekStart:    s.store.SettingOr(settingWeekStart, "monday"),
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Company name").Value(&s.fields.companyName).Validate(requireNonEmpty("company name")),
			huh.NewInput().Title("Payment terms").Value(&s.fields.paymentTerms),
		).Title("Invoices"),
		huh.NewGroup(
			huh.NewInput().Title("Rows per payroll page").Value(&s.fields.rowsPerPage).Validate(positiveInt),
			huh.NewSelect[string]().Title("Week starts on").
				Options(
					huh.NewOption("Monday", "monday"),
					huh.NewOption("Sunday", "sunday"),
				).Value(&s.fields.weekStart),
		).Title("Payroll"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		s.formActive = false
		s.form = nil
		return s, nil
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, tea.Sequence(s.saveCmd(s.fields.pairs()), s.refresh())
	}
	return s, cmd
}

func (s settingsModel) saveCmd(pairs []store.Setting) tea.Cmd {
	return func() tea.Msg {
		for _, p := range pairs {
			if err := s.store.SetSetting(p.Key, p.Value); err != nil {
				return errStatus("Save settings", err)
			}
		}
		return statusMsg{text: "Settings saved"}
	}
}

var settingLabels = map[string]string{
	report.SettingCompanyName:  "Company name",
	report.SettingPaymentTerms: "Payment terms",
	report.SettingRowsPerPage:  "Rows per payroll page",
	settingWeekStart:           "Week starts on",
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Settings"), "", s.form.View()),
		)
	}

	rows := []string{titleStyle.Render("Settings"), ""}
	for _, setting := range s.settings {
		name := setting.Key
		if l, ok := settingLabels[name]; ok {
			name = l
		}
		label := lipgloss.NewStyle().Width(24).Render(name)
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(setting.Value)))
	}
	rows = append(rows, "", mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
