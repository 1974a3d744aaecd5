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
	"github.com/shopspring/decimal"
)

// houseFields backs the house form. It lives behind a pointer so the
// values survive the model being copied.
type houseFields struct {
	name      string
	pay       string
	charge    string
	frequency billing.PaymentFrequency
	style     billing.InvoiceStyle
	notes     string
}

func (f *houseFields) input() store.HouseInput {
	return store.HouseInput{
		Name:               f.name,
		EmployeePayPerDay:  f.pay,
		ClientChargePerDay: f.charge,
		PaymentFrequency:   f.frequency,
		InvoiceStyle:       f.style,
		Notes:              f.notes,
	}
}

type housesModel struct {
	store  *store.Store
	width  int
	height int

	houses []billing.House
	cursor int

	formActive bool
	form       *huh.Form
	fields     *houseFields
	editingID  int64 // 0 when creating
}

func newHousesModel(s *store.Store) housesModel {
	return housesModel{store: s, fields: &houseFields{}}
}

func (h *housesModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
}

type housesDataMsg struct {
	houses []billing.House
}

func (h housesModel) refresh() tea.Cmd {
	return func() tea.Msg {
		houses, _ := h.store.ListHouses()
		return housesDataMsg{houses: houses}
	}
}

func (h housesModel) update(msg tea.Msg) (housesModel, tea.Cmd) {
	if h.formActive && h.form != nil {
		return h.updateForm(msg)
	}

	switch msg := msg.(type) {
	case housesDataMsg:
		h.houses = msg.houses
		if h.cursor >= len(h.houses) {
			h.cursor = max(0, len(h.houses)-1)
		}
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if h.cursor > 0 {
				h.cursor--
			}
		case key.Matches(msg, keys.Down):
			if h.cursor < len(h.houses)-1 {
				h.cursor++
			}
		case key.Matches(msg, keys.New):
			*h.fields = houseFields{frequency: billing.FrequencyWeekly, style: billing.StyleGrouped}
			h.editingID = 0
			return h.showForm()
		case key.Matches(msg, keys.Enter):
			if len(h.houses) > 0 {
				cur := h.houses[h.cursor]
				*h.fields = houseFields{
					name:      cur.Name,
					pay:       cur.EmployeePayPerDay.String(),
					charge:    cur.ClientChargePerDay.String(),
					frequency: cur.PaymentFrequency,
					style:     cur.InvoiceStyle,
					notes:     cur.Notes,
				}
				h.editingID = cur.ID
				return h.showForm()
			}
		case key.Matches(msg, keys.Delete):
			if len(h.houses) > 0 {
				return h, tea.Sequence(h.deleteCmd(h.houses[h.cursor]), h.refresh())
			}
		}
	}
	return h, nil
}

func (h housesModel) showForm() (housesModel, tea.Cmd) {
	h.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("House Name").Value(&h.fields.name).Validate(requireNonEmpty("name")),
			huh.NewInput().Title("Employee pay per day").Value(&h.fields.pay).Validate(requireDecimal("pay")),
			huh.NewInput().Title("Client charge per day").Value(&h.fields.charge).Validate(requireDecimal("charge")),
		),
		huh.NewGroup(
			huh.NewSelect[billing.PaymentFrequency]().Title("Payment frequency").
				Options(
					huh.NewOption("Weekly", billing.FrequencyWeekly),
					huh.NewOption("Bi-weekly", billing.FrequencyBiweekly),
					huh.NewOption("Monthly", billing.FrequencyMonthly),
				).Value(&h.fields.frequency),
			huh.NewSelect[billing.InvoiceStyle]().Title("Invoice style").
				Options(
					huh.NewOption("Grouped (days and hours per caregiver)", billing.StyleGrouped),
					huh.NewOption("Daily (one line per date)", billing.StyleDaily),
				).Value(&h.fields.style),
			huh.NewText().Title("Notes").Value(&h.fields.notes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	h.formActive = true
	return h, h.form.Init()
}

func (h housesModel) updateForm(msg tea.Msg) (housesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		h.formActive = false
		h.form = nil
		return h, nil
	}

	form, cmd := h.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		h.form = f
	}

	if h.form.State == huh.StateCompleted {
		h.formActive = false
		return h, tea.Sequence(h.saveCmd(h.editingID, h.fields.input()), h.refresh())
	}
	return h, cmd
}

func (h housesModel) saveCmd(id int64, in store.HouseInput) tea.Cmd {
	return func() tea.Msg {
		if id == 0 {
			if _, err := h.store.CreateHouse(in); err != nil {
				return errStatus("Create house", err)
			}
			return statusMsg{text: "House created"}
		}
		if err := h.store.UpdateHouse(id, in); err != nil {
			return errStatus("Update house", err)
		}
		return statusMsg{text: "House updated"}
	}
}

func (h housesModel) deleteCmd(house billing.House) tea.Cmd {
	return func() tea.Msg {
		if err := h.store.DeleteHouse(house.ID); err != nil {
			return errStatus("Delete house", err)
		}
		return statusMsg{text: "Deleted " + house.Name}
	}
}

func (h housesModel) view() string {
	w := h.width - 4
	if h.formActive && h.form != nil {
		title := titleStyle.Render("New House")
		if h.editingID != 0 {
			title = titleStyle.Render("Edit House")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, h.renderPreview(), "", h.form.View())
		return panelStyle.Width(w).Render(content)
	}
	return h.renderList(w)
}

// renderPreview shows what the rates being typed will earn per day.
func (h housesModel) renderPreview() string {
	pay, err1 := decimal.NewFromString(strings.TrimSpace(h.fields.pay))
	charge, err2 := decimal.NewFromString(strings.TrimSpace(h.fields.charge))
	if err1 != nil || err2 != nil {
		return mutedStyle.Render("Profit per day: -")
	}
	profit := charge.Sub(pay)
	return mutedStyle.Render("Profit per day: ") + profitStyled(profit) +
		mutedStyle.Render("  margin "+percent(billing.Margin(profit, charge)))
}

func (h housesModel) renderList(w int) string {
	title := titleStyle.Render("Houses")
	if len(h.houses) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No houses yet. Press n to create one."),
		))
	}

	rows := []string{
		title,
		"",
		mutedStyle.Render(fmt.Sprintf("  %-24s %10s %10s %10s %8s %-10s %-8s", "Name", "Pay/day", "Charge/day", "Profit", "Margin", "Frequency", "Invoice")),
	}
	for i, house := range h.houses {
		cursor, render := cursorPrefix(i == h.cursor)
		profit := house.ProfitPerDay()
		rows = append(rows, render(fmt.Sprintf("%s%-24s %10s %10s %10s %8s %-10s %-8s",
			cursor,
			truncate(house.Name, 24),
			money(house.EmployeePayPerDay),
			money(house.ClientChargePerDay),
			money(profit),
			percent(billing.Margin(profit, house.ClientChargePerDay)),
			house.PaymentFrequency,
			house.InvoiceStyle,
		)))
	}
	rows = append(rows, "", mutedStyle.Render("  n: new  enter: edit  d: delete"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
