package tui

import (
	"fmt"
	"strings"

	"github.com/sadopc/carebill/internal/billing"
	"github.com/shopspring/decimal"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewHouses
	viewStaff
	viewTimesheets
	viewReports
	viewSettings
)

var viewNames = []string{"Dashboard", "Houses", "Staff", "Timesheets", "Reports", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

func errStatus(action string, err error) statusMsg {
	return statusMsg{text: fmt.Sprintf("%s: %v", action, err), isError: true}
}

// --- Helpers ---

func money(d decimal.Decimal) string { return billing.FormatMoney(d) }

func percent(d decimal.Decimal) string { return billing.FormatPercent(d) }

// profitStyled colours an amount by its sign.
func profitStyled(d decimal.Decimal) string {
	if d.IsNegative() {
		return errorStyle.Render(money(d))
	}
	return successStyle.Render(money(d))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func houseName(houses []billing.House, id *int64) string {
	if id == nil {
		return "-"
	}
	for _, h := range houses {
		if h.ID == *id {
			return h.Name
		}
	}
	return fmt.Sprintf("#%d", *id)
}

// idOrNil maps the select value 0 ("none") to nil.
func idOrNil(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

func idOrZero(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}

func requireNonEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func requireDecimal(field string) func(string) error {
	return func(s string) error {
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("%s must be a number", field)
		}
		if d.IsNegative() {
			return fmt.Errorf("%s must be >= 0", field)
		}
		return nil
	}
}

func cursorPrefix(selected bool) (string, func(...string) string) {
	if selected {
		return "> ", selectedItemStyle.Render
	}
	return "  ", normalItemStyle.Render
}
