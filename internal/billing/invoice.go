package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceView is the client invoice handed to a document renderer.
type InvoiceView struct {
	Title       string         `json:"title"`
	CompanyName string         `json:"company_name"`
	InvoiceDate time.Time      `json:"invoice_date"`
	HouseName   string         `json:"house_name,omitempty"`
	Style       InvoiceStyle   `json:"style"`
	PeriodLabel string         `json:"period"`
	Summary     InvoiceTotals  `json:"summary"`
	Groups      []InvoiceGroup `json:"groups"`
	Footer      []string       `json:"footer"`
}

type InvoiceTotals struct {
	TotalEntries int             `json:"total_entries"`
	TotalDays    decimal.Decimal `json:"total_days"`
	TotalHours   decimal.Decimal `json:"total_hours"`
	TotalDue     decimal.Decimal `json:"total_amount"`
}

// InvoiceGroup is one caregiver block: its lines and the amount billed for them.
type InvoiceGroup struct {
	Employee string          `json:"caregiver"`
	Lines    []string        `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type InvoiceOptions struct {
	CompanyName  string
	PaymentTerms string
	InvoiceDate  time.Time
}

// invoiceGroup accumulates the entries billed under one display name.
type invoiceGroup struct {
	name     string
	days     decimal.Decimal
	hours    decimal.Decimal
	subtotal decimal.Decimal
	entries  []Entry
}

// invoiceLayout turns a group into its printed lines.
type invoiceLayout interface {
	lines(g *invoiceGroup) []string
}

type groupedLayout struct{}

func (groupedLayout) lines(g *invoiceGroup) []string {
	var out []string
	if !g.days.IsZero() {
		out = append(out, Days(g.days).String())
	}
	if !g.hours.IsZero() {
		out = append(out, Hours(g.hours).String())
	}
	return out
}

type dailyLayout struct{}

func (dailyLayout) lines(g *invoiceGroup) []string {
	var out []string
	for _, e := range sortedByDate(g.entries) {
		out = append(out, e.Date.Format("01/02"))
	}
	return out
}

func layoutFor(style InvoiceStyle) invoiceLayout {
	if style == StyleDaily {
		return dailyLayout{}
	}
	return groupedLayout{}
}

// groupByName combines entries under the employee display name, in order of
// first appearance. Two employees sharing a name share a group.
func groupByName(entries []Entry) []*invoiceGroup {
	var groups []*invoiceGroup
	index := make(map[string]*invoiceGroup)
	for _, e := range entries {
		g, ok := index[e.EmployeeName]
		if !ok {
			g = &invoiceGroup{name: e.EmployeeName}
			index[e.EmployeeName] = g
			groups = append(groups, g)
		}
		g.days = g.days.Add(e.Quantity.Days())
		g.hours = g.hours.Add(e.Quantity.Hours())
		g.subtotal = g.subtotal.Add(e.ClientCharge)
		g.entries = append(g.entries, e)
	}
	return groups
}

// FormatClientInvoice builds the client invoice for the aggregate. A nil house
// means an all-houses invoice, laid out in the grouped style.
func FormatClientInvoice(a *Aggregate, house *House, period Period, opts InvoiceOptions) (*InvoiceView, error) {
	if a.Empty() {
		return nil, fmt.Errorf("client invoice for %s: %w", period.Label(), ErrNoEntriesForPeriod)
	}

	style := StyleGrouped
	view := &InvoiceView{
		Title:       "Client Invoice",
		CompanyName: opts.CompanyName,
		InvoiceDate: opts.InvoiceDate,
		PeriodLabel: period.Label(),
	}
	if house != nil {
		view.HouseName = house.Name
		if house.InvoiceStyle == StyleDaily {
			style = StyleDaily
		}
	}
	view.Style = style

	layout := layoutFor(style)
	for _, g := range groupByName(a.Entries) {
		view.Groups = append(view.Groups, InvoiceGroup{
			Employee: g.name,
			Lines:    layout.lines(g),
			Subtotal: g.subtotal,
		})
		view.Summary.TotalDays = view.Summary.TotalDays.Add(g.days)
		view.Summary.TotalHours = view.Summary.TotalHours.Add(g.hours)
	}
	view.Summary.TotalEntries = a.TotalEntries
	view.Summary.TotalDue = a.TotalRevenue

	if opts.PaymentTerms != "" {
		view.Footer = append(view.Footer, "Payment Terms: "+opts.PaymentTerms)
	}
	view.Footer = append(view.Footer, "Thank you for your business!")
	return view, nil
}
