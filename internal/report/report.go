// Package report assembles invoices, payroll reports and the dashboard
// overview from stored timesheets.
package report

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/sadopc/carebill/internal/billing"
	"github.com/sadopc/carebill/internal/store"
	"github.com/shopspring/decimal"
)

// Setting keys read from the store.
const (
	SettingCompanyName  = "company_name"
	SettingPaymentTerms = "payment_terms"
	SettingRowsPerPage  = "rows_per_page"
)

const defaultCompanyName = "SuperchargedByGrace"

// Source is the read side of the data store.
type Source interface {
	ListEntries(f store.EntryFilter) ([]billing.Entry, error)
	ListEmployees() ([]billing.Employee, error)
	GetHouse(id int64) (*billing.House, error)
	GetSummary(f store.EntryFilter) (billing.Summary, error)
	SettingOr(key, fallback string) string
	IntSettingOr(key string, fallback int) int
}

type Generator struct {
	src Source
	log *slog.Logger
}

func NewGenerator(src Source, log *slog.Logger) *Generator {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Generator{src: src, log: log}
}

// Request selects the entries a report covers. A nil HouseID means all
// houses. Now stamps the document and its filename.
type Request struct {
	Period  billing.Period
	HouseID *int64
	Now     time.Time
}

func (r Request) now() time.Time {
	if r.Now.IsZero() {
		return time.Now()
	}
	return r.Now
}

type InvoiceResult struct {
	View      *billing.InvoiceView
	Aggregate *billing.Aggregate
	Filename  string
}

type PayrollResult struct {
	View      *billing.PayrollView
	Aggregate *billing.Aggregate
	Filename  string
}

// scope is a resolved request: the window, the house and the entries in it.
type scope struct {
	rng     billing.DateRange
	house   *billing.House
	entries []billing.Entry
}

func (g *Generator) load(req Request) (*scope, error) {
	rng, err := req.Period.Range()
	if err != nil {
		return nil, err
	}

	sc := &scope{rng: rng}
	if req.HouseID != nil {
		h, err := g.src.GetHouse(*req.HouseID)
		if err != nil {
			return nil, fmt.Errorf("load house: %w", err)
		}
		sc.house = h
	}

	entries, err := g.src.ListEntries(store.RangeFilter(rng, req.HouseID))
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	sc.entries = billing.FilterEntries(entries, rng, req.HouseID)
	return sc, nil
}

func (sc *scope) houseName() string {
	if sc.house == nil {
		return ""
	}
	return sc.house.Name
}

// Invoice builds the client invoice for every entry in the window,
// administrators included.
func (g *Generator) Invoice(req Request) (*InvoiceResult, error) {
	sc, err := g.load(req)
	if err != nil {
		return nil, g.fail("invoice", req, err)
	}

	agg := billing.NewAggregate(sc.entries)
	now := req.now()
	view, err := billing.FormatClientInvoice(agg, sc.house, req.Period, billing.InvoiceOptions{
		CompanyName:  g.src.SettingOr(SettingCompanyName, defaultCompanyName),
		PaymentTerms: g.src.SettingOr(SettingPaymentTerms, ""),
		InvoiceDate:  now,
	})
	if err != nil {
		return nil, g.fail("invoice", req, err)
	}

	res := &InvoiceResult{
		View:      view,
		Aggregate: agg,
		Filename:  billing.ReportFilename(billing.ReportInvoice, sc.houseName(), req.Period, now),
	}
	g.log.Info("invoice generated",
		"period", req.Period.Token(),
		"house", houseAttr(sc.houseName()),
		"entries", agg.TotalEntries,
		"total", agg.TotalRevenue.StringFixed(2),
	)
	return res, nil
}

// Payroll builds the payroll report. Administrator time is not payroll.
func (g *Generator) Payroll(req Request) (*PayrollResult, error) {
	sc, err := g.load(req)
	if err != nil {
		return nil, g.fail("payroll", req, err)
	}
	employees, err := g.src.ListEmployees()
	if err != nil {
		return nil, g.fail("payroll", req, fmt.Errorf("load employees: %w", err))
	}

	agg := billing.NewAggregate(billing.ExcludeAdministrators(sc.entries, employees))
	now := req.now()
	view, err := billing.FormatPayrollReport(agg, req.Period, billing.PayrollOptions{
		CompanyName: g.src.SettingOr(SettingCompanyName, defaultCompanyName),
		HouseName:   sc.houseName(),
		ReportDate:  now,
		RowsPerPage: g.src.IntSettingOr(SettingRowsPerPage, billing.DefaultRowsPerPage),
	})
	if err != nil {
		return nil, g.fail("payroll", req, err)
	}

	res := &PayrollResult{
		View:      view,
		Aggregate: agg,
		Filename:  billing.ReportFilename(billing.ReportPayroll, sc.houseName(), req.Period, now),
	}
	g.log.Info("payroll generated",
		"period", req.Period.Token(),
		"house", houseAttr(sc.houseName()),
		"entries", agg.TotalEntries,
		"total", agg.TotalPayroll.StringFixed(2),
	)
	return res, nil
}

// Overview is the dashboard: headline totals and caregiver performance.
type Overview struct {
	Range       billing.DateRange
	HouseName   string
	Summary     billing.Summary
	Margin      decimal.Decimal
	Aggregate   *billing.Aggregate
	Performance []billing.PerformanceRow
}

// Overview never fails on an empty window; totals are simply zero.
func (g *Generator) Overview(req Request) (*Overview, error) {
	sc, err := g.load(req)
	if err != nil {
		return nil, g.fail("overview", req, err)
	}
	employees, err := g.src.ListEmployees()
	if err != nil {
		return nil, g.fail("overview", req, fmt.Errorf("load employees: %w", err))
	}

	agg := billing.NewAggregate(sc.entries)
	summary := agg.Summary()
	if sc.rng.All && req.HouseID == nil {
		if summary, err = g.src.GetSummary(store.EntryFilter{}); err != nil {
			return nil, g.fail("overview", req, fmt.Errorf("load summary: %w", err))
		}
	}

	return &Overview{
		Range:       sc.rng,
		HouseName:   sc.houseName(),
		Summary:     summary,
		Margin:      summary.Margin(),
		Aggregate:   agg,
		Performance: billing.Performance(employees, agg),
	}, nil
}

func (g *Generator) fail(kind string, req Request, err error) error {
	g.log.Warn(kind+" failed", "period", req.Period.Token(), "error", err)
	return fmt.Errorf("%s: %w", kind, err)
}

func houseAttr(name string) string {
	if name == "" {
		return "all"
	}
	return name
}
