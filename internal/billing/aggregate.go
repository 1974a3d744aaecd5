package billing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// EmployeeTotals folds the entries of one employee.
type EmployeeTotals struct {
	EmployeeID   int64
	EmployeeName string
	Hours        decimal.Decimal // hours-type entries only
	Days         decimal.Decimal // days-type entries only
	Revenue      decimal.Decimal
	Payroll      decimal.Decimal
	Entries      []Entry
}

func (t *EmployeeTotals) Profit() decimal.Decimal {
	return t.Revenue.Sub(t.Payroll)
}

// HourEquivalent counts days as HoursPerDay hours each.
func (t *EmployeeTotals) HourEquivalent() decimal.Decimal {
	return t.Hours.Add(t.Days.Mul(hoursPerDay))
}

func (t *EmployeeTotals) add(e Entry) {
	t.Hours = t.Hours.Add(e.Quantity.Hours())
	t.Days = t.Days.Add(e.Quantity.Days())
	t.Revenue = t.Revenue.Add(e.ClientCharge)
	t.Payroll = t.Payroll.Add(e.EmployeePay)
	t.Entries = append(t.Entries, e)
}

// HouseTotals groups the entries billed to one house. HouseID is nil for
// entries with no house.
type HouseTotals struct {
	HouseID   *int64
	Revenue   decimal.Decimal
	Payroll   decimal.Decimal
	Employees []*EmployeeTotals

	byEmployee map[int64]*EmployeeTotals
}

func (h *HouseTotals) Profit() decimal.Decimal {
	return h.Revenue.Sub(h.Payroll)
}

// Aggregate is the folded view of a filtered entry set.
type Aggregate struct {
	TotalRevenue decimal.Decimal
	TotalPayroll decimal.Decimal
	TotalHours   decimal.Decimal // hour-equivalent across both entry types
	TotalEntries int

	// Entries keeps the input order.
	Entries   []Entry
	Employees []*EmployeeTotals
	Houses    []*HouseTotals

	byEmployee map[int64]*EmployeeTotals
	byHouse    map[int64]*HouseTotals
	noHouse    *HouseTotals
}

// NewAggregate folds entries. The slice is copied so the aggregate owns its data.
func NewAggregate(entries []Entry) *Aggregate {
	a := &Aggregate{
		Entries:    make([]Entry, len(entries)),
		byEmployee: make(map[int64]*EmployeeTotals),
		byHouse:    make(map[int64]*HouseTotals),
	}
	copy(a.Entries, entries)

	for _, e := range a.Entries {
		a.TotalRevenue = a.TotalRevenue.Add(e.ClientCharge)
		a.TotalPayroll = a.TotalPayroll.Add(e.EmployeePay)
		a.TotalHours = a.TotalHours.Add(e.Quantity.HourEquivalent())
		a.TotalEntries++

		emp, ok := a.byEmployee[e.EmployeeID]
		if !ok {
			emp = &EmployeeTotals{EmployeeID: e.EmployeeID, EmployeeName: e.EmployeeName}
			a.byEmployee[e.EmployeeID] = emp
			a.Employees = append(a.Employees, emp)
		}
		emp.add(e)

		house := a.house(e.HouseID)
		house.Revenue = house.Revenue.Add(e.ClientCharge)
		house.Payroll = house.Payroll.Add(e.EmployeePay)
		he, ok := house.byEmployee[e.EmployeeID]
		if !ok {
			he = &EmployeeTotals{EmployeeID: e.EmployeeID, EmployeeName: e.EmployeeName}
			house.byEmployee[e.EmployeeID] = he
			house.Employees = append(house.Employees, he)
		}
		he.add(e)
	}
	return a
}

func (a *Aggregate) house(id *int64) *HouseTotals {
	if id == nil {
		if a.noHouse == nil {
			a.noHouse = &HouseTotals{byEmployee: make(map[int64]*EmployeeTotals)}
			a.Houses = append(a.Houses, a.noHouse)
		}
		return a.noHouse
	}
	h, ok := a.byHouse[*id]
	if !ok {
		hid := *id
		h = &HouseTotals{HouseID: &hid, byEmployee: make(map[int64]*EmployeeTotals)}
		a.byHouse[hid] = h
		a.Houses = append(a.Houses, h)
	}
	return h
}

func (a *Aggregate) Empty() bool {
	return a == nil || a.TotalEntries == 0
}

func (a *Aggregate) Profit() decimal.Decimal {
	return a.TotalRevenue.Sub(a.TotalPayroll)
}

func (a *Aggregate) Margin() decimal.Decimal {
	return Margin(a.Profit(), a.TotalRevenue)
}

func (a *Aggregate) Employee(id int64) (*EmployeeTotals, bool) {
	t, ok := a.byEmployee[id]
	return t, ok
}

func (a *Aggregate) House(id int64) (*HouseTotals, bool) {
	h, ok := a.byHouse[id]
	return h, ok
}

func (a *Aggregate) Summary() Summary {
	return Summary{
		TotalRevenue: a.TotalRevenue,
		TotalPayroll: a.TotalPayroll,
		TotalHours:   a.TotalHours,
	}
}

// DateBounds returns the earliest and latest entry dates.
func (a *Aggregate) DateBounds() (first, last time.Time, ok bool) {
	for i, e := range a.Entries {
		if i == 0 || e.Date.Before(first) {
			first = e.Date
		}
		if i == 0 || e.Date.After(last) {
			last = e.Date
		}
	}
	return first, last, len(a.Entries) > 0
}

// sortedByDate returns a copy of entries in ascending date order, keeping
// insertion order between entries on the same day.
func sortedByDate(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// ExcludeAdministrators drops entries logged by administrators. Employees
// missing from the roster are kept.
func ExcludeAdministrators(entries []Entry, employees []Employee) []Entry {
	admins := make(map[int64]bool)
	for _, e := range employees {
		if e.IsAdministrator() {
			admins[e.ID] = true
		}
	}
	var out []Entry
	for _, e := range entries {
		if admins[e.EmployeeID] {
			continue
		}
		out = append(out, e)
	}
	return out
}

// PerformanceRow is one caregiver card on the dashboard.
type PerformanceRow struct {
	EmployeeID int64
	Name       string
	Hours      decimal.Decimal // hour-equivalent
	Revenue    decimal.Decimal
	Payroll    decimal.Decimal
	Profit     decimal.Decimal
	Entries    int
}

// Performance lists every non-administrator employee in roster order with
// their totals from the aggregate. Employees without entries get zero rows.
func Performance(employees []Employee, a *Aggregate) []PerformanceRow {
	var rows []PerformanceRow
	for _, emp := range employees {
		if emp.IsAdministrator() {
			continue
		}
		row := PerformanceRow{EmployeeID: emp.ID, Name: emp.Name}
		if a != nil {
			if t, ok := a.Employee(emp.ID); ok {
				row.Hours = t.HourEquivalent()
				row.Revenue = t.Revenue
				row.Payroll = t.Payroll
				row.Profit = t.Profit()
				row.Entries = len(t.Entries)
			}
		}
		rows = append(rows, row)
	}
	return rows
}
