package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func sampleEntries(t *testing.T) []Entry {
	t.Helper()
	maple := sampleHouse()
	oak := &House{ID: 2, Name: "Oak Lodge", EmployeePayPerDay: dec("150"), ClientChargePerDay: dec("180")}
	return []Entry{
		priced(t, 1, 1, "Jane Doe", Date(2024, time.January, 3), DaysOf(3), maple),
		priced(t, 2, 2, "Sam Lee", Date(2024, time.January, 2), HoursOf(12), maple),
		priced(t, 3, 1, "Jane Doe", Date(2024, time.January, 1), DaysOf(2), maple),
		priced(t, 4, 2, "Sam Lee", Date(2024, time.January, 4), DaysOf(1), oak),
		priced(t, 5, 3, "Ana Cruz", Date(2024, time.January, 5), HoursOf(4), oak),
	}
}

// ============================================================
// Totals
// ============================================================

func TestAggregateTotals(t *testing.T) {
	a := NewAggregate(sampleEntries(t))

	// charges: 600 + 300 + 400 + 180 + 90
	assertDecimal(t, "revenue", a.TotalRevenue, "1570")
	// pay: 360 + 180 + 240 + 150 + 75
	assertDecimal(t, "payroll", a.TotalPayroll, "1005")
	// hours: 24 + 12 + 16 + 8 + 4
	assertDecimal(t, "hours", a.TotalHours, "64")
	if a.TotalEntries != 5 {
		t.Fatalf("entries = %d, want 5", a.TotalEntries)
	}
	assertDecimal(t, "profit", a.Profit(), "565")
}

func TestAggregateIsPartition(t *testing.T) {
	a := NewAggregate(sampleEntries(t))

	var profit, revenue, payroll decimal.Decimal
	count := 0
	for _, emp := range a.Employees {
		profit = profit.Add(emp.Profit())
		revenue = revenue.Add(emp.Revenue)
		payroll = payroll.Add(emp.Payroll)
		count += len(emp.Entries)
	}
	if !profit.Equal(a.Profit()) {
		t.Fatalf("sum of employee profit = %s, want %s", profit, a.Profit())
	}
	if !a.TotalRevenue.Sub(a.TotalPayroll).Equal(a.Profit()) {
		t.Fatal("revenue - payroll should equal profit")
	}
	if !revenue.Equal(a.TotalRevenue) || !payroll.Equal(a.TotalPayroll) {
		t.Fatal("employee totals should sum to the global totals")
	}
	if count != a.TotalEntries {
		t.Fatalf("employee groups hold %d entries, want %d", count, a.TotalEntries)
	}

	var houseRevenue decimal.Decimal
	for _, h := range a.Houses {
		houseRevenue = houseRevenue.Add(h.Revenue)
	}
	if !houseRevenue.Equal(a.TotalRevenue) {
		t.Fatalf("house revenue = %s, want %s", houseRevenue, a.TotalRevenue)
	}
}

func TestAggregatePerEmployee(t *testing.T) {
	a := NewAggregate(sampleEntries(t))

	if len(a.Employees) != 3 {
		t.Fatalf("employees = %d, want 3", len(a.Employees))
	}
	// First-seen order
	if a.Employees[0].EmployeeName != "Jane Doe" || a.Employees[1].EmployeeName != "Sam Lee" || a.Employees[2].EmployeeName != "Ana Cruz" {
		t.Fatalf("unexpected order: %s, %s, %s", a.Employees[0].EmployeeName, a.Employees[1].EmployeeName, a.Employees[2].EmployeeName)
	}

	jane, ok := a.Employee(1)
	if !ok {
		t.Fatal("employee 1 missing")
	}
	assertDecimal(t, "jane days", jane.Days, "5")
	assertDecimal(t, "jane hours", jane.Hours, "0")
	assertDecimal(t, "jane hour-equivalent", jane.HourEquivalent(), "40")
	assertDecimal(t, "jane revenue", jane.Revenue, "1000")
	if jane.Entries[0].ID != 1 || jane.Entries[1].ID != 3 {
		t.Fatal("entries should keep insertion order")
	}

	sam, _ := a.Employee(2)
	assertDecimal(t, "sam hours", sam.Hours, "12")
	assertDecimal(t, "sam days", sam.Days, "1")
	assertDecimal(t, "sam hour-equivalent", sam.HourEquivalent(), "20")
}

func TestAggregateDayEntryNeverCountsStoredHoursAsDays(t *testing.T) {
	q, err := StoredQuantity("days", dec("40"))
	if err != nil {
		t.Fatal(err)
	}
	a := NewAggregate([]Entry{{ID: 1, EmployeeID: 1, EmployeeName: "Jane Doe", Date: Date(2024, 1, 1), Quantity: q}})
	emp, _ := a.Employee(1)
	assertDecimal(t, "days", emp.Days, "5")
	assertDecimal(t, "hour-equivalent", emp.HourEquivalent(), "40")
	assertDecimal(t, "total hours", a.TotalHours, "40")
}

func TestAggregateByHouse(t *testing.T) {
	a := NewAggregate(sampleEntries(t))

	maple, ok := a.House(1)
	if !ok {
		t.Fatal("house 1 missing")
	}
	assertDecimal(t, "maple revenue", maple.Revenue, "1300")
	if len(maple.Employees) != 2 {
		t.Fatalf("maple employees = %d, want 2", len(maple.Employees))
	}

	oak, _ := a.House(2)
	assertDecimal(t, "oak revenue", oak.Revenue, "270")
	assertDecimal(t, "oak profit", oak.Profit(), "45")
}

func TestAggregateEntriesWithoutHouse(t *testing.T) {
	a := NewAggregate([]Entry{
		{ID: 1, EmployeeID: 1, EmployeeName: "Jane", Date: Date(2024, 1, 1), Quantity: HoursOf(2), ClientCharge: dec("50"), EmployeePay: dec("30")},
	})
	if len(a.Houses) != 1 || a.Houses[0].HouseID != nil {
		t.Fatal("entries without a house should land in one unassigned group")
	}
}

func TestAggregateEmpty(t *testing.T) {
	a := NewAggregate(nil)
	if !a.Empty() {
		t.Fatal("aggregate of nothing should be empty")
	}
	if !a.Margin().IsZero() {
		t.Fatalf("margin = %s, want 0", a.Margin())
	}
	if _, _, ok := a.DateBounds(); ok {
		t.Fatal("empty aggregate has no date bounds")
	}
}

func TestAggregateOwnsItsEntries(t *testing.T) {
	entries := sampleEntries(t)
	a := NewAggregate(entries)
	entries[0].EmployeeName = "changed"
	if a.Entries[0].EmployeeName != "Jane Doe" {
		t.Fatal("aggregate should not see later changes to the input slice")
	}
}

func TestAggregateMarginAndSummary(t *testing.T) {
	a := NewAggregate(sampleEntries(t))
	s := a.Summary()
	if !s.TotalRevenue.Equal(a.TotalRevenue) || !s.TotalHours.Equal(a.TotalHours) {
		t.Fatal("summary should mirror aggregate totals")
	}
	if got := FormatPercent(a.Margin()); got != "36.0%" {
		t.Fatalf("margin = %s, want 36.0%%", got)
	}
	if !s.Margin().Equal(a.Margin()) {
		t.Fatal("summary margin should match aggregate margin")
	}
}

func TestDateBounds(t *testing.T) {
	a := NewAggregate(sampleEntries(t))
	first, last, ok := a.DateBounds()
	if !ok {
		t.Fatal("expected bounds")
	}
	if !first.Equal(Date(2024, 1, 1)) || !last.Equal(Date(2024, 1, 5)) {
		t.Fatalf("bounds = %s..%s", FormatDate(first), FormatDate(last))
	}
}

// ============================================================
// Administrators and performance
// ============================================================

func TestExcludeAdministrators(t *testing.T) {
	entries := sampleEntries(t)
	roster := []Employee{
		{ID: 1, Name: "Jane Doe", Role: RoleCaregiver},
		{ID: 2, Name: "Sam Lee", Role: RoleAdministrator},
	}
	got := ExcludeAdministrators(entries, roster)
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	for _, e := range got {
		if e.EmployeeID == 2 {
			t.Fatal("administrator entries should be dropped")
		}
	}
}

func TestPerformance(t *testing.T) {
	a := NewAggregate(sampleEntries(t))
	roster := []Employee{
		{ID: 9, Name: "Boss", Role: RoleAdministrator},
		{ID: 1, Name: "Jane Doe", Role: RoleCaregiver},
		{ID: 4, Name: "New Hire", Role: RoleCaregiver},
	}
	rows := Performance(roster, a)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Name != "Jane Doe" || rows[0].Entries != 2 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	assertDecimal(t, "jane profit", rows[0].Profit, "400")
	if rows[1].Entries != 0 || !rows[1].Revenue.IsZero() {
		t.Fatalf("employee without entries should have zero totals: %+v", rows[1])
	}
}
