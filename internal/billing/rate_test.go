package billing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

// ============================================================
// Resolve
// ============================================================

func TestResolveDays(t *testing.T) {
	pay, charge, err := Resolve(DaysOf(3), sampleHouse().Rates())
	if err != nil {
		t.Fatal(err)
	}
	assertDecimal(t, "pay", pay, "360")
	assertDecimal(t, "charge", charge, "600")
}

func TestResolveHoursProrated(t *testing.T) {
	tests := []struct {
		hours      float64
		wantPay    string
		wantCharge string
	}{
		{8, "120", "200"},
		{4, "60", "100"},
		{12, "180", "300"},
		{3, "45", "75"},
		{0, "0", "0"},
	}
	for _, tt := range tests {
		pay, charge, err := Resolve(HoursOf(tt.hours), sampleHouse().Rates())
		if err != nil {
			t.Fatalf("Resolve(%v hours): %v", tt.hours, err)
		}
		assertDecimal(t, "pay", pay, tt.wantPay)
		assertDecimal(t, "charge", charge, tt.wantCharge)
	}
}

func TestResolveRoundsToCents(t *testing.T) {
	rates := &Rates{EmployeePayPerDay: dec("100"), ClientChargePerDay: dec("155.55")}
	pay, charge, err := Resolve(HoursOf(1), rates)
	if err != nil {
		t.Fatal(err)
	}
	assertDecimal(t, "pay", pay, "12.5")
	// 155.55 / 8 = 19.44375
	assertDecimal(t, "charge", charge, "19.44")
}

func TestResolveMissingRates(t *testing.T) {
	_, _, err := Resolve(DaysOf(1), nil)
	if !errors.Is(err, ErrMissingRateConfiguration) {
		t.Fatalf("got %v, want ErrMissingRateConfiguration", err)
	}

	var house *House
	_, _, err = Resolve(DaysOf(1), house.Rates())
	if !errors.Is(err, ErrMissingRateConfiguration) {
		t.Fatalf("nil house: got %v, want ErrMissingRateConfiguration", err)
	}
}

func TestResolveRejectsBadQuantity(t *testing.T) {
	if _, _, err := Resolve(HoursOf(-1), sampleHouse().Rates()); err == nil {
		t.Fatal("expected error for negative hours")
	}
	if _, _, err := Resolve(Quantity{Unit: "weeks", Value: dec("1")}, sampleHouse().Rates()); err == nil {
		t.Fatal("expected error for unknown unit")
	}
}

// ============================================================
// Rate-type classification
// ============================================================

func TestClassifyRateType(t *testing.T) {
	tests := []struct {
		hours string
		want  RateType
		short string
	}{
		{"0", RateEightHour, "8hr"},
		{"6", RateEightHour, "8hr"},
		{"8", RateEightHour, "8hr"},
		{"8.5", RateTwelveHour, "12hr"},
		{"12", RateTwelveHour, "12hr"},
		{"12.25", RateExtended, "Ext"},
		{"24", RateExtended, "Ext"},
	}
	for _, tt := range tests {
		got := ClassifyRateType(dec(tt.hours))
		if got != tt.want {
			t.Errorf("ClassifyRateType(%s) = %q, want %q", tt.hours, got, tt.want)
		}
		if got.Short() != tt.short {
			t.Errorf("Short(%s) = %q, want %q", tt.hours, got.Short(), tt.short)
		}
	}
}

func TestRateTypeForDaysIsStandardShift(t *testing.T) {
	if got := RateTypeFor(DaysOf(5)); got != RateEightHour {
		t.Fatalf("5 days classified as %q, want %q", got, RateEightHour)
	}
	if got := RateTypeFor(HoursOf(10)); got != RateTwelveHour {
		t.Fatalf("10 hours classified as %q, want %q", got, RateTwelveHour)
	}
}

// ============================================================
// Quantity
// ============================================================

func TestStoredQuantityRoundTrip(t *testing.T) {
	q, err := StoredQuantity("days", dec("40"))
	if err != nil {
		t.Fatal(err)
	}
	assertDecimal(t, "days", q.Days(), "5")
	assertDecimal(t, "hours", q.Hours(), "0")
	assertDecimal(t, "hour-equivalent", q.HourEquivalent(), "40")

	typ, hours := q.Stored()
	if typ != "days" {
		t.Fatalf("entry type = %q, want days", typ)
	}
	assertDecimal(t, "stored hours", hours, "40")

	q, err = StoredQuantity("hours", dec("7.5"))
	if err != nil {
		t.Fatal(err)
	}
	assertDecimal(t, "hours", q.Hours(), "7.5")
	assertDecimal(t, "days", q.Days(), "0")

	if _, err := StoredQuantity("shifts", decimal.Zero); err == nil {
		t.Fatal("expected error for unknown entry type")
	}
}

func TestQuantityString(t *testing.T) {
	tests := []struct {
		q    Quantity
		want string
	}{
		{DaysOf(1), "1 day"},
		{DaysOf(5), "5 days"},
		{DaysOf(2.5), "2.5 days"},
		{HoursOf(1), "1 hour"},
		{HoursOf(6), "6 hours"},
	}
	for _, tt := range tests {
		if got := tt.q.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestMarginZeroRevenue(t *testing.T) {
	got := Margin(decimal.Zero, decimal.Zero)
	if !got.IsZero() {
		t.Fatalf("margin = %s, want 0", got)
	}
	got = Margin(dec("-50"), decimal.Zero)
	if !got.IsZero() {
		t.Fatalf("margin with loss and no revenue = %s, want 0", got)
	}
	assertDecimal(t, "margin", Margin(dec("40"), dec("100")), "0.4")
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1000", "$1000.00"},
		{"0", "$0.00"},
		{"12.345", "$12.35"},
		{"-80", "-$80.00"},
	}
	for _, tt := range tests {
		if got := FormatMoney(dec(tt.in)); got != tt.want {
			t.Errorf("FormatMoney(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := FormatPercent(dec("0.375")); got != "37.5%" {
		t.Fatalf("FormatPercent = %q, want 37.5%%", got)
	}
}

func TestStatusNext(t *testing.T) {
	if StatusPending.Next() != StatusApproved || StatusApproved.Next() != StatusPaid || StatusPaid.Next() != StatusPending {
		t.Fatal("status cycle should be pending -> approved -> paid -> pending")
	}
}
