package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func int64p(v int64) *int64 { return &v }

func sampleHouse() *House {
	return &House{
		ID:                 1,
		Name:               "Maple House",
		EmployeePayPerDay:  dec("120"),
		ClientChargePerDay: dec("200"),
		PaymentFrequency:   FrequencyWeekly,
		InvoiceStyle:       StyleGrouped,
	}
}

// priced builds an entry whose snapshots come from Resolve at the given house rates.
func priced(t *testing.T, id, employeeID int64, name string, day time.Time, q Quantity, house *House) Entry {
	t.Helper()
	pay, charge, err := Resolve(q, house.Rates())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	hid := house.ID
	return Entry{
		ID:           id,
		EmployeeID:   employeeID,
		EmployeeName: name,
		HouseID:      &hid,
		Date:         day,
		Quantity:     q,
		Status:       StatusPending,
		EmployeePay:  pay,
		ClientCharge: charge,
	}
}

func assertDecimal(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s = %s, want %s", label, got, want)
	}
}
