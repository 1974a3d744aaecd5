package store

import (
	"time"

	"github.com/sadopc/carebill/internal/billing"
)

type HouseInput struct {
	Name               string
	EmployeePayPerDay  string
	ClientChargePerDay string
	PaymentFrequency   billing.PaymentFrequency
	InvoiceStyle       billing.InvoiceStyle
	Notes              string
}

type EmployeeInput struct {
	Name     string
	Email    string
	Password string // hashed before it is stored
	Role     billing.Role
	HouseID  *int64
}

// EntryInput is what a caregiver submits. HouseID falls back to the
// employee's default house when nil.
type EntryInput struct {
	EmployeeID int64
	HouseID    *int64
	Date       time.Time
	Quantity   billing.Quantity
	Notes      string
}

type Setting struct {
	Key   string
	Value string
}

// EntryFilter is used to filter timesheet entries in queries. From and To are
// inclusive calendar days.
type EntryFilter struct {
	EmployeeID *int64
	HouseID    *int64
	From       *time.Time
	To         *time.Time
	Status     billing.Status
	Limit      int
}

// RangeFilter builds a filter for a resolved period.
func RangeFilter(r billing.DateRange, houseID *int64) EntryFilter {
	f := EntryFilter{HouseID: houseID}
	if !r.All {
		from, to := r.Start, r.End
		f.From, f.To = &from, &to
	}
	return f
}
