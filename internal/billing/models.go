package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentFrequency string

const (
	FrequencyWeekly   PaymentFrequency = "weekly"
	FrequencyBiweekly PaymentFrequency = "bi-weekly"
	FrequencyMonthly  PaymentFrequency = "monthly"
)

type InvoiceStyle string

const (
	StyleGrouped InvoiceStyle = "grouped"
	StyleDaily   InvoiceStyle = "daily"
)

type Role string

const (
	RoleAdministrator Role = "Administrator"
	RoleCaregiver     Role = "Caregiver"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusPaid     Status = "paid"
)

// Next cycles pending -> approved -> paid -> pending.
func (s Status) Next() Status {
	switch s {
	case StatusPending:
		return StatusApproved
	case StatusApproved:
		return StatusPaid
	default:
		return StatusPending
	}
}

type House struct {
	ID                 int64
	Name               string
	EmployeePayPerDay  decimal.Decimal
	ClientChargePerDay decimal.Decimal
	PaymentFrequency   PaymentFrequency
	InvoiceStyle       InvoiceStyle
	Notes              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Rates returns the day rates configured on the house.
func (h *House) Rates() *Rates {
	if h == nil {
		return nil
	}
	return &Rates{
		EmployeePayPerDay:  h.EmployeePayPerDay,
		ClientChargePerDay: h.ClientChargePerDay,
	}
}

// ProfitPerDay may be negative; nothing stops a house from being billed below cost.
func (h House) ProfitPerDay() decimal.Decimal {
	return h.ClientChargePerDay.Sub(h.EmployeePayPerDay)
}

type Employee struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	HouseID      *int64
	CreatedAt    time.Time
}

func (e Employee) IsAdministrator() bool {
	return e.Role == RoleAdministrator
}

// Entry is a timesheet entry with its pay and charge snapshotted at write time.
type Entry struct {
	ID           int64
	EmployeeID   int64
	EmployeeName string
	HouseID      *int64
	Date         time.Time
	Quantity     Quantity
	Notes        string
	Status       Status
	EmployeePay  decimal.Decimal
	ClientCharge decimal.Decimal
	CreatedAt    time.Time
}

func (e Entry) Profit() decimal.Decimal {
	return e.ClientCharge.Sub(e.EmployeePay)
}

// Summary mirrors the totals object the data store reports.
type Summary struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalPayroll decimal.Decimal `json:"total_payroll"`
	TotalHours   decimal.Decimal `json:"total_hours"`
}

func (s Summary) Profit() decimal.Decimal {
	return s.TotalRevenue.Sub(s.TotalPayroll)
}

func (s Summary) Margin() decimal.Decimal {
	return Margin(s.Profit(), s.TotalRevenue)
}
