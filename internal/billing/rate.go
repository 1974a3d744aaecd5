package billing

import "github.com/shopspring/decimal"

// Rates are the day rates an entry is priced with.
type Rates struct {
	EmployeePayPerDay  decimal.Decimal
	ClientChargePerDay decimal.Decimal
}

// Resolve prices a quantity. Day entries are charged at the day rate; hour
// entries are prorated over an HoursPerDay-hour day. Amounts are rounded to cents.
func Resolve(q Quantity, rates *Rates) (pay, charge decimal.Decimal, err error) {
	if rates == nil {
		return decimal.Zero, decimal.Zero, ErrMissingRateConfiguration
	}
	if err := q.Validate(); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	days := q.Value
	if q.Unit == UnitHours {
		days = q.Value.Div(hoursPerDay)
	}
	pay = roundCents(days.Mul(rates.EmployeePayPerDay))
	charge = roundCents(days.Mul(rates.ClientChargePerDay))
	return pay, charge, nil
}

type RateType string

const (
	RateEightHour  RateType = "8-hour"
	RateTwelveHour RateType = "12-hour"
	RateExtended   RateType = "extended"
)

var (
	eightHours  = decimal.NewFromInt(8)
	twelveHours = decimal.NewFromInt(12)
)

// ClassifyRateType labels a shift by its length in hours. Display only.
func ClassifyRateType(hours decimal.Decimal) RateType {
	switch {
	case hours.LessThanOrEqual(eightHours):
		return RateEightHour
	case hours.LessThanOrEqual(twelveHours):
		return RateTwelveHour
	default:
		return RateExtended
	}
}

// RateTypeFor classifies an entry. A day entry is a standard HoursPerDay shift
// however many days it covers.
func RateTypeFor(q Quantity) RateType {
	if q.Unit == UnitDays {
		return ClassifyRateType(hoursPerDay)
	}
	return ClassifyRateType(q.Value)
}

// Short is the compact label used in narrow table columns.
func (r RateType) Short() string {
	switch r {
	case RateEightHour:
		return "8hr"
	case RateTwelveHour:
		return "12hr"
	default:
		return "Ext"
	}
}
