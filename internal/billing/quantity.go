package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// HoursPerDay is the hour-equivalent of one day-type entry.
const HoursPerDay = 8

var hoursPerDay = decimal.NewFromInt(HoursPerDay)

type Unit string

const (
	UnitHours Unit = "hours"
	UnitDays  Unit = "days"
)

// Quantity is the amount of work recorded on an entry, tagged with its unit.
type Quantity struct {
	Unit  Unit
	Value decimal.Decimal
}

func Hours(v decimal.Decimal) Quantity { return Quantity{Unit: UnitHours, Value: v} }
func Days(v decimal.Decimal) Quantity { return Quantity{Unit: UnitDays, Value: v} }

// HoursOf and DaysOf are float conveniences for tests and forms.
func HoursOf(v float64) Quantity { return Hours(decimal.NewFromFloat(v)) }
func DaysOf(v float64) Quantity { return Days(decimal.NewFromFloat(v)) }

func (q Quantity) Validate() error {
	if q.Unit != UnitHours && q.Unit != UnitDays {
		return fmt.Errorf("unknown entry type %q", q.Unit)
	}
	if q.Value.IsNegative() {
		return fmt.Errorf("quantity must be >= 0, got %s", q.Value)
	}
	return nil
}

// HourEquivalent counts a day as HoursPerDay hours.
func (q Quantity) HourEquivalent() decimal.Decimal {
	if q.Unit == UnitDays {
		return q.Value.Mul(hoursPerDay)
	}
	return q.Value
}

// Hours returns the value of an hours entry, zero for a days entry.
func (q Quantity) Hours() decimal.Decimal {
	if q.Unit == UnitHours {
		return q.Value
	}
	return decimal.Zero
}

// Days returns the value of a days entry, zero for an hours entry.
func (q Quantity) Days() decimal.Decimal {
	if q.Unit == UnitDays {
		return q.Value
	}
	return decimal.Zero
}

// Stored returns the legacy column pair: entry_type and an hours field that
// holds day count × 8 for day entries.
func (q Quantity) Stored() (entryType string, hours decimal.Decimal) {
	return string(q.Unit), q.HourEquivalent()
}

// StoredQuantity is the inverse of Quantity.Stored.
func StoredQuantity(entryType string, hours decimal.Decimal) (Quantity, error) {
	switch Unit(entryType) {
	case UnitHours:
		return Hours(hours), nil
	case UnitDays:
		return Days(hours.Div(hoursPerDay)), nil
	}
	return Quantity{}, fmt.Errorf("unknown entry type %q", entryType)
}

func (q Quantity) String() string {
	switch q.Unit {
	case UnitDays:
		return pluralize(q.Value, "day")
	default:
		return pluralize(q.Value, "hour")
	}
}

func pluralize(v decimal.Decimal, unit string) string {
	if v.Equal(decimal.NewFromInt(1)) {
		return "1 " + unit
	}
	return v.String() + " " + unit + "s"
}
