package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

type PeriodKind int

const (
	PeriodAllTime PeriodKind = iota
	PeriodMonthly
	PeriodWeekly
	PeriodBiweekly
)

var periodKindNames = []string{"all", "monthly", "weekly", "biweekly"}

func (k PeriodKind) String() string {
	if int(k) < len(periodKindNames) {
		return periodKindNames[k]
	}
	return fmt.Sprintf("PeriodKind(%d)", int(k))
}

// Period selects a reporting window. Year and Month are used by monthly
// periods, Start by weekly and bi-weekly ones.
type Period struct {
	Kind  PeriodKind
	Year  int
	Month time.Month
	Start time.Time
}

func AllTime() Period { return Period{Kind: PeriodAllTime} }
func Monthly(year int, month time.Month) Period { return Period{Kind: PeriodMonthly, Year: year, Month: month} }
func Weekly(start time.Time) Period { return Period{Kind: PeriodWeekly, Start: start} }
func Biweekly(start time.Time) Period { return Period{Kind: PeriodBiweekly, Start: start} }

// DateRange is an inclusive range of calendar days. All means unbounded.
type DateRange struct {
	All   bool
	Start time.Time
	End   time.Time
}

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CivilDate drops the time of day, keeping the calendar day as written.
func CivilDate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// Range resolves the period to its inclusive day range.
func (p Period) Range() (DateRange, error) {
	switch p.Kind {
	case PeriodAllTime:
		return DateRange{All: true}, nil
	case PeriodMonthly:
		if p.Month < time.January || p.Month > time.December || p.Year == 0 {
			return DateRange{}, fmt.Errorf("monthly period needs a year and month: %w", ErrIncompleteFilterSpecification)
		}
		start := Date(p.Year, p.Month, 1)
		return DateRange{Start: start, End: start.AddDate(0, 1, -1)}, nil
	case PeriodWeekly, PeriodBiweekly:
		if p.Start.IsZero() {
			return DateRange{}, fmt.Errorf("%s period needs a start date: %w", p.Kind, ErrIncompleteFilterSpecification)
		}
		start := CivilDate(p.Start)
		days := 6
		if p.Kind == PeriodBiweekly {
			days = 13
		}
		return DateRange{Start: start, End: start.AddDate(0, 0, days)}, nil
	}
	return DateRange{}, fmt.Errorf("unknown period kind %d", int(p.Kind))
}

func (r DateRange) Contains(t time.Time) bool {
	if r.All {
		return true
	}
	d := CivilDate(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days is the number of calendar days in the range, zero when unbounded.
func (r DateRange) Days() int {
	if r.All {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Token is the period part of report filenames.
func (p Period) Token() string {
	switch p.Kind {
	case PeriodMonthly:
		return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
	case PeriodWeekly:
		return "week-" + FormatDate(p.Start)
	case PeriodBiweekly:
		return "biweek-" + FormatDate(p.Start)
	default:
		return "all-time"
	}
}

// Label is the human readable period shown in report headers.
func (p Period) Label() string {
	switch p.Kind {
	case PeriodMonthly:
		return fmt.Sprintf("%s %d", p.Month, p.Year)
	case PeriodWeekly, PeriodBiweekly:
		r, err := p.Range()
		if err != nil {
			return p.Kind.String()
		}
		return FormatDate(r.Start) + " to " + FormatDate(r.End)
	default:
		return "All Time"
	}
}

// ParsePeriod reads a period from its kind name and a value: YYYY-MM for
// monthly periods, YYYY-MM-DD for weekly and bi-weekly ones.
func ParsePeriod(kind, value string) (Period, error) {
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "all", "all-time", "none":
		return AllTime(), nil
	case "monthly", "month":
		if value == "" {
			return Period{}, fmt.Errorf("monthly period needs YYYY-MM: %w", ErrIncompleteFilterSpecification)
		}
		t, err := time.Parse("2006-01", value)
		if err != nil {
			return Period{}, fmt.Errorf("parse month %q: %w", value, err)
		}
		return Monthly(t.Year(), t.Month()), nil
	case "weekly", "week":
		start, err := parseStart(value)
		if err != nil {
			return Period{}, err
		}
		return Weekly(start), nil
	case "biweekly", "bi-weekly", "biweek":
		start, err := parseStart(value)
		if err != nil {
			return Period{}, err
		}
		return Biweekly(start), nil
	}
	return Period{}, fmt.Errorf("unknown period %q", kind)
}

func parseStart(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("period needs a start date: %w", ErrIncompleteFilterSpecification)
	}
	return ParseDate(value)
}

// ParseHouseFilter returns nil for "" and "all", meaning every house.
func ParseHouseFilter(s string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse house %q: %w", s, err)
	}
	return &id, nil
}

// FilterEntries keeps entries inside the range and, when houseID is set,
// assigned to that house. The input slice is not modified.
func FilterEntries(entries []Entry, r DateRange, houseID *int64) []Entry {
	var out []Entry
	for _, e := range entries {
		if !r.Contains(e.Date) {
			continue
		}
		if houseID != nil && (e.HouseID == nil || *e.HouseID != *houseID) {
			continue
		}
		out = append(out, e)
	}
	return out
}
