package billing

import "errors"

var (
	// ErrMissingRateConfiguration is returned when an entry has no house to take rates from.
	ErrMissingRateConfiguration = errors.New("missing rate configuration")

	// ErrIncompleteFilterSpecification is returned when a period needs a start date or month that was not given.
	ErrIncompleteFilterSpecification = errors.New("incomplete filter specification")

	// ErrNoEntriesForPeriod is returned by the formatters when the filtered set is empty.
	ErrNoEntriesForPeriod = errors.New("no entries for period")
)
