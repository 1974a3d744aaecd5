package cli

import (
	"errors"
	"fmt"

	"github.com/sadopc/carebill/internal/billing"
	"github.com/sadopc/carebill/internal/store"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return err
	}

	switch {
	case errors.Is(err, billing.ErrNoEntriesForPeriod):
		return &CLIError{Message: "no timesheet entries in this period", Hint: "Pick another --period or --house, or record timesheets first", Err: err, ExitCode: 3}
	case errors.Is(err, billing.ErrIncompleteFilterSpecification):
		return &CLIError{Message: "incomplete period", Hint: "Use --month YYYY-MM with monthly periods and --start YYYY-MM-DD with weekly or biweekly ones", Err: err, ExitCode: 2}
	case errors.Is(err, billing.ErrMissingRateConfiguration):
		return NewCLIError("no rates for this entry", "Assign the employee a default house or choose a house with rates", err)
	case errors.Is(err, store.ErrNotFound):
		return NewCLIError("record not found", "Open 'carebill' and check the Houses tab for valid IDs", err)
	}
	return err
}

// ExitCode returns the process exit status for err.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) && cliErr.ExitCode != 0 {
		return cliErr.ExitCode
	}
	return 1
}
