package billing

import (
	"testing"
	"time"
)

func TestReportFilename(t *testing.T) {
	at := time.UnixMilli(1704067200000)
	tests := []struct {
		kind   ReportKind
		house  string
		period Period
		want   string
	}{
		{ReportInvoice, "", AllTime(), "invoice-all-houses-all-time-1704067200000.pdf"},
		{ReportInvoice, "Maple House", Monthly(2024, time.February), "invoice-maple-house-2024-02-1704067200000.pdf"},
		{ReportPayroll, "", Weekly(Date(2024, 1, 1)), "payroll-all-houses-week-2024-01-01-1704067200000.pdf"},
		{ReportPayroll, "  St. Anne's  ", Biweekly(Date(2024, 1, 15)), "payroll-st-anne-s-biweek-2024-01-15-1704067200000.pdf"},
	}
	for _, tt := range tests {
		if got := ReportFilename(tt.kind, tt.house, tt.period, at); got != tt.want {
			t.Errorf("ReportFilename() = %q, want %q", got, tt.want)
		}
	}
}
