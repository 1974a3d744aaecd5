package billing

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

type ReportKind string

const (
	ReportInvoice ReportKind = "invoice"
	ReportPayroll ReportKind = "payroll"
)

// ReportFilename follows <kind>-<house or all-houses>-<period token>-<unix millis>.pdf.
func ReportFilename(kind ReportKind, houseName string, period Period, at time.Time) string {
	house := slug(houseName)
	if house == "" {
		house = "all-houses"
	}
	return fmt.Sprintf("%s-%s-%s-%d.pdf", kind, house, period.Token(), at.UnixMilli())
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
