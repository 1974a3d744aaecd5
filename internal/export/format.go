// Package export writes invoice and payroll views to disk. PDF layout is
// the job of an external renderer; these formats carry the same content.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sadopc/carebill/internal/billing"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatText Format = "txt"
)

var Formats = []Format{FormatJSON, FormatCSV, FormatText}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "txt", "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown export format %q (want json, csv or txt)", s)
}

// PathFor places filename in dir, swapping its .pdf suffix for ext.
func PathFor(dir, filename string, ext Format) string {
	base := strings.TrimSuffix(filename, ".pdf")
	return filepath.Join(dir, base+"."+string(ext))
}

func WriteInvoice(f Format, v *billing.InvoiceView, path string) error {
	switch f {
	case FormatJSON:
		return InvoiceToJSON(v, path)
	case FormatCSV:
		return InvoiceToCSV(v, path)
	case FormatText:
		return InvoiceText(v, path)
	}
	return fmt.Errorf("unknown export format %q", f)
}

func WritePayroll(f Format, v *billing.PayrollView, path string) error {
	switch f {
	case FormatJSON:
		return PayrollToJSON(v, path)
	case FormatCSV:
		return PayrollToCSV(v, path)
	case FormatText:
		return PayrollText(v, path)
	}
	return fmt.Errorf("unknown export format %q", f)
}
