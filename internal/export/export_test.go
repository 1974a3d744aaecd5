package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/carebill/internal/billing"
	"github.com/shopspring/decimal"
)

func entry(id, empID int64, name string, day int, q billing.Quantity, pay, charge string) billing.Entry {
	return billing.Entry{
		ID:           id,
		EmployeeID:   empID,
		EmployeeName: name,
		Date:         billing.Date(2024, 1, day),
		Quantity:     q,
		Status:       billing.StatusPending,
		EmployeePay:  decimal.RequireFromString(pay),
		ClientCharge: decimal.RequireFromString(charge),
	}
}

func sampleEntries() []billing.Entry {
	return []billing.Entry{
		entry(1, 1, "Jane Doe", 2, billing.DaysOf(3), "360", "600"),
		entry(2, 2, `Bob "Bobby", Smith`, 5, billing.HoursOf(12), "225", "270"),
		entry(3, 1, "Jane Doe", 9, billing.DaysOf(2), "240", "400"),
		entry(4, 2, `Bob "Bobby", Smith`, 11, billing.HoursOf(8), "150", "180"),
	}
}

func sampleInvoice(t *testing.T) *billing.InvoiceView {
	t.Helper()
	v, err := billing.FormatClientInvoice(billing.NewAggregate(sampleEntries()), nil, billing.Monthly(2024, time.January), billing.InvoiceOptions{
		CompanyName:  "SuperchargedByGrace",
		PaymentTerms: "Net 30 Days",
		InvoiceDate:  billing.Date(2024, 2, 1),
	})
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func samplePayroll(t *testing.T, rowsPerPage int) *billing.PayrollView {
	t.Helper()
	v, err := billing.FormatPayrollReport(billing.NewAggregate(sampleEntries()), billing.Monthly(2024, time.January), billing.PayrollOptions{
		CompanyName: "SuperchargedByGrace",
		ReportDate:  billing.Date(2024, 2, 1),
		RowsPerPage: rowsPerPage,
	})
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	return records
}

// ============================================================
// CSV
// ============================================================

func TestInvoiceToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice.csv")
	if err := InvoiceToCSV(sampleInvoice(t), path); err != nil {
		t.Fatalf("InvoiceToCSV: %v", err)
	}

	records := readCSV(t, path)
	// header + 2 caregivers + 4 totals
	if len(records) != 7 {
		t.Fatalf("expected 7 rows, got %d", len(records))
	}
	if records[1][0] != "Jane Doe" || records[1][1] != "5 days" || records[1][2] != "1000.00" {
		t.Fatalf("unexpected jane row: %q", records[1])
	}
	if records[2][0] != `Bob "Bobby", Smith` || records[2][1] != "20 hours" {
		t.Fatalf("special characters mangled: %q", records[2])
	}
	if last := records[6]; last[0] != "Total Amount Due" || last[2] != "1450.00" {
		t.Fatalf("unexpected total row: %q", last)
	}
}

func TestPayrollToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payroll.csv")
	if err := PayrollToCSV(samplePayroll(t, 0), path); err != nil {
		t.Fatal(err)
	}

	records := readCSV(t, path)
	if len(records) != 6 {
		t.Fatalf("expected header + 4 items + total, got %d", len(records))
	}
	want := []string{"Date", "Employee", "Hours", "Pay", "Rate Type"}
	for i, h := range want {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}
	if row := records[2]; row[0] != "2024-01-05" || row[2] != "12" || row[4] != "12-hour" {
		t.Fatalf("unexpected bob row: %q", row)
	}
	if total := records[5]; total[2] != "60" || total[3] != "975.00" {
		t.Fatalf("unexpected total row: %q", total)
	}
}

func TestCSVBadPath(t *testing.T) {
	if err := InvoiceToCSV(sampleInvoice(t), "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// JSON
// ============================================================

func TestInvoiceToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice.json")
	if err := InvoiceToJSON(sampleInvoice(t), path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var result struct {
		ExportedAt string              `json:"exported_at"`
		Kind       string              `json:"kind"`
		Document   billing.InvoiceView `json:"document"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}
	if result.Kind != "invoice" {
		t.Fatalf("got kind %q", result.Kind)
	}
	if !result.Document.Summary.TotalDue.Equal(decimal.NewFromInt(1450)) {
		t.Fatalf("got total %s", result.Document.Summary.TotalDue)
	}
	if len(result.Document.Groups) != 2 {
		t.Fatalf("got %d groups", len(result.Document.Groups))
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Fatal("JSON should be pretty-printed")
	}
}

func TestPayrollToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payroll.json")
	if err := PayrollToJSON(samplePayroll(t, 0), path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	var result struct {
		Document billing.PayrollView `json:"document"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatal(err)
	}
	if result.Document.FooterTotal != "Total Payroll: $975.00" {
		t.Fatalf("got footer %q", result.Document.FooterTotal)
	}
	if len(result.Document.Breakdown) != 2 || result.Document.Pagination.RowsPerPage != billing.DefaultRowsPerPage {
		t.Fatalf("unexpected document: %+v", result.Document)
	}
}

func TestJSONBadPath(t *testing.T) {
	if err := PayrollToJSON(samplePayroll(t, 0), "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// Text
// ============================================================

func TestRenderInvoice(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderInvoice(&buf, sampleInvoice(t)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"SuperchargedByGrace",
		"Period: January 2024",
		"5 days",
		"$1000.00",
		"Total Amount Due: $1450.00",
		"Payment Terms: Net 30 Days",
		"Thank you for your business!",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderPayrollPaginates(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPayroll(&buf, samplePayroll(t, 3)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	pages := strings.Split(out, "\f")
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	for i, p := range pages {
		if !strings.Contains(p, "Date  ") {
			t.Fatalf("page %d is missing the column header", i+1)
		}
		if !strings.Contains(p, "Total Payroll: $975.00") {
			t.Fatalf("page %d is missing the footer total", i+1)
		}
	}
	if !strings.Contains(pages[1], "page 2 of 2") {
		t.Fatalf("unexpected second page:\n%s", pages[1])
	}
	if !strings.Contains(out, "(2024-01-01 to 2024-01-31)") {
		t.Fatal("missing period range")
	}
	if !strings.Contains(out, "12hr") {
		t.Fatal("missing short rate label")
	}
}

func TestPayrollTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payroll.txt")
	if err := PayrollText(samplePayroll(t, 0), path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "\f") {
		t.Fatal("a single page should have no page break")
	}
}

// ============================================================
// Formats and paths
// ============================================================

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"CSV", FormatCSV, false},
		{"text", FormatText, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Fatalf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestPathFor(t *testing.T) {
	got := PathFor("/tmp/out", "invoice-maple-house-2024-01-1706745600000.pdf", FormatCSV)
	want := filepath.Join("/tmp/out", "invoice-maple-house-2024-01-1706745600000.csv")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriteDispatch(t *testing.T) {
	dir := t.TempDir()
	for _, f := range Formats {
		path := PathFor(dir, "payroll-x.pdf", f)
		if err := WritePayroll(f, samplePayroll(t, 0), path); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("%s not written: %v", f, err)
		}
		path = PathFor(dir, "invoice-x.pdf", f)
		if err := WriteInvoice(f, sampleInvoice(t), path); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
	}
	if err := WriteInvoice("pdf", sampleInvoice(t), filepath.Join(dir, "x.pdf")); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
