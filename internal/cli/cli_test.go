package cli

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/carebill/internal/billing"
	"github.com/sadopc/carebill/internal/config"
	"github.com/sadopc/carebill/internal/store"
)

// isolate keeps commands away from the user's config, .env and environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, k := range []string{config.EnvDB, config.EnvExportDir, config.EnvLogFile, config.EnvLogLevel} {
		t.Setenv(k, "")
	}
	return dir
}

// seedDB creates a database with one house, one caregiver and two January entries.
func seedDB(t *testing.T, dir string) (string, int64) {
	t.Helper()
	path := filepath.Join(dir, "carebill.db")
	s, err := store.New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	h, err := s.CreateHouse(store.HouseInput{
		Name:               "Maple House",
		EmployeePayPerDay:  "120",
		ClientChargePerDay: "200",
		PaymentFrequency:   billing.FrequencyWeekly,
		InvoiceStyle:       billing.StyleGrouped,
	})
	if err != nil {
		t.Fatal(err)
	}
	e, err := s.CreateEmployee(store.EmployeeInput{Name: "Jane Doe", Email: "jane@example.com", HouseID: &h.ID})
	if err != nil {
		t.Fatal(err)
	}
	for _, day := range []int{2, 9} {
		if _, err := s.CreateEntry(store.EntryInput{EmployeeID: e.ID, Date: billing.Date(2024, 1, day), Quantity: billing.DaysOf(1)}); err != nil {
			t.Fatal(err)
		}
	}
	return path, h.ID
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// ============================================================
// Errors
// ============================================================

func TestCLIError(t *testing.T) {
	inner := errors.New("boom")
	e := NewCLIError("failed", "try again", inner)
	if e.Error() != "failed: boom" {
		t.Fatalf("got %q", e.Error())
	}
	if !errors.Is(e, inner) {
		t.Fatal("CLIError should unwrap to its cause")
	}
	if NewCLIError("plain", "", nil).Error() != "plain" {
		t.Fatal("message without cause")
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantExit int
		wantHint string
	}{
		{"no entries", fmt.Errorf("invoice: %w", billing.ErrNoEntriesForPeriod), 3, "--period"},
		{"incomplete", fmt.Errorf("x: %w", billing.ErrIncompleteFilterSpecification), 2, "--start"},
		{"rates", billing.ErrMissingRateConfiguration, 1, "default house"},
		{"not found", fmt.Errorf("load house: %w", store.ErrNotFound), 1, "Houses tab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapError(tt.err)
			var cliErr *CLIError
			if !errors.As(mapped, &cliErr) {
				t.Fatalf("expected CLIError, got %T", mapped)
			}
			if ExitCode(mapped) != tt.wantExit {
				t.Fatalf("got exit %d, want %d", ExitCode(mapped), tt.wantExit)
			}
			if !strings.Contains(cliErr.Hint, tt.wantHint) {
				t.Fatalf("hint %q should mention %q", cliErr.Hint, tt.wantHint)
			}
			if !errors.Is(mapped, tt.err) {
				t.Fatal("mapped error should keep its cause")
			}
		})
	}

	plain := errors.New("other")
	if MapError(plain) != plain {
		t.Fatal("unknown errors pass through")
	}
	if MapError(nil) != nil || ExitCode(nil) != 0 {
		t.Fatal("nil stays nil")
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, NewCLIError("bad", "do this", nil))
	if buf.String() != "Error: bad\nHint: do this\n" {
		t.Fatalf("got %q", buf.String())
	}
}

// ============================================================
// Period flags
// ============================================================

func TestPeriodFlagsRequest(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		flags     periodFlags
		wantToken string
		wantHouse bool
		wantErr   error
	}{
		{"default month", periodFlags{period: "monthly", house: "all"}, "2024-03", false, nil},
		{"explicit month", periodFlags{period: "monthly", month: "2024-01", house: "3"}, "2024-01", true, nil},
		{"weekly", periodFlags{period: "weekly", start: "2024-01-01"}, "week-2024-01-01", false, nil},
		{"biweekly", periodFlags{period: "biweekly", start: "2024-01-01"}, "biweek-2024-01-01", false, nil},
		{"all", periodFlags{period: "all"}, "all-time", false, nil},
		{"weekly without start", periodFlags{period: "weekly"}, "", false, billing.ErrIncompleteFilterSpecification},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := tt.flags.request(now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if req.Period.Token() != tt.wantToken {
				t.Fatalf("got token %q, want %q", req.Period.Token(), tt.wantToken)
			}
			if (req.HouseID != nil) != tt.wantHouse {
				t.Fatalf("got house %v", req.HouseID)
			}
		})
	}

	bad := periodFlags{period: "all", house: "maple"}
	if _, err := bad.request(now); err == nil {
		t.Fatal("expected error for non-numeric house")
	}
}

// ============================================================
// Commands
// ============================================================

func TestInvoiceCommandWritesCSV(t *testing.T) {
	dir := isolate(t)
	db, houseID := seedDB(t, dir)
	outDir := filepath.Join(dir, "out")

	out, err := run(t, "invoice", "--db", db, "--config", filepath.Join(dir, "none.yaml"),
		"--period", "monthly", "--month", "2024-01", "--house", fmt.Sprint(houseID), "--format", "csv", "--out", outDir)
	if err != nil {
		t.Fatal(err)
	}

	path := strings.TrimSpace(out)
	if filepath.Dir(path) != outDir || !strings.HasPrefix(filepath.Base(path), "invoice-maple-house-2024-01-") || filepath.Ext(path) != ".csv" {
		t.Fatalf("unexpected output path %q", path)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if records[1][0] != "Jane Doe" || records[1][1] != "2 days" || records[1][2] != "400.00" {
		t.Fatalf("unexpected row: %q", records[1])
	}
}

func TestPayrollCommandText(t *testing.T) {
	dir := isolate(t)
	db, _ := seedDB(t, dir)

	out, err := run(t, "payroll", "--db", db, "--config", filepath.Join(dir, "none.yaml"),
		"--period", "weekly", "--start", "2024-01-01", "--format", "txt", "--out", dir)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(strings.TrimSpace(out))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Total Payroll: $120.00") {
		t.Fatalf("unexpected payroll text:\n%s", data)
	}
}

func TestReportCommandErrors(t *testing.T) {
	dir := isolate(t)
	db, _ := seedDB(t, dir)
	cfg := filepath.Join(dir, "none.yaml")

	_, err := run(t, "invoice", "--db", db, "--config", cfg, "--period", "monthly", "--month", "2023-05", "--out", dir)
	if !errors.Is(err, billing.ErrNoEntriesForPeriod) || ExitCode(MapError(err)) != 3 {
		t.Fatalf("got %v, want ErrNoEntriesForPeriod", err)
	}

	_, err = run(t, "payroll", "--db", db, "--config", cfg, "--period", "biweekly", "--out", dir)
	if !errors.Is(err, billing.ErrIncompleteFilterSpecification) {
		t.Fatalf("got %v, want ErrIncompleteFilterSpecification", err)
	}

	_, err = run(t, "invoice", "--db", db, "--config", cfg, "--format", "pdf")
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestSummaryCommand(t *testing.T) {
	dir := isolate(t)
	db, _ := seedDB(t, dir)

	out, err := run(t, "summary", "--db", db, "--config", filepath.Join(dir, "none.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"All Time", "$400.00", "$240.00", "$160.00", "40.0%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestConfigInit(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "conf", "config.yaml")

	if _, err := run(t, "config", "init", "--config", path, "--db", "/data/care.db"); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "/data/care.db" {
		t.Fatalf("got db path %q", cfg.DBPath)
	}

	_, err = run(t, "config", "init", "--config", path)
	var cliErr *CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("second init should refuse to overwrite, got %v", err)
	}
	if _, err := run(t, "config", "init", "--config", path, "--force"); err != nil {
		t.Fatal(err)
	}
}
