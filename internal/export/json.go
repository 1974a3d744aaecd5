package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/carebill/internal/billing"
)

type jsonExport struct {
	ExportedAt string `json:"exported_at"`
	Kind       string `json:"kind"`
	Document   any    `json:"document"`
}

func InvoiceToJSON(v *billing.InvoiceView, path string) error {
	return writeJSON(string(billing.ReportInvoice), v, path)
}

func PayrollToJSON(v *billing.PayrollView, path string) error {
	return writeJSON(string(billing.ReportPayroll), v, path)
}

func writeJSON(kind string, doc any, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Kind:       kind,
		Document:   doc,
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
