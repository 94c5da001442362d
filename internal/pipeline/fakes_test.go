package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tutejaLucky/docExtract/internal/entity"
	"github.com/tutejaLucky/docExtract/internal/export"
	"github.com/tutejaLucky/docExtract/internal/reconcile"
)

type fakeExtractor struct {
	schemaResult map[string]any
	schemaErr    error
	fieldsResult map[string]any
	fieldsErr    error

	schemaCalls int
	fieldsCalls int
	gotFields   []string
}

func (f *fakeExtractor) ExtractWithSchema(ctx context.Context, _ string, _ map[string]any) (map[string]any, error) {
	f.schemaCalls++
	if _, ok := ctx.Deadline(); !ok {
		panic("extractor called without a deadline")
	}
	return f.schemaResult, f.schemaErr
}

func (f *fakeExtractor) ExtractFields(_ context.Context, _ string, fields []string) (map[string]any, error) {
	f.fieldsCalls++
	f.gotFields = fields
	return f.fieldsResult, f.fieldsErr
}

type fakeExporter struct {
	calls int
	err   error
	last  entity.PurchaseOrder
}

func (f *fakeExporter) ExportAll(po entity.PurchaseOrder, dir string) (export.Paths, error) {
	f.calls++
	f.last = po
	if f.err != nil {
		return export.Paths{}, f.err
	}
	return export.Paths{JSON: filepath.Join(dir, "extracted_data.json")}, nil
}

type fakeReconciler struct {
	calls  int
	got    string
	result reconcile.Result
	err    error
}

func (f *fakeReconciler) Reconcile(_ context.Context, po string) (reconcile.Result, error) {
	f.calls++
	f.got = po
	return f.result, f.err
}

func schemaPayload() map[string]any {
	return map[string]any{
		"structured_data": map[string]any{
			"invoice_number": "INV-1",
			"po_number":      "PO-100",
			"po_date":        "2024-03-01",
			"vendor": map[string]any{
				"name":       "Acme",
				"address":    "Pune",
				"gst_number": "27AAA",
				"email":      "sales@acme.test",
			},
			"line_items": []any{
				map[string]any{"item_name": "Bolt", "quantity": "10", "unit_price": 2.5, "total_amount": 25},
				map[string]any{"item_name": "Nut", "quantity": 4, "unit_price": 1, "total_amount": 4},
			},
			"subtotal":    29,
			"total_gst":   5.22,
			"grand_total": 34.22,
		},
	}
}

func fieldsPayload() map[string]any {
	return map[string]any{
		"extracted_fields": map[string]any{
			"invoice_number": "INV-1",
			"po_number":      "PO-100",
			"vendor_name":    "Acme",
			"item_name":      "Bolt",
			"quantity":       "10",
			"rate":           "2.5",
			"grand_total":    "25",
		},
	}
}

func writePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "order.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
	return path
}
