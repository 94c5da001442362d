package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutejaLucky/docExtract/constants"
	"github.com/tutejaLucky/docExtract/internal/common"
	"github.com/tutejaLucky/docExtract/internal/entity"
	"github.com/tutejaLucky/docExtract/internal/export"
	"github.com/tutejaLucky/docExtract/internal/reconcile"
)

func newTestProcessor(fx *fakeExtractor, exp Exporter, rec Reconciler, auto bool) *Processor {
	return NewProcessor(nil, NewScanner(nil, fx, time.Second), exp, rec, "out", auto)
}

func acceptedResult() reconcile.Result {
	return reconcile.Result{
		PONumber: "PO-100",
		State:    reconcile.StateAccepted,
		Vendor:   &entity.ReconciledVendor{Name: "Acme Fasteners", CurrencyCode: "INR"},
		Items: []entity.ReconciledItem{
			{SerialNo: 1, PartNo: "P-1", OrderQuantity: 10, OrderRate: 3, TotalValue: 30},
		},
	}
}

func TestSubmitRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		req  SubmitRequest
	}{
		{name: "missing path", req: SubmitRequest{}},
		{name: "not a pdf", req: SubmitRequest{Path: "scan.png"}},
		{name: "missing file", req: SubmitRequest{Path: filepath.Join(t.TempDir(), "absent.pdf")}},
		{name: "po number too long", req: SubmitRequest{Path: "order.pdf", PONumber: string(make([]byte, 65))}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fx := &fakeExtractor{schemaResult: schemaPayload()}
			exp := &fakeExporter{}
			_, err := newTestProcessor(fx, exp, nil, true).Submit(context.Background(), tc.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrInvalidInput))
			assert.Zero(t, fx.schemaCalls)
			assert.Zero(t, exp.calls)
		})
	}
}

func TestSubmitScanFailureSkipsExport(t *testing.T) {
	fx := &fakeExtractor{schemaErr: errors.New("boom"), fieldsErr: errors.New("bang")}
	exp := &fakeExporter{}
	rec := &fakeReconciler{}

	_, err := newTestProcessor(fx, exp, rec, true).Submit(context.Background(), SubmitRequest{Path: writePDF(t), PONumber: "PO-100"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrExtraction))
	assert.Zero(t, exp.calls)
	assert.Zero(t, rec.calls)
}

func TestSubmitExportFailureIsFatal(t *testing.T) {
	fx := &fakeExtractor{schemaResult: schemaPayload()}
	exp := &fakeExporter{err: common.NewAppError(common.CodeExport, "write json", common.ErrExport)}
	rec := &fakeReconciler{}

	_, err := newTestProcessor(fx, exp, rec, true).Submit(context.Background(), SubmitRequest{Path: writePDF(t)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrExport))
	assert.Zero(t, rec.calls)
}

func TestSubmitReconcilesRequestedPONumber(t *testing.T) {
	fx := &fakeExtractor{schemaResult: schemaPayload()}
	rec := &fakeReconciler{result: acceptedResult()}

	sub, err := newTestProcessor(fx, &fakeExporter{}, rec, false).Submit(context.Background(), SubmitRequest{Path: writePDF(t), PONumber: " PO-777 "})
	require.NoError(t, err)
	assert.Equal(t, "PO-777", rec.got)
	assert.Equal(t, "PO-777", sub.POLookup)
	require.NotNil(t, sub.Reconciliation)
	assert.NotEmpty(t, sub.ID)
}

func TestSubmitAutoReconcileUsesExtractedNumber(t *testing.T) {
	fx := &fakeExtractor{schemaResult: schemaPayload()}
	rec := &fakeReconciler{result: acceptedResult()}

	_, err := newTestProcessor(fx, &fakeExporter{}, rec, true).Submit(context.Background(), SubmitRequest{Path: writePDF(t)})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, "PO-100", rec.got)
}

func TestSubmitSkipsReconcileWithoutNumber(t *testing.T) {
	fx := &fakeExtractor{schemaResult: schemaPayload()}
	rec := &fakeReconciler{}

	sub, err := newTestProcessor(fx, &fakeExporter{}, rec, false).Submit(context.Background(), SubmitRequest{Path: writePDF(t)})
	require.NoError(t, err)
	assert.Zero(t, rec.calls)
	assert.Nil(t, sub.Response().DBExtracted)
}

func TestSubmitReconcileFailureKeepsExtraction(t *testing.T) {
	fx := &fakeExtractor{schemaResult: schemaPayload()}
	rec := &fakeReconciler{err: common.ReconciliationError("status check", errors.New("connection reset"))}

	sub, err := newTestProcessor(fx, &fakeExporter{}, rec, true).Submit(context.Background(), SubmitRequest{Path: writePDF(t)})
	require.NoError(t, err)
	require.Error(t, sub.ReconcileErr)

	resp := sub.Response()
	assert.Equal(t, "INV-1", resp.InvoiceNumber)
	assert.Len(t, resp.Items, 2)
	require.NotNil(t, resp.DBExtracted)
	assert.Contains(t, resp.DBExtracted.Error, "connection reset")
	assert.Nil(t, resp.DBExtracted.Vendor)
}

func TestSubmitWritesRealExports(t *testing.T) {
	dir := t.TempDir()
	fx := &fakeExtractor{schemaResult: schemaPayload()}
	p := NewProcessor(nil, NewScanner(nil, fx, time.Second), export.NewWriter(nil), nil, dir, true)

	sub, err := p.Submit(context.Background(), SubmitRequest{Path: writePDF(t)})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, constants.ExportJSONName), sub.Exports.JSON)

	back, err := export.ReadJSON(sub.Exports.JSON)
	require.NoError(t, err)
	assert.Equal(t, sub.Scan.PurchaseOrder, back)
}

func TestResponseShape(t *testing.T) {
	po := entity.NewPurchaseOrder()
	po.InvoiceNumber = "INV-1"
	po.Vendor = entity.PartyDetails{Name: "Acme", TaxID: "27AAA", Email: "a@b.test"}
	po.TotalTax = 18

	t.Run("accepted", func(t *testing.T) {
		res := acceptedResult()
		sub := &Submission{Scan: ScanResult{PurchaseOrder: po}, Reconciliation: &res}

		raw, err := json.Marshal(sub.Response())
		require.NoError(t, err)
		var got map[string]any
		require.NoError(t, json.Unmarshal(raw, &got))

		assert.Equal(t, []any{}, got["items"])
		assert.Equal(t, "27AAA", got["vendor"].(map[string]any)["gst"])
		assert.Equal(t, 18.0, got["totals"].(map[string]any)["gst"])
		db := got["db_extracted"].(map[string]any)
		assert.Equal(t, "Acme Fasteners", db["vendor"].(map[string]any)["name"])
		assert.Len(t, db["items"], 1)
		assert.NotContains(t, db, "error")
	})

	t.Run("rejected", func(t *testing.T) {
		res := reconcile.Result{State: reconcile.StateRejected, Reason: constants.RejectNotFound}
		sub := &Submission{Scan: ScanResult{PurchaseOrder: po}, Reconciliation: &res}

		resp := sub.Response()
		require.NotNil(t, resp.DBExtracted)
		assert.Equal(t, "not_found", resp.DBExtracted.Error)
		assert.Nil(t, resp.DBExtracted.Vendor)
		assert.Empty(t, resp.DBExtracted.Items)
	})
}
