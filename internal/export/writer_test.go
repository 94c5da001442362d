package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tutejaLucky/docExtract/internal/common"
	"github.com/tutejaLucky/docExtract/internal/entity"
)

func sampleOrder() entity.PurchaseOrder {
	po := entity.NewPurchaseOrder()
	po.InvoiceNumber = "INV-7"
	po.PONumber = "PO-1"
	po.PODate = "2024-03-01"
	po.Vendor = entity.PartyDetails{Name: "Acme Müller GmbH", Address: "Straße 1", TaxID: "27AAA"}
	po.Buyer = entity.PartyDetails{Name: "Buyer & Co"}
	po.Items = []entity.LineItem{
		{ItemName: "Bolt <M8>", TaxCode: "7318", Quantity: 10, UnitPrice: 2.5, TaxRate: 18, TotalAmount: 25},
		{ItemName: "Nut", TaxCode: "7318", Quantity: 4, UnitPrice: 0.75, TaxRate: 18, TotalAmount: 3},
	}
	po.Subtotal = 28
	po.TotalTax = 5.04
	po.GrandTotal = 33.04
	return po
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteJSONRoundTripPreservesText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.json")
	w := NewWriter(nil)
	po := sampleOrder()

	require.NoError(t, w.WriteJSON(po, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Acme Müller GmbH")
	assert.Contains(t, string(raw), "Bolt <M8>")
	assert.Contains(t, string(raw), "\n  \"invoice_number\": \"INV-7\"")

	back, err := ReadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, po, back)
}

func TestWriteJSONRefusesNullItems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.json")
	po := sampleOrder()
	po.Items = nil

	err := NewWriter(nil).WriteJSON(po, path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrExport))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteCSVHeaderOnlyForNoItems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	po := sampleOrder()
	po.Items = []entity.LineItem{}

	require.NoError(t, NewWriter(nil).WriteCSV(po, path))

	records := readCSV(t, path)
	require.Len(t, records, 1)
	assert.Equal(t, Columns, records[0])
}

func TestWriteCSVOneRowPerItem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, NewWriter(nil).WriteCSV(sampleOrder(), path))

	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"INV-7", "PO-1", "2024-03-01", "Acme Müller GmbH", "7318", "Bolt <M8>", "10", "2.5", "18", "25"}, records[1])
	assert.Equal(t, "0.75", records[2][7])
}

func TestExportAllOverwritesPreviousRun(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(nil)

	first := sampleOrder()
	_, err := w.ExportAll(first, dir)
	require.NoError(t, err)

	second := sampleOrder()
	second.PONumber = "PO-2"
	second.Items = second.Items[:1]
	paths, err := w.ExportAll(second, dir)
	require.NoError(t, err)

	back, err := ReadJSON(paths.JSON)
	require.NoError(t, err)
	assert.Equal(t, "PO-2", back.PONumber)
	assert.Len(t, back.Items, 1)
	assert.Len(t, readCSV(t, paths.CSV), 2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestWriteXLSXSheetLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")

	require.NoError(t, NewWriter(nil).WriteXLSX(sampleOrder(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, "Bolt <M8>", rows[1][5])
}

func TestValidateRecordRejectsMissingVendor(t *testing.T) {
	err := ValidateRecord([]byte(`{"invoice_number":"","po_number":"","po_date":"","buyer":{"name":"","address":"","phone":"","email":"","gst_number":""},"items":[],"subtotal":0,"total_gst":0,"grand_total":0}`))
	assert.Error(t, err)
}
