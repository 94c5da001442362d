package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tutejaLucky/docExtract/constants"
	"github.com/tutejaLucky/docExtract/internal/common"
	"github.com/tutejaLucky/docExtract/internal/entity"
)

// SheetName is the worksheet that holds the tabular export.
const SheetName = "PurchaseOrder"

// Columns is the header row shared by the CSV and XLSX exports.
var Columns = []string{
	"Invoice Number",
	"PO Number",
	"PO Date",
	"Vendor Name",
	"HSN Code",
	"Item Name",
	"Quantity",
	"Unit Price",
	"GST Rate",
	"Total Amount",
}

// Paths lists the files written by ExportAll.
type Paths struct {
	JSON string
	CSV  string
	XLSX string
}

// Writer persists a PurchaseOrder in record (JSON) and tabular (CSV, XLSX) form.
// Every write replaces the destination file as a whole.
type Writer struct {
	logger *slog.Logger
}

func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// ExportAll writes extracted_data.{json,csv,xlsx} into dir, creating it if needed.
func (w *Writer) ExportAll(po entity.PurchaseOrder, dir string) (Paths, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, exportError("create output dir", err)
	}
	paths := Paths{
		JSON: filepath.Join(dir, constants.ExportJSONName),
		CSV:  filepath.Join(dir, constants.ExportCSVName),
		XLSX: filepath.Join(dir, constants.ExportXLSXName),
	}
	if err := w.WriteJSON(po, paths.JSON); err != nil {
		return Paths{}, err
	}
	if err := w.WriteCSV(po, paths.CSV); err != nil {
		return Paths{}, err
	}
	if err := w.WriteXLSX(po, paths.XLSX); err != nil {
		return Paths{}, err
	}
	return paths, nil
}

// WriteJSON writes the record form after validating it against RecordSchema.
func (w *Writer) WriteJSON(po entity.PurchaseOrder, path string) error {
	start := time.Now()
	data, err := encodeRecord(po)
	if err != nil {
		return exportError("encode record", err)
	}
	if err := ValidateRecord(data); err != nil {
		w.logger.Error("export.json.invalid", "path", path, "err", err)
		return exportError("validate record", err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return exportError("write json", err)
	}
	w.logger.Info("export.json.ok", "path", path, "bytes", len(data), "elapsed_ms", time.Since(start).Milliseconds())
	return nil
}

// WriteCSV writes one row per line item under the Columns header.
// An order without items yields a header-only file.
func (w *Writer) WriteCSV(po entity.PurchaseOrder, path string) error {
	start := time.Now()
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(Columns); err != nil {
		return exportError("write csv header", err)
	}
	for _, row := range rows(po) {
		if err := cw.Write(row); err != nil {
			return exportError("write csv row", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return exportError("flush csv", err)
	}
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return exportError("write csv", err)
	}
	w.logger.Info("export.csv.ok", "path", path, "rows", len(po.Items), "elapsed_ms", time.Since(start).Milliseconds())
	return nil
}

// WriteXLSX writes the same table as WriteCSV into the PurchaseOrder sheet.
func (w *Writer) WriteXLSX(po entity.PurchaseOrder, path string) error {
	start := time.Now()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	idx, err := f.NewSheet(SheetName)
	if err != nil {
		return exportError("create sheet", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return exportError("drop default sheet", err)
	}

	write := func(col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(SheetName, cell, v)
	}
	for i, h := range Columns {
		if err := write(i+1, 1, h); err != nil {
			return exportError("write xlsx header", err)
		}
	}
	for r, it := range po.Items {
		row := r + 2
		values := []any{
			po.InvoiceNumber, po.PONumber, po.PODate, po.Vendor.Name,
			it.TaxCode, it.ItemName, it.Quantity, it.UnitPrice, it.TaxRate, it.TotalAmount,
		}
		for c, v := range values {
			if err := write(c+1, row, v); err != nil {
				return exportError("write xlsx row", err)
			}
		}
	}
	_ = f.SetColWidth(SheetName, "A", "D", 18)
	_ = f.SetColWidth(SheetName, "F", "F", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return exportError("render xlsx", err)
	}
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return exportError("write xlsx", err)
	}
	w.logger.Info("export.xlsx.ok", "path", path, "rows", len(po.Items), "elapsed_ms", time.Since(start).Milliseconds())
	return nil
}

// ReadJSON loads a record previously written by WriteJSON.
func ReadJSON(path string) (entity.PurchaseOrder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entity.PurchaseOrder{}, fmt.Errorf("read record: %w", err)
	}
	po := entity.NewPurchaseOrder()
	if err := json.Unmarshal(data, &po); err != nil {
		return entity.PurchaseOrder{}, fmt.Errorf("decode record: %w", err)
	}
	if po.Items == nil {
		po.Items = []entity.LineItem{}
	}
	return po, nil
}

func rows(po entity.PurchaseOrder) [][]string {
	out := make([][]string, 0, len(po.Items))
	for _, it := range po.Items {
		out = append(out, []string{
			po.InvoiceNumber,
			po.PONumber,
			po.PODate,
			po.Vendor.Name,
			it.TaxCode,
			it.ItemName,
			formatFloat(it.Quantity),
			formatFloat(it.UnitPrice),
			formatFloat(it.TaxRate),
			formatFloat(it.TotalAmount),
		})
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func exportError(message string, err error) error {
	return common.NewAppError(common.CodeExport, message, fmt.Errorf("%w: %w", common.ErrExport, err))
}
