package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/tutejaLucky/docExtract/internal/entity"
)

// RecordSchema is the JSON Schema every exported record must satisfy.
func RecordSchema() map[string]any {
	str := map[string]any{"type": "string"}
	num := map[string]any{"type": "number"}
	party := map[string]any{
		"type":     "object",
		"required": []string{"name", "address", "phone", "email", "gst_number"},
		"properties": map[string]any{
			"name": str, "address": str, "phone": str, "email": str, "gst_number": str,
		},
	}
	item := map[string]any{
		"type":     "object",
		"required": []string{"item_name", "hsn_code", "quantity", "unit_price", "gst_rate", "total_amount"},
		"properties": map[string]any{
			"item_name":    str,
			"hsn_code":     str,
			"quantity":     num,
			"unit_price":   num,
			"gst_rate":     num,
			"total_amount": num,
		},
	}
	return map[string]any{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"required": []string{
			"invoice_number", "po_number", "po_date", "vendor", "buyer",
			"items", "subtotal", "total_gst", "grand_total",
		},
		"properties": map[string]any{
			"invoice_number": str,
			"po_number":      str,
			"po_date":        str,
			"vendor":         party,
			"buyer":          party,
			"items":          map[string]any{"type": "array", "items": item},
			"subtotal":       num,
			"total_gst":      num,
			"grand_total":    num,
		},
	}
}

var compiledRecordSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	b, err := json.Marshal(RecordSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("record.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile("record.json")
})

// ValidateRecord checks the encoded record against RecordSchema.
func ValidateRecord(data []byte) error {
	schema, err := compiledRecordSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("record does not match schema: %w", err)
	}
	return nil
}

func encodeRecord(po entity.PurchaseOrder) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(po); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
