package normalize

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutejaLucky/docExtract/internal/common"
	"github.com/tutejaLucky/docExtract/internal/entity"
)

func TestFromSchemaExampleOrder(t *testing.T) {
	raw := map[string]any{
		"po_number": "PO100",
		"items": []any{
			map[string]any{"item_name": "Bolt", "quantity": "10", "unit_price": "2.5", "total_amount": "25"},
		},
		"grand_total": "25",
	}

	po, err := FromSchema(raw)
	require.NoError(t, err)

	assert.Equal(t, "PO100", po.PONumber)
	require.Len(t, po.Items, 1)
	assert.Equal(t, "Bolt", po.Items[0].ItemName)
	assert.Equal(t, 10.0, po.Items[0].Quantity)
	assert.Equal(t, 2.5, po.Items[0].UnitPrice)
	assert.Equal(t, 25.0, po.Items[0].TotalAmount)
	assert.Equal(t, 25.0, po.GrandTotal)
}

func TestFromSchemaMissingVendorGivesEmptyParty(t *testing.T) {
	po, err := FromSchema(map[string]any{"po_number": "PO1"})
	require.NoError(t, err)

	assert.Equal(t, entity.PartyDetails{}, po.Vendor)
	assert.Equal(t, entity.PartyDetails{}, po.Buyer)
	require.NotNil(t, po.Items)
	assert.Empty(t, po.Items)

	b, err := json.Marshal(po)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"items":[]`)
	assert.Contains(t, string(b), `"vendor":{"name":"","address":"","phone":"","email":"","gst_number":""}`)
}

func TestFromSchemaNullsAndTypeMismatchFallBackToDefaults(t *testing.T) {
	raw := map[string]any{
		"invoice_number": nil,
		"po_number":      json.Number("4500012"),
		"po_date":        []any{"not", "text"},
		"vendor":         "ACME Ltd",
		"buyer":          nil,
		"line_items":     "none",
		"subtotal":       nil,
		"total_gst":      true,
		"grand_total":    "  ",
	}

	po, err := FromSchema(raw)
	require.NoError(t, err)

	assert.Equal(t, "", po.InvoiceNumber)
	assert.Equal(t, "4500012", po.PONumber)
	assert.Equal(t, "", po.PODate)
	assert.Equal(t, entity.PartyDetails{}, po.Vendor)
	assert.Empty(t, po.Items)
	assert.Zero(t, po.Subtotal)
	assert.Zero(t, po.TotalTax)
	assert.Zero(t, po.GrandTotal)
}

func TestFromSchemaUnwrapsStructuredData(t *testing.T) {
	raw := map[string]any{
		"structured_data": map[string]any{
			"invoice_number": "INV-9",
			"vendor": map[string]any{
				"name": "Shree Ganesh Traders", "phone": "98200", "email": "a@b.in", "gst_number": "27AAACS1234F1Z5",
			},
			"buyer": map[string]any{
				"name": "Buyer Co", "address": "Pune", "gst_number": "27BBB", "phone": "ignored", "email": "ignored",
			},
			"line_items": []any{
				map[string]any{"item_name": "Nut", "hsn_code": "7318", "quantity": json.Number("4"), "unit_price": 1.25, "gst_rate": "18", "total_amount": 5},
				"garbage",
				map[string]any{"item_name": "Washer"},
			},
			"subtotal":    json.Number("5"),
			"total_gst":   "0.90",
			"grand_total": "5.90",
		},
	}

	po, err := FromSchema(raw)
	require.NoError(t, err)

	assert.Equal(t, "INV-9", po.InvoiceNumber)
	assert.Equal(t, "Shree Ganesh Traders", po.Vendor.Name)
	assert.Equal(t, "98200", po.Vendor.Phone)
	assert.Equal(t, "27AAACS1234F1Z5", po.Vendor.TaxID)
	assert.Equal(t, entity.PartyDetails{Name: "Buyer Co", Address: "Pune", TaxID: "27BBB"}, po.Buyer)

	require.Len(t, po.Items, 2)
	assert.Equal(t, entity.LineItem{ItemName: "Nut", TaxCode: "7318", Quantity: 4, UnitPrice: 1.25, TaxRate: 18, TotalAmount: 5}, po.Items[0])
	assert.Equal(t, entity.LineItem{ItemName: "Washer"}, po.Items[1])
	assert.Equal(t, 0.90, po.TotalTax)
	assert.Equal(t, 5.90, po.GrandTotal)
}

func TestFromSchemaPrefersLineItemsOverItems(t *testing.T) {
	raw := map[string]any{
		"line_items": []any{map[string]any{"item_name": "A"}},
		"items":      []any{map[string]any{"item_name": "B"}, map[string]any{"item_name": "C"}},
	}
	po, err := FromSchema(raw)
	require.NoError(t, err)
	require.Len(t, po.Items, 1)
	assert.Equal(t, "A", po.Items[0].ItemName)
}

func TestFromSchemaWrapperNotObjectIsMalformed(t *testing.T) {
	_, err := FromSchema(map[string]any{"structured_data": "oops"})
	require.Error(t, err)

	_, err = FromSchema(map[string]any{"structured_data": nil})
	require.Error(t, err)
}

func TestFromSchemaMalformedNumberIsReported(t *testing.T) {
	raw := map[string]any{
		"line_items": []any{map[string]any{"item_name": "Bolt", "quantity": "ten"}},
	}
	_, err := FromSchema(raw)
	require.Error(t, err)

	var mf *common.MalformedFieldError
	require.True(t, errors.As(err, &mf))
	assert.Equal(t, "line_items[0].quantity", mf.Field)
	assert.Equal(t, "ten", mf.Value)
	assert.True(t, errors.Is(err, common.ErrMalformedField))
	assert.True(t, errors.Is(err, common.ErrExtraction))
}

func TestNumberRejectsNonFinite(t *testing.T) {
	for _, in := range []string{"NaN", "Inf", "-inf"} {
		_, err := NewFields(map[string]any{"v": in}).Number("v")
		assert.ErrorIs(t, err, common.ErrMalformedField, in)
	}
}

func TestNumberCoercesNumericStringsExactly(t *testing.T) {
	cases := map[string]float64{
		"12.50":   12.5,
		" 7 ":     7,
		"-3.25":   -3.25,
		"1e3":     1000,
		"0.1":     0.1,
		"1000000": 1000000,
	}
	for in, want := range cases {
		got, err := NewFields(map[string]any{"v": in}).Number("v")
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestFromFieldsBuildsSingleItem(t *testing.T) {
	raw := map[string]any{
		"extracted_fields": map[string]any{
			"invoice_number": "INV-1",
			"po_number":      "PO-7",
			"po_date":        "12/03/2024",
			"vendor_name":    "Vendor",
			"vendor_address": "Mumbai",
			"vendor_gst":     "27V",
			"vendor_email":   "v@x.in",
			"buyer_name":     "Buyer",
			"buyer_address":  "Delhi",
			"buyer_gst":      "07B",
			"item_name":      "Pipe",
			"hsn_code":       "7306",
			"quantity":       "3",
			"rate":           "100.5",
			"gst_rate":       "18",
			"subtotal":       "301.5",
			"total_gst":      "54.27",
			"grand_total":    "355.77",
		},
	}

	po, err := FromFields(raw)
	require.NoError(t, err)

	assert.Equal(t, "PO-7", po.PONumber)
	assert.Equal(t, entity.PartyDetails{Name: "Vendor", Address: "Mumbai", Email: "v@x.in", TaxID: "27V"}, po.Vendor)
	assert.Equal(t, entity.PartyDetails{Name: "Buyer", Address: "Delhi", TaxID: "07B"}, po.Buyer)
	require.Len(t, po.Items, 1)
	assert.Equal(t, entity.LineItem{ItemName: "Pipe", TaxCode: "7306", Quantity: 3, UnitPrice: 100.5, TaxRate: 18}, po.Items[0])
	assert.Equal(t, 355.77, po.GrandTotal)
}

func TestFromFieldsWithoutItemName(t *testing.T) {
	po, err := FromFields(map[string]any{"po_number": "PO-8", "quantity": "2"})
	require.NoError(t, err)
	assert.Empty(t, po.Items)
	assert.NotNil(t, po.Items)
}

func TestFromFieldsMalformedTotal(t *testing.T) {
	_, err := FromFields(map[string]any{"grand_total": "12,50,000"})
	var mf *common.MalformedFieldError
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, "grand_total", mf.Field)
}
