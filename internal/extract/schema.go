package extract

// PurchaseOrderSchema returns the nested purchase-order schema sent with the
// primary extraction request. Values are the type hints understood by the service.
func PurchaseOrderSchema() map[string]any {
	return map[string]any{
		"invoice_number": "string",
		"po_number":      "string",
		"po_date":        "string",
		"vendor": map[string]any{
			"name":       "string",
			"address":    "string",
			"phone":      "string",
			"email":      "string",
			"gst_number": "string",
		},
		// buyer carries no phone/email in this schema
		"buyer": map[string]any{
			"name":       "string",
			"address":    "string",
			"gst_number": "string",
		},
		"line_items": []any{
			map[string]any{
				"item_name":    "string",
				"hsn_code":     "string",
				"quantity":     "number",
				"unit_price":   "number",
				"gst_rate":     "number",
				"total_amount": "number",
			},
		},
		"subtotal":    "number",
		"total_gst":   "number",
		"grand_total": "number",
	}
}

// FallbackFields is the flat field list used when schema extraction fails.
// It can describe at most one line item.
var FallbackFields = []string{
	"invoice_number", "po_number", "po_date",
	"vendor_name", "vendor_address", "vendor_gst", "vendor_email",
	"buyer_name", "buyer_address", "buyer_gst",
	"item_name", "hsn_code", "quantity", "rate", "gst_rate",
	"subtotal", "total_gst", "grand_total",
}
