package entity

// PartyDetails is the shared shape for the vendor and the buyer of an order.
type PartyDetails struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	TaxID   string `json:"gst_number"`
}

// LineItem is one ordered row of a purchase order.
type LineItem struct {
	ItemName    string  `json:"item_name"`
	TaxCode     string  `json:"hsn_code"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TaxRate     float64 `json:"gst_rate"`
	TotalAmount float64 `json:"total_amount"`
}

// PurchaseOrder is the normalized record built from one extraction request.
// Vendor and Buyer are values so they can never be absent; Items is never nil.
type PurchaseOrder struct {
	InvoiceNumber string       `json:"invoice_number"`
	PONumber      string       `json:"po_number"`
	PODate        string       `json:"po_date"` // free text, not parsed
	Vendor        PartyDetails `json:"vendor"`
	Buyer         PartyDetails `json:"buyer"`
	Items         []LineItem   `json:"items"`
	Subtotal      float64      `json:"subtotal"`
	TotalTax      float64      `json:"total_gst"`
	GrandTotal    float64      `json:"grand_total"`
}

// NewPurchaseOrder returns an order with every field at its default.
func NewPurchaseOrder() PurchaseOrder {
	return PurchaseOrder{Items: []LineItem{}}
}
