package entity

// ReconciledVendor is the vendor view joined from the inventory store.
type ReconciledVendor struct {
	Name           string  `json:"name"`
	TaxID          string  `json:"gst_number"`
	CurrencyCode   string  `json:"currency_code"`
	CurrencySymbol string  `json:"currency_symbol"`
	ExchangeRate   float64 `json:"exchange_rate"`
	VendorCode     string  `json:"vendor_code"`
	VendorType     string  `json:"vendor_type"`
	Address        string  `json:"address"`
}

// ReconciledItem is one active order line joined with its catalog data.
type ReconciledItem struct {
	SerialNo      int     `json:"serial_no"`
	PartNo        string  `json:"part_no"`
	Description   string  `json:"description"`
	UOM           string  `json:"uom"`
	OrderQuantity float64 `json:"order_quantity"`
	OrderRate     float64 `json:"order_rate"`
	TotalValue    float64 `json:"total_value"` // OrderQuantity * OrderRate, never stored
}
