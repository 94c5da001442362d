package normalize

import (
	"fmt"

	"github.com/tutejaLucky/docExtract/internal/entity"
	"github.com/tutejaLucky/docExtract/internal/extract"
)

// FromSchema maps a schema-shaped extraction result onto a PurchaseOrder.
// Line items are read from "line_items", or from "items" when the former is absent.
func FromSchema(raw map[string]any) (entity.PurchaseOrder, error) {
	env, err := extract.Unwrap(raw, extract.SchemaWrapperKey)
	if err != nil {
		return entity.PurchaseOrder{}, fmt.Errorf("unwrap schema result: %w", err)
	}
	f := NewFields(env.Data)
	var n numbers

	po := entity.NewPurchaseOrder()
	po.InvoiceNumber = f.Text("invoice_number")
	po.PONumber = f.Text("po_number")
	po.PODate = f.Text("po_date")

	v := f.Object("vendor")
	po.Vendor = entity.PartyDetails{
		Name:    v.Text("name"),
		Address: v.Text("address"),
		Phone:   v.Text("phone"),
		Email:   v.Text("email"),
		TaxID:   v.Text("gst_number"),
	}

	// buyer has no phone/email in the schema path
	b := f.Object("buyer")
	po.Buyer = entity.PartyDetails{
		Name:    b.Text("name"),
		Address: b.Text("address"),
		TaxID:   b.Text("gst_number"),
	}

	itemsKey := "line_items"
	if !f.Has(itemsKey) {
		itemsKey = "items"
	}
	for _, it := range f.List(itemsKey) {
		po.Items = append(po.Items, entity.LineItem{
			ItemName:    it.Text("item_name"),
			TaxCode:     it.Text("hsn_code"),
			Quantity:    n.read(it, "quantity"),
			UnitPrice:   n.read(it, "unit_price"),
			TaxRate:     n.read(it, "gst_rate"),
			TotalAmount: n.read(it, "total_amount"),
		})
	}

	po.Subtotal = n.read(f, "subtotal")
	po.TotalTax = n.read(f, "total_gst")
	po.GrandTotal = n.read(f, "grand_total")

	if n.err != nil {
		return entity.PurchaseOrder{}, n.err
	}
	return po, nil
}

// FromFields maps a flat named-field extraction result onto a PurchaseOrder.
// The flat layout describes at most one line item, present only when
// item_name is non-empty; its total amount is not extracted and stays 0.
func FromFields(raw map[string]any) (entity.PurchaseOrder, error) {
	env, err := extract.Unwrap(raw, extract.FieldsWrapperKey)
	if err != nil {
		return entity.PurchaseOrder{}, fmt.Errorf("unwrap field result: %w", err)
	}
	f := NewFields(env.Data)
	var n numbers

	po := entity.NewPurchaseOrder()
	po.InvoiceNumber = f.Text("invoice_number")
	po.PONumber = f.Text("po_number")
	po.PODate = f.Text("po_date")

	po.Vendor = entity.PartyDetails{
		Name:    f.Text("vendor_name"),
		Address: f.Text("vendor_address"),
		Email:   f.Text("vendor_email"),
		TaxID:   f.Text("vendor_gst"),
	}
	po.Buyer = entity.PartyDetails{
		Name:    f.Text("buyer_name"),
		Address: f.Text("buyer_address"),
		TaxID:   f.Text("buyer_gst"),
	}

	if name := f.Text("item_name"); name != "" {
		po.Items = append(po.Items, entity.LineItem{
			ItemName:  name,
			TaxCode:   f.Text("hsn_code"),
			Quantity:  n.read(f, "quantity"),
			UnitPrice: n.read(f, "rate"),
			TaxRate:   n.read(f, "gst_rate"),
		})
	}

	po.Subtotal = n.read(f, "subtotal")
	po.TotalTax = n.read(f, "total_gst")
	po.GrandTotal = n.read(f, "grand_total")

	if n.err != nil {
		return entity.PurchaseOrder{}, n.err
	}
	return po, nil
}
