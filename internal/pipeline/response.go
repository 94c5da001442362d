package pipeline

import (
	"github.com/tutejaLucky/docExtract/internal/entity"
)

// Response is the JSON body returned for a processed document.
type Response struct {
	InvoiceNumber string            `json:"invoice_number"`
	PONumber      string            `json:"po_number"`
	PODate        string            `json:"po_date"`
	Vendor        VendorSummary     `json:"vendor"`
	Items         []entity.LineItem `json:"items"`
	Totals        Totals            `json:"totals"`
	DBExtracted   *DBExtracted      `json:"db_extracted,omitempty"`
}

type VendorSummary struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	GST     string `json:"gst"`
	Email   string `json:"email"`
}

type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	GST        float64 `json:"gst"`
	GrandTotal float64 `json:"grand_total"`
}

// DBExtracted carries either the reconciled view or the reason there is none.
type DBExtracted struct {
	Vendor *entity.ReconciledVendor `json:"vendor,omitempty"`
	Items  []entity.ReconciledItem  `json:"items,omitempty"`
	Error  string                   `json:"error,omitempty"`
}

// Response renders the submission. db_extracted is omitted when no
// reconciliation was attempted.
func (s *Submission) Response() Response {
	po := s.Scan.PurchaseOrder
	items := po.Items
	if items == nil {
		items = []entity.LineItem{}
	}
	resp := Response{
		InvoiceNumber: po.InvoiceNumber,
		PONumber:      po.PONumber,
		PODate:        po.PODate,
		Vendor: VendorSummary{
			Name:    po.Vendor.Name,
			Address: po.Vendor.Address,
			GST:     po.Vendor.TaxID,
			Email:   po.Vendor.Email,
		},
		Items: items,
		Totals: Totals{
			Subtotal:   po.Subtotal,
			GST:        po.TotalTax,
			GrandTotal: po.GrandTotal,
		},
	}

	switch {
	case s.ReconcileErr != nil:
		resp.DBExtracted = &DBExtracted{Error: s.ReconcileErr.Error()}
	case s.Reconciliation == nil:
	case s.Reconciliation.Accepted():
		resp.DBExtracted = &DBExtracted{Vendor: s.Reconciliation.Vendor, Items: s.Reconciliation.Items}
	default:
		resp.DBExtracted = &DBExtracted{Error: string(s.Reconciliation.Reason)}
	}
	return resp
}
