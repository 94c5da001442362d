package reconcile

import (
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"

	"github.com/tutejaLucky/docExtract/constants"
)

// Inventory tables read during reconciliation.
const (
	tableOrderLines      = "order_lines"
	tableComponents      = "components"
	tableUnits           = "units"
	tableVendorAddresses = "vendor_addresses"
	tableVendorProfiles  = "vendor_profiles"
	tableCurrencies      = "currencies"
)

// queries renders the three reconciliation statements for one SQL dialect.
type queries struct {
	dialect string
}

func newQueries(d string) queries {
	switch d {
	case dialect.Postgres, dialect.SQLite, dialect.MySQL:
		return queries{dialect: d}
	default:
		return queries{dialect: dialect.Postgres}
	}
}

// inactiveLines selects every line of the PO whose status is not active.
func (q queries) inactiveLines(po string) (string, []any) {
	b := sql.Dialect(q.dialect)
	ol := b.Table(tableOrderLines).As("ol")
	return b.Select(ol.C("part_no"), ol.C("status")).
		From(ol).
		Where(sql.And(
			sql.EQ(ol.C("po_number"), po),
			sql.NEQ(ol.C("status"), string(constants.OrderStatusActive)),
		)).
		Query()
}

// distinctParts selects the distinct part numbers on the PO, any status.
func (q queries) distinctParts(po string) (string, []any) {
	b := sql.Dialect(q.dialect)
	ol := b.Table(tableOrderLines).As("ol")
	return b.Select(ol.C("part_no")).
		Distinct().
		From(ol).
		Where(sql.EQ(ol.C("po_number"), po)).
		Query()
}

// enrichedLines joins active lines with catalog, unit, vendor and currency data,
// one row per (part_no, vendor_reg_id) ordered by that pair.
func (q queries) enrichedLines(po string) (string, []any) {
	b := sql.Dialect(q.dialect)
	ol := b.Table(tableOrderLines).As("ol")
	c := b.Table(tableComponents).As("c")
	u := b.Table(tableUnits).As("u")
	va := b.Table(tableVendorAddresses).As("va")
	vp := b.Table(tableVendorProfiles).As("vp")
	cur := b.Table(tableCurrencies).As("cur")

	return b.Select(
		ol.C("part_no"),
		ol.C("vendor_reg_id"),
		sql.As(sql.Max(c.C("description")), "description"),
		sql.As(sql.Max(u.C("name")), "uom"),
		sql.As(sql.Max(ol.C("order_quantity")), "order_quantity"),
		sql.As(sql.Max(ol.C("order_rate")), "order_rate"),
		sql.As(sql.Max(vp.C("name")), "vendor_name"),
		sql.As(sql.Max(vp.C("tax_id")), "tax_id"),
		sql.As(sql.Max(vp.C("vendor_code")), "vendor_code"),
		sql.As(sql.Max(vp.C("vendor_type")), "vendor_type"),
		sql.As(sql.Max(va.C("address")), "address"),
		sql.As(sql.Max(cur.C("code")), "currency_code"),
		sql.As(sql.Max(cur.C("symbol")), "currency_symbol"),
		sql.As(sql.Max(cur.C("exchange_rate")), "exchange_rate"),
	).
		From(ol).
		Join(c).On(ol.C("part_no"), c.C("id")).
		Join(u).On(c.C("uom_id"), u.C("id")).
		Join(va).On(ol.C("vendor_address_id"), va.C("id")).
		Join(vp).On(ol.C("vendor_reg_id"), vp.C("id")).
		Join(cur).On(ol.C("currency_id"), cur.C("id")).
		Where(sql.And(
			sql.EQ(ol.C("po_number"), po),
			sql.EQ(ol.C("status"), string(constants.OrderStatusActive)),
		)).
		GroupBy(ol.C("part_no"), ol.C("vendor_reg_id")).
		OrderBy(ol.C("part_no"), ol.C("vendor_reg_id")).
		Query()
}
