package reconcile

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tutejaLucky/docExtract/constants"
	"github.com/tutejaLucky/docExtract/internal/common"
	"github.com/tutejaLucky/docExtract/internal/entity"
)

// State is the terminal state of one reconciliation.
type State string

const (
	StateAccepted State = "accepted"
	StateRejected State = "rejected"
)

// Result is the outcome of reconciling one PO number.
// Vendor and Items are set only when State is StateAccepted.
type Result struct {
	PONumber string
	State    State
	Reason   constants.Rejection
	Vendor   *entity.ReconciledVendor
	Items    []entity.ReconciledItem
}

func (r Result) Accepted() bool { return r.State == StateAccepted }

func rejected(po string, reason constants.Rejection) Result {
	return Result{PONumber: po, State: StateRejected, Reason: reason}
}

// Engine reconciles purchase order numbers against the inventory store.
// Each call checks out one connection and returns it on every path.
type Engine struct {
	logger  *slog.Logger
	source  ConnSource
	queries queries
}

// NewEngine builds an engine; d is an ent dialect name (postgres, sqlite3).
func NewEngine(logger *slog.Logger, source ConnSource, d string) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger, source: source, queries: newQueries(d)}
}

// Reconcile runs the status check, the existence check and the enriched fetch,
// stopping at the first rejection.
func (e *Engine) Reconcile(ctx context.Context, poNumber string) (Result, error) {
	po := strings.TrimSpace(poNumber)
	if po == "" {
		return Result{}, common.InputError("purchase order number is required")
	}
	start := time.Now()
	log := common.LoggerFrom(ctx, e.logger).With("po_number", po)

	conn, err := e.source.Acquire(ctx)
	if err != nil {
		log.Error("reconcile.acquire_error", "err", err)
		return Result{}, common.ReconciliationError("acquire connection", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Warn("reconcile.release_error", "err", cerr)
		}
	}()

	res, err := e.run(ctx, conn, po)
	if err != nil {
		log.Error("reconcile.failed", "err", err, "elapsed_ms", time.Since(start).Milliseconds())
		return Result{}, err
	}
	if res.Accepted() {
		log.Info("reconcile.accepted", "items", len(res.Items), "elapsed_ms", time.Since(start).Milliseconds())
	} else {
		log.Info("reconcile.rejected", "reason", res.Reason, "elapsed_ms", time.Since(start).Milliseconds())
	}
	return res, nil
}

func (e *Engine) run(ctx context.Context, conn Conn, po string) (Result, error) {
	inactive, err := e.inactiveCount(ctx, conn, po)
	if err != nil {
		return Result{}, common.ReconciliationError("status check", err)
	}
	if inactive > 0 {
		return rejected(po, constants.RejectCancelledOrCompleted), nil
	}

	parts, err := e.partCount(ctx, conn, po)
	if err != nil {
		return Result{}, common.ReconciliationError("existence check", err)
	}
	if parts == 0 {
		return rejected(po, constants.RejectNotFound), nil
	}

	lines, err := e.enriched(ctx, conn, po)
	if err != nil {
		return Result{}, common.ReconciliationError("enriched fetch", err)
	}
	if len(lines) == 0 {
		return rejected(po, constants.RejectNoActiveItems), nil
	}
	return assemble(po, lines), nil
}

func (e *Engine) inactiveCount(ctx context.Context, conn Conn, po string) (int, error) {
	query, args := e.queries.inactiveLines(po)
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	n := 0
	for rows.Next() {
		n++
	}
	return n, rows.Err()
}

func (e *Engine) partCount(ctx context.Context, conn Conn, po string) (int, error) {
	query, args := e.queries.distinctParts(po)
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	n := 0
	for rows.Next() {
		n++
	}
	return n, rows.Err()
}

// line is one row of the enriched fetch. Catalog columns may be NULL.
type line struct {
	partNo         string
	vendorRegID    string
	description    sql.NullString
	uom            sql.NullString
	orderQuantity  sql.NullFloat64
	orderRate      sql.NullFloat64
	vendorName     sql.NullString
	taxID          sql.NullString
	vendorCode     sql.NullString
	vendorType     sql.NullString
	address        sql.NullString
	currencyCode   sql.NullString
	currencySymbol sql.NullString
	exchangeRate   sql.NullFloat64
}

func (e *Engine) enriched(ctx context.Context, conn Conn, po string) ([]line, error) {
	query, args := e.queries.enrichedLines(po)
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []line
	for rows.Next() {
		var l line
		if err := rows.Scan(
			&l.partNo, &l.vendorRegID,
			&l.description, &l.uom, &l.orderQuantity, &l.orderRate,
			&l.vendorName, &l.taxID, &l.vendorCode, &l.vendorType, &l.address,
			&l.currencyCode, &l.currencySymbol, &l.exchangeRate,
		); err != nil {
			return nil, fmt.Errorf("scan enriched row: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// assemble takes vendor and currency data from the first row and numbers
// items 1..N in store order.
func assemble(po string, lines []line) Result {
	first := lines[0]
	vendor := &entity.ReconciledVendor{
		Name:           first.vendorName.String,
		TaxID:          first.taxID.String,
		CurrencyCode:   first.currencyCode.String,
		CurrencySymbol: first.currencySymbol.String,
		ExchangeRate:   first.exchangeRate.Float64,
		VendorCode:     first.vendorCode.String,
		VendorType:     first.vendorType.String,
		Address:        first.address.String,
	}
	items := make([]entity.ReconciledItem, 0, len(lines))
	for i, l := range lines {
		qty, rate := l.orderQuantity.Float64, l.orderRate.Float64
		items = append(items, entity.ReconciledItem{
			SerialNo:      i + 1,
			PartNo:        l.partNo,
			Description:   l.description.String,
			UOM:           l.uom.String,
			OrderQuantity: qty,
			OrderRate:     rate,
			TotalValue:    qty * rate,
		})
	}
	return Result{PONumber: po, State: StateAccepted, Vendor: vendor, Items: items}
}
