package pipeline

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tutejaLucky/docExtract/internal/common"
	"github.com/tutejaLucky/docExtract/internal/entity"
	"github.com/tutejaLucky/docExtract/internal/export"
	"github.com/tutejaLucky/docExtract/internal/reconcile"
)

const maxPONumberLength = 64

// Exporter persists an extracted order under dir.
type Exporter interface {
	ExportAll(po entity.PurchaseOrder, dir string) (export.Paths, error)
}

// Reconciler checks a PO number against the inventory store.
type Reconciler interface {
	Reconcile(ctx context.Context, poNumber string) (reconcile.Result, error)
}

// SubmitRequest is one uploaded document plus the caller-supplied PO number.
type SubmitRequest struct {
	Path     string
	PONumber string
}

// Submission is everything produced for one request.
type Submission struct {
	ID       string
	Scan     ScanResult
	Exports  export.Paths
	POLookup string // PO number reconciled, empty when reconciliation was skipped

	Reconciliation *reconcile.Result
	ReconcileErr   error
}

// Processor coordinates scan → export → reconcile for a single document.
type Processor struct {
	Logger        *slog.Logger
	Scanner       *Scanner
	Exporter      Exporter
	Reconciler    Reconciler // nil disables reconciliation
	OutputDir     string
	AutoReconcile bool
}

func NewProcessor(logger *slog.Logger, scanner *Scanner, exporter Exporter, reconciler Reconciler, outputDir string, autoReconcile bool) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		Logger:        logger,
		Scanner:       scanner,
		Exporter:      exporter,
		Reconciler:    reconciler,
		OutputDir:     outputDir,
		AutoReconcile: autoReconcile,
	}
}

// Submit scans the document, writes the exports and, when a PO number is
// available, reconciles it. Scan and export failures abort the request;
// reconciliation failures are recorded on the Submission.
func (p *Processor) Submit(ctx context.Context, req SubmitRequest) (*Submission, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if _, err := os.Stat(req.Path); err != nil {
		return nil, common.InputError("document not found: " + req.Path)
	}

	id := common.RequestIDFromContext(ctx)
	if id == "" {
		id = uuid.NewString()
		ctx = common.WithRequestID(ctx, id)
	}
	start := time.Now()
	log := common.LoggerFrom(ctx, p.Logger)
	log.Info("processor.submit.start", "path", req.Path, "po_number", req.PONumber)

	scan, err := p.Scanner.Scan(ctx, req.Path)
	if err != nil {
		log.Error("processor.scan.failed", "err", err)
		return nil, err
	}

	paths, err := p.Exporter.ExportAll(scan.PurchaseOrder, p.OutputDir)
	if err != nil {
		log.Error("processor.export.failed", "err", err)
		return nil, err
	}
	sub := &Submission{ID: id, Scan: scan, Exports: paths}

	sub.POLookup = p.lookupNumber(req.PONumber, scan.PurchaseOrder.PONumber)
	if sub.POLookup != "" {
		res, err := p.Reconciler.Reconcile(ctx, sub.POLookup)
		if err != nil {
			log.Warn("processor.reconcile.failed", "po_number", sub.POLookup, "err", err)
			sub.ReconcileErr = err
		} else {
			sub.Reconciliation = &res
		}
	}

	log.Info("processor.submit.ok",
		"strategy", scan.Strategy,
		"items", len(scan.PurchaseOrder.Items),
		"reconciled", sub.Reconciliation != nil && sub.Reconciliation.Accepted(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return sub, nil
}

// lookupNumber picks the PO number to reconcile: the caller's, else the
// extracted one when auto-reconcile is on. Empty means skip.
func (p *Processor) lookupNumber(requested, extracted string) string {
	if p.Reconciler == nil {
		return ""
	}
	if po := strings.TrimSpace(requested); po != "" {
		return po
	}
	if p.AutoReconcile {
		return strings.TrimSpace(extracted)
	}
	return ""
}

func validateRequest(req SubmitRequest) error {
	v := common.NewValidator().
		Field("file", req.Path, common.Required, common.SupportedDocument).
		Field("po_number", req.PONumber, common.MaxLength(maxPONumberLength))
	return common.ValidateAndReturnError(v)
}
