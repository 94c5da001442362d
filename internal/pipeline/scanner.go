package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/tutejaLucky/docExtract/internal/common"
	"github.com/tutejaLucky/docExtract/internal/entity"
	"github.com/tutejaLucky/docExtract/internal/extract"
	"github.com/tutejaLucky/docExtract/internal/normalize"
)

// Strategy names the extraction path that produced an order.
type Strategy string

const (
	StrategySchema Strategy = "schema"
	StrategyFields Strategy = "fields"
)

const defaultScanTimeout = 2 * time.Minute

// ScanResult is the order produced by a successful scan.
type ScanResult struct {
	PurchaseOrder entity.PurchaseOrder
	Strategy      Strategy
	// PrimaryErr is why the schema strategy was abandoned; nil when it succeeded.
	PrimaryErr error
}

// attempt is the outcome of one strategy: exactly one of po/err is meaningful.
type attempt struct {
	strategy Strategy
	po       entity.PurchaseOrder
	err      error
}

func (a attempt) failed() bool { return a.err != nil }

// Scanner runs schema extraction and falls back to flat field extraction once
// when the schema attempt fails for any reason.
type Scanner struct {
	logger    *slog.Logger
	extractor extract.Extractor
	timeout   time.Duration
}

func NewScanner(logger *slog.Logger, extractor extract.Extractor, timeout time.Duration) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultScanTimeout
	}
	return &Scanner{logger: logger, extractor: extractor, timeout: timeout}
}

// Scan extracts a PurchaseOrder from the document at path.
// The extractor is called at most twice.
func (s *Scanner) Scan(ctx context.Context, path string) (ScanResult, error) {
	start := time.Now()
	log := common.LoggerFrom(ctx, s.logger).With("path", path)
	log.Info("scan.start")

	primary := s.schemaAttempt(ctx, path)
	if !primary.failed() {
		log.Info("scan.ok",
			"strategy", primary.strategy,
			"items", len(primary.po.Items),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return ScanResult{PurchaseOrder: primary.po, Strategy: primary.strategy}, nil
	}
	log.Warn("scan.primary.failed", "strategy", primary.strategy, "err", primary.err)

	fallback := s.fieldsAttempt(ctx, path)
	if fallback.failed() {
		log.Error("scan.fallback.failed",
			"strategy", fallback.strategy,
			"err", fallback.err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return ScanResult{}, common.ExtractionError("schema and field extraction both failed", primary.err, fallback.err)
	}

	log.Info("scan.ok",
		"strategy", fallback.strategy,
		"items", len(fallback.po.Items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return ScanResult{
		PurchaseOrder: fallback.po,
		Strategy:      fallback.strategy,
		PrimaryErr:    primary.err,
	}, nil
}

func (s *Scanner) schemaAttempt(ctx context.Context, path string) attempt {
	a := attempt{strategy: StrategySchema}
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.extractor.ExtractWithSchema(callCtx, path, extract.PurchaseOrderSchema())
	if err != nil {
		a.err = common.WrapError(err, "schema extraction")
		return a
	}
	a.po, a.err = normalize.FromSchema(raw)
	return a
}

func (s *Scanner) fieldsAttempt(ctx context.Context, path string) attempt {
	a := attempt{strategy: StrategyFields}
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.extractor.ExtractFields(callCtx, path, extract.FallbackFields)
	if err != nil {
		a.err = common.WrapError(err, "field extraction")
		return a
	}
	a.po, a.err = normalize.FromFields(raw)
	return a
}
