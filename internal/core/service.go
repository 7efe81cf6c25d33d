package core

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/ledgerio/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DefaultImportTimeout bounds one import batch.
const DefaultImportTimeout = 10 * time.Minute

// DefaultMaxRows caps the number of data rows read from one workbook.
const DefaultMaxRows = 10000

var tracer = otel.Tracer("github.com/JonMunkholm/ledgerio/internal/core")

// ServiceConfig tunes import execution.
type ServiceConfig struct {
	Workers       int            // rows processed concurrently per batch
	MaxRows       int            // data rows accepted per workbook
	MaxConcurrent int            // batches running at once
	MaxWait       time.Duration  // wait for a batch slot before rejecting
	Timeout       time.Duration  // per-batch deadline
	Location      *time.Location // zone for zone-less and serial dates
}

// Service is the entry point for workbook imports and template downloads.
type Service struct {
	store    Store
	importer *Importer
	limiter  *ImportLimiter
	maxRows  int
	timeout  time.Duration
}

// NewService creates a Service over store.
func NewService(store Store, cfg ServiceConfig) *Service {
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = DefaultMaxRows
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultImportTimeout
	}
	importer := NewImporter(store, cfg.Workers)
	importer.SetLocation(cfg.Location)
	return &Service{
		store:    store,
		importer: importer,
		limiter:  NewImportLimiter(cfg.MaxConcurrent, cfg.MaxWait),
		maxRows:  cfg.MaxRows,
		timeout:  cfg.Timeout,
	}
}

// Store returns the persistence collaborator.
func (s *Service) Store() Store {
	return s.store
}

// ListEntities returns the importable entity types.
func (s *Service) ListEntities() []EntityInfo {
	defs := All()
	infos := make([]EntityInfo, len(defs))
	for i, def := range defs {
		infos[i] = def.Info
	}
	return infos
}

// Import reads a workbook and imports every data row as entityKey records
// owned by ownerID. Row failures are reported in the result; the error is
// non-nil only when the request as a whole cannot be processed.
func (s *Service) Import(ctx context.Context, ownerID, entityKey, fileName string, data []byte) (*ImportResult, error) {
	def, err := Lookup(entityKey)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNoFile
	}

	ctx, span := tracer.Start(ctx, "core.Import")
	defer span.End()
	span.SetAttributes(
		attribute.String("import.entity", entityKey),
		attribute.Int("import.bytes", len(data)),
	)

	logger := logging.WithFields(ctx,
		"entity", entityKey,
		"file", fileName,
		"owner_id", ownerID,
		"client_ip", IPAddressFromContext(ctx),
	)

	if err := s.limiter.Acquire(ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	rows, err := ReadWorkbook(data, s.maxRows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read workbook")
		return nil, err
	}
	logger.Info("import started", "rows", len(rows))

	outcome, err := s.importer.Run(ctx, def, ownerID, rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "import cancelled")
		logger.Warn("import aborted", "error", err)
		return nil, fmt.Errorf("import %s: %w", entityKey, err)
	}

	duration := time.Since(start)
	span.SetAttributes(
		attribute.Int("import.success", outcome.SuccessCount),
		attribute.Int("import.errors", outcome.ErrorCount),
	)
	logger.Info("import completed",
		"success", outcome.SuccessCount,
		"errors", outcome.ErrorCount,
		"duration_ms", duration.Milliseconds(),
	)

	return &ImportResult{
		Message:  fmt.Sprintf("Import completed: %d successful, %d failed", outcome.SuccessCount, outcome.ErrorCount),
		Details:  outcome,
		Entity:   entityKey,
		FileName: fileName,
		Duration: duration,
	}, nil
}

// Template renders the blank import workbook for an entity.
func (s *Service) Template(entityKey string) ([]byte, error) {
	f, err := GenerateTemplate(entityKey)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write template: %w", err)
	}
	return buf.Bytes(), nil
}

// ImportStatus reports import slot usage.
func (s *Service) ImportStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until running imports finish or ctx ends.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.Drain(ctx)
}
