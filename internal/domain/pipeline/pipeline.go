// Package pipeline orchestrates statement imports: hash, dedup, OCR
// acquisition, parser dispatch, normalization and emission, with a
// per-file state machine and per-run statistics.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ledgerlens/statement-pipeline/internal/domain/ocr"
	"github.com/ledgerlens/statement-pipeline/internal/domain/statement"
	"github.com/ledgerlens/statement-pipeline/internal/domain/statement/normalizer"
)

// TextAcquirer produces statement text for one source file.
type TextAcquirer interface {
	Acquire(ctx context.Context, srcPath string) (*ocr.RawStatementText, error)
}

// TransactionStore receives the pipeline's output. InsertBatch must be
// retry-safe: re-inserting an already stored row (same identity) skips
// it instead of duplicating.
type TransactionStore interface {
	InsertBatch(ctx context.Context, txs []normalizer.NormalizedTransaction) (inserted, skipped int, err error)
	RecordRejections(ctx context.Context, lines []statement.RejectedLine) error
}

// lineRejecter is implemented by parsers that can also report lines
// that looked like money but failed to parse.
type lineRejecter interface {
	ParseLines(text, src string) ([]statement.ParsedRow, []statement.RejectedLine)
}

// Config carries the orchestrator's knobs.
type Config struct {
	UploadsDir    string
	DefaultSource string
	Workers       int
	RefYear       int
}

// Pipeline drives the import state machine over a set of files.
type Pipeline struct {
	cfg      Config
	acquirer TextAcquirer
	index    ChecksumIndex
	store    TransactionStore
	registry *statement.Registry
	norm     *normalizer.Normalizer
	logger   *slog.Logger
}

// New wires a pipeline. Workers below 1 are clamped to 1.
func New(cfg Config, acquirer TextAcquirer, index ChecksumIndex, store TransactionStore, registry *statement.Registry, logger *slog.Logger) *Pipeline {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.DefaultSource == "" {
		cfg.DefaultSource = "OCR"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:      cfg,
		acquirer: acquirer,
		index:    index,
		store:    store,
		registry: registry,
		norm: &normalizer.Normalizer{
			RefYear:       cfg.RefYear,
			DefaultSource: cfg.DefaultSource,
		},
		logger: logger,
	}
}

var supportedExtensions = map[string]bool{
	".pdf": true, ".png": true, ".jpg": true, ".jpeg": true,
	".tif": true, ".tiff": true, ".txt": true,
}

// ScanUploads lists supported files in the configured uploads dir.
func (p *Pipeline) ScanUploads() ([]string, error) {
	entries, err := os.ReadDir(p.cfg.UploadsDir)
	if err != nil {
		return nil, fmt.Errorf("read uploads dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !supportedExtensions[ext] {
			p.logger.Warn("skipping unsupported file type", slog.String("file", e.Name()))
			continue
		}
		paths = append(paths, filepath.Join(p.cfg.UploadsDir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Run processes the given files, or everything in the uploads dir when
// paths is empty. Files are independent; a bounded worker pool fans
// them out without changing the output.
func (p *Pipeline) Run(ctx context.Context, paths []string) (*RunStats, error) {
	if len(paths) == 0 {
		var err error
		paths, err = p.ScanUploads()
		if err != nil {
			return nil, err
		}
	}

	runID := uuid.NewString()
	p.logger.Info("import run starting",
		slog.String("run_id", runID), slog.Int("files", len(paths)), slog.Int("workers", p.cfg.Workers))

	stats := NewRunStats()

	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < p.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if ctx.Err() != nil {
					return
				}
				result := p.processFile(ctx, path, stats)
				stats.recordFile(result)
				observeFile(result)
			}
		}()
	}

feed:
	for _, path := range paths {
		select {
		case jobs <- path:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return stats, err
	}

	p.logger.Info("import run finished",
		slog.String("run_id", runID), slog.String("summary", stats.Summary()))
	return stats, nil
}

// ImportRows emits pre-parsed rows, such as CSV exports that bypass
// OCR, through the same normalization and upsert path as scanned
// files. sourceName labels the batch in stats and logs.
func (p *Pipeline) ImportRows(ctx context.Context, rows []statement.ParsedRow, sourceName string) (*RunStats, error) {
	stats := NewRunStats()
	result := FileResult{Path: sourceName, State: StateParsed}

	txs, transfers := p.normalizeRows(rows, "", sourceName, stats, &result)
	if len(txs) == 0 {
		result.State = StateRejected
		stats.recordFile(result)
		return stats, nil
	}

	inserted, skipped, err := p.store.InsertBatch(ctx, txs)
	if err != nil {
		result.State = StateRejected
		result.Err = err
		stats.recordFile(result)
		return stats, fmt.Errorf("emit %s: %w", sourceName, err)
	}
	stats.addSkipped(skipped)
	stats.addTransfers(transfers)

	result.State = StateEmitted
	result.Rows = inserted
	stats.recordFile(result)
	observeFile(result)

	p.logger.Info("row import finished",
		slog.String("source", sourceName), slog.String("summary", stats.Summary()))
	return stats, nil
}

// processFile walks one file through
// PENDING -> HASHED -> (DUPLICATE | ACQUIRED) -> PARSED -> NORMALIZED -> EMITTED,
// with REJECTED reachable after acquisition and normalization.
func (p *Pipeline) processFile(ctx context.Context, path string, stats *RunStats) FileResult {
	result := FileResult{Path: path, State: StatePending}
	name := filepath.Base(path)

	sum, err := HashFile(path)
	if err != nil {
		p.logger.Warn("hashing failed", slog.String("file", name), slog.Any("error", err))
		result.State = StateRejected
		result.Err = err
		return result
	}
	result.State = StateHashed
	result.Checksum = sum

	seen, err := p.index.Seen(ctx, sum)
	if err != nil {
		result.State = StateRejected
		result.Err = fmt.Errorf("checksum lookup: %w", err)
		return result
	}
	if seen {
		p.logger.Info("duplicate file skipped", slog.String("file", name))
		result.State = StateDuplicate
		return result
	}

	raw, err := p.acquirer.Acquire(ctx, path)
	if err != nil {
		p.logger.Warn("acquisition failed", slog.String("file", name), slog.Any("error", err))
		result.State = StateRejected
		result.Err = err
		return result
	}
	result.State = StateAcquired

	text := ocr.NormalizeText(raw.Text())

	parser := p.registry.Match(text)
	if parser == nil {
		p.logger.Warn("no parser matched", slog.String("file", name))
		result.State = StateRejected
		return result
	}
	result.Parser = parser.Name()

	var rows []statement.ParsedRow
	if lr, ok := parser.(lineRejecter); ok {
		var rejectedLines []statement.RejectedLine
		rows, rejectedLines = lr.ParseLines(text, path)
		if len(rejectedLines) > 0 {
			result.Rejected += len(rejectedLines)
			for _, line := range rejectedLines {
				stats.Rejections.Record(line.Reason, line.RawText)
				observeRejection(line.Reason)
			}
			if err := p.store.RecordRejections(ctx, rejectedLines); err != nil {
				p.logger.Warn("recording rejected lines failed", slog.String("file", name), slog.Any("error", err))
			}
		}
	} else {
		rows = parser.Parse(text, path)
	}
	if len(rows) == 0 {
		p.logger.Warn("parser produced no rows", slog.String("file", name), slog.String("parser", parser.Name()))
		result.State = StateRejected
		return result
	}
	result.State = StateParsed

	txs, transfers := p.normalizeRows(rows, sum, name, stats, &result)
	if len(txs) == 0 {
		result.State = StateRejected
		return result
	}
	result.State = StateNormalized

	inserted, skipped, err := p.store.InsertBatch(ctx, txs)
	if err != nil {
		p.logger.Warn("emission failed", slog.String("file", name), slog.Any("error", err))
		result.State = StateRejected
		result.Err = err
		return result
	}
	stats.addSkipped(skipped)
	stats.addTransfers(transfers)

	if err := p.index.Add(ctx, sum, name); err != nil {
		p.logger.Warn("checksum index update failed", slog.String("file", name), slog.Any("error", err))
	}

	result.State = StateEmitted
	result.Rows = inserted
	return result
}

// normalizeRows converts parsed rows, dropping invalid ones into the
// rejection stats and suppressing identity duplicates within the file.
func (p *Pipeline) normalizeRows(rows []statement.ParsedRow, checksum, fileName string, stats *RunStats, result *FileResult) ([]normalizer.NormalizedTransaction, int) {
	seen := make(map[string]bool, len(rows))
	txs := make([]normalizer.NormalizedTransaction, 0, len(rows))
	transfers := 0

	for _, row := range rows {
		tx, err := p.norm.Normalize(row)
		if err != nil {
			stats.Rejections.RecordError(err)
			observeRejection(rejectReason(err))
			result.Rejected++
			continue
		}

		key := tx.IdentityKey()
		if seen[key] {
			stats.Rejections.Record(normalizer.ReasonDuplicateRow, key)
			observeRejection(normalizer.ReasonDuplicateRow)
			result.Rejected++
			continue
		}
		seen[key] = true

		tx.Checksum = checksum
		tx.ImportSource = fileName
		if tx.Direction == statement.DirectionTransfer {
			transfers++
		}
		txs = append(txs, tx)
	}
	return txs, transfers
}

func rejectReason(err error) string {
	switch err.(type) {
	case *normalizer.InvalidDateError:
		return normalizer.ReasonInvalidDate
	case *normalizer.InvalidAmountError:
		return normalizer.ReasonInvalidAmount
	default:
		return "other"
	}
}
