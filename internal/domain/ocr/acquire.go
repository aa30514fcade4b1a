package ocr

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/ledgerlens/statement-pipeline/pkg/storage"
)

// RawStatementText is the acquisition result for one source file.
// Pages holds the recognized text per page in page order; single-page
// inputs and images produce exactly one page.
type RawStatementText struct {
	SourcePath  string
	Pages       []string
	Passes      int
	FailedPages []int
}

// Text joins the page texts with form-feed separators, the same shape
// pdftotext produces for multi-page documents.
func (r *RawStatementText) Text() string {
	return strings.Join(r.Pages, "\f")
}

// Acquirer produces statement text from uploaded files and caches the
// result as a <stem>_ocr.txt artifact.
type Acquirer struct {
	engine Engine
	store  storage.Store
	passes int
	logger *slog.Logger
}

// NewAcquirer wires an acquirer. Passes below 1 are clamped to 1.
func NewAcquirer(engine Engine, store storage.Store, passes int, logger *slog.Logger) *Acquirer {
	if passes < 1 {
		passes = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Acquirer{
		engine: engine,
		store:  store,
		passes: passes,
		logger: logger,
	}
}

// ArtifactName returns the cached-text artifact name for a source file.
func ArtifactName(srcPath string) string {
	base := filepath.Base(srcPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + "_ocr.txt"
}

// Acquire recognizes text from srcPath. Plain .txt uploads pass through
// unchanged. Everything else goes through the engine, with the full
// recognition repeated per configured pass; pass outputs are compared
// by checksum and the first pass is kept as canonical.
func (a *Acquirer) Acquire(ctx context.Context, srcPath string) (*RawStatementText, error) {
	var result *RawStatementText

	if strings.EqualFold(filepath.Ext(srcPath), ".txt") {
		data, err := os.ReadFile(srcPath)
		if err != nil {
			return nil, fmt.Errorf("read text upload: %w", err)
		}
		result = &RawStatementText{
			SourcePath: srcPath,
			Pages:      []string{string(data)},
			Passes:     1,
		}
	} else {
		var err error
		result, err = a.acquireWithConsistency(ctx, srcPath)
		if err != nil {
			return nil, err
		}
	}

	if a.store != nil {
		name := ArtifactName(srcPath)
		if _, err := a.store.Put(ctx, name, strings.NewReader(result.Text())); err != nil {
			return nil, fmt.Errorf("cache ocr artifact %s: %w", name, err)
		}
	}
	return result, nil
}

func (a *Acquirer) acquireWithConsistency(ctx context.Context, srcPath string) (*RawStatementText, error) {
	var (
		first    *RawStatementText
		firstSum string
	)

	for pass := 1; pass <= a.passes; pass++ {
		r, err := a.recognizeOnce(ctx, srcPath)
		if err != nil {
			if first != nil {
				a.logger.Warn("ocr pass failed, keeping earlier pass",
					slog.String("file", filepath.Base(srcPath)),
					slog.Int("pass", pass),
					slog.Any("error", err))
				break
			}
			return nil, err
		}

		sum := checksumText(r.Text())
		if first == nil {
			first, firstSum = r, sum
			continue
		}
		if sum != firstSum {
			a.logger.Warn("ocr passes disagree, keeping first pass",
				slog.String("file", filepath.Base(srcPath)),
				slog.Int("pass", pass))
		}
	}

	first.Passes = a.passes
	return first, nil
}

// recognizeOnce performs one full recognition of the source file.
// Multi-page PDFs are split per page so one unreadable page only costs
// that page.
func (a *Acquirer) recognizeOnce(ctx context.Context, srcPath string) (*RawStatementText, error) {
	if strings.EqualFold(filepath.Ext(srcPath), ".pdf") {
		pages, err := api.PageCountFile(srcPath)
		if err != nil {
			return nil, fmt.Errorf("count pdf pages %s: %w", filepath.Base(srcPath), err)
		}
		if pages > 1 {
			return a.recognizePaged(ctx, srcPath)
		}
	}

	text, err := a.recognizeToString(ctx, srcPath)
	if err != nil {
		return nil, err
	}
	return &RawStatementText{
		SourcePath: srcPath,
		Pages:      []string{text},
	}, nil
}

func (a *Acquirer) recognizePaged(ctx context.Context, srcPath string) (*RawStatementText, error) {
	splitDir, err := os.MkdirTemp("", "statement-pages-*")
	if err != nil {
		return nil, fmt.Errorf("create split dir: %w", err)
	}
	defer os.RemoveAll(splitDir)

	if err := api.SplitFile(srcPath, splitDir, 1, nil); err != nil {
		return nil, fmt.Errorf("split pdf %s: %w", filepath.Base(srcPath), err)
	}

	pagePaths, err := sortedPageFiles(splitDir)
	if err != nil {
		return nil, err
	}
	if len(pagePaths) == 0 {
		return nil, fmt.Errorf("split pdf %s: no pages produced", filepath.Base(srcPath))
	}

	result := &RawStatementText{SourcePath: srcPath}
	for i, pagePath := range pagePaths {
		text, err := a.recognizeToString(ctx, pagePath)
		if err != nil {
			a.logger.Warn("page recognition failed",
				slog.String("file", filepath.Base(srcPath)),
				slog.Int("page", i+1),
				slog.Any("error", err))
			result.Pages = append(result.Pages, "")
			result.FailedPages = append(result.FailedPages, i+1)
			continue
		}
		result.Pages = append(result.Pages, text)
	}
	return result, nil
}

func (a *Acquirer) recognizeToString(ctx context.Context, inputPath string) (string, error) {
	tmp, err := os.CreateTemp("", "ocr-out-*.txt")
	if err != nil {
		return "", fmt.Errorf("create temp output: %w", err)
	}
	outPath := tmp.Name()
	tmp.Close()
	defer os.Remove(outPath)

	if err := a.engine.Recognize(ctx, inputPath, outPath); err != nil {
		return "", err
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		return "", fmt.Errorf("read recognized text: %w", err)
	}
	return string(data), nil
}

// sortedPageFiles orders split output numerically by the page suffix
// pdfcpu appends (name_1.pdf, name_2.pdf, ... name_10.pdf).
func sortedPageFiles(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("list split pages: %w", err)
	}
	sort.Slice(matches, func(i, j int) bool {
		return pageNumber(matches[i]) < pageNumber(matches[j])
	})
	return matches, nil
}

func pageNumber(path string) int {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	idx := strings.LastIndex(base, "_")
	if idx < 0 {
		return 0
	}
	n, err := strconv.Atoi(base[idx+1:])
	if err != nil {
		return 0
	}
	return n
}

func checksumText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
