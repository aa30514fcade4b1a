// Package ocr turns uploaded statement files (PDF, PNG, JPG, plain text)
// into normalized text ready for institution parsing. Recognition shells
// out to pdftotext and tesseract; multi-page PDFs are split per page with
// pdfcpu so a single bad page cannot sink the whole statement.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Engine converts one input file into plain text at outTxtPath.
type Engine interface {
	Recognize(ctx context.Context, inputPath, outTxtPath string) error
}

// ExecEngine recognizes text by invoking external binaries: pdftotext in
// layout mode for PDFs and tesseract for raster images.
type ExecEngine struct {
	PdftotextBin string
	TesseractBin string
	logger       *slog.Logger
}

// NewExecEngine returns an engine using the given binary paths. Empty
// paths fall back to the bare command names resolved via PATH.
func NewExecEngine(pdftotextBin, tesseractBin string, logger *slog.Logger) *ExecEngine {
	if pdftotextBin == "" {
		pdftotextBin = "pdftotext"
	}
	if tesseractBin == "" {
		tesseractBin = "tesseract"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecEngine{
		PdftotextBin: pdftotextBin,
		TesseractBin: tesseractBin,
		logger:       logger,
	}
}

// Recognize dispatches on the input extension. PDFs go through
// pdftotext -layout; PNG/JPG go through tesseract, which writes to
// <base>.txt and is renamed to the requested output path.
func (e *ExecEngine) Recognize(ctx context.Context, inputPath, outTxtPath string) error {
	switch strings.ToLower(filepath.Ext(inputPath)) {
	case ".pdf":
		return e.runPdftotext(ctx, inputPath, outTxtPath)
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff":
		return e.runTesseract(ctx, inputPath, outTxtPath)
	default:
		return fmt.Errorf("unsupported input type: %s", filepath.Ext(inputPath))
	}
}

func (e *ExecEngine) runPdftotext(ctx context.Context, inputPath, outTxtPath string) error {
	cmd := exec.CommandContext(ctx, e.PdftotextBin, "-layout", inputPath, outTxtPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("pdftotext %s: %w: %s", filepath.Base(inputPath), err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (e *ExecEngine) runTesseract(ctx context.Context, inputPath, outTxtPath string) error {
	// Tesseract takes an output base and appends .txt on its own.
	base := strings.TrimSuffix(outTxtPath, ".txt")
	cmd := exec.CommandContext(ctx, e.TesseractBin, inputPath, base)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("tesseract %s: %w: %s", filepath.Base(inputPath), err, strings.TrimSpace(string(out)))
	}
	written := base + ".txt"
	if written != outTxtPath {
		if err := os.Rename(written, outTxtPath); err != nil {
			return fmt.Errorf("rename tesseract output: %w", err)
		}
	}
	return nil
}
