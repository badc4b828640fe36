// Package pdf extracts text from PDF files.
//
// The primary method shells out to pdftotext from poppler-utils, which
// keeps Vietnamese diacritics and line breaks intact on most gazette
// PDFs. When pdftotext is missing or yields nothing, a pure-Go reader
// (github.com/ledongthuc/pdf) is tried. PreferNative reverses the order.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
	"github.com/custodia-labs/vnlaw/internal/core/ports/driven"
	"github.com/custodia-labs/vnlaw/internal/logger"
)

// DefaultToolPath is the pdftotext binary looked up on PATH.
const DefaultToolPath = "pdftotext"

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found: install poppler-utils")

var _ driven.TextExtractor = (*Extractor)(nil)

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name with args.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// Options configures an Extractor.
type Options struct {
	// PdftotextPath overrides the pdftotext binary.
	PdftotextPath string

	// PreferNative tries the pure-Go reader before pdftotext.
	PreferNative bool
}

// method is one way of getting text out of a PDF.
type method struct {
	name string
	run  func(ctx context.Context, path string) (string, error)
}

// Extractor implements driven.TextExtractor for PDF files.
type Extractor struct {
	runner       CommandRunner
	lookPath     func(string) (string, error)
	toolPath     string
	preferNative bool
	native       func(path string) (string, error)
}

// New creates a PDF extractor that runs pdftotext with os/exec.
func New(opts Options) *Extractor {
	return NewWithRunner(ExecRunner{}, opts)
}

// NewWithRunner creates a PDF extractor with a custom command runner.
func NewWithRunner(runner CommandRunner, opts Options) *Extractor {
	tool := opts.PdftotextPath
	if tool == "" {
		tool = DefaultToolPath
	}
	return &Extractor{
		runner:       runner,
		lookPath:     exec.LookPath,
		toolPath:     tool,
		preferNative: opts.PreferNative,
		native:       readNative,
	}
}

// Extract returns the text of the PDF at path.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", domain.ErrFileNotFound, path)
		}
		return "", fmt.Errorf("checking %s: %w", path, err)
	}

	var failures []error
	for _, m := range e.methods(e.preferNative || driven.PreferNative(ctx)) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := m.run(ctx, path)
		if err != nil {
			logger.Warn("%s failed on %s: %v", m.name, path, err)
			failures = append(failures, fmt.Errorf("%s: %w", m.name, err))
			continue
		}
		if strings.TrimSpace(text) == "" {
			logger.Debug("%s produced no text for %s", m.name, path)
			continue
		}
		logger.Debug("extracted %d bytes from %s with %s", len(text), path, m.name)
		return text, nil
	}

	err := fmt.Errorf("%w: %s", domain.ErrEmptyText, path)
	if len(failures) > 0 {
		return "", errors.Join(append([]error{err}, failures...)...)
	}
	return "", err
}

func (e *Extractor) methods(preferNative bool) []method {
	tool := method{name: "pdftotext", run: e.runTool}
	native := method{name: "native reader", run: func(_ context.Context, path string) (string, error) {
		return e.native(path)
	}}
	if preferNative {
		return []method{native, tool}
	}
	return []method{tool, native}
}

func (e *Extractor) runTool(ctx context.Context, path string) (string, error) {
	if _, err := e.lookPath(e.toolPath); err != nil {
		return "", ErrPDFToolNotFound
	}
	// "-" writes to stdout.
	out, err := e.runner.Run(ctx, e.toolPath, "-enc", "UTF-8", path, "-")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// readNative extracts text page by page with the pure-Go reader. Pages
// that fail to decode are skipped.
func readNative(path string) (text string, err error) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading pdf: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := pageLines(page)
		if err != nil {
			logger.Debug("skipping page %d of %s: %v", i, path, err)
			continue
		}
		if pageText == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(pageText)
	}
	return b.String(), nil
}

// pageLines rebuilds the page text row by row so that headings such as
// "Điều 8." start their own line.
func pageLines(page pdf.Page) (string, error) {
	rows, err := page.GetTextByRow()
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		var b strings.Builder
		for _, word := range row.Content {
			b.WriteString(word.S)
		}
		lines = append(lines, b.String())
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// InstallInstructions returns platform hints for installing pdftotext.
func InstallInstructions() string {
	return `pdftotext is provided by poppler:
  macOS:          brew install poppler
  Debian/Ubuntu:  apt install poppler-utils
  Fedora:         dnf install poppler-utils`
}
