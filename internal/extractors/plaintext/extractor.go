// Package plaintext reads UTF-8 text files.
package plaintext

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
	"github.com/custodia-labs/vnlaw/internal/core/ports/driven"
)

var _ driven.TextExtractor = (*Extractor)(nil)

// utf8BOM is stripped from the start of the file.
const utf8BOM = "\ufeff"

// Extractor returns the contents of a text file.
type Extractor struct{}

// New creates a plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", domain.ErrFileNotFound, path)
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	text := strings.TrimPrefix(string(data), utf8BOM)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrEmptyText, path)
	}
	return text, nil
}
