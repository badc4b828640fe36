package extractors

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
	"github.com/custodia-labs/vnlaw/internal/core/ports/driven"
	"github.com/custodia-labs/vnlaw/internal/extractors/pdf"
	"github.com/custodia-labs/vnlaw/internal/extractors/plaintext"
	"github.com/custodia-labs/vnlaw/internal/logger"
)

var _ driven.TextExtractor = (*Registry)(nil)

// Registry selects an extractor by file extension.
type Registry struct {
	byExt map[string]driven.TextExtractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]driven.TextExtractor)}
}

// NewDefaultRegistry registers the PDF and plain text extractors.
func NewDefaultRegistry(settings domain.ExtractSettings) *Registry {
	r := NewRegistry()
	r.Register(pdf.New(pdf.Options{
		PdftotextPath: settings.PdftotextPath,
		PreferNative:  settings.PreferNative,
	}), ".pdf")
	r.Register(plaintext.New(), ".txt", ".text")
	return r
}

// Register maps one or more extensions (with leading dot) to e.
func (r *Registry) Register(e driven.TextExtractor, exts ...string) {
	for _, ext := range exts {
		r.byExt[strings.ToLower(ext)] = e
	}
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Supports reports whether path has a registered extension.
func (r *Registry) Supports(path string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extract delegates to the extractor registered for the extension of path.
func (r *Registry) Extract(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	e, ok := r.byExt[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedType, ext)
	}
	logger.Debug("extracting %s with %T", path, e)
	return e.Extract(ctx, path)
}
