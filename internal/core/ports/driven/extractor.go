package driven

import "context"

// TextExtractor produces plain text from a document on disk.
type TextExtractor interface {
	// Extract returns the document text. A missing file is
	// domain.ErrFileNotFound; text that is empty after trimming is
	// domain.ErrEmptyText.
	Extract(ctx context.Context, path string) (string, error)
}

type preferNativeKey struct{}

// WithPreferNative marks ctx so PDF extractors try their built-in reader
// before external tools.
func WithPreferNative(ctx context.Context) context.Context {
	return context.WithValue(ctx, preferNativeKey{}, true)
}

// PreferNative reports whether ctx was marked by WithPreferNative.
func PreferNative(ctx context.Context) bool {
	v, _ := ctx.Value(preferNativeKey{}).(bool)
	return v
}
