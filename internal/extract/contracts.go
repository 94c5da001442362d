package extract

import "context"

// Extractor is the external document-understanding service. It is a black box
// that returns loosely typed nested data for a document.
type Extractor interface {
	// ExtractWithSchema asks for data shaped like schema (nested objects and lists).
	ExtractWithSchema(ctx context.Context, path string, schema map[string]any) (map[string]any, error)
	// ExtractFields asks for a flat set of named fields.
	ExtractFields(ctx context.Context, path string, fields []string) (map[string]any, error)
}
