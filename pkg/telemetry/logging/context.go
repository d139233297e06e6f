package logging

import "context"

// contextKey names a log field carried in a context.
type contextKey string

const (
	// ExportIDKey is the context key for export run IDs.
	ExportIDKey contextKey = "export_id"

	// DatasetKey is the context key for dataset names.
	DatasetKey contextKey = "dataset"

	// KindKey is the context key for dataset kinds.
	KindKey contextKey = "kind"

	// SourceKey is the context key for the document a dataset came from.
	SourceKey contextKey = "source"
)

// WithExportID adds an export run ID to the context.
func WithExportID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ExportIDKey, id)
}

// GetExportID retrieves the export run ID from the context.
func GetExportID(ctx context.Context) string {
	if id, ok := ctx.Value(ExportIDKey).(string); ok {
		return id
	}
	return ""
}

// WithDataset adds a dataset name to the context.
func WithDataset(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, DatasetKey, name)
}

// GetDataset retrieves the dataset name from the context.
func GetDataset(ctx context.Context) string {
	if name, ok := ctx.Value(DatasetKey).(string); ok {
		return name
	}
	return ""
}

// WithKind adds a dataset kind to the context.
func WithKind(ctx context.Context, kind string) context.Context {
	return context.WithValue(ctx, KindKey, kind)
}

// GetKind retrieves the dataset kind from the context.
func GetKind(ctx context.Context) string {
	if kind, ok := ctx.Value(KindKey).(string); ok {
		return kind
	}
	return ""
}

// WithSource adds a source document path to the context.
func WithSource(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, SourceKey, path)
}

// GetSource retrieves the source document path from the context.
func GetSource(ctx context.Context) string {
	if path, ok := ctx.Value(SourceKey).(string); ok {
		return path
	}
	return ""
}

// Fields extracts the known fields from ctx as key-value pairs suitable
// for With or a slog call.
func Fields(ctx context.Context) []any {
	var fields []any

	if id := GetExportID(ctx); id != "" {
		fields = append(fields, string(ExportIDKey), id)
	}
	if name := GetDataset(ctx); name != "" {
		fields = append(fields, string(DatasetKey), name)
	}
	if kind := GetKind(ctx); kind != "" {
		fields = append(fields, string(KindKey), kind)
	}
	if path := GetSource(ctx); path != "" {
		fields = append(fields, string(SourceKey), path)
	}

	return fields
}
