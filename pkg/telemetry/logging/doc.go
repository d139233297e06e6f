// Package logging configures log/slog for csvexport.
//
// New builds the root logger from the telemetry.logging configuration in
// one of three formats: json, text, or console (text without timestamps).
// Library packages take a *slog.Logger and tag it with Component.
//
// Export runs carry their identity in the context:
//
//	ctx = logging.WithExportID(ctx, result.ID)
//	ctx = logging.WithDataset(ctx, "cells")
//	logging.FromContext(ctx, logger).InfoContext(ctx, "export finished", "rows", 1200)
package logging
