// Package export serializes datasets as comma-delimited text.
//
// Point datasets become a primary table of one line per point, optionally
// prefixed by a row label column, plus a "_properties" sidecar holding the
// properties that have one value per dimension. Cluster datasets become a
// three-column table of id, cluster name and color.
//
// Fields are never quoted. Every text field passes through Sanitize, which
// replaces the delimiter with an underscore; the substitution is lossy.
//
// Exporter.Export holds the dataset lock for the duration of the write,
// reports progress to a Task every ProgressInterval rows and stops at the
// next checkpoint once its context is cancelled.
package export
