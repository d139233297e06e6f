// Package watch keeps CSV exports in step with their dataset document.
//
// FileWatcher reports debounced fsnotify events for a document or a
// directory of documents. Reexporter reloads the document and exports the
// selected datasets again.
package watch
