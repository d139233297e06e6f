// csvexport writes cytometry datasets to comma-delimited text files.
//
// A dataset document (YAML or JSON) declares point datasets and cluster
// datasets derived from them. Point datasets are written as one line per
// point with an optional "_properties" sidecar; cluster datasets as one
// line per assigned point.
//
// Usage:
//
//	# Export one dataset to a chosen file
//	csvexport export cells.yaml cells -o out/cells.csv
//
//	# Export several datasets into the last used directory
//	csvexport export cells.yaml cells gated groups
//
//	# Show how side channels would be written
//	csvexport inspect cells.yaml
//
//	# Re-export whenever the document changes
//	csvexport watch cells.yaml --out-dir out/
//
//	# List recorded runs
//	csvexport history list --dataset cells --format json
package main

func main() {
	Execute()
}
