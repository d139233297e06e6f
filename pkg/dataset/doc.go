// Package dataset provides the in-memory dataset model consumed by the
// exporters.
//
// # Kinds
//
// Two dataset kinds are supported:
//
//   - Points: a point cloud with a dimension count, optional dimension
//     names and float32 values in row- or column-major layout.
//   - Clusters: an ordered list of named, colored groups of row indices.
//
// Every dataset owns an ordered set of named property lists and may have a
// parent it was derived from. A property named "Sample Names" holds per-row
// labels and is looked up along the parent chain.
//
// # Lineage
//
// Ancestry is captured once, when a dataset is opened:
//
//	h, err := store.Open("clusters")
//	if err != nil {
//	    return err
//	}
//	for _, ds := range h.Lineage { // self first
//	    ...
//	}
//
// The walk is bounded and rejects cycles.
//
// # Documents
//
// Datasets can be loaded from a YAML (or JSON) document:
//
//	datasets:
//	  - name: cells
//	    kind: points
//	    dimensions: [x, y]
//	    values: [[1, 2], [3, 4]]
//	    properties:
//	      Sample Names: [a, b]
//	      Unit: [mm, mm]
//	  - name: groups
//	    kind: clusters
//	    parent: cells
//	    clusters:
//	      - {name: A, color: "#ff0000", indices: [0, 1]}
//
// Property order in the document is preserved.
//
// # Locking
//
// Acquire takes an advisory lock and returns the release function:
//
//	release, err := dataset.Acquire(ds)
//	if err != nil {
//	    return err
//	}
//	defer release()
package dataset
