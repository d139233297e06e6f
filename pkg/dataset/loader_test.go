package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const testDocument = `
datasets:
  - name: groups
    kind: clusters
    parent: cells
    clusters:
      - name: A
        color: "#ff0000"
        indices: [0, 1]
      - name: B
        color: "#00f"
        indices: [2]
  - name: cells
    kind: points
    dimensions: [x, y]
    values:
      - [1, 2]
      - [3, 4]
      - [5.5, 6]
    properties:
      Unit: [mm, mm]
      Sample Names: [a, b, c]
      Scale: [1, 0.5]
`

func TestDecode_Document(t *testing.T) {
	store, err := Decode(strings.NewReader(testDocument), 0)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}

	if got := store.Names(); !reflect.DeepEqual(got, []string{"groups", "cells"}) {
		t.Errorf("Names() = %v", got)
	}

	cells, ok := store.Get("cells")
	if !ok {
		t.Fatal("cells not found")
	}
	points := cells.(PointSource)
	if points.RowCount() != 3 || points.DimensionCount() != 2 {
		t.Errorf("rows=%d dims=%d, want 3 and 2", points.RowCount(), points.DimensionCount())
	}
	if got := cells.Properties().Names(); !reflect.DeepEqual(got, []string{"Unit", "Sample Names", "Scale"}) {
		t.Errorf("property order = %v", got)
	}
	scale, _ := cells.Properties().Get("Scale")
	if FormatScalar(scale[1]) != "0.5" {
		t.Errorf("Scale[1] = %v, want 0.5", scale[1])
	}

	h, err := store.Open("groups")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if len(h.Lineage) != 2 || h.Lineage[1].Name() != "cells" {
		t.Errorf("lineage = %v", h.Lineage)
	}
	clusters := h.Dataset.(ClusterSource).Clusters()
	if len(clusters) != 2 || clusters[1].Color.Hex() != "#0000ff" {
		t.Errorf("clusters = %+v", clusters)
	}
}

func TestDecode_ColumnLayout(t *testing.T) {
	doc := `
datasets:
  - name: cells
    kind: points
    layout: column
    values:
      - [1, 3, 5]
      - [2, 4, 6]
`
	store, err := Decode(strings.NewReader(doc), 0)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	ds, _ := store.Get("cells")
	want := [][]float32{{1, 2}, {3, 4}, {5, 6}}
	if got := collectRows(ds.(PointSource)); !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
}

func TestDecode_JSON(t *testing.T) {
	doc := `{"datasets": [{"name": "p", "kind": "points", "num_dimensions": 1, "values": [[1], [2]]}]}`
	store, err := Decode(strings.NewReader(doc), 0)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	ds, _ := store.Get("p")
	if ds.RowCount() != 2 {
		t.Errorf("RowCount() = %d, want 2", ds.RowCount())
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing kind", "datasets: [{name: a}]"},
		{"unknown kind", "datasets: [{name: a, kind: volumes}]"},
		{"missing name", "datasets: [{kind: points}]"},
		{"unknown parent", "datasets: [{name: a, kind: points, parent: ghost}]"},
		{"duplicate", "datasets: [{name: a, kind: points}, {name: a, kind: points}]"},
		{"ragged rows", "datasets: [{name: a, kind: points, values: [[1, 2], [3]]}]"},
		{"huge cluster index", "datasets: [{name: a, kind: clusters, clusters: [{name: A, color: '#ff0000', indices: [0, 9223372036854775807]}]}]"},
		{"bad color", "datasets: [{name: a, kind: clusters, clusters: [{name: A, color: red}]}]"},
		{"property not a list", "datasets: [{name: a, kind: points, properties: {Unit: mm}}]"},
		{"malformed", "datasets: [{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc), 0)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var le *LoadError
			if !errors.As(err, &le) {
				t.Errorf("expected *LoadError, got %T", err)
			}
		})
	}
}

func TestDecode_ClusterIndexOutOfRange(t *testing.T) {
	doc := "datasets: [{name: g, kind: clusters, clusters: [{name: A, color: '#ff0000', indices: [0, 10000000000]}]}]"

	_, err := Decode(strings.NewReader(doc), 0)
	var le *LoadError
	if !errors.As(err, &le) || le.Dataset != "g" {
		t.Fatalf("Decode() error = %v, want LoadError for dataset g", err)
	}
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Decode() error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestDecode_Empty(t *testing.T) {
	store, err := Decode(strings.NewReader(""), 0)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if len(store.Names()) != 0 {
		t.Errorf("expected empty store, got %v", store.Names())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datasets.yaml")
	if err := os.WriteFile(path, []byte(testDocument), 0644); err != nil {
		t.Fatalf("failed to write document: %v", err)
	}

	store, err := LoadFile(path, 0)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if _, err := store.Open("ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open(ghost) error = %v, want ErrNotFound", err)
	}

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), 0)
	var le *LoadError
	if !errors.As(err, &le) || le.Path == "" {
		t.Errorf("expected *LoadError with path, got %v", err)
	}
}
