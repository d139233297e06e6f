package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadError describes a dataset document that could not be loaded.
type LoadError struct {
	Path    string // Document path, empty for readers
	Dataset string // Offending dataset, empty for document-level errors
	Cause   error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	switch {
	case e.Dataset != "" && e.Path != "":
		return fmt.Sprintf("load %s [dataset=%s]: %v", e.Path, e.Dataset, e.Cause)
	case e.Dataset != "":
		return fmt.Sprintf("load [dataset=%s]: %v", e.Dataset, e.Cause)
	case e.Path != "":
		return fmt.Sprintf("load %s: %v", e.Path, e.Cause)
	default:
		return fmt.Sprintf("load: %v", e.Cause)
	}
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error { return e.Cause }

// document is the on-disk layout. JSON documents decode through the same
// YAML parser.
type document struct {
	Datasets []entry `yaml:"datasets"`
}

type entry struct {
	Name          string      `yaml:"name"`
	Kind          Kind        `yaml:"kind"`
	Parent        string      `yaml:"parent"`
	Dimensions    []string    `yaml:"dimensions"`
	NumDimensions int         `yaml:"num_dimensions"`
	Rows          int         `yaml:"rows"`
	Layout        Layout      `yaml:"layout"`
	Values        [][]float32 `yaml:"values"`
	Properties    yaml.Node   `yaml:"properties"`
	Clusters      []Cluster   `yaml:"clusters"`
}

// SetParent links ds to the dataset it was derived from.
func (b *base) SetParent(parent Dataset) { b.parent = parent }

type parentSetter interface {
	SetParent(Dataset)
}

// LoadFile reads a dataset document from path.
func LoadFile(path string, maxDepth int) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}
	store, err := Decode(bytes.NewReader(data), maxDepth)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
			return nil, le
		}
		return nil, &LoadError{Path: path, Cause: err}
	}
	return store, nil
}

// Decode reads a dataset document from r. Parents may be declared after
// their children.
func Decode(r io.Reader, maxDepth int) (*Store, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, &LoadError{Cause: fmt.Errorf("parse document: %w", err)}
	}

	store := NewStore(maxDepth)
	for _, e := range doc.Datasets {
		ds, err := e.build()
		if err != nil {
			return nil, &LoadError{Dataset: e.Name, Cause: err}
		}
		if err := store.Add(ds); err != nil {
			return nil, &LoadError{Dataset: e.Name, Cause: err}
		}
	}

	for _, e := range doc.Datasets {
		if e.Parent == "" {
			continue
		}
		parent, ok := store.Get(e.Parent)
		if !ok {
			return nil, &LoadError{Dataset: e.Name, Cause: fmt.Errorf("parent %q: %w", e.Parent, ErrNotFound)}
		}
		child, _ := store.Get(e.Name)
		child.(parentSetter).SetParent(parent)
	}

	return store, nil
}

func (e *entry) build() (Dataset, error) {
	if e.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	props, err := decodeProperties(&e.Properties)
	if err != nil {
		return nil, err
	}

	switch e.Kind {
	case KindPoints:
		values, dims, err := e.flatten()
		if err != nil {
			return nil, err
		}
		return NewPoints(PointsConfig{
			Name:           e.Name,
			Dimensions:     dims,
			DimensionNames: e.Dimensions,
			Layout:         e.Layout,
			Values:         values,
			Rows:           e.Rows,
			Properties:     props,
		})
	case KindClusters:
		return NewClusters(e.Name, e.Clusters, props)
	case "":
		return nil, fmt.Errorf("kind is required")
	default:
		return nil, fmt.Errorf("unsupported kind %q", e.Kind)
	}
}

// flatten converts the nested values into a flat slice in the entry's layout.
func (e *entry) flatten() ([]float32, int, error) {
	dims := e.NumDimensions
	if dims == 0 {
		dims = len(e.Dimensions)
	}

	if e.Layout == ColumnMajor {
		if dims == 0 {
			dims = len(e.Values)
		}
		if len(e.Values) != dims {
			return nil, 0, fmt.Errorf("column layout: %d columns for %d dimensions", len(e.Values), dims)
		}
		var out []float32
		for d, col := range e.Values {
			if len(col) != len(e.Values[0]) {
				return nil, 0, fmt.Errorf("column %d has %d values, want %d", d, len(col), len(e.Values[0]))
			}
			out = append(out, col...)
		}
		return out, dims, nil
	}

	if dims == 0 && len(e.Values) > 0 {
		dims = len(e.Values[0])
	}
	out := make([]float32, 0, len(e.Values)*dims)
	for i, row := range e.Values {
		if len(row) != dims {
			return nil, 0, fmt.Errorf("row %d has %d values, want %d", i, len(row), dims)
		}
		out = append(out, row...)
	}
	return out, dims, nil
}

// decodeProperties keeps the document order of the properties mapping.
func decodeProperties(node *yaml.Node) (*Properties, error) {
	props := NewProperties()
	if node.Kind == 0 {
		return props, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("properties: expected a mapping")
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("property %q: expected a list", key.Value)
		}
		values := make([]any, 0, len(val.Content))
		for _, item := range val.Content {
			var v any
			if err := item.Decode(&v); err != nil {
				return nil, fmt.Errorf("property %q: %w", key.Value, err)
			}
			values = append(values, v)
		}
		props.Set(key.Value, values)
	}
	return props, nil
}
