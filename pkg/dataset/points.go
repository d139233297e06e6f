package dataset

import "fmt"

// Layout describes how point values are laid out in memory.
type Layout string

const (
	// RowMajor stores all dimensions of a point contiguously.
	RowMajor Layout = "row"
	// ColumnMajor stores all points of a dimension contiguously.
	ColumnMajor Layout = "column"
)

// PointsConfig describes an in-memory point dataset.
type PointsConfig struct {
	// Name is the dataset name.
	Name string

	// Dimensions is the number of values per point. When zero it is taken
	// from len(DimensionNames).
	Dimensions int

	// DimensionNames holds one name per dimension. May be empty.
	DimensionNames []string

	// Layout is the memory layout of Values. Default: RowMajor.
	Layout Layout

	// Values holds Rows*Dimensions values in Layout order.
	Values []float32

	// Rows is required only when Dimensions is zero; otherwise it is
	// derived from len(Values).
	Rows int

	// Properties are the dataset's own named property lists.
	Properties *Properties
}

// Points is an in-memory point dataset.
type Points struct {
	base
	dims   int
	rows   int
	names  []string
	layout Layout
	values []float32
}

// NewPoints validates cfg and builds a point dataset.
func NewPoints(cfg PointsConfig) (*Points, error) {
	dims := cfg.Dimensions
	if dims == 0 {
		dims = len(cfg.DimensionNames)
	}
	if dims < 0 {
		return nil, fmt.Errorf("dataset %q: negative dimension count %d", cfg.Name, dims)
	}
	if len(cfg.DimensionNames) != 0 && len(cfg.DimensionNames) != dims {
		return nil, fmt.Errorf("dataset %q: %d dimension names for %d dimensions",
			cfg.Name, len(cfg.DimensionNames), dims)
	}

	layout := cfg.Layout
	if layout == "" {
		layout = RowMajor
	}
	if layout != RowMajor && layout != ColumnMajor {
		return nil, fmt.Errorf("dataset %q: unknown layout %q", cfg.Name, layout)
	}

	rows := cfg.Rows
	if dims > 0 {
		if len(cfg.Values)%dims != 0 {
			return nil, fmt.Errorf("dataset %q: %d values do not fill %d dimensions",
				cfg.Name, len(cfg.Values), dims)
		}
		rows = len(cfg.Values) / dims
	} else if len(cfg.Values) != 0 {
		return nil, fmt.Errorf("dataset %q: values given without dimensions", cfg.Name)
	}
	if rows < 0 {
		return nil, fmt.Errorf("dataset %q: negative row count %d", cfg.Name, rows)
	}

	return &Points{
		base:   base{name: cfg.Name, props: orEmpty(cfg.Properties)},
		dims:   dims,
		rows:   rows,
		names:  append([]string(nil), cfg.DimensionNames...),
		layout: layout,
		values: cfg.Values,
	}, nil
}

// Kind returns KindPoints.
func (p *Points) Kind() Kind { return KindPoints }

// RowCount returns the number of points.
func (p *Points) RowCount() int { return p.rows }

// DimensionCount returns the number of values per point.
func (p *Points) DimensionCount() int { return p.dims }

// DimensionNames returns a copy of the dimension names.
func (p *Points) DimensionNames() []string {
	if len(p.names) == 0 {
		return nil
	}
	return append([]string(nil), p.names...)
}

// Layout returns the memory layout of the values.
func (p *Points) Layout() Layout { return p.layout }

// VisitRows walks the points in row order regardless of layout.
func (p *Points) VisitRows(fn func(row int, values []float32) bool) {
	if p.layout == RowMajor {
		for i := 0; i < p.rows; i++ {
			if !fn(i, p.values[i*p.dims:(i+1)*p.dims]) {
				return
			}
		}
		return
	}

	row := make([]float32, p.dims)
	for i := 0; i < p.rows; i++ {
		for d := 0; d < p.dims; d++ {
			row[d] = p.values[d*p.rows+i]
		}
		if !fn(i, row) {
			return
		}
	}
}
