package dataset

import (
	"fmt"
	"strconv"
	"sync/atomic"
)

// Kind identifies the shape of a dataset.
type Kind string

const (
	// KindPoints is a point cloud with named dimensions.
	KindPoints Kind = "points"
	// KindClusters is a set of named, colored groups of row indices.
	KindClusters Kind = "clusters"
)

// SampleNamesProperty is the property holding per-row labels.
const SampleNamesProperty = "Sample Names"

// Dataset is the view of a dataset shared by every kind.
// Implementations are owned by the caller; exporters only read them and
// toggle the advisory lock.
type Dataset interface {
	// Name is the display name, also used to suggest output file names.
	Name() string

	// Kind reports which table layout applies.
	Kind() Kind

	// RowCount is the number of rows (points) the dataset describes.
	RowCount() int

	// Parent returns the dataset this one was derived from, or nil.
	Parent() Dataset

	// Properties returns the named property lists owned by the dataset.
	Properties() *Properties

	// SetLocked toggles the advisory export lock.
	SetLocked(locked bool)

	// Locked reports whether the advisory export lock is held.
	Locked() bool
}

// PointSource is a dataset of numeric points.
type PointSource interface {
	Dataset

	// DimensionCount is the number of values per point.
	DimensionCount() int

	// DimensionNames returns one name per dimension, or nil.
	DimensionNames() []string

	// VisitRows calls fn for every point in row order. The values slice is
	// only valid for the duration of the call. Returning false stops the walk.
	VisitRows(fn func(row int, values []float32) bool)
}

// ClusterSource is a dataset of cluster assignments.
type ClusterSource interface {
	Dataset

	// Clusters returns the clusters in their defined order.
	Clusters() []Cluster
}

// base carries the fields common to every in-memory dataset.
type base struct {
	name   string
	parent Dataset
	props  *Properties
	locked atomic.Bool
}

func orEmpty(props *Properties) *Properties {
	if props == nil {
		return NewProperties()
	}
	return props
}

// Name returns the dataset name.
func (b *base) Name() string { return b.name }

// Parent returns the parent dataset, or nil.
func (b *base) Parent() Dataset { return b.parent }

// Properties returns the dataset's own property lists.
func (b *base) Properties() *Properties { return b.props }

// SetLocked toggles the advisory lock.
func (b *base) SetLocked(locked bool) { b.locked.Store(locked) }

// Locked reports the advisory lock state.
func (b *base) Locked() bool { return b.locked.Load() }

// TryLock sets the lock flag if it was clear and reports whether it did.
func (b *base) TryLock() bool { return b.locked.CompareAndSwap(false, true) }

// FormatScalar renders a property value as text.
// Floats use the shortest representation that round-trips.
func FormatScalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// IsText reports whether v renders as free text rather than a number or bool.
func IsText(v any) bool {
	switch v.(type) {
	case nil, float32, float64, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, bool:
		return false
	default:
		return true
	}
}
