package export

import (
	"cytosight/csvexport/pkg/dataset"
)

// ResolveRowLabels returns the first non-empty "Sample Names" property found
// along lineage (self first). Its length is not checked here; each table
// validates it against the row count it describes.
func ResolveRowLabels(lineage []dataset.Dataset) ([]string, bool) {
	for _, ds := range lineage {
		values, ok := ds.Properties().Get(dataset.SampleNamesProperty)
		if ok && len(values) > 0 {
			return toLabels(values), true
		}
	}
	return nil, false
}

// Classification is the result of sorting a dataset's own properties by size.
type Classification struct {
	// RowLabels is set when the dataset carries a "Sample Names" property
	// with exactly one entry per row. It overrides inherited labels.
	RowLabels []string

	// PerColumn holds the properties with one entry per dimension, in
	// first-encounter order.
	PerColumn *dataset.Properties

	// Dropped lists the properties that fit neither shape.
	Dropped []string
}

// ClassifyProperties sorts the properties of ds (not its ancestors) into
// per-row labels, per-column vectors and dropped lists.
func ClassifyProperties(ds dataset.Dataset, rowCount, dimCount int) Classification {
	c := Classification{PerColumn: dataset.NewProperties()}
	props := ds.Properties()

	for _, name := range props.Names() {
		values, _ := props.Get(name)
		switch {
		case name == dataset.SampleNamesProperty:
			if len(values) == rowCount {
				c.RowLabels = toLabels(values)
			} else {
				c.Dropped = append(c.Dropped, name)
			}
		case len(values) == dimCount:
			c.PerColumn.Set(name, values)
		default:
			c.Dropped = append(c.Dropped, name)
		}
	}
	return c
}

func toLabels(values []any) []string {
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = dataset.FormatScalar(v)
	}
	return labels
}
