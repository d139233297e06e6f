package export

import (
	"cytosight/csvexport/pkg/dataset"
)

// Description reports how Export would treat a dataset without writing
// anything.
type Description struct {
	Dataset string       `json:"dataset"`
	Kind    dataset.Kind `json:"kind"`

	// Rows is the point count, or the slot count (highest index + 1) for
	// clusters.
	Rows int `json:"rows"`

	// Dimensions is zero for clusters.
	Dimensions int `json:"dimensions,omitempty"`

	// Clusters is zero for points.
	Clusters int `json:"clusters,omitempty"`

	// LabelSource names the dataset whose "Sample Names" would label the
	// rows. Empty when none is found.
	LabelSource string `json:"label_source,omitempty"`

	// LabelsUsed is false when labels exist but do not match Rows.
	LabelsUsed bool `json:"labels_used"`

	PerColumn []string `json:"per_column,omitempty"`
	Dropped   []string `json:"dropped,omitempty"`
}

// Describe classifies the side channels of h.Dataset the same way Export
// does. It fails only for cluster indices Export would also reject.
func Describe(h *dataset.Handle) (Description, error) {
	ds := h.Dataset
	d := Description{Dataset: ds.Name(), Kind: ds.Kind()}

	source, labels := labelSource(h.Lineage)

	switch src := ds.(type) {
	case dataset.PointSource:
		d.Rows, d.Dimensions = src.RowCount(), src.DimensionCount()
		c := ClassifyProperties(ds, d.Rows, d.Dimensions)
		if c.RowLabels != nil {
			source, labels = ds.Name(), c.RowLabels
		}
		d.PerColumn = c.PerColumn.Names()
		d.Dropped = c.Dropped
	case dataset.ClusterSource:
		d.Clusters = len(src.Clusters())
		slots, _, err := (&ClusterTable{Clusters: src.Clusters()}).records()
		if err != nil {
			return d, err
		}
		d.Rows = len(slots)
	}

	d.LabelSource = source
	d.LabelsUsed = source != "" && len(labels) == d.Rows
	return d, nil
}

// labelSource is ResolveRowLabels that also reports which dataset matched.
func labelSource(lineage []dataset.Dataset) (string, []string) {
	for _, ds := range lineage {
		if labels, ok := ResolveRowLabels([]dataset.Dataset{ds}); ok {
			return ds.Name(), labels
		}
	}
	return "", nil
}
