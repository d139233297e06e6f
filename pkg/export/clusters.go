package export

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"cytosight/csvexport/pkg/dataset"
)

const (
	// HeaderSampleNames heads a cluster table whose ids are row labels.
	HeaderSampleNames = "Sample Name,Cluster,Color"

	// HeaderIDs heads a cluster table whose ids are row indices.
	HeaderIDs = "ID,Cluster,Color"
)

// ClusterTable renders cluster membership as one line per claimed row.
type ClusterTable struct {
	// Clusters in definition order. A later cluster overrides an earlier
	// one for any shared index.
	Clusters []dataset.Cluster

	// RowLabels replace numeric ids when there is exactly one label per
	// slot, i.e. highest referenced index + 1.
	RowLabels []string

	// Task receives progress. Optional.
	Task Task
}

type clusterRecord struct {
	id    string
	name  string
	color string
}

// records scatters membership into one optional record per index. A nil
// slot is an index no cluster claimed. Indices above
// dataset.MaxClusterIndex fail before anything is allocated.
func (t *ClusterTable) records() ([]*clusterRecord, bool, error) {
	maxIdx := -1
	for _, c := range t.Clusters {
		for _, idx := range c.Indices {
			if idx > dataset.MaxClusterIndex {
				return nil, false, fmt.Errorf("cluster %q index %d: %w", c.Name, idx, dataset.ErrIndexOutOfRange)
			}
			maxIdx = max(maxIdx, idx)
		}
	}

	slots := make([]*clusterRecord, maxIdx+1)
	useLabels := len(t.RowLabels) > 0 && len(t.RowLabels) == len(slots)

	for _, c := range t.Clusters {
		color := c.Color.Hex()
		for _, idx := range c.Indices {
			if idx < 0 {
				continue
			}
			id := strconv.Itoa(idx)
			if useLabels {
				id = t.RowLabels[idx]
			}
			slots[idx] = &clusterRecord{id: id, name: c.Name, color: color}
		}
	}
	return slots, useLabels, nil
}

// Render writes the header and one line per claimed index, in index order.
// Unclaimed indices are omitted.
func (t *ClusterTable) Render(ctx context.Context, w io.Writer) (Stats, error) {
	task := t.Task
	if task == nil {
		task = NopTask{}
	}

	slots, useLabels, err := t.records()
	if err != nil {
		return Stats{Columns: 3}, err
	}
	stats := Stats{Columns: 3, RowLabels: useLabels}

	lw := newLineWriter(w)
	if useLabels {
		lw.field(HeaderSampleNames)
	} else {
		lw.field(HeaderIDs)
	}
	lw.end()

	for i, rec := range slots {
		if rec == nil {
			stats.Unassigned++
			continue
		}
		lw.field(Sanitize(rec.id))
		lw.field(Sanitize(rec.name))
		lw.field(rec.color)
		lw.end()
		stats.Rows++

		if stats.Rows%ProgressInterval == 0 {
			task.SetProgress(float64(i+1) / float64(len(slots)))
			if err := ctx.Err(); err != nil {
				lw.flush()
				return stats, err
			}
		}
	}

	if err := lw.flush(); err != nil {
		return stats, err
	}
	task.SetProgress(1)
	task.SetFinished()
	return stats, nil
}
