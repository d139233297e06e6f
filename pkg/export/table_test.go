package export

import (
	"bytes"
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"cytosight/csvexport/pkg/dataset"
)

// recordingTask captures progress calls.
type recordingTask struct {
	running     int
	finished    int
	progress    []float64
	description string
}

func (r *recordingTask) SetRunning()                     { r.running++ }
func (r *recordingTask) SetProgress(f float64)           { r.progress = append(r.progress, f) }
func (r *recordingTask) SetProgressDescription(d string) { r.description = d }
func (r *recordingTask) SetFinished()                    { r.finished++ }

func mustPoints(t *testing.T, cfg dataset.PointsConfig) *dataset.Points {
	t.Helper()
	p, err := dataset.NewPoints(cfg)
	if err != nil {
		t.Fatalf("NewPoints() failed: %v", err)
	}
	return p
}

func sequence(n int) []float32 {
	values := make([]float32, n)
	for i := range values {
		values[i] = float32(i)
	}
	return values
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"a,b", "a_b"},
		{",,", "__"},
		{"a_b", "a_b"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Sanitize(tt.in)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := Sanitize(got); again != got {
				t.Errorf("Sanitize not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestPointTable_Render(t *testing.T) {
	tests := []struct {
		name   string
		cfg    dataset.PointsConfig
		labels []string
		want   string
		stats  Stats
	}{
		{
			name: "names and values",
			cfg: dataset.PointsConfig{
				DimensionNames: []string{"x", "y"},
				Values:         []float32{1, 2, 3, 4},
			},
			want:  "x,y\n1,2\n3,4\n",
			stats: Stats{Rows: 2, Columns: 2},
		},
		{
			name: "labels are sanitized and get an empty header cell",
			cfg: dataset.PointsConfig{
				DimensionNames: []string{"x", "y"},
				Values:         []float32{1, 2, 3, 4},
			},
			labels: []string{"a,b", "c"},
			want:   ",x,y\na_b,1,2\nc,3,4\n",
			stats:  Stats{Rows: 2, Columns: 3, RowLabels: true},
		},
		{
			name: "labels of the wrong length are ignored",
			cfg: dataset.PointsConfig{
				DimensionNames: []string{"x"},
				Values:         []float32{1, 2},
			},
			labels: []string{"only"},
			want:   "x\n1\n2\n",
			stats:  Stats{Rows: 2, Columns: 1},
		},
		{
			name: "dimension names are sanitized",
			cfg: dataset.PointsConfig{
				DimensionNames: []string{"CD3,CD4", "y"},
				Values:         []float32{1, 2},
			},
			want:  "CD3_CD4,y\n1,2\n",
			stats: Stats{Rows: 1, Columns: 2},
		},
		{
			name: "column major matches row major",
			cfg: dataset.PointsConfig{
				DimensionNames: []string{"x", "y"},
				Layout:         dataset.ColumnMajor,
				Values:         []float32{1, 3, 2, 4},
			},
			want:  "x,y\n1,2\n3,4\n",
			stats: Stats{Rows: 2, Columns: 2},
		},
		{
			name: "shortest round trip floats",
			cfg: dataset.PointsConfig{
				DimensionNames: []string{"v"},
				Values:         []float32{0.1, 1.5, -2, 1e-7, 1e20},
			},
			want:  "v\n0.1\n1.5\n-2\n1e-07\n1e+20\n",
			stats: Stats{Rows: 5, Columns: 1},
		},
		{
			name: "no rows writes header only",
			cfg: dataset.PointsConfig{
				DimensionNames: []string{"x", "y"},
			},
			want:  "x,y\n",
			stats: Stats{Columns: 2},
		},
		{
			name:   "no dimensions with labels keeps the label column",
			cfg:    dataset.PointsConfig{Rows: 2},
			labels: []string{"a", "b"},
			want:   "\na\nb\n",
			stats:  Stats{Rows: 2, Columns: 1, RowLabels: true},
		},
		{
			name:  "no dimensions without labels writes empty lines",
			cfg:   dataset.PointsConfig{Rows: 2},
			want:  "\n\n\n",
			stats: Stats{Rows: 2},
		},
		{
			name: "no dimension names",
			cfg: dataset.PointsConfig{
				Dimensions: 2,
				Values:     []float32{1, 2},
			},
			labels: []string{"a"},
			want:   "\na,1,2\n",
			stats:  Stats{Rows: 1, Columns: 3, RowLabels: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &PointTable{
				Source:    mustPoints(t, tt.cfg),
				RowLabels: tt.labels,
			}

			var buf bytes.Buffer
			stats, err := table.Render(context.Background(), &buf)
			if err != nil {
				t.Fatalf("Render() failed: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Render() output = %q, want %q", buf.String(), tt.want)
			}
			if stats != tt.stats {
				t.Errorf("Render() stats = %+v, want %+v", stats, tt.stats)
			}
		})
	}
}

func TestPointTable_Progress(t *testing.T) {
	task := &recordingTask{}
	table := &PointTable{
		Source: mustPoints(t, dataset.PointsConfig{Dimensions: 1, Values: sequence(25)}),
		Task:   task,
	}

	if _, err := table.Render(context.Background(), &bytes.Buffer{}); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	want := []float64{0.4, 0.8, 1}
	if !reflect.DeepEqual(task.progress, want) {
		t.Errorf("progress = %v, want %v", task.progress, want)
	}
	if task.finished != 1 {
		t.Errorf("finished = %d, want 1", task.finished)
	}
}

func TestPointTable_EmptyStillFinishes(t *testing.T) {
	task := &recordingTask{}
	table := &PointTable{
		Source: mustPoints(t, dataset.PointsConfig{DimensionNames: []string{"x"}}),
		Task:   task,
	}

	if _, err := table.Render(context.Background(), &bytes.Buffer{}); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if !reflect.DeepEqual(task.progress, []float64{1}) || task.finished != 1 {
		t.Errorf("progress = %v finished = %d, want [1] and 1", task.progress, task.finished)
	}
}

func TestPointTable_CancelStopsAtCheckpoint(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	task := &recordingTask{}
	table := &PointTable{
		Source: mustPoints(t, dataset.PointsConfig{Dimensions: 1, Values: sequence(25)}),
		Task:   task,
	}

	var buf bytes.Buffer
	stats, err := table.Render(ctx, &buf)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Render() error = %v, want context.Canceled", err)
	}
	if stats.Rows != ProgressInterval {
		t.Errorf("Rows = %d, want %d", stats.Rows, ProgressInterval)
	}
	if task.finished != 0 {
		t.Error("cancelled render must not report finished")
	}
}

func TestPointTable_RenderProperties(t *testing.T) {
	props := dataset.NewProperties()
	props.Set("unit", []any{"mV", "a,b"})
	props.Set("gain,raw", []any{1.5, 2})

	table := &PointTable{
		Source: mustPoints(t, dataset.PointsConfig{
			DimensionNames: []string{"x", "y,z"},
			Values:         []float32{1, 2},
		}),
		PerColumn: props,
	}
	if !table.HasProperties() {
		t.Fatal("HasProperties() = false, want true")
	}

	var buf bytes.Buffer
	if err := table.RenderProperties(&buf); err != nil {
		t.Fatalf("RenderProperties() failed: %v", err)
	}

	want := ",x,y_z\nunit,mV,a_b\ngain_raw,1.5,2\n"
	if buf.String() != want {
		t.Errorf("RenderProperties() = %q, want %q", buf.String(), want)
	}
}

func TestPointTable_HasPropertiesNil(t *testing.T) {
	table := &PointTable{Source: mustPoints(t, dataset.PointsConfig{Dimensions: 1})}
	if table.HasProperties() {
		t.Error("HasProperties() = true for nil table")
	}
}

func red() dataset.Color  { return dataset.Color{R: 0xff} }
func blue() dataset.Color { return dataset.Color{B: 0xff} }

func TestClusterTable_Render(t *testing.T) {
	tests := []struct {
		name     string
		clusters []dataset.Cluster
		labels   []string
		want     string
		stats    Stats
	}{
		{
			name:     "numeric ids",
			clusters: []dataset.Cluster{{Name: "A", Color: red(), Indices: []int{0, 1}}},
			want:     "ID,Cluster,Color\n0,A,#ff0000\n1,A,#ff0000\n",
			stats:    Stats{Rows: 2, Columns: 3},
		},
		{
			name: "later cluster wins",
			clusters: []dataset.Cluster{
				{Name: "A", Color: red(), Indices: []int{0, 1, 2}},
				{Name: "B", Color: blue(), Indices: []int{1}},
			},
			want:  "ID,Cluster,Color\n0,A,#ff0000\n1,B,#0000ff\n2,A,#ff0000\n",
			stats: Stats{Rows: 3, Columns: 3},
		},
		{
			name:     "holes are omitted",
			clusters: []dataset.Cluster{{Name: "A", Color: red(), Indices: []int{3, 0}}},
			want:     "ID,Cluster,Color\n0,A,#ff0000\n3,A,#ff0000\n",
			stats:    Stats{Rows: 2, Columns: 3, Unassigned: 2},
		},
		{
			name:     "labels replace ids",
			clusters: []dataset.Cluster{{Name: "A,1", Color: red(), Indices: []int{0, 2}}},
			labels:   []string{"s0", "s1", "s,2"},
			want:     "Sample Name,Cluster,Color\ns0,A_1,#ff0000\ns_2,A_1,#ff0000\n",
			stats:    Stats{Rows: 2, Columns: 3, RowLabels: true, Unassigned: 1},
		},
		{
			name:     "labels of the wrong length fall back to ids",
			clusters: []dataset.Cluster{{Name: "A", Color: red(), Indices: []int{0, 1}}},
			labels:   []string{"s0", "s1", "s2"},
			want:     "ID,Cluster,Color\n0,A,#ff0000\n1,A,#ff0000\n",
			stats:    Stats{Rows: 2, Columns: 3},
		},
		{
			name:  "no clusters",
			want:  "ID,Cluster,Color\n",
			stats: Stats{Columns: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &ClusterTable{Clusters: tt.clusters, RowLabels: tt.labels}

			var buf bytes.Buffer
			stats, err := table.Render(context.Background(), &buf)
			if err != nil {
				t.Fatalf("Render() failed: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Render() output = %q, want %q", buf.String(), tt.want)
			}
			if stats != tt.stats {
				t.Errorf("Render() stats = %+v, want %+v", stats, tt.stats)
			}
		})
	}
}

func TestClusterTable_Progress(t *testing.T) {
	indices := make([]int, 20)
	for i := range indices {
		indices[i] = i
	}
	task := &recordingTask{}
	table := &ClusterTable{
		Clusters: []dataset.Cluster{{Name: "A", Color: red(), Indices: indices}},
		Task:     task,
	}

	if _, err := table.Render(context.Background(), &bytes.Buffer{}); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	want := []float64{0.5, 1, 1}
	if !reflect.DeepEqual(task.progress, want) {
		t.Errorf("progress = %v, want %v", task.progress, want)
	}
	if task.finished != 1 {
		t.Errorf("finished = %d, want 1", task.finished)
	}
}

func TestClusterTable_IndexOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		index int
	}{
		{"past limit", dataset.MaxClusterIndex + 1},
		{"max int", math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &recordingTask{}
			table := &ClusterTable{
				Clusters: []dataset.Cluster{{Name: "A", Color: red(), Indices: []int{0, tt.index}}},
				Task:     task,
			}

			var buf bytes.Buffer
			stats, err := table.Render(context.Background(), &buf)
			if !errors.Is(err, dataset.ErrIndexOutOfRange) {
				t.Fatalf("Render() error = %v, want ErrIndexOutOfRange", err)
			}
			if buf.Len() != 0 || stats.Rows != 0 {
				t.Errorf("Render() wrote %q rows=%d, want nothing", buf.String(), stats.Rows)
			}
			if task.finished != 0 {
				t.Error("failed render must not report finished")
			}
		})
	}
}
