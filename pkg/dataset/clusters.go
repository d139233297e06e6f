package dataset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Color is an opaque RGB display color.
type Color struct {
	R, G, B uint8
}

// ParseColor parses "#rgb" or "#rrggbb" (case-insensitive).
func ParseColor(s string) (Color, error) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if ok && len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if !ok || len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid color %q: want #rgb or #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hex renders the color as lowercase "#rrggbb". The output never contains
// the table delimiter.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c Color) String() string { return c.Hex() }

// UnmarshalYAML decodes a color from a hex scalar.
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML encodes the color as a hex scalar.
func (c Color) MarshalYAML() (any, error) { return c.Hex(), nil }

// MaxClusterIndex is the highest row index a cluster may reference. The
// export allocates one slot per index up to the highest one referenced.
const MaxClusterIndex = 1<<26 - 1

// ErrIndexOutOfRange is returned for a cluster index outside
// [0, MaxClusterIndex].
var ErrIndexOutOfRange = errors.New("cluster index out of range")

// Cluster is a named, colored group of row indices. Groups may overlap.
type Cluster struct {
	Name    string `yaml:"name"`
	Color   Color  `yaml:"color"`
	Indices []int  `yaml:"indices"`
}

// Clusters is an in-memory cluster dataset.
type Clusters struct {
	base
	clusters []Cluster
}

// NewClusters builds a cluster dataset. Indices outside
// [0, MaxClusterIndex] are rejected with ErrIndexOutOfRange.
func NewClusters(name string, clusters []Cluster, props *Properties) (*Clusters, error) {
	for _, c := range clusters {
		for _, idx := range c.Indices {
			if idx < 0 || idx > MaxClusterIndex {
				return nil, fmt.Errorf("dataset %q: cluster %q index %d: %w", name, c.Name, idx, ErrIndexOutOfRange)
			}
		}
	}
	return &Clusters{
		base:     base{name: name, props: orEmpty(props)},
		clusters: clusters,
	}, nil
}

// Kind returns KindClusters.
func (c *Clusters) Kind() Kind { return KindClusters }

// Clusters returns the clusters in definition order.
func (c *Clusters) Clusters() []Cluster { return c.clusters }

// RowCount is the parent's row count when a parent exists, otherwise one
// past the highest referenced index.
func (c *Clusters) RowCount() int {
	if c.parent != nil {
		return c.parent.RowCount()
	}
	return c.MaxIndex() + 1
}

// MaxIndex returns the highest referenced index, or -1 if none.
func (c *Clusters) MaxIndex() int {
	maxIdx := -1
	for _, cl := range c.clusters {
		for _, idx := range cl.Indices {
			if idx > maxIdx {
				maxIdx = idx
			}
		}
	}
	return maxIdx
}
