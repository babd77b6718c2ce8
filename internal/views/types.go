package views

// Kind selects the aggregation a view performs
type Kind string

const (
	KindCount     Kind = "count"
	KindHistogram Kind = "histogram"
	KindSummary   Kind = "summary"
)

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	switch k {
	case KindCount, KindHistogram, KindSummary:
		return true
	}
	return false
}

// AllGroup labels the single group of an ungrouped summary
const AllGroup = "all"

// Request names what to aggregate
type Request struct {
	Metric        string `json:"metric" yaml:"metric"`
	Group         string `json:"group,omitempty" yaml:"group,omitempty"`
	Kind          Kind   `json:"kind" yaml:"kind"`
	Bins          int    `json:"bins,omitempty" yaml:"bins,omitempty"`
	IncludePoints bool   `json:"include_points,omitempty" yaml:"include_points,omitempty"`
}

// Result is a rendering-agnostic view. Exactly one of Counts, Histogram or
// Summary is set, matching Request.Kind.
type Result struct {
	Request Request `json:"request"`
	// Total is the number of non-null metric observations aggregated.
	Total int `json:"total"`
	// Missing is the number of rows whose metric value is null.
	Missing int `json:"missing"`
	// Groups lists the group labels in display order; empty when ungrouped.
	Groups []string `json:"groups,omitempty"`

	Counts    *Counts        `json:"counts,omitempty"`
	Histogram *Histogram     `json:"histogram,omitempty"`
	Summary   []GroupSummary `json:"summary,omitempty"`
}

// IsEmpty reports a view with no observations
func (r Result) IsEmpty() bool { return r.Total == 0 }

// Counts holds category (x group) frequencies
type Counts struct {
	Categories []string    `json:"categories"`
	Cells      []CountCell `json:"cells"`
}

// CountCell is one (category, group) frequency
type CountCell struct {
	Category string `json:"category"`
	Group    string `json:"group,omitempty"`
	Count    int    `json:"count"`
}

// Get returns the count of one category, restricted to group when group is non-empty
func (c *Counts) Get(category, group string) int {
	n := 0
	for _, cell := range c.Cells {
		if cell.Category == category && (group == "" || cell.Group == group) {
			n += cell.Count
		}
	}
	return n
}

// ByCategory sums counts over groups
func (c *Counts) ByCategory() map[string]int {
	out := make(map[string]int, len(c.Categories))
	for _, cell := range c.Cells {
		out[cell.Category] += cell.Count
	}
	return out
}

// Histogram holds equal-width bins. Bins are [Lower, Upper) except the last,
// which also includes its upper edge.
type Histogram struct {
	Edges []float64 `json:"edges"`
	Bins  []Bin     `json:"bins"`
}

// Bin is one histogram bucket. ByGroup follows Result.Groups when grouped.
type Bin struct {
	Lower   float64 `json:"lower"`
	Upper   float64 `json:"upper"`
	Count   int     `json:"count"`
	ByGroup []int   `json:"by_group,omitempty"`
}

// GroupSummary is the five-number summary of one group. Groups without
// observations are kept with NoData set so every view shows the same groups.
type GroupSummary struct {
	Group  string    `json:"group"`
	N      int       `json:"n"`
	NoData bool      `json:"no_data,omitempty"`
	Min    float64   `json:"min"`
	Q1     float64   `json:"q1"`
	Median float64   `json:"median"`
	Q3     float64   `json:"q3"`
	Max    float64   `json:"max"`
	Mean   float64   `json:"mean"`
	Points []float64 `json:"points,omitempty"`
}
