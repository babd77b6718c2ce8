// Package profiling summarizes each column of a table: completeness,
// cardinality, the most frequent labels and, for numeric columns, the shape
// of the distribution.
package profiling

import (
	"sort"

	"hrdash/domain/dataset"
	"hrdash/internal/errors"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// DefaultTopLabels is how many frequent labels a profile lists
const DefaultTopLabels = 5

// ColumnProfile describes one column
type ColumnProfile struct {
	Name        string          `json:"name"`
	Kind        dataset.Kind    `json:"kind"`
	Ordinal     bool            `json:"ordinal,omitempty"`
	Rows        int             `json:"rows"`
	Missing     int             `json:"missing"`
	MissingRate float64         `json:"missing_rate"`
	Distinct    int             `json:"distinct"`
	TopLabels   []LabelCount    `json:"top_labels,omitempty"`
	Numeric     *NumericProfile `json:"numeric,omitempty"`
}

// LabelCount is one label and how often it occurs
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// NumericProfile holds summary statistics of the non-null values
type NumericProfile struct {
	Min      float64 `json:"min"`
	Q1       float64 `json:"q1"`
	Median   float64 `json:"median"`
	Q3       float64 `json:"q3"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Skewness float64 `json:"skewness"`
	Outliers int     `json:"outliers"` // outside 1.5 IQR of the quartiles
}

// Profiler computes column profiles
type Profiler struct {
	topLabels int
}

// NewProfiler creates a profiler listing up to topLabels frequent labels per column
func NewProfiler(topLabels int) *Profiler {
	if topLabels <= 0 {
		topLabels = DefaultTopLabels
	}
	return &Profiler{topLabels: topLabels}
}

// Profile profiles every column in schema order
func (p *Profiler) Profile(t *dataset.Table) []ColumnProfile {
	out := make([]ColumnProfile, 0, t.Schema().Len())
	for i, col := range t.Schema().Columns() {
		out = append(out, p.profile(t, i, col))
	}
	return out
}

// ProfileColumn profiles one column by name
func (p *Profiler) ProfileColumn(t *dataset.Table, name string) (ColumnProfile, error) {
	col, idx, ok := t.Schema().Lookup(name)
	if !ok {
		return ColumnProfile{}, errors.UnknownColumn(name)
	}
	return p.profile(t, idx, col), nil
}

func (p *Profiler) profile(t *dataset.Table, idx int, col dataset.Column) ColumnProfile {
	prof := ColumnProfile{
		Name:    col.Name,
		Kind:    col.Kind,
		Ordinal: col.IsOrdinal(),
		Rows:    t.Len(),
	}

	counts := make(map[string]int)
	var order []dataset.Value
	for i := 0; i < t.Len(); i++ {
		v := t.Value(i, idx)
		if v.Null {
			prof.Missing++
			continue
		}
		label := v.Label()
		if counts[label] == 0 {
			order = append(order, v)
		}
		counts[label]++
	}
	prof.Distinct = len(counts)
	if prof.Rows > 0 {
		prof.MissingRate = float64(prof.Missing) / float64(prof.Rows)
	}
	prof.TopLabels = p.top(col, order, counts)

	if col.IsNumeric() {
		vals, _ := t.Floats(idx)
		prof.Numeric = describe(vals)
	}
	return prof
}

// top returns the most frequent labels; ties keep the column's display order
func (p *Profiler) top(col dataset.Column, order []dataset.Value, counts map[string]int) []LabelCount {
	labels := dataset.OrderLabels(col, order)
	out := make([]LabelCount, 0, len(labels))
	for _, l := range labels {
		out = append(out, LabelCount{Label: l, Count: counts[l]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > p.topLabels {
		out = out[:p.topLabels]
	}
	return out
}

// describe summarizes numeric values; nil when there are none
func describe(vals []float64) *NumericProfile {
	if len(vals) == 0 {
		return nil
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	np := &NumericProfile{}
	np.Min, _ = stats.Min(sorted)
	np.Max, _ = stats.Max(sorted)
	np.Median, _ = stats.Median(sorted)
	np.Mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		_, np.StdDev = stat.MeanStdDev(sorted, nil)
		q, _ := stats.Quartile(sorted)
		np.Q1, np.Q3 = q.Q1, q.Q3
	} else {
		np.Q1, np.Q3 = sorted[0], sorted[0]
	}
	np.Skewness = skewness(sorted, np.StdDev)
	np.Outliers = outliers(sorted, np.Q1, np.Q3)
	return np
}

// skewness is the adjusted Fisher-Pearson sample skewness; 0 below three
// values or without spread
func skewness(data []float64, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}
	return stat.Skew(data, nil)
}

// outliers counts values outside [q1 - 1.5 IQR, q3 + 1.5 IQR]
func outliers(data []float64, q1, q3 float64) int {
	iqr := q3 - q1
	lower, upper := q1-1.5*iqr, q3+1.5*iqr
	n := 0
	for _, x := range data {
		if x < lower || x > upper {
			n++
		}
	}
	return n
}
