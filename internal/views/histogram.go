package views

import (
	"math"
	"sort"

	"hrdash/domain/dataset"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// buildHistogram bins the non-null metric values of t into n equal-width bins
// spanning the observed min and max of t itself, so edges move with filters.
func buildHistogram(t *dataset.Table, tg target, n int) Result {
	var res Result

	byGroup := make([][]float64, 1)
	all := make([]float64, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		v := t.Value(i, tg.metricIdx)
		if v.Null {
			res.Missing++
			continue
		}
		g := 0
		if tg.group != nil {
			g = tg.group.of(t, i)
		}
		for len(byGroup) <= g {
			byGroup = append(byGroup, nil)
		}
		byGroup[g] = append(byGroup[g], v.Num)
		all = append(all, v.Num)
	}
	res.Total = len(all)

	if len(all) == 0 {
		res.Histogram = &Histogram{Edges: []float64{}, Bins: []Bin{}}
		return res
	}

	edges, dividers := binEdges(floats.Min(all), floats.Max(all), n)

	nGroups := 1
	if tg.group != nil {
		nGroups = tg.group.size()
	}
	for len(byGroup) < nGroups {
		byGroup = append(byGroup, nil)
	}

	bins := make([]Bin, n)
	for i := range bins {
		bins[i] = Bin{Lower: edges[i], Upper: edges[i+1]}
		if tg.group != nil {
			bins[i].ByGroup = make([]int, nGroups)
		}
	}
	for g, vals := range byGroup {
		sorted := append([]float64(nil), vals...)
		sort.Float64s(sorted)
		counts := stat.Histogram(nil, dividers, sorted, nil)
		for i, c := range counts {
			bins[i].Count += int(c)
			if tg.group != nil {
				bins[i].ByGroup[g] = int(c)
			}
		}
	}

	res.Histogram = &Histogram{Edges: edges, Bins: bins}
	return res
}

// binEdges returns the n+1 reported edges and the dividers used for counting.
// Counting bins are half-open, so the last divider sits just above max to
// close the final bin. A zero-width range is widened by half a unit each side.
func binEdges(lo, hi float64, n int) (edges, dividers []float64) {
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	edges = make([]float64, n+1)
	floats.Span(edges, lo, hi)

	dividers = append([]float64(nil), edges...)
	dividers[n] = math.Nextafter(hi, math.Inf(1))
	return edges, dividers
}
