package views

import (
	"sort"

	"hrdash/domain/dataset"

	"github.com/montanaflynn/stats"
)

func buildSummary(t *dataset.Table, tg target, includePoints bool) Result {
	var res Result

	labels := []string{AllGroup}
	if tg.group != nil {
		labels = nil
	}
	byGroup := make([][]float64, 1)
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
		res.Total++
	}
	if tg.group != nil {
		labels = tg.group.labels
	}

	res.Summary = make([]GroupSummary, len(labels))
	for g, label := range labels {
		var vals []float64
		if g < len(byGroup) {
			vals = byGroup[g]
		}
		res.Summary[g] = summarize(label, vals, includePoints)
	}
	return res
}

// summarize computes min, quartiles (Tukey halves), max and mean
func summarize(group string, vals []float64, includePoints bool) GroupSummary {
	s := GroupSummary{Group: group, N: len(vals)}
	if len(vals) == 0 {
		s.NoData = true
		return s
	}

	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	s.Min, _ = stats.Min(sorted)
	s.Max, _ = stats.Max(sorted)
	s.Mean, _ = stats.Mean(sorted)
	if len(sorted) == 1 {
		s.Q1, s.Median, s.Q3 = sorted[0], sorted[0], sorted[0]
	} else {
		q, _ := stats.Quartile(sorted)
		s.Q1, s.Median, s.Q3 = q.Q1, q.Q2, q.Q3
	}
	if includePoints {
		s.Points = sorted
	}
	return s
}
